// Package sonify turns a slowly sampled displacement trace into audio.
//
// A Pipeline resolves a PipelineConfig once and runs three layers over the
// trace:
//
//   - raw: the trace re-gridded to the audio rate and normalized
//   - pitched: the re-gridded trace shifted up by whole semitones so its
//     Nyquist frequency lands near the top of the audible range
//   - augmented: one synthetic tone per frequency band, shaped by the trace
//     envelope and optionally by the local spectral amplitude of the band
//
// The pitched and augmented layers are mixed, normalized, optionally
// reverberated and noised, and finally duplicated into a stereo pair.
//
// Re-gridding uses the sample interval speedup/sampleRate, so playing any
// layer back at the configured sample rate compresses the trace duration to
// the requested audio duration.
package sonify
