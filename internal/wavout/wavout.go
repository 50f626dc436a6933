// Package wavout writes AudioBuffers as PCM WAV files.
package wavout

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sonify/dsp/buffer"
	"github.com/cwbudde/algo-sonify/dsp/dither"
)

const wavFormatPCM = 1

var (
	// ErrUnsupportedBitDepth reports a PCM word length other than 16, 24 or 32.
	ErrUnsupportedBitDepth = errors.New("wavout: unsupported bit depth")

	// ErrNonFinite reports NaN or Inf samples, which have no PCM code.
	ErrNonFinite = errors.New("wavout: non-finite sample")

	// ErrInvalidFile reports input that is not a readable WAV file.
	ErrInvalidFile = errors.New("wavout: invalid WAV file")
)

// Encode quantizes buf and writes it to w as PCM WAV. Options configure the
// quantizer; the default is 16 bit with triangular dither.
func Encode(w io.WriteSeeker, buf *buffer.AudioBuffer, opts ...dither.Option) error {
	if buf == nil {
		return errors.New("wavout: nil buffer")
	}
	q, err := dither.NewQuantizer(opts...)
	if err != nil {
		return err
	}
	switch q.BitDepth() {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, q.BitDepth())
	}

	samples := buf.Interleaved()
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w at index %d", ErrNonFinite, i)
		}
	}

	codes := make([]int, len(samples))
	if err := q.QuantizeBlock(codes, samples); err != nil {
		return err
	}

	sampleRate := int(math.Round(buf.SampleRate()))
	pcm := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: buf.Channels(),
			SampleRate:  sampleRate,
		},
		Data:           codes,
		SourceBitDepth: q.BitDepth(),
	}

	enc := wav.NewEncoder(w, sampleRate, q.BitDepth(), buf.Channels(), wavFormatPCM)
	if err := enc.Write(pcm); err != nil {
		return fmt.Errorf("wavout: write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavout: finalize header: %w", err)
	}
	return nil
}

// WriteFile creates path and encodes buf into it.
func WriteFile(path string, buf *buffer.AudioBuffer, opts ...dither.Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavout: create %s: %w", path, err)
	}

	if err := Encode(f, buf, opts...); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("wavout: close %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "WriteFile",
		"path":     path,
		"channels": buf.Channels(),
		"frames":   buf.Len(),
		"rate":     buf.SampleRate(),
		"peak":     buf.Peak(),
	}).Info("Wrote WAV file")
	return nil
}

// Decode reads a PCM WAV stream back into a normalized AudioBuffer and
// reports its bit depth.
func Decode(r io.ReadSeeker) (*buffer.AudioBuffer, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, ErrInvalidFile
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("wavout: read PCM: %w", err)
	}

	bits := int(dec.BitDepth)
	nch := int(dec.NumChans)
	if nch < 1 || nch > 2 {
		return nil, 0, fmt.Errorf("%w: %d channels", ErrInvalidFile, nch)
	}
	full := math.Exp2(float64(bits-1)) - 1

	frames := len(pcm.Data) / nch
	channels := make([][]float64, nch)
	for c := range channels {
		channels[c] = make([]float64, frames)
	}
	for i := 0; i < frames*nch; i++ {
		channels[i%nch][i/nch] = float64(pcm.Data[i]) / full
	}

	out, err := buffer.New(float64(dec.SampleRate), channels...)
	if err != nil {
		return nil, 0, err
	}
	return out, bits, nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*buffer.AudioBuffer, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("wavout: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
