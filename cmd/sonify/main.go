// Command sonify turns a SPECFEM seismogram into audio.
//
// Usage:
//
//	sonify [flags] T_min trace-file duration
//
// T_min is the shortest period in seconds to keep (0 keeps everything up to
// the Nyquist frequency), duration the length of the audio in seconds.
// It writes <NET.STA.CHA.>sonic.raw.wav, sonic.pitched.wav,
// sonic.augmented.wav, sonic.wav and sonic.stereo.wav.
//
// Flags override the YAML configuration only when given:
//
//	-config file         YAML pipeline configuration
//	-out dir             output directory (default ".")
//	-bits n              WAV bit depth: 16, 24 or 32 (default 32)
//	-noise               add background noise at the configured gain
//	-seed n              noise seed; a random seed is drawn and logged otherwise
//	-no-reverb           disable the reverb
//	-localize            write an unbalanced stereo image; takes no value, the
//	                     channel gains come from the configuration (0.9/0.5)
//	-bandpass-envelope   derive each band envelope from a bandpassed trace
//	-harmonize n         snap band tones to scale 0-4 (-1 disables)
//	-workers n           band synthesis workers (0 uses GOMAXPROCS)
//	-v, -quiet           debug logging, or warnings and errors only
//
// Examples:
//
//	sonify 10 OUTPUT_FILES/IU.ANMO.BXZ.semd 20
//	sonify -config sonify.yaml -out audio -bits 16 0 IU.ANMO.BXZ.semd 30
//	sonify -noise -seed 42 -localize 5 IU.ANMO.BXZ.semd 20
//
// In the last example -localize is a switch, so 5 is T_min: periods below 5 s
// are dropped and 20 s of audio are written.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sonify/dsp/buffer"
	"github.com/cwbudde/algo-sonify/dsp/dither"
	"github.com/cwbudde/algo-sonify/dsp/signal"
	"github.com/cwbudde/algo-sonify/internal/specfem"
	"github.com/cwbudde/algo-sonify/internal/wavout"
	"github.com/cwbudde/algo-sonify/sonify"
	timestats "github.com/cwbudde/algo-sonify/stats/time"
)

var errUsage = errors.New("usage: sonify [flags] T_min trace-file duration")

type options struct {
	configPath string
	outDir     string
	bits       int
	seed       uint64
	noise      bool
	noReverb   bool
	localize   bool
	bandpass   bool
	harmonize  int
	workers    int
	verbose    bool
	quiet      bool

	minPeriod float64
	tracePath string
	duration  float64

	set map[string]bool
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	configureLogging(opts, stderr)

	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}
	pipeline, err := sonify.NewPipeline(cfg)
	if err != nil {
		return err
	}

	tr, err := specfem.ReadFile(opts.tracePath)
	if err != nil {
		return err
	}
	res, err := pipeline.Run(tr, opts.duration)
	if err != nil {
		return err
	}

	logBands(res.Bands)

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, out := range outputs(res) {
		path := filepath.Join(opts.outDir, res.Name+out.suffix)
		if err := wavout.WriteFile(path, out.buf, dither.WithBitDepth(opts.bits)); err != nil {
			return err
		}
		logLevels(out)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "run",
		"trace":      res.Name,
		"semitones":  res.Plan.Semitones,
		"speed_up":   res.Plan.SpeedUp,
		"noise_seed": res.NoiseSeed,
	}).Info("Done")
	return nil
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("sonify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "YAML pipeline configuration")
	fs.StringVar(&o.outDir, "out", ".", "output directory")
	fs.IntVar(&o.bits, "bits", 32, "WAV bit depth (16, 24 or 32)")
	fs.Uint64Var(&o.seed, "seed", 0, "noise seed (random when unset)")
	fs.BoolVar(&o.noise, "noise", false, "add background noise")
	fs.BoolVar(&o.noReverb, "no-reverb", false, "disable the reverb")
	fs.BoolVar(&o.localize, "localize", false, "write an unbalanced stereo image (takes no value)")
	fs.BoolVar(&o.bandpass, "bandpass-envelope", false, "derive each band envelope from a bandpassed trace")
	fs.IntVar(&o.harmonize, "harmonize", -1, "snap bands to scale 0-4 (-1 disables)")
	fs.IntVar(&o.workers, "workers", 0, "band synthesis workers (0 uses GOMAXPROCS)")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.BoolVar(&o.quiet, "quiet", false, "only log warnings and errors")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sonify [flags] T_min trace-file duration\n\n")
		fmt.Fprintf(stderr, "Sonifies a SPECFEM ASCII seismogram into WAV files.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() != 3 {
		fs.Usage()
		return nil, errUsage
	}
	var err error
	if o.minPeriod, err = strconv.ParseFloat(fs.Arg(0), 64); err != nil || o.minPeriod < 0 {
		return nil, fmt.Errorf("T_min must be a number >= 0: %q", fs.Arg(0))
	}
	o.tracePath = fs.Arg(1)
	if o.duration, err = strconv.ParseFloat(fs.Arg(2), 64); err != nil || o.duration <= 0 {
		return nil, fmt.Errorf("duration must be a positive number: %q", fs.Arg(2))
	}

	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

func configureLogging(o *options, w io.Writer) {
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	switch {
	case o.verbose:
		logrus.SetLevel(logrus.DebugLevel)
	case o.quiet:
		logrus.SetLevel(logrus.WarnLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// buildConfig loads the YAML file, if any, and applies the flags that were
// given explicitly on top of it.
func buildConfig(o *options) (sonify.PipelineConfig, error) {
	cfg := sonify.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = sonify.LoadConfig(o.configPath); err != nil {
			return sonify.PipelineConfig{}, err
		}
	}

	var mods []sonify.Option
	if o.minPeriod > 0 {
		mods = append(mods, sonify.WithMinPeriod(o.minPeriod))
	}
	if o.noise {
		mods = append(mods, sonify.WithNoise(cfg.Noise.Gain))
	}
	if o.set["seed"] {
		mods = append(mods, sonify.WithSeed(o.seed))
	}
	if o.noReverb {
		mods = append(mods, sonify.WithoutReverb())
	}
	if o.localize {
		mods = append(mods, sonify.WithLocalization(cfg.Localization.LeftGain, cfg.Localization.RightGain))
	}
	if o.bandpass {
		mods = append(mods, sonify.WithBandpassEnvelope(true))
	}
	if o.harmonize >= 0 {
		mods = append(mods, sonify.WithHarmonizer(signal.ScaleType(o.harmonize)))
	}
	if o.set["workers"] {
		mods = append(mods, sonify.WithWorkers(o.workers))
	}

	cfg = cfg.With(mods...)
	if err := cfg.Validate(); err != nil {
		return sonify.PipelineConfig{}, err
	}
	return cfg, nil
}

// logLevels reports the per-channel level of a written layer at debug level.
func logLevels(out output) {
	for c := range out.buf.Channels() {
		st := timestats.Calculate(out.buf.Channel(c))
		logrus.WithFields(logrus.Fields{
			"function": "logLevels",
			"file":     out.suffix,
			"channel":  c,
			"peak_db":  st.PeakdB,
			"rms_db":   st.RMSdB,
			"crest_db": st.CrestFactordB,
		}).Debug("Output level")
	}
}

// logBands reports the augmented-layer band layout at debug level.
func logBands(bands []sonify.Band) {
	for _, b := range bands {
		logrus.WithFields(logrus.Fields{
			"function":   "logBands",
			"band":       b.Index,
			"low":        b.Low,
			"high":       b.High,
			"audio_freq": b.AudioFreq,
			"note":       b.Note,
		}).Debug("Band layout")
	}
}

type output struct {
	suffix string
	buf    *buffer.AudioBuffer
}

func outputs(res *sonify.Result) []output {
	outs := []output{
		{"sonic.raw.wav", res.Raw},
		{"sonic.pitched.wav", res.Pitched},
	}
	if res.Augmented != nil {
		outs = append(outs, output{"sonic.augmented.wav", res.Augmented})
	}
	return append(outs,
		output{"sonic.wav", res.Mono},
		output{"sonic.stereo.wav", res.Stereo},
	)
}
