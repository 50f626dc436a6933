package sonify

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ParseConfig decodes YAML over DefaultConfig and validates the result.
// Unknown keys are rejected. An empty document yields the defaults.
func ParseConfig(data []byte) (PipelineConfig, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return PipelineConfig{}, fmt.Errorf("%w: decode yaml: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return PipelineConfig{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (PipelineConfig, error) {
	logrus.WithFields(logrus.Fields{
		"function": "LoadConfig",
		"path":     path,
	}).Debug("Loading pipeline configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return PipelineConfig{}, fmt.Errorf("sonify: read config: %w", err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "LoadConfig",
			"path":     path,
			"error":    err.Error(),
		}).Warn("Rejected pipeline configuration")
		return PipelineConfig{}, fmt.Errorf("%s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "LoadConfig",
		"path":        path,
		"sample_rate": cfg.SampleRate,
		"bands":       cfg.Bands,
	}).Info("Pipeline configuration loaded")
	return cfg, nil
}
