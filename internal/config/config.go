// Package config loads server and detector settings from a YAML file.
//
// The detector's thresholds are empirically tuned constants; carrying
// them in a config file lets a deployment adjust them for a different
// strip brand or camera without a rebuild.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/striplab/assay-tools-mcp/internal/linedetect"
)

// Config is the full runtime configuration of the server.
type Config struct {
	// Strategy selects the default detection heuristic:
	// "red-line" or "dark-region".
	Strategy string `yaml:"strategy"`

	// DenoiseSigma, when positive, Gaussian-blurs rasters before
	// detection. Off by default to keep detection bit-reproducible on
	// the raw pixels.
	DenoiseSigma float64 `yaml:"denoise_sigma"`

	// Workers bounds batch concurrency; 0 means one worker per CPU.
	Workers int `yaml:"workers"`

	// OCRLanguage is the Tesseract language for strip label reading.
	OCRLanguage string `yaml:"ocr_language"`

	// Detector overrides individual detection parameters. Fields left
	// zero keep their tuned defaults.
	Detector linedetect.Params `yaml:"detector"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Strategy:    linedetect.StrategyRedLine,
		OCRLanguage: "eng",
		Detector:    linedetect.DefaultParams(),
	}
}

// Load reads a YAML config file and merges it over the defaults.
// An empty path returns Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if file.Strategy != "" {
		cfg.Strategy = file.Strategy
	}
	if file.DenoiseSigma > 0 {
		cfg.DenoiseSigma = file.DenoiseSigma
	}
	if file.Workers > 0 {
		cfg.Workers = file.Workers
	}
	if file.OCRLanguage != "" {
		cfg.OCRLanguage = file.OCRLanguage
	}
	cfg.Detector = cfg.Detector.Merge(file.Detector)

	if _, err := linedetect.New(cfg.Strategy, cfg.Detector); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
