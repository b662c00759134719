// Package config carries pipeline settings, loaded from an optional YAML file
// with PDF2TEXT_* environment variables as overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// StrategyImage rasterizes and OCRs each page image directly.
	StrategyImage = "image"
	// StrategyDirect embeds a searchable text layer into a copy of the PDF
	// and extracts the embedded text per page.
	StrategyDirect = "direct"
)

type Config struct {
	Strategy   string  `yaml:"strategy"`
	DPI        float64 `yaml:"dpi"`
	Language   string  `yaml:"language"`
	Preprocess bool    `yaml:"preprocess"`
	ForceOCR   bool    `yaml:"force_ocr"`
	Parallel   bool    `yaml:"parallel"`
}

// Default returns the configuration used when nothing else is supplied:
// image strategy, 300 DPI, English, preprocessing on.
func Default() Config {
	return Config{
		Strategy:   StrategyImage,
		DPI:        300,
		Language:   "eng",
		Preprocess: true,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// FromEnv applies PDF2TEXT_* environment variables over cfg.
func FromEnv(cfg Config) Config {
	if v := os.Getenv("PDF2TEXT_STRATEGY"); v != "" {
		cfg.Strategy = v
	}
	if v := os.Getenv("PDF2TEXT_DPI"); v != "" {
		if dpi, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DPI = dpi
		}
	}
	if v := os.Getenv("PDF2TEXT_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("PDF2TEXT_PREPROCESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Preprocess = b
		}
	}
	if v := os.Getenv("PDF2TEXT_FORCE_OCR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ForceOCR = b
		}
	}
	if v := os.Getenv("PDF2TEXT_PARALLEL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Parallel = b
		}
	}
	return cfg
}

func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyImage, StrategyDirect:
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %v", c.DPI)
	}
	if c.Language == "" {
		return fmt.Errorf("language must not be empty")
	}
	return nil
}
