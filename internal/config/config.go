// Package config holds the CLI's file-based configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Browser selection values.
const (
	BrowserAuto     = "auto"
	BrowserRod      = "rod"
	BrowserChromedp = "chromedp"
)

// Validation errors. Sentinel values so callers can match with errors.Is.
var (
	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBrowser is returned when the browser setting is not one of
	// auto, rod or chromedp.
	ErrInvalidBrowser = errors.New("invalid browser: must be auto, rod or chromedp")
)

// Config is the optional .storytracker.yaml file.
type Config struct {
	// UserAgent used when capturing live pages.
	UserAgent string `yaml:"user_agent"`

	// TimeoutSeconds is the capture request timeout.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// OutputDir is where new archives are written.
	OutputDir string `yaml:"output_dir"`

	// Browser picks the rendering backend: auto, rod or chromedp.
	Browser string `yaml:"browser"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		UserAgent:      "storytracker/1.0",
		TimeoutSeconds: 10,
		OutputDir:      ".",
		Browser:        BrowserAuto,
	}
}

// Load reads a yaml config file, filling unset fields from Default. A
// missing file is not an error; it just means defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = Default().UserAgent
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Browser == "" {
		cfg.Browser = BrowserAuto
	}
	return cfg, nil
}

// Validate checks the configuration for caller mistakes.
func (c *Config) Validate() error {
	if c.TimeoutSeconds <= 0 {
		return ErrInvalidTimeout
	}
	switch c.Browser {
	case BrowserAuto, BrowserRod, BrowserChromedp:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBrowser, c.Browser)
	}
	return nil
}

// Timeout returns the capture timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
