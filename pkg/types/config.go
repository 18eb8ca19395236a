// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// EngineConfig locates the external engines. Empty binary names fall back
// to the tool's usual name on PATH.
type EngineConfig struct {
	// Vtracer is the raster-to-vector tracer binary.
	Vtracer string `json:"vtracer" yaml:"vtracer" mapstructure:"vtracer"`

	// Rsvg is the rsvg-convert binary used for SVG to PNG and PDF.
	Rsvg string `json:"rsvg" yaml:"rsvg" mapstructure:"rsvg"`

	// Inkscape is the fallback SVG exporter.
	Inkscape string `json:"inkscape" yaml:"inkscape" mapstructure:"inkscape"`

	// Pdftoppm is the poppler page renderer used for PDF to PNG.
	Pdftoppm string `json:"pdftoppm" yaml:"pdftoppm" mapstructure:"pdftoppm"`

	// Image is an optional container image that carries rsvg-convert and
	// pdftoppm. When set, engines missing on PATH run inside it through
	// docker or podman.
	Image string `json:"image,omitempty" yaml:"image,omitempty" mapstructure:"image"`

	// Timeout bounds a single engine invocation (0 = no limit).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// DefaultsConfig holds the default rendering parameters.
type DefaultsConfig struct {
	DPI   int     `json:"dpi" yaml:"dpi" mapstructure:"dpi"`
	Scale float64 `json:"scale" yaml:"scale" mapstructure:"scale"`
}

// HistoryConfig controls the conversion history database.
type HistoryConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" yaml:"path" mapstructure:"path"`
}

// FetchConfig holds settings for downloading remote inputs.
type FetchConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is sent with every request (e.g. "vectorconv/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on 429 and 503 responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// Config groups the configuration of every component.
type Config struct {
	Engines  EngineConfig   `json:"engines" yaml:"engines" mapstructure:"engines"`
	Defaults DefaultsConfig `json:"defaults" yaml:"defaults" mapstructure:"defaults"`
	History  HistoryConfig  `json:"history" yaml:"history" mapstructure:"history"`
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
}

// DefaultConfig returns the configuration used when no file or
// environment override is present.
func DefaultConfig() Config {
	return Config{
		Engines: EngineConfig{
			Vtracer:  "vtracer",
			Rsvg:     "rsvg-convert",
			Inkscape: "inkscape",
			Pdftoppm: "pdftoppm",
			Timeout:  5 * time.Minute,
		},
		Defaults: DefaultsConfig{DPI: DefaultDPI, Scale: 1.0},
		History:  HistoryConfig{Enabled: true, Path: ".vectorconv/history.db"},
		Fetch: FetchConfig{
			Timeout:    60 * time.Second,
			UserAgent:  "vectorconv/0.1",
			MaxRetries: 5,
		},
	}
}
