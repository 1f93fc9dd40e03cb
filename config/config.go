// SPDX-License-Identifier: MIT

// Package config loads fit and render settings from YAML.
//
// A file only needs the keys it changes; everything else keeps the value from
// Default. Load validates the merged result.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/gaussmix/gmm"
)

// ErrInvalid reports a configuration value outside its domain.
var ErrInvalid = errors.New("config: invalid value")

// Config is the root of a gaussmix YAML file.
type Config struct {
	Fit    FitConfig    `yaml:"fit"`
	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
}

// FitConfig drives model selection.
type FitConfig struct {
	MinComponents      int     `yaml:"min_components"`
	MaxComponents      int     `yaml:"max_components"`
	RegularizingFactor float64 `yaml:"regularizing_factor"`
	StoppingThreshold  float64 `yaml:"stopping_threshold"`
	MaxIterations      int     `yaml:"max_iterations"`
	Restarts           int     `yaml:"restarts"`
	Seed               uint64  `yaml:"seed"`
	Covariance         string  `yaml:"covariance"`
	Workers            int     `yaml:"workers"`
	MapScale           float64 `yaml:"map_scale"`
}

// RenderConfig drives likelihood map output.
type RenderConfig struct {
	Rows      int     `yaml:"rows"`
	Cols      int     `yaml:"cols"`
	Channels  int     `yaml:"channels"`
	Padding   float64 `yaml:"padding"`
	PNG       string  `yaml:"png,omitempty"`
	Raw       string  `yaml:"raw,omitempty"`
	LowColor  string  `yaml:"low_color"`
	HighColor string  `yaml:"high_color"`
	Labels    bool    `yaml:"labels"`
}

// LogConfig selects the log level ("debug", "info", "warn", ...).
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Fit: FitConfig{
			MinComponents:      1,
			MaxComponents:      6,
			RegularizingFactor: 1e-6,
			StoppingThreshold:  1e-4,
			MaxIterations:      gmm.DefaultMaxIterations,
			Restarts:           gmm.DefaultRestarts,
			Seed:               gmm.DefaultSeed,
			Covariance:         gmm.DefaultKind.String(),
			Workers:            gmm.DefaultWorkers,
			MapScale:           gmm.DefaultMapScale,
		},
		Render: RenderConfig{
			Rows:      240,
			Cols:      320,
			Channels:  1,
			LowColor:  "#000033",
			HighColor: "#ffe600",
			Labels:    true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func invalid(field string, v any) error {
	return fmt.Errorf("%w: %s=%v", ErrInvalid, field, v)
}

// Validate checks every field. Range checks mirror the ones ModelData and
// the renderer perform, so a valid file never fails late on configuration.
func (c *Config) Validate() error {
	f := c.Fit
	switch {
	case f.MinComponents < 1:
		return invalid("fit.min_components", f.MinComponents)
	case f.MaxComponents < f.MinComponents:
		return invalid("fit.max_components", f.MaxComponents)
	case !finite(f.RegularizingFactor) || f.RegularizingFactor < 0:
		return invalid("fit.regularizing_factor", f.RegularizingFactor)
	case !finite(f.StoppingThreshold) || f.StoppingThreshold <= 0:
		return invalid("fit.stopping_threshold", f.StoppingThreshold)
	case f.MaxIterations < 1:
		return invalid("fit.max_iterations", f.MaxIterations)
	case f.Restarts < 1:
		return invalid("fit.restarts", f.Restarts)
	case f.Workers < 1:
		return invalid("fit.workers", f.Workers)
	case !finite(f.MapScale) || f.MapScale <= 0:
		return invalid("fit.map_scale", f.MapScale)
	}
	if _, err := gmm.ParseKind(f.Covariance); err != nil {
		return invalid("fit.covariance", f.Covariance)
	}

	r := c.Render
	switch {
	case r.Rows < 1:
		return invalid("render.rows", r.Rows)
	case r.Cols < 1:
		return invalid("render.cols", r.Cols)
	case r.Channels != 1 && r.Channels != 3 && r.Channels != 4:
		return invalid("render.channels", r.Channels)
	case !finite(r.Padding) || r.Padding < 0:
		return invalid("render.padding", r.Padding)
	}
	if _, _, err := r.Colors(); err != nil {
		return err
	}
	if _, err := c.Log.ZerologLevel(); err != nil {
		return invalid("log.level", c.Log.Level)
	}

	return nil
}

// GMMOptions translates the fit section into gmm options. The logger and
// metrics are supplied by the caller.
func (f FitConfig) GMMOptions() ([]gmm.Option, error) {
	kind, err := gmm.ParseKind(f.Covariance)
	if err != nil {
		return nil, err
	}

	return []gmm.Option{
		gmm.WithCovariance(kind),
		gmm.WithMaxIterations(f.MaxIterations),
		gmm.WithRestarts(f.Restarts),
		gmm.WithSeed(f.Seed),
		gmm.WithWorkers(f.Workers),
		gmm.WithMapScale(f.MapScale),
	}, nil
}

// Colors parses the heat-map ramp end points.
func (r RenderConfig) Colors() (low, high colorful.Color, err error) {
	if low, err = colorful.Hex(r.LowColor); err != nil {
		return low, high, invalid("render.low_color", r.LowColor)
	}
	if high, err = colorful.Hex(r.HighColor); err != nil {
		return low, high, invalid("render.high_color", r.HighColor)
	}

	return low, high, nil
}

// ZerologLevel parses the level; an empty level means info.
func (l LogConfig) ZerologLevel() (zerolog.Level, error) {
	if l.Level == "" {
		return zerolog.InfoLevel, nil
	}

	return zerolog.ParseLevel(l.Level)
}
