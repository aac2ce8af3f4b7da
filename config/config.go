// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package config loads the glslc configuration file.
//
// The file is TOML:
//
//	[parse]
//	max-errors = 100
//
//	[link]
//	unused-varying = "warning"   # error | warning | info | ignore
//	check-uniforms = true
//	require-main = false
//
//	[log]
//	level = "warn"               # debug | info | warn | error | silent
//
// Every key is optional; missing keys keep their defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml"

	"github.com/gogpu/glsles/glsl"
	"github.com/gogpu/glsles/internal/logging"
	"github.com/gogpu/glsles/link"
)

// FileName is the configuration file looked up next to the input when no
// path is given.
const FileName = "glslc.toml"

// Config is a validated configuration.
type Config struct {
	MaxErrors     int
	UnusedVarying glsl.Severity
	CheckUniforms bool
	RequireMain   bool
	LogLevel      slog.Level
}

// tomlFile is the configuration as it is encoded in TOML. Pointers tell
// missing keys apart from zero values.
type tomlFile struct {
	Parse *tomlParse `toml:"parse"`
	Link  *tomlLink  `toml:"link"`
	Log   *tomlLog   `toml:"log"`
}

type tomlParse struct {
	MaxErrors *int `toml:"max-errors"`
}

type tomlLink struct {
	UnusedVarying *string `toml:"unused-varying"`
	CheckUniforms *bool   `toml:"check-uniforms"`
	RequireMain   *bool   `toml:"require-main"`
}

type tomlLog struct {
	Level *string `toml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opts := link.DefaultOptions()
	return &Config{
		MaxErrors:     glsl.DefaultMaxErrors,
		UnusedVarying: opts.UnusedVarying,
		CheckUniforms: opts.CheckUniforms,
		RequireMain:   opts.RequireMain,
		LogLevel:      slog.LevelWarn,
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(buff)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a configuration from TOML text.
func Parse(data []byte) (*Config, error) {
	tf := &tomlFile{}
	if err := toml.Unmarshal(data, tf); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	if p := tf.Parse; p != nil && p.MaxErrors != nil {
		if *p.MaxErrors < 0 {
			return nil, fmt.Errorf("config: parse.max-errors must not be negative, got %d", *p.MaxErrors)
		}
		cfg.MaxErrors = *p.MaxErrors
	}

	if l := tf.Link; l != nil {
		if l.UnusedVarying != nil {
			sev, ok := glsl.ParseSeverity(*l.UnusedVarying)
			if !ok {
				return nil, fmt.Errorf("config: link.unused-varying: unknown severity %q", *l.UnusedVarying)
			}
			cfg.UnusedVarying = sev
		}
		if l.CheckUniforms != nil {
			cfg.CheckUniforms = *l.CheckUniforms
		}
		if l.RequireMain != nil {
			cfg.RequireMain = *l.RequireMain
		}
	}

	if l := tf.Log; l != nil && l.Level != nil {
		level, err := logging.ParseLevel(*l.Level)
		if err != nil {
			return nil, fmt.Errorf("config: log.level: %w", err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// LinkOptions returns the linker options of the configuration.
func (c *Config) LinkOptions() link.Options {
	return link.Options{
		UnusedVarying: c.UnusedVarying,
		CheckUniforms: c.CheckUniforms,
		RequireMain:   c.RequireMain,
	}
}

// ParseOptions returns the parser options of the configuration.
func (c *Config) ParseOptions() glsl.ParseOptions {
	return glsl.ParseOptions{MaxErrors: c.MaxErrors}
}
