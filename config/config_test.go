// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"github.com/gogpu/glsles/glsl"
	"github.com/gogpu/glsles/internal/logging"
	"github.com/gogpu/glsles/link"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if diff := pretty.Diff(cfg.LinkOptions(), link.DefaultOptions()); len(diff) > 0 {
		t.Errorf("default link options differ: %v", diff)
	}
	if cfg.ParseOptions().MaxErrors != glsl.DefaultMaxErrors {
		t.Errorf("MaxErrors = %d", cfg.MaxErrors)
	}
	if cfg.RequireMain {
		t.Error("require-main must be opt-in")
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestParseFull(t *testing.T) {
	cfg, err := Parse([]byte(`
[parse]
max-errors = 20

[link]
unused-varying = "error"
check-uniforms = false
require-main = true

[log]
level = "silent"
`))
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		MaxErrors:     20,
		UnusedVarying: glsl.SeverityError,
		CheckUniforms: false,
		RequireMain:   true,
		LogLevel:      logging.LevelSilent,
	}
	if diff := pretty.Diff(cfg, want); len(diff) > 0 {
		t.Errorf("config differs: %v", diff)
	}
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("[link]\nunused-varying = \"ignore\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.UnusedVarying = glsl.SeverityIgnore
	if diff := pretty.Diff(cfg, want); len(diff) > 0 {
		t.Errorf("config differs: %v", diff)
	}
}

func TestParseErrorsNameKey(t *testing.T) {
	tests := []struct {
		name string
		src  string
		key  string
	}{
		{"severity", "[link]\nunused-varying = \"loud\"\n", "link.unused-varying"},
		{"level", "[log]\nlevel = \"trace\"\n", "log.level"},
		{"negative", "[parse]\nmax-errors = -1\n", "parse.max-errors"},
		{"syntax", "[link\n", "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q does not name %q", err, tt.key)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("[parse]\nmax-errors = 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ParseOptions().MaxErrors != 5 {
		t.Errorf("MaxErrors = %d", cfg.MaxErrors)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing file loaded")
	}
}
