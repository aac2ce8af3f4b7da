// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsles is a GLSL ES 1.00 front-end for editors and live-coding
// tools.
//
// It tokenizes and parses shader source into a tree that survives syntax
// errors, type-checks it against the builtin catalogue of the shader's
// stage, checks that a vertex and a fragment shader agree on their
// interface, and offers completion at a cursor position. It never
// generates code.
//
// Example usage:
//
//	vs := glsles.Compile(vertexSource, glsl.StageVertex)
//	fs := glsles.Compile(fragmentSource, glsl.StageFragment)
//	for _, d := range vs.Diagnostics {
//	    fmt.Println(d)
//	}
//	res := glsles.Link(vs, fs, link.DefaultOptions())
//
// The glsl, builtins, check and link packages give access to the
// individual stages.
package glsles

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/glsles/check"
	"github.com/gogpu/glsles/glsl"
	"github.com/gogpu/glsles/internal/logging"
	"github.com/gogpu/glsles/link"
)

// Result is a parsed and checked translation unit.
type Result struct {
	Stage  glsl.Stage
	Source string
	Unit   *glsl.TranslationUnit
	Info   *check.Info

	// Diagnostics holds the parse and check diagnostics in source order.
	Diagnostics glsl.Diagnostics
}

// HasErrors reports whether parsing or checking found an error.
func (r *Result) HasErrors() bool {
	return r.Diagnostics.HasErrors()
}

// Compile parses and checks source with default options.
func Compile(source string, stage glsl.Stage) *Result {
	return CompileWithOptions(source, stage, glsl.ParseOptions{})
}

// CompileWithOptions parses and checks source.
//
// The pipeline is:
//  1. Tokenize and parse into a tree, recovering from syntax errors
//  2. Resolve names and types, annotating the tree in place
//  3. Merge both diagnostic lists in source order
func CompileWithOptions(source string, stage glsl.Stage, opts glsl.ParseOptions) *Result {
	log := logging.Logger()

	unit, parseDiags := glsl.ParseWithOptions(source, stage, opts)
	log.Debug("glsles: parsed",
		slog.String("stage", stage.String()),
		slog.Int("decls", len(unit.Decls)),
		slog.Int("diagnostics", len(parseDiags)),
		slog.Bool("incomplete", unit.IsIncomplete()))

	info := check.Check(unit)
	log.Debug("glsles: checked",
		slog.String("stage", stage.String()),
		slog.Int("globals", len(info.Globals.Symbols)),
		slog.Int("diagnostics", len(info.Diagnostics)))

	diags := make(glsl.Diagnostics, 0, len(parseDiags)+len(info.Diagnostics))
	diags = append(diags, parseDiags...)
	diags = append(diags, info.Diagnostics...)
	diags.Sort()

	return &Result{
		Stage:       stage,
		Source:      source,
		Unit:        unit,
		Info:        info,
		Diagnostics: diags,
	}
}

// CompileBytes decodes data as shader source and compiles it. Input that is
// not text is rejected with an error wrapping glsl.ErrNotText.
func CompileBytes(data []byte, stage glsl.Stage, opts glsl.ParseOptions) (*Result, error) {
	source, err := glsl.DecodeSource(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s shader: %w", stage, err)
	}
	return CompileWithOptions(source, stage, opts), nil
}

// Link checks the interface between a compiled vertex and fragment shader.
func Link(vertex, fragment *Result, opts link.Options) link.Result {
	res := link.Link(vertex.Unit, fragment.Unit, opts)
	logging.Logger().Debug("glsles: linked",
		slog.Int("vertex", len(res.Vertex)),
		slog.Int("fragment", len(res.Fragment)),
		slog.Bool("errors", res.HasErrors()))
	return res
}

// Complete returns the completion items at a byte offset of the compiled
// source.
func Complete(r *Result, offset int) []check.Item {
	return check.Complete(r.Unit, r.Info, offset)
}

// SetLogger configures the logger for all glsles packages.
// Pass nil to disable logging (restore the default silent behavior).
//
// Records are emitted at slog.LevelDebug, one per pass, and carry counts
// only, never source text.
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logging.Logger()
}
