// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command glslc checks GLSL ES 1.00 shaders.
//
// Usage:
//
//	glslc [options] <command> <input>
//
// Commands:
//
//	dump <file>                       write <file>.ast, the JSON syntax tree
//	check <file>                      print parse and type diagnostics
//	link <vertex> --fragment <file>   check the vertex/fragment interface
//
// Options:
//
//	--config, -c     path to a glslc.toml file
//	--loglevel, -ll  debug | info | warn | error | silent
//	--stage, -s      vertex | fragment (default: from the file extension)
//	--no-color, -nc  plain output
//
// The stage is inferred from .vert/.vs and .frag/.fs extensions. Without
// --config, a glslc.toml next to the input is used when present.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ComedicChimera/olive"

	"github.com/gogpu/glsles"
	"github.com/gogpu/glsles/config"
	"github.com/gogpu/glsles/glsl"
	"github.com/gogpu/glsles/internal/logging"
	"github.com/gogpu/glsles/report"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code: 0 on
// success, 1 when the shader has errors, 2 on usage or I/O errors.
func run(args []string, stdout, stderr io.Writer) int {
	cli := olive.NewCLI("glslc", "glslc checks GLSL ES 1.00 shaders", true)
	cli.AddStringArg("config", "c", "path to the configuration file", false)
	cli.AddSelectorArg("loglevel", "ll", "the log level", false, []string{"debug", "info", "warn", "error", "silent"})
	cli.AddSelectorArg("stage", "s", "the shader stage", false, []string{"vertex", "fragment"})
	cli.AddFlag("no-color", "nc", "disable colored output")

	dumpCmd := cli.AddSubcommand("dump", "write the syntax tree as JSON", true)
	dumpCmd.AddPrimaryArg("file", "the shader source file", true)

	checkCmd := cli.AddSubcommand("check", "print parse and type diagnostics", true)
	checkCmd.AddPrimaryArg("file", "the shader source file", true)

	linkCmd := cli.AddSubcommand("link", "check the vertex/fragment interface", true)
	linkCmd.AddPrimaryArg("vertex", "the vertex shader source file", true)
	linkCmd.AddStringArg("fragment", "f", "the fragment shader source file", true)

	errp := report.NewPrinter(stderr, "", "")
	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		errp.Message(glsl.SeverityError, "CLI Usage Error", err.Error())
		return 2
	}

	a := &app{stdout: stdout, stderr: stderr, color: !result.HasFlag("no-color")}
	errp.Color = a.color
	if v, ok := result.Arguments["stage"]; ok {
		a.stage, _ = glsl.ParseStage(v.(string))
		a.stageSet = true
	}
	if v, ok := result.Arguments["config"]; ok {
		a.configPath = v.(string)
	}
	if v, ok := result.Arguments["loglevel"]; ok {
		a.logLevel = v.(string)
	}

	subcmdName, subResult, ok := result.Subcommand()
	if !ok {
		errp.Message(glsl.SeverityError, "CLI Usage Error", "expected one of the commands dump, check or link")
		return 2
	}
	primary, _ := subResult.PrimaryArg()
	if err := a.setup(primary); err != nil {
		errp.Message(glsl.SeverityError, "Config Error", err.Error())
		return 2
	}

	switch subcmdName {
	case "dump":
		return a.dump(primary)
	case "check":
		return a.check(primary)
	case "link":
		return a.link(primary, subResult.Arguments["fragment"].(string))
	}
	return 2
}

type app struct {
	stdout, stderr io.Writer
	color          bool

	stage      glsl.Stage
	stageSet   bool
	configPath string
	logLevel   string

	cfg *config.Config
}

// setup loads the configuration and installs the logger.
func (a *app) setup(input string) error {
	path := a.configPath
	if path == "" {
		candidate := filepath.Join(filepath.Dir(input), config.FileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	a.cfg = config.Default()
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	if a.logLevel != "" {
		level, err := parseLevel(a.logLevel)
		if err != nil {
			return err
		}
		a.cfg.LogLevel = level
	}
	glsles.SetLogger(slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: a.cfg.LogLevel})))
	return nil
}

// stageOf returns the stage of path: the --stage option, or the one named
// by the file extension.
func (a *app) stageOf(path string) (glsl.Stage, error) {
	if a.stageSet {
		return a.stage, nil
	}
	return stageFromExt(path)
}

func stageFromExt(path string) (glsl.Stage, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if stage, ok := glsl.ParseStage(ext); ok {
		return stage, nil
	}
	return 0, fmt.Errorf("cannot infer the stage of %s: use a .vert or .frag extension, or --stage", path)
}

// compile reads, decodes and compiles path, reporting I/O and decoding
// errors on stderr.
func (a *app) compile(path string, stage glsl.Stage) (*glsles.Result, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.fail("File Error", err)
		return nil, false
	}
	r, err := glsles.CompileBytes(data, stage, a.cfg.ParseOptions())
	if err != nil {
		if errors.Is(err, glsl.ErrNotText) {
			err = fmt.Errorf("%s: %w", path, err)
		}
		a.fail("Input Error", err)
		return nil, false
	}
	return r, true
}

// fail reports an error that has no source location on stderr.
func (a *app) fail(tag string, err error) {
	p := report.NewPrinter(a.stderr, "", "")
	p.Color = a.color
	p.Message(glsl.SeverityError, tag, err.Error())
}

func (a *app) printer(file, source string) *report.Printer {
	p := report.NewPrinter(a.stdout, file, source)
	p.Color = a.color
	return p
}

func (a *app) check(path string) int {
	stage, err := a.stageOf(path)
	if err != nil {
		a.fail("Stage Error", err)
		return 2
	}
	r, ok := a.compile(path, stage)
	if !ok {
		return 2
	}
	a.printer(path, r.Source).PrintAll(r.Diagnostics)
	if r.HasErrors() {
		return 1
	}
	return 0
}

func (a *app) dump(path string) int {
	stage, err := a.stageOf(path)
	if err != nil {
		a.fail("Stage Error", err)
		return 2
	}
	r, ok := a.compile(path, stage)
	if !ok {
		return 2
	}
	data, err := glsl.Marshal(r.Unit, glsl.TreeOptions{})
	if err != nil {
		a.fail("Dump Error", err)
		return 2
	}
	out := path + ".ast"
	if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
		a.fail("File Error", err)
		return 2
	}
	p := a.printer(path, r.Source)
	if len(r.Diagnostics) > 0 {
		p.PrintAll(r.Diagnostics)
	}
	p.Message(glsl.SeverityInfo, "Wrote", out)
	return 0
}

func (a *app) link(vertexPath, fragmentPath string) int {
	vs, ok := a.compile(vertexPath, glsl.StageVertex)
	if !ok {
		return 2
	}
	fs, ok := a.compile(fragmentPath, glsl.StageFragment)
	if !ok {
		return 2
	}

	res := glsles.Link(vs, fs, a.cfg.LinkOptions())
	vp, fp := a.printer(vertexPath, vs.Source), a.printer(fragmentPath, fs.Source)
	for _, d := range vs.Diagnostics {
		vp.Print(d)
	}
	for _, d := range res.Vertex {
		vp.Print(d)
	}
	for _, d := range fs.Diagnostics {
		fp.Print(d)
	}
	for _, d := range res.Fragment {
		fp.Print(d)
	}

	all := make([]glsl.Diagnostic, 0, len(vs.Diagnostics)+len(fs.Diagnostics)+len(res.Vertex)+len(res.Fragment))
	all = append(all, vs.Diagnostics...)
	all = append(all, res.Vertex...)
	all = append(all, fs.Diagnostics...)
	all = append(all, res.Fragment...)
	vp.Summary(all)

	if vs.HasErrors() || fs.HasErrors() || res.HasErrors() {
		return 1
	}
	return 0
}

func parseLevel(name string) (slog.Level, error) {
	level, err := logging.ParseLevel(name)
	if err != nil {
		return 0, fmt.Errorf("--loglevel: %w", err)
	}
	return level, nil
}
