// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package report adapts the output of the tools around the front-end:
// GPU driver info logs, JavaScript stack traces, and terminal rendering of
// diagnostics.
package report

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gogpu/glsles/glsl"
)

var (
	// ERROR: 0:12: 'x' : undeclared identifier
	located = regexp.MustCompile(`^\s*(ERROR|WARNING|INFO)\s*:\s*(\d+):(\d+)\s*:\s*(.*)$`)
	// ERROR: unsupported shader version
	unlocated = regexp.MustCompile(`^\s*(ERROR|WARNING|INFO)\s*:\s*(.*)$`)
	// ERROR: 2 compilation errors.  No code generated.
	summaryLine = regexp.MustCompile(`^\d+ compilation errors?\.`)
)

// ParseInfoLog converts a WebGL/ANGLE shader info log into diagnostics.
// Located entries cover the whole reported line of source; entries without
// a location are unanchored. The driver's closing error count is dropped.
func ParseInfoLog(log, source string) glsl.Diagnostics {
	var out glsl.Diagnostics
	for _, line := range strings.Split(strings.TrimRight(log, "\x00"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := located.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[3])
			if err == nil {
				span := LineSpan(source, n)
				out.Add(glsl.Diagnostic{Severity: severityOf(m[1]), Message: m[4], Span: &span})
				continue
			}
		}
		if m := unlocated.FindStringSubmatch(line); m != nil {
			if summaryLine.MatchString(m[2]) {
				continue
			}
			out.Add(glsl.Diagnostic{Severity: severityOf(m[1]), Message: m[2]})
			continue
		}
		out.Add(glsl.Diagnostic{Severity: glsl.SeverityInfo, Message: line})
	}
	return out
}

func severityOf(label string) glsl.Severity {
	switch label {
	case "ERROR":
		return glsl.SeverityError
	case "WARNING":
		return glsl.SeverityWarning
	}
	return glsl.SeverityInfo
}

// LineSpan returns the span of a 1-based line of source, without its
// newline. A line past the end of source gets a span with the line number
// and the end offset of source.
func LineSpan(source string, line int) glsl.Span {
	start := Resolve(source, glsl.Position{Line: line, Column: 1})
	end := start
	rest := ""
	if start.Offset < len(source) {
		rest = source[start.Offset:]
	}
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	end.Offset += len(rest)
	end.Column += utf8.RuneCountInString(rest)
	return glsl.Span{Start: start, End: end}
}

// Resolve fills in the byte offset of a line/column position within
// source. Columns count runes, as the lexer does; a column below 1 maps to
// the start of the line.
func Resolve(source string, pos glsl.Position) glsl.Position {
	offset := 0
	for l := 1; l < pos.Line; l++ {
		i := strings.IndexByte(source[offset:], '\n')
		if i < 0 {
			pos.Offset = len(source)
			return pos
		}
		offset += i + 1
	}
	for c := 1; c < pos.Column && offset < len(source); c++ {
		_, size := utf8.DecodeRuneInString(source[offset:])
		offset += size
	}
	pos.Offset = offset
	return pos
}
