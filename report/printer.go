// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/gogpu/glsles/glsl"
)

var (
	WarnColorFG  = pterm.FgYellow
	WarnStyleBG  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG = pterm.FgRed
	ErrorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG  = pterm.FgLightGreen
	InfoStyleBG  = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
)

// maxBanner caps the banner width on wide terminals.
const maxBanner = 50

// Printer renders diagnostics for one source file.
type Printer struct {
	w      io.Writer
	file   string
	source []string

	// Color enables pterm styling. It is on by default.
	Color bool
	// Width is the banner width; 0 means half the terminal, at most 50.
	Width int
}

// NewPrinter creates a printer for diagnostics of source, which was read
// from file.
func NewPrinter(w io.Writer, file, source string) *Printer {
	return &Printer{
		w:      w,
		file:   file,
		source: strings.Split(source, "\n"),
		Color:  true,
	}
}

type sprinter interface {
	Sprint(a ...interface{}) string
}

func (p *Printer) paint(s sprinter, text string) string {
	if !p.Color {
		return text
	}
	return s.Sprint(text)
}

// PrintAll prints every diagnostic followed by the summary line.
func (p *Printer) PrintAll(diags []glsl.Diagnostic) {
	for _, d := range diags {
		p.Print(d)
	}
	p.Summary(diags)
}

// Print prints the banner, the message and, for anchored diagnostics, the
// selected source lines.
func (p *Printer) Print(d glsl.Diagnostic) {
	p.banner(d.Severity)
	fmt.Fprintln(p.w, d.Message)
	if d.Span != nil && !d.Span.IsBuiltin() {
		p.selection(*d.Span, d.Severity)
	}
	fmt.Fprintln(p.w)
}

func (p *Printer) banner(sev glsl.Severity) {
	label, style := "Info", InfoStyleBG
	switch sev {
	case glsl.SeverityError:
		label, style = "Error", ErrorStyleBG
	case glsl.SeverityWarning:
		label, style = "Warning", WarnStyleBG
	}

	width := p.Width
	if width == 0 {
		width = pterm.GetTerminalWidth() / 2
		if width > maxBanner {
			width = maxBanner
		}
	}
	name := p.file
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	dashes := width - len(name) - len(label) - 1
	if dashes < 2 {
		dashes = 2
	}
	fmt.Fprintf(p.w, "-- %s %s %s\n", p.paint(style, label), strings.Repeat("-", dashes), p.paint(InfoColorFG, name))
}

// selection prints the lines of span with line numbers and underlines the
// selected text with carets. Common indentation is trimmed.
func (p *Printer) selection(span glsl.Span, sev glsl.Severity) {
	first, last := span.Start.Line, span.End.Line
	if last < first {
		last = first
	}
	if first < 1 || first > len(p.source) {
		return
	}
	if last > len(p.source) {
		last = len(p.source)
	}
	lines := make([]string, 0, last-first+1)
	for _, l := range p.source[first-1 : last] {
		lines = append(lines, strings.ReplaceAll(strings.TrimRight(l, "\r"), "\t", "    "))
	}

	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " "))
		if indent == -1 || n < indent {
			indent = n
		}
	}
	if indent < 0 {
		indent = 0
	}

	caretColor := sprinter(ErrorColorFG)
	if sev != glsl.SeverityError {
		caretColor = WarnColorFG
	}
	numWidth := len(strconv.Itoa(last)) + 1
	numFmt := "%-" + strconv.Itoa(numWidth) + "v"

	fmt.Fprintln(p.w)
	for i, line := range lines {
		trimmed := ""
		if len(line) > indent {
			trimmed = line[indent:]
		}
		fmt.Fprintf(p.w, "%s|  %s\n", p.paint(InfoColorFG, fmt.Sprintf(numFmt, first+i)), trimmed)

		from, to := 0, len(trimmed)
		if i == 0 {
			from = span.Start.Column - 1 - indent
		}
		if i == len(lines)-1 && span.End.Line == first+i {
			to = span.End.Column - 1 - indent
		}
		from = clamp(from, 0, len(trimmed))
		to = clamp(to, from, len(trimmed))
		carets := to - from
		if carets == 0 {
			carets = 1
		}
		fmt.Fprintf(p.w, "%s|  %s%s\n", strings.Repeat(" ", numWidth), strings.Repeat(" ", from),
			p.paint(caretColor, strings.Repeat("^", carets)))
	}
}

// Message prints a one-line tagged message, such as a usage or I/O error
// that has no source location.
func (p *Printer) Message(sev glsl.Severity, tag, msg string) {
	style, color := InfoStyleBG, sprinter(InfoColorFG)
	switch sev {
	case glsl.SeverityError:
		style, color = ErrorStyleBG, ErrorColorFG
	case glsl.SeverityWarning:
		style, color = WarnStyleBG, WarnColorFG
	}
	fmt.Fprintln(p.w, p.paint(style, tag)+p.paint(color, " "+msg))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Summary prints the error and warning counts.
func (p *Printer) Summary(diags []glsl.Diagnostic) {
	dl := glsl.Diagnostics(diags)
	errs, warns := dl.Count(glsl.SeverityError), dl.Count(glsl.SeverityWarning)
	text := plural(errs, "error") + ", " + plural(warns, "warning")
	switch {
	case errs > 0:
		fmt.Fprintln(p.w, p.paint(ErrorColorFG, text))
	case warns > 0:
		fmt.Fprintln(p.w, p.paint(WarnColorFG, text))
	default:
		fmt.Fprintln(p.w, p.paint(InfoColorFG, text))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
