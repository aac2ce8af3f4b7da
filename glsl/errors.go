// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"slices"
	"strings"
)

// Severity ranks a diagnostic.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	// SeverityIgnore suppresses a configurable diagnostic entirely.
	SeverityIgnore
)

// String returns the severity label.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "ignore"
	}
}

// ParseSeverity converts a severity label back into a Severity.
func ParseSeverity(label string) (Severity, bool) {
	switch strings.ToLower(label) {
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "ignore", "none", "off":
		return SeverityIgnore, true
	}
	return SeverityError, false
}

// Diagnostic is a message about the source with an optional location.
// A nil Span marks a problem that has no single anchor in the source.
type Diagnostic struct {
	Severity Severity
	Message  string
	Span     *Span
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	if d.Span == nil || d.Span.IsBuiltin() {
		return d.Message
	}
	return fmt.Sprintf("%d:%d: %s", d.Span.Start.Line, d.Span.Start.Column, d.Message)
}

// FormatWithContext returns the message with the offending source line
// and a caret under the reported column.
func (d Diagnostic) FormatWithContext(source string) string {
	if source == "" || d.Span == nil || d.Span.IsBuiltin() {
		return fmt.Sprintf("%s: %s", d.Severity, d.Error())
	}

	lines := strings.Split(source, "\n")
	lineNum := d.Span.Start.Line
	if lineNum < 1 || lineNum > len(lines) {
		return fmt.Sprintf("%s: %s", d.Severity, d.Error())
	}

	line := strings.TrimRight(lines[lineNum-1], "\r")
	col := d.Span.Start.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}
	width := 1
	if d.Span.End.Line == lineNum && d.Span.End.Column > col {
		width = d.Span.End.Column - col
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", d.Severity, d.Message)
	fmt.Fprintf(&sb, "  --> line %d:%d\n", lineNum, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", lineNum, line)
	fmt.Fprintf(&sb, "   | %s%s\n", strings.Repeat(" ", col-1), strings.Repeat("^", width))

	return sb.String()
}

// Diagnostics is an ordered list of diagnostics.
type Diagnostics []Diagnostic

// Error implements the error interface.
func (dl Diagnostics) Error() string {
	if len(dl) == 0 {
		return "no errors"
	}
	if len(dl) == 1 {
		return dl[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", dl[0].Error(), len(dl)-1)
}

// FormatAll returns all diagnostics formatted with context.
func (dl Diagnostics) FormatAll(source string) string {
	var sb strings.Builder
	for i, d := range dl {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.FormatWithContext(source))
	}
	return sb.String()
}

// Add appends a diagnostic.
func (dl *Diagnostics) Add(d Diagnostic) {
	*dl = append(*dl, d)
}

// Errorf appends an error anchored at span.
func (dl *Diagnostics) Errorf(span Span, format string, args ...interface{}) {
	dl.Add(Diagnostic{Severity: SeverityError, Message: fmt.Sprintf(format, args...), Span: &span})
}

// Warnf appends a warning anchored at span.
func (dl *Diagnostics) Warnf(span Span, format string, args ...interface{}) {
	dl.Add(Diagnostic{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...), Span: &span})
}

// HasErrors reports whether any diagnostic is an error.
func (dl Diagnostics) HasErrors() bool {
	return dl.Count(SeverityError) > 0
}

// Count returns the number of diagnostics with the given severity.
func (dl Diagnostics) Count(sev Severity) int {
	n := 0
	for _, d := range dl {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Sort orders diagnostics by source position; unanchored ones go last.
// The sort is stable so diagnostics at the same position keep their
// reporting order.
func (dl Diagnostics) Sort() {
	slices.SortStableFunc(dl, func(a, b Diagnostic) int {
		switch {
		case a.Span == nil && b.Span == nil:
			return 0
		case a.Span == nil:
			return 1
		case b.Span == nil:
			return -1
		}
		return a.Span.Start.Offset - b.Span.Start.Offset
	})
}
