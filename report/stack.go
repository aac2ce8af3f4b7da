// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package report

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/glsles/glsl"
)

var (
	// V8:            at draw (sketch.js:12:5)
	//                at sketch.js:12:5
	v8Frame = regexp.MustCompile(`^\s*at\s+(?:.*?\()?(.*?):(\d+):(\d+)\)?\s*$`)
	// SpiderMonkey:  draw@sketch.js:12:5
	geckoFrame = regexp.MustCompile(`^\s*(.*?)@(.*?):(\d+):(\d+)\s*$`)
)

// ParseStackLocation finds the line and column of the innermost frame of a
// JavaScript stack trace. It understands V8 and SpiderMonkey/JSC frames and
// reports false when no frame matches, in which case the error should be
// shown without a location. The returned position has no offset; see
// Resolve.
func ParseStackLocation(trace string) (glsl.Position, bool) {
	for _, line := range strings.Split(trace, "\n") {
		var ln, col string
		if m := v8Frame.FindStringSubmatch(line); m != nil {
			ln, col = m[2], m[3]
		} else if m := geckoFrame.FindStringSubmatch(line); m != nil {
			ln, col = m[3], m[4]
		} else {
			continue
		}
		l, err1 := strconv.Atoi(ln)
		c, err2 := strconv.Atoi(col)
		if err1 != nil || err2 != nil {
			continue
		}
		return glsl.Position{Line: l, Column: c}, true
	}
	return glsl.Position{}, false
}
