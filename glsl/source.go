// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNotText is returned by DecodeSource for input that is not shader
// source text.
var ErrNotText = errors.New("input is not text")

// DecodeSource turns raw file contents into source text. A UTF-8 or
// UTF-16 byte order mark selects the encoding and is removed; input
// without one is taken as UTF-8. Invalid UTF-8 and NUL bytes are
// rejected before any tokenization happens.
func DecodeSource(data []byte) (string, error) {
	// The UTF-8 decoder substitutes U+FFFD for bad sequences, so the raw
	// bytes are validated first.
	if !hasUTF16BOM(data) && !utf8.Valid(data) {
		return "", fmt.Errorf("%w: invalid UTF-8", ErrNotText)
	}
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	text, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("decode source: %w", err)
	}
	if i := bytes.IndexByte(text, 0); i >= 0 {
		return "", fmt.Errorf("%w: NUL byte at offset %d", ErrNotText, i)
	}
	return string(text), nil
}

func hasUTF16BOM(data []byte) bool {
	return len(data) >= 2 && ((data[0] == 0xFE && data[1] == 0xFF) || (data[0] == 0xFF && data[1] == 0xFE))
}
