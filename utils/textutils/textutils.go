// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

// Package textutils normalises the text that arrives from dataset files.
package textutils

import (
	"io"
	"strconv"
	"strings"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const bom = "\ufeff"

// LowerASCIIFolding normalizes a string by removing accents, lowercasing, and trimming spaces.
func LowerASCIIFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

// HeaderKey turns a raw header cell into the key columns are looked up by:
// "\ufeffSchool_Name " -> "school_name".
func HeaderKey(s string) string {
	return LowerASCIIFolding(strings.TrimPrefix(s, bom))
}

// NewBOMReader returns a reader that drops a leading UTF-8 byte order mark
// from r, the way spreadsheet exports usually start.
func NewBOMReader(r io.Reader) io.Reader {
	return transform.NewReader(r, xunicode.BOMOverride(xunicode.UTF8.NewDecoder()))
}

// FormatInt formats an integer with commas for human readability.
func FormatInt(n int64) string {
	in := strconv.FormatInt(n, 10)

	digits := len(in)
	if n < 0 {
		digits--
	}

	commas := (digits - 1) / 3

	out := make([]byte, len(in)+commas)
	if n < 0 {
		in, out[0] = in[1:], '-'
	}

	for i, j, k := len(in)-1, len(out)-1, 0; ; i, j = i-1, j-1 {
		out[j] = in[i]
		if i == 0 {
			return string(out)
		}

		if k++; k == 3 {
			j, k = j-1, 0
			out[j] = ','
		}
	}
}
