// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package dataset

import "strings"

// Record is anything that can hand out a textual value per column name.
// Missing and empty values are both returned as "".
type Record interface {
	Value(name string) string
}

// MapRecord adapts a plain map to Record.
type MapRecord map[string]string

func (m MapRecord) Value(name string) string {
	return m[name]
}

// Serialize renders records as delimited text in headers order. The header
// line is always written; it is followed by a newline only when at least one
// record follows, and every record line ends with a newline. Values are
// written as is, so they must not contain Delimiter.
func Serialize(headers []string, records []Record) string {
	var sb strings.Builder

	sb.WriteString(strings.Join(headers, Delimiter))

	if len(records) > 0 {
		sb.WriteByte('\n')
	}

	row := make([]string, len(headers))
	for _, r := range records {
		for i, h := range headers {
			row[i] = r.Value(h)
		}

		sb.WriteString(strings.Join(row, Delimiter))
		sb.WriteByte('\n')
	}

	return sb.String()
}
