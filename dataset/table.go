// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jcodagnone/propnear/utils/textutils"
)

// ErrExtraColumns is wrapped by a ParseError when a row has more values than
// the header has names.
var ErrExtraColumns = errors.New("more values than header columns")

// Row is one data line of a Table, addressed by header name. Text is the
// line as read.
type Row struct {
	Line   int
	Text   string
	Fields map[string]string
}

// Value returns the value stored under name, or "" when absent.
func (r Row) Value(name string) string {
	return r.Fields[name]
}

// Lookup returns the value stored under name and whether the row has it.
func (r Row) Lookup(name string) (string, bool) {
	v, ok := r.Fields[name]

	return v, ok
}

// Table is a headed delimited document kept as text. Rows that could not be
// read are listed in Skipped instead of Rows.
type Table struct {
	Source  string
	Headers []string
	Rows    []Row
	Skipped []Skipped
}

// Err returns the first skipped row as an error, or nil.
func (t *Table) Err() error {
	if len(t.Skipped) == 0 {
		return nil
	}

	return t.Skipped[0].Err
}

// ReadTable reads a headed document split on Delimiter. Header names and
// values are trimmed of surrounding whitespace. A row may have fewer values
// than the header; the missing trailing fields are absent from the row. A row
// with more values is skipped. A leading byte order mark is dropped.
func ReadTable(r io.Reader, source string) (*Table, error) {
	scanner := bufio.NewScanner(textutils.NewBOMReader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	t := &Table{Source: source}

	line := 0
	for scanner.Scan() {
		line++

		text := scanner.Text()
		if t.Headers == nil {
			for _, h := range SplitLine(text) {
				t.Headers = append(t.Headers, strings.TrimSpace(h))
			}

			continue
		}

		if strings.TrimSpace(text) == "" {
			continue
		}

		values := SplitLine(text)
		if len(values) > len(t.Headers) {
			t.Skipped = append(t.Skipped, Skipped{
				Line: line,
				Err: &ParseError{
					Line:  line,
					Field: "<row>",
					Value: text,
					Err:   fmt.Errorf("%w: %d > %d", ErrExtraColumns, len(values), len(t.Headers)),
				},
			})

			continue
		}

		row := Row{Line: line, Text: text, Fields: make(map[string]string, len(values))}
		for i, v := range values {
			row.Fields[t.Headers[i]] = strings.TrimSpace(v)
		}

		t.Rows = append(t.Rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, &FormatError{Source: source, Reason: "reading rows", Err: err}
	}

	if t.Headers == nil {
		return nil, &FormatError{Source: source, Reason: "missing header"}
	}

	return t, nil
}
