// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jcodagnone/propnear/utils/textutils"
)

// Column names a header column and the coercion applied to it.
type Column struct {
	Name string
	Kind Kind
}

// Resolve binds cols to their positions in header. Header cells are
// compared after trimming, lowercasing and dropping a byte order mark. A
// column missing from the header is a FormatError.
func Resolve(source string, header []string, cols []Column) (Schema, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := textutils.HeaderKey(h)
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	ret := make(Schema, 0, len(cols))

	var missing []string

	for _, c := range cols {
		i, ok := positions[textutils.HeaderKey(c.Name)]
		if !ok {
			missing = append(missing, c.Name)

			continue
		}

		ret = append(ret, Field{Name: c.Name, Index: i, Kind: c.Kind})
	}

	if len(missing) > 0 {
		return nil, &FormatError{
			Source: source,
			Reason: "missing columns " + strings.Join(missing, ", "),
		}
	}

	return ret, nil
}

// RowFunc receives one data row: its 1-based line number and either the
// parsed values or the error that prevented parsing them. Returning an error
// stops the scan.
type RowFunc func(line int, v Values, err error) error

// ScanCSV reads a headed CSV document from r and hands every data row to fn.
// Unlike [SplitLine], quoted values may contain delimiters. Blank lines are
// ignored. The header is required; columns are addressed by name.
func ScanCSV(r io.Reader, source string, cols []Column, fn RowFunc) error {
	cr := csv.NewReader(textutils.NewBOMReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &FormatError{Source: source, Reason: "missing header"}
	}

	if err != nil {
		return &FormatError{Source: source, Reason: "reading header", Err: err}
	}

	schema, err := Resolve(source, header, cols)
	if err != nil {
		return err
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}

		var (
			v    Values
			line int
		)

		if err != nil {
			var csvErr *csv.ParseError
			if !errors.As(err, &csvErr) {
				return &FormatError{Source: source, Reason: "reading rows", Err: err}
			}

			line = csvErr.Line
			err = &ParseError{Line: line, Field: "<row>", Err: fmt.Errorf("reading csv: %w", err)}
		} else {
			line, _ = cr.FieldPos(0)
			v, err = schema.Parse(record)
			err = WithLine(err, line)
		}

		if ferr := fn(line, v, err); ferr != nil {
			return ferr
		}
	}
}
