// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

// Package dataset turns delimited text into typed values and back.
//
// Lines are split on a single fixed delimiter. Quoted or escaped delimiters
// are not recognised: a value containing a comma shifts every column after
// it. Sources that need quoting go through [ScanCSV] instead.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jcodagnone/propnear/spatial"
)

const (
	// Delimiter separates the columns of a line.
	Delimiter = ","
	// ListDelimiter separates the items of a List column.
	ListDelimiter = ";"
)

// Kind is the coercion applied to a raw column value.
type Kind int

const (
	String Kind = iota
	Int
	Float
	List
	// JSONPoint decodes a JSON object with "lat" and "lng" keys.
	JSONPoint
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case List:
		return "list"
	case JSONPoint:
		return "json point"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field binds a logical field name to a column position and a coercion.
type Field struct {
	Name  string
	Index int
	Kind  Kind
}

// Parse coerces the column of raw that f points at.
func (f Field) Parse(raw []string) (any, error) {
	if f.Index < 0 || f.Index >= len(raw) {
		return nil, &ParseError{Field: f.Name, Err: fmt.Errorf("%w %d", ErrMissingColumn, f.Index)}
	}

	v, err := Coerce(raw[f.Index], f.Kind)
	if err != nil {
		return nil, &ParseError{Field: f.Name, Value: raw[f.Index], Err: err}
	}

	return v, nil
}

// Coerce converts s according to kind. Numeric values tolerate surrounding
// whitespace; strings are kept verbatim.
func Coerce(s string, kind Kind) (any, error) {
	switch kind {
	case String:
		return s, nil
	case Int:
		t := strings.TrimSpace(s)
		if t == "" {
			return nil, ErrEmptyValue
		}

		return strconv.Atoi(t)
	case Float:
		t := strings.TrimSpace(s)
		if t == "" {
			return nil, ErrEmptyValue
		}

		return strconv.ParseFloat(t, 64)
	case List:
		if s == "" {
			return []string{}, nil
		}

		return strings.Split(s, ListDelimiter), nil
	case JSONPoint:
		return parseJSONPoint(s)
	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
}

func parseJSONPoint(s string) (spatial.Point, error) {
	var loc struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}

	if err := json.Unmarshal([]byte(s), &loc); err != nil {
		return spatial.Point{}, fmt.Errorf("decoding location: %w", err)
	}

	if loc.Lat == nil || loc.Lng == nil {
		return spatial.Point{}, errors.New("location must have lat and lng")
	}

	return spatial.Point{Lat: *loc.Lat, Lng: *loc.Lng}, nil
}

// SplitLine splits a line on Delimiter, dropping the line terminator.
func SplitLine(line string) []string {
	return strings.Split(strings.TrimRight(line, "\r\n"), Delimiter)
}

// Schema is an ordered set of fields parsed together.
type Schema []Field

// Parse coerces every field of the schema, failing on the first error.
func (s Schema) Parse(raw []string) (Values, error) {
	ret := make(Values, len(s))

	for _, f := range s {
		v, err := f.Parse(raw)
		if err != nil {
			return nil, err
		}

		ret[f.Name] = v
	}

	return ret, nil
}

// ParseLine splits line and parses it with s.
func (s Schema) ParseLine(line string) (Values, error) {
	return s.Parse(SplitLine(line))
}

// Field returns the field named name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// Values maps field names to coerced values. The accessors return the zero
// value when the field is absent or holds another type.
type Values map[string]any

func (v Values) String(name string) string {
	s, _ := v[name].(string)

	return s
}

func (v Values) Int(name string) int {
	i, _ := v[name].(int)

	return i
}

func (v Values) Float(name string) float64 {
	f, _ := v[name].(float64)

	return f
}

func (v Values) List(name string) []string {
	l, _ := v[name].([]string)

	return l
}

func (v Values) Point(name string) spatial.Point {
	p, _ := v[name].(spatial.Point)

	return p
}

// Has reports whether name was parsed.
func (v Values) Has(name string) bool {
	_, ok := v[name]

	return ok
}
