// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is wrapped by a ParseError when a row is shorter than
	// the position a field reads from.
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptyValue is wrapped by a ParseError when a numeric field is blank.
	ErrEmptyValue = errors.New("empty value")
)

// ParseError reports a coercion or structural failure while reading a row.
type ParseError struct {
	Line  int    // 1-based line number in the source, 0 when unknown
	Field string // logical field name
	Value string // raw value that failed
	Err   error
}

func (e *ParseError) Error() string {
	var prefix string
	if e.Line > 0 {
		prefix = fmt.Sprintf("line %d: ", e.Line)
	}

	if e.Err != nil {
		return fmt.Sprintf("%sparsing field %s %q: %v", prefix, e.Field, e.Value, e.Err)
	}

	return fmt.Sprintf("%sparsing field %s %q", prefix, e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a value rejected by a record invariant.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// FormatError reports a malformed file structure, such as a missing header
// or a required column absent from it.
type FormatError struct {
	Source string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Reason
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is, or wraps, a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError

	return errors.As(err, &pe)
}

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError

	return errors.As(err, &ve)
}

// IsFormatError reports whether err is, or wraps, a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError

	return errors.As(err, &fe)
}

// WithLine returns err with its line number set when err is a ParseError
// that doesn't carry one yet.
func WithLine(err error, line int) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Line == 0 {
		cp := *pe
		cp.Line = line

		return &cp
	}

	return err
}
