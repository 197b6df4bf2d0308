// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

// Package contact validates email and phone contacts and joins them onto
// property rows.
package contact

import (
	"fmt"
	"regexp"
	"strings"
)

// Type is a contact column. Its value is the column name in both the contact
// source and the joined output.
type Type string

const (
	Email Type = "email"
	Phone Type = "phone"
)

var (
	// Letters and dots, "@", lowercase letters, then lowercase letters and
	// dots. Repeated dots and short top level domains are accepted.
	emailRe = regexp.MustCompile(`^[a-zA-Z.]+@[a-z]+[.a-z]+$`)
	// (61) or 61, an optional trunk 0, then nine digits.
	phoneRe = regexp.MustCompile(`^(\(61\)|61)0?[0-9]{9}$`)
)

// ParseType maps a contact column name to its Type.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Email, Phone:
		return t, nil
	default:
		return "", fmt.Errorf("unknown contact type %q", s)
	}
}

// ParseTypes maps every name with ParseType, dropping repeats.
func ParseTypes(names []string) ([]Type, error) {
	var ret []Type

	seen := make(map[Type]bool, len(names))

	for _, n := range names {
		t, err := ParseType(n)
		if err != nil {
			return nil, err
		}

		if !seen[t] {
			seen[t] = true
			ret = append(ret, t)
		}
	}

	return ret, nil
}

// Validate reports whether value is a well-formed contact of type t.
func Validate(t Type, value string) bool {
	switch t {
	case Email:
		return emailRe.MatchString(value)
	case Phone:
		return phoneRe.MatchString(value)
	default:
		return false
	}
}
