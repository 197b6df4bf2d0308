// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		typ   Type
		value string
		want  bool
	}{
		{Email, "john.doe@gmail.com", true},
		{Email, "John.Doe@example.com.au", true},
		{Email, "a..b@host..com", true},
		{Email, "john@", false},
		{Email, "john@Gmail.com", false},
		{Email, "john1@gmail.com", false},
		{Email, "@gmail.com", false},
		{Email, "", false},
		{Phone, "61412345678", true},
		{Phone, "610412345678", true},
		{Phone, "(61)0412345678", true},
		{Phone, "0412345678", false},
		{Phone, "6141234567", false},
		{Phone, "61 412 345 678", false},
		{Phone, "", false},
		{Type("fax"), "61412345678", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ)+"/"+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.typ, tt.value))
		})
	}
}

func TestParseTypes(t *testing.T) {
	got, err := ParseTypes([]string{"Email", " phone ", "email"})
	require.NoError(t, err)
	assert.Equal(t, []Type{Email, Phone}, got)

	_, err = ParseTypes([]string{"email", "fax"})
	assert.ErrorContains(t, err, "fax")
}
