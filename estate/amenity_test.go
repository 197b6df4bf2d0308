// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package estate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmenityMatches(t *testing.T) {
	primary := &Amenity{Type: School, Subtype: "Primary"}
	combined := &Amenity{Type: School, Subtype: AnySubtype}
	gp := &Amenity{Type: MedicalCentre}

	tests := []struct {
		name    string
		a       *Amenity
		typ     string
		subtype string
		want    bool
	}{
		{"type only", primary, School, "", true},
		{"same subtype", primary, School, "Primary", true},
		{"other subtype", primary, School, "Secondary", false},
		{"combined school", combined, School, "Secondary", true},
		{"other type", primary, TrainStation, "", false},
		{"no subtype asked", gp, MedicalCentre, "", true},
		{"subtype on untyped source", gp, MedicalCentre, "Primary", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Matches(tt.typ, tt.subtype))
		})
	}
}

func TestAmenitySetters(t *testing.T) {
	a := &Amenity{Code: "1", Name: "Old", Type: School, Subtype: "Primary"}

	a.SetName("New")
	a.SetSubtype("")

	assert.Equal(t, "New", a.Name)
	assert.True(t, a.Matches(School, ""))
	assert.False(t, a.Matches(School, "Primary"))
}
