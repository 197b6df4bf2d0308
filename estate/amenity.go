// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package estate

import (
	"github.com/jcodagnone/propnear/dataset"
	"github.com/jcodagnone/propnear/spatial"
)

// Amenity types produced by the built-in sources.
const (
	School        = "school"
	MedicalCentre = "medical_centre"
	SportFacility = "sport_facility"
	TrainStation  = "train_station"
)

// AnySubtype is the school level that satisfies every subtype filter:
// combined primary and secondary schools count as both.
const AnySubtype = "Pri/Sec"

// Amenity is a point of interest near a property.
type Amenity struct {
	Code    string        `json:"code"`
	Name    string        `json:"name"`
	Type    string        `json:"type"`
	Subtype string        `json:"subtype,omitempty"` // empty when the source has none
	Point   spatial.Point `json:"point"`
}

// SetName renames the amenity.
func (a *Amenity) SetName(name string) {
	a.Name = name
}

// SetSubtype changes the subtype; an empty subtype means none.
func (a *Amenity) SetSubtype(subtype string) {
	a.Subtype = subtype
}

// Matches reports whether a passes a type filter and an optional subtype
// filter. An empty subtype accepts any subtype.
func (a *Amenity) Matches(amenityType, subtype string) bool {
	if a.Type != amenityType {
		return false
	}

	if subtype == "" {
		return true
	}

	return a.Subtype == subtype || a.Subtype == AnySubtype
}

// Amenities is an insertion-ordered collection keyed by amenity code.
type Amenities = dataset.Keyed[*Amenity]
