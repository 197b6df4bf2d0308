// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package estate

import (
	"fmt"
	"math"
	"slices"

	"github.com/jcodagnone/propnear/spatial"
)

// Distance pairs an amenity with its great-circle distance in kilometers
// from the query point.
type Distance struct {
	Amenity *Amenity `json:"amenity"`
	Km      float64  `json:"distance_km"`
}

// Nearest returns the amenity of the given type closest to from, and false
// when no candidate passes the filter. With a non-empty subtype only
// amenities of that subtype, or of AnySubtype, are considered.
//
// When several candidates lie at exactly the minimum distance the last one
// in candidates order is returned. Amenities whose distance is NaN are
// ignored.
func Nearest(from spatial.Point, candidates []*Amenity, amenityType, subtype string) (Distance, bool) {
	var (
		best  Distance
		found bool
	)

	for _, a := range candidates {
		if !a.Matches(amenityType, subtype) {
			continue
		}

		d := from.HaversineDistance(&a.Point)
		if math.IsNaN(d) {
			continue
		}

		// <= lets a later candidate at the same distance take over.
		if !found || d <= best.Km {
			best = Distance{Amenity: a, Km: d}
			found = true
		}
	}

	return best, found
}

// NearestTo is Nearest from the location of p.
func NearestTo(p *Property, candidates []*Amenity, amenityType, subtype string) (Distance, bool) {
	return Nearest(p.Point, candidates, amenityType, subtype)
}

// AmenityIndex buckets amenities by H3 cell for radius queries. Its order is
// the order of the slice it was built from.
type AmenityIndex struct {
	amenities []*Amenity
	cells     *spatial.CellIndex
}

// NewAmenityIndex indexes amenities at spatial.DefaultResolution.
func NewAmenityIndex(amenities []*Amenity) (*AmenityIndex, error) {
	idx := &AmenityIndex{
		amenities: amenities,
		cells:     spatial.NewCellIndex(spatial.DefaultResolution),
	}

	for _, a := range amenities {
		if _, err := idx.cells.Add(a.Point); err != nil {
			return nil, fmt.Errorf("indexing amenity %s: %w", a.Code, err)
		}
	}

	return idx, nil
}

// Amenities returns the indexed amenities in index order.
func (idx *AmenityIndex) Amenities() []*Amenity {
	return idx.amenities
}

// Nearest runs Nearest over every indexed amenity.
func (idx *AmenityIndex) Nearest(from spatial.Point, amenityType, subtype string) (Distance, bool) {
	return Nearest(from, idx.amenities, amenityType, subtype)
}

// Within returns the amenities passing the type and subtype filter whose
// distance to from is at most radiusKm, closest first. Equal distances keep
// index order.
func (idx *AmenityIndex) Within(from spatial.Point, radiusKm float64, amenityType, subtype string) ([]Distance, error) {
	positions, err := idx.cells.Within(from, radiusKm)
	if err != nil {
		return nil, err
	}

	var ret []Distance

	for _, pos := range positions {
		a := idx.amenities[pos]
		if !a.Matches(amenityType, subtype) {
			continue
		}

		ret = append(ret, Distance{Amenity: a, Km: from.HaversineDistance(&a.Point)})
	}

	slices.SortStableFunc(ret, func(a, b Distance) int {
		switch {
		case a.Km < b.Km:
			return -1
		case a.Km > b.Km:
			return 1
		default:
			return 0
		}
	})

	return ret, nil
}
