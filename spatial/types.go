// Copyright 2025 The PropNear Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package spatial holds the geographic primitives shared by the loaders and
// the amenity queries.
package spatial

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by every distance in this module.
const EarthRadiusKm = 6371.0

// Point represents a geographical point with latitude and longitude in
// decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lng, p.Lat)
}

// IsZero reports whether p is the zero value.
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// HaversineDistance calculates the great-circle distance between two points
// on Earth in kilometers.
func (p *Point) HaversineDistance(other *Point) float64 {
	return Haversine(p.Lat, p.Lng, other.Lat, other.Lng)
}

// Haversine returns the great-circle distance in kilometers between
// (lat1, lon1) and (lat2, lon2), all given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}
