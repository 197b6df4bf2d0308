// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellIndexWithin(t *testing.T) {
	center := Point{Lat: -37.8136, Lng: 144.9631}

	// roughly 0.55 km, 2.2 km, 11 km and 111 km north of the center
	points := []Point{
		{Lat: -37.8086, Lng: 144.9631},
		{Lat: -37.7936, Lng: 144.9631},
		{Lat: -37.7136, Lng: 144.9631},
		{Lat: -36.8136, Lng: 144.9631},
	}

	idx := NewCellIndex(DefaultResolution)
	for i, p := range points {
		pos, err := idx.Add(p)
		require.NoError(t, err)
		assert.Equal(t, i, pos)
	}

	assert.Equal(t, 4, idx.Len())

	got, err := idx.Within(center, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, got)

	got, err = idx.Within(center, 12)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)

	got, err = idx.Within(center, 0.1)
	require.NoError(t, err)
	assert.Empty(t, got)

	// wide radius falls back to a scan of every point
	got, err = idx.Within(center, 500)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, got)
}

func TestCellIndexCandidatesSuperset(t *testing.T) {
	center := Point{Lat: -38.16655678, Lng: 145.1838435}
	idx := NewCellIndex(DefaultResolution)

	for i := range 20 {
		_, err := idx.Add(Point{Lat: center.Lat + float64(i)*0.01, Lng: center.Lng - float64(i)*0.01})
		require.NoError(t, err)
	}

	candidates, err := idx.Candidates(center, 5)
	require.NoError(t, err)

	within, err := idx.Within(center, 5)
	require.NoError(t, err)
	assert.Subset(t, candidates, within)

	for i := range idx.Len() {
		if center.HaversineDistance(&idx.points[i]) <= 5 {
			assert.Contains(t, within, i)
		}
	}
}

func TestCellIndexInvalidRadius(t *testing.T) {
	idx := NewCellIndex(DefaultResolution)
	_, err := idx.Candidates(Point{}, -1)
	assert.Error(t, err)

	_, err = idx.Candidates(Point{}, math.NaN())
	assert.Error(t, err)
}

func TestCellIndexHugeRadius(t *testing.T) {
	idx := NewCellIndex(DefaultResolution)
	for _, p := range []Point{{Lat: 10, Lng: 10}, {Lat: -60, Lng: -170}, {Lat: 89, Lng: 0}} {
		_, err := idx.Add(p)
		require.NoError(t, err)
	}

	for _, r := range []float64{1e300, math.Inf(1), math.MaxFloat64} {
		got, err := idx.Within(Point{}, r)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, got, "radius %g", r)
	}
}

// TestCellIndexWithinMatchesScan compares the cell prefilter with a plain
// haversine scan on random clouds at several latitudes, where H3 cells are
// smaller than average.
func TestCellIndexWithinMatchesScan(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 11))
	lats := []float64{0, 0.54, 35, -52, 69.64, 80, -85}
	radii := []float64{0.5, 3, 10, 25, 40, 60, 120}

	for _, lat := range lats {
		for _, r := range radii {
			t.Run(fmt.Sprintf("lat=%g/r=%g", lat, r), func(t *testing.T) {
				center := Point{Lat: lat, Lng: rnd.Float64()*360 - 180}
				spreadLat := 1.5 * r / 111.0
				spreadLng := spreadLat / math.Max(math.Cos(lat*math.Pi/180), 0.05)

				idx := NewCellIndex(DefaultResolution)

				var want []int

				for i := range 400 {
					p := Point{
						Lat: math.Max(-89.9, math.Min(89.9, center.Lat+(rnd.Float64()*2-1)*spreadLat)),
						Lng: math.Mod(center.Lng+(rnd.Float64()*2-1)*spreadLng+540, 360) - 180,
					}

					_, err := idx.Add(p)
					require.NoError(t, err)

					if center.HaversineDistance(&p) <= r {
						want = append(want, i)
					}
				}

				got, err := idx.Within(center, r)
				require.NoError(t, err)

				if want == nil {
					assert.Empty(t, got, "center=%s", center)

					return
				}

				assert.Equal(t, want, got, "center=%s", center)
			})
		}
	}
}
