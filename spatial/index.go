// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"fmt"
	"math"
	"slices"

	"github.com/uber/h3-go/v4"
)

// DefaultResolution is the H3 resolution used when none is given. Cells at
// resolution 7 have an average edge of roughly 1.4 km.
const DefaultResolution = 7

// maxRing bounds the GridDisk expansion; wider searches fall back to a scan.
const maxRing = 64

// edgeDistortion divides the average edge length to get a lower bound on
// the edge of any cell at the same resolution. Cells far from an icosahedron
// face centre are markedly smaller than the average.
const edgeDistortion = 3.0

// Cell returns the H3 cell containing p at the given resolution.
func Cell(p Point, resolution int) (h3.Cell, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), resolution)
	if err != nil {
		return 0, fmt.Errorf("error converting to h3 cell at res %d: %w", resolution, err)
	}

	return cell, nil
}

// CellIndex buckets positions of a sequence by H3 cell. Positions refer to
// the order in which points were added, so callers can map them back to
// their own ordered collections.
type CellIndex struct {
	resolution int
	points     []Point
	cells      map[h3.Cell][]int
}

// NewCellIndex returns an empty index at the given resolution.
func NewCellIndex(resolution int) *CellIndex {
	return &CellIndex{
		resolution: resolution,
		cells:      make(map[h3.Cell][]int),
	}
}

// Add appends p to the index and returns its position.
func (idx *CellIndex) Add(p Point) (int, error) {
	cell, err := Cell(p, idx.resolution)
	if err != nil {
		return 0, err
	}

	pos := len(idx.points)
	idx.points = append(idx.points, p)
	idx.cells[cell] = append(idx.cells[cell], pos)

	return pos, nil
}

// Len returns the number of indexed points.
func (idx *CellIndex) Len() int {
	return len(idx.points)
}

// Candidates returns, in ascending order, the positions of every point that
// may lie within radiusKm of center. The result is a superset; callers must
// still check the exact distance.
func (idx *CellIndex) Candidates(center Point, radiusKm float64) ([]int, error) {
	k, err := idx.ringsFor(radiusKm)
	if err != nil {
		return nil, err
	}

	if k < 0 {
		return idx.all(), nil
	}

	origin, err := Cell(center, idx.resolution)
	if err != nil {
		return nil, err
	}

	disk, err := h3.GridDisk(origin, k)
	if err != nil {
		// GridDisk can fail around pentagons.
		return idx.all(), nil //nolint:nilerr
	}

	var ret []int
	for _, cell := range disk {
		ret = append(ret, idx.cells[cell]...)
	}

	slices.Sort(ret)

	return ret, nil
}

// Within returns the positions of the points whose great-circle distance to
// center is at most radiusKm, in insertion order.
func (idx *CellIndex) Within(center Point, radiusKm float64) ([]int, error) {
	candidates, err := idx.Candidates(center, radiusKm)
	if err != nil {
		return nil, err
	}

	ret := candidates[:0]
	for _, pos := range candidates {
		if center.HaversineDistance(&idx.points[pos]) <= radiusKm {
			ret = append(ret, pos)
		}
	}

	return ret, nil
}

// ringsFor computes how many hexagon rings around the origin cell cover a
// circle of radiusKm, with one cell of slack on each side. It returns -1
// when more than maxRing rings would be needed.
func (idx *CellIndex) ringsFor(radiusKm float64) (int, error) {
	if radiusKm < 0 || math.IsNaN(radiusKm) {
		return 0, fmt.Errorf("invalid radius %f", radiusKm)
	}

	avg, err := h3.HexagonEdgeLengthAvgKm(idx.resolution)
	if err != nil {
		return 0, fmt.Errorf("h3 edge length at res %d: %w", idx.resolution, err)
	}

	edge := avg / edgeDistortion

	// Adjacent ring centres are at least 1.5 edges apart.
	k := math.Ceil((radiusKm+2*avg)/(1.5*edge)) + 1
	if math.IsInf(k, 0) || k > maxRing {
		return -1, nil
	}

	return int(k), nil
}

func (idx *CellIndex) all() []int {
	ret := make([]int, len(idx.points))
	for i := range ret {
		ret[i] = i
	}

	return ret
}
