// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package estate

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jcodagnone/propnear/dataset"
	"github.com/jcodagnone/propnear/spatial"
	"github.com/jcodagnone/propnear/utils/textutils"
)

// PropertyHeader lists the property source columns in file order.
var PropertyHeader = []string{
	"prop_id", "full_address", "bedrooms", "bathrooms", "parking_spaces",
	"latitude", "longitude", "floor_number", "land_area", "floor_area",
	"price", "property_features",
}

// propertySchema holds the columns every row carries. The variant columns
// are parsed separately once the kind is known.
var propertySchema = dataset.Schema{
	{Name: "prop_id", Index: 0, Kind: dataset.String},
	{Name: "full_address", Index: 1, Kind: dataset.String},
	{Name: "bedrooms", Index: 2, Kind: dataset.Int},
	{Name: "bathrooms", Index: 3, Kind: dataset.Int},
	{Name: "parking_spaces", Index: 4, Kind: dataset.Int},
	{Name: "latitude", Index: 5, Kind: dataset.Float},
	{Name: "longitude", Index: 6, Kind: dataset.Float},
	{Name: "floor_area", Index: 9, Kind: dataset.Int},
	{Name: "price", Index: 10, Kind: dataset.Int},
	{Name: "property_features", Index: 11, Kind: dataset.List},
}

var (
	floorNumberField = dataset.Field{Name: "floor_number", Index: 7, Kind: dataset.Int}
	landAreaField    = dataset.Field{Name: "land_area", Index: 8, Kind: dataset.Int}
)

// ParseProperty builds a property from one line of the property source:
//
//	P10001,3 Antrim Place Langwarrin VIC 3910,4,2,2,-38.16655678,145.1838435,,608,257,870000,dishwasher;central heating
//
// Only the variant column matching the kind is read; the other may be blank.
// Coercion failures are reported as dataset.ParseError, invariant violations
// as dataset.ValidationError.
func ParseProperty(line string) (*Property, error) {
	raw := dataset.SplitLine(line)

	v, err := propertySchema.Parse(raw)
	if err != nil {
		return nil, err
	}

	address := v.String("full_address")
	if _, err := suburbOf(address); err != nil {
		return nil, err
	}

	attrs := Attributes{
		ID:            v.String("prop_id"),
		Address:       address,
		Bedrooms:      v.Int("bedrooms"),
		Bathrooms:     v.Int("bathrooms"),
		ParkingSpaces: v.Int("parking_spaces"),
		Point:         spatial.Point{Lat: v.Float("latitude"), Lng: v.Float("longitude")},
		FloorArea:     v.Int("floor_area"),
		Price:         v.Int("price"),
		Features:      v.List("property_features"),
	}

	switch KindOf(address) {
	case Apartment:
		floor, err := floorNumberField.Parse(raw)
		if err != nil {
			return nil, err
		}

		return NewApartment(attrs, floor.(int))
	default:
		area, err := landAreaField.Parse(raw)
		if err != nil {
			return nil, err
		}

		return NewHouse(attrs, area.(int))
	}
}

// Properties is the result of a property load, keyed by property id.
type Properties = dataset.Keyed[*Property]

// LoadProperties reads a property source. The first line is a header and is
// only used to check the column count. A leading byte order mark is
// dropped. Blank lines are ignored. The first
// row that fails to parse aborts the load. A repeated id replaces the
// earlier property.
func LoadProperties(r io.Reader, source string) (*Properties, *dataset.LoadMetrics, error) {
	scanner := bufio.NewScanner(textutils.NewBOMReader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, nil, &dataset.FormatError{Source: source, Reason: "reading header", Err: err}
		}

		return nil, nil, &dataset.FormatError{Source: source, Reason: "missing header"}
	}

	if n := len(dataset.SplitLine(scanner.Text())); n < len(PropertyHeader) {
		return nil, nil, &dataset.FormatError{
			Source: source,
			Reason: fmt.Sprintf("header has %d columns, want %d", n, len(PropertyHeader)),
		}
	}

	ret := dataset.NewKeyed[*Property](0)
	metrics := &dataset.LoadMetrics{}

	line := 1
	for scanner.Scan() {
		line++

		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		metrics.Rows++

		p, err := ParseProperty(text)
		if err != nil {
			return nil, metrics, fmt.Errorf("%s: %w", source, dataset.WithLine(err, line))
		}

		if ret.Put(p.ID, p) {
			metrics.Replaced++
			slog.Debug("property replaced", "source", source, "line", line, "prop_id", p.ID)
		}

		metrics.Loaded++
	}

	if err := scanner.Err(); err != nil {
		return nil, metrics, &dataset.FormatError{Source: source, Reason: "reading rows", Err: err}
	}

	return ret, metrics, nil
}
