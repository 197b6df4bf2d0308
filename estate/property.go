// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

// Package estate models properties and the amenities around them, and
// answers proximity questions between the two.
package estate

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jcodagnone/propnear/dataset"
	"github.com/jcodagnone/propnear/spatial"
)

// UnitSeparator marks an address as a unit within a building.
const UnitSeparator = "/"

// Kind tells houses from apartments. A house carries a land area, an
// apartment a floor number.
type Kind int

const (
	House Kind = iota + 1
	Apartment
)

func (k Kind) String() string {
	switch k {
	case House:
		return "house"
	case Apartment:
		return "apartment"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// KindOf derives the kind from the address.
func KindOf(address string) Kind {
	if strings.Contains(address, UnitSeparator) {
		return Apartment
	}

	return House
}

// Property is a dwelling listed for sale. Fields with an invariant are only
// reachable through setters.
type Property struct {
	ID      string
	Address string
	Point   spatial.Point

	kind          Kind
	bedrooms      int
	bathrooms     int
	parkingSpaces int
	floorArea     int
	price         int
	features      []string
	variant       int // land area for houses, floor number for apartments
}

// Attributes are the fields every kind of property has.
type Attributes struct {
	ID            string
	Address       string
	Bedrooms      int
	Bathrooms     int
	ParkingSpaces int
	Point         spatial.Point
	FloorArea     int
	Price         int
	Features      []string
}

// NewHouse returns a house. Every invariant violation found is reported.
func NewHouse(a Attributes, landArea int) (*Property, error) {
	p := &Property{kind: House}
	if err := p.init(a, p.SetLandArea(landArea)); err != nil {
		return nil, err
	}

	return p, nil
}

// NewApartment returns an apartment on the given floor. Every invariant
// violation found is reported.
func NewApartment(a Attributes, floorNumber int) (*Property, error) {
	p := &Property{kind: Apartment}
	if err := p.init(a, p.SetFloorNumber(floorNumber)); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Property) init(a Attributes, variantErr error) error {
	p.ID = a.ID
	p.Address = a.Address
	p.Point = a.Point
	p.SetFeatures(a.Features)

	return errors.Join(
		p.SetBedrooms(a.Bedrooms),
		p.SetBathrooms(a.Bathrooms),
		p.SetParkingSpaces(a.ParkingSpaces),
		p.SetFloorArea(a.FloorArea),
		p.SetPrice(a.Price),
		variantErr,
	)
}

func (p *Property) Kind() Kind { return p.kind }

// Suburb returns the third-from-last word of the address, the position the
// suburb takes in "<street> <suburb> <state> <postcode>".
func (p *Property) Suburb() (string, error) {
	return suburbOf(p.Address)
}

func suburbOf(address string) (string, error) {
	words := strings.Fields(address)
	if len(words) < 3 {
		return "", &dataset.ParseError{
			Field: "full_address",
			Value: address,
			Err:   fmt.Errorf("need at least 3 words to find the suburb, got %d", len(words)),
		}
	}

	return words[len(words)-3], nil
}

func (p *Property) Bedrooms() int      { return p.bedrooms }
func (p *Property) Bathrooms() int     { return p.bathrooms }
func (p *Property) ParkingSpaces() int { return p.parkingSpaces }
func (p *Property) FloorArea() int     { return p.floorArea }
func (p *Property) Price() int         { return p.price }

// LandArea returns the land area and true for houses.
func (p *Property) LandArea() (int, bool) {
	if p.kind != House {
		return 0, false
	}

	return p.variant, true
}

// FloorNumber returns the floor number and true for apartments.
func (p *Property) FloorNumber() (int, bool) {
	if p.kind != Apartment {
		return 0, false
	}

	return p.variant, true
}

func atLeast(field string, v, minimum int) error {
	if v < minimum {
		return &dataset.ValidationError{
			Field:  field,
			Value:  v,
			Reason: fmt.Sprintf("must be at least %d", minimum),
		}
	}

	return nil
}

func (p *Property) SetBedrooms(n int) error {
	if err := atLeast("bedrooms", n, 1); err != nil {
		return err
	}

	p.bedrooms = n

	return nil
}

func (p *Property) SetBathrooms(n int) error {
	if err := atLeast("bathrooms", n, 1); err != nil {
		return err
	}

	p.bathrooms = n

	return nil
}

func (p *Property) SetParkingSpaces(n int) error {
	if err := atLeast("parking_spaces", n, 0); err != nil {
		return err
	}

	p.parkingSpaces = n

	return nil
}

func (p *Property) SetFloorArea(n int) error {
	if err := atLeast("floor_area", n, 0); err != nil {
		return err
	}

	p.floorArea = n

	return nil
}

func (p *Property) SetPrice(n int) error {
	if err := atLeast("price", n, 0); err != nil {
		return err
	}

	p.price = n

	return nil
}

// SetLandArea updates the land area of a house.
func (p *Property) SetLandArea(n int) error {
	if p.kind != House {
		return &dataset.ValidationError{Field: "land_area", Value: n, Reason: "only houses have a land area"}
	}

	if err := atLeast("land_area", n, 0); err != nil {
		return err
	}

	p.variant = n

	return nil
}

// SetFloorNumber updates the floor number of an apartment.
func (p *Property) SetFloorNumber(n int) error {
	if p.kind != Apartment {
		return &dataset.ValidationError{Field: "floor_number", Value: n, Reason: "only apartments have a floor number"}
	}

	if err := atLeast("floor_number", n, 0); err != nil {
		return err
	}

	p.variant = n

	return nil
}

// Features returns a copy of the feature list.
func (p *Property) Features() []string {
	return slices.Clone(p.features)
}

// SetFeatures replaces the feature list, dropping repeated entries.
func (p *Property) SetFeatures(features []string) {
	p.features = nil
	for _, f := range features {
		p.AddFeature(f)
	}
}

// AddFeature appends f unless it is already listed. It reports whether the
// list changed.
func (p *Property) AddFeature(f string) bool {
	if slices.Contains(p.features, f) {
		return false
	}

	p.features = append(p.features, f)

	return true
}

// RemoveFeature drops f. It reports whether f was listed.
func (p *Property) RemoveFeature(f string) bool {
	i := slices.Index(p.features, f)
	if i < 0 {
		return false
	}

	p.features = slices.Delete(p.features, i, i+1)

	return true
}

// Value implements dataset.Record using the property source column names.
func (p *Property) Value(name string) string {
	switch name {
	case "prop_id":
		return p.ID
	case "full_address":
		return p.Address
	case "bedrooms":
		return fmt.Sprint(p.bedrooms)
	case "bathrooms":
		return fmt.Sprint(p.bathrooms)
	case "parking_spaces":
		return fmt.Sprint(p.parkingSpaces)
	case "latitude":
		return fmt.Sprint(p.Point.Lat)
	case "longitude":
		return fmt.Sprint(p.Point.Lng)
	case "floor_number":
		if n, ok := p.FloorNumber(); ok {
			return fmt.Sprint(n)
		}
	case "land_area":
		if n, ok := p.LandArea(); ok {
			return fmt.Sprint(n)
		}
	case "floor_area":
		return fmt.Sprint(p.floorArea)
	case "price":
		return fmt.Sprint(p.price)
	case "property_features":
		return strings.Join(p.features, dataset.ListDelimiter)
	case "prop_type":
		return p.kind.String()
	case "suburb":
		s, _ := p.Suburb()

		return s
	}

	return ""
}

type propertyJSON struct {
	ID            string        `json:"prop_id"`
	Address       string        `json:"full_address"`
	Type          string        `json:"prop_type"`
	Suburb        string        `json:"suburb,omitempty"`
	Bedrooms      int           `json:"bedrooms"`
	Bathrooms     int           `json:"bathrooms"`
	ParkingSpaces int           `json:"parking_spaces"`
	Point         spatial.Point `json:"point"`
	FloorNumber   *int          `json:"floor_number"`
	LandArea      *int          `json:"land_area"`
	FloorArea     int           `json:"floor_area"`
	Price         int           `json:"price"`
	Features      []string      `json:"property_features"`
}

// MarshalJSON renders the property with the absent variant as null.
func (p *Property) MarshalJSON() ([]byte, error) {
	suburb, _ := p.Suburb()
	out := propertyJSON{
		ID:            p.ID,
		Address:       p.Address,
		Type:          p.kind.String(),
		Suburb:        suburb,
		Bedrooms:      p.bedrooms,
		Bathrooms:     p.bathrooms,
		ParkingSpaces: p.parkingSpaces,
		Point:         p.Point,
		FloorArea:     p.floorArea,
		Price:         p.price,
		Features:      p.Features(),
	}

	if n, ok := p.FloorNumber(); ok {
		out.FloorNumber = &n
	}

	if n, ok := p.LandArea(); ok {
		out.LandArea = &n
	}

	return json.Marshal(out)
}
