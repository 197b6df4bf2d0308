// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package estate

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jcodagnone/propnear/dataset"
	"github.com/jcodagnone/propnear/spatial"
)

var (
	errMultipleMatches = errors.New("multiple matches")
	errSourceNotFound  = errors.New("amenity source not found")
)

// Source describes an amenity dataset: which header columns hold the code,
// name, optional subtype and coordinates, and the amenity type its rows
// become. Coordinates come either from a latitude/longitude column pair or
// from a single JSON location column.
type Source struct {
	Name           string // short name used on the command line
	Type           string // amenity type assigned to every row
	Description    string
	CodeColumn     string
	NameColumn     string
	SubtypeColumn  string // empty when the source has no subtype
	LatColumn      string
	LngColumn      string
	LocationColumn string // JSON {"lat":..,"lng":..}; replaces LatColumn/LngColumn
}

// Validate checks that the Source can produce amenities.
func (s *Source) Validate() error {
	if s.Name == "" {
		return errors.New("amenity source: name must not be empty")
	}

	if s.CodeColumn == "" || s.NameColumn == "" {
		return fmt.Errorf("amenity source %q: code and name columns are required", s.Name)
	}

	if s.LocationColumn == "" && (s.LatColumn == "" || s.LngColumn == "") {
		return fmt.Errorf("amenity source %q: needs a location column or both lat and lng columns", s.Name)
	}

	return nil
}

func (s *Source) columns() []dataset.Column {
	cols := []dataset.Column{
		{Name: s.CodeColumn, Kind: dataset.String},
		{Name: s.NameColumn, Kind: dataset.String},
	}

	if s.SubtypeColumn != "" {
		cols = append(cols, dataset.Column{Name: s.SubtypeColumn, Kind: dataset.String})
	}

	if s.LocationColumn != "" {
		return append(cols, dataset.Column{Name: s.LocationColumn, Kind: dataset.JSONPoint})
	}

	return append(cols,
		dataset.Column{Name: s.LatColumn, Kind: dataset.Float},
		dataset.Column{Name: s.LngColumn, Kind: dataset.Float},
	)
}

func (s *Source) amenity(v dataset.Values) *Amenity {
	a := &Amenity{
		Code: v.String(s.CodeColumn),
		Name: v.String(s.NameColumn),
		Type: s.Type,
	}

	if s.SubtypeColumn != "" {
		a.Subtype = v.String(s.SubtypeColumn)
	}

	if s.LocationColumn != "" {
		a.Point = v.Point(s.LocationColumn)
	} else {
		a.Point = spatial.Point{Lat: v.Float(s.LatColumn), Lng: v.Float(s.LngColumn)}
	}

	return a
}

// AmenityLoad is the outcome of loading one amenity source. Rows that could
// not be parsed are listed in Skipped rather than failing the load.
type AmenityLoad struct {
	Amenities *Amenities
	Skipped   []dataset.Skipped
	Metrics   dataset.LoadMetrics
}

// Load reads a headed CSV document of this source. A row with a value that
// can't be coerced is skipped and the load continues; a header missing one
// of the source columns fails the whole load with a dataset.FormatError.
// A repeated code replaces the earlier amenity.
func (s *Source) Load(r io.Reader, name string) (*AmenityLoad, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	ret := &AmenityLoad{Amenities: dataset.NewKeyed[*Amenity](0)}

	err := dataset.ScanCSV(r, name, s.columns(), func(line int, v dataset.Values, err error) error {
		ret.Metrics.Rows++

		if err != nil {
			ret.Metrics.Skipped++
			ret.Skipped = append(ret.Skipped, dataset.Skipped{Line: line, Err: err})
			slog.Debug("amenity row skipped", "source", name, "line", line, "err", err)

			return nil
		}

		a := s.amenity(v)
		if ret.Amenities.Put(a.Code, a) {
			ret.Metrics.Replaced++
		}

		ret.Metrics.Loaded++

		return nil
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// All built-in amenity sources.
var sources = []Source{
	{
		Name:          "schools",
		Type:          School,
		Description:   "Schools with their level as subtype",
		CodeColumn:    "school_no",
		NameColumn:    "school_name",
		SubtypeColumn: "school_type",
		LatColumn:     "school_lat",
		LngColumn:     "school_lon",
	},
	{
		Name:           "medical",
		Type:           MedicalCentre,
		Description:    "GP clinics, location as JSON",
		CodeColumn:     "gp_code",
		NameColumn:     "gp_name",
		LocationColumn: "location",
	},
	{
		Name:          "sport",
		Type:          SportFacility,
		Description:   "Sport facilities with the sport played as subtype",
		CodeColumn:    "facility_id",
		NameColumn:    "facility_name",
		SubtypeColumn: "sport_played",
		LatColumn:     "sport_lat",
		LngColumn:     "sport_lon",
	},
	{
		Name:        "stations",
		Type:        TrainStation,
		Description: "Train stations",
		CodeColumn:  "stop_id",
		NameColumn:  "stop_name",
		LatColumn:   "stop_lat",
		LngColumn:   "stop_long",
	},
}

// Find locates a source by a case insensitive prefix of its name or by its
// amenity type. Returns an error if no match or multiple matches are found.
func Find(q string) (*Source, error) {
	if q == "" {
		return nil, errors.New("empty search query")
	}

	var found *Source

	for i := range sources {
		s := &sources[i]

		match := strings.EqualFold(s.Type, q) ||
			(len(s.Name) >= len(q) && strings.EqualFold(s.Name[:len(q)], q))
		if !match {
			continue
		}

		if found != nil {
			return nil, fmt.Errorf("%w for %q: %q, %q", errMultipleMatches, q, found.Name, s.Name)
		}

		cp := *s
		found = &cp
	}

	if found == nil {
		return nil, fmt.Errorf("%w: %q", errSourceNotFound, q)
	}

	return found, nil
}

// Each applies the given callback function to each source. It stops
// iteration and returns the error if the callback returns an error.
func Each(callback func(Source) error) error {
	for i := range sources {
		if err := callback(sources[i]); err != nil {
			return err
		}
	}

	return nil
}
