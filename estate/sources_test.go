// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package estate

import (
	"errors"
	"strings"
	"testing"

	"github.com/jcodagnone/propnear/dataset"
	"github.com/jcodagnone/propnear/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFind(t *testing.T, q string) *Source {
	t.Helper()

	s, err := Find(q)
	require.NoError(t, err)

	return s
}

func TestSourceLoadSchools(t *testing.T) {
	input := "school_no,school_name,school_type,school_lat,school_lon\n" +
		"1,Langwarrin Primary,Primary,-38.16,145.18\n" +
		"2,Broken Row,Secondary,not-a-number,145.2\n" +
		"3,Frankston College,Pri/Sec,-38.14,145.12\n" +
		"1,Langwarrin Primary School,Primary,-38.161,145.181\n"

	got, err := mustFind(t, "schools").Load(strings.NewReader(input), "schools.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "3"}, got.Amenities.Keys())
	assert.Equal(t, dataset.LoadMetrics{Rows: 4, Loaded: 3, Replaced: 1, Skipped: 1}, got.Metrics)

	require.Len(t, got.Skipped, 1)
	assert.Equal(t, 3, got.Skipped[0].Line)
	assert.True(t, dataset.IsParseError(got.Skipped[0].Err))

	a, ok := got.Amenities.Get("1")
	require.True(t, ok)
	assert.Equal(t, &Amenity{
		Code:    "1",
		Name:    "Langwarrin Primary School",
		Type:    School,
		Subtype: "Primary",
		Point:   spatial.Point{Lat: -38.161, Lng: 145.181},
	}, a)
}

func TestSourceLoadMedicalJSONLocation(t *testing.T) {
	input := "\ufeffgp_code,gp_name,location\n" +
		`mgp0001,Langwarrin Clinic,"{""lat"": -38.16, ""lng"": 145.18}"` + "\n" +
		`mgp0002,Clinic Without Location,"{""lat"": -38.1}"` + "\n"

	got, err := mustFind(t, MedicalCentre).Load(strings.NewReader(input), "medical.csv")
	require.NoError(t, err)

	assert.Equal(t, 1, got.Amenities.Len())
	assert.Len(t, got.Skipped, 1)

	a, _ := got.Amenities.Get("mgp0001")
	assert.Equal(t, MedicalCentre, a.Type)
	assert.Empty(t, a.Subtype)
	assert.Equal(t, spatial.Point{Lat: -38.16, Lng: 145.18}, a.Point)
}

func TestSourceLoadStationsColumnOrder(t *testing.T) {
	input := "stop_lat,stop_long,stop_name,stop_id\n" +
		"-37.81,144.96,Flinders Street,19854\n"

	got, err := mustFind(t, "stations").Load(strings.NewReader(input), "stations.csv")
	require.NoError(t, err)

	a, ok := got.Amenities.Get("19854")
	require.True(t, ok)
	assert.Equal(t, "Flinders Street", a.Name)
	assert.Equal(t, spatial.Point{Lat: -37.81, Lng: 144.96}, a.Point)
}

func TestSourceLoadMissingColumn(t *testing.T) {
	input := "facility_id,facility_name,sport_lat,sport_lon\n1,Oval,-38,145\n"

	_, err := mustFind(t, "sport").Load(strings.NewReader(input), "sport.csv")

	var fe *dataset.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Reason, "sport_played")
}

func TestSourceValidate(t *testing.T) {
	assert.Error(t, (&Source{}).Validate())
	assert.Error(t, (&Source{Name: "x", CodeColumn: "c"}).Validate())
	assert.Error(t, (&Source{Name: "x", CodeColumn: "c", NameColumn: "n", LatColumn: "lat"}).Validate())
	assert.NoError(t, (&Source{Name: "x", CodeColumn: "c", NameColumn: "n", LocationColumn: "loc"}).Validate())

	_, err := (&Source{Name: "broken"}).Load(strings.NewReader("a\n"), "broken.csv")
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	tests := []struct {
		q       string
		want    string
		wantErr error
	}{
		{q: "sch", want: "schools"},
		{q: "MEDICAL", want: "medical"},
		{q: "train_station", want: "stations"},
		{q: "sport_facility", want: "sport"},
		{q: "s", wantErr: errMultipleMatches},
		{q: "ferries", wantErr: errSourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			got, err := Find(tt.q)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}

	_, err := Find("")
	assert.Error(t, err)
}

func TestFindReturnsCopy(t *testing.T) {
	s := mustFind(t, "schools")
	s.Type = "changed"

	assert.Equal(t, School, mustFind(t, "schools").Type)
}

func TestEach(t *testing.T) {
	var names []string

	err := Each(func(s Source) error {
		names = append(names, s.Name)

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"schools", "medical", "sport", "stations"}, names)

	stop := errors.New("stop")
	calls := 0
	err = Each(func(Source) error {
		calls++

		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
