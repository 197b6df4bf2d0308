// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	headers := []string{"prop_id", "price", "email"}

	tests := []struct {
		name    string
		records []Record
		want    string
	}{
		{
			name: "no records",
			want: "prop_id,price,email",
		},
		{
			name: "missing and empty values",
			records: []Record{
				MapRecord{"prop_id": "P1", "price": "870000", "email": "john.doe@gmail.com"},
				MapRecord{"prop_id": "P2", "price": ""},
			},
			want: "prop_id,price,email\n" +
				"P1,870000,john.doe@gmail.com\n" +
				"P2,,\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Serialize(headers, tt.records))
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	headers := []string{"stop_id", "stop_name", "stop_lat", "stop_long"}
	cols := []Column{
		{Name: "stop_id", Kind: String},
		{Name: "stop_name", Kind: String},
		{Name: "stop_lat", Kind: Float},
		{Name: "stop_long", Kind: Float},
	}
	records := []Record{
		MapRecord{"stop_id": "19843", "stop_name": "Melbourne Central", "stop_lat": "-37.81", "stop_long": "144.9627"},
		MapRecord{"stop_id": "19854", "stop_name": "Flinders Street", "stop_lat": "-37.8183", "stop_long": "144.9671"},
	}

	text := Serialize(headers, records)

	schema, err := Resolve("roundtrip", headers, cols)
	require.NoError(t, err)

	table, err := ReadTable(strings.NewReader(text), "roundtrip")
	require.NoError(t, err)
	require.Len(t, table.Rows, len(records))

	for i, row := range table.Rows {
		raw := make([]string, len(headers))
		for j, h := range headers {
			raw[j] = row.Value(h)
		}

		got, err := schema.Parse(raw)
		require.NoError(t, err)

		want, err := schema.Parse([]string{
			records[i].Value("stop_id"),
			records[i].Value("stop_name"),
			records[i].Value("stop_lat"),
			records[i].Value("stop_long"),
		})
		require.NoError(t, err)

		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}
