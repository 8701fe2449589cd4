package database

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		places   int
		expected float64
	}{
		{name: "half up at two places", value: 1.005, places: 2, expected: 1.01},
		{name: "half away from zero negative", value: -2.345, places: 2, expected: -2.35},
		{name: "four places", value: 0.123456, places: 4, expected: 0.1235},
		{name: "already short enough", value: 12.5, places: 2, expected: 12.5},
		{name: "integer", value: 100, places: 2, expected: 100},
		{name: "zero places", value: 2.5, places: 0, expected: 3},
		{name: "negative half at zero places", value: -0.5, places: 0, expected: -1},
		{name: "round down", value: 3.14159, places: 1, expected: 3.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Round(tt.value, tt.places))
		})
	}

	require.True(t, math.IsNaN(Round(math.NaN(), 2)))
}

func TestNormalizerValue(t *testing.T) {
	n := Normalizer{Precision: map[string]int{
		"avg_co":    4,
		"avg_temp":  2,
		"event_cnt": 2,
	}}

	ts := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		column   string
		dbType   string
		value    any
		expected any
	}{
		{name: "nil stays null", column: "x", dbType: "TEXT", value: nil, expected: nil},
		{name: "int64 stays integer", column: "x", dbType: "INT8", value: int64(42), expected: int64(42)},
		{name: "stringified bigint", column: "x", dbType: "INT8", value: "9007199254740991", expected: int64(9007199254740991)},
		{name: "numeric text becomes float", column: "x", dbType: "NUMERIC", value: "12.34", expected: 12.34},
		{name: "integral numeric becomes integer", column: "x", dbType: "NUMERIC", value: "1200", expected: int64(1200)},
		{name: "numeric bytes", column: "x", dbType: "NUMERIC", value: []byte("0.5"), expected: 0.5},
		{name: "numeric NaN becomes null", column: "x", dbType: "NUMERIC", value: "NaN", expected: nil},
		{name: "float NaN becomes null", column: "x", dbType: "FLOAT8", value: math.NaN(), expected: nil},
		{name: "float infinity becomes null", column: "x", dbType: "FLOAT8", value: math.Inf(1), expected: nil},
		{name: "text passthrough", column: "x", dbType: "TEXT", value: "IOWA", expected: "IOWA"},
		{name: "text bytes", column: "x", dbType: "TEXT", value: []byte("Corn"), expected: "Corn"},
		{name: "int32 widened", column: "x", dbType: "INT4", value: int32(7), expected: int64(7)},
		{name: "timestamp formatted", column: "x", dbType: "TIMESTAMPTZ", value: ts, expected: "2020-05-01T12:00:00Z"},
		{name: "precision applied to float", column: "avg_co", dbType: "FLOAT8", value: 0.123456, expected: 0.1235},
		{name: "precision applied to numeric", column: "avg_temp", dbType: "NUMERIC", value: "71.005", expected: 71.01},
		{name: "precision leaves integers alone", column: "event_cnt", dbType: "INT8", value: int64(11), expected: int64(11)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, n.Value(tt.column, tt.dbType, tt.value))
		})
	}
}

func TestNormalizedBigIntRoundTripsThroughJSON(t *testing.T) {
	n := Normalizer{}
	values := []int64{0, 1, -1, 1 << 40, 1<<53 - 1}

	for _, v := range values {
		row := Row{"wildfire_events": n.Value("wildfire_events", "INT8", v)}
		encoded, err := json.Marshal(row)
		require.NoError(t, err)

		var decoded map[string]any
		dec := json.NewDecoder(bytes.NewReader(encoded))
		dec.UseNumber()
		require.NoError(t, dec.Decode(&decoded))

		num, ok := decoded["wildfire_events"].(json.Number)
		require.True(t, ok, "value %d was not encoded as a JSON number: %s", v, encoded)
		got, err := num.Int64()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}
