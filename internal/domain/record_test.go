package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChecklistRecord(t *testing.T) {
	rec, err := NewChecklistRecord(Coordinates{Lat: 40.1, Lon: -74.2}, "2023-05-01T12:00:00Z", "Sandy Hook", "S12345")
	require.NoError(t, err)

	assert.Equal(t, 40.1, rec.Lat)
	assert.Equal(t, -74.2, rec.Lng)
	assert.Equal(t, "2023-05-01T12:00:00Z", rec.Datetime)
	assert.Equal(t, "Sandy Hook", rec.Location)
	assert.Equal(t, "S12345", rec.ChecklistID)
	assert.Equal(t, Coordinates{Lat: 40.1, Lon: -74.2}, rec.Coordinates())
}

func TestNewChecklistRecord_OffsetWithoutSeconds(t *testing.T) {
	rec, err := NewChecklistRecord(Coordinates{Lat: 40.1, Lon: -74.2}, "2023-05-01T12:00-04:00", "", "")
	require.NoError(t, err)

	got, err := rec.Time()
	require.NoError(t, err)
	assert.True(t, time.Date(2023, 5, 1, 16, 0, 0, 0, time.UTC).Equal(got))
}

func TestNewChecklistRecord_RejectsNonFinite(t *testing.T) {
	for _, c := range []Coordinates{
		{Lat: math.NaN(), Lon: 1},
		{Lat: 1, Lon: math.Inf(1)},
		{Lat: math.Inf(-1), Lon: 1},
	} {
		_, err := NewChecklistRecord(c, "2023-05-01T12:00:00Z", "", "")
		require.ErrorIs(t, err, ErrInvalidRecord)
	}
}

func TestNewChecklistRecord_RejectsBadDatetime(t *testing.T) {
	_, err := NewChecklistRecord(Coordinates{Lat: 1, Lon: 1}, "yesterday", "", "")
	require.ErrorIs(t, err, ErrInvalidRecord)
	assert.Contains(t, err.Error(), "yesterday")
}

func TestParseDatetime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2023-05-01T12:00:00Z", time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"2023-05-01T08:00:00-04:00", time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"2025-08-31T07:15", time.Date(2025, 8, 31, 7, 15, 0, 0, time.UTC)},
		{"2025-08-31T07:15:30", time.Date(2025, 8, 31, 7, 15, 30, 0, time.UTC)},
		{"2023-05-01T12:00Z", time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"2023-05-01T12:00-04:00", time.Date(2023, 5, 1, 16, 0, 0, 0, time.UTC)},
		{"2023-05-01 12:00+02:00", time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2023-05-01 12:00:30Z", time.Date(2023, 5, 1, 12, 0, 30, 0, time.UTC)},
		{"2025-08-31", time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)},
		{"  2025-08-31 07:15 ", time.Date(2025, 8, 31, 7, 15, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseDatetime(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "ParseDatetime(%q) = %s, want %s", tt.in, got, tt.want)
	}

	_, err := ParseDatetime("")
	assert.Error(t, err)
	_, err = ParseDatetime("31/08/2025")
	assert.Error(t, err)
}

func TestChecklistRecord_Key(t *testing.T) {
	assert.Equal(t, "S12345", ChecklistRecord{ChecklistID: "S12345"}.Key())
	assert.Equal(t, "40.1000,-74.2000", ChecklistRecord{Lat: 40.1, Lng: -74.2}.Key())
}

func TestChecklistRecord_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(ChecklistRecord{Lat: 40.1, Lng: -74.2, Datetime: "2023-05-01T12:00:00Z", Location: "X", ChecklistID: "S1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"lat":40.1,"lng":-74.2,"datetime":"2023-05-01T12:00:00Z","location":"X","checklistId":"S1"}`, string(data))
}
