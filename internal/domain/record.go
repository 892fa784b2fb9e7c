package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ChecklistRecord is the well-formed view of a checklist page. It is built once
// per page load and never mutated afterwards.
type ChecklistRecord struct {
	Lat         float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng         float64 `json:"lng" validate:"gte=-180,lte=180"`
	Datetime    string  `json:"datetime" validate:"required"`
	Location    string  `json:"location"`
	ChecklistID string  `json:"checklistId"` // empty when the page has no checklist identifier
}

// NewChecklistRecord builds a record and enforces its invariants: coordinates
// must be finite and the datetime must parse to an instant.
func NewChecklistRecord(coords Coordinates, datetime, location, checklistID string) (ChecklistRecord, error) {
	if !isFinite(coords.Lat) || !isFinite(coords.Lon) {
		return ChecklistRecord{}, fmt.Errorf("%w: non-finite coordinates %v,%v", ErrInvalidRecord, coords.Lat, coords.Lon)
	}
	if _, err := ParseDatetime(datetime); err != nil {
		return ChecklistRecord{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return ChecklistRecord{
		Lat:         coords.Lat,
		Lng:         coords.Lon,
		Datetime:    datetime,
		Location:    location,
		ChecklistID: checklistID,
	}, nil
}

// Coordinates returns the record's position.
func (r ChecklistRecord) Coordinates() Coordinates {
	return Coordinates{Lat: r.Lat, Lon: r.Lng}
}

// Time parses the record's datetime. Records built by NewChecklistRecord
// always parse.
func (r ChecklistRecord) Time() (time.Time, error) {
	return ParseDatetime(r.Datetime)
}

// Key identifies the record for caches and message keys: the checklist ID
// when known, otherwise the coordinates.
func (r ChecklistRecord) Key() string {
	if r.ChecklistID != "" {
		return r.ChecklistID
	}
	return fmt.Sprintf("%.4f,%.4f", r.Lat, r.Lng)
}

var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDatetime parses an ISO-8601 timestamp as found in a time element's
// datetime attribute. Values without an offset are interpreted as UTC.
func ParseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable datetime %q", s)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
