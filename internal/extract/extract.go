// Package extract turns a checklist page into a domain.ChecklistRecord.
//
// Every extractor is a pure read of the page. Absence is an expected outcome
// and is reported with a false ok value rather than an error.
package extract

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/couchcryptid/checklist-wind-map/internal/domain"
)

// Page is the read side of a checklist page.
type Page interface {
	CoordinateLink() (href string, ok bool)
	Timestamp() (string, bool)
	Address() *url.URL
	LocationCandidates() []string
}

var (
	coordinateQueryRe = regexp.MustCompile(`query=(-?\d+\.?\d*),(-?\d+\.?\d*)`)
	checklistIDRe     = regexp.MustCompile(`/checklist/([A-Z0-9]+)`)
	regionPathRe      = regexp.MustCompile(`/region/([^/]+)`)
)

// Coordinates parses "query=<lat>,<lon>" out of the map link's query string.
func Coordinates(p Page) (domain.Coordinates, bool) {
	href, ok := p.CoordinateLink()
	if !ok {
		return domain.Coordinates{}, false
	}
	u, err := url.Parse(href)
	if err != nil {
		return domain.Coordinates{}, false
	}

	m := coordinateQueryRe.FindStringSubmatch(u.RawQuery)
	if m == nil {
		// Some links percent-encode the comma.
		decoded, err := url.QueryUnescape(u.RawQuery)
		if err != nil {
			return domain.Coordinates{}, false
		}
		if m = coordinateQueryRe.FindStringSubmatch(decoded); m == nil {
			return domain.Coordinates{}, false
		}
	}

	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return domain.Coordinates{}, false
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return domain.Coordinates{}, false
	}
	return domain.Coordinates{Lat: lat, Lon: lon}, true
}

// Datetime returns the page's raw machine-readable timestamp.
func Datetime(p Page) (string, bool) {
	return p.Timestamp()
}

// ChecklistID returns the identifier in the page address, e.g. "S12345".
func ChecklistID(p Page) (string, bool) {
	addr := p.Address()
	if addr == nil {
		return "", false
	}
	m := checklistIDRe.FindStringSubmatch(addr.String())
	if m == nil {
		return "", false
	}
	return m[1], true
}

// LocationName picks the first location candidate that does not look like a
// date. It falls back to the region slug in the page address and then to
// domain.UnknownLocation; it never fails.
func LocationName(p Page, logger *slog.Logger) string {
	for _, text := range p.LocationCandidates() {
		if IsDateLike(text) {
			logger.Debug("skipping date-like location candidate", "text", text)
			continue
		}
		return text
	}

	if addr := p.Address(); addr != nil {
		if m := regionPathRe.FindStringSubmatch(addr.Path); m != nil {
			return strings.ReplaceAll(m[1], "-", " ")
		}
	}
	return domain.UnknownLocation
}

// Record extracts a full checklist record. It returns
// domain.ErrMissingCoordinates or domain.ErrMissingDatetime when the page lacks
// the required fields, and domain.ErrInvalidRecord when they are malformed.
func Record(p Page, logger *slog.Logger) (domain.ChecklistRecord, error) {
	coords, ok := Coordinates(p)
	if !ok {
		return domain.ChecklistRecord{}, domain.ErrMissingCoordinates
	}
	datetime, ok := Datetime(p)
	if !ok {
		return domain.ChecklistRecord{}, domain.ErrMissingDatetime
	}
	checklistID, _ := ChecklistID(p)
	location := LocationName(p, logger)

	rec, err := domain.NewChecklistRecord(coords, datetime, location, checklistID)
	if err != nil {
		return domain.ChecklistRecord{}, fmt.Errorf("extract record: %w", err)
	}
	return rec, nil
}
