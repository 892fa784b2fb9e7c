package panel

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/checklist-wind-map/internal/domain"
)

// LaunchSource identifies this integration to the external weather map.
const LaunchSource = "ebird-extension"

// LaunchURL builds <siteURL>/index.html with lat, lng, datetime, checklistId and
// source query parameters, in that order. The location name is not sent.
func LaunchURL(siteURL string, rec domain.ChecklistRecord) string {
	params := [][2]string{
		{"lat", strconv.FormatFloat(rec.Lat, 'f', -1, 64)},
		{"lng", strconv.FormatFloat(rec.Lng, 'f', -1, 64)},
		{"datetime", rec.Datetime},
		{"checklistId", rec.ChecklistID},
		{"source", LaunchSource},
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(siteURL, "/"))
	b.WriteString("/index.html?")
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}

// ParseLaunchURL recovers the record fields carried by a launch URL. Location
// is always empty.
func ParseLaunchURL(raw string) (domain.ChecklistRecord, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return domain.ChecklistRecord{}, err
	}
	q := u.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return domain.ChecklistRecord{}, err
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		return domain.ChecklistRecord{}, err
	}
	return domain.NewChecklistRecord(domain.Coordinates{Lat: lat, Lon: lng}, q.Get("datetime"), "", q.Get("checklistId"))
}
