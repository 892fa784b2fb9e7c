package domain

import (
	"context"
	"log/slog"
)

// UnknownLocation is the label used when a page yields no usable place name.
const UnknownLocation = "Unknown Location"

// EnrichLocation replaces an UnknownLocation label with a reverse-geocoded
// place name. The record is returned unchanged when geocoder is nil, the label
// is already known, or the lookup fails or comes back empty.
func EnrichLocation(ctx context.Context, rec ChecklistRecord, geocoder Geocoder, logger *slog.Logger) ChecklistRecord {
	if geocoder == nil || rec.Location != UnknownLocation {
		return rec
	}

	result, err := geocoder.ReverseGeocode(ctx, rec.Lat, rec.Lng)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"checklist_id", rec.ChecklistID,
			"lat", rec.Lat,
			"lon", rec.Lng,
			"error", err,
		)
		return rec
	}

	switch {
	case result.PlaceName != "":
		rec.Location = result.PlaceName
	case result.FormattedAddress != "":
		rec.Location = result.FormattedAddress
	}
	return rec
}
