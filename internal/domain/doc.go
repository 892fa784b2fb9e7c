// Package domain models an eBird checklist record and the GFS wind data that is
// fetched for it.
//
// # Page Conventions
//
// A checklist page at https://ebird.org/checklist/<ID> carries everything the
// record needs, but only loosely:
//
//	Coordinates: the "View with Google Maps" link,
//	  e.g. https://www.google.com/maps/search/?api=1&query=40.1,-74.2
//	Date/time:   <time datetime="2025-08-31T07:15"> (offset usually omitted)
//	Identifier:  the path segment after /checklist/, uppercase alphanumerics (S123456789)
//	Location:    one of several heading elements; some page layouts put the
//	             observation date in the heading instead of the place name.
//
// Zone-less datetimes are read as UTC. The raw attribute is kept on the record
// unchanged so downstream consumers see exactly what the page published.
//
// # Wind Data
//
// Wind fields come from the NOAA Global Forecast System (GFS), one request per
// isobaric level. Levels are tried in a fixed order from the surface upwards:
//
//	925, 900, 850, 800, 750, 700 (hPa / mb)
//
// Each level's payload is a pair of velocity grids (U and V components), each a
// {"header": {...}, "data": [...]} object in the layout consumed by
// leaflet-velocity. The payload is opaque here and carried as raw JSON.
//
// The archive has no coverage before 2021-01-01T00:00:00Z; see [HistoricalFloor].
package domain
