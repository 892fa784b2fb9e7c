package domain

import "errors"

var (
	// ErrMissingCoordinates means the page has no usable map link. Expected on
	// pages that are not observation checklists.
	ErrMissingCoordinates = errors.New("missing coordinates")

	// ErrMissingDatetime means the page has no machine-readable timestamp.
	ErrMissingDatetime = errors.New("missing datetime")

	// ErrInvalidRecord means extracted values violate record invariants.
	ErrInvalidRecord = errors.New("invalid checklist record")

	// ErrBeforeCoverage is returned for dates the wind archive does not cover.
	ErrBeforeCoverage = errors.New("no wind data available before January 1, 2021")

	// ErrAnchorNotFound means the page lacks the element injected UI is placed before.
	ErrAnchorNotFound = errors.New("target element not found")

	// ErrRendererUnavailable means the map rendering libraries are not loaded on the page.
	ErrRendererUnavailable = errors.New("map rendering libraries not loaded")
)
