// Package pagetest builds checklist page fixtures for tests.
package pagetest

import (
	"fmt"
	"strings"
)

// ChecklistURL is the address of the default fixture page.
const ChecklistURL = "https://ebird.org/checklist/S12345"

// Fixture describes a checklist page. Zero-valued fields are left out of the
// rendered HTML.
type Fixture struct {
	MapHref   string   // href of the "View with Google Maps" link
	Datetime  string   // datetime attribute of the time element
	Headings  []string // raw HTML placed in the page header, in order
	Libraries []string // script srcs
	NoAnchor  bool     // omit the content anchor
}

// Default returns a well-formed checklist page fixture.
func Default() Fixture {
	return Fixture{
		MapHref:  "https://www.google.com/maps/search/?api=1&query=40.1,-74.2",
		Datetime: "2023-05-01T12:00:00Z",
		Headings: []string{
			`<div class="Heading-main"><span class="Heading-main-text">Sandy Hook--North Beach</span></div>`,
		},
		Libraries: []string{
			"https://unpkg.com/leaflet@1.9.4/dist/leaflet.js",
			"https://d3js.org/d3.v7.min.js",
		},
	}
}

// HTML renders the fixture as a full page.
func (f Fixture) HTML() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>eBird Checklist</title>")
	for _, src := range f.Libraries {
		fmt.Fprintf(&b, `<script src="%s"></script>`, src)
	}
	b.WriteString("</head><body><header>")
	for _, h := range f.Headings {
		b.WriteString(h)
	}
	b.WriteString("</header><main>")
	if f.Datetime != "" {
		fmt.Fprintf(&b, `<time datetime="%s">Mon 1 May 2023 12:00</time>`, f.Datetime)
	}
	if f.MapHref != "" {
		fmt.Fprintf(&b, `<a href="%s" title="View with Google Maps">Map</a>`, f.MapHref)
	}
	if !f.NoAnchor {
		b.WriteString(`<div class="Page-section Page-section--white Page-section--grid-content u-inset-responsive">`)
		b.WriteString(`<div class="Page-section-inner"><h2>Species</h2></div></div>`)
	}
	b.WriteString("</main></body></html>")
	return b.String()
}
