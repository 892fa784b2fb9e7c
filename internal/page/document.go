// Package page adapts an eBird checklist page's HTML to the capabilities the
// extractor, option panel, and map presenter need. All selectors that depend
// on eBird's markup live here.
package page

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/checklist-wind-map/internal/domain"
)

const (
	coordinateLinkSelector = "a[title='View with Google Maps']"
	timestampSelector      = "time[datetime]"

	// AnchorSelector matches the content section that injected UI is placed before.
	AnchorSelector = "div.Page-section.Page-section--white.Page-section--grid-content.u-inset-responsive div.Page-section-inner"
)

// locationSelectors are tried in order, most specific first.
var locationSelectors = []string{
	".Heading-main .Heading-main-text",
	".Checklist-meta-location",
	".Checklist-meta-location a",
	".Heading-main h1",
	`a[href*="/region/"]`,
	`h1:not([class*="Date"]):not([class*="Time"])`,
	".Heading-main",
	"h1",
}

// loadSeq numbers parsed documents; every Parse is a new page load.
var loadSeq atomic.Uint64

// Document is a parsed checklist page plus the address it was loaded from.
// It is not safe for concurrent use.
type Document struct {
	doc     *goquery.Document
	address *url.URL
	loadID  uint64
}

// Parse reads an HTML page. pageURL is the address the page was served from
// and may be empty when unknown.
func Parse(r io.Reader, pageURL string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	address, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	return &Document{doc: doc, address: address, loadID: loadSeq.Add(1)}, nil
}

// ParseString is Parse for an in-memory page.
func ParseString(html, pageURL string) (*Document, error) {
	return Parse(strings.NewReader(html), pageURL)
}

// LoadID identifies this page load. Two parses of the same address are
// different loads.
func (d *Document) LoadID() uint64 {
	return d.loadID
}

// Address returns the page URL.
func (d *Document) Address() *url.URL {
	return d.address
}

// CoordinateLink returns the href of the external map link.
func (d *Document) CoordinateLink() (string, bool) {
	return d.doc.Find(coordinateLinkSelector).First().Attr("href")
}

// Timestamp returns the machine-readable datetime of the first time element.
func (d *Document) Timestamp() (string, bool) {
	return d.doc.Find(timestampSelector).First().Attr("datetime")
}

// LocationCandidates returns, in selector order, the trimmed text of the first
// element matching each location selector. Selectors with no match or only
// whitespace are omitted.
func (d *Document) LocationCandidates() []string {
	var out []string
	for _, sel := range locationSelectors {
		text := strings.TrimSpace(d.doc.Find(sel).First().Text())
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

// HasLibrary reports whether a script whose src mentions name is loaded.
func (d *Document) HasLibrary(name string) bool {
	found := false
	d.doc.Find("script[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if strings.Contains(strings.ToLower(src), strings.ToLower(name)) {
			found = true
			return false
		}
		return true
	})
	return found
}

// HasElement reports whether an element with the given id exists.
func (d *Document) HasElement(id string) bool {
	return d.byID(id).Length() > 0
}

// InsertBeforeAnchor places an HTML fragment immediately before the content
// anchor. It returns domain.ErrAnchorNotFound when the page has no anchor.
func (d *Document) InsertBeforeAnchor(fragment string) error {
	anchor := d.doc.Find(AnchorSelector).First()
	if anchor.Length() == 0 {
		return domain.ErrAnchorNotFound
	}
	anchor.BeforeHtml(fragment)
	return nil
}

// RemoveElement deletes the element with the given id, if present.
func (d *Document) RemoveElement(id string) {
	d.byID(id).Remove()
}

// SetVisible shows or hides the element with the given id.
func (d *Document) SetVisible(id string, visible bool) {
	sel := d.byID(id)
	if visible {
		sel.RemoveAttr("hidden")
		return
	}
	sel.SetAttr("hidden", "")
}

// Visible reports whether the element exists and is not hidden.
func (d *Document) Visible(id string) bool {
	sel := d.byID(id)
	if sel.Length() == 0 {
		return false
	}
	_, hidden := sel.Attr("hidden")
	return !hidden
}

// SetContent replaces the inner HTML of the element with the given id.
func (d *Document) SetContent(id, fragment string) {
	d.byID(id).SetHtml(fragment)
}

// AppendContent appends an HTML fragment inside the element with the given id.
func (d *Document) AppendContent(id, fragment string) {
	d.byID(id).AppendHtml(fragment)
}

// Text returns the text content of the element with the given id.
func (d *Document) Text(id string) string {
	return d.byID(id).Text()
}

// Attr returns an attribute of the element with the given id.
func (d *Document) Attr(id, name string) (string, bool) {
	return d.byID(id).Attr(name)
}

// Count returns how many elements match selector.
func (d *Document) Count(selector string) int {
	return d.doc.Find(selector).Length()
}

// HTML renders the whole document.
func (d *Document) HTML() (string, error) {
	return d.doc.Html()
}

func (d *Document) byID(id string) *goquery.Selection {
	return d.doc.Find("#" + id)
}
