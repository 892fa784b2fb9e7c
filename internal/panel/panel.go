// Package panel renders the weather options panel injected into a checklist
// page and builds the link to the external weather map.
package panel

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/couchcryptid/checklist-wind-map/internal/domain"
)

// Element ids of the panel.
const (
	ContainerID    = "weather-options-container"
	LocationID     = "location-details"
	DateID         = "date-details"
	StatusID       = "status-message"
	LaunchButtonID = "launch-weather-btn"
	InlineButtonID = "show-inline-btn"
	BackButtonID   = "back-to-options-btn"
)

var panelTmpl = template.Must(template.New("panel").Parse(`<div id="weather-options-container" class="weather-options">
<div class="weather-options-header"><h3>Weather Mapping Options</h3></div>
<div class="weather-options-details">
<div id="location-info"><div class="weather-options-label">Checklist Location</div>
<div id="location-details"><strong>{{.Location}}</strong><br><small>{{.Coordinates}}</small></div></div>
<div id="date-info"><div class="weather-options-label">Observation Date</div>
<div id="date-details"><strong>{{.Date}}</strong> at <strong>{{.Time}}</strong><br><small>{{.Subject}}</small></div></div>
</div>
<div class="weather-options-actions">
<button id="launch-weather-btn" type="button" data-href="{{.LaunchURL}}">Launch Weather Map</button>
<button id="show-inline-btn" type="button">Show Here</button>
</div>
<div id="status-message">{{.Status}}</div>
</div>`))

var backButtonTmpl = template.Must(template.New("back").Parse(
	`<button id="back-to-options-btn" type="button" class="back-to-options">&larr; Back to Options</button>`))

// Renderer formats records for display in a fixed zone and layout.
type Renderer struct {
	siteURL    string
	zone       *time.Location
	dateLayout string
	timeLayout string
}

// NewRenderer creates a Renderer. siteURL is the external weather map the
// launch button points at.
func NewRenderer(siteURL string, zone *time.Location, dateLayout, timeLayout string) *Renderer {
	if zone == nil {
		zone = time.UTC
	}
	return &Renderer{siteURL: siteURL, zone: zone, dateLayout: dateLayout, timeLayout: timeLayout}
}

type panelView struct {
	Location    string
	Coordinates string
	Date        string
	Time        string
	Subject     string
	LaunchURL   string
	Status      string
}

// Render returns the panel fragment for rec in its idle state.
func (r *Renderer) Render(rec domain.ChecklistRecord) (string, error) {
	t, err := rec.Time()
	if err != nil {
		return "", err
	}
	local := t.In(r.zone)

	subject := "Individual observation"
	if rec.ChecklistID != "" {
		subject = "Checklist " + rec.ChecklistID
	}

	var buf bytes.Buffer
	err = panelTmpl.Execute(&buf, panelView{
		Location:    rec.Location,
		Coordinates: fmt.Sprintf("%.4f, %.4f", rec.Lat, rec.Lng),
		Date:        local.Format(r.dateLayout),
		Time:        local.Format(r.timeLayout),
		Subject:     subject,
		LaunchURL:   r.LaunchURL(rec),
		Status:      StatusIdle.Text(),
	})
	if err != nil {
		return "", fmt.Errorf("render panel: %w", err)
	}
	return buf.String(), nil
}

// LaunchURL returns the external weather map link for rec.
func (r *Renderer) LaunchURL(rec domain.ChecklistRecord) string {
	return LaunchURL(r.siteURL, rec)
}

// BackButton returns the control that returns from the inline map to the panel.
func BackButton() string {
	var buf bytes.Buffer
	_ = backButtonTmpl.Execute(&buf, nil)
	return buf.String()
}
