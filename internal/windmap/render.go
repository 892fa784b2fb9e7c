package windmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"

	"github.com/couchcryptid/checklist-wind-map/internal/domain"
)

// Element ids written into the page.
const (
	ContainerID = "gfs-wind-map"
	SpinnerID   = "loading-spinner"
	DataID      = "gfs-wind-data"
)

var containerTmpl = template.Must(template.New("container").Parse(
	`<div id="gfs-wind-map" class="gfs-wind-map" data-lat="{{.Lat}}" data-lng="{{.Lng}}" data-datetime="{{.Datetime}}">` +
		`<div id="loading-spinner" class="loading-spinner" hidden>Loading wind data...</div>` +
		`</div>`,
))

func renderContainer(rec domain.ChecklistRecord) (string, error) {
	var buf bytes.Buffer
	if err := containerTmpl.Execute(&buf, rec); err != nil {
		return "", fmt.Errorf("render map container: %w", err)
	}
	return buf.String(), nil
}

// islandPayload is what the page's map script reads from the data island.
type islandPayload struct {
	Center   domain.Coordinates          `json:"center"`
	Datetime string                      `json:"datetime"`
	Levels   []domain.PressureLevel      `json:"levels"`
	Data     domain.PressureLevelDataset `json:"data"`
}

// renderDataIsland serialises the dataset into a non-executing script element.
// encoding/json escapes '<', '>' and '&', so the payload cannot close the element.
func renderDataIsland(rec domain.ChecklistRecord, dataset domain.PressureLevelDataset) (string, error) {
	payload, err := json.Marshal(islandPayload{
		Center:   rec.Coordinates(),
		Datetime: rec.Datetime,
		Levels:   dataset.Levels(),
		Data:     dataset,
	})
	if err != nil {
		return "", fmt.Errorf("encode wind dataset: %w", err)
	}
	return fmt.Sprintf(`<script type="application/json" id="%s" data-center-lat="%s" data-center-lng="%s">%s</script>`,
		DataID,
		strconv.FormatFloat(rec.Lat, 'f', -1, 64),
		strconv.FormatFloat(rec.Lng, 'f', -1, 64),
		payload,
	), nil
}
