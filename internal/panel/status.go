package panel

import (
	"bytes"
	"html/template"
)

// Status is the message shown under the panel's buttons.
type Status int

const (
	StatusIdle Status = iota
	StatusLaunched
	StatusLoading
	StatusFailed
)

var statusText = map[Status]string{
	StatusIdle:     "Choose how you'd like to view weather conditions for this checklist location.",
	StatusLaunched: "Weather map opened in new tab!",
	StatusLoading:  "Loading inline weather map...",
	StatusFailed:   "Failed to load weather map. Try the external site option.",
}

var statusClass = map[Status]string{
	StatusIdle:     "status-idle",
	StatusLaunched: "status-success",
	StatusLoading:  "status-loading",
	StatusFailed:   "status-error",
}

// Text returns the user-facing message.
func (s Status) Text() string {
	return statusText[s]
}

var statusTmpl = template.Must(template.New("status").Parse(`<span class="{{.Class}}">{{.Text}}</span>`))

// Fragment renders the status for the status element.
func (s Status) Fragment() string {
	var buf bytes.Buffer
	_ = statusTmpl.Execute(&buf, struct{ Class, Text string }{statusClass[s], s.Text()})
	return buf.String()
}
