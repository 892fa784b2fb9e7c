// Package relay carries wind-data requests across the boundary between page
// augmentation and the process that performs network fetches.
package relay

import (
	"context"
	"encoding/json"

	"github.com/couchcryptid/checklist-wind-map/internal/domain"
)

// MessageType tags requests for one pressure level of GFS wind data.
const MessageType = "fetchGFSData"

// Message is a single level request.
type Message struct {
	Type  string               `json:"type"`
	Lat   float64              `json:"lat"`
	Lon   float64              `json:"lon"`
	Date  string               `json:"date"`
	Level domain.PressureLevel `json:"level"`
}

// Response is the reply to a Message. Data is set when Success is true,
// Error (optionally) when it is false.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// Transport delivers a message and waits for its reply. A returned error means
// the message or its reply could not be delivered.
type Transport interface {
	Send(ctx context.Context, msg Message) (*Response, error)
}
