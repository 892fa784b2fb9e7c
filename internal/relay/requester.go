package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/couchcryptid/checklist-wind-map/internal/domain"
)

var (
	// ErrDelivery wraps transport failures.
	ErrDelivery = errors.New("relay delivery failed")

	// ErrUnrecognizedResponse means the reply was missing or its data was not an array.
	ErrUnrecognizedResponse = errors.New("unrecognized relay response")
)

// RemoteError is a failure reported by the far side of the relay.
type RemoteError struct {
	Payload json.RawMessage
}

func (e *RemoteError) Error() string {
	return "relay error: " + e.Message()
}

// Message renders the payload as text. String payloads are unquoted; an absent
// payload reads "Unknown error".
func (e *RemoteError) Message() string {
	p := bytes.TrimSpace(e.Payload)
	if len(p) == 0 || bytes.Equal(p, []byte("null")) {
		return "Unknown error"
	}
	var s string
	if err := json.Unmarshal(p, &s); err == nil {
		return s
	}
	return string(p)
}

// Requester implements domain.LevelFetcher over a Transport. It performs no
// retries and applies no timeout beyond what the transport and context impose.
type Requester struct {
	transport Transport
}

// NewRequester creates a Requester.
func NewRequester(t Transport) *Requester {
	return &Requester{transport: t}
}

// RequestLevelData asks for one level's samples and returns the reply's data.
func (r *Requester) RequestLevelData(ctx context.Context, lat, lon float64, date string, level domain.PressureLevel) (domain.SampleArray, error) {
	resp, err := r.transport.Send(ctx, Message{
		Type:  MessageType,
		Lat:   lat,
		Lon:   lon,
		Date:  date,
		Level: level,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	if resp == nil {
		return nil, ErrUnrecognizedResponse
	}
	if !resp.Success {
		return nil, &RemoteError{Payload: resp.Error}
	}

	data := bytes.TrimSpace(resp.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: data is not an array", ErrUnrecognizedResponse)
	}
	var samples domain.SampleArray
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnrecognizedResponse, err)
	}
	if samples == nil {
		samples = domain.SampleArray{}
	}
	return samples, nil
}
