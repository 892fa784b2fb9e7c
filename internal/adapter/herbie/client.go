// Package herbie is the HTTP client for the wind-data server that extracts
// GFS wind grids with Herbie and serves them at /api/get_gfs_data.
package herbie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/checklist-wind-map/internal/relay"
)

const dataPath = "/api/get_gfs_data"

// Client implements relay.Transport against the wind-data server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// Options configures the circuit breaker around upstream calls.
type Options struct {
	Timeout         time.Duration // per-request HTTP timeout
	BreakerFailures int           // consecutive failures that open the breaker
	BreakerTimeout  time.Duration // how long the breaker stays open
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts Options, logger *slog.Logger) *Client {
	failures := uint32(max(opts.BreakerFailures, 1)) //nolint:gosec // bounded by config validation
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "herbie",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: opts.Timeout},
		breaker:    cb,
		logger:     logger,
	}
}

type dataRequest struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Date  string  `json:"date"`
	Level int     `json:"level"`
}

type dataResponse struct {
	Status  string          `json:"status"`
	Message json.RawMessage `json:"message"`
}

// Send posts msg to the server and maps its status/message envelope onto a
// relay.Response. Server-reported failures are returned as unsuccessful
// responses; transport failures, undecodable bodies and an open breaker are
// returned as errors.
func (c *Client) Send(ctx context.Context, msg relay.Message) (*relay.Response, error) {
	level, err := strconv.Atoi(string(msg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid level %q: %w", msg.Level, err)
	}
	body, err := json.Marshal(dataRequest{Lat: msg.Lat, Lon: msg.Lon, Date: msg.Date, Level: level})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, body)
	})
	if err != nil {
		return nil, err
	}
	return out.(*relay.Response), nil
}

func (c *Client) post(ctx context.Context, body []byte) (*relay.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+dataPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wind data request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("wind data response", "status", resp.StatusCode, "bytes", len(raw), "elapsed", time.Since(start))

	var env dataResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("wind data server: status %d: undecodable body: %w", resp.StatusCode, err)
	}
	switch env.Status {
	case "success":
		return &relay.Response{Success: true, Data: env.Message}, nil
	case "error":
		return &relay.Response{Success: false, Error: env.Message}, nil
	default:
		return nil, fmt.Errorf("wind data server: status %d: unexpected envelope status %q", resp.StatusCode, env.Status)
	}
}
