package relay

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/checklist-wind-map/internal/observability"
)

// ErrBridgeClosed is returned by Send when no worker is serving the bridge.
var ErrBridgeClosed = errors.New("relay bridge is not serving")

// Bridge is a Transport whose messages are handled by a single background
// worker, so at most one upstream request is in flight at a time.
type Bridge struct {
	upstream Transport
	queue    chan call
	logger   *slog.Logger
	metrics  *observability.Metrics

	running  atomic.Bool
	started  chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

type call struct {
	ctx   context.Context
	msg   Message
	reply chan result
}

type result struct {
	resp *Response
	err  error
}

// NewBridge creates a bridge in front of upstream. Messages queue in a buffer
// of queueSize until the worker picks them up.
func NewBridge(upstream Transport, queueSize int, logger *slog.Logger, metrics *observability.Metrics) *Bridge {
	if queueSize < 0 {
		queueSize = 0
	}
	return &Bridge{
		upstream: upstream,
		queue:    make(chan call, queueSize),
		logger:   logger,
		metrics:  metrics,
		started:  make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Serve runs the worker until ctx is cancelled. It must be called at most once;
// after it returns, Send fails with ErrBridgeClosed.
func (b *Bridge) Serve(ctx context.Context) error {
	b.running.Store(true)
	close(b.started)
	defer b.stop()
	b.logger.Info("relay bridge serving")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("relay bridge stopping", "pending", len(b.queue))
			return nil
		case c := <-b.queue:
			b.metrics.RelayQueueSize.Dec()
			if err := c.ctx.Err(); err != nil {
				c.reply <- result{err: err}
				continue
			}
			resp, err := b.upstream.Send(c.ctx, c.msg)
			if err != nil {
				b.logger.Debug("relay upstream send failed",
					"level", c.msg.Level,
					"date", c.msg.Date,
					"error", err,
				)
			}
			c.reply <- result{resp: resp, err: err}
		}
	}
}

// Send queues msg for the worker and waits for the reply.
func (b *Bridge) Send(ctx context.Context, msg Message) (*Response, error) {
	if !b.running.Load() {
		return nil, ErrBridgeClosed
	}

	c := call{ctx: ctx, msg: msg, reply: make(chan result, 1)}
	b.metrics.RelayQueueSize.Inc()
	select {
	case b.queue <- c:
	case <-ctx.Done():
		b.metrics.RelayQueueSize.Dec()
		return nil, ctx.Err()
	case <-b.stopped:
		b.metrics.RelayQueueSize.Dec()
		return nil, ErrBridgeClosed
	}

	select {
	case r := <-c.reply:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-b.stopped:
		select {
		case r := <-c.reply:
			return r.resp, r.err
		default:
			return nil, ErrBridgeClosed
		}
	}
}

// Started is closed once the worker is running.
func (b *Bridge) Started() <-chan struct{} {
	return b.started
}

// CheckReadiness reports whether the worker is running.
func (b *Bridge) CheckReadiness(_ context.Context) error {
	if !b.running.Load() {
		return ErrBridgeClosed
	}
	return nil
}

func (b *Bridge) stop() {
	b.stopOnce.Do(func() {
		b.running.Store(false)
		close(b.stopped)
	})
}
