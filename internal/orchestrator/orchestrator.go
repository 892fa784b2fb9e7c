// Package orchestrator drives one page load: it extracts the checklist record,
// injects the options panel, and serves the launch and inline-map actions.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/checklist-wind-map/internal/domain"
	"github.com/couchcryptid/checklist-wind-map/internal/extract"
	"github.com/couchcryptid/checklist-wind-map/internal/observability"
	"github.com/couchcryptid/checklist-wind-map/internal/page"
	"github.com/couchcryptid/checklist-wind-map/internal/panel"
)

// ErrAlreadyInjected means the page already carries the options panel.
var ErrAlreadyInjected = errors.New("weather options already injected")

// RecordPublisher receives every record whose panel was injected.
type RecordPublisher interface {
	PublishRecord(ctx context.Context, rec domain.ChecklistRecord) error
}

// Options holds the optional collaborators. Nil fields are skipped.
type Options struct {
	Libraries []string
	Geocoder  domain.Geocoder
	Publisher RecordPublisher
}

// Orchestrator injects the options panel into checklist pages.
type Orchestrator struct {
	registry  *Registry
	renderer  *panel.Renderer
	fetcher   domain.LevelFetcher
	libraries []string
	geocoder  domain.Geocoder
	publisher RecordPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates an Orchestrator.
func New(registry *Registry, renderer *panel.Renderer, fetcher domain.LevelFetcher, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Orchestrator {
	return &Orchestrator{
		registry:  registry,
		renderer:  renderer,
		fetcher:   fetcher,
		libraries: opts.Libraries,
		geocoder:  opts.Geocoder,
		publisher: opts.Publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Inject extracts the record from doc and places the options panel before the
// page's content anchor. It does nothing to doc when it returns an error.
// The returned Session must be closed to release the page load's registry entry.
func (o *Orchestrator) Inject(ctx context.Context, doc *page.Document) (*Session, error) {
	if doc.HasElement(panel.ContainerID) {
		o.metrics.Injections.WithLabelValues("duplicate").Inc()
		return nil, ErrAlreadyInjected
	}
	key := doc.LoadID()
	if !o.registry.Acquire(key) {
		o.metrics.Injections.WithLabelValues("duplicate").Inc()
		return nil, fmt.Errorf("%w: %s", ErrAlreadyInjected, doc.Address())
	}

	var s *Session
	defer func() {
		if s == nil {
			o.registry.Release(key)
		}
	}()

	s, err := o.inject(ctx, doc, key)
	if err != nil {
		o.metrics.Injections.WithLabelValues(injectionOutcome(err)).Inc()
		return nil, err
	}
	o.metrics.Injections.WithLabelValues("injected").Inc()
	return s, nil
}

func (o *Orchestrator) inject(ctx context.Context, doc *page.Document, key uint64) (*Session, error) {
	rec, err := extract.Record(doc, o.logger)
	if err != nil {
		return nil, err
	}
	rec = domain.EnrichLocation(ctx, rec, o.geocoder, o.logger)

	fragment, err := o.renderer.Render(rec)
	if err != nil {
		return nil, err
	}
	if err := doc.InsertBeforeAnchor(fragment); err != nil {
		return nil, err
	}

	o.publish(ctx, rec)
	o.logger.Info("weather options injected",
		"checklist_id", rec.ChecklistID,
		"location", rec.Location,
		"datetime", rec.Datetime,
	)
	return newSession(o, doc, rec, key), nil
}

func (o *Orchestrator) publish(ctx context.Context, rec domain.ChecklistRecord) {
	if o.publisher == nil {
		return
	}
	if err := o.publisher.PublishRecord(ctx, rec); err != nil {
		o.logger.Warn("publish checklist record failed", "error", err, "checklist_id", rec.ChecklistID)
		o.metrics.RecordsPublished.WithLabelValues("error").Inc()
		return
	}
	o.metrics.RecordsPublished.WithLabelValues("success").Inc()
}

// Run is Inject for callers that only want the page augmented. Every failure,
// including a panic, is logged and swallowed; the session is nil on failure.
func (o *Orchestrator) Run(ctx context.Context, doc *page.Document) (s *Session) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("could not initialize weather options", "panic", r)
			o.metrics.Injections.WithLabelValues("error").Inc()
			s = nil
		}
	}()

	s, err := o.Inject(ctx, doc)
	if err != nil {
		o.logInjectError(err, doc)
		return nil
	}
	return s
}

func (o *Orchestrator) logInjectError(err error, doc *page.Document) {
	attrs := []any{"error", err, "page", doc.Address().String()}
	switch {
	case errors.Is(err, domain.ErrMissingCoordinates), errors.Is(err, domain.ErrMissingDatetime):
		o.logger.Warn("missing coordinates or date, cannot show weather options", attrs...)
	case errors.Is(err, ErrAlreadyInjected):
		o.logger.Info("weather options already present", attrs...)
	case errors.Is(err, domain.ErrAnchorNotFound):
		o.logger.Warn("no place to insert weather options", attrs...)
	default:
		o.logger.Error("could not initialize weather options", attrs...)
	}
}

func injectionOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCoordinates), errors.Is(err, domain.ErrMissingDatetime):
		return "missing_data"
	case errors.Is(err, domain.ErrAnchorNotFound):
		return "no_anchor"
	case errors.Is(err, domain.ErrInvalidRecord):
		return "invalid"
	default:
		return "error"
	}
}
