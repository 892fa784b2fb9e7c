package windmap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/checklist-wind-map/internal/domain"
	"github.com/couchcryptid/checklist-wind-map/internal/observability"
)

// State is the inline map's lifecycle position.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Surface is the part of the page the presenter reads and writes.
type Surface interface {
	HasLibrary(name string) bool
	InsertBeforeAnchor(fragment string) error
	RemoveElement(id string)
	SetVisible(id string, visible bool)
	AppendContent(id, fragment string)
}

// Presenter owns one inline map on one page. It is not safe for concurrent
// use; callers serialise Show and Teardown.
type Presenter struct {
	surface   Surface
	fetcher   domain.LevelFetcher
	libraries []string
	logger    *slog.Logger
	metrics   *observability.Metrics

	state   State
	dataset domain.PressureLevelDataset
}

// NewPresenter creates a presenter that requires the named rendering
// libraries to be loaded on the page before it draws anything.
func NewPresenter(surface Surface, fetcher domain.LevelFetcher, libraries []string, logger *slog.Logger, metrics *observability.Metrics) *Presenter {
	return &Presenter{
		surface:   surface,
		fetcher:   fetcher,
		libraries: libraries,
		logger:    logger,
		metrics:   metrics,
	}
}

// Show builds the map for rec. Precondition failures (missing libraries, a
// date before coverage, no anchor) are returned before any level is requested
// and leave the presenter failed. Individual level failures are not errors.
func (p *Presenter) Show(ctx context.Context, rec domain.ChecklistRecord) (domain.PressureLevelDataset, error) {
	p.state = StateInitializing

	for _, lib := range p.libraries {
		if !p.surface.HasLibrary(lib) {
			return nil, p.fail(fmt.Errorf("%w: %s", domain.ErrRendererUnavailable, lib))
		}
	}
	t, err := rec.Time()
	if err != nil {
		return nil, p.fail(err)
	}
	if err := domain.CheckCoverage(t); err != nil {
		return nil, p.fail(err)
	}

	p.surface.RemoveElement(ContainerID)
	p.dataset = nil

	container, err := renderContainer(rec)
	if err != nil {
		return nil, p.fail(err)
	}
	if err := p.surface.InsertBeforeAnchor(container); err != nil {
		return nil, p.fail(err)
	}
	p.surface.SetVisible(SpinnerID, true)

	dataset := LoadLevels(ctx, p.fetcher, rec, p.logger, p.metrics)

	p.surface.SetVisible(SpinnerID, false)
	island, err := renderDataIsland(rec, dataset)
	if err != nil {
		p.surface.RemoveElement(ContainerID)
		return nil, p.fail(err)
	}
	p.surface.AppendContent(ContainerID, island)

	if len(dataset) == 0 {
		p.logger.Warn("inline map has no wind data", "checklist_id", rec.ChecklistID)
	}
	p.dataset = dataset
	p.state = StateReady
	p.metrics.InlineMaps.WithLabelValues("ready").Inc()
	return dataset, nil
}

// Teardown removes the map and forgets its data. Level requests already in
// flight are not cancelled.
func (p *Presenter) Teardown() {
	p.surface.RemoveElement(ContainerID)
	p.dataset = nil
	p.state = StateUninitialized
}

// State reports the lifecycle position.
func (p *Presenter) State() State {
	return p.state
}

// Dataset returns the levels loaded by the last successful Show.
func (p *Presenter) Dataset() domain.PressureLevelDataset {
	return p.dataset
}

func (p *Presenter) fail(err error) error {
	p.state = StateFailed
	p.metrics.InlineMaps.WithLabelValues("failed").Inc()
	return err
}
