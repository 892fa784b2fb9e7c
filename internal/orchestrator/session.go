package orchestrator

import (
	"context"
	"sync"

	"github.com/couchcryptid/checklist-wind-map/internal/domain"
	"github.com/couchcryptid/checklist-wind-map/internal/page"
	"github.com/couchcryptid/checklist-wind-map/internal/panel"
	"github.com/couchcryptid/checklist-wind-map/internal/windmap"
)

// View is which of the two mutually exclusive views is visible.
type View string

const (
	ViewOptions   View = "options"
	ViewInlineMap View = "inline-map"
)

// Session is the augmented state of one page load. Its methods are
// serialised, so concurrent actions cannot interleave view transitions.
type Session struct {
	mu        sync.Mutex
	o         *Orchestrator
	doc       *page.Document
	rec       domain.ChecklistRecord
	key       uint64
	presenter *windmap.Presenter
	view      View
	closeOnce sync.Once
}

func newSession(o *Orchestrator, doc *page.Document, rec domain.ChecklistRecord, key uint64) *Session {
	return &Session{
		o:         o,
		doc:       doc,
		rec:       rec,
		key:       key,
		presenter: windmap.NewPresenter(doc, o.fetcher, o.libraries, o.logger, o.metrics),
		view:      ViewOptions,
	}
}

// Launch returns the external weather map link and reports it as opened.
func (s *Session) Launch() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.o.renderer.LaunchURL(s.rec)
	s.doc.SetContent(panel.StatusID, panel.StatusLaunched.Fragment())
	s.o.metrics.Launches.Inc()
	s.o.logger.Info("opening weather map", "url", u, "checklist_id", s.rec.ChecklistID)
	return u
}

// ShowInline replaces the panel with the inline map. When the map cannot be
// shown the panel comes back with a failure status and the error is returned.
func (s *Session) ShowInline(ctx context.Context) (domain.PressureLevelDataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.SetContent(panel.StatusID, panel.StatusLoading.Fragment())
	s.doc.SetVisible(panel.ContainerID, false)
	s.view = ViewInlineMap

	dataset, err := s.presenter.Show(ctx, s.rec)
	if err != nil {
		s.o.logger.Warn("failed to load inline weather map", "error", err, "checklist_id", s.rec.ChecklistID)
		s.doc.SetContent(panel.StatusID, panel.StatusFailed.Fragment())
		s.doc.SetVisible(panel.ContainerID, true)
		s.view = ViewOptions
		return nil, err
	}

	s.doc.RemoveElement(panel.BackButtonID)
	if err := s.doc.InsertBeforeAnchor(panel.BackButton()); err != nil {
		s.o.logger.Warn("could not add back to options control", "error", err)
	}
	return dataset, nil
}

// BackToOptions removes the inline map and its back control and shows the panel.
func (s *Session) BackToOptions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.presenter.Teardown()
	s.doc.RemoveElement(panel.BackButtonID)
	s.doc.SetVisible(panel.ContainerID, true)
	s.doc.SetContent(panel.StatusID, panel.StatusIdle.Fragment())
	s.view = ViewOptions
}

// View reports the visible view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// MapState reports the inline map's lifecycle position.
func (s *Session) MapState() windmap.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presenter.State()
}

// Record returns the extracted (and possibly enriched) record.
func (s *Session) Record() domain.ChecklistRecord {
	return s.rec
}

// HTML renders the augmented page.
func (s *Session) HTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.HTML()
}

// Close releases the page load's registry entry. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.o.registry.Release(s.key)
	})
}
