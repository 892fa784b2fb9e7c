package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/checklist-wind-map/internal/domain"
	"github.com/couchcryptid/checklist-wind-map/internal/extract"
	"github.com/couchcryptid/checklist-wind-map/internal/observability"
	"github.com/couchcryptid/checklist-wind-map/internal/orchestrator"
	"github.com/couchcryptid/checklist-wind-map/internal/page"
	"github.com/couchcryptid/checklist-wind-map/internal/panel"
	"github.com/couchcryptid/checklist-wind-map/internal/windmap"
)

const maxPageBytes = 8 << 20

var validate = validator.New()

// API serves the /v1 routes.
type API struct {
	orchestrator *orchestrator.Orchestrator
	fetcher      domain.LevelFetcher
	siteURL      string
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// NewAPI creates the /v1 handlers. siteURL is the external weather map that
// launch links point at.
func NewAPI(o *orchestrator.Orchestrator, fetcher domain.LevelFetcher, siteURL string, logger *slog.Logger, metrics *observability.Metrics) *API {
	return &API{orchestrator: o, fetcher: fetcher, siteURL: siteURL, logger: logger, metrics: metrics}
}

func (a *API) register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/extract", a.handleExtract)
	mux.HandleFunc("POST /v1/augment", a.handleAugment)
	mux.HandleFunc("POST /v1/windmap", a.handleWindMap)
	mux.HandleFunc("GET /v1/launch", a.handleLaunch)
}

type extractResponse struct {
	Record    domain.ChecklistRecord `json:"record"`
	LaunchURL string                 `json:"launch_url"`
}

func (a *API) handleExtract(w http.ResponseWriter, r *http.Request) {
	doc, ok := a.readPage(w, r)
	if !ok {
		return
	}
	rec, err := extract.Record(doc, a.logger)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, extractResponse{Record: rec, LaunchURL: panel.LaunchURL(a.siteURL, rec)})
}

func (a *API) handleAugment(w http.ResponseWriter, r *http.Request) {
	inline, err := parseBool(r.URL.Query().Get("inline"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid inline parameter")
		return
	}
	doc, ok := a.readPage(w, r)
	if !ok {
		return
	}

	s, err := a.orchestrator.Inject(r.Context(), doc)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	defer s.Close()

	if inline {
		if _, err := s.ShowInline(r.Context()); err != nil {
			w.Header().Set("X-Inline-Map-Error", err.Error())
		}
	}

	html, err := s.HTML()
	if err != nil {
		a.logger.Error("render augmented page failed", "error", err)
		writeError(w, http.StatusInternalServerError, "render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Windmap-View", string(s.View()))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, html) //nolint:errcheck // client went away
}

type windMapResponse struct {
	Levels  []domain.PressureLevel      `json:"levels"`
	Dataset domain.PressureLevelDataset `json:"dataset"`
}

func (a *API) handleWindMap(w http.ResponseWriter, r *http.Request) {
	var rec domain.ChecklistRecord
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(rec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := rec.Time()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := domain.CheckCoverage(t); err != nil {
		writeError(w, http.StatusUnprocessableEntity, domain.ErrBeforeCoverage.Error())
		return
	}

	dataset := windmap.LoadLevels(r.Context(), a.fetcher, rec, a.logger, a.metrics)
	writeJSON(w, http.StatusOK, windMapResponse{Levels: dataset.Levels(), Dataset: dataset})
}

type launchQuery struct {
	Lat         float64 `validate:"gte=-90,lte=90"`
	Lng         float64 `validate:"gte=-180,lte=180"`
	Datetime    string  `validate:"required"`
	ChecklistID string  `validate:"omitempty,alphanum"`
}

func (a *API) handleLaunch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(w, http.StatusBadRequest, "lat and lng must be numbers")
		return
	}
	req := launchQuery{Lat: lat, Lng: lng, Datetime: q.Get("datetime"), ChecklistID: q.Get("checklistId")}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := domain.NewChecklistRecord(domain.Coordinates{Lat: req.Lat, Lon: req.Lng}, req.Datetime, "", req.ChecklistID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.metrics.Launches.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"url": panel.LaunchURL(a.siteURL, rec)})
}

func (a *API) readPage(w http.ResponseWriter, r *http.Request) (*page.Document, bool) {
	doc, err := page.Parse(http.MaxBytesReader(w, r.Body, maxPageBytes), r.URL.Query().Get("page_url"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return doc, true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, orchestrator.ErrAlreadyInjected):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMissingCoordinates),
		errors.Is(err, domain.ErrMissingDatetime),
		errors.Is(err, domain.ErrInvalidRecord),
		errors.Is(err, domain.ErrAnchorNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
