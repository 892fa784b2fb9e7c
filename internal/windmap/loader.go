// Package windmap renders the inline wind map: it checks that the page can
// host one, loads every pressure level in turn, and hands the dataset to the
// page's rendering libraries through a JSON data island.
package windmap

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/checklist-wind-map/internal/domain"
	"github.com/couchcryptid/checklist-wind-map/internal/observability"
)

// LoadLevels requests each pressure level for the record's place and time,
// one at a time in the fixed order. A level that fails is logged and left out
// of the dataset; the remaining levels are still requested.
func LoadLevels(ctx context.Context, fetcher domain.LevelFetcher, rec domain.ChecklistRecord, logger *slog.Logger, metrics *observability.Metrics) domain.PressureLevelDataset {
	dataset := make(domain.PressureLevelDataset, len(domain.PressureLevels))

	for _, level := range domain.PressureLevels {
		start := time.Now()
		samples, err := fetcher.RequestLevelData(ctx, rec.Lat, rec.Lng, rec.Datetime, level)
		metrics.LevelDuration.WithLabelValues(string(level)).Observe(time.Since(start).Seconds())

		if err != nil {
			logger.Warn("level fetch failed, skipping",
				"level", level,
				"error", err,
				"checklist_id", rec.ChecklistID,
			)
			metrics.LevelRequests.WithLabelValues(string(level), "error").Inc()
			continue
		}
		metrics.LevelRequests.WithLabelValues(string(level), "success").Inc()
		dataset[level] = samples
	}

	metrics.LevelsLoaded.Observe(float64(len(dataset)))
	logger.Info("pressure levels loaded",
		"loaded", len(dataset),
		"requested", len(domain.PressureLevels),
		"checklist_id", rec.ChecklistID,
		"levels", dataset.Levels(),
	)
	return dataset
}
