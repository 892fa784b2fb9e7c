package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// PressureLevel is an isobaric level in millibars, e.g. "850".
type PressureLevel string

// PressureLevels is the fixed set of levels requested for an inline map, in
// request order.
var PressureLevels = []PressureLevel{"925", "900", "850", "800", "750", "700"}

// HistoricalFloor is the earliest instant the wind-data provider covers.
var HistoricalFloor = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

// SampleArray is one level's wind samples exactly as the provider returned them.
type SampleArray []json.RawMessage

// PressureLevelDataset maps a level to its samples. Levels that failed to load
// are absent rather than empty.
type PressureLevelDataset map[PressureLevel]SampleArray

// Levels returns the levels present in the dataset in the fixed request order.
func (d PressureLevelDataset) Levels() []PressureLevel {
	levels := make([]PressureLevel, 0, len(d))
	for _, level := range PressureLevels {
		if _, ok := d[level]; ok {
			levels = append(levels, level)
		}
	}
	return levels
}

// CheckCoverage rejects instants before HistoricalFloor.
func CheckCoverage(t time.Time) error {
	if t.Before(HistoricalFloor) {
		return fmt.Errorf("%w: requested %s", ErrBeforeCoverage, t.UTC().Format(time.RFC3339))
	}
	return nil
}

// LevelFetcher retrieves one pressure level's samples for a place and date.
type LevelFetcher interface {
	RequestLevelData(ctx context.Context, lat, lon float64, date string, level PressureLevel) (SampleArray, error)
}
