package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meltforce/trailmark/internal/workout"
)

// LegacyKey is the localStorage key the browser tracker saved under.
const LegacyKey = "workoutArr"

var errNoLegacyKey = errors.New("export has no " + LegacyKey + " entry")

// legacyWorkout is one element of the browser tracker's saved array. The
// derived fields and description are recomputed on import; clicks is dropped.
type legacyWorkout struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	Coords        []float64 `json:"coords"`
	Distance      float64   `json:"distance"`
	Duration      float64   `json:"duration"`
	Type          string    `json:"type"`
	Cadence       *float64  `json:"cadence"`
	ElevationGain *float64  `json:"elevationGain"`
	Pace          *float64  `json:"pace"`
	Speed         *float64  `json:"speed"`
	Description   string    `json:"description"`
	Clicks        int       `json:"clicks"`
}

// parseLegacy accepts either the bare array or a localStorage dump object
// mapping keys to their stored values. localStorage values are strings, so
// the array may arrive JSON-encoded a second time.
func parseLegacy(data []byte) ([]legacyWorkout, error) {
	var items []legacyWorkout
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("parsing export: %w", err)
		}
		return items, nil
	}

	var dump map[string]json.RawMessage
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}
	raw, ok := dump[LegacyKey]
	if !ok {
		return nil, errNoLegacyKey
	}

	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		raw = json.RawMessage(inner)
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", LegacyKey, err)
	}
	return items, nil
}

// record rebuilds the workout through the factory so it passes the same
// validation as a form submission. The description uses loc for the date.
func (l legacyWorkout) record(loc *time.Location) (workout.Record, error) {
	if l.ID == "" {
		return workout.Record{}, errors.New("missing id")
	}
	if l.Date.IsZero() {
		return workout.Record{}, errors.New("missing date")
	}
	if len(l.Coords) != 2 {
		return workout.Record{}, fmt.Errorf("coords has %d values, want 2", len(l.Coords))
	}
	kind, err := workout.ParseKind(l.Type)
	if err != nil {
		return workout.Record{}, err
	}

	extra := math.NaN()
	switch {
	case kind == workout.KindRunning && l.Cadence != nil:
		extra = *l.Cadence
	case kind == workout.KindCycling && l.ElevationGain != nil:
		extra = *l.ElevationGain
	}

	f := workout.NewFactory(
		workout.WithClock(func() time.Time { return l.Date.In(loc) }),
		workout.WithIDGenerator(func() string { return l.ID }),
	)
	return f.Create(kind, workout.Coordinates{Lat: l.Coords[0], Lng: l.Coords[1]}, l.Distance, l.Duration, extra)
}
