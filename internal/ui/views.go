package ui

import (
	"strconv"
	"time"

	"github.com/meltforce/trailmark/internal/workout"
)

// Stat is one labelled figure in a list entry.
type Stat struct {
	Icon  string `json:"icon"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// ListItemView is the display form of a workout in the list.
type ListItemView struct {
	ID          string              `json:"id"`
	Type        workout.Kind        `json:"type"`
	Description string              `json:"description"`
	Coordinates workout.Coordinates `json:"coordinates"`
	CreatedAt   time.Time           `json:"createdAt"`
	Stats       []Stat              `json:"stats"`
}

// NewListItemView formats r. Pace and speed carry one decimal.
func NewListItemView(r workout.Record) ListItemView {
	v := ListItemView{
		ID:          r.ID(),
		Type:        r.Kind(),
		Description: r.Description(),
		Coordinates: r.Coordinates(),
		CreatedAt:   r.CreatedAt(),
		Stats: []Stat{
			{Icon: r.Kind().Icon(), Value: formatNumber(r.DistanceKm()), Unit: "km"},
			{Icon: "⏱", Value: formatNumber(r.DurationMin()), Unit: "min"},
		},
	}
	if m, ok := r.Running(); ok {
		v.Stats = append(v.Stats,
			Stat{Icon: "⚡️", Value: strconv.FormatFloat(m.PaceMinPerKm, 'f', 1, 64), Unit: "min/km"},
			Stat{Icon: "🦶🏼", Value: strconv.Itoa(m.CadenceSPM), Unit: "spm"},
		)
	}
	if m, ok := r.Cycling(); ok {
		v.Stats = append(v.Stats,
			Stat{Icon: "⚡️", Value: strconv.FormatFloat(m.SpeedKmPerH, 'f', 1, 64), Unit: "km/h"},
			Stat{Icon: "⛰", Value: formatNumber(m.ElevationGainM), Unit: "m"},
		)
	}
	return v
}

// formatNumber prints inputs as the user typed them: no trailing zeros.
func formatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
