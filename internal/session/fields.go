package session

import (
	"math"
	"strconv"
	"strings"

	"github.com/meltforce/trailmark/internal/workout"
)

// FormFields are the raw, unvalidated values read from the entry form.
type FormFields struct {
	Type      string `json:"type"`
	Distance  string `json:"distance"`
	Duration  string `json:"duration"`
	Cadence   string `json:"cadence,omitempty"`
	Elevation string `json:"elevation,omitempty"`
}

// parse converts the raw fields for the factory. Blank or unparseable
// numbers become NaN so the factory reports them as invalid.
func (f FormFields) parse() (kind workout.Kind, distance, duration, extra float64) {
	kind = workout.Kind(strings.ToLower(strings.TrimSpace(f.Type)))
	distance = parseNumber(f.Distance)
	duration = parseNumber(f.Duration)
	switch kind {
	case workout.KindCycling:
		extra = parseNumber(f.Elevation)
	default:
		extra = parseNumber(f.Cadence)
	}
	return kind, distance, duration, extra
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
