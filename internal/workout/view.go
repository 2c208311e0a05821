package workout

import "time"

// View is the API representation of a workout.
type View struct {
	ID          string      `json:"id"`
	Type        Kind        `json:"type"`
	CreatedAt   time.Time   `json:"created_at"`
	Coordinates Coordinates `json:"coordinates"`
	DistanceKm  float64     `json:"distance_km"`
	DurationMin float64     `json:"duration_min"`
	Description string      `json:"description"`

	CadenceSPM     *int     `json:"cadence_spm,omitempty"`
	PaceMinPerKm   *float64 `json:"pace_min_per_km,omitempty"`
	ElevationGainM *float64 `json:"elevation_gain_m,omitempty"`
	SpeedKmPerH    *float64 `json:"speed_km_per_h,omitempty"`
}

func NewView(r Record) View {
	v := View{
		ID:          r.id,
		Type:        r.kind,
		CreatedAt:   r.createdAt,
		Coordinates: r.coords,
		DistanceKm:  r.distanceKm,
		DurationMin: r.durationMin,
		Description: r.description,
	}
	if m, ok := r.Running(); ok {
		v.CadenceSPM = &m.CadenceSPM
		v.PaceMinPerKm = &m.PaceMinPerKm
	}
	if m, ok := r.Cycling(); ok {
		v.ElevationGainM = &m.ElevationGainM
		v.SpeedKmPerH = &m.SpeedKmPerH
	}
	return v
}

// NewViews converts records in order. The result is never nil.
func NewViews(records []Record) []View {
	out := make([]View, 0, len(records))
	for _, r := range records {
		out = append(out, NewView(r))
	}
	return out
}
