package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/meltforce/trailmark/internal/workout"
)

// element is one workout in the persisted JSON array. Variant fields are
// pointers so a missing field can be told apart from a zero value.
type element struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Coordinates []float64 `json:"coordinates"`
	DistanceKm  float64   `json:"distanceKm"`
	DurationMin float64   `json:"durationMin"`
	Type        string    `json:"type"`
	Description string    `json:"description"`

	CadenceSPM   *int     `json:"cadenceSpm,omitempty"`
	PaceMinPerKm *float64 `json:"paceMinPerKm,omitempty"`

	ElevationGainM *float64 `json:"elevationGainM,omitempty"`
	SpeedKmPerH    *float64 `json:"speedKmPerH,omitempty"`
}

func encode(records []workout.Record) ([]byte, error) {
	elems := make([]element, 0, len(records))
	for _, r := range records {
		s := r.Snapshot()
		e := element{
			ID:          s.ID,
			CreatedAt:   s.CreatedAt,
			Coordinates: []float64{s.Coordinates.Lat, s.Coordinates.Lng},
			DistanceKm:  s.DistanceKm,
			DurationMin: s.DurationMin,
			Type:        string(s.Kind),
			Description: s.Description,
		}
		switch s.Kind {
		case workout.KindRunning:
			e.CadenceSPM = &s.CadenceSPM
			e.PaceMinPerKm = &s.PaceMinPerKm
		case workout.KindCycling:
			e.ElevationGainM = &s.ElevationGainM
			e.SpeedKmPerH = &s.SpeedKmPerH
		}
		elems = append(elems, e)
	}
	return json.Marshal(elems)
}

// decode parses the blob and re-tags every element by its type field. The
// first bad element fails the whole collection.
func decode(data []byte) ([]workout.Record, error) {
	var elems []element
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("parsing workouts: %w", err)
	}
	records := make([]workout.Record, 0, len(elems))
	for i, e := range elems {
		r, err := e.record()
		if err != nil {
			return nil, fmt.Errorf("workout #%d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func (e element) record() (workout.Record, error) {
	kind, err := workout.ParseKind(e.Type)
	if err != nil {
		return workout.Record{}, err
	}
	if len(e.Coordinates) != 2 {
		return workout.Record{}, fmt.Errorf("coordinates must hold [lat, lng], got %d values", len(e.Coordinates))
	}
	s := workout.Snapshot{
		ID:          e.ID,
		Kind:        kind,
		CreatedAt:   e.CreatedAt,
		Coordinates: workout.Coordinates{Lat: e.Coordinates[0], Lng: e.Coordinates[1]},
		DistanceKm:  e.DistanceKm,
		DurationMin: e.DurationMin,
		Description: e.Description,
	}
	switch kind {
	case workout.KindRunning:
		if e.CadenceSPM == nil || e.PaceMinPerKm == nil {
			return workout.Record{}, fmt.Errorf("running workout %s lacks cadenceSpm or paceMinPerKm", e.ID)
		}
		s.CadenceSPM = *e.CadenceSPM
		s.PaceMinPerKm = *e.PaceMinPerKm
	case workout.KindCycling:
		if e.ElevationGainM == nil || e.SpeedKmPerH == nil {
			return workout.Record{}, fmt.Errorf("cycling workout %s lacks elevationGainM or speedKmPerH", e.ID)
		}
		s.ElevationGainM = *e.ElevationGainM
		s.SpeedKmPerH = *e.SpeedKmPerH
	}
	return workout.Restore(s)
}
