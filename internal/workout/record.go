// Package workout models logged running and cycling workouts.
package workout

import (
	"fmt"
	"time"
)

// Kind is the variant discriminant of a Record.
type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

// ParseKind maps a form or persisted type value onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindRunning, KindCycling:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown workout type %q", s)
	}
}

// Title returns the capitalized kind used in descriptions ("Running").
func (k Kind) Title() string {
	switch k {
	case KindRunning:
		return "Running"
	case KindCycling:
		return "Cycling"
	default:
		return string(k)
	}
}

// Icon returns the emoji shown next to workouts of this kind.
func (k Kind) Icon() string {
	if k == KindCycling {
		return "🚴‍♀️"
	}
	return "🏃‍♂️"
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}

// RunningMetrics holds the running-only fields of a Record.
type RunningMetrics struct {
	CadenceSPM   int
	PaceMinPerKm float64
}

// CyclingMetrics holds the cycling-only fields of a Record.
type CyclingMetrics struct {
	ElevationGainM float64
	SpeedKmPerH    float64
}

// Record is one logged workout. Records are immutable; derived fields are
// computed once when the record is created.
type Record struct {
	id          string
	kind        Kind
	createdAt   time.Time
	coords      Coordinates
	distanceKm  float64
	durationMin float64
	description string

	running RunningMetrics
	cycling CyclingMetrics
}

func (r Record) ID() string { return r.id }
func (r Record) Kind() Kind { return r.kind }
func (r Record) CreatedAt() time.Time { return r.createdAt }
func (r Record) Coordinates() Coordinates { return r.coords }
func (r Record) DistanceKm() float64 { return r.distanceKm }
func (r Record) DurationMin() float64 { return r.durationMin }
func (r Record) Description() string { return r.description }
func (r Record) IsZero() bool { return r.id == "" }

// Running returns the running metrics; ok is false for other kinds.
func (r Record) Running() (m RunningMetrics, ok bool) {
	return r.running, r.kind == KindRunning
}

// Cycling returns the cycling metrics; ok is false for other kinds.
func (r Record) Cycling() (m CyclingMetrics, ok bool) {
	return r.cycling, r.kind == KindCycling
}

// Equal reports whether both records carry identical fields, variant included.
func (r Record) Equal(o Record) bool {
	return r.id == o.id &&
		r.kind == o.kind &&
		r.createdAt.Equal(o.createdAt) &&
		r.coords == o.coords &&
		r.distanceKm == o.distanceKm &&
		r.durationMin == o.durationMin &&
		r.description == o.description &&
		r.running == o.running &&
		r.cycling == o.cycling
}

// Snapshot is the flat, exported form of a Record used by encoders.
type Snapshot struct {
	ID          string
	Kind        Kind
	CreatedAt   time.Time
	Coordinates Coordinates
	DistanceKm  float64
	DurationMin float64
	Description string

	CadenceSPM   int
	PaceMinPerKm float64

	ElevationGainM float64
	SpeedKmPerH    float64
}

// Snapshot flattens the record.
func (r Record) Snapshot() Snapshot {
	return Snapshot{
		ID:             r.id,
		Kind:           r.kind,
		CreatedAt:      r.createdAt,
		Coordinates:    r.coords,
		DistanceKm:     r.distanceKm,
		DurationMin:    r.durationMin,
		Description:    r.description,
		CadenceSPM:     r.running.CadenceSPM,
		PaceMinPerKm:   r.running.PaceMinPerKm,
		ElevationGainM: r.cycling.ElevationGainM,
		SpeedKmPerH:    r.cycling.SpeedKmPerH,
	}
}

// describe builds "<Type> on <Month> <day>" from the creation time.
func describe(kind Kind, at time.Time) string {
	return fmt.Sprintf("%s on %s %d", kind.Title(), at.Month(), at.Day())
}

func pace(distanceKm, durationMin float64) float64 {
	return durationMin / distanceKm
}

func speed(distanceKm, durationMin float64) float64 {
	return distanceKm / (durationMin / 60)
}
