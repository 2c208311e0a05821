package workout

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Field names reported in a ValidationError.
const (
	FieldType      = "type"
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
	FieldDistance  = "distance"
	FieldDuration  = "duration"
	FieldCadence   = "cadence"
	FieldElevation = "elevation"
)

// Factory validates raw input and builds Records.
type Factory struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Factory.
type Option func(*Factory)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) { f.now = now }
}

// WithIDGenerator overrides how record ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(f *Factory) { f.newID = newID }
}

// NewFactory returns a Factory using the wall clock and random UUIDs.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds a Record of the given kind. extra is the cadence in steps per
// minute for running and the elevation gain in meters for cycling.
func (f *Factory) Create(kind Kind, coords Coordinates, distanceKm, durationMin, extra float64) (Record, error) {
	v := &validator{}
	v.kind(kind)
	v.coordinates(coords)
	v.positive(FieldDistance, distanceKm)
	v.positive(FieldDuration, durationMin)
	switch kind {
	case KindRunning:
		v.cadence(extra)
	case KindCycling:
		v.nonNegative(FieldElevation, extra)
	}
	if err := v.err(); err != nil {
		return Record{}, err
	}

	createdAt := f.now()
	r := Record{
		id:          f.newID(),
		kind:        kind,
		createdAt:   createdAt,
		coords:      coords,
		distanceKm:  distanceKm,
		durationMin: durationMin,
		description: describe(kind, createdAt),
	}
	switch kind {
	case KindRunning:
		r.running = RunningMetrics{
			CadenceSPM:   int(extra),
			PaceMinPerKm: pace(distanceKm, durationMin),
		}
	case KindCycling:
		r.cycling = CyclingMetrics{
			ElevationGainM: extra,
			SpeedKmPerH:    speed(distanceKm, durationMin),
		}
	}
	return r, nil
}

// derivedTolerance absorbs float formatting differences from other encoders.
const derivedTolerance = 1e-9

// Restore rebuilds a Record from a snapshot without recomputing its derived
// fields. Primary fields are validated like Create does and the stored
// derived values must agree with their inputs.
func Restore(s Snapshot) (Record, error) {
	v := &validator{}
	if s.ID == "" {
		v.fail("id", "is required")
	}
	if s.CreatedAt.IsZero() {
		v.fail("createdAt", "is required")
	}
	v.kind(s.Kind)
	v.coordinates(s.Coordinates)
	v.positive(FieldDistance, s.DistanceKm)
	v.positive(FieldDuration, s.DurationMin)
	switch s.Kind {
	case KindRunning:
		v.cadence(float64(s.CadenceSPM))
	case KindCycling:
		v.nonNegative(FieldElevation, s.ElevationGainM)
	}
	if err := v.err(); err != nil {
		return Record{}, err
	}

	r := Record{
		id:          s.ID,
		kind:        s.Kind,
		createdAt:   s.CreatedAt,
		coords:      s.Coordinates,
		distanceKm:  s.DistanceKm,
		durationMin: s.DurationMin,
		description: s.Description,
	}
	if want := describe(s.Kind, s.CreatedAt); s.Description != want {
		return Record{}, fmt.Errorf("workout %s: description %q does not match %q", s.ID, s.Description, want)
	}
	switch s.Kind {
	case KindRunning:
		if !approxEqual(s.PaceMinPerKm, pace(s.DistanceKm, s.DurationMin)) {
			return Record{}, fmt.Errorf("workout %s: pace %v inconsistent with distance and duration", s.ID, s.PaceMinPerKm)
		}
		r.running = RunningMetrics{CadenceSPM: s.CadenceSPM, PaceMinPerKm: s.PaceMinPerKm}
	case KindCycling:
		if !approxEqual(s.SpeedKmPerH, speed(s.DistanceKm, s.DurationMin)) {
			return Record{}, fmt.Errorf("workout %s: speed %v inconsistent with distance and duration", s.ID, s.SpeedKmPerH)
		}
		r.cycling = CyclingMetrics{ElevationGainM: s.ElevationGainM, SpeedKmPerH: s.SpeedKmPerH}
	}
	return r, nil
}

func approxEqual(got, want float64) bool {
	return math.Abs(got-want) <= derivedTolerance*math.Max(1, math.Abs(want))
}

type validator struct {
	fields []FieldError
}

func (v *validator) fail(field, reason string) {
	v.fields = append(v.fields, FieldError{Field: field, Reason: reason})
}

func (v *validator) finite(field string, x float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		v.fail(field, "must be a finite number")
		return false
	}
	return true
}

func (v *validator) positive(field string, x float64) {
	if v.finite(field, x) && x <= 0 {
		v.fail(field, "must be positive")
	}
}

func (v *validator) nonNegative(field string, x float64) {
	if v.finite(field, x) && x < 0 {
		v.fail(field, "must not be negative")
	}
}

func (v *validator) cadence(x float64) {
	if !v.finite(FieldCadence, x) {
		return
	}
	switch {
	case x <= 0:
		v.fail(FieldCadence, "must be positive")
	case x != math.Trunc(x) || x > math.MaxInt32:
		v.fail(FieldCadence, "must be a whole number")
	}
}

func (v *validator) kind(k Kind) {
	if _, err := ParseKind(string(k)); err != nil {
		v.fail(FieldType, "must be running or cycling")
	}
}

func (v *validator) coordinates(c Coordinates) {
	if v.finite(FieldLatitude, c.Lat) && (c.Lat < -90 || c.Lat > 90) {
		v.fail(FieldLatitude, "must be between -90 and 90")
	}
	if v.finite(FieldLongitude, c.Lng) && (c.Lng < -180 || c.Lng > 180) {
		v.fail(FieldLongitude, "must be between -180 and 180")
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
