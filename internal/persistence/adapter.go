// Package persistence saves and restores the workout collection through a
// key/value byte store.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/meltforce/trailmark/internal/kvstore"
	"github.com/meltforce/trailmark/internal/observability"
	"github.com/meltforce/trailmark/internal/workout"
)

// DefaultKey is the key the collection is stored under.
const DefaultKey = "workouts"

var (
	// ErrPersistenceUnavailable wraps any byte store failure.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	// ErrCorruptPersistedState means the stored blob could not be turned back
	// into workouts and was discarded.
	ErrCorruptPersistedState = errors.New("corrupt persisted state")
)

// Adapter translates between workout records and the stored JSON blob.
type Adapter struct {
	kv  kvstore.Store
	key string
	log *slog.Logger
}

// New creates an Adapter storing under key (DefaultKey when empty).
func New(kv kvstore.Store, key string, log *slog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{kv: kv, key: key, log: log}
}

// Key returns the byte store key in use.
func (a *Adapter) Key() string {
	return a.key
}

// Save writes the full ordered collection.
func (a *Adapter) Save(ctx context.Context, records []workout.Record) error {
	data, err := encode(records)
	if err != nil {
		return fmt.Errorf("%w: encoding workouts: %w", ErrPersistenceUnavailable, err)
	}
	if err := a.kv.Set(ctx, a.key, string(data)); err != nil {
		observability.PersistenceFailures.WithLabelValues("save").Inc()
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	observability.RecordSave(time.Now())
	a.log.Debug("workouts saved", "key", a.key, "count", len(records), "bytes", len(data))
	return nil
}

// Load reads the collection back. An absent key yields an empty collection.
// On any error the returned slice is empty; nothing is partially recovered.
func (a *Adapter) Load(ctx context.Context) ([]workout.Record, error) {
	raw, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		observability.PersistenceFailures.WithLabelValues("load").Inc()
		return nil, fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	records, err := decode([]byte(raw))
	if err != nil {
		observability.CorruptLoads.Inc()
		return nil, fmt.Errorf("%w: %w", ErrCorruptPersistedState, err)
	}
	a.log.Debug("workouts loaded", "key", a.key, "count", len(records))
	return records, nil
}

// Clear removes the stored collection.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.kv.Remove(ctx, a.key); err != nil {
		observability.PersistenceFailures.WithLabelValues("clear").Inc()
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	return nil
}
