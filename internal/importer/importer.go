// Package importer moves workouts saved by the browser tracker into the
// configured store.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/meltforce/trailmark/internal/persistence"
	"github.com/meltforce/trailmark/internal/workout"
)

// Stats tracks import progress.
type Stats struct {
	Read       int
	Imported   int
	Duplicated int
	Invalid    int
	Total      int
}

// Importer appends legacy workouts to the persisted collection.
type Importer struct {
	persist *persistence.Adapter
	log     *slog.Logger
	dryRun  bool
	loc     *time.Location
	stats   Stats
}

// New creates a new Importer. Descriptions are dated in loc (time.Local
// when nil), matching what the browser showed.
func New(persist *persistence.Adapter, log *slog.Logger, dryRun bool, loc *time.Location) *Importer {
	if loc == nil {
		loc = time.Local
	}
	return &Importer{persist: persist, log: log, dryRun: dryRun, loc: loc}
}

// Import reads an export from r and appends every valid workout whose id is
// not stored yet. Existing workouts keep their position at the front.
func (imp *Importer) Import(ctx context.Context, r io.Reader) (*Stats, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return &imp.stats, fmt.Errorf("reading export: %w", err)
	}
	items, err := parseLegacy(data)
	if err != nil {
		return &imp.stats, err
	}
	imp.stats.Read = len(items)

	// A corrupt collection is not overwritten: the import stops instead.
	existing, err := imp.persist.Load(ctx)
	if err != nil {
		return &imp.stats, fmt.Errorf("loading stored workouts: %w", err)
	}

	seen := make(map[string]bool, len(existing)+len(items))
	for _, rec := range existing {
		seen[rec.ID()] = true
	}

	all := append([]workout.Record(nil), existing...)
	for i, item := range items {
		if seen[item.ID] {
			imp.stats.Duplicated++
			continue
		}
		rec, err := item.record(imp.loc)
		if err != nil {
			imp.log.Warn("skipping legacy workout", "index", i, "id", item.ID, "error", err)
			imp.stats.Invalid++
			continue
		}
		seen[rec.ID()] = true
		all = append(all, rec)
		imp.stats.Imported++
	}
	imp.stats.Total = len(all)

	if imp.dryRun || imp.stats.Imported == 0 {
		return &imp.stats, nil
	}
	if err := imp.persist.Save(ctx, all); err != nil {
		return &imp.stats, fmt.Errorf("saving workouts: %w", err)
	}
	imp.log.Info("legacy workouts saved", "key", imp.persist.Key(), "imported", imp.stats.Imported)
	return &imp.stats, nil
}
