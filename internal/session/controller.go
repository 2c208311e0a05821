// Package session drives one workout-logging session: it reacts to map, form
// and list events, keeps the workout store, and asks collaborators to render.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/meltforce/trailmark/internal/observability"
	"github.com/meltforce/trailmark/internal/persistence"
	"github.com/meltforce/trailmark/internal/workout"
)

var (
	// ErrLocationUnavailable is returned by Start when no position was obtained.
	ErrLocationUnavailable = errors.New("location unavailable")
	// ErrInvalidEvent is returned for events the current state does not accept.
	ErrInvalidEvent = errors.New("event not valid in current state")
)

// User-facing alert texts.
const (
	AlertNoPosition   = "Could not get your position!"
	AlertInvalidInput = "Inputs have to be positive numbers and not empty"
)

// DefaultZoom is the map zoom used when Options.Zoom is unset.
const DefaultZoom = 13

// Options configures a Controller.
type Options struct {
	Zoom    int
	Factory *workout.Factory
}

// Controller owns the session's workout store. It is not safe for concurrent
// use; run its methods through a Loop.
type Controller struct {
	deps    Collaborators
	persist Persister
	factory *workout.Factory
	store   *workout.Store
	zoom    int
	log     *slog.Logger

	state    State
	mapReady bool
	center   workout.Coordinates
	picked   workout.Coordinates

	// unread is set while the persisted collection could not be read. Saving
	// then would overwrite workouts this session never saw.
	unread bool
}

// New creates a Controller in the Initializing state.
func New(deps Collaborators, persist Persister, opts Options, log *slog.Logger) *Controller {
	if opts.Zoom == 0 {
		opts.Zoom = DefaultZoom
	}
	if opts.Factory == nil {
		opts.Factory = workout.NewFactory()
	}
	return &Controller{
		deps:    deps,
		persist: persist,
		factory: opts.Factory,
		store:   workout.NewStore(),
		zoom:    opts.Zoom,
		log:     log,
		state:   Initializing,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// MapReady reports whether the map has been centered on a position.
func (c *Controller) MapReady() bool {
	return c.mapReady
}

// Workouts returns a copy of the stored workouts in creation order.
func (c *Controller) Workouts() []workout.Record {
	return c.store.All()
}

// Workout looks up one stored workout.
func (c *Controller) Workout(id string) (workout.Record, error) {
	return c.store.FindByID(id)
}

func (c *Controller) transition(to State) error {
	if !isAllowedTransition(c.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidEvent, c.state, to)
	}
	c.log.Debug("session transition", "from", c.state, "to", to)
	c.state = to
	return nil
}

// Start loads persisted workouts, lists them, then asks for the user's
// position. Markers are placed once the map is centered. If no position is
// available the session keeps running without a map.
func (c *Controller) Start(ctx context.Context) error {
	if err := c.transition(AwaitingLocation); err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)

	records, err := c.persist.Load(ctx)
	c.unread = false
	switch {
	case errors.Is(err, persistence.ErrCorruptPersistedState):
		c.log.Error("discarding corrupt persisted workouts", "error", err)
	case err != nil:
		c.unread = true
		c.log.Warn("persisted workouts unavailable, starting empty", "error", err)
	}
	c.store.ReplaceAll(records)
	for _, r := range c.store.All() {
		c.deps.List.RenderItem(r)
	}

	pos, err := c.deps.Locator.CurrentPosition(ctx)
	if err != nil {
		observability.LocationFailures.Inc()
		c.log.Warn("no position, map disabled", "error", err)
		c.deps.Notifier.Alert(AlertNoPosition)
		return fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
	}

	c.deps.Map.CenterOn(pos, c.zoom)
	c.center = pos
	c.mapReady = true
	if err := c.transition(MapReady); err != nil {
		return err
	}
	for _, r := range c.store.All() {
		c.placeMarker(r)
	}
	c.log.Info("session ready", "center", pos.String(), "workouts", c.store.Len())
	return c.transition(AwaitingInput)
}

// LocationPicked opens the form for a workout at coords. Picking again while
// the form is open moves the pending location.
func (c *Controller) LocationPicked(coords workout.Coordinates) error {
	if !c.mapReady {
		return fmt.Errorf("%w: map not ready", ErrInvalidEvent)
	}
	if c.state != FormOpen {
		if err := c.transition(FormOpen); err != nil {
			return err
		}
	}
	c.picked = coords
	c.deps.Form.Show()
	return nil
}

// TypeChanged swaps the variant-specific input shown in the open form.
func (c *Controller) TypeChanged(kind workout.Kind) error {
	if c.state != FormOpen {
		return fmt.Errorf("%w: form is not open", ErrInvalidEvent)
	}
	if _, err := workout.ParseKind(string(kind)); err != nil {
		return err
	}
	c.deps.Form.ShowVariantFields(kind)
	return nil
}

// Submit creates a workout at the picked location. On validation failure the
// user is alerted, the form stays open and the store is unchanged.
func (c *Controller) Submit(ctx context.Context, fields FormFields) (workout.Record, error) {
	if c.state != FormOpen {
		return workout.Record{}, fmt.Errorf("%w: form is not open", ErrInvalidEvent)
	}

	ctx = context.WithoutCancel(ctx)

	r, err := c.create(c.picked, fields)
	if err != nil {
		var ve *workout.ValidationError
		if errors.As(err, &ve) {
			c.deps.Notifier.Alert(AlertInvalidInput + ": " + strings.Join(ve.FieldNames(), ", "))
		}
		return workout.Record{}, err
	}

	c.add(ctx, r)
	c.deps.Form.HideAndClear()

	if err := c.transition(AwaitingInput); err != nil {
		return r, err
	}
	return r, nil
}

// Log records a workout at coords for a caller outside the interactive form,
// such as an MCP tool. The user's form, picked location and alerts are left
// alone. The persisted workouts must have been loaded, so the session must
// have started.
func (c *Controller) Log(ctx context.Context, coords workout.Coordinates, fields FormFields) (workout.Record, error) {
	if c.state == Initializing {
		return workout.Record{}, fmt.Errorf("%w: session not started", ErrInvalidEvent)
	}
	ctx = context.WithoutCancel(ctx)

	r, err := c.create(coords, fields)
	if err != nil {
		return workout.Record{}, err
	}
	c.add(ctx, r)
	return r, nil
}

func (c *Controller) create(coords workout.Coordinates, fields FormFields) (workout.Record, error) {
	kind, distance, duration, extra := fields.parse()
	r, err := c.factory.Create(kind, coords, distance, duration, extra)
	if err != nil {
		var ve *workout.ValidationError
		if errors.As(err, &ve) {
			for _, name := range ve.FieldNames() {
				observability.ValidationRejections.WithLabelValues(name).Inc()
			}
		}
		c.log.Debug("workout rejected", "error", err)
		return workout.Record{}, err
	}
	return r, nil
}

// add appends r, renders it and saves the collection.
func (c *Controller) add(ctx context.Context, r workout.Record) {
	c.store.Append(r)
	c.placeMarker(r)
	c.deps.List.RenderItem(r)
	c.save(ctx)
	observability.WorkoutsLogged.WithLabelValues(string(r.Kind())).Inc()
	c.log.Info("workout logged", "id", r.ID(), "type", r.Kind(), "distance_km", r.DistanceKm())
}

// save writes the collection. While the persisted workouts are unread the
// load is retried first; if it still fails nothing is written.
func (c *Controller) save(ctx context.Context) {
	if c.unread && !c.reload(ctx) {
		observability.SavesSkipped.Inc()
		c.log.Warn("persisted workouts still unreadable, keeping new workouts in memory only", "workouts", c.store.Len())
		return
	}
	if err := c.persist.Save(ctx, c.store.All()); err != nil {
		c.log.Warn("saving workouts failed, keeping them in memory only", "error", err)
	}
}

// reload retries the load Start could not complete and puts the persisted
// workouts ahead of those logged since. Recovered workouts are rendered.
func (c *Controller) reload(ctx context.Context) bool {
	persisted, err := c.persist.Load(ctx)
	switch {
	case errors.Is(err, persistence.ErrCorruptPersistedState):
		c.log.Error("discarding corrupt persisted workouts", "error", err)
		persisted = nil
	case err != nil:
		c.log.Debug("reloading persisted workouts failed", "error", err)
		return false
	}
	c.unread = false

	current := c.store.All()
	inMemory := make(map[string]bool, len(current))
	for _, r := range current {
		inMemory[r.ID()] = true
	}
	stored := make(map[string]bool, len(persisted))
	merged := make([]workout.Record, 0, len(persisted)+len(current))
	for _, r := range persisted {
		stored[r.ID()] = true
		merged = append(merged, r)
		if !inMemory[r.ID()] {
			c.deps.List.RenderItem(r)
			c.placeMarker(r)
		}
	}
	for _, r := range current {
		if !stored[r.ID()] {
			merged = append(merged, r)
		}
	}
	c.store.ReplaceAll(merged)
	c.log.Info("persisted workouts recovered", "persisted", len(persisted), "workouts", len(merged))
	return true
}

// ItemClicked pans the map to the workout with the given id. Unknown ids and
// clicks before the map is ready are ignored; ok reports whether it panned.
func (c *Controller) ItemClicked(id string) (ok bool) {
	if !c.mapReady {
		return false
	}
	r, err := c.store.FindByID(id)
	if err != nil {
		c.log.Debug("ignoring click on unknown workout", "id", id)
		return false
	}
	c.deps.Map.PanTo(r.Coordinates(), c.zoom, true)
	return true
}

// Replay re-issues every render request for the current session, for a
// client that reconnected and lost its view.
func (c *Controller) Replay() {
	if c.mapReady {
		c.deps.Map.CenterOn(c.center, c.zoom)
	}
	for _, r := range c.store.All() {
		c.deps.List.RenderItem(r)
		c.placeMarker(r)
	}
	if c.state == FormOpen {
		c.deps.Form.Show()
	}
}

// Reset removes every persisted workout and starts the session over.
func (c *Controller) Reset(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	if err := c.persist.Clear(ctx); err != nil {
		c.log.Warn("clearing persisted workouts failed", "error", err)
	}
	c.store.ReplaceAll(nil)
	c.mapReady = false
	c.picked = workout.Coordinates{}
	if err := c.transition(Initializing); err != nil {
		return err
	}
	c.log.Info("session reset")
	return c.Start(ctx)
}

func (c *Controller) placeMarker(r workout.Record) {
	if !c.mapReady {
		return
	}
	label, class := MarkerStyle(r)
	c.deps.Map.PlaceMarker(r.Coordinates(), label, class)
}

// MarkerStyle returns the popup label and CSS class for a workout's marker.
func MarkerStyle(r workout.Record) (label, styleClass string) {
	return r.Kind().Icon() + " " + r.Description(), string(r.Kind()) + "-popup"
}
