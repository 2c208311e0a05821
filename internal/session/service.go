package session

import (
	"context"
	"fmt"

	"github.com/meltforce/trailmark/internal/workout"
)

// Service gives callers outside the event handlers (the HTTP read endpoints,
// MCP tools) safe access to a Controller by running every call on its Loop.
type Service struct {
	ctrl *Controller
	loop *Loop
}

func NewService(ctrl *Controller, loop *Loop) *Service {
	return &Service{ctrl: ctrl, loop: loop}
}

// Workouts returns the stored workouts in creation order, optionally only
// those of one kind.
func (s *Service) Workouts(ctx context.Context, kind workout.Kind) ([]workout.Record, error) {
	var all []workout.Record
	if err := s.loop.Do(ctx, func() { all = s.ctrl.Workouts() }); err != nil {
		return nil, err
	}
	if kind == "" {
		return all, nil
	}
	out := make([]workout.Record, 0, len(all))
	for _, r := range all {
		if r.Kind() == kind {
			out = append(out, r)
		}
	}
	return out, nil
}

// Workout looks up one workout by id.
func (s *Service) Workout(ctx context.Context, id string) (workout.Record, error) {
	var (
		r   workout.Record
		err error
	)
	if doErr := s.loop.Do(ctx, func() { r, err = s.ctrl.Workout(id) }); doErr != nil {
		return workout.Record{}, doErr
	}
	return r, err
}

// Log records a workout at coords without touching the user's form.
func (s *Service) Log(ctx context.Context, coords workout.Coordinates, fields FormFields) (workout.Record, error) {
	var (
		r   workout.Record
		err error
	)
	if doErr := s.loop.Do(ctx, func() { r, err = s.ctrl.Log(ctx, coords, fields) }); doErr != nil {
		return workout.Record{}, fmt.Errorf("logging workout: %w", doErr)
	}
	return r, err
}
