package mcp

import (
	"context"

	"github.com/meltforce/trailmark/internal/session"
	"github.com/meltforce/trailmark/internal/workout"
)

// WorkoutSource abstracts where MCP tools read and log workouts. Both
// SessionSource (in-process) and HTTPClient (remote via REST API) satisfy it.
type WorkoutSource interface {
	Workouts(ctx context.Context, kind workout.Kind) ([]workout.View, error)
	Workout(ctx context.Context, id string) (workout.View, error)
	LogWorkout(ctx context.Context, coords workout.Coordinates, fields session.FormFields) (workout.View, error)
}

// SessionSource serves MCP from the running session.
type SessionSource struct {
	svc *session.Service
}

// Compile-time check: SessionSource satisfies WorkoutSource.
var _ WorkoutSource = (*SessionSource)(nil)

func NewSessionSource(svc *session.Service) *SessionSource {
	return &SessionSource{svc: svc}
}

func (s *SessionSource) Workouts(ctx context.Context, kind workout.Kind) ([]workout.View, error) {
	records, err := s.svc.Workouts(ctx, kind)
	if err != nil {
		return nil, err
	}
	return workout.NewViews(records), nil
}

func (s *SessionSource) Workout(ctx context.Context, id string) (workout.View, error) {
	r, err := s.svc.Workout(ctx, id)
	if err != nil {
		return workout.View{}, err
	}
	return workout.NewView(r), nil
}

func (s *SessionSource) LogWorkout(ctx context.Context, coords workout.Coordinates, fields session.FormFields) (workout.View, error) {
	r, err := s.svc.Log(ctx, coords, fields)
	if err != nil {
		return workout.View{}, err
	}
	return workout.NewView(r), nil
}
