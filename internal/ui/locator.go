package ui

import (
	"context"
	"errors"
	"sync"

	"github.com/meltforce/trailmark/internal/session"
	"github.com/meltforce/trailmark/internal/workout"
)

// ErrNoPosition is returned when the client has not reported a position.
var ErrNoPosition = errors.New("client reported no position")

// ReportedPosition is a Locator fed by the client's own geolocation result.
type ReportedPosition struct {
	mu     sync.Mutex
	pos    workout.Coordinates
	reason string
	ok     bool
}

var _ session.Locator = (*ReportedPosition)(nil)

// Report records a successful geolocation fix.
func (p *ReportedPosition) Report(c workout.Coordinates) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos, p.ok, p.reason = c, true, ""
}

// Deny records that the client could not obtain a position.
func (p *ReportedPosition) Deny(reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos, p.ok, p.reason = workout.Coordinates{}, false, reason
}

func (p *ReportedPosition) CurrentPosition(context.Context) (workout.Coordinates, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ok {
		if p.reason != "" {
			return workout.Coordinates{}, errors.Join(ErrNoPosition, errors.New(p.reason))
		}
		return workout.Coordinates{}, ErrNoPosition
	}
	return p.pos, nil
}
