package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrLoopStopped is returned by Do once Run has returned.
var ErrLoopStopped = errors.New("session loop stopped")

type event struct {
	fn   func()
	done chan struct{}
	err  error
}

// Loop runs session events one at a time on a single goroutine. Every event
// runs to completion before the next one is accepted.
type Loop struct {
	events  chan *event
	stopped chan struct{}
	log     *slog.Logger
}

// NewLoop creates a Loop; call Run to start processing.
func NewLoop(log *slog.Logger) *Loop {
	return &Loop{
		events:  make(chan *event),
		stopped: make(chan struct{}),
		log:     log,
	}
}

// Run processes events until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-l.events:
			ev.err = l.exec(ev.fn)
			close(ev.done)
		}
	}
}

func (l *Loop) exec(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("session event panicked", "panic", r)
			err = fmt.Errorf("session event panicked: %v", r)
		}
	}()
	fn()
	return nil
}

// Do hands fn to the loop and waits for it to finish. Once accepted, fn
// always runs to completion even if ctx is cancelled meanwhile.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	ev := &event{fn: fn, done: make(chan struct{})}
	select {
	case l.events <- ev:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-ev.done
	return ev.err
}
