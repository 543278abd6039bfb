// Package lifecycle exposes lesson change events as a lifecycle.Source.
package lifecycle

import (
	"context"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/deckforge/pkg/core"
)

type lessonSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits lesson change events.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &lessonSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *lessonSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done or the input channel closes.
// The output channel is closed when forwarding stops.
func (s *lessonSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

// Batch waits for first plus every event arriving within settle of the previous
// one. It returns early when ctx is done or events closes; ok is false then.
func Batch(ctx context.Context, events <-chan lifecycle.Event, first lifecycle.Event, settle time.Duration) (batch []lifecycle.Event, ok bool) {
	batch = []lifecycle.Event{first}
	timer := time.NewTimer(settle)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return batch, false
		case e, open := <-events:
			if !open {
				return batch, false
			}
			batch = append(batch, e)
			timer.Reset(settle)
		case <-timer.C:
			return batch, true
		}
	}
}
