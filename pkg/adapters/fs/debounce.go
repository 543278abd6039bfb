package fs

import (
	"sync"
	"time"

	"github.com/aretw0/deckforge/pkg/core"
)

type pendingEvent struct {
	event core.Event
	gen   uint64
}

// debouncer coalesces bursts of events on the same path into one.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	gen     uint64
	timers  map[string]*time.Timer
	pending map[string]pendingEvent
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]pendingEvent),
	}
}

// add schedules fire for e after the delay, replacing any pending event for the same path.
func (d *debouncer) add(e core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	key := e.Path
	if t, ok := d.timers[key]; ok && t.Stop() {
		d.wg.Done()
	}
	if prev, ok := d.pending[key]; ok {
		e = merge(prev.event, e)
	}

	d.gen++
	gen := d.gen
	d.pending[key] = pendingEvent{event: e, gen: gen}

	d.wg.Add(1)
	d.timers[key] = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		p, ok := d.pending[key]
		if !ok || p.gen != gen || d.stopped {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		delete(d.timers, key)
		d.mu.Unlock()

		fire(p.event)
	})
}

// merge folds a newer event into an older pending one for the same path.
func merge(prev, next core.Event) core.Event {
	switch {
	case prev.Type == core.EventCreate && next.Type == core.EventModify:
		next.Type = core.EventCreate
	case prev.Type == core.EventDelete && next.Type == core.EventCreate:
		next.Type = core.EventModify
	}
	return next
}

// stopAndWait drops pending events and waits for in-flight callbacks.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	clear(d.pending)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
