package testutil

import (
	"context"
	"sync"

	"github.com/vk/mediaflowgo/internal/events"
)

// RecorderEmitter captures every emitted event for later assertions.
type RecorderEmitter struct {
	mu     sync.Mutex
	events []events.Event
	closed bool
}

// Emit implements events.Emitter.
func (r *RecorderEmitter) Emit(ctx context.Context, ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Close implements events.Emitter.
func (r *RecorderEmitter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

// Events returns a copy of everything emitted so far.
func (r *RecorderEmitter) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns just the event type sequence, for order assertions.
func (r *RecorderEmitter) Types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

// Closed reports whether Close was called.
func (r *RecorderEmitter) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
