package events

import (
	"context"
	"time"

	"github.com/vk/mediaflowgo/internal/ctxlog"
)

// Type identifies a lifecycle event.
type Type string

const (
	RunStarted   Type = "run:started"
	RunFinished  Type = "run:finished"
	RunFailed    Type = "run:failed"
	NodeStarted  Type = "node:started"
	NodeFinished Type = "node:finished"
	NodeFailed   Type = "node:failed"
	NodeSkipped  Type = "node:skipped"
)

// Event is one lifecycle notification. NodeID and NodeKind are empty for
// run-level events; Error is empty unless the event reports a failure.
type Event struct {
	Type     Type
	RunID    string
	NodeID   string
	NodeKind string
	Error    string
	At       time.Time
}

// Emitter receives lifecycle events. Emit must not block the run on a slow
// sink and must never fail the run.
type Emitter interface {
	Emit(ctx context.Context, ev Event)
	Close()
}

// LogEmitter writes every event to the context logger.
type LogEmitter struct{}

// Emit implements Emitter.
func (LogEmitter) Emit(ctx context.Context, ev Event) {
	logger := ctxlog.FromContext(ctx).With("event", string(ev.Type), "runID", ev.RunID)
	if ev.NodeID != "" {
		logger = logger.With("nodeID", ev.NodeID, "kind", ev.NodeKind)
	}
	if ev.Error != "" {
		logger.Warn("Flow event.", "error", ev.Error)
		return
	}
	logger.Info("Flow event.")
}

// Close implements Emitter.
func (LogEmitter) Close() {}

// Multi fans one event out to several sinks in order.
type Multi []Emitter

// Emit implements Emitter.
func (m Multi) Emit(ctx context.Context, ev Event) {
	for _, e := range m {
		e.Emit(ctx, ev)
	}
}

// Close implements Emitter.
func (m Multi) Close() {
	for _, e := range m {
		e.Close()
	}
}
