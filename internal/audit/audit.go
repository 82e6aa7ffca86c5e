// Package audit defines the output port for the registry's event stream.
// The registry only writes events here; persistence and indexing belong to
// the configured sink.
package audit

import (
	"context"
	"sync"

	"medrecord-registry/internal/model"
)

type Emitter interface {
	// Emit records one audit event. Emission never aborts the operation
	// that produced the event; sinks handle their own failures.
	Emit(ctx context.Context, event model.Event)
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, model.Event) {}

func NewNop() Emitter {
	return nopEmitter{}
}

// Memory collects events in order, for tests and local runs.
type Memory struct {
	mu     sync.Mutex
	events []model.Event
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Emit(_ context.Context, event model.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *Memory) Events() []model.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Event, len(m.events))
	copy(out, m.events)
	return out
}

// Last returns the most recent event and true, or false when empty.
func (m *Memory) Last() (model.Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.events) == 0 {
		return model.Event{}, false
	}
	return m.events[len(m.events)-1], true
}
