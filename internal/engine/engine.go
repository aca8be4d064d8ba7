// Package engine dispatches observation events to bound handlers, the
// way a host weather engine hands new loop packets and archive records
// to its services. Dispatch is synchronous on the caller's goroutine:
// the event source owns the loop, handlers just react.
package engine

import (
	"fmt"

	"github.com/wxbeacon/wxbeacon/internal/types"
)

// EventKind distinguishes the two observation event streams.
type EventKind int

const (
	// NewLoopPacket is a live, high-frequency sample from a station driver.
	NewLoopPacket EventKind = iota
	// NewArchiveRecord is a periodic, persisted summary observation.
	NewArchiveRecord
)

func (k EventKind) String() string {
	switch k {
	case NewLoopPacket:
		return "loop packet"
	case NewArchiveRecord:
		return "archive record"
	}
	return "unknown event"
}

// KindFromBinding maps the configured binding mode to an event kind.
func KindFromBinding(binding string) (EventKind, error) {
	switch binding {
	case "", "loop":
		return NewLoopPacket, nil
	case "archive":
		return NewArchiveRecord, nil
	}
	return 0, fmt.Errorf("unknown binding %q", binding)
}

// Event carries one observation record into bound handlers.
type Event struct {
	Kind   EventKind
	Record *types.Observation
}

// Handler reacts to a single event. Handlers must not panic and must
// swallow their own failures; the engine offers no error path back.
type Handler func(Event)

// Engine routes events to handlers by kind.
type Engine struct {
	handlers map[EventKind][]Handler
}

// New creates an engine with no bindings.
func New() *Engine {
	return &Engine{handlers: make(map[EventKind][]Handler)}
}

// Bind registers h for events of kind k. Handlers fire in bind order.
func (e *Engine) Bind(k EventKind, h Handler) {
	e.handlers[k] = append(e.handlers[k], h)
}

// Dispatch delivers ev synchronously to every handler bound to its kind.
func (e *Engine) Dispatch(ev Event) {
	for _, h := range e.handlers[ev.Kind] {
		h(ev)
	}
}
