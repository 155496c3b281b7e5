package fastloop

import (
	"reflect"
	"sync"
)

// Handler receives an event payload.
type Handler func(payload any)

// emitter is a minimal synchronous event registry. Handlers run in
// registration order on the emitting goroutine. Handler panics are not
// isolated from each other: one handler's panic aborts the remaining
// invocations for that emit.
type emitter struct {
	mu       sync.Mutex
	handlers map[string][]Handler
}

func newEmitter() *emitter {
	return &emitter{
		handlers: make(map[string][]Handler),
	}
}

// On registers h for event.
func (e *emitter) On(event string, h Handler) {
	if h == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[event] = append(e.handlers[event], h)
}

// Off removes every registration of h for event. Handlers are matched by
// function identity, so the value passed to Off must be the same function
// value passed to On.
func (e *emitter) Off(event string, h Handler) {
	if h == nil {
		return
	}
	target := reflect.ValueOf(h).Pointer()
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.handlers[event][:0]
	for _, registered := range e.handlers[event] {
		if reflect.ValueOf(registered).Pointer() != target {
			kept = append(kept, registered)
		}
	}
	if len(kept) == 0 {
		delete(e.handlers, event)
		return
	}
	e.handlers[event] = kept
}

// Emit synchronously invokes all handlers registered for event, in
// registration order.
func (e *emitter) Emit(event string, payload any) {
	e.mu.Lock()
	registered := e.handlers[event]
	handlers := make([]Handler, len(registered))
	copy(handlers, registered)
	e.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
}

// Clear drops every registration.
func (e *emitter) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = make(map[string][]Handler)
}

// Count returns the number of handlers registered for event.
func (e *emitter) Count(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers[event])
}
