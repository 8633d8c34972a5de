// Package events provides the named-event bus the settings engine uses to
// broadcast changes.
//
// Delivery is synchronous: Dispatch calls every handler registered for the
// event, in registration order, on the caller's goroutine, and returns once
// the last one has returned. There is no queueing and no coalescing, so a
// slow handler delays the ones registered after it.
package events

import "sync"

// Handler receives the arguments passed to Dispatch.
type Handler func(args ...any)

// Bus is the pub/sub contract the engine depends on.
type Bus interface {
	Dispatch(name string, args ...any)
	On(name string, handler Handler) uint64
	Off(name string, id uint64)
}

type entry struct {
	id      uint64
	handler Handler
}

// Emitter is an in-process Bus.
type Emitter struct {
	mu       sync.RWMutex
	handlers map[string][]entry
	nextID   uint64
}

// NewEmitter creates an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[string][]entry)}
}

// On registers handler for name and returns an id for Off. Ids start at 1.
func (e *Emitter) On(name string, handler Handler) uint64 {
	if handler == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers == nil {
		e.handlers = make(map[string][]entry)
	}
	e.nextID++
	e.handlers[name] = append(e.handlers[name], entry{id: e.nextID, handler: handler})
	return e.nextID
}

// Off removes the handler registered under id. Unknown ids are ignored.
func (e *Emitter) Off(name string, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	current := e.handlers[name]
	for i, registered := range current {
		if registered.id != id {
			continue
		}
		next := make([]entry, 0, len(current)-1)
		next = append(next, current[:i]...)
		next = append(next, current[i+1:]...)
		if len(next) == 0 {
			delete(e.handlers, name)
		} else {
			e.handlers[name] = next
		}
		return
	}
}

// Dispatch delivers args to the handlers registered when the call starts.
// Handlers added or removed while dispatching take effect on the next call.
func (e *Emitter) Dispatch(name string, args ...any) {
	e.mu.RLock()
	handlers := e.handlers[name]
	e.mu.RUnlock()

	for _, registered := range handlers {
		registered.handler(args...)
	}
}

// Count returns the number of handlers registered for name.
func (e *Emitter) Count(name string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers[name])
}
