package activity

import (
	"context"
	"sync"
)

// CaptureHook keeps settings activity in memory, in delivery order. Tests
// and the example programs read it back instead of wiring a real sink.
type CaptureHook struct {
	Events []Event
	// Err is returned from every Notify after the event is recorded, to
	// simulate a failing sink.
	Err error
	mu  sync.Mutex
}

// Notify records the normalized event.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}

// Verbs lists the verb of every captured event.
func (h *CaptureHook) Verbs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	verbs := make([]string, len(h.Events))
	for i, event := range h.Events {
		verbs[i] = event.Verb
	}
	return verbs
}

// Updates returns the captured settings.updated events keyed by setting
// path. A path changed more than once keeps its latest event.
func (h *CaptureHook) Updates() map[string]Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	updates := map[string]Event{}
	for _, event := range h.Events {
		if event.Verb == VerbSettingUpdated {
			updates[event.ObjectID] = event
		}
	}
	return updates
}

// Last returns the most recent event with verb.
func (h *CaptureHook) Last(verb string) (Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.Events) - 1; i >= 0; i-- {
		if h.Events[i].Verb == verb {
			return h.Events[i], true
		}
	}
	return Event{}, false
}
