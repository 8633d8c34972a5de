package settings

import "sync"

// EventSettingUpdated is dispatched on the bus once per OnSettingChange with
// (collection, category, setting, value) arguments.
const EventSettingUpdated = "setting-updated"

// Change is one "setting-updated" event. Setting is empty for leaf
// categories.
type Change struct {
	Collection string
	Category   string
	Setting    string
	Value      any
}

// Path returns the changed path.
func (c Change) Path() Path {
	return Path{Collection: c.Collection, Category: c.Category, Setting: c.Setting}
}

// Subscribe delivers every change to fn, synchronously and in subscription
// order, on the goroutine that called OnSettingChange. A slow subscriber
// delays the ones after it. The returned function unsubscribes fn and is
// safe to call more than once.
func (m *Manager) Subscribe(fn func(Change)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	bus := m.cfg.bus
	id := bus.On(EventSettingUpdated, func(args ...any) {
		change, ok := changeFromArgs(args)
		if !ok {
			return
		}
		fn(change)
	})
	var once sync.Once
	return func() {
		once.Do(func() { bus.Off(EventSettingUpdated, id) })
	}
}

// On calls fn with the new value whenever exactly
// collectionID/categoryID/settingID changes.
func (m *Manager) On(collectionID, categoryID, settingID string, fn func(value any)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	return m.Subscribe(func(change Change) {
		if change.Collection != collectionID || change.Category != categoryID || change.Setting != settingID {
			return
		}
		fn(change.Value)
	})
}

func (m *Manager) dispatchChange(change Change) {
	m.cfg.bus.Dispatch(EventSettingUpdated, change.Collection, change.Category, change.Setting, change.Value)
}

func changeFromArgs(args []any) (Change, bool) {
	if len(args) < 4 {
		return Change{}, false
	}
	collection, ok1 := args[0].(string)
	category, ok2 := args[1].(string)
	setting, ok3 := args[2].(string)
	if !ok1 || !ok2 || !ok3 {
		return Change{}, false
	}
	return Change{Collection: collection, Category: category, Setting: setting, Value: args[3]}, true
}
