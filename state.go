package settings

import (
	"context"
	"fmt"

	"github.com/goliatone/go-settings/internal/tree"
)

// setup fills State gaps from schema defaults for every registered
// collection and attaches dependency gates. Existing values are never
// overwritten, so it is safe to run after each registration.
func (m *Manager) setup() {
	for _, collection := range m.collections {
		colState := m.ensureMap(m.state, collection.ID, collection.ID)
		for _, category := range collection.Categories {
			if category.IsLeaf() {
				if _, exists := colState[category.ID]; !exists {
					colState[category.ID] = tree.Clone(category.Value)
				}
				continue
			}
			catState := m.ensureMap(colState, category.ID, Path{Collection: collection.ID, Category: category.ID}.String())
			for _, setting := range category.Settings {
				if _, exists := catState[setting.ID]; !exists {
					catState[setting.ID] = tree.Clone(setting.Value)
				}
			}
		}
		m.attachGates(collection)
	}
}

// ensureMap returns parent[key] as a map, creating it when missing. A
// scalar found where a category or collection belongs is replaced.
func (m *Manager) ensureMap(parent map[string]any, key, label string) map[string]any {
	if child, ok := tree.Child(parent, key); ok {
		return child
	}
	if existing, exists := parent[key]; exists {
		m.cfg.logger.Warn("settings: replacing non-map state value",
			"path", label, "type", tree.TypeName(existing))
	}
	child := map[string]any{}
	parent[key] = child
	return child
}

// State returns a deep copy of the current State tree.
func (m *Manager) State() map[string]any {
	return tree.CloneMap(m.state)
}

// StateOf returns a deep copy of one collection's subtree, or nil.
func (m *Manager) StateOf(collectionID string) map[string]any {
	child, ok := tree.Child(m.state, collectionID)
	if !ok {
		return nil
	}
	return tree.CloneMap(child)
}

// Save persists the whole State under the storage key. Failures are logged
// and returned; they are not retried.
func (m *Manager) Save(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := m.cfg.store.SetData(ctx, m.cfg.storageKey, m.state); err != nil {
		m.cfg.logger.Error("settings: save failed", "key", m.cfg.storageKey, "error", err)
		return fmt.Errorf("settings: save %q: %w", m.cfg.storageKey, err)
	}
	m.cfg.logger.Debug("settings: saved", "key", m.cfg.storageKey)
	return nil
}
