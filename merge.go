package settings

import (
	"context"
	"fmt"

	"github.com/goliatone/go-settings/internal/tree"
	"github.com/goliatone/go-settings/pkg/activity"
)

// Load reconciles the persisted snapshot with the schema-derived State and
// persists the result. Without a snapshot the current defaults are saved.
func (m *Manager) Load(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	previous, ok, err := m.cfg.store.GetData(ctx, m.cfg.storageKey)
	if err != nil {
		m.cfg.logger.Error("settings: load failed", "key", m.cfg.storageKey, "error", err)
		return fmt.Errorf("settings: load %q: %w", m.cfg.storageKey, err)
	}
	if !ok || previous == nil {
		m.cfg.logger.Info("settings: no persisted state, saving defaults", "key", m.cfg.storageKey)
		return m.Save(ctx)
	}

	m.state = m.mergeSnapshot(previous)
	m.cfg.logger.Info("settings: loaded persisted state",
		"key", m.cfg.storageKey, "collections", len(m.collections))

	// Persist unconditionally so defaults introduced since the last save
	// are captured.
	saveErr := m.Save(ctx)
	m.emit(ctx, activity.BuildSettingsLoadedEvent(m.activityInput(activity.SettingsEventInput{
		StorageKey: m.cfg.storageKey,
	})))
	return saveErr
}

// mergeSnapshot overlays snapshot onto the live State and returns the grown
// snapshot. For every schema leaf a defined persisted value wins; a
// collection, category or setting missing from the snapshot is deep-copied
// into it under its own key. Snapshot entries with no schema node are kept
// as inert data.
func (m *Manager) mergeSnapshot(snapshot map[string]any) map[string]any {
	for _, collection := range m.collections {
		liveCol, _ := tree.Child(m.state, collection.ID)
		snapCol, ok := tree.Child(snapshot, collection.ID)
		if !ok {
			snapshot[collection.ID] = tree.CloneMap(liveCol)
			continue
		}
		for _, category := range collection.Categories {
			if category.IsLeaf() {
				mergeValue(snapCol, liveCol, category.ID)
				continue
			}
			liveCat, _ := tree.Child(liveCol, category.ID)
			snapCat, ok := tree.Child(snapCol, category.ID)
			if !ok {
				snapCol[category.ID] = tree.CloneMap(liveCat)
				continue
			}
			for _, setting := range category.Settings {
				mergeValue(snapCat, liveCat, setting.ID)
			}
		}
	}

	// State of collections removed before Load is inert but still kept.
	for key, value := range m.state {
		if _, exists := snapshot[key]; !exists {
			snapshot[key] = tree.Clone(value)
		}
	}
	return snapshot
}

func mergeValue(snapshot, live map[string]any, key string) {
	if value, ok := snapshot[key]; ok && value != nil {
		return
	}
	snapshot[key] = tree.Clone(live[key])
}
