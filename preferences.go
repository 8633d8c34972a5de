package settings

import (
	"context"
	"fmt"
	"strings"
)

// PreferenceHook runs after a specific setting changes, letting it push a
// host-level preference.
type PreferenceHook func(ctx context.Context, change Change) error

// WithPreferenceHook runs hook whenever a setting with settingID changes,
// in any collection or category.
func WithPreferenceHook(settingID string, hook PreferenceHook) Option {
	return func(cfg *config) {
		settingID = strings.TrimSpace(settingID)
		if settingID == "" || hook == nil {
			cfg.errs = append(cfg.errs, fmt.Errorf("settings: preference hook needs a setting id and a function"))
			return
		}
		if cfg.preferenceHooks == nil {
			cfg.preferenceHooks = map[string]PreferenceHook{}
		}
		cfg.preferenceHooks[settingID] = hook
	}
}

// WindowPreferences writes host window preferences.
type WindowPreferences interface {
	SetWindowPreference(key string, value any) error
}

// TransparencySettingID is the setting that toggles window transparency.
const TransparencySettingID = "fork-wp-1"

// DefaultBackgroundColor is restored when transparency is turned off.
const DefaultBackgroundColor = "#2f3136"

// TransparencyHook mirrors a boolean setting into the "transparent" window
// preference and clears the background color while it is on.
func TransparencyHook(prefs WindowPreferences) PreferenceHook {
	return func(_ context.Context, change Change) error {
		if prefs == nil {
			return nil
		}
		enabled := truthy(change.Value)
		if err := prefs.SetWindowPreference("transparent", enabled); err != nil {
			return fmt.Errorf("settings: set transparent: %w", err)
		}
		var background any
		if !enabled {
			background = DefaultBackgroundColor
		}
		if err := prefs.SetWindowPreference("backgroundColor", background); err != nil {
			return fmt.Errorf("settings: set backgroundColor: %w", err)
		}
		return nil
	}
}

func (m *Manager) runPreferenceHook(ctx context.Context, change Change) error {
	id := change.Setting
	if id == "" {
		id = change.Category
	}
	hook, ok := m.cfg.preferenceHooks[id]
	if !ok {
		return nil
	}
	if err := hook(ctx, change); err != nil {
		m.cfg.logger.Warn("settings: preference hook failed", "setting", id, "error", err)
		return err
	}
	return nil
}
