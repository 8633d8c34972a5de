package settings

import (
	"context"
	"errors"
	"testing"
)

type recordingPreferences struct {
	writes []string
	values map[string]any
	err    error
}

func (p *recordingPreferences) SetWindowPreference(key string, value any) error {
	if p.err != nil {
		return p.err
	}
	if p.values == nil {
		p.values = map[string]any{}
	}
	p.writes = append(p.writes, key)
	p.values[key] = value
	return nil
}

func windowSchema() []*Category {
	return []*Category{
		{ID: "window", Type: TypeCategory, Settings: []*Setting{
			{ID: TransparencySettingID, Name: "Transparency", Type: "switch", Value: false},
		}},
	}
}

func TestTransparencyHook(t *testing.T) {
	prefs := &recordingPreferences{}
	m, _ := newTestManager(t,
		WithPreferenceHook(TransparencySettingID, TransparencyHook(prefs)),
		WithBuiltinCollection("Settings", windowSchema()),
	)
	ctx := context.Background()

	if err := m.OnSettingChange(ctx, "settings", "window", TransparencySettingID, true); err != nil {
		t.Fatalf("change: %v", err)
	}
	if prefs.values["transparent"] != true || prefs.values["backgroundColor"] != nil {
		t.Fatalf("unexpected preferences when enabled: %+v", prefs.values)
	}

	if err := m.OnSettingChange(ctx, "settings", "window", TransparencySettingID, false); err != nil {
		t.Fatalf("change: %v", err)
	}
	if prefs.values["transparent"] != false || prefs.values["backgroundColor"] != DefaultBackgroundColor {
		t.Fatalf("unexpected preferences when disabled: %+v", prefs.values)
	}
	if len(prefs.writes) != 4 {
		t.Fatalf("expected two writes per change, got %v", prefs.writes)
	}
}

func TestPreferenceHookErrorStillPersists(t *testing.T) {
	boom := errors.New("host unavailable")
	prefs := &recordingPreferences{err: boom}
	m, store := newTestManager(t,
		WithPreferenceHook(TransparencySettingID, TransparencyHook(prefs)),
		WithBuiltinCollection("Settings", windowSchema()),
	)

	err := m.OnSettingChange(context.Background(), "settings", "window", TransparencySettingID, true)
	if !errors.Is(err, boom) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if got := persisted(t, store, "settings", "window", TransparencySettingID); got != true {
		t.Fatalf("expected value persisted despite hook failure, got %v", got)
	}
}

func TestPreferenceHookOnlyForItsSetting(t *testing.T) {
	calls := 0
	m, _ := newTestManager(t,
		WithPreferenceHook("other", func(context.Context, Change) error { calls++; return nil }),
		WithBuiltinCollection("Settings", generalSchema()),
	)
	if err := m.OnSettingChange(context.Background(), "settings", "general", "enabled", true); err != nil {
		t.Fatalf("change: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected hook not to run for other settings")
	}
}
