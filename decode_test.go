package settings

import (
	"context"
	"errors"
	"testing"
)

type generalPrefs struct {
	General struct {
		Enabled bool `json:"enabled"`
	} `json:"general"`
	Zoom float64 `json:"zoom"`
}

func TestDecodeCollectionState(t *testing.T) {
	m, _ := newTestManager(t)
	schema := append(generalSchema(), &Category{ID: "zoom", Type: "slider", Value: 1.5})
	if err := m.RegisterCollection("ui", "UI", schema); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := m.OnSettingChange(context.Background(), "ui", "general", "enabled", true); err != nil {
		t.Fatalf("change: %v", err)
	}

	prefs, err := Decode[generalPrefs](m, "ui")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !prefs.General.Enabled || prefs.Zoom != 1.5 {
		t.Fatalf("unexpected decoded prefs %+v", prefs)
	}

	type general struct {
		Enabled bool `json:"enabled"`
	}
	category, err := DecodeCategory[general](m, "ui", "general")
	if err != nil || !category.Enabled {
		t.Fatalf("unexpected category decode %+v %v", category, err)
	}
}

func TestDecodeErrors(t *testing.T) {
	m, _ := newTestManager(t, WithBuiltinCollection("Settings", generalSchema()))
	if _, err := Decode[generalPrefs](m, "missing"); !errors.Is(err, ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
	if _, err := DecodeCategory[generalPrefs](m, "settings", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
