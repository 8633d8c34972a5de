package openapi

import (
	"encoding/json"
	"strings"
	"testing"

	settings "github.com/goliatone/go-settings"
)

func testManager(t *testing.T) *settings.Manager {
	t.Helper()
	m, err := settings.New(settings.WithBuiltinCollection("Settings", []*settings.Category{
		{ID: "general", Name: "General", Type: settings.TypeCategory, Settings: []*settings.Setting{
			{ID: "enabled", Name: "Enabled", Type: "switch", Value: false},
			{ID: "name", Type: "text", Value: "bob", Note: "display name", EnableWith: "settings.general.enabled"},
			{ID: "tags", Value: []any{"a", "b"}},
		}},
		{ID: "zoom", Name: "Zoom", Type: "slider", Value: 1.25},
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return m
}

func schemaAt(t *testing.T, doc map[string]any, segments ...string) map[string]any {
	t.Helper()
	node := doc["components"].(map[string]any)["schemas"].(map[string]any)
	for i, segment := range segments {
		next, ok := node[segment].(map[string]any)
		if !ok {
			t.Fatalf("missing schema segment %q in %v", segment, segments)
		}
		if i < len(segments)-1 {
			next = next["properties"].(map[string]any)
		}
		node = next
	}
	return node
}

func TestNewGeneratorOptions(t *testing.T) {
	g := NewGenerator(
		WithOpenAPIVersion("3.1.0"),
		WithInfo("Custom Service", "2.0.0", WithInfoDescription("custom schema")),
		WithOperation("config/", "PATCH", WithOperationSummary("Update settings")),
		WithContentType("application/x-www-form-urlencoded"),
		WithResponse("201", "Created"),
	)

	cfg := g.config
	if cfg.openAPIVersion != "3.1.0" {
		t.Fatalf("expected openapi version 3.1.0, got %q", cfg.openAPIVersion)
	}
	if cfg.info.Title != "Custom Service" || cfg.info.Version != "2.0.0" || cfg.info.Description != "custom schema" {
		t.Fatalf("unexpected info %+v", cfg.info)
	}
	if cfg.operation.Path != "/config" || cfg.operation.Method != "patch" || cfg.operation.Summary != "Update settings" {
		t.Fatalf("unexpected operation %+v", cfg.operation)
	}
	if cfg.contentType != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", cfg.contentType)
	}
	if cfg.responses["201"].Description != "Created" {
		t.Fatalf("expected 201 response")
	}
	if _, ok := cfg.responses["204"]; !ok {
		t.Fatalf("expected default 204 response to remain configured")
	}
}

func TestDocumentDescribesCollections(t *testing.T) {
	m := testManager(t)
	doc, err := Document(m)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if err := validateDocument(doc); err != nil {
		t.Fatalf("invalid document: %v", err)
	}

	root := schemaAt(t, doc, "settings")
	if root["title"] != "Settings" || root["type"] != "object" {
		t.Fatalf("unexpected collection schema %v", root)
	}

	enabled := schemaAt(t, doc, "settings", "general", "enabled")
	if enabled["type"] != "boolean" || enabled["default"] != false || enabled["x-setting-type"] != "switch" {
		t.Fatalf("unexpected enabled schema %v", enabled)
	}

	name := schemaAt(t, doc, "settings", "general", "name")
	if name["type"] != "string" || name["x-enable-with"] != "settings.general.enabled" || name["description"] != "display name" {
		t.Fatalf("unexpected name schema %v", name)
	}

	tags := schemaAt(t, doc, "settings", "general", "tags")
	if tags["type"] != "array" || tags["items"].(map[string]any)["type"] != "string" {
		t.Fatalf("unexpected tags schema %v", tags)
	}

	zoom := schemaAt(t, doc, "settings", "zoom")
	if zoom["type"] != "number" || zoom["default"] != 1.25 || zoom["title"] != "Zoom" {
		t.Fatalf("expected leaf category described as a value, got %v", zoom)
	}

	paths := doc["paths"].(map[string]any)
	operation, ok := paths["/settings/settings"].(map[string]any)["put"].(map[string]any)
	if !ok {
		t.Fatalf("expected put operation, got %v", paths)
	}
	if operation["operationId"] != "put:/settings/settings" {
		t.Fatalf("unexpected operation id %v", operation["operationId"])
	}

	if _, err := json.Marshal(doc); err != nil {
		t.Fatalf("document not serializable: %v", err)
	}
}

func TestDocumentSkipsDisabledCollections(t *testing.T) {
	m := testManager(t)
	err := m.RegisterCollection("plugins", "Plugins", []*settings.Category{
		{ID: "reload", Type: "button", Value: nil},
	}, settings.WithCollectionEnableWith("settings.general.enabled"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	doc, err := Document(m)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["plugins"]; ok {
		t.Fatalf("expected disabled collection omitted")
	}

	doc, err = Document(m, WithDisabledCollections())
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	plugins := schemaAt(t, doc, "plugins")
	if plugins["x-enable-with"] != "settings.general.enabled" {
		t.Fatalf("expected dependency annotation, got %v", plugins)
	}
	reload := schemaAt(t, doc, "plugins", "reload")
	if reload["nullable"] != true {
		t.Fatalf("expected nil default to be nullable, got %v", reload)
	}
	if _, ok := reload["default"]; ok {
		t.Fatalf("expected no default for nil value")
	}
}

func TestDocumentDefaultsAreCopies(t *testing.T) {
	tags := []any{"a"}
	m, err := settings.New(settings.WithBuiltinCollection("Settings", []*settings.Category{
		{ID: "general", Type: settings.TypeCategory, Settings: []*settings.Setting{{ID: "tags", Value: tags}}},
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	doc, err := Document(m)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	schemaAt(t, doc, "settings", "general", "tags")["default"].([]any)[0] = "changed"
	if tags[0] != "a" {
		t.Fatalf("expected schema default untouched")
	}
}

func TestDocumentRejectsUnsupportedDefaults(t *testing.T) {
	m, err := settings.New(settings.WithBuiltinCollection("Settings", []*settings.Category{
		{ID: "bad", Type: "custom", Value: map[int]string{1: "x"}},
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := Document(m); err == nil || !strings.Contains(err.Error(), "settings.bad") {
		t.Fatalf("expected unsupported map key error, got %v", err)
	}
}

func TestDocumentNilManager(t *testing.T) {
	if _, err := Document(nil); err == nil {
		t.Fatalf("expected error for nil manager")
	}
}
