package openapi

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	settings "github.com/goliatone/go-settings"
	"github.com/goliatone/go-settings/internal/tree"
)

// Generator renders registered collections as an OpenAPI document.
type Generator struct {
	config generatorConfig
}

// NewGenerator constructs an OpenAPI document generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Generator{config: cfg}
}

// Document describes every collection registered on the manager.
func Document(m *settings.Manager, opts ...GeneratorOption) (map[string]any, error) {
	if m == nil {
		return nil, fmt.Errorf("openapi: manager cannot be nil")
	}
	return NewGenerator(opts...).Generate(m.Collections())
}

// Generate builds one component schema and one write operation per
// collection.
func (g *Generator) Generate(collections []*settings.Collection) (map[string]any, error) {
	schemas := make(map[string]any, len(collections))
	ids := make([]string, 0, len(collections))
	for _, collection := range collections {
		if collection == nil {
			continue
		}
		if !g.config.includeHidden {
			if disabled, err := collection.Disabled(); err != nil || disabled {
				continue
			}
		}
		schema, err := collectionSchema(collection)
		if err != nil {
			return nil, err
		}
		schemas[collection.ID] = schema
		ids = append(ids, collection.ID)
	}
	return newDocumentBuilder(g.config, ids, schemas).build()
}

func collectionSchema(collection *settings.Collection) (map[string]any, error) {
	properties := make(map[string]any, len(collection.Categories))
	for _, category := range collection.Categories {
		schema, err := categorySchema(collection.ID, category)
		if err != nil {
			return nil, err
		}
		properties[category.ID] = schema
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	annotate(schema, collection.Name, "", "", collection.EnableWith, collection.EnableWhen)
	return schema, nil
}

func categorySchema(collectionID string, category *settings.Category) (map[string]any, error) {
	if category.IsLeaf() {
		schema, err := valueSchema(category.Value)
		if err != nil {
			return nil, fmt.Errorf("openapi: %s.%s: %w", collectionID, category.ID, err)
		}
		annotate(schema, category.Name, category.Note, category.Type, category.EnableWith, category.EnableWhen)
		return schema, nil
	}

	properties := make(map[string]any, len(category.Settings))
	for _, setting := range category.Settings {
		schema, err := valueSchema(setting.Value)
		if err != nil {
			return nil, fmt.Errorf("openapi: %s.%s.%s: %w", collectionID, category.ID, setting.ID, err)
		}
		annotate(schema, setting.Name, setting.Note, setting.Type, setting.EnableWith, setting.EnableWhen)
		properties[setting.ID] = schema
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	annotate(schema, category.Name, category.Note, "", category.EnableWith, category.EnableWhen)
	return schema, nil
}

// valueSchema infers the schema from the default and records the default.
func valueSchema(value any) (map[string]any, error) {
	schema, err := buildSchema(reflect.ValueOf(value))
	if err != nil {
		return nil, err
	}
	if value != nil {
		schema["default"] = tree.Clone(value)
	}
	return schema, nil
}

func annotate(schema map[string]any, title, description, widget, enableWith, enableWhen string) {
	if title != "" {
		schema["title"] = title
	}
	if description != "" {
		schema["description"] = description
	}
	if widget != "" {
		schema["x-setting-type"] = widget
	}
	if enableWith != "" {
		schema["x-enable-with"] = enableWith
	}
	if enableWhen != "" {
		schema["x-enable-when"] = enableWhen
	}
}

func buildSchema(rv reflect.Value) (map[string]any, error) {
	if !rv.IsValid() {
		return map[string]any{"nullable": true}, nil
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return map[string]any{"nullable": true}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return map[string]any{"nullable": true}, nil
		}
		return buildSchema(rv.Elem())
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Struct:
		if rv.Type() == reflect.TypeOf(time.Time{}) {
			return map[string]any{
				"type":   "string",
				"format": "date-time",
			}, nil
		}
		return schemaForStruct(rv)
	case reflect.Map:
		return schemaForMap(rv)
	case reflect.Slice, reflect.Array:
		return schemaForSlice(rv)
	default:
		return map[string]any{
			"type":   "string",
			"format": fmt.Sprintf("go:%s", rv.Type().String()),
		}, nil
	}
}

func schemaForMap(rv reflect.Value) (map[string]any, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("map key type %s unsupported", rv.Type().Key())
	}

	keys := rv.MapKeys()
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, key.String())
	}
	sort.Strings(names)

	properties := make(map[string]any, len(names))
	for _, name := range names {
		child, err := buildSchema(rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key())))
		if err != nil {
			return nil, err
		}
		properties[name] = child
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}, nil
}

func schemaForStruct(rv reflect.Value) (map[string]any, error) {
	rt := rv.Type()
	properties := map[string]any{}

	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			tagName := strings.Split(tag, ",")[0]
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}

		child, err := buildSchema(rv.Field(i))
		if err != nil {
			return nil, err
		}
		properties[name] = child
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
	}, nil
}

func schemaForSlice(rv reflect.Value) (map[string]any, error) {
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return map[string]any{
			"type":   "string",
			"format": "byte",
		}, nil
	}

	itemSchema := map[string]any{}
	if rv.Len() > 0 {
		var err error
		itemSchema, err = buildSchema(rv.Index(0))
		if err != nil {
			return nil, err
		}
	}
	return map[string]any{
		"type":  "array",
		"items": itemSchema,
	}, nil
}
