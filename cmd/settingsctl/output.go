package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goliatone/go-settings/pkg/storage"
	"gopkg.in/yaml.v3"
)

// writeValue encodes value in the requested format. TOML documents must be
// tables, so non-map values are wrapped under "value".
func writeValue(w io.Writer, format string, value any) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		doc, ok := value.(map[string]any)
		if !ok {
			doc = map[string]any{"value": value}
		}
		raw, err := storage.Encode(storage.FormatTOML, doc)
		if err != nil {
			return err
		}
		_, err = w.Write(raw)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// parseValue reads a command-line value as YAML so "true", "3" and "[a, b]"
// keep their types. Anything unparsable is taken as a plain string.
func parseValue(raw string) any {
	if raw == "" {
		return raw
	}
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	return value
}
