// Package schemafile loads collection definitions from YAML or JSON files so
// tooling can build a settings registry without Go code.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	settings "github.com/goliatone/go-settings"
	"gopkg.in/yaml.v3"
)

// ErrInvalidFile reports a definition file that could not be understood.
var ErrInvalidFile = errors.New("schemafile: invalid definition")

// File is the on-disk shape. A file holds either a single collection at the
// top level or a list under collections.
type File struct {
	Collection  `yaml:",inline"`
	Collections []Collection `yaml:"collections,omitempty"`
}

// Collection describes one collection.
type Collection struct {
	ID         string     `yaml:"id,omitempty"`
	Name       string     `yaml:"name,omitempty"`
	EnableWith string     `yaml:"enableWith,omitempty"`
	EnableWhen string     `yaml:"enableWhen,omitempty"`
	Button     any        `yaml:"button,omitempty"`
	Categories []Category `yaml:"categories,omitempty"`
}

// Category describes a category node. Type defaults to "category" when the
// node lists settings.
type Category struct {
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name,omitempty"`
	Type       string    `yaml:"type,omitempty"`
	Value      any       `yaml:"value,omitempty"`
	Note       string    `yaml:"note,omitempty"`
	EnableWith string    `yaml:"enableWith,omitempty"`
	EnableWhen string    `yaml:"enableWhen,omitempty"`
	Settings   []Setting `yaml:"settings,omitempty"`
}

// Setting describes a setting node.
type Setting struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name,omitempty"`
	Type       string `yaml:"type,omitempty"`
	Value      any    `yaml:"value,omitempty"`
	Note       string `yaml:"note,omitempty"`
	EnableWith string `yaml:"enableWith,omitempty"`
	EnableWhen string `yaml:"enableWhen,omitempty"`
}

// Parse decodes a definition. JSON input is accepted as YAML. Unknown keys
// are rejected.
func Parse(data []byte) ([]Collection, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidFile)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	collections := file.Collections
	if file.Collection.ID != "" || len(file.Collection.Categories) > 0 {
		if len(collections) > 0 {
			return nil, fmt.Errorf("%w: top-level collection and collections list are exclusive", ErrInvalidFile)
		}
		collections = []Collection{file.Collection}
	}
	if len(collections) == 0 {
		return nil, fmt.Errorf("%w: no collections defined", ErrInvalidFile)
	}
	for i, collection := range collections {
		if collection.ID == "" {
			return nil, fmt.Errorf("%w: collection #%d has no id", ErrInvalidFile, i)
		}
	}
	return collections, nil
}

// Load reads and parses the file at path.
func Load(path string) ([]Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: read %s: %w", path, err)
	}
	collections, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return collections, nil
}

// Schema converts the definition into engine nodes.
func (c Collection) Schema() []*settings.Category {
	categories := make([]*settings.Category, 0, len(c.Categories))
	for _, def := range c.Categories {
		category := &settings.Category{
			ID:         def.ID,
			Name:       def.Name,
			Type:       def.Type,
			Value:      def.Value,
			Note:       def.Note,
			EnableWith: def.EnableWith,
			EnableWhen: def.EnableWhen,
		}
		if category.Type == "" && len(def.Settings) > 0 {
			category.Type = settings.TypeCategory
		}
		for _, s := range def.Settings {
			category.Settings = append(category.Settings, &settings.Setting{
				ID:         s.ID,
				Name:       s.Name,
				Type:       s.Type,
				Value:      s.Value,
				Note:       s.Note,
				EnableWith: s.EnableWith,
				EnableWhen: s.EnableWhen,
			})
		}
		categories = append(categories, category)
	}
	return categories
}

// Options returns the registration options carried by the definition.
func (c Collection) Options() []settings.CollectionOption {
	var opts []settings.CollectionOption
	if c.Button != nil {
		opts = append(opts, settings.WithButton(c.Button))
	}
	if c.EnableWith != "" {
		opts = append(opts, settings.WithCollectionEnableWith(c.EnableWith))
	}
	if c.EnableWhen != "" {
		opts = append(opts, settings.WithCollectionEnableWhen(c.EnableWhen))
	}
	return opts
}

// Register registers every collection on m. Registration stops at the first
// error.
func Register(m *settings.Manager, collections []Collection) error {
	for _, collection := range collections {
		name := collection.Name
		if name == "" {
			name = collection.ID
		}
		if err := m.RegisterCollection(collection.ID, name, collection.Schema(), collection.Options()...); err != nil {
			return err
		}
	}
	return nil
}
