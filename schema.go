package settings

import (
	"fmt"
)

// TypeCategory marks a Category node that groups settings. Any other type
// turns the node into a leaf setting stored directly under the collection.
const TypeCategory = "category"

// Collection is the top-level grouping rendered as one settings section.
type Collection struct {
	ID         string
	Name       string
	Categories []*Category
	EnableWith string
	EnableWhen string
	// Button is an opaque UI descriptor handed to the renderer as-is.
	Button any

	gate *gate
}

// Category groups settings inside a collection. When Type is not
// TypeCategory the node behaves as a leaf setting and Value is its default.
type Category struct {
	ID         string
	Name       string
	Type       string
	Value      any
	Note       string
	EnableWith string
	EnableWhen string
	Settings   []*Setting

	gate *gate
}

// Setting is one configurable value. Type is opaque to the engine and only
// meaningful to renderers.
type Setting struct {
	ID         string
	Name       string
	Type       string
	Value      any
	Note       string
	EnableWith string
	EnableWhen string

	gate *gate
}

// IsLeaf reports whether the category node holds a value itself.
func (c *Category) IsLeaf() bool {
	return c.Type != TypeCategory
}

// Category returns the category with id, or nil.
func (c *Collection) Category(id string) *Category {
	if c == nil {
		return nil
	}
	for _, category := range c.Categories {
		if category.ID == id {
			return category
		}
	}
	return nil
}

// Setting returns the setting with id, or nil. Leaf categories have no
// settings.
func (c *Category) Setting(id string) *Setting {
	if c == nil || c.IsLeaf() {
		return nil
	}
	for _, setting := range c.Settings {
		if setting.ID == id {
			return setting
		}
	}
	return nil
}

// Leaves returns the path of every value the collection contributes to the
// state tree, in schema order.
func (c *Collection) Leaves() []Path {
	if c == nil {
		return nil
	}
	var paths []Path
	for _, category := range c.Categories {
		if category.IsLeaf() {
			paths = append(paths, Path{Collection: c.ID, Category: category.ID})
			continue
		}
		for _, setting := range category.Settings {
			paths = append(paths, Path{Collection: c.ID, Category: category.ID, Setting: setting.ID})
		}
	}
	return paths
}

func validateCollection(id string, categories []*Category) error {
	if id == "" {
		return fmt.Errorf("%w: collection id is required", ErrInvalidSchema)
	}
	seen := make(map[string]struct{}, len(categories))
	for i, category := range categories {
		if category == nil {
			return fmt.Errorf("%w: collection %q category #%d is nil", ErrInvalidSchema, id, i)
		}
		if category.ID == "" {
			return fmt.Errorf("%w: collection %q category #%d has no id", ErrInvalidSchema, id, i)
		}
		if _, dup := seen[category.ID]; dup {
			return fmt.Errorf("%w: collection %q has duplicate category %q", ErrInvalidSchema, id, category.ID)
		}
		seen[category.ID] = struct{}{}
		if category.IsLeaf() {
			continue
		}
		settingIDs := make(map[string]struct{}, len(category.Settings))
		for j, setting := range category.Settings {
			if setting == nil || setting.ID == "" {
				return fmt.Errorf("%w: %s.%s setting #%d has no id", ErrInvalidSchema, id, category.ID, j)
			}
			if _, dup := settingIDs[setting.ID]; dup {
				return fmt.Errorf("%w: %s.%s has duplicate setting %q", ErrInvalidSchema, id, category.ID, setting.ID)
			}
			settingIDs[setting.ID] = struct{}{}
		}
	}
	return nil
}
