package settings

import (
	"math"
	"reflect"

	"github.com/goliatone/go-settings/internal/tree"
)

// gate is the enabled predicate attached to a schema node. It holds no
// value of its own; every read goes back to the owning Manager's State.
type gate struct {
	owner      *Manager
	node       Path
	enableWith string
	path       Path
	when       *compiledGate
	args       map[string]any
}

// Disabled reports whether the setting's dependency currently disables it.
// Nodes without a dependency are never disabled.
func (s *Setting) Disabled() (bool, error) {
	if s == nil {
		return false, nil
	}
	return s.gate.disabled()
}

// Disabled reports whether the category's dependency currently disables it.
func (c *Category) Disabled() (bool, error) {
	if c == nil {
		return false, nil
	}
	return c.gate.disabled()
}

// Disabled reports whether the collection's dependency currently disables
// it. Disabled collections are left out of Sections.
func (c *Collection) Disabled() (bool, error) {
	if c == nil {
		return false, nil
	}
	return c.gate.disabled()
}

func (g *gate) disabled() (bool, error) {
	if g == nil {
		return false, nil
	}
	if g.enableWith != "" {
		value, ok := g.owner.lookup(g.path)
		if !ok {
			return false, &DependencyPathError{Node: g.node.String(), EnableWith: g.enableWith, Path: g.path}
		}
		if !truthy(value) {
			return true, nil
		}
	}
	if g.when != nil {
		result, err := g.owner.run(g.when, RuleContext{
			State: tree.CloneMap(g.owner.state),
			Args:  tree.CloneMap(g.args),
			Path:  g.node,
		})
		if err != nil {
			return false, err
		}
		if !truthy(result) {
			return true, nil
		}
	}
	return false, nil
}

// newGate returns nil when the node declares no dependency. An EnableWhen
// expression is compiled here, once per node.
func (m *Manager) newGate(node Path, enableWith, enableWhen string, collectionID, categoryID string) *gate {
	if enableWith == "" && enableWhen == "" {
		return nil
	}
	g := &gate{
		owner:      m,
		node:       node,
		enableWith: enableWith,
		args: map[string]any{
			"collection": collectionID,
			"category":   categoryID,
		},
	}
	if enableWith != "" {
		g.path = ParsePath(enableWith, collectionID, categoryID)
	}
	if enableWhen != "" {
		g.when = m.compilePredicate(node, enableWhen)
	}
	return g
}

// attachGates wires predicates for every node of collection that declares
// one and has none yet.
func (m *Manager) attachGates(collection *Collection) {
	for _, category := range collection.Categories {
		if category.gate == nil {
			// Leaf and true categories both resolve relative to the collection.
			category.gate = m.newGate(
				Path{Collection: collection.ID, Category: category.ID},
				category.EnableWith, category.EnableWhen, collection.ID, "")
		}
		if category.IsLeaf() {
			continue
		}
		for _, setting := range category.Settings {
			if setting.gate != nil {
				continue
			}
			setting.gate = m.newGate(
				Path{Collection: collection.ID, Category: category.ID, Setting: setting.ID},
				setting.EnableWith, setting.EnableWhen, collection.ID, category.ID)
		}
	}
	if collection.gate == nil {
		collection.gate = m.newGate(Path{Collection: collection.ID}, collection.EnableWith, collection.EnableWhen, collection.ID, "")
	}
}

func (m *Manager) lookup(path Path) (any, bool) {
	if path.Collection == "" || path.Category == "" {
		return nil, false
	}
	return tree.Lookup(m.state, path.Collection, path.Category, path.Setting)
}

// truthy applies dynamic-language truthiness: nil, false, zero numbers and
// the empty string are falsy.
func truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case float64:
		return typed != 0 && !math.IsNaN(typed)
	case int:
		return typed != 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}
