// Package tree holds the nested map helpers shared by the state engine,
// the storage backends and the CLI: deep copies, segment lookups and
// flattening into dotted field descriptors.
package tree

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Clone returns a deep copy of value. Maps, slices, arrays and pointers are
// copied recursively; everything else is copied by value.
func Clone[T any](value T) T {
	cloned := cloneValue(reflect.ValueOf(value))
	if !cloned.IsValid() {
		var zero T
		return zero
	}
	out, ok := cloned.Interface().(T)
	if !ok {
		return value
	}
	return out
}

// CloneMap deep copies a nested map. A nil input yields an empty map.
func CloneMap(src map[string]any) map[string]any {
	if src == nil {
		return map[string]any{}
	}
	return Clone(src)
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(cloneValue(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := cloneValue(v.Elem())
		if !elem.IsValid() {
			return reflect.Zero(v.Type())
		}
		return elem.Convert(v.Type())
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			value := cloneValue(iter.Value())
			if !value.IsValid() {
				value = reflect.Zero(v.Type().Elem())
			}
			clone.SetMapIndex(iter.Key(), value)
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			value := cloneValue(v.Index(i))
			if !value.IsValid() {
				continue
			}
			clone.Index(i).Set(value)
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	default:
		// Structs and scalars are copied by value; struct fields holding
		// references are shared.
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		return out
	}
}

// Lookup walks nested maps by segment. Empty segments are skipped so a
// leaf category can be addressed with an empty setting segment.
func Lookup(root map[string]any, segments ...string) (any, bool) {
	var current any = root
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Child returns root[key] as a map, reporting false when it is missing or
// holds a non-map value.
func Child(root map[string]any, key string) (map[string]any, bool) {
	if root == nil {
		return nil, false
	}
	child, ok := root[key].(map[string]any)
	return child, ok
}

// Field describes one leaf of a nested map.
type Field struct {
	Path  string `json:"path" yaml:"path"`
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}

// Flatten lists every leaf below value as dotted paths sorted by key.
func Flatten(value any, prefix string) []Field {
	if value == nil {
		if prefix == "" {
			return nil
		}
		return []Field{{Path: prefix, Type: "nil"}}
	}

	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 {
			if prefix == "" {
				return nil
			}
			return []Field{{Path: prefix, Type: "map[string]any", Value: typed}}
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var fields []Field
		for _, key := range keys {
			fields = append(fields, Flatten(typed[key], JoinPath(prefix, key))...)
		}
		return fields
	default:
		if prefix == "" {
			return nil
		}
		return []Field{{Path: prefix, Type: TypeName(typed), Value: typed}}
	}
}

// TypeName is the Go type of value, or "nil".
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}

// JoinPath joins a dotted prefix and a segment.
func JoinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return strings.Join([]string{prefix, segment}, ".")
}
