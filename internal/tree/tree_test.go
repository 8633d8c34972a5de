package tree

import (
	"reflect"
	"testing"
)

func TestCloneIsDeep(t *testing.T) {
	src := map[string]any{
		"settings": map[string]any{
			"general": map[string]any{"tags": []any{"a", map[string]any{"k": "v"}}},
		},
	}
	clone := CloneMap(src)
	if !reflect.DeepEqual(src, clone) {
		t.Fatalf("expected equal clone")
	}

	general := clone["settings"].(map[string]any)["general"].(map[string]any)
	general["tags"].([]any)[1].(map[string]any)["k"] = "changed"
	general["new"] = true

	original := src["settings"].(map[string]any)["general"].(map[string]any)
	if original["tags"].([]any)[1].(map[string]any)["k"] != "v" {
		t.Fatalf("expected nested map untouched")
	}
	if _, ok := original["new"]; ok {
		t.Fatalf("expected original map untouched")
	}
}

func TestCloneNilAndScalars(t *testing.T) {
	if got := CloneMap(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty map, got %#v", got)
	}
	if got := Clone[any](nil); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
	if got := Clone(42); got != 42 {
		t.Fatalf("expected scalar copy, got %v", got)
	}
	value := 3
	ptr := Clone(&value)
	*ptr = 4
	if value != 3 {
		t.Fatalf("expected pointer target copied")
	}
}

func TestLookup(t *testing.T) {
	root := map[string]any{
		"c": map[string]any{
			"leaf": 1,
			"cat":  map[string]any{"s": false},
		},
	}
	cases := []struct {
		segments []string
		want     any
		ok       bool
	}{
		{[]string{"c", "cat", "s"}, false, true},
		{[]string{"c", "leaf", ""}, 1, true},
		{[]string{"c", "leaf", "s"}, nil, false},
		{[]string{"c", "missing"}, nil, false},
		{[]string{"x"}, nil, false},
	}
	for _, tc := range cases {
		got, ok := Lookup(root, tc.segments...)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("Lookup(%v) = %v, %v; want %v, %v", tc.segments, got, ok, tc.want, tc.ok)
		}
	}
}

func TestChild(t *testing.T) {
	root := map[string]any{"m": map[string]any{}, "s": "x"}
	if _, ok := Child(root, "m"); !ok {
		t.Fatalf("expected map child")
	}
	if _, ok := Child(root, "s"); ok {
		t.Fatalf("expected scalar to be rejected")
	}
	if _, ok := Child(nil, "m"); ok {
		t.Fatalf("expected nil root to be rejected")
	}
}

func TestFlatten(t *testing.T) {
	fields := Flatten(map[string]any{
		"b": map[string]any{"y": "v", "x": nil},
		"a": 1,
		"e": map[string]any{},
	}, "")
	want := []Field{
		{Path: "a", Type: "int", Value: 1},
		{Path: "b.x", Type: "nil"},
		{Path: "b.y", Type: "string", Value: "v"},
		{Path: "e", Type: "map[string]any", Value: map[string]any{}},
	}
	if !reflect.DeepEqual(fields, want) {
		t.Fatalf("unexpected fields:\nwant %#v\n got %#v", want, fields)
	}
	if Flatten(nil, "") != nil {
		t.Fatalf("expected no fields for nil root")
	}
	if got := JoinPath("", "a"); got != "a" {
		t.Fatalf("unexpected join %q", got)
	}
}
