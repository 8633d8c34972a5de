package hydrate

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type windowSettings struct {
	Transparent bool    `json:"transparent"`
	Opacity     float64 `json:"opacity"`
	Theme       string  `json:"theme"`
}

type appearance struct {
	Window  windowSettings `json:"window"`
	Compact bool           `json:"compact"`
}

func TestDecodeCollectionSubtree(t *testing.T) {
	payload := map[string]any{
		"window":  map[string]any{"transparent": true, "opacity": 0.8, "theme": "dark"},
		"compact": true,
	}

	got, err := NewDecoder[appearance]().Decode(Context{Collection: "appearance"}, payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := appearance{Window: windowSettings{Transparent: true, Opacity: 0.8, Theme: "dark"}, Compact: true}
	if got != want {
		t.Fatalf("decoded mismatch:\nwant: %#v\n got: %#v", want, got)
	}
}

func TestDecodeNilPayload(t *testing.T) {
	_, err := NewDecoder[appearance]().Decode(Context{Collection: "appearance"}, nil)
	if err == nil || !strings.Contains(err.Error(), `"appearance"`) {
		t.Fatalf("expected error naming the collection, got %v", err)
	}
}

func TestDecodeDisallowUnknownFields(t *testing.T) {
	payload := map[string]any{"transparent": true, "legacy": 1}
	_, err := NewDecoder[windowSettings](WithDisallowUnknownFields[windowSettings]()).
		Decode(Context{Collection: "appearance", Category: "window"}, payload)
	if err == nil || !strings.Contains(err.Error(), "appearance.window") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestDecodeUseNumber(t *testing.T) {
	type limits struct {
		Max any `json:"max"`
	}
	got, err := NewDecoder[limits](WithUseNumber[limits]()).Decode(Context{Collection: "limits"}, map[string]any{"max": 10})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := got.Max.(json.Number); !ok {
		t.Fatalf("expected json.Number, got %T", got.Max)
	}
}

func TestDecodeHooks(t *testing.T) {
	payload := map[string]any{"transparent": "yes"}
	pre := func(_ Context, in map[string]any) (map[string]any, error) {
		in["transparent"] = in["transparent"] == "yes"
		return in, nil
	}
	post := func(ctx Context, out *windowSettings) error {
		if out.Theme == "" {
			out.Theme = "default-" + ctx.Collection
		}
		return nil
	}

	got, err := NewDecoder[windowSettings](
		WithPreHook[windowSettings](pre),
		WithPostHook[windowSettings](post),
	).Decode(Context{Collection: "appearance"}, payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Transparent || got.Theme != "default-appearance" {
		t.Fatalf("unexpected result %#v", got)
	}
	if payload["transparent"] != "yes" {
		t.Fatalf("expected payload untouched, got %v", payload["transparent"])
	}
}

func TestDecodeHookErrorsAreWrapped(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewDecoder[windowSettings](WithPostHook[windowSettings](func(Context, *windowSettings) error {
		return boom
	})).Decode(Context{Collection: "appearance"}, map[string]any{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped hook error, got %v", err)
	}
}
