package settings

import (
	"fmt"
	"strings"
)

// PanelOptions describes an ad-hoc panel. Exactly one field must be set:
// Element is a static body, Render produces a body, OnClick turns the panel
// into an action item with no body.
type PanelOptions struct {
	Element any
	Render  func() any
	OnClick func()
}

// RegisterPanel appends a panel after the collections in Sections.
func (m *Manager) RegisterPanel(name string, opts PanelOptions) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPanel)
	}
	set := 0
	if opts.Element != nil {
		set++
	}
	if opts.Render != nil {
		set++
	}
	if opts.OnClick != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("%w: %q needs exactly one of element, render or onClick, got %d", ErrInvalidPanel, name, set)
	}

	section := Section{ID: name, Label: name, Kind: SectionPanel}
	switch {
	case opts.OnClick != nil:
		section.OnClick = opts.OnClick
	case opts.Render != nil:
		section.Element = opts.Render
	default:
		section.Element = normalizeElement(opts.Element)
	}
	m.panels = append(m.panels, section)
	return nil
}

// Panels returns the registered panels in registration order.
func (m *Manager) Panels() []Section {
	return append([]Section(nil), m.panels...)
}

func normalizeElement(element any) func() any {
	switch typed := element.(type) {
	case func() any:
		return typed
	default:
		return func() any { return element }
	}
}
