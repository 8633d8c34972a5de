package settings

import (
	"context"
	"errors"
)

// SectionKind classifies the entries handed to the Bridge.
type SectionKind string

const (
	SectionDivider    SectionKind = "divider"
	SectionHeader     SectionKind = "header"
	SectionCollection SectionKind = "collection"
	SectionPanel      SectionKind = "panel"
)

// Section is one entry the host inserts into its settings navigation. A
// section has an Element producer, an OnClick action, or neither for
// dividers and headers.
type Section struct {
	ID      string
	Label   string
	Kind    SectionKind
	Element func() any
	OnClick func()
}

// Bridge is implemented by the host integration layer. Ready is closed once
// the host settings container exists; Attach hands over the section
// producer; Refresh asks the host to rebuild its sections.
type Bridge interface {
	Ready() <-chan struct{}
	Attach(sections func() []Section)
	Refresh()
}

// RenderRequest is everything a Renderer needs to build a collection body.
type RenderRequest struct {
	CollectionID string
	Name         string
	Categories   []*Category
	// State is a copy of the collection subtree at render time.
	State map[string]any
	// OnChange writes through OnSettingChange for this collection.
	OnChange func(categoryID, settingID string, value any) error
	Button   any
}

// Renderer produces an opaque section body. The engine never inspects the
// result.
type Renderer func(RenderRequest) any

// PlainRenderer returns the request itself. Headless hosts and tests use it
// to inspect what a UI renderer would receive.
func PlainRenderer(req RenderRequest) any {
	return req
}

// Sections lists, in order, a divider, the header, every enabled collection
// and the registered panels.
func (m *Manager) Sections() []Section {
	sections := []Section{
		{ID: "divider", Kind: SectionDivider},
		{ID: "header", Label: m.cfg.headerLabel, Kind: SectionHeader},
	}
	for _, collection := range m.collections {
		disabled, err := collection.Disabled()
		if err != nil {
			m.cfg.logger.Warn("settings: skipping collection with unresolved dependency",
				"collection", collection.ID, "error", err)
			continue
		}
		if disabled {
			continue
		}
		sections = append(sections, Section{
			ID:      collection.ID,
			Label:   collection.Name,
			Kind:    SectionCollection,
			Element: m.collectionElement(collection),
		})
	}
	return append(sections, m.Panels()...)
}

func (m *Manager) collectionElement(collection *Collection) func() any {
	return func() any {
		return m.cfg.renderer(RenderRequest{
			CollectionID: collection.ID,
			Name:         collection.Name,
			Categories:   collection.Categories,
			State:        m.StateOf(collection.ID),
			OnChange: func(categoryID, settingID string, value any) error {
				return m.OnSettingChange(context.Background(), collection.ID, categoryID, settingID, value)
			},
			Button: collection.Button,
		})
	}
}

// Attach waits for the bridge to report the host container and hands it the
// section producer. It returns immediately without a bridge.
func (m *Manager) Attach(ctx context.Context) error {
	bridge := m.cfg.bridge
	if bridge == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-bridge.Ready():
	case <-ctx.Done():
		return ctx.Err()
	}
	bridge.Attach(m.Sections)
	bridge.Refresh()
	m.cfg.logger.Debug("settings: attached to host bridge", "collections", len(m.collections), "panels", len(m.panels))
	return nil
}

// Initialize loads persisted state and then attaches to the bridge. A load
// failure leaves the defaults in place; the host is still attached and the
// load error is returned.
func (m *Manager) Initialize(ctx context.Context) error {
	loadErr := m.Load(ctx)
	if loadErr != nil && ctx != nil && ctx.Err() != nil {
		return loadErr
	}
	return errors.Join(loadErr, m.Attach(ctx))
}
