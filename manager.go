package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-settings/internal/tree"
	"github.com/goliatone/go-settings/pkg/activity"
)

// Manager owns the registered schema, the live State and its persistence.
// It is not safe for concurrent use; all calls are expected from one
// goroutine.
type Manager struct {
	cfg         config
	collections []*Collection
	panels      []Section
	state       map[string]any
	activity    *activity.Emitter
}

// New builds a Manager. The built-in collection, if configured, is
// registered before New returns. Call Initialize (or Load and Attach) next.
func New(opts ...Option) (*Manager, error) {
	cfg := applyOptions(opts)
	if len(cfg.errs) > 0 {
		return nil, errors.Join(cfg.errs...)
	}
	m := &Manager{
		cfg:   cfg,
		state: map[string]any{},
		activity: activity.NewEmitter(cfg.activityHooks, activity.Config{
			Enabled: true,
			Channel: cfg.activityChannel,
		}),
	}
	if cfg.builtin != nil {
		if err := m.RegisterCollection(DefaultCollectionID, cfg.builtin.name, cfg.builtin.categories); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// CollectionOption configures a collection at registration.
type CollectionOption func(*Collection)

// WithButton attaches an opaque UI descriptor passed through to the renderer.
func WithButton(button any) CollectionOption {
	return func(c *Collection) {
		c.Button = button
	}
}

// WithCollectionEnableWith hides the collection while the referenced value
// is falsy. One and two segment paths resolve inside the collection itself.
func WithCollectionEnableWith(path string) CollectionOption {
	return func(c *Collection) {
		c.EnableWith = path
	}
}

// WithCollectionEnableWhen hides the collection while expr is falsy.
func WithCollectionEnableWhen(expr string) CollectionOption {
	return func(c *Collection) {
		c.EnableWhen = expr
	}
}

// RegisterCollection adds a collection and re-runs setup over every
// collection. A duplicate id returns *DuplicateCollectionError and changes
// nothing.
func (m *Manager) RegisterCollection(id, name string, categories []*Category, opts ...CollectionOption) error {
	if m.Collection(id) != nil {
		return &DuplicateCollectionError{ID: id}
	}
	if err := validateCollection(id, categories); err != nil {
		return err
	}
	collection := &Collection{ID: id, Name: name, Categories: categories}
	for _, opt := range opts {
		if opt != nil {
			opt(collection)
		}
	}
	m.collections = append(m.collections, collection)
	m.setup()

	m.cfg.logger.Debug("settings: collection registered", "collection", id, "categories", len(categories))
	m.emit(context.Background(), activity.BuildCollectionRegisteredEvent(m.activityInput(activity.SettingsEventInput{
		Collection: id,
		Metadata:   map[string]any{"name": name},
	})))
	return nil
}

// RemoveCollection drops a collection from the schema. Its State subtree is
// kept as inert data.
func (m *Manager) RemoveCollection(id string) error {
	index := m.collectionIndex(id)
	if index < 0 {
		return &UnknownCollectionError{ID: id}
	}
	m.collections = append(m.collections[:index:index], m.collections[index+1:]...)

	m.cfg.logger.Debug("settings: collection removed", "collection", id)
	m.emit(context.Background(), activity.BuildCollectionRemovedEvent(m.activityInput(activity.SettingsEventInput{
		Collection: id,
	})))
	return nil
}

// Collection returns the collection with id, or nil.
func (m *Manager) Collection(id string) *Collection {
	if index := m.collectionIndex(id); index >= 0 {
		return m.collections[index]
	}
	return nil
}

// Collections returns the registered collections in registration order.
func (m *Manager) Collections() []*Collection {
	return append([]*Collection(nil), m.collections...)
}

func (m *Manager) collectionIndex(id string) int {
	for i, collection := range m.collections {
		if collection.ID == id {
			return i
		}
	}
	return -1
}

// GetCategory returns a category node.
func (m *Manager) GetCategory(collectionID, categoryID string) (*Category, error) {
	collection := m.Collection(collectionID)
	if collection == nil {
		return nil, &UnknownCollectionError{ID: collectionID}
	}
	category := collection.Category(categoryID)
	if category == nil {
		return nil, &NotFoundError{Collection: collectionID, Category: categoryID}
	}
	return category, nil
}

// GetSetting returns a setting node.
func (m *Manager) GetSetting(collectionID, categoryID, settingID string) (*Setting, error) {
	category, err := m.GetCategory(collectionID, categoryID)
	if err != nil {
		return nil, &NotFoundError{Collection: collectionID, Category: categoryID, Setting: settingID}
	}
	setting := category.Setting(settingID)
	if setting == nil {
		return nil, &NotFoundError{Collection: collectionID, Category: categoryID, Setting: settingID}
	}
	return setting, nil
}

// GetSettingInDefault is GetSetting on the "settings" collection.
func (m *Manager) GetSettingInDefault(categoryID, settingID string) (*Setting, error) {
	return m.GetSetting(DefaultCollectionID, categoryID, settingID)
}

// Get returns the live value at the path. It returns false when the
// collection or category is missing and nil when only the setting is. Pass
// an empty settingID to read a leaf category.
func (m *Manager) Get(collectionID, categoryID, settingID string) any {
	colState, ok := tree.Child(m.state, collectionID)
	if !ok {
		return false
	}
	catValue, ok := colState[categoryID]
	if !ok {
		return false
	}
	if settingID == "" {
		return catValue
	}
	catState, ok := catValue.(map[string]any)
	if !ok {
		return nil
	}
	return catState[settingID]
}

// GetInDefault is Get on the "settings" collection.
func (m *Manager) GetInDefault(categoryID, settingID string) any {
	return m.Get(DefaultCollectionID, categoryID, settingID)
}

// OnSettingChange is the only way to write a value. It stores value,
// dispatches one "setting-updated" event, runs any preference hook, persists
// the State and, when handlers registered or removed collections, asks the
// bridge to refresh. Leaf categories are written with an empty settingID.
func (m *Manager) OnSettingChange(ctx context.Context, collectionID, categoryID, settingID string, value any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	collection := m.Collection(collectionID)
	if collection == nil {
		return &UnknownCollectionError{ID: collectionID}
	}
	category := collection.Category(categoryID)
	if category == nil {
		return &NotFoundError{Collection: collectionID, Category: categoryID, Setting: settingID}
	}
	if (settingID == "") != category.IsLeaf() {
		return &NotFoundError{Collection: collectionID, Category: categoryID, Setting: settingID}
	}

	before := len(m.collections)
	previous := m.write(collection, category, settingID, value)

	change := Change{Collection: collectionID, Category: categoryID, Setting: settingID, Value: value}
	m.dispatchChange(change)
	hookErr := m.runPreferenceHook(ctx, change)

	saveErr := m.Save(ctx)
	if after := len(m.collections); after != before {
		m.cfg.logger.Debug("settings: collections changed, refreshing",
			"before", before, "after", after)
		if m.cfg.bridge != nil {
			m.cfg.bridge.Refresh()
		}
	}

	m.emit(ctx, activity.BuildSettingUpdatedEvent(m.activityInput(activity.SettingsEventInput{
		Collection: collectionID,
		Category:   categoryID,
		Setting:    settingID,
		OldValue:   previous,
		NewValue:   value,
	})))
	return errors.Join(hookErr, saveErr)
}

// write stores value and returns the value it replaced.
func (m *Manager) write(collection *Collection, category *Category, settingID string, value any) any {
	colState := m.ensureMap(m.state, collection.ID, collection.ID)
	if settingID == "" {
		previous := colState[category.ID]
		colState[category.ID] = value
		return previous
	}
	catState := m.ensureMap(colState, category.ID, fmt.Sprintf("%s.%s", collection.ID, category.ID))
	previous := catState[settingID]
	catState[settingID] = value
	return previous
}

func (m *Manager) activityInput(input activity.SettingsEventInput) activity.SettingsEventInput {
	if input.ActorID == "" {
		input.ActorID = m.cfg.actorID
	}
	return input
}

// emit forwards to the activity hooks. Hook failures are logged only.
func (m *Manager) emit(ctx context.Context, event activity.Event) {
	if !m.activity.Enabled() {
		return
	}
	if err := m.activity.Emit(ctx, event); err != nil {
		m.cfg.logger.Warn("settings: activity hook failed", "verb", event.Verb, "object", event.ObjectID, "error", err)
	}
}
