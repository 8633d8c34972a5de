package settings

import (
	"strings"

	"github.com/goliatone/go-settings/pkg/activity"
	"github.com/goliatone/go-settings/pkg/events"
	"github.com/goliatone/go-settings/pkg/storage"
)

// DefaultStorageKey is the key the State is persisted under.
const DefaultStorageKey = "settings"

// DefaultCollectionID is the collection used by GetInDefault and
// GetSettingInDefault.
const DefaultCollectionID = "settings"

// Option configures a Manager.
type Option func(*config)

type config struct {
	logger          Logger
	evaluatorLogger EvaluatorLogger
	evaluator       Evaluator
	programCache    ProgramCache
	functions       *FunctionRegistry

	store      storage.Store
	storageKey string
	bus        events.Bus
	bridge     Bridge
	renderer   Renderer

	headerLabel     string
	builtin         *builtinCollection
	preferenceHooks map[string]PreferenceHook

	activityHooks   activity.Hooks
	activityChannel string
	actorID         string

	errs []error
}

type builtinCollection struct {
	name       string
	categories []*Category
}

func defaultConfig() config {
	return config{
		logger:          discardLogger(),
		evaluatorLogger: noopEvaluatorLogger{},
		programCache:    NewProgramCache(0),
		storageKey:      DefaultStorageKey,
		headerLabel:     "Settings",
		preferenceHooks: map[string]PreferenceHook{},
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.store == nil {
		cfg.store = storage.NewMemoryStore()
	}
	if cfg.bus == nil {
		cfg.bus = events.NewEmitter()
	}
	if cfg.renderer == nil {
		cfg.renderer = PlainRenderer
	}
	return cfg
}

// WithStore sets the persistence backend. Defaults to an in-memory store.
func WithStore(store storage.Store) Option {
	return func(cfg *config) {
		cfg.store = store
	}
}

// WithStorageKey changes the key the State is persisted under.
func WithStorageKey(key string) Option {
	return func(cfg *config) {
		if key = strings.TrimSpace(key); key != "" {
			cfg.storageKey = key
		}
	}
}

// WithBus replaces the change notification bus. Sharing a bus lets other
// components observe "setting-updated" directly.
func WithBus(bus events.Bus) Option {
	return func(cfg *config) {
		cfg.bus = bus
	}
}

// WithBridge connects the engine to the host UI.
func WithBridge(bridge Bridge) Option {
	return func(cfg *config) {
		cfg.bridge = bridge
	}
}

// WithRenderer sets the producer used for collection section bodies.
func WithRenderer(renderer Renderer) Option {
	return func(cfg *config) {
		cfg.renderer = renderer
	}
}

// WithHeaderLabel overrides the label of the header section.
func WithHeaderLabel(label string) Option {
	return func(cfg *config) {
		cfg.headerLabel = label
	}
}

// WithBuiltinCollection registers the default "settings" collection during
// New.
func WithBuiltinCollection(name string, categories []*Category) Option {
	return func(cfg *config) {
		cfg.builtin = &builtinCollection{name: name, categories: categories}
	}
}

// WithEvaluator sets the engine used for EnableWhen predicates. The expr
// evaluator is used when none is configured.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = e
	}
}

// WithActivityHooks attaches activity hooks. Nil entries are dropped.
func WithActivityHooks(hooks ...activity.ActivityHook) Option {
	return func(cfg *config) {
		for _, hook := range hooks {
			if hook != nil {
				cfg.activityHooks = append(cfg.activityHooks, hook)
			}
		}
	}
}

// WithActivityChannel overrides the channel stamped on activity events.
func WithActivityChannel(channel string) Option {
	return func(cfg *config) {
		cfg.activityChannel = channel
	}
}

// WithActor records actorID on every activity event the engine emits.
func WithActor(actorID string) Option {
	return func(cfg *config) {
		cfg.actorID = strings.TrimSpace(actorID)
	}
}
