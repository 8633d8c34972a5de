package settings

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ProgramCache stores compiled expression programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache replaces the default program cache. A nil cache disables
// caching.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *config) {
		cfg.programCache = cache
	}
}

// memoryProgramCache keeps compiled programs in a go-cache instance so rarely
// used predicates age out.
type memoryProgramCache struct {
	store *gocache.Cache
}

// NewProgramCache returns a ProgramCache that evicts entries idle for ttl.
// A non-positive ttl keeps entries forever.
func NewProgramCache(ttl time.Duration) ProgramCache {
	expiration := ttl
	cleanup := ttl * 2
	if ttl <= 0 {
		expiration = gocache.NoExpiration
		cleanup = 0
	}
	return &memoryProgramCache{store: gocache.New(expiration, cleanup)}
}

func (c *memoryProgramCache) Get(key string) (any, bool) {
	value, ok := c.store.Get(key)
	if ok {
		// sliding expiration
		c.store.SetDefault(key, value)
	}
	return value, ok
}

func (c *memoryProgramCache) Set(key string, value any) {
	c.store.SetDefault(key, value)
}
