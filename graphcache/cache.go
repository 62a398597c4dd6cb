package graphcache

import (
	"fmt"
	"reflect"
	"time"

	"github.com/goliatone/go-graph-cache/cache"
	"github.com/goliatone/go-graph-cache/internal/inspector"
	"github.com/goliatone/go-graph-cache/pkg/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Cache decomposes object graphs into one store entry per cacheable node
// and puts graphs back together on read, swapping every reference for the
// version currently held by the store.
//
// Methods are safe for concurrent use as long as the store is. Reads
// rehydrate the cached objects themselves: a read that finds an up to date
// graph writes nothing, but a read that swaps in a newer entry writes into
// objects other readers may hold. Callers replacing entries while others read
// the same graph must synchronize those reads themselves. Operations
// touching several entries are not atomic and are not rolled back when they
// fail half way.
type Cache struct {
	name          string
	configuration *cache.Configuration
	store         cache.Store
	keys          *cache.KeyCreator
	inspector     *inspector.Inspector
	logger        zerolog.Logger
	metrics       metrics.Recorder
	now           func() time.Time
}

// Option customizes a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for debug events. The default discards
// everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithMetrics sets the recorder receiving cache events.
func WithMetrics(recorder metrics.Recorder) Option {
	return func(c *Cache) {
		if recorder != nil {
			c.metrics = recorder
		}
	}
}

// WithClock sets the time source used to compute and validate expirations.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithName labels the cache in logs and metrics.
func WithName(name string) Option {
	return func(c *Cache) {
		if name != "" {
			c.name = name
		}
	}
}

// New creates a Cache storing entries in store and keying them through
// configuration.
func New(configuration *cache.Configuration, store cache.Store, opts ...Option) (*Cache, error) {
	if configuration == nil {
		return nil, cache.NullArgument("configuration")
	}
	if store == nil {
		return nil, cache.NullArgument("store")
	}

	keys, err := cache.NewKeyCreator(configuration)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		name:          "graphcache-" + uuid.NewString(),
		configuration: configuration,
		store:         store,
		keys:          keys,
		inspector:     inspector.New(configuration.Registry()),
		logger:        zerolog.Nop(),
		metrics:       metrics.Nop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("cache", c.name).Logger()

	return c, nil
}

// Name returns the cache label used in logs and metrics.
func (c *Cache) Name() string { return c.name }

// Configuration returns the key configuration of the cache.
func (c *Cache) Configuration() *cache.Configuration { return c.configuration }

// Store returns the backing store.
func (c *Cache) Store() cache.Store { return c.store }

// Now returns the current time of the cache clock.
func (c *Cache) Now() time.Time { return c.now() }

// Add stores every cacheable node reachable from value for ttl. Sequences
// passed as value are decomposed element by element. A node whose key is
// already live in the store is left untouched. ttl must be positive and
// within the store's MaxTTL.
func (c *Cache) Add(value any, ttl time.Duration) error {
	if isNil(value) {
		return cache.NullArgument("value")
	}
	if ttl <= 0 {
		return fmt.Errorf("%w: got %s", cache.ErrInvalidDuration, ttl)
	}
	if max := c.store.MaxTTL(); max > 0 && ttl > max {
		return fmt.Errorf("%w: got %s, store keeps entries for at most %s", cache.ErrInvalidDuration, ttl, max)
	}
	return c.add(value, c.now().Add(ttl))
}

// AddUntil is Add with an absolute expiration, which must lie in the future
// and within the store's MaxTTL.
func (c *Cache) AddUntil(value any, expiresAt time.Time) error {
	if isNil(value) {
		return cache.NullArgument("value")
	}
	now := c.now()
	if !expiresAt.After(now) {
		return fmt.Errorf("%w: got %s", cache.ErrInvalidExpiration, expiresAt.Format(time.RFC3339Nano))
	}
	if max := c.store.MaxTTL(); max > 0 && expiresAt.Sub(now) > max {
		return fmt.Errorf("%w: got %s, store keeps entries for at most %s", cache.ErrInvalidExpiration, expiresAt.Format(time.RFC3339Nano), max)
	}
	return c.add(value, expiresAt)
}

func (c *Cache) add(value any, expiresAt time.Time) error {
	return c.inspector.Visit(value, func(node any) error {
		key, ok, err := c.key(node)
		if err != nil || !ok {
			return err
		}

		stored := c.store.Add(key, node, expiresAt)
		c.metrics.EntryAdded(c.name, stored)
		c.logger.Debug().
			Str("key", key).
			Bool("stored", stored).
			Time("expires_at", expiresAt).
			Msg("add entry")
		return nil
	})
}

// Clear removes every entry of the store.
func (c *Cache) Clear() {
	keys := c.store.Keys()
	for _, key := range keys {
		c.store.Remove(key)
	}
	c.metrics.EntriesRemoved(c.name, len(keys))
	c.logger.Debug().Int("removed", len(keys)).Msg("clear")
}

// key returns the store key of node, or false when its type is not
// cacheable.
func (c *Cache) key(node any) (string, bool, error) {
	ok, err := c.configuration.Contains(reflect.TypeOf(node))
	if err != nil || !ok {
		return "", false, err
	}
	key, err := c.keys.CreateKey(node)
	if err != nil {
		return "", false, err
	}
	return key, true, nil
}

// current returns the stored version of node, or nil when node is not
// cacheable or not cached.
func (c *Cache) current(node any) (any, error) {
	key, ok, err := c.key(node)
	if err != nil || !ok {
		return nil, err
	}
	stored, found := c.store.Get(key)
	if !found {
		return nil, nil
	}
	if !sameReference(stored, node) {
		c.logger.Debug().Str("key", key).Msg("refresh reference")
	}
	return stored, nil
}

// rehydrate rewrites the references held by value against the store.
func (c *Cache) rehydrate(value any) error {
	return c.inspector.Rewrite(value, c.current)
}

func (c *Cache) remove(values []any) error {
	removed := 0
	defer func() { c.metrics.EntriesRemoved(c.name, removed) }()

	for _, value := range values {
		key, err := c.keys.CreateKey(value)
		if err != nil {
			return err
		}
		c.store.Remove(key)
		removed++
		c.logger.Debug().Str("key", key).Msg("remove entry")
	}
	return nil
}

func (c *Cache) removeGraphs(roots []any) error {
	removed := 0
	defer func() { c.metrics.EntriesRemoved(c.name, removed) }()

	return c.inspector.VisitAll(roots, func(node any) error {
		key, ok, err := c.key(node)
		if err != nil || !ok {
			return err
		}
		c.store.Remove(key)
		removed++
		c.logger.Debug().Str("key", key).Msg("remove graph entry")
		return nil
	})
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// sameReference reports whether a and b are the same pointer. Non-pointer
// values are never compared.
func sameReference(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != reflect.Pointer || vb.Kind() != reflect.Pointer {
		return false
	}
	return va.Type() == vb.Type() && va.Pointer() == vb.Pointer()
}
