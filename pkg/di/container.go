package di

import (
	"time"

	"github.com/goliatone/go-graph-cache/cache"
	"github.com/goliatone/go-graph-cache/graphcache"
	"github.com/goliatone/go-graph-cache/pkg/accessor"
)

// Container wires the components of a graph cache from a single Config.
// It owns one accessor registry and one key configuration, and every cache
// it creates shares them.
type Container struct {
	registry      *accessor.Registry
	configuration *cache.Configuration
	store         cache.Store
	cache         *graphcache.Cache
	config        cache.Config
	opts          []graphcache.Option
}

// NewContainer validates config, builds the sturdyc store and the key
// configuration, and creates the main cache. Options are applied to every
// cache the container creates. The store reads time from the main cache, so
// a WithClock option drives both.
func NewContainer(config cache.Config, opts ...graphcache.Option) (*Container, error) {
	var primary *graphcache.Cache
	// the store checks expirations against the clock the cache computes them with
	store, err := cache.NewStoreWithClock(config, func() time.Time { return primary.Now() })
	if err != nil {
		return nil, err
	}

	registry := accessor.NewRegistry()

	var configOpts []cache.ConfigurationOption
	if !config.ConventionsEnabled {
		configOpts = append(configOpts, cache.WithoutConventions())
	}
	configuration, err := cache.NewConfiguration(registry, configOpts...)
	if err != nil {
		return nil, err
	}

	c := &Container{
		registry:      registry,
		configuration: configuration,
		store:         store,
		config:        config,
		opts:          append([]graphcache.Option{graphcache.WithName(config.Name)}, opts...),
	}

	primary, err = graphcache.New(configuration, store, c.opts...)
	if err != nil {
		return nil, err
	}
	c.cache = primary

	return c, nil
}

// NewContainerWithDefaults creates a container from cache.DefaultConfig.
func NewContainerWithDefaults(opts ...graphcache.Option) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), opts...)
}

// Cache returns the main cache.
func (c *Container) Cache() *graphcache.Cache {
	return c.cache
}

// Store returns the store backing the main cache.
func (c *Container) Store() cache.Store {
	return c.store
}

// Configuration returns the key configuration shared by every cache of the
// container.
func (c *Container) Configuration() *cache.Configuration {
	return c.configuration
}

// Registry returns the shared accessor registry.
func (c *Container) Registry() *accessor.Registry {
	return c.registry
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// NewCache creates an additional cache over store, sharing the registry and
// key configuration. opts are applied after the container options, so a
// WithName here overrides the configured name.
func (c *Container) NewCache(store cache.Store, opts ...graphcache.Option) (*graphcache.Cache, error) {
	all := make([]graphcache.Option, 0, len(c.opts)+len(opts))
	all = append(all, c.opts...)
	all = append(all, opts...)
	return graphcache.New(c.configuration, store, all...)
}
