package cache

import (
	"fmt"
	"os"
	"time"

	"github.com/goliatone/go-graph-cache/internal/cacheinfra"
	"gopkg.in/yaml.v3"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	// Name labels the cache in logs and metrics. Empty means a generated name.
	Name string `yaml:"name"`

	// ConventionsEnabled turns on the ID/Id field convention for types
	// without an explicit key extractor.
	ConventionsEnabled bool `yaml:"conventions_enabled"`

	Capacity           int           `yaml:"capacity"`
	NumShards          int           `yaml:"num_shards"`
	TTL                time.Duration `yaml:"ttl"`
	EvictionPercentage int           `yaml:"eviction_percentage"`
	EvictionInterval   time.Duration `yaml:"eviction_interval"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	cfg := convertFromInternal(cacheinfra.DefaultConfig())
	cfg.ConventionsEnabled = true
	return cfg
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewStore constructs the default sturdyc backed store using the provided configuration.
func NewStore(cfg Config) (Store, error) {
	store, err := cacheinfra.NewSturdycStore(cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewStoreWithClock is NewStore with a custom time source for entry
// expiration.
func NewStoreWithClock(cfg Config, now func() time.Time) (Store, error) {
	store, err := cacheinfra.NewSturdycStoreWithClock(cfg.toInternal(), now)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
// Durations use Go duration syntax, e.g. "90s" or "24h".
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse cache config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read cache config %s: %w", path, err)
	}
	return ParseConfig(data)
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
