package cacheinfra

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/viccon/sturdyc"
)

// lockStripes is the number of mutexes guarding insert-if-absent.
const lockStripes = 64

// Config holds the configuration for the sturdyc backed store.
// It encapsulates the core sturdyc options needed for cache initialization.
type Config struct {
	// Capacity defines the maximum number of entries that the store can hold.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of sturdyc shards for concurrent access.
	// Must be greater than 0. Default: 256
	NumShards int

	// TTL is the longest an entry may live in the store. Entries carry their
	// own absolute expiration, which must not lie further than TTL ahead.
	// Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the store reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often sturdyc sweeps expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                24 * time.Hour,
		EvictionPercentage: 10,
		EvictionInterval:   0, // Use default
	}
}

// ToSturdycOptions converts the Config to sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly
// to sturdyc.New() and are not included in the options.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
// The first invalid field, in name order, is reported as a *ConfigError.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Capacity,
			validation.Required.Error("must be greater than 0"),
			validation.Min(1).Error("must be greater than 0")),
		validation.Field(&c.NumShards,
			validation.Required.Error("must be greater than 0"),
			validation.Min(1).Error("must be greater than 0")),
		validation.Field(&c.TTL,
			validation.Required.Error("must be greater than 0"),
			validation.Min(time.Duration(1)).Error("must be greater than 0")),
		validation.Field(&c.EvictionPercentage,
			validation.Required.Error("must be between 1 and 100"),
			validation.Min(1).Error("must be between 1 and 100"),
			validation.Max(100).Error("must be between 1 and 100")),
		validation.Field(&c.EvictionInterval,
			validation.Min(time.Duration(0)).Error("must be non-negative")),
	)
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return &ConfigError{Field: fields[0], Message: fieldErrs[fields[0]].Error()}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// entry is the envelope stored in sturdyc so every value keeps its own
// absolute expiration.
type entry struct {
	value     any
	expiresAt time.Time
}

// sturdycStore wraps a sturdyc client and exposes an expiring key-value store.
type sturdycStore struct {
	client *sturdyc.Client[entry]
	locks  [lockStripes]sync.Mutex
	now    func() time.Time
	maxTTL time.Duration
}

// NewSturdycStore creates a new sturdyc backed store.
// It validates the configuration and initializes a sturdyc client with the provided settings.
//
// Version compatibility note: This implementation assumes sturdyc v1.x API.
func NewSturdycStore(cfg Config) (*sturdycStore, error) {
	return NewSturdycStoreWithClock(cfg, time.Now)
}

// NewSturdycStoreWithClock is NewSturdycStore with a custom time source for
// entry expiration.
func NewSturdycStoreWithClock(cfg Config, now func() time.Time) (*sturdycStore, error) {
	if now == nil {
		now = time.Now
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[entry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &sturdycStore{client: client, now: now, maxTTL: cfg.TTL}, nil
}

// Add stores value under key unless a live entry already exists.
// The check and the insert happen under the key's stripe lock, so concurrent
// Add calls for one key agree on a single winner. It reports whether value
// was stored.
func (s *sturdycStore) Add(key string, value any, expiresAt time.Time) bool {
	mu := s.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	if e, ok := s.client.Get(key); ok && s.live(e) {
		return false
	}

	s.client.Set(key, entry{value: value, expiresAt: expiresAt})
	return true
}

// Get returns the live value stored under key.
func (s *sturdycStore) Get(key string) (any, bool) {
	e, ok := s.client.Get(key)
	if !ok {
		return nil, false
	}
	if !s.live(e) {
		s.expire(key)
		return nil, false
	}
	return e.value, true
}

// Contains reports whether a live entry exists under key.
func (s *sturdycStore) Contains(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Remove deletes the entry stored under key, if any.
func (s *sturdycStore) Remove(key string) {
	s.client.Delete(key)
}

// Keys returns the keys of every live entry, sorted.
func (s *sturdycStore) Keys() []string {
	var keys []string
	s.Range(func(key string, _ any) bool {
		keys = append(keys, key)
		return true
	})
	sort.Strings(keys)
	return keys
}

// Range calls fn for every live entry until fn returns false.
// Entries added or removed while ranging may or may not be observed.
func (s *sturdycStore) Range(fn func(key string, value any) bool) {
	for _, key := range s.client.ScanKeys() {
		value, ok := s.Get(key)
		if !ok {
			continue
		}
		if !fn(key, value) {
			return
		}
	}
}

// MaxTTL returns the configured store TTL.
func (s *sturdycStore) MaxTTL() time.Duration {
	return s.maxTTL
}

// Len returns the number of live entries.
func (s *sturdycStore) Len() int {
	n := 0
	s.Range(func(string, any) bool {
		n++
		return true
	})
	return n
}

func (s *sturdycStore) live(e entry) bool {
	return s.now().Before(e.expiresAt)
}

// expire drops key if it still holds an expired envelope. The re-check under
// the stripe lock keeps a concurrent Add from being deleted.
func (s *sturdycStore) expire(key string) {
	mu := s.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	if e, ok := s.client.Get(key); ok && !s.live(e) {
		s.client.Delete(key)
	}
}

func (s *sturdycStore) lockFor(key string) *sync.Mutex {
	return &s.locks[xxhash.Sum64String(key)%lockStripes]
}
