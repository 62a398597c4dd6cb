package cache

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/goliatone/go-graph-cache/pkg/accessor"
)

// Configuration holds the explicit per-type key extractors of a cache and the
// optional fallback Convention. It answers whether a type is cacheable and
// how to extract its partial key. It is safe for concurrent use.
type Configuration struct {
	registry   *accessor.Registry
	convention Convention
	disabled   bool

	mu          sync.RWMutex
	configured  map[reflect.Type]KeyExtractor
	synthesized map[reflect.Type]KeyExtractor
	fits        map[reflect.Type]bool
}

// ConfigurationOption customizes a Configuration.
type ConfigurationOption func(*Configuration)

// WithConvention replaces the default convention.
func WithConvention(convention Convention) ConfigurationOption {
	return func(c *Configuration) {
		c.convention = convention
		c.disabled = false
	}
}

// WithoutConventions disables convention fallback: only types registered
// with ConfigureType are cacheable.
func WithoutConventions() ConfigurationOption {
	return func(c *Configuration) {
		c.disabled = true
	}
}

// NewConfiguration builds a configuration using the default convention
// unless an option says otherwise.
func NewConfiguration(registry *accessor.Registry, opts ...ConfigurationOption) (*Configuration, error) {
	if registry == nil {
		return nil, NullArgument("registry")
	}

	c := &Configuration{
		registry:    registry,
		convention:  DefaultConvention(registry),
		configured:  make(map[reflect.Type]KeyExtractor),
		synthesized: make(map[reflect.Type]KeyExtractor),
		fits:        make(map[reflect.Type]bool),
	}
	for _, opt := range opts {
		opt(c)
	}

	if !c.disabled {
		if c.convention == nil {
			return nil, NullArgument("convention")
		}
		c.convention = wrapConvention(c.convention)
	}

	return c, nil
}

// Registry returns the accessor registry the configuration compiles with.
func (c *Configuration) Registry() *accessor.Registry {
	return c.registry
}

// ConventionsEnabled reports whether convention fallback is active.
func (c *Configuration) ConventionsEnabled() bool {
	return !c.disabled
}

// ConfigureType registers an explicit extractor for t. It takes precedence
// over the convention for the lifetime of the configuration, including over
// an extractor the convention already produced.
func (c *Configuration) ConfigureType(t reflect.Type, extractor KeyExtractor) error {
	if t == nil {
		return NullArgument("type")
	}
	if extractor == nil {
		return NullArgument("extractor")
	}
	t = accessor.Base(t)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.configured[t] = extractor
	delete(c.synthesized, t)
	return nil
}

// Contains reports whether values of type t are cacheable. Only convention
// failures produce an error.
func (c *Configuration) Contains(t reflect.Type) (bool, error) {
	t = accessor.Base(t)
	if t == nil {
		return false, nil
	}

	c.mu.RLock()
	_, configured := c.configured[t]
	c.mu.RUnlock()

	if configured {
		return true, nil
	}
	if c.disabled {
		return false, nil
	}
	return c.fit(t)
}

// KeyExtractor returns the extractor for t. Explicit registrations win;
// otherwise the convention is asked and its extractor is memoized.
func (c *Configuration) KeyExtractor(t reflect.Type) (KeyExtractor, error) {
	if t == nil {
		return nil, NullArgument("type")
	}
	t = accessor.Base(t)

	c.mu.RLock()
	extractor, ok := c.configured[t]
	if !ok {
		extractor, ok = c.synthesized[t]
	}
	c.mu.RUnlock()

	if ok {
		return extractor, nil
	}
	if c.disabled {
		return nil, &TypeError{Kind: ErrTypeNotMapped, Type: t}
	}

	fits, err := c.fit(t)
	if err != nil {
		return nil, err
	}
	if !fits {
		return nil, &TypeError{Kind: ErrTypeNotFitInConvention, Type: t}
	}

	created, err := c.convention.CreateKeyExtractor(t)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.configured[t]; ok {
		return existing, nil
	}
	if existing, ok := c.synthesized[t]; ok {
		return existing, nil
	}
	c.synthesized[t] = created
	return created, nil
}

func (c *Configuration) fit(t reflect.Type) (bool, error) {
	c.mu.RLock()
	fits, ok := c.fits[t]
	c.mu.RUnlock()
	if ok {
		return fits, nil
	}

	fits, err := c.convention.FitInConvention(t)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	c.fits[t] = fits
	c.mu.Unlock()
	return fits, nil
}

// ConfigureType registers extractor for values of type T. Values stored as
// *T are dereferenced and values stored as T are addressed as needed, so a
// single registration covers both forms.
func ConfigureType[T any](cfg *Configuration, extractor func(T) (string, error)) error {
	if cfg == nil {
		return NullArgument("configuration")
	}
	if extractor == nil {
		return NullArgument("extractor")
	}

	target := reflect.TypeFor[T]()
	return cfg.ConfigureType(target, func(value any) (string, error) {
		v, ok := As[T](value)
		if !ok {
			return "", fmt.Errorf("value of type %T cannot be used as %s", value, target)
		}
		return extractor(v)
	})
}

// As converts value to T, dereferencing a *T or addressing a copy of a T
// when the stored form differs from the requested one.
func As[T any](value any) (T, bool) {
	if v, ok := value.(T); ok {
		return v, true
	}

	var zero T
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return zero, false
	}
	target := reflect.TypeFor[T]()

	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Type() == target {
		return rv.Elem().Interface().(T), true
	}
	if target.Kind() == reflect.Pointer && rv.Type() == target.Elem() {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		return p.Interface().(T), true
	}
	return zero, false
}
