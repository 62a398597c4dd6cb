package cache

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/goliatone/go-graph-cache/pkg/accessor"
)

// KeyExtractor returns the partial key of a value. It must be stable for as
// long as the value lives in the cache.
type KeyExtractor func(value any) (string, error)

// Convention decides whether a type can be keyed without explicit
// configuration and, if so, builds its key extractor.
//
// Errors and panics raised by a Convention never reach callers directly: the
// Configuration reports them as a *ConventionError.
type Convention interface {
	FitInConvention(t reflect.Type) (bool, error)
	CreateKeyExtractor(t reflect.Type) (KeyExtractor, error)
}

// FieldConvention keys struct types by the first field, in order of names,
// that the type exposes.
type FieldConvention struct {
	registry *accessor.Registry
	names    []string
}

// DefaultConvention keys types by their ID field, falling back to Id.
func DefaultConvention(registry *accessor.Registry) *FieldConvention {
	return NewFieldConvention(registry, "ID", "Id")
}

// NewFieldConvention builds a convention keyed by the named fields.
func NewFieldConvention(registry *accessor.Registry, names ...string) *FieldConvention {
	return &FieldConvention{registry: registry, names: names}
}

func (c *FieldConvention) FitInConvention(t reflect.Type) (bool, error) {
	_, ok := c.field(t)
	return ok, nil
}

func (c *FieldConvention) CreateKeyExtractor(t reflect.Type) (KeyExtractor, error) {
	name, ok := c.field(t)
	if !ok {
		return nil, &TypeError{Kind: ErrTypeNotFitInConvention, Type: accessor.Base(t)}
	}

	field, err := c.registry.GetOrCreate(t, name)
	if err != nil {
		return nil, err
	}

	return func(value any) (string, error) {
		v, err := field.Value(value)
		if err != nil {
			return "", err
		}
		return stringify(name, v)
	}, nil
}

func (c *FieldConvention) field(t reflect.Type) (string, bool) {
	t = accessor.Base(t)
	if t == nil || t.Kind() != reflect.Struct {
		return "", false
	}
	for _, name := range c.names {
		if c.registry.Has(t, name) {
			return name, true
		}
	}
	return "", false
}

// stringify renders a key field, following pointers. A nil key is an error.
func stringify(name string, v any) (string, error) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return "", fmt.Errorf("key field %s is nil", name)
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return "", fmt.Errorf("key field %s is nil", name)
	}
	return fmt.Sprint(rv.Interface()), nil
}

// conventionWrapper turns every error or panic of the wrapped convention
// into a *ConventionError.
type conventionWrapper struct {
	convention Convention
}

func wrapConvention(c Convention) Convention {
	if w, ok := c.(*conventionWrapper); ok {
		return w
	}
	return &conventionWrapper{convention: c}
}

func (w *conventionWrapper) FitInConvention(t reflect.Type) (fits bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			fits = false
			err = &ConventionError{Op: OpFitInConvention, Type: t, Err: &PanicError{Value: r}}
		}
	}()

	fits, err = w.convention.FitInConvention(t)
	if err != nil {
		return false, &ConventionError{Op: OpFitInConvention, Type: t, Err: err}
	}
	return fits, nil
}

func (w *conventionWrapper) CreateKeyExtractor(t reflect.Type) (extractor KeyExtractor, err error) {
	defer func() {
		if r := recover(); r != nil {
			extractor = nil
			err = &ConventionError{Op: OpCreateKeyExtractor, Type: t, Err: &PanicError{Value: r}}
		}
	}()

	extractor, err = w.convention.CreateKeyExtractor(t)
	if err != nil {
		return nil, &ConventionError{Op: OpCreateKeyExtractor, Type: t, Err: err}
	}
	if extractor == nil {
		return nil, &ConventionError{Op: OpCreateKeyExtractor, Type: t, Err: errors.New("convention returned a nil key extractor")}
	}
	return extractor, nil
}
