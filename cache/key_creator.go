package cache

import (
	"reflect"

	"github.com/goliatone/go-graph-cache/pkg/accessor"
)

// KeySeparator joins the full type name and the partial key of an entity.
const KeySeparator = " = "

// KeyCreator builds the full keys under which entities are stored.
type KeyCreator struct {
	configuration *Configuration
}

// NewKeyCreator returns a KeyCreator resolving extractors through cfg.
func NewKeyCreator(cfg *Configuration) (*KeyCreator, error) {
	if cfg == nil {
		return nil, NullArgument("configuration")
	}
	return &KeyCreator{configuration: cfg}, nil
}

// CreateKey returns "<full type name> = <partial key>" for value.
//
// Errors choosing the extractor are returned as is. Errors or panics raised
// by the extractor itself are reported as a *KeyExtractorError.
func (k *KeyCreator) CreateKey(value any) (string, error) {
	if value == nil {
		return "", NullArgument("value")
	}

	t := accessor.Base(reflect.TypeOf(value))
	extractor, err := k.configuration.KeyExtractor(t)
	if err != nil {
		return "", err
	}

	partial, err := extract(extractor, value)
	if err != nil {
		return "", &KeyExtractorError{Type: t, Err: err}
	}

	return TypeName(t) + KeySeparator + partial, nil
}

func extract(extractor KeyExtractor, value any) (partial string, err error) {
	defer func() {
		if r := recover(); r != nil {
			partial = ""
			err = &PanicError{Value: r}
		}
	}()
	return extractor(value)
}

// TypeName returns the full name of t: import path plus type name for named
// types, the type literal otherwise. Pointer types share their element name.
func TypeName(t reflect.Type) string {
	t = accessor.Base(t)
	if t == nil {
		return "<nil>"
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
