package accessor

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrPropertyNotFound is matched by errors returned when a type has no
	// exported field with the requested name.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrNilOwner is matched when an accessor is evaluated against a nil owner.
	ErrNilOwner = errors.New("nil owner")

	// ErrNotSettable is matched when a property cannot be written.
	ErrNotSettable = errors.New("property not settable")
)

// PropertyNotFoundError reports a missing property on a declaring type.
type PropertyNotFoundError struct {
	Type reflect.Type
	Name string
}

func (e *PropertyNotFoundError) Error() string {
	return fmt.Sprintf("property %s not found in the type %s", e.Name, typeName(e.Type))
}

func (e *PropertyNotFoundError) Is(target error) bool {
	return target == ErrPropertyNotFound
}

// NilOwnerError reports an accessor evaluated against nil.
type NilOwnerError struct {
	Key Key
}

func (e *NilOwnerError) Error() string {
	return "accessor " + e.Key.String() + ": nil owner"
}

func (e *NilOwnerError) Is(target error) bool {
	return target == ErrNilOwner
}

// NotSettableError reports a write through an accessor that cannot set.
type NotSettableError struct {
	Key Key
}

func (e *NotSettableError) Error() string {
	return "accessor " + e.Key.String() + ": property is not settable"
}

func (e *NotSettableError) Is(target error) bool {
	return target == ErrNotSettable
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
