package accessor

import (
	"fmt"
	"reflect"
)

// Getter reads a property from an owner instance.
type Getter func(owner any) (any, error)

// Setter writes a property on an owner instance.
type Setter func(owner any, value any) error

// Key identifies a property by its declaring type and name.
// Declaring types are always stored pointer-stripped, so *T and T share keys.
type Key struct {
	Type reflect.Type
	Name string
}

// String renders the key as "<type>.<name>".
func (k Key) String() string {
	if k.Type == nil {
		return "<nil>." + k.Name
	}
	return k.Type.String() + "." + k.Name
}

// Accessor is a compiled getter/setter pair for a single property.
// Accessors are immutable once created and safe to share between goroutines.
type Accessor struct {
	key       Key
	fieldType reflect.Type
	index     []int
	getter    Getter
	setter    Setter
}

// Key returns the (declaring type, name) pair the accessor was built for.
func (a *Accessor) Key() Key { return a.key }

// Name returns the property name.
func (a *Accessor) Name() string { return a.key.Name }

// Type returns the declared type of the property. It is nil for explicitly
// registered accessors that do not map to a struct field.
func (a *Accessor) Type() reflect.Type { return a.fieldType }

// Field returns the property value of owner as a reflect.Value. For
// reflection-compiled accessors the returned value is addressable whenever
// owner is a pointer or an addressable struct, so callers can assign to it.
func (a *Accessor) Field(owner reflect.Value) (reflect.Value, error) {
	if a.getter != nil {
		v, err := a.getter(owner.Interface())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil
	}

	s, err := a.owner(owner)
	if err != nil {
		return reflect.Value{}, err
	}

	field, err := s.FieldByIndexErr(a.index)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("accessor %s: %w", a.key, err)
	}
	return field, nil
}

// Value reads the property from owner.
func (a *Accessor) Value(owner any) (any, error) {
	if owner == nil {
		return nil, &NilOwnerError{Key: a.key}
	}
	if a.getter != nil {
		return a.getter(owner)
	}

	field, err := a.Field(reflect.ValueOf(owner))
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// SetValue writes value into the property of owner. Reflection-compiled
// accessors need a pointer owner; writing through a struct copy is rejected.
func (a *Accessor) SetValue(owner any, value any) error {
	if owner == nil {
		return &NilOwnerError{Key: a.key}
	}
	if a.setter != nil {
		return a.setter(owner, value)
	}
	if a.getter != nil {
		return &NotSettableError{Key: a.key}
	}

	field, err := a.Field(reflect.ValueOf(owner))
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return &NotSettableError{Key: a.key}
	}

	src := reflect.ValueOf(value)
	if !src.IsValid() {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	if !src.Type().AssignableTo(field.Type()) {
		return fmt.Errorf("accessor %s: cannot assign %s to %s", a.key, src.Type(), field.Type())
	}
	field.Set(src)
	return nil
}

func (a *Accessor) owner(v reflect.Value) (reflect.Value, error) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, &NilOwnerError{Key: a.key}
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, &NilOwnerError{Key: a.key}
	}
	if v.Type() != a.key.Type {
		return reflect.Value{}, fmt.Errorf("accessor %s: owner has type %s", a.key, v.Type())
	}
	return v, nil
}
