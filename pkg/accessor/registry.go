// Package accessor caches compiled property accessors keyed by declaring type
// and property name.
//
// Looking a field up by name through reflection walks the struct type every
// time. The Registry resolves each (type, name) pair once into an index path
// and hands the same Accessor out on every later request. It also caches, per
// type, the list of fields a graph walk has to descend into.
//
// A Registry is meant to be built once at start-up and shared by every cache
// in the process:
//
//	registry := accessor.NewRegistry()
//	id, err := registry.GetOrCreate(reflect.TypeOf(User{}), "ID")
//	value, err := id.Value(&user)
//
// Types that want to avoid reflection on the key path can register explicit
// getter/setter pairs with Register.
package accessor

import (
	"errors"
	"reflect"

	"github.com/puzpuzpuz/xsync/v3"
)

// SkipTag is the struct tag that excludes a field from graph walks:
//
//	Secret *Blob `graphcache:"-"`
const SkipTag = "graphcache"

// Registry is a concurrent get-or-create store of accessors.
type Registry struct {
	accessors *xsync.MapOf[Key, *Accessor]
	fields    *xsync.MapOf[reflect.Type, []*Accessor]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		accessors: xsync.NewMapOf[Key, *Accessor](),
		fields:    xsync.NewMapOf[reflect.Type, []*Accessor](),
	}
}

// GetOrCreate returns the accessor for the named property of t, compiling and
// caching it on first use. Concurrent callers may each compile the accessor;
// only the first insert is kept and every caller receives that one.
func (r *Registry) GetOrCreate(t reflect.Type, name string) (*Accessor, error) {
	t = Base(t)
	key := Key{Type: t, Name: name}

	if a, ok := r.accessors.Load(key); ok {
		return a, nil
	}

	a, err := compile(key)
	if err != nil {
		return nil, err
	}

	actual, _ := r.accessors.LoadOrStore(key, a)
	return actual, nil
}

// Has reports whether t exposes the named property, either through a cached
// or registered accessor or through an exported struct field.
func (r *Registry) Has(t reflect.Type, name string) bool {
	t = Base(t)
	if t == nil {
		return false
	}
	if _, ok := r.accessors.Load(Key{Type: t, Name: name}); ok {
		return true
	}
	_, ok := exportedField(t, name)
	return ok
}

// Register installs an explicit getter/setter pair for (t, name), replacing
// any accessor compiled earlier. setter may be nil for read-only properties.
func (r *Registry) Register(t reflect.Type, name string, getter Getter, setter Setter) error {
	t = Base(t)
	if t == nil || name == "" {
		return errors.New("accessor: register requires a type and a property name")
	}
	if getter == nil {
		return errors.New("accessor: register requires a getter")
	}

	key := Key{Type: t, Name: name}
	a := &Accessor{key: key, getter: getter, setter: setter}
	if f, ok := exportedField(t, name); ok {
		a.fieldType = f.Type
	}

	r.accessors.Store(key, a)
	return nil
}

// Fields returns the walkable fields of t in declaration order. Fields of
// embedded structs are part of t: they are listed in place of the embedded
// field, which is never returned itself. The result is computed once per
// type; callers must not modify the returned slice.
func (r *Registry) Fields(t reflect.Type) []*Accessor {
	t = Base(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	if fields, ok := r.fields.Load(t); ok {
		return fields
	}

	fields := r.collect(t, t, nil, map[reflect.Type]bool{t: true}, nil)

	actual, _ := r.fields.LoadOrStore(t, fields)
	return actual
}

// collect appends the walkable fields of s, reached from owner through the
// index path prefix, flattening embedded structs.
func (r *Registry) collect(owner, s reflect.Type, prefix []int, embedding map[reflect.Type]bool, fields []*Accessor) []*Accessor {
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if f.Tag.Get(SkipTag) == "-" {
			continue
		}
		index := append(append([]int(nil), prefix...), f.Index...)

		if embedded := Base(f.Type); f.Anonymous && embedded.Kind() == reflect.Struct {
			if embedding[embedded] {
				continue
			}
			embedding[embedded] = true
			fields = r.collect(owner, embedded, index, embedding, fields)
			delete(embedding, embedded)
			continue
		}

		if !Walkable(f) {
			continue
		}
		if len(prefix) == 0 {
			// walks need an index path, explicit registrations do not have one
			if a, err := r.GetOrCreate(owner, f.Name); err == nil && a.getter == nil {
				fields = append(fields, a)
				continue
			}
		}
		fields = append(fields, &Accessor{key: Key{Type: owner, Name: f.Name}, fieldType: f.Type, index: index})
	}
	return fields
}

// Len returns the number of cached accessors.
func (r *Registry) Len() int {
	return r.accessors.Size()
}

// Walkable reports whether a struct field can hold references worth walking:
// it must be exported, not tagged `graphcache:"-"`, and its declared type must
// not be a scalar, a string, or a container of those.
func Walkable(f reflect.StructField) bool {
	if !f.IsExported() {
		return false
	}
	if f.Tag.Get(SkipTag) == "-" {
		return false
	}
	return WalkableType(f.Type)
}

// Base strips pointer indirections from t.
func Base(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// Scalar reports whether values of kind k never carry object references.
func Scalar(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// WalkableType reports whether values of t may hold struct references.
func WalkableType(t reflect.Type) bool {
	// element chains are followed until a type repeats, so self-referencing
	// container types like `type Tree []Tree` terminate
	seen := map[reflect.Type]bool{}
	for !seen[t] {
		seen[t] = true
		switch t.Kind() {
		case reflect.Interface, reflect.Struct:
			return true
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
			t = t.Elem()
		default:
			return false
		}
	}
	return false
}

func compile(key Key) (*Accessor, error) {
	if key.Type == nil {
		return nil, &PropertyNotFoundError{Type: key.Type, Name: key.Name}
	}
	f, ok := exportedField(key.Type, key.Name)
	if !ok {
		return nil, &PropertyNotFoundError{Type: key.Type, Name: key.Name}
	}
	return &Accessor{key: key, fieldType: f.Type, index: f.Index}, nil
}

func exportedField(t reflect.Type, name string) (reflect.StructField, bool) {
	if t.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	f, ok := t.FieldByName(name)
	if !ok || !f.IsExported() {
		return reflect.StructField{}, false
	}
	return f, true
}
