// Package inspector walks object graphs through reflection.
//
// A graph is made of nodes (pointers to structs and struct values) joined by
// exported fields, possibly through slices, arrays, maps and interfaces.
// Sequences are transparent: their elements are walked, the sequence itself
// is never reported. Every node and sequence is entered at most once per
// walk, keyed by its identity, so cyclic graphs terminate.
package inspector

import (
	"reflect"

	"github.com/goliatone/go-graph-cache/cache"
	"github.com/goliatone/go-graph-cache/pkg/accessor"
)

// Inspector walks graphs using the fields cached in an accessor registry.
type Inspector struct {
	registry *accessor.Registry
}

// New returns an Inspector reading fields through registry.
func New(registry *accessor.Registry) *Inspector {
	return &Inspector{registry: registry}
}

// VisitFunc is called once for every node reached by Visit.
type VisitFunc func(node any) error

// RewriteFunc is called for every node held by a field or sequence slot
// during Rewrite. A non-nil result replaces the node in that slot.
type RewriteFunc func(node any) (any, error)

// identity distinguishes graph vertices. Pointers and addressable values
// use their address, slices add their length so sub-slices stay distinct.
type identity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// Visit reports every node reachable from root in depth-first pre-order.
// When root is a sequence its elements are the starting points. The walk
// stops at the first error returned by fn.
func (i *Inspector) Visit(root any, fn VisitFunc) error {
	return i.VisitAll([]any{root}, fn)
}

// VisitAll visits each root in turn, sharing one visited set, so a node
// reachable from several roots is reported once.
func (i *Inspector) VisitAll(roots []any, fn VisitFunc) error {
	if fn == nil {
		return cache.NullArgument("fn")
	}
	w := &visitor{walker: i.newWalker(), fn: fn}
	for _, root := range roots {
		if root == nil {
			return cache.NullArgument("root")
		}
		if err := w.visit(reflect.ValueOf(root)); err != nil {
			return err
		}
	}
	return nil
}

// Rewrite walks the graph below root and offers every node found in a field
// or sequence slot to fn. When fn returns a value that fits the slot the
// slot is overwritten and the walk continues from the new value; otherwise
// it continues from the value already there. Root, and the elements of a root
// sequence, are walked but never offered to fn.
func (i *Inspector) Rewrite(root any, fn RewriteFunc) error {
	if root == nil {
		return cache.NullArgument("root")
	}
	if fn == nil {
		return cache.NullArgument("fn")
	}

	w := &rewriter{walker: i.newWalker(), fn: fn}
	v := unwrap(reflect.ValueOf(root))
	switch {
	case !v.IsValid():
		return nil
	case isSequence(v):
		return w.rootSequence(v)
	case isNode(v):
		return w.node(v)
	default:
		return nil
	}
}

type walker struct {
	registry *accessor.Registry
	seen     map[identity]struct{}
}

func (i *Inspector) newWalker() walker {
	return walker{registry: i.registry, seen: make(map[identity]struct{})}
}

// enter marks v as visited and reports whether it was new. Values without
// an identity, such as struct copies, are always new.
func (w *walker) enter(v reflect.Value) bool {
	id, ok := identify(v)
	if !ok {
		return true
	}
	if _, done := w.seen[id]; done {
		return false
	}
	w.seen[id] = struct{}{}
	return true
}

// fields returns the walkable field values of node.
func (w *walker) fields(node reflect.Value) []reflect.Value {
	s := node
	if s.Kind() == reflect.Pointer {
		s = s.Elem()
	}
	accessors := w.registry.Fields(s.Type())
	values := make([]reflect.Value, 0, len(accessors))
	for _, a := range accessors {
		f, err := a.Field(s)
		if err != nil {
			// promoted through a nil embedded pointer
			continue
		}
		values = append(values, f)
	}
	return values
}

type visitor struct {
	walker
	fn VisitFunc
}

func (w *visitor) visit(v reflect.Value) error {
	v = unwrap(v)
	switch {
	case !v.IsValid():
		return nil
	case isSequence(v):
		if !carriesNodes(v.Type()) || !w.enter(v) {
			return nil
		}
		return eachElement(v, w.visit)
	case isNode(v):
		if !w.enter(v) {
			return nil
		}
		if err := w.fn(nodeValue(v)); err != nil {
			return err
		}
		for _, f := range w.fields(v) {
			if err := w.visit(f); err != nil {
				return err
			}
		}
	}
	return nil
}

type rewriter struct {
	walker
	fn RewriteFunc
}

// rootSequence walks the elements of a root sequence without offering them.
func (w *rewriter) rootSequence(seq reflect.Value) error {
	if !carriesNodes(seq.Type()) || !w.enter(seq) {
		return nil
	}
	return eachElement(seq, func(elem reflect.Value) error {
		elem = unwrap(elem)
		switch {
		case !elem.IsValid():
			return nil
		case isSequence(elem):
			return w.rootSequence(elem)
		case isNode(elem):
			return w.node(elem)
		}
		return nil
	})
}

// node descends into the fields of node if it was not visited yet.
func (w *rewriter) node(node reflect.Value) error {
	if !w.enter(node) {
		return nil
	}
	for _, f := range w.fields(node) {
		if err := w.slot(f, setSlot(f)); err != nil {
			return err
		}
	}
	return nil
}

// sequence offers every element of seq, writing replacements in place.
func (w *rewriter) sequence(seq reflect.Value) error {
	if !carriesNodes(seq.Type()) || !w.enter(seq) {
		return nil
	}
	if seq.Kind() == reflect.Map {
		for _, key := range seq.MapKeys() {
			if err := w.slot(seq.MapIndex(key), setMapIndex(seq, key)); err != nil {
				return err
			}
		}
		return nil
	}
	for i := 0; i < seq.Len(); i++ {
		elem := seq.Index(i)
		if err := w.slot(elem, setSlot(elem)); err != nil {
			return err
		}
	}
	return nil
}

// setter tries to store replacement in a slot and returns the value to walk
// next.
type setter func(replacement reflect.Value) (reflect.Value, bool)

// setSlot writes into slot only when the replacement differs from what the
// slot holds, so rewriting an up to date graph never writes.
func setSlot(slot reflect.Value) setter {
	return func(r reflect.Value) (reflect.Value, bool) {
		if !slot.CanSet() {
			return reflect.Value{}, false
		}
		r, ok := fit(r, slot)
		if !ok {
			return reflect.Value{}, false
		}
		if !holds(slot, r) {
			slot.Set(r)
		}
		return slot, true
	}
}

func setMapIndex(m, key reflect.Value) setter {
	return func(r reflect.Value) (reflect.Value, bool) {
		current := m.MapIndex(key)
		r, ok := fit(r, current)
		if !ok {
			return reflect.Value{}, false
		}
		if !holds(current, r) {
			m.SetMapIndex(key, r)
		}
		return r, true
	}
}

// fit converts r so it can be stored where current is. A *T is dereferenced
// into a T slot, and into an interface slot that holds a T value, so the
// slot keeps its dynamic form.
func fit(r reflect.Value, current reflect.Value) (reflect.Value, bool) {
	t := current.Type()
	if t.Kind() == reflect.Interface && !current.IsNil() && current.Elem().Kind() == reflect.Struct {
		if r.Kind() == reflect.Pointer && !r.IsNil() && r.Elem().Type() == current.Elem().Type() {
			return r.Elem(), true
		}
	}
	if r.Type().AssignableTo(t) {
		return r, true
	}
	if r.Kind() == reflect.Pointer && !r.IsNil() && r.Elem().Type().AssignableTo(t) {
		return r.Elem(), true
	}
	return reflect.Value{}, false
}

// holds reports whether current already holds r: the same pointer, the
// addressable struct r points at, or an equal comparable value.
func holds(current, r reflect.Value) bool {
	for current.Kind() == reflect.Interface && !current.IsNil() {
		current = current.Elem()
	}
	for r.Kind() == reflect.Interface && !r.IsNil() {
		r = r.Elem()
	}
	switch {
	case current.Kind() == reflect.Pointer && r.Kind() == reflect.Pointer:
		return current.Type() == r.Type() && current.Pointer() == r.Pointer()
	case current.Kind() == reflect.Struct && r.Kind() == reflect.Pointer:
		return current.CanAddr() && r.Type() == reflect.PointerTo(current.Type()) &&
			current.Addr().Pointer() == r.Pointer()
	case current.Kind() == reflect.Struct && r.Kind() == reflect.Struct:
		if current.Type() != r.Type() {
			return false
		}
		if current.CanAddr() && r.CanAddr() && current.Addr().Pointer() == r.Addr().Pointer() {
			return true
		}
		return current.Comparable() && current.Equal(r)
	}
	return false
}

func (w *rewriter) slot(current reflect.Value, set setter) error {
	v := unwrap(current)
	switch {
	case !v.IsValid():
		return nil
	case isSequence(v):
		return w.sequence(v)
	case !isNode(v):
		return nil
	}

	replacement, err := w.fn(nodeValue(v))
	if err != nil {
		return err
	}
	if replacement != nil {
		if next, ok := set(reflect.ValueOf(replacement)); ok {
			if next = unwrap(next); next.IsValid() && isNode(next) {
				return w.node(next)
			}
			return nil
		}
	}
	return w.node(v)
}

// unwrap follows interfaces and pointers until it reaches a node, a
// sequence or a scalar. It returns the zero Value for nil.
func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() {
		switch v.Kind() {
		case reflect.Interface:
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		case reflect.Pointer:
			if v.IsNil() {
				return reflect.Value{}
			}
			if v.Elem().Kind() == reflect.Struct {
				return v
			}
			v = v.Elem()
		default:
			return v
		}
	}
	return v
}

func isNode(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Struct:
		return true
	case reflect.Pointer:
		return v.Elem().Kind() == reflect.Struct
	}
	return false
}

func isSequence(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

func carriesNodes(t reflect.Type) bool {
	return accessor.WalkableType(t.Elem())
}

// nodeValue returns what callers see for a node: the pointer for pointers
// and addressable structs, a copy for other struct values.
func nodeValue(v reflect.Value) any {
	if v.Kind() == reflect.Struct && v.CanAddr() {
		return v.Addr().Interface()
	}
	return v.Interface()
}

func identify(v reflect.Value) (identity, bool) {
	switch v.Kind() {
	case reflect.Pointer:
		return identity{typ: v.Type(), ptr: v.Pointer()}, true
	case reflect.Map:
		if v.IsNil() {
			return identity{}, false
		}
		return identity{typ: v.Type(), ptr: v.Pointer()}, true
	case reflect.Slice:
		if v.IsNil() {
			return identity{}, false
		}
		return identity{typ: v.Type(), ptr: v.Pointer(), len: v.Len()}, true
	case reflect.Struct, reflect.Array:
		if !v.CanAddr() {
			return identity{}, false
		}
		return identity{typ: reflect.PointerTo(v.Type()), ptr: v.Addr().Pointer()}, true
	}
	return identity{}, false
}

func eachElement(seq reflect.Value, fn func(reflect.Value) error) error {
	if seq.Kind() == reflect.Map {
		iter := seq.MapRange()
		for iter.Next() {
			if err := fn(iter.Value()); err != nil {
				return err
			}
		}
		return nil
	}
	for i := 0; i < seq.Len(); i++ {
		if err := fn(seq.Index(i)); err != nil {
			return err
		}
	}
	return nil
}
