package dsl

import (
	skema "github.com/reoring/skema"
	"github.com/reoring/skema/internal/engine"
	js "github.com/reoring/skema/jsonschema"
	"github.com/reoring/skema/value"
)

// ArraySchema validates sequences. Every element is validated with the element
// schema; element issues are reported at their index.
type ArraySchema[E any] struct {
	base[[]E]
	size bounds
}

// Array returns an array schema with the given element schema. Output is []E.
func Array[E any](elem skema.Schema[E]) *ArraySchema[E] {
	n := &engine.Node{
		Kind: engine.KindArray,
		Elem: nodeOf(elem),
		Assemble: func(items []any) any {
			out := make([]E, len(items))
			for i, it := range items {
				out[i] = cast[E](it)
			}
			return out
		},
	}
	return &ArraySchema[E]{base: base[[]E]{n}}
}

func (a *ArraySchema[E]) with(n *engine.Node) *ArraySchema[E] {
	return &ArraySchema[E]{base: base[[]E]{n}, size: a.size}
}

// Min requires at least n elements.
func (a *ArraySchema[E]) Min(n int, msg ...string) *ArraySchema[E] {
	out := a.with(a.n.WithCheck(minSize("array", n, value.Len, msg, func(sc *js.Schema) { sc.MinItems = js.Int(n) })))
	out.size = a.size.withLo(float64(n))
	return out
}

// Max allows at most n elements.
func (a *ArraySchema[E]) Max(n int, msg ...string) *ArraySchema[E] {
	out := a.with(a.n.WithCheck(maxSize("array", n, value.Len, msg, func(sc *js.Schema) { sc.MaxItems = js.Int(n) })))
	out.size = a.size.withHi(float64(n))
	return out
}

// Length requires exactly n elements.
func (a *ArraySchema[E]) Length(n int, msg ...string) *ArraySchema[E] {
	nn := a.n
	for _, c := range exactSize("array", n, value.Len, msg, func(sc *js.Schema) { sc.MinItems, sc.MaxItems = js.Int(n), js.Int(n) }) {
		nn = nn.WithCheck(c)
	}
	out := a.with(nn)
	out.size = a.size.withLo(float64(n)).withHi(float64(n))
	return out
}

// NonEmpty is Min(1).
func (a *ArraySchema[E]) NonEmpty(msg ...string) *ArraySchema[E] { return a.Min(1, msg...) }

// Refine adds a predicate over the validated slice, reported as a custom
// issue. It runs only when every element is valid.
func (a *ArraySchema[E]) Refine(fn func([]E) bool, msg ...string) *ArraySchema[E] {
	return a.with(a.n.WithEffect(refineEffect(fn, msg)))
}

// Optional accepts absent and nil input.
func (a *ArraySchema[E]) Optional() *ArraySchema[E] { return a.with(optional(a.n)) }

// SetSchema validates sets: *value.Set or Go maps with struct{} values. Output
// is map[E]struct{}, so elements that coerce to the same value collapse.
type SetSchema[E comparable] struct {
	base[map[E]struct{}]
	size bounds
}

// Set returns a set schema with the given element schema. Element issues are
// reported at the element's position in iteration order.
func Set[E comparable](elem skema.Schema[E]) *SetSchema[E] {
	n := &engine.Node{
		Kind: engine.KindSet,
		Elem: nodeOf(elem),
		Assemble: func(items []any) any {
			out := make(map[E]struct{}, len(items))
			for _, it := range items {
				out[cast[E](it)] = struct{}{}
			}
			return out
		},
	}
	return &SetSchema[E]{base: base[map[E]struct{}]{n}}
}

func (s *SetSchema[E]) with(n *engine.Node) *SetSchema[E] {
	return &SetSchema[E]{base: base[map[E]struct{}]{n}, size: s.size}
}

// Min requires at least n elements.
func (s *SetSchema[E]) Min(n int, msg ...string) *SetSchema[E] {
	out := s.with(s.n.WithSizeCheck(minSize("set", n, count, msg, func(sc *js.Schema) { sc.MinItems = js.Int(n) })))
	out.size = s.size.withLo(float64(n))
	return out
}

// Max allows at most n elements.
func (s *SetSchema[E]) Max(n int, msg ...string) *SetSchema[E] {
	out := s.with(s.n.WithSizeCheck(maxSize("set", n, count, msg, func(sc *js.Schema) { sc.MaxItems = js.Int(n) })))
	out.size = s.size.withHi(float64(n))
	return out
}

// Size requires exactly n elements.
func (s *SetSchema[E]) Size(n int, msg ...string) *SetSchema[E] {
	nn := s.n
	for _, c := range exactSize("set", n, count, msg, func(sc *js.Schema) { sc.MinItems, sc.MaxItems = js.Int(n), js.Int(n) }) {
		nn = nn.WithSizeCheck(c)
	}
	out := s.with(nn)
	out.size = s.size.withLo(float64(n)).withHi(float64(n))
	return out
}

// NonEmpty is Min(1).
func (s *SetSchema[E]) NonEmpty(msg ...string) *SetSchema[E] { return s.Min(1, msg...) }

// Refine adds a predicate over the validated set, reported as a custom issue.
func (s *SetSchema[E]) Refine(fn func(map[E]struct{}) bool, msg ...string) *SetSchema[E] {
	return s.with(s.n.WithEffect(refineEffect(fn, msg)))
}

// Optional accepts absent and nil input.
func (s *SetSchema[E]) Optional() *SetSchema[E] { return s.with(optional(s.n)) }

// MapSchema validates keyed collections: *value.Map or any Go map. Key and
// value issues are both reported under the entry's key; key issues carry
// Params["entry"] == "key".
type MapSchema[K comparable, V any] struct {
	base[map[K]V]
	size bounds
}

// Map returns a map schema. Output is map[K]V.
func Map[K comparable, V any](key skema.Schema[K], val skema.Schema[V]) *MapSchema[K, V] {
	n := &engine.Node{
		Kind: engine.KindMap,
		Key:  nodeOf(key),
		Elem: nodeOf(val),
		AssembleMap: func(keys, vals []any) any {
			out := make(map[K]V, len(keys))
			for i := range keys {
				out[cast[K](keys[i])] = cast[V](vals[i])
			}
			return out
		},
	}
	return &MapSchema[K, V]{base: base[map[K]V]{n}}
}

func (m *MapSchema[K, V]) with(n *engine.Node) *MapSchema[K, V] {
	return &MapSchema[K, V]{base: base[map[K]V]{n}, size: m.size}
}

// Min requires at least n entries.
func (m *MapSchema[K, V]) Min(n int, msg ...string) *MapSchema[K, V] {
	out := m.with(m.n.WithSizeCheck(minSize("map", n, count, msg, func(sc *js.Schema) { sc.MinProperties = js.Int(n) })))
	out.size = m.size.withLo(float64(n))
	return out
}

// Max allows at most n entries.
func (m *MapSchema[K, V]) Max(n int, msg ...string) *MapSchema[K, V] {
	out := m.with(m.n.WithSizeCheck(maxSize("map", n, count, msg, func(sc *js.Schema) { sc.MaxProperties = js.Int(n) })))
	out.size = m.size.withHi(float64(n))
	return out
}

// Size requires exactly n entries.
func (m *MapSchema[K, V]) Size(n int, msg ...string) *MapSchema[K, V] {
	nn := m.n
	for _, c := range exactSize("map", n, count, msg, func(sc *js.Schema) { sc.MinProperties, sc.MaxProperties = js.Int(n), js.Int(n) }) {
		nn = nn.WithSizeCheck(c)
	}
	out := m.with(nn)
	out.size = m.size.withLo(float64(n)).withHi(float64(n))
	return out
}

// Refine adds a predicate over the validated map, reported as a custom issue.
func (m *MapSchema[K, V]) Refine(fn func(map[K]V) bool, msg ...string) *MapSchema[K, V] {
	return m.with(m.n.WithEffect(refineEffect(fn, msg)))
}

// Optional accepts absent and nil input.
func (m *MapSchema[K, V]) Optional() *MapSchema[K, V] { return m.with(optional(m.n)) }

// Record is Map with string keys.
func Record[V any](val skema.Schema[V]) *MapSchema[string, V] {
	return Map[string, V](String(), val)
}
