package value

import (
	"reflect"
	"slices"
)

// Set is an insertion-ordered collection of distinct elements. Uniqueness is
// decided with == for comparable elements and reflect.DeepEqual otherwise.
type Set struct {
	items []any
	seen  map[any]struct{}
}

// NewSet returns a set holding the distinct elements of items, in first-seen
// order.
func NewSet(items ...any) *Set {
	s := &Set{items: make([]any, 0, len(items)), seen: make(map[any]struct{}, len(items))}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts v and reports whether it was not already present.
func (s *Set) Add(v any) bool {
	if s.Has(v) {
		return false
	}
	if s.seen == nil {
		s.seen = map[any]struct{}{}
	}
	if isComparable(v) {
		s.seen[v] = struct{}{}
	}
	s.items = append(s.items, v)
	return true
}

// Has reports whether v is an element of s.
func (s *Set) Has(v any) bool {
	if s == nil {
		return false
	}
	if isComparable(v) {
		_, ok := s.seen[v]
		return ok
	}
	return slices.ContainsFunc(s.items, func(it any) bool { return reflect.DeepEqual(it, v) })
}

// Len returns the number of elements.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns a copy of the elements in insertion order.
func (s *Set) Items() []any {
	if s == nil {
		return nil
	}
	return slices.Clone(s.items)
}

func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}
