package value

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   any
	Value any
}

// Map is an insertion-ordered map with arbitrary comparable keys.
type Map struct {
	entries []Entry
	index   map[any]int
}

// NewMap builds a Map from entries. A repeated key keeps its first position and
// takes the last value. Non-comparable keys panic.
func NewMap(entries ...Entry) *Map {
	m := &Map{entries: make([]Entry, 0, len(entries)), index: make(map[any]int, len(entries))}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Set stores v under k.
func (m *Map) Set(k, v any) {
	if !isComparable(k) {
		panic(errors.AssertionFailedf("value.Map: key of type %T is not comparable", k))
	}
	if m.index == nil {
		m.index = map[any]int{}
	}
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = v
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: k, Value: v})
}

// Get returns the value stored under k.
func (m *Map) Get(k any) (any, bool) {
	if m == nil || !isComparable(k) {
		return nil, false
	}
	i, ok := m.index[k]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns a copy of the entries in insertion order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	return slices.Clone(m.entries)
}
