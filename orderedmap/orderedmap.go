// Package orderedmap provides a map that iterates in insertion order.
package orderedmap

import (
	"iter"
	"slices"
)

// Map maintains insertion order for deterministic iteration. The zero value
// and a nil *Map both behave as an empty map for reads.
type Map[K comparable, V any] struct {
	m     map[K]V
	order []K
}

// New returns an empty map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

// Set stores value under key. A key that already exists keeps its position.
func (m *Map[K, V]) Set(key K, value V) {
	if m.m == nil {
		m.m = make(map[K]V)
	}
	if _, exists := m.m[key]; !exists {
		m.order = append(m.order, key)
	}
	m.m[key] = value
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if m == nil || m.m == nil {
		var zero V
		return zero, false
	}
	v, ok := m.m[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key, preserving the relative order of the remaining keys.
func (m *Map[K, V]) Delete(key K) bool {
	if m == nil || m.m == nil {
		return false
	}
	if _, ok := m.m[key]; !ok {
		return false
	}
	delete(m.m, key)
	if idx := slices.Index(m.order, key); idx >= 0 {
		m.order = slices.Delete(m.order, idx, idx+1)
	}
	return true
}

// Len returns the number of keys.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	return slices.Clone(m.order)
}

// KeyAt returns the key at the given insertion position.
func (m *Map[K, V]) KeyAt(index int) (K, bool) {
	if m == nil || index < 0 || index >= len(m.order) {
		var zero K
		return zero, false
	}
	return m.order[index], true
}

// IndexOf returns the insertion position of key, or -1.
func (m *Map[K, V]) IndexOf(key K) int {
	if m == nil {
		return -1
	}
	return slices.Index(m.order, key)
}

// All iterates key/value pairs in insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for _, k := range m.order {
			if !yield(k, m.m[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy. Values are copied by assignment.
func (m *Map[K, V]) Clone() *Map[K, V] {
	out := New[K, V]()
	if m == nil {
		return out
	}
	for _, k := range m.order {
		out.Set(k, m.m[k])
	}
	return out
}
