package collection

import (
	"github.com/atomicstack/collectionview/orderedmap"
	"github.com/atomicstack/collectionview/snapshot"
)

// Set is an insertion-ordered set of items keyed by diff identity, so an
// Identifiable item whose value changed is still the same member. The zero
// value is empty. Values read from a Binding share storage with the
// binding; Clone before mutating.
type Set[I comparable] struct {
	items *orderedmap.Map[any, I]
}

// NewSet returns a set holding items.
func NewSet[I comparable](items ...I) Set[I] {
	var s Set[I]
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts item. A member with the same identity keeps its position and
// takes the new value.
func (s *Set[I]) Add(item I) {
	if s.items == nil {
		s.items = orderedmap.New[any, I]()
	}
	s.items.Set(snapshot.Identity(item), item)
}

// Remove deletes the member with item's identity and reports whether it
// was present.
func (s *Set[I]) Remove(item I) bool {
	return s.items.Delete(snapshot.Identity(item))
}

func (s Set[I]) Has(item I) bool { return s.items.Has(snapshot.Identity(item)) }

func (s Set[I]) Len() int { return s.items.Len() }

// Items returns the members in insertion order.
func (s Set[I]) Items() []I {
	if s.Len() == 0 {
		return nil
	}
	out := make([]I, 0, s.Len())
	for _, item := range s.items.All() {
		out = append(out, item)
	}
	return out
}

// First returns the earliest inserted member.
func (s Set[I]) First() (I, bool) {
	var zero I
	id, ok := s.items.KeyAt(0)
	if !ok {
		return zero, false
	}
	return s.items.Get(id)
}

func (s Set[I]) Clone() Set[I] {
	if s.items == nil {
		return Set[I]{}
	}
	return Set[I]{items: s.items.Clone()}
}

// Equal reports whether both sets have members with the same identities,
// ignoring order.
func (s Set[I]) Equal(other Set[I]) bool {
	if s.Len() != other.Len() {
		return false
	}
	for id := range s.items.All() {
		if !other.items.Has(id) {
			return false
		}
	}
	return true
}
