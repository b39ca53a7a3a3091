// Package snapshot models point-in-time section/item listings and computes
// the ordered changes needed to move a view from one listing to the next.
package snapshot

import "slices"

// Identifiable lets an item carry an identity separate from its value. Two
// items with the same DiffID but different values are the same cell with
// changed content, which the diff reports as a reload. DiffID must return a
// comparable value; it is used as a map key and a slice or map panics.
type Identifiable interface {
	DiffID() any
}

// Identity returns the diff identity of item.
func Identity[I comparable](item I) any {
	if id, ok := any(item).(Identifiable); ok {
		return id.DiffID()
	}
	return item
}

// Section is one titled group of items inside a snapshot.
type Section[S, I comparable] struct {
	Key   S
	Items []I
}

// Snapshot is an ordered, fully specified listing of sections and items.
type Snapshot[S, I comparable] struct {
	Sections []Section[S, I]
}

// FromMap builds a snapshot from the current contents of m.
func FromMap[S, I comparable](m *SectionMap[S, I]) Snapshot[S, I] {
	var s Snapshot[S, I]
	if m == nil {
		return s
	}
	s.Sections = make([]Section[S, I], 0, m.Len())
	for key, items := range m.All() {
		s.Sections = append(s.Sections, Section[S, I]{Key: key, Items: slices.Clone(items)})
	}
	return s
}

// NumberOfSections returns the section count.
func (s Snapshot[S, I]) NumberOfSections() int {
	return len(s.Sections)
}

// NumberOfItems returns the item count of section, or 0 when out of range.
func (s Snapshot[S, I]) NumberOfItems(section int) int {
	if section < 0 || section >= len(s.Sections) {
		return 0
	}
	return len(s.Sections[section].Items)
}

// ItemCount returns the total number of items.
func (s Snapshot[S, I]) ItemCount() int {
	n := 0
	for _, sec := range s.Sections {
		n += len(sec.Items)
	}
	return n
}

// IsEmpty reports whether the snapshot holds no items. Sections without
// items do not count.
func (s Snapshot[S, I]) IsEmpty() bool {
	return s.ItemCount() == 0
}

// SectionKeys returns the section keys in order.
func (s Snapshot[S, I]) SectionKeys() []S {
	keys := make([]S, len(s.Sections))
	for i, sec := range s.Sections {
		keys[i] = sec.Key
	}
	return keys
}

// ItemAt resolves path softly.
func (s Snapshot[S, I]) ItemAt(path IndexPath) (I, bool) {
	var zero I
	if path.Section < 0 || path.Section >= len(s.Sections) {
		return zero, false
	}
	items := s.Sections[path.Section].Items
	if path.Item < 0 || path.Item >= len(items) {
		return zero, false
	}
	return items[path.Item], true
}

// SectionKeyAt returns the key of the section at position.
func (s Snapshot[S, I]) SectionKeyAt(position int) (S, bool) {
	var zero S
	if position < 0 || position >= len(s.Sections) {
		return zero, false
	}
	return s.Sections[position].Key, true
}

// IndexPath returns the first location of item by identity.
func (s Snapshot[S, I]) IndexPath(item I) (IndexPath, bool) {
	id := Identity(item)
	for si, sec := range s.Sections {
		for ii, candidate := range sec.Items {
			if Identity(candidate) == id {
				return Path(si, ii), true
			}
		}
	}
	return IndexPath{}, false
}

// Locator indexes the snapshot once so repeated identity lookups stay cheap.
type Locator map[any]IndexPath

// Locator builds an identity index. Later duplicates are ignored.
func (s Snapshot[S, I]) Locator() Locator {
	loc := make(Locator, s.ItemCount())
	for si, sec := range s.Sections {
		for ii, item := range sec.Items {
			id := Identity(item)
			if _, seen := loc[id]; seen {
				continue
			}
			loc[id] = Path(si, ii)
		}
	}
	return loc
}

// Equal reports whether both snapshots list the same sections and items in
// the same order.
func (s Snapshot[S, I]) Equal(other Snapshot[S, I]) bool {
	if len(s.Sections) != len(other.Sections) {
		return false
	}
	for i := range s.Sections {
		if s.Sections[i].Key != other.Sections[i].Key {
			return false
		}
		if !slices.Equal(s.Sections[i].Items, other.Sections[i].Items) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the section/item slices.
func (s Snapshot[S, I]) Clone() Snapshot[S, I] {
	out := Snapshot[S, I]{Sections: make([]Section[S, I], len(s.Sections))}
	for i, sec := range s.Sections {
		out.Sections[i] = Section[S, I]{Key: sec.Key, Items: slices.Clone(sec.Items)}
	}
	return out
}
