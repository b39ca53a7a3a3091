package snapshot

import "github.com/atomicstack/collectionview/orderedmap"

// SectionMap is the ordered section/item model: section keys in insertion
// order, each mapped to its ordered items.
type SectionMap[S comparable, I any] = orderedmap.Map[S, []I]

// NewSectionMap returns an empty section map.
func NewSectionMap[S comparable, I any]() *SectionMap[S, I] {
	return orderedmap.New[S, []I]()
}

// Get returns the items stored under section.
func Get[S comparable, I any](m *SectionMap[S, I], section S) ([]I, bool) {
	return m.Get(section)
}

// KeyAt returns the section key at position.
func KeyAt[S comparable, I any](m *SectionMap[S, I], position int) (S, bool) {
	return m.KeyAt(position)
}

// ItemAt resolves an index path against m. Out-of-range paths, negative
// positions and empty maps all yield ok == false; index paths are often
// computed speculatively while content is changing.
func ItemAt[S comparable, I any](m *SectionMap[S, I], path IndexPath) (I, bool) {
	var zero I
	key, ok := m.KeyAt(path.Section)
	if !ok {
		return zero, false
	}
	items, ok := m.Get(key)
	if !ok || path.Item < 0 || path.Item >= len(items) {
		return zero, false
	}
	return items[path.Item], true
}
