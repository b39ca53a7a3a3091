package snapshot

import (
	"cmp"
	"fmt"
	"slices"
)

// IndexPath locates an item by section position and item position. It is
// derived from a snapshot at lookup time and never used as identity.
type IndexPath struct {
	Section int
	Item    int
}

// Path is shorthand for IndexPath{Section: section, Item: item}.
func Path(section, item int) IndexPath {
	return IndexPath{Section: section, Item: item}
}

func (p IndexPath) String() string {
	return fmt.Sprintf("%d.%d", p.Section, p.Item)
}

// Compare orders index paths by section, then item.
func (p IndexPath) Compare(other IndexPath) int {
	if c := cmp.Compare(p.Section, other.Section); c != 0 {
		return c
	}
	return cmp.Compare(p.Item, other.Item)
}

// SortPaths sorts paths in place in display order.
func SortPaths(paths []IndexPath) []IndexPath {
	slices.SortFunc(paths, IndexPath.Compare)
	return paths
}
