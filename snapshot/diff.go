package snapshot

import (
	"fmt"
	"slices"
)

// ChangeKind classifies a single change in a Changeset.
type ChangeKind int

const (
	Insert ChangeKind = iota
	Delete
	Move
	Reload
)

func (k ChangeKind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Move:
		return "move"
	case Reload:
		return "reload"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// SectionChange describes a section-level change. From is -1 for inserts
// and To is -1 for deletes.
type SectionChange[S comparable] struct {
	Kind ChangeKind
	Key  S
	From int
	To   int
}

// ItemChange describes an item-level change. From refers to the old
// snapshot and To to the new one; only the side that exists is meaningful.
// Item holds the new value, except for deletes where it is the old value.
type ItemChange[I comparable] struct {
	Kind ChangeKind
	Item I
	From IndexPath
	To   IndexPath
}

// Changeset is the ordered list of changes that turns one snapshot into
// another. Deletes come first in descending order, then inserts and moves
// in ascending target order, then reloads.
type Changeset[S, I comparable] struct {
	Sections []SectionChange[S]
	Items    []ItemChange[I]
}

// IsEmpty reports whether applying the changeset would change nothing.
func (c Changeset[S, I]) IsEmpty() bool {
	return len(c.Sections) == 0 && len(c.Items) == 0
}

// Counts tallies changes by kind across sections and items.
type Counts struct {
	SectionInserts, SectionDeletes, SectionMoves int
	Inserts, Deletes, Moves, Reloads             int
}

// Counts summarises the changeset.
func (c Changeset[S, I]) Counts() Counts {
	var n Counts
	for _, ch := range c.Sections {
		switch ch.Kind {
		case Insert:
			n.SectionInserts++
		case Delete:
			n.SectionDeletes++
		case Move:
			n.SectionMoves++
		}
	}
	for _, ch := range c.Items {
		switch ch.Kind {
		case Insert:
			n.Inserts++
		case Delete:
			n.Deletes++
		case Move:
			n.Moves++
		case Reload:
			n.Reloads++
		}
	}
	return n
}

func (c Changeset[S, I]) String() string {
	n := c.Counts()
	return fmt.Sprintf("sections +%d -%d ~%d items +%d -%d ~%d !%d",
		n.SectionInserts, n.SectionDeletes, n.SectionMoves,
		n.Inserts, n.Deletes, n.Moves, n.Reloads)
}

// Diff computes the changes that transform old into next. Section keys and
// item identities are matched by equality; anything that survives but is not
// on the longest run of unchanged relative order is reported as a move, as is
// any item that changes section. Duplicate section keys or item identities
// are a caller error: later duplicates are ignored.
func Diff[S, I comparable](old, next Snapshot[S, I]) Changeset[S, I] {
	old = normalize(old)
	next = normalize(next)
	var cs Changeset[S, I]

	oldKeys := old.SectionKeys()
	newKeys := next.SectionKeys()
	oldSec := indexOf(oldKeys)
	newSec := indexOf(newKeys)

	for i := len(oldKeys) - 1; i >= 0; i-- {
		if _, ok := newSec[oldKeys[i]]; !ok {
			cs.Sections = append(cs.Sections, SectionChange[S]{Kind: Delete, Key: oldKeys[i], From: i, To: -1})
		}
	}
	var sectionInserts, sectionMoves []SectionChange[S]
	stableSections := longestStable(filterKeys(oldKeys, newSec), filterKeys(newKeys, oldSec))
	for j, key := range newKeys {
		i, existed := oldSec[key]
		switch {
		case !existed:
			sectionInserts = append(sectionInserts, SectionChange[S]{Kind: Insert, Key: key, From: -1, To: j})
		case !stableSections[key]:
			sectionMoves = append(sectionMoves, SectionChange[S]{Kind: Move, Key: key, From: i, To: j})
		}
	}
	cs.Sections = append(cs.Sections, sectionInserts...)
	cs.Sections = append(cs.Sections, sectionMoves...)

	oldItems := locate(old)
	newItems := locate(next)

	for si := len(old.Sections) - 1; si >= 0; si-- {
		items := old.Sections[si].Items
		for ii := len(items) - 1; ii >= 0; ii-- {
			if _, ok := newItems[Identity(items[ii])]; !ok {
				cs.Items = append(cs.Items, ItemChange[I]{Kind: Delete, Item: items[ii], From: Path(si, ii)})
			}
		}
	}

	var inserts, moves, reloads []ItemChange[I]
	for sj, sec := range next.Sections {
		// Survivors that stay inside this section, in old and new order.
		var oldSeq []any
		if si, ok := oldSec[sec.Key]; ok {
			for _, item := range old.Sections[si].Items {
				id := Identity(item)
				if loc, ok := newItems[id]; ok && loc.path.Section == sj {
					oldSeq = append(oldSeq, id)
				}
			}
		}
		var newSeq []any
		for _, item := range sec.Items {
			id := Identity(item)
			if loc, ok := oldItems[id]; ok && old.Sections[loc.path.Section].Key == sec.Key {
				newSeq = append(newSeq, id)
			}
		}
		stable := longestStable(oldSeq, newSeq)

		for ij, item := range sec.Items {
			id := Identity(item)
			to := Path(sj, ij)
			loc, existed := oldItems[id]
			switch {
			case !existed:
				inserts = append(inserts, ItemChange[I]{Kind: Insert, Item: item, To: to})
			case !stable[id]:
				moves = append(moves, ItemChange[I]{Kind: Move, Item: item, From: loc.path, To: to})
			case loc.item != item:
				reloads = append(reloads, ItemChange[I]{Kind: Reload, Item: item, From: loc.path, To: to})
			}
		}
	}
	cs.Items = append(cs.Items, inserts...)
	cs.Items = append(cs.Items, moves...)
	cs.Items = append(cs.Items, reloads...)
	return cs
}

// Apply rebuilds the target snapshot from old and a changeset produced by
// Diff against it. Positions that no longer fit are filled in order rather
// than rejected, so a stale changeset degrades instead of failing.
func Apply[S, I comparable](old Snapshot[S, I], cs Changeset[S, I]) Snapshot[S, I] {
	old = normalize(old)

	goneSections := make(map[int]bool)
	var sectionPlacements []placement[S]
	for _, ch := range cs.Sections {
		switch ch.Kind {
		case Delete, Move:
			goneSections[ch.From] = true
		}
		if ch.Kind == Insert || ch.Kind == Move {
			sectionPlacements = append(sectionPlacements, placement[S]{at: ch.To, v: ch.Key})
		}
	}
	var keptSections []S
	for i, sec := range old.Sections {
		if !goneSections[i] {
			keptSections = append(keptSections, sec.Key)
		}
	}
	keys := assemble(sectionPlacements, keptSections)

	goneItems := make(map[any]bool)
	reloaded := make(map[any]I)
	placed := make(map[int][]placement[I])
	for _, ch := range cs.Items {
		id := Identity(ch.Item)
		switch ch.Kind {
		case Delete:
			goneItems[id] = true
		case Move:
			goneItems[id] = true
			placed[ch.To.Section] = append(placed[ch.To.Section], placement[I]{at: ch.To.Item, v: ch.Item})
		case Insert:
			placed[ch.To.Section] = append(placed[ch.To.Section], placement[I]{at: ch.To.Item, v: ch.Item})
		case Reload:
			reloaded[id] = ch.Item
		}
	}

	kept := make(map[S][]I, len(old.Sections))
	for _, sec := range old.Sections {
		for _, item := range sec.Items {
			id := Identity(item)
			if goneItems[id] {
				continue
			}
			if fresh, ok := reloaded[id]; ok {
				item = fresh
			}
			kept[sec.Key] = append(kept[sec.Key], item)
		}
	}

	out := Snapshot[S, I]{Sections: make([]Section[S, I], len(keys))}
	for j, key := range keys {
		items := assemble(placed[j], kept[key])
		if items == nil {
			items = []I{}
		}
		out.Sections[j] = Section[S, I]{Key: key, Items: items}
	}
	return out
}

type placement[T any] struct {
	at int
	v  T
}

// assemble places explicit values at their positions and fills the gaps
// with rest, preserving rest's order.
func assemble[T any](explicit []placement[T], rest []T) []T {
	n := len(explicit) + len(rest)
	if n == 0 {
		return nil
	}
	out := make([]T, n)
	filled := make([]bool, n)
	var spill []T
	for _, p := range explicit {
		if p.at >= 0 && p.at < n && !filled[p.at] {
			out[p.at] = p.v
			filled[p.at] = true
			continue
		}
		spill = append(spill, p.v)
	}
	fill := append(slices.Clone(rest), spill...)
	next := 0
	for i := range out {
		if filled[i] {
			continue
		}
		out[i] = fill[next]
		next++
	}
	return out
}

type located[I comparable] struct {
	item I
	path IndexPath
}

func locate[S, I comparable](s Snapshot[S, I]) map[any]located[I] {
	out := make(map[any]located[I], s.ItemCount())
	for si, sec := range s.Sections {
		for ii, item := range sec.Items {
			out[Identity(item)] = located[I]{item: item, path: Path(si, ii)}
		}
	}
	return out
}

// normalize drops repeated section keys and repeated item identities,
// keeping the first occurrence of each.
func normalize[S, I comparable](s Snapshot[S, I]) Snapshot[S, I] {
	seenSections := make(map[S]bool, len(s.Sections))
	seenItems := make(map[any]bool, s.ItemCount())
	clean := true
scan:
	for _, sec := range s.Sections {
		if seenSections[sec.Key] {
			clean = false
			break
		}
		seenSections[sec.Key] = true
		for _, item := range sec.Items {
			id := Identity(item)
			if seenItems[id] {
				clean = false
				break scan
			}
			seenItems[id] = true
		}
	}
	if clean {
		return s
	}

	clear(seenSections)
	clear(seenItems)
	var out Snapshot[S, I]
	for _, sec := range s.Sections {
		if seenSections[sec.Key] {
			continue
		}
		seenSections[sec.Key] = true
		items := make([]I, 0, len(sec.Items))
		for _, item := range sec.Items {
			id := Identity(item)
			if seenItems[id] {
				continue
			}
			seenItems[id] = true
			items = append(items, item)
		}
		out.Sections = append(out.Sections, Section[S, I]{Key: sec.Key, Items: items})
	}
	return out
}

func indexOf[K comparable](keys []K) map[K]int {
	out := make(map[K]int, len(keys))
	for i, k := range keys {
		out[k] = i
	}
	return out
}

func filterKeys[K comparable](keys []K, keep map[K]int) []K {
	out := make([]K, 0, len(keys))
	for _, k := range keys {
		if _, ok := keep[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// longestStable returns the members of newSeq that lie on a longest common
// subsequence with oldSeq. Both sequences hold the same distinct values, so
// the LCS is the longest increasing run of old positions.
func longestStable[K comparable](oldSeq, newSeq []K) map[K]bool {
	stable := make(map[K]bool, len(newSeq))
	if len(newSeq) == 0 {
		return stable
	}
	oldPos := indexOf(oldSeq)
	seq := make([]int, 0, len(newSeq))
	vals := make([]K, 0, len(newSeq))
	for _, k := range newSeq {
		if p, ok := oldPos[k]; ok {
			seq = append(seq, p)
			vals = append(vals, k)
		}
	}
	if len(seq) == 0 {
		return stable
	}

	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = tails[lo-1]
		} else {
			prev[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}
	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		stable[vals[i]] = true
	}
	return stable
}
