package snapshot

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(pairs ...any) Snapshot[string, string] {
	var s Snapshot[string, string]
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Sections = append(s.Sections, Section[string, string]{
			Key:   pairs[i].(string),
			Items: pairs[i+1].([]string),
		})
	}
	return s
}

func TestDiffIdenticalSnapshotsIsEmpty(t *testing.T) {
	s := snap("A", []string{"x", "y"}, "B", []string{"z"})
	cs := Diff(s, s)
	require.True(t, cs.IsEmpty(), "expected no changes, got %s", cs)
}

func TestDiffFirstAttachInsertsEverything(t *testing.T) {
	next := snap("A", []string{"x", "y"}, "B", []string{"z"})
	cs := Diff(Snapshot[string, string]{}, next)
	n := cs.Counts()
	assert.Equal(t, 2, n.SectionInserts)
	assert.Equal(t, 3, n.Inserts)
	assert.Zero(t, n.Deletes+n.Moves+n.Reloads)
	assert.True(t, Apply(Snapshot[string, string]{}, cs).Equal(next))
}

func TestDiffRemovedItem(t *testing.T) {
	old := snap("A", []string{"x", "y"}, "B", []string{"z"})
	next := snap("A", []string{"x"}, "B", []string{"z"})
	cs := Diff(old, next)
	require.Len(t, cs.Items, 1)
	assert.Equal(t, Delete, cs.Items[0].Kind)
	assert.Equal(t, "y", cs.Items[0].Item)
	assert.Equal(t, Path(0, 1), cs.Items[0].From)
	assert.Empty(t, cs.Sections)
}

func TestDiffSwapProducesSingleMove(t *testing.T) {
	old := snap("A", []string{"a", "b", "c", "d"})
	next := snap("A", []string{"a", "c", "d", "b"})
	cs := Diff(old, next)
	require.Len(t, cs.Items, 1)
	assert.Equal(t, Move, cs.Items[0].Kind)
	assert.Equal(t, "b", cs.Items[0].Item)
	assert.Equal(t, Path(0, 1), cs.Items[0].From)
	assert.Equal(t, Path(0, 3), cs.Items[0].To)
	assert.True(t, Apply(old, cs).Equal(next))
}

func TestDiffCrossSectionMove(t *testing.T) {
	old := snap("A", []string{"x", "y"}, "B", []string{"z"})
	next := snap("A", []string{"x"}, "B", []string{"y", "z"})
	cs := Diff(old, next)
	require.Len(t, cs.Items, 1)
	assert.Equal(t, Move, cs.Items[0].Kind)
	assert.Equal(t, Path(0, 1), cs.Items[0].From)
	assert.Equal(t, Path(1, 0), cs.Items[0].To)
	assert.True(t, Apply(old, cs).Equal(next))
}

func TestDiffSectionReorder(t *testing.T) {
	old := snap("A", []string{"a"}, "B", []string{"b"}, "C", []string{"c"})
	next := snap("C", []string{"c"}, "A", []string{"a"}, "B", []string{"b"})
	cs := Diff(old, next)
	require.Len(t, cs.Sections, 1)
	assert.Equal(t, Move, cs.Sections[0].Kind)
	assert.Equal(t, "C", cs.Sections[0].Key)
	assert.Empty(t, cs.Items, "items in a moved section travel with it")
	assert.True(t, Apply(old, cs).Equal(next))
}

func TestDiffDeletedSectionWithRelocatedItem(t *testing.T) {
	old := snap("A", []string{"a1", "a2"}, "B", []string{"b1"})
	next := snap("B", []string{"b1", "a2"})
	cs := Diff(old, next)
	n := cs.Counts()
	assert.Equal(t, 1, n.SectionDeletes)
	assert.Equal(t, 1, n.Deletes)
	assert.Equal(t, 1, n.Moves)
	assert.True(t, Apply(old, cs).Equal(next))
}

func TestDiffDuplicatesAreIgnored(t *testing.T) {
	old := snap("A", []string{"x"})
	next := snap("A", []string{"x", "y", "x"}, "A", []string{"q"})
	cs := Diff(old, next)
	got := Apply(old, cs)
	assert.True(t, got.Equal(snap("A", []string{"x", "y"})), "got %+v", got)
}

type record struct {
	id    string
	title string
}

func (r record) DiffID() any { return r.id }

func TestDiffReloadsIdentifiableItems(t *testing.T) {
	old := Snapshot[string, record]{Sections: []Section[string, record]{
		{Key: "s", Items: []record{{"1", "one"}, {"2", "two"}}},
	}}
	next := Snapshot[string, record]{Sections: []Section[string, record]{
		{Key: "s", Items: []record{{"1", "one"}, {"2", "TWO"}}},
	}}
	cs := Diff(old, next)
	require.Len(t, cs.Items, 1)
	assert.Equal(t, Reload, cs.Items[0].Kind)
	assert.Equal(t, "TWO", cs.Items[0].Item.title)
	assert.True(t, Apply(old, cs).Equal(next))
}

func TestApplyThenDiffIsIdempotent(t *testing.T) {
	old := snap("A", []string{"x", "y"}, "B", []string{"z"})
	next := snap("B", []string{"z", "w"}, "C", []string{"x"})
	applied := Apply(old, Diff(old, next))
	require.True(t, applied.Equal(next))
	assert.True(t, Diff(applied, next).IsEmpty(), "second apply must produce no changes")
}

func TestDiffRandomisedRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	for round := 0; round < 300; round++ {
		old := randomSnapshot(rng)
		next := randomSnapshot(rng)
		cs := Diff(old, next)
		got := Apply(old, cs)
		if !got.Equal(next) {
			t.Fatalf("round %d: apply mismatch\nold:  %+v\nnext: %+v\ngot:  %+v\ncs:   %+v", round, old, next, got, cs)
		}
		if !Diff(got, next).IsEmpty() {
			t.Fatalf("round %d: expected empty diff after apply", round)
		}
	}
}

// randomSnapshot draws a duplicate-free snapshot from a small key space so
// consecutive draws overlap heavily.
func randomSnapshot(rng *rand.Rand) Snapshot[string, string] {
	sectionKeys := rng.Perm(5)
	items := rng.Perm(12)
	var s Snapshot[string, string]
	n := rng.IntN(len(sectionKeys) + 1)
	next := 0
	for i := 0; i < n; i++ {
		sec := Section[string, string]{Key: fmt.Sprintf("s%d", sectionKeys[i]), Items: []string{}}
		count := rng.IntN(5)
		for j := 0; j < count && next < len(items); j++ {
			sec.Items = append(sec.Items, fmt.Sprintf("i%d", items[next]))
			next++
		}
		s.Sections = append(s.Sections, sec)
	}
	return s
}
