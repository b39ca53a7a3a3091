package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateNotifiesSubscribersInOrder(t *testing.T) {
	s := NewState(1)
	var got []string
	cancelA := s.Subscribe(func(v int) { got = append(got, "a") })
	s.Subscribe(func(v int) { got = append(got, "b") })

	s.Set(2)
	cancelA()
	s.Set(3)

	assert.Equal(t, []string{"a", "b", "b"}, got)
	assert.Equal(t, 3, s.Get())
}

func TestConstantDropsWrites(t *testing.T) {
	c := Constant("fixed")
	c.Set("other")
	assert.Equal(t, "fixed", c.Get())
}

func TestDerivedFoldsWritesIntoParent(t *testing.T) {
	var start *string
	parent := NewState(start)
	set := Derived(parent, singleToSet[string], setToSingle[string])

	var seen []int
	set.Subscribe(func(s Set[string]) { seen = append(seen, s.Len()) })

	set.Set(NewSet("a", "b"))
	if assert.NotNil(t, parent.Get()) {
		assert.Equal(t, "a", *parent.Get())
	}
	set.Set(Set[string]{})
	assert.Nil(t, parent.Get())
	assert.Equal(t, []int{1, 0}, seen)
}

func TestSetKeepsInsertionOrder(t *testing.T) {
	s := NewSet("b", "a", "b")
	assert.Equal(t, []string{"b", "a"}, s.Items())

	clone := s.Clone()
	clone.Remove("b")
	assert.True(t, s.Has("b"))
	assert.False(t, clone.Has("b"))
	assert.True(t, NewSet("a", "b").Equal(s))
	assert.False(t, clone.Equal(s))

	var empty Set[string]
	assert.Zero(t, empty.Len())
	assert.False(t, empty.Remove("x"))
	_, ok := empty.First()
	assert.False(t, ok)
}
