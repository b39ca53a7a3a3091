package collection

import "github.com/atomicstack/collectionview/orderedmap"

// Binding is a read/write port onto state owned elsewhere. Subscribers are
// told about every Set.
type Binding[T any] interface {
	Get() T
	Set(T)
	Subscribe(fn func(T)) (cancel func())
}

// State is a Binding that owns its value.
type State[T any] struct {
	value T
	subs  *orderedmap.Map[int, func(T)]
	next  int
}

// NewState returns a binding holding v.
func NewState[T any](v T) *State[T] {
	return &State[T]{value: v, subs: orderedmap.New[int, func(T)]()}
}

func (s *State[T]) Get() T { return s.value }

// Set stores v and notifies subscribers in subscription order.
func (s *State[T]) Set(v T) {
	s.value = v
	fns := make([]func(T), 0, s.subs.Len())
	for _, fn := range s.subs.All() {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn(v)
	}
}

func (s *State[T]) Subscribe(fn func(T)) func() {
	id := s.next
	s.next++
	s.subs.Set(id, fn)
	return func() { s.subs.Delete(id) }
}

type constant[T any] struct{ value T }

// Constant returns a binding that always reads v and drops writes.
func Constant[T any](v T) Binding[T] { return constant[T]{value: v} }

func (c constant[T]) Get() T                   { return c.value }
func (c constant[T]) Set(T)                    {}
func (c constant[T]) Subscribe(func(T)) func() { return func() {} }

type derived[P, T any] struct {
	parent Binding[P]
	get    func(P) T
	set    func(P, T) P
}

// Derived projects parent through get. Writes are folded back with set,
// which receives the current parent value.
func Derived[P, T any](parent Binding[P], get func(P) T, set func(P, T) P) Binding[T] {
	return derived[P, T]{parent: parent, get: get, set: set}
}

func (d derived[P, T]) Get() T { return d.get(d.parent.Get()) }

func (d derived[P, T]) Set(v T) { d.parent.Set(d.set(d.parent.Get(), v)) }

func (d derived[P, T]) Subscribe(fn func(T)) func() {
	return d.parent.Subscribe(func(p P) { fn(d.get(p)) })
}
