/*
Package conlist implements a doubly linked list with iterators that stay valid under removal.

An iterator pins the node it points to. Removing that node unlinks it from the list
but keeps it allocated until the last iterator holding it is closed, so the iterator
can still read its value and step to the neighbouring live elements.
*/
package conlist

import (
	"iter"
	"sync"

	"github.com/mgnsk/conlist/internal/arena"
	"github.com/puzpuzpuz/xsync/v2"
	"go.uber.org/zap"
)

// List is a doubly linked list with stable iterators.
type List[T comparable] struct {
	nodes   *arena.Arena[T]
	mu      sync.Locker
	logger  *zap.Logger
	deleted *xsync.Counter
	len     int
}

// New creates an empty list.
func New[T comparable](opts ...Option) *List[T] {
	o := newDefaultListOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}

	l := &List[T]{
		nodes:   arena.New[T](o.capacity),
		mu:      o.locker(),
		logger:  o.logger,
		deleted: xsync.NewCounter(),
	}
	l.nodes.OnFree = l.onFree

	return l
}

// FromSlice creates a list holding values in order.
func FromSlice[T comparable](values []T, opts ...Option) *List[T] {
	l := New[T](append([]Option{WithCapacity(len(values))}, opts...)...)

	for _, v := range values {
		l.pushBackLocked(v)
	}

	return l
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.len
}

// Empty reports whether the list has no elements.
func (l *List[T]) Empty() bool {
	return l.Len() == 0
}

// Deleted returns the number of nodes deallocated so far.
// A removed node is deallocated once no iterator holds it.
func (l *List[T]) Deleted() uint64 {
	return uint64(l.deleted.Value())
}

// PushFront inserts a value at the front of the list.
func (l *List[T]) PushFront(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nodes.LinkAfter(arena.Sentinel, l.nodes.Alloc(v).Index())
	l.len++
}

// PushBack inserts a value at the back of the list.
func (l *List[T]) PushBack(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pushBackLocked(v)
}

// PopFront removes the first element. It is a no-op on an empty list.
func (l *List[T]) PopFront() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.removeLocked(l.firstLocked())
}

// PopBack removes the last element. It is a no-op on an empty list.
func (l *List[T]) PopBack() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.removeLocked(l.lastLocked())
}

// Front returns the first element.
func (l *List[T]) Front() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.len == 0 {
		var zero T
		return zero, ErrEmptyList
	}

	return l.nodes.Node(l.firstLocked()).Value, nil
}

// Back returns the last element.
func (l *List[T]) Back() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.len == 0 {
		var zero T
		return zero, ErrEmptyList
	}

	return l.nodes.Node(l.lastLocked()).Value, nil
}

// Begin returns an iterator at the first element, or at the end if the list is empty.
func (l *List[T]) Begin() *Iterator[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.newIteratorLocked(l.firstLocked())
}

// End returns an iterator at the end position.
func (l *List[T]) End() *Iterator[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.newIteratorLocked(arena.Sentinel)
}

// Erase removes the element the iterator points to.
// Erasing an element which has already been removed is a no-op.
func (l *List[T]) Erase(it *Iterator[T]) error {
	if it == nil {
		return ErrInvalidIterator
	}

	if it.list != l {
		return ErrForeignIterator
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if it.closed {
		return ErrIteratorClosed
	}

	index := l.nodes.Resolve(it.ref)
	if index == arena.Sentinel {
		return ErrInvalidIterator
	}

	l.removeLocked(index)

	return nil
}

// EraseValue removes the first element equal to v and reports whether it was found.
func (l *List[T]) EraseValue(v T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	index := l.findLocked(v)
	if index == arena.Sentinel {
		return false
	}

	l.removeLocked(index)

	return true
}

// Find returns an iterator at the first element equal to v, or at the end if there is none.
func (l *List[T]) Find(v T) *Iterator[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.newIteratorLocked(l.findLocked(v))
}

// Contains reports whether the list has an element equal to v.
func (l *List[T]) Contains(v T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.findLocked(v) != arena.Sentinel
}

// ToSlice returns the elements of the list in order.
func (l *List[T]) ToSlice() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	values := make([]T, 0, l.len)
	for i := l.firstLocked(); i != arena.Sentinel; {
		n := l.nodes.Node(i)
		values = append(values, n.Value)
		i = n.Next()
	}

	return values
}

// Clear removes all elements from the list.
// Removed elements still held by iterators stay allocated until the iterators are closed.
func (l *List[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := l.firstLocked(); i != arena.Sentinel; {
		next := l.nodes.Node(i).Next()
		l.removeLocked(i)
		i = next
	}
}

// ShrinkToFit releases unused node storage.
func (l *List[T]) ShrinkToFit() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nodes.Shrink()
}

// All returns an iterator over the elements from front to back.
// The loop body may modify the list.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := l.Begin()
		defer it.Close()

		for {
			v, err := it.Value()
			if err != nil {
				return
			}

			if !yield(v) {
				return
			}

			if err := it.Next(); err != nil {
				return
			}
		}
	}
}

// Backward returns an iterator over the elements from back to front.
// The loop body may modify the list.
func (l *List[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := l.End()
		defer it.Close()

		for it.Prev() == nil {
			v, err := it.Value()
			if err != nil {
				return
			}

			if !yield(v) {
				return
			}
		}
	}
}

func (l *List[T]) firstLocked() uint32 {
	return l.nodes.Node(arena.Sentinel).Next()
}

func (l *List[T]) lastLocked() uint32 {
	return l.nodes.Node(arena.Sentinel).Prev()
}

func (l *List[T]) pushBackLocked(v T) {
	l.nodes.LinkAfter(l.lastLocked(), l.nodes.Alloc(v).Index())
	l.len++
}

func (l *List[T]) findLocked(v T) uint32 {
	for i := l.firstLocked(); i != arena.Sentinel; {
		n := l.nodes.Node(i)
		if n.Value == v {
			return i
		}
		i = n.Next()
	}

	return arena.Sentinel
}

func (l *List[T]) removeLocked(index uint32) {
	removed, retained := l.nodes.Tombstone(index)
	if !removed {
		return
	}

	l.len--

	if retained {
		if ce := l.logger.Check(zap.DebugLevel, "removed node retained by iterator"); ce != nil {
			ce.Write(
				zap.Uint32("slot", index),
				zap.Int("refs", l.nodes.Node(index).Refs()),
			)
		}
	}
}

func (l *List[T]) onFree(index uint32, n *arena.Node[T]) {
	l.deleted.Inc()

	if ce := l.logger.Check(zap.DebugLevel, "node deallocated"); ce != nil {
		ce.Write(
			zap.Uint32("slot", index),
			zap.Any("value", n.Value),
		)
	}
}

func (l *List[T]) newIteratorLocked(index uint32) *Iterator[T] {
	l.nodes.Pin(index)

	return &Iterator[T]{
		list: l,
		ref:  l.nodes.Ref(index),
	}
}
