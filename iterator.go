package conlist

import (
	"github.com/mgnsk/conlist/internal/arena"
)

// Iterator is a position in a list.
//
// An iterator keeps the element it points to allocated, even after the element
// is removed from the list, until Close is called. Callers must Close every
// iterator they obtain.
type Iterator[T comparable] struct {
	list   *List[T]
	ref    arena.Ref
	closed bool
}

// Value returns the element the iterator points to. The element may have been
// removed from the list since the iterator reached it.
func (it *Iterator[T]) Value() (T, error) {
	it.list.mu.Lock()
	defer it.list.mu.Unlock()

	var zero T

	if it.closed {
		return zero, ErrIteratorClosed
	}

	index := it.list.nodes.Resolve(it.ref)
	if index == arena.Sentinel {
		return zero, ErrInvalidIterator
	}

	return it.list.nodes.Node(index).Value, nil
}

// IsEnd reports whether the iterator is at the end position.
// A closed iterator is at the end.
func (it *Iterator[T]) IsEnd() bool {
	it.list.mu.Lock()
	defer it.list.mu.Unlock()

	return it.closed || it.ref.Index() == arena.Sentinel
}

// Next advances the iterator to the next element in the list,
// or to the end position after the last element.
func (it *Iterator[T]) Next() error {
	it.list.mu.Lock()
	defer it.list.mu.Unlock()

	if it.closed {
		return ErrIteratorClosed
	}

	index := it.list.nodes.Resolve(it.ref)
	if index == arena.Sentinel {
		return ErrEndOfSequence
	}

	it.moveLocked(index, it.list.nodes.SkipForward(index))

	return nil
}

// Prev moves the iterator to the previous element in the list.
// The iterator is left in place if there is no previous element.
func (it *Iterator[T]) Prev() error {
	it.list.mu.Lock()
	defer it.list.mu.Unlock()

	if it.closed {
		return ErrIteratorClosed
	}

	index := it.list.nodes.Resolve(it.ref)

	prev := it.list.nodes.SkipBackward(index)
	if prev == arena.Sentinel {
		return ErrBeginOfSequence
	}

	it.moveLocked(index, prev)

	return nil
}

// Equal reports whether both iterators point to the same element of the same list.
func (it *Iterator[T]) Equal(other *Iterator[T]) bool {
	if other == nil || it.list != other.list {
		return false
	}

	it.list.mu.Lock()
	defer it.list.mu.Unlock()

	if it.closed || other.closed {
		return false
	}

	return it.ref == other.ref
}

// Erase removes the element the iterator points to from the list.
// The iterator stays at the removed element.
func (it *Iterator[T]) Erase() error {
	return it.list.Erase(it)
}

// Clone returns a new iterator at the same position.
// Cloning a closed iterator returns a closed iterator.
func (it *Iterator[T]) Clone() *Iterator[T] {
	it.list.mu.Lock()
	defer it.list.mu.Unlock()

	if it.closed {
		return &Iterator[T]{list: it.list, closed: true}
	}

	return it.list.newIteratorLocked(it.list.nodes.Resolve(it.ref))
}

// Close releases the element held by the iterator.
// Close is idempotent.
func (it *Iterator[T]) Close() error {
	it.list.mu.Lock()
	defer it.list.mu.Unlock()

	if it.closed {
		return nil
	}

	it.closed = true
	it.list.nodes.Unpin(it.list.nodes.Resolve(it.ref))

	return nil
}

func (it *Iterator[T]) moveLocked(from, to uint32) {
	nodes := it.list.nodes

	nodes.Pin(to)
	it.ref = nodes.Ref(to)
	nodes.Unpin(from)
}
