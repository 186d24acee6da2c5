package conlist

import "errors"

var (
	// ErrEmptyList indicates an element was requested from an empty list.
	ErrEmptyList = errors.New("list is empty")

	// ErrInvalidIterator indicates an iterator at the end position was erased or dereferenced.
	ErrInvalidIterator = errors.New("invalid iterator")

	// ErrEndOfSequence indicates an iterator was advanced past the end position.
	ErrEndOfSequence = errors.New("no more elements")

	// ErrBeginOfSequence indicates an iterator was moved before the first element.
	ErrBeginOfSequence = errors.New("iterator is at the first element")

	// ErrIteratorClosed indicates an iterator was used after Close.
	ErrIteratorClosed = errors.New("iterator is closed")

	// ErrForeignIterator indicates an iterator was passed to a list it does not belong to.
	ErrForeignIterator = errors.New("iterator belongs to another list")
)
