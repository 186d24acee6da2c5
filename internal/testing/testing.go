/*
Package testing contains helpers shared by list tests.
*/
package testing

import (
	"math/rand/v2"
	"slices"
)

// Pusher is a list accepting values at both ends.
type Pusher interface {
	PushFront(int)
	PushBack(int)
}

// RandInt returns a random integer in [lo, hi].
func RandInt(lo, hi int) int {
	return lo + rand.IntN(hi-lo+1)
}

// FillRange pushes the values lo through hi to the back of l.
func FillRange(l Pusher, lo, hi int) {
	for i := lo; i <= hi; i++ {
		l.PushBack(i)
	}
}

// FillRandom pushes n random values in [lo, hi] to the back of l and returns them.
func FillRandom(l Pusher, n, lo, hi int) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = RandInt(lo, hi)
		l.PushBack(values[i])
	}
	return values
}

// Model is a slice backed reference list.
type Model struct {
	values []int
}

// PushFront inserts v at the front.
func (m *Model) PushFront(v int) {
	m.values = slices.Insert(m.values, 0, v)
}

// PushBack inserts v at the back.
func (m *Model) PushBack(v int) {
	m.values = append(m.values, v)
}

// PopFront removes the first value if there is one.
func (m *Model) PopFront() {
	if len(m.values) > 0 {
		m.values = m.values[1:]
	}
}

// PopBack removes the last value if there is one.
func (m *Model) PopBack() {
	if len(m.values) > 0 {
		m.values = m.values[:len(m.values)-1]
	}
}

// EraseValue removes the first occurrence of v.
func (m *Model) EraseValue(v int) bool {
	i := slices.Index(m.values, v)
	if i == -1 {
		return false
	}
	m.values = slices.Delete(m.values, i, i+1)
	return true
}

// Values returns a copy of the values. The result is never nil.
func (m *Model) Values() []int {
	return append([]int{}, m.values...)
}

// Len returns the number of values.
func (m *Model) Len() int {
	return len(m.values)
}
