/*
Package arena implements reference counted node storage for a circular doubly linked list.

Nodes live in slots of a single slice and are addressed by index. Slot 0 is the
sentinel which anchors the ring and is exempt from reference counting. A node is
deallocated exactly when its reference count drops to zero; its slot is then reused.
*/
package arena

// Sentinel is the slot index of the sentinel node.
const Sentinel uint32 = 0

// Ref is a generation checked reference to a node.
type Ref struct {
	index uint32
	gen   uint32
}

// Index returns the slot index of the reference.
func (r Ref) Index() uint32 {
	return r.index
}

// Arena stores list nodes.
type Arena[T any] struct {
	// OnFree is called right before a node is deallocated.
	OnFree   func(index uint32, n *Node[T])
	nodes    []Node[T]
	freeList []uint32
	pending  []uint32
	live     int
	freed    uint64
	epoch    uint32
}

// New creates an arena with room for capacity nodes and an empty sentinel ring.
func New[T any](capacity int) *Arena[T] {
	if capacity < 0 {
		panic("arena: invalid capacity")
	}

	nodes := make([]Node[T], 1, capacity+1)
	nodes[Sentinel].allocated = true

	return &Arena[T]{
		nodes: nodes,
	}
}

// Live returns the number of allocated nodes, excluding the sentinel.
func (a *Arena[T]) Live() int {
	return a.live
}

// Freed returns the number of nodes deallocated so far.
func (a *Arena[T]) Freed() uint64 {
	return a.freed
}

// Slots returns the number of node slots, excluding the sentinel.
func (a *Arena[T]) Slots() int {
	return len(a.nodes) - 1
}

// Alloc stores a value in a new unlinked node with no holders.
func (a *Arena[T]) Alloc(v T) Ref {
	var index uint32

	if n := len(a.freeList); n > 0 {
		index = a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
	} else {
		index = uint32(len(a.nodes))
		a.nodes = append(a.nodes, Node[T]{gen: a.epoch})
	}

	n := &a.nodes[index]
	n.Value = v
	n.prev = index
	n.next = index
	n.refs = 0
	n.deleted = false
	n.pinning = false
	n.allocated = true

	a.live++

	return Ref{index: index, gen: n.gen}
}

// Node returns the node at index.
// It panics if the slot is not allocated.
func (a *Arena[T]) Node(index uint32) *Node[T] {
	if int(index) >= len(a.nodes) || !a.nodes[index].allocated {
		panic("arena: access to deallocated node")
	}
	return &a.nodes[index]
}

// Ref returns a reference to the allocated node at index.
func (a *Arena[T]) Ref(index uint32) Ref {
	return Ref{index: index, gen: a.Node(index).gen}
}

// Resolve returns the slot index of r.
// It panics if the node r referenced has been deallocated.
func (a *Arena[T]) Resolve(r Ref) uint32 {
	if int(r.index) >= len(a.nodes) {
		panic("arena: stale reference")
	}

	if n := &a.nodes[r.index]; !n.allocated || n.gen != r.gen {
		panic("arena: stale reference")
	}

	return r.index
}

// Valid reports whether r still references an allocated node.
func (a *Arena[T]) Valid(r Ref) bool {
	if int(r.index) >= len(a.nodes) {
		return false
	}
	n := &a.nodes[r.index]
	return n.allocated && n.gen == r.gen
}

// Pin adds a holder to the node at index.
func (a *Arena[T]) Pin(index uint32) {
	if index == Sentinel {
		return
	}
	a.Node(index).refs++
}

// Unpin removes a holder from the node at index. A node left without holders
// is deallocated, releasing the pins it held on its neighbours.
func (a *Arena[T]) Unpin(index uint32) {
	a.pending = append(a.pending[:0], index)

	for len(a.pending) > 0 {
		i := a.pending[len(a.pending)-1]
		a.pending = a.pending[:len(a.pending)-1]

		if i == Sentinel {
			continue
		}

		n := a.Node(i)
		if n.refs--; n.refs > 0 {
			continue
		}

		if n.pinning {
			a.pending = append(a.pending, n.prev, n.next)
		}

		a.free(i)
	}
}

// LinkAfter inserts the unlinked node s after the node at index at.
// The node gains one holder for each ring link pointing at it.
func (a *Arena[T]) LinkAfter(at, s uint32) {
	e := a.Node(at)
	sn := a.Node(s)

	n := e.next
	e.next = s
	sn.prev = at
	a.nodes[n].prev = s
	sn.next = n

	sn.refs += 2
}

// Tombstone unlinks the node at index from the ring and releases the holders of
// both ring links. The node keeps its own links. If it is still held afterwards,
// it pins its neighbours so that they outlive it.
//
// Tombstone reports whether the node was removed by this call and whether it
// is still allocated.
func (a *Arena[T]) Tombstone(index uint32) (removed, retained bool) {
	if index == Sentinel {
		return false, true
	}

	n := a.Node(index)
	if n.deleted {
		return false, true
	}

	n.deleted = true
	a.nodes[n.prev].next = n.next
	a.nodes[n.next].prev = n.prev

	if n.refs -= 2; n.refs <= 0 {
		a.free(index)
		return true, false
	}

	n.pinning = true
	a.Pin(n.prev)
	a.Pin(n.next)

	return true, true
}

// SkipForward returns the first node after index which is not a tombstone,
// or the sentinel.
func (a *Arena[T]) SkipForward(index uint32) uint32 {
	next := a.Node(index).next
	for next != Sentinel && a.Node(next).deleted {
		next = a.nodes[next].next
	}
	return next
}

// SkipBackward returns the first node before index which is not a tombstone,
// or the sentinel.
func (a *Arena[T]) SkipBackward(index uint32) uint32 {
	prev := a.Node(index).prev
	for prev != Sentinel && a.Node(prev).deleted {
		prev = a.nodes[prev].prev
	}
	return prev
}

// Shrink releases trailing free slots and reallocates the slot slice to fit.
func (a *Arena[T]) Shrink() {
	end := len(a.nodes)
	for end > 1 && !a.nodes[end-1].allocated {
		// Slots appended later must not match references into trimmed ones.
		if g := a.nodes[end-1].gen + 1; g > a.epoch {
			a.epoch = g
		}
		end--
	}

	nodes := make([]Node[T], end)
	copy(nodes, a.nodes[:end])
	a.nodes = nodes

	freeList := make([]uint32, 0, len(a.freeList))
	for _, i := range a.freeList {
		if int(i) < end {
			freeList = append(freeList, i)
		}
	}
	a.freeList = freeList
	a.pending = nil
}

func (a *Arena[T]) free(index uint32) {
	n := &a.nodes[index]

	if a.OnFree != nil {
		a.OnFree(index, n)
	}

	var zero T
	n.Value = zero
	n.refs = 0
	n.pinning = false
	n.allocated = false
	n.gen++

	a.freeList = append(a.freeList, index)
	a.live--
	a.freed++
}
