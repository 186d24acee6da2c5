package arena

// Node is a list node stored in an arena slot.
type Node[T any] struct {
	Value      T
	prev, next uint32
	gen        uint32
	refs       int
	deleted    bool
	allocated  bool
	// pinning is set on a tombstone that holds a pin on prev and next.
	pinning bool
}

// Next returns the index of the next node.
//
// For a tombstone it is the successor at the time of removal.
func (n *Node[T]) Next() uint32 {
	return n.next
}

// Prev returns the index of the previous node.
//
// For a tombstone it is the predecessor at the time of removal.
func (n *Node[T]) Prev() uint32 {
	return n.prev
}

// Deleted reports whether the node was removed from the ring.
func (n *Node[T]) Deleted() bool {
	return n.deleted
}

// Refs returns the number of holders keeping the node allocated.
func (n *Node[T]) Refs() int {
	return n.refs
}
