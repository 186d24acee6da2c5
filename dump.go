package conlist

import (
	"fmt"
	"io"
	"strings"

	"github.com/mgnsk/conlist/internal/arena"
)

// Dump writes a debug rendering of the list and the reference count of each element to w.
// The format is not stable.
func (l *List[T]) Dump(w io.Writer) error {
	_, err := io.WriteString(w, l.String())
	return err
}

// String returns a debug rendering of the list.
func (l *List[T]) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder

	fmt.Fprintf(&b, "{ size = %d, deleted = %d\n", l.len, l.deleted.Value())

	for i := l.firstLocked(); i != arena.Sentinel; {
		n := l.nodes.Node(i)
		fmt.Fprintf(&b, "   [value = %v, ref_count = %d]", n.Value, n.Refs())

		if i = n.Next(); i != arena.Sentinel {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}

	b.WriteString("}\n")

	return b.String()
}
