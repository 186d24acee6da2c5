package main

import (
	"fmt"

	"github.com/mgnsk/conlist"
)

func main() {
	l := conlist.FromSlice([]string{"a", "b", "c"}, conlist.WithLock())

	// The iterator keeps "b" alive after it has been removed from the list.
	it := l.Find("b")
	defer it.Close()

	l.EraseValue("b")

	v, err := it.Value()
	if err != nil {
		panic(err)
	}

	// Stepping from a removed element lands on its live neighbour.
	if err := it.Next(); err != nil {
		panic(err)
	}

	next, err := it.Value()
	if err != nil {
		panic(err)
	}

	fmt.Println(v, next, l.ToSlice())
}
