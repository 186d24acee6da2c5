package conlist_test

import (
	"container/list"
	"testing"

	"github.com/mgnsk/conlist"
)

func BenchmarkPushPop(b *testing.B) {
	b.Run("conlist", func(b *testing.B) {
		l := conlist.New[string]()

		b.ReportAllocs()
		b.ResetTimer()

		for range b.N {
			l.PushBack("a")
			l.PopFront()
		}
	})

	b.Run("locked conlist", func(b *testing.B) {
		l := conlist.New[string](conlist.WithLock())

		b.ReportAllocs()
		b.ResetTimer()

		for range b.N {
			l.PushBack("a")
			l.PopFront()
		}
	})

	b.Run("std list", func(b *testing.B) {
		l := list.New()

		b.ReportAllocs()
		b.ResetTimer()

		for range b.N {
			l.PushBack("a")
			l.Remove(l.Front())
		}
	})
}

func BenchmarkIterate(b *testing.B) {
	const n = 1000

	b.Run("conlist", func(b *testing.B) {
		l := conlist.New[int](conlist.WithCapacity(n))
		for i := range n {
			l.PushBack(i)
		}

		b.ReportAllocs()
		b.ResetTimer()

		for range b.N {
			for v := range l.All() {
				_ = v
			}
		}
	})

	b.Run("std list", func(b *testing.B) {
		l := list.New()
		for i := range n {
			l.PushBack(i)
		}

		b.ReportAllocs()
		b.ResetTimer()

		for range b.N {
			for e := l.Front(); e != nil; e = e.Next() {
				_ = e.Value
			}
		}
	})
}

func BenchmarkIterateParallel(b *testing.B) {
	l := conlist.New[int](conlist.WithLock())
	for i := range 1000 {
		l.PushBack(i)
	}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			it := l.Begin()
			for !it.IsEnd() {
				_ = it.Next()
			}
			_ = it.Close()
		}
	})
}
