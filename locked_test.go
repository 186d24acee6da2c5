package conlist_test

import (
	"math/rand/v2"
	"sync"

	"github.com/mgnsk/conlist"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

const (
	numGoroutines = 4
	numOps        = 100
)

func repeat(n, v int) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = v
	}
	return values
}

func concurrently(n int, f func(i int)) {
	var wg sync.WaitGroup

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			defer GinkgoRecover()
			f(i)
		}()
	}

	wg.Wait()
}

var _ = Describe("pushing concurrently", func() {
	var l *conlist.List[int]

	BeforeEach(func() {
		l = conlist.New[int](conlist.WithLock())
	})

	Specify("every value is inserted", func() {
		concurrently(numGoroutines, func(int) {
			for j := 0; j < numOps; j++ {
				l.PushBack(1)
			}
		})

		Expect(l.Len()).To(Equal(numGoroutines * numOps))
		Expect(l.ToSlice()).To(Equal(repeat(numGoroutines*numOps, 1)))
	})

	Specify("values pushed at both ends keep their order", func() {
		l.PushBack(2)

		concurrently(2, func(i int) {
			for j := 0; j < numOps; j++ {
				if i == 0 {
					l.PushFront(1)
				} else {
					l.PushBack(3)
				}
			}
		})

		expected := append(append(repeat(numOps, 1), 2), repeat(numOps, 3)...)
		Expect(l.ToSlice()).To(Equal(expected))
	})
})

var _ = Describe("popping concurrently", func() {
	var l *conlist.List[int]

	BeforeEach(func() {
		l = conlist.FromSlice(repeat(numGoroutines*numOps, 1), conlist.WithLock())
	})

	AfterEach(func() {
		Expect(l.Len()).To(BeZero())
		Expect(l.Empty()).To(BeTrue())
		Expect(l.Deleted()).To(Equal(uint64(numGoroutines * numOps)))
	})

	DescribeTable(
		"the list is drained",
		func(pop func(i int)) {
			concurrently(numGoroutines, func(i int) {
				for j := 0; j < numOps; j++ {
					pop(i)
				}
			})
		},
		Entry("PopFront", func(int) {
			l.PopFront()
		}),
		Entry("PopBack", func(int) {
			l.PopBack()
		}),
		Entry("PopFront and PopBack", func(i int) {
			if i%2 == 0 {
				l.PopFront()
			} else {
				l.PopBack()
			}
		}),
	)

	Specify("popping more than the list holds is a no-op", func() {
		concurrently(numGoroutines, func(int) {
			for j := 0; j < 2*numOps; j++ {
				l.PopFront()
			}
		})
	})
})

var _ = Describe("erasing concurrently", func() {
	var l *conlist.List[int]

	BeforeEach(func() {
		values := make([]int, numGoroutines*numOps)
		for i := range values {
			values[i] = i
		}
		l = conlist.FromSlice(values, conlist.WithLock())
	})

	Specify("every value is erased", func() {
		concurrently(numGoroutines, func(i int) {
			for _, j := range rand.Perm(numOps) {
				Expect(l.EraseValue(i*numOps + j)).To(BeTrue())
			}
		})

		Expect(l.Len()).To(BeZero())
		Expect(l.Deleted()).To(Equal(uint64(numGoroutines * numOps)))
	})

	Specify("iterators stay valid while others erase", func() {
		var mu sync.Mutex
		var held []*conlist.Iterator[int]

		concurrently(2*numGoroutines, func(i int) {
			if i%2 == 0 {
				for _, j := range rand.Perm(numOps) {
					l.EraseValue(i/2*numOps + j)
				}
				return
			}

			it := l.Begin()
			prev := -1

			for !it.IsEnd() {
				v, err := it.Value()
				Expect(err).NotTo(HaveOccurred())
				Expect(v).To(BeNumerically(">", prev))
				prev = v

				Expect(it.Next()).To(Succeed())
			}

			mu.Lock()
			held = append(held, l.Find(rand.IntN(numGoroutines*numOps)))
			mu.Unlock()

			Expect(it.Close()).To(Succeed())
		})

		Expect(l.Len()).To(BeZero())

		for _, it := range held {
			Expect(it.Close()).To(Succeed())
		}

		Expect(l.Deleted()).To(Equal(uint64(numGoroutines * numOps)))
	})
})
