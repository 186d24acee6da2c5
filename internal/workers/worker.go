package workers

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/mgnsk/conlist"
	"github.com/mgnsk/conlist/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Walks stop after this many steps so that a walk racing with pushes terminates.
const maxWalk = 1024

const observeEvery = 64

type held struct {
	it    *conlist.Iterator[int]
	value int
}

type worker struct {
	*Workers

	logger *zap.Logger
	held   []held
}

type op struct {
	name metrics.OpName
	do   func(wk *worker) error
}

var ops = []op{
	{metrics.OpPushFront, (*worker).pushFront},
	{metrics.OpPushBack, (*worker).pushBack},
	{metrics.OpPopFront, (*worker).popFront},
	{metrics.OpPopBack, (*worker).popBack},
	{metrics.OpFront, (*worker).front},
	{metrics.OpBack, (*worker).back},
	{metrics.OpEraseValue, (*worker).eraseValue},
	{metrics.OpFindErase, (*worker).findErase},
	{metrics.OpContains, (*worker).contains},
	{metrics.OpWalk, (*worker).walk},
	{metrics.OpWalkBack, (*worker).walkBack},
	{metrics.OpHold, (*worker).hold},
	{metrics.OpCheck, (*worker).check},
}

func (wk *worker) run(ctx context.Context, rl *rate.Limiter) error {
	for n := 0; wk.cfg.Ops == 0 || n < wk.cfg.Ops; n++ {
		if err := rl.Wait(ctx); err != nil {
			break
		}

		o := ops[rand.IntN(len(ops))]

		err := o.do(wk)
		wk.m.Done(o.name, err)
		wk.ops.Inc()

		if errors.Is(err, ErrUnstableIterator) {
			return err
		}

		if err != nil {
			if ce := wk.logger.Check(zap.DebugLevel, "operation failed"); ce != nil {
				ce.Write(zap.String("op", o.name), zap.Error(err))
			}
		}

		if n%observeEvery == 0 {
			wk.m.Observe(wk.list.Len(), wk.list.Deleted())
		}
	}

	return wk.check()
}

// release closes every held iterator.
func (wk *worker) release() {
	for _, h := range wk.held {
		_ = h.it.Close()
		wk.m.Release()
	}
	wk.held = nil
}

func (wk *worker) value() int {
	return rand.IntN(wk.cfg.Values)
}

func (wk *worker) pushFront() error {
	wk.list.PushFront(wk.value())
	wk.pushed.Inc()
	return nil
}

func (wk *worker) pushBack() error {
	wk.list.PushBack(wk.value())
	wk.pushed.Inc()
	return nil
}

func (wk *worker) popFront() error {
	wk.list.PopFront()
	return nil
}

func (wk *worker) popBack() error {
	wk.list.PopBack()
	return nil
}

func (wk *worker) front() error {
	_, err := wk.list.Front()
	return err
}

func (wk *worker) back() error {
	_, err := wk.list.Back()
	return err
}

func (wk *worker) eraseValue() error {
	wk.list.EraseValue(wk.value())
	return nil
}

func (wk *worker) contains() error {
	wk.list.Contains(wk.value())
	return nil
}

// findErase erases a value through an iterator and keeps holding it.
func (wk *worker) findErase() error {
	v := wk.value()

	it := wk.list.Find(v)
	if it.IsEnd() {
		return it.Close()
	}

	if err := it.Erase(); err != nil {
		_ = it.Close()
		return err
	}

	return wk.keep(it, v)
}

func (wk *worker) hold() error {
	it := wk.list.Find(wk.value())
	if it.IsEnd() {
		return it.Close()
	}

	v, err := it.Value()
	if err != nil {
		_ = it.Close()
		return fmt.Errorf("%w: %w", ErrUnstableIterator, err)
	}

	return wk.keep(it, v)
}

func (wk *worker) keep(it *conlist.Iterator[int], v int) error {
	wk.held = append(wk.held, held{it: it, value: v})
	wk.m.Hold()

	for len(wk.held) > wk.cfg.MaxHeld {
		h := wk.held[0]
		wk.held = wk.held[1:]

		err := wk.checkOne(h)
		_ = h.it.Close()
		wk.m.Release()

		if err != nil {
			return err
		}
	}

	return nil
}

// check verifies that every held iterator still dereferences to the value it was taken at.
func (wk *worker) check() error {
	for _, h := range wk.held {
		if err := wk.checkOne(h); err != nil {
			return err
		}
	}

	return nil
}

func (wk *worker) checkOne(h held) error {
	v, err := h.it.Value()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnstableIterator, err)
	}

	if v != h.value {
		return fmt.Errorf("%w: expected value %d, got %d", ErrUnstableIterator, h.value, v)
	}

	return nil
}

func (wk *worker) walk() error {
	it := wk.list.Begin()
	defer it.Close()

	for steps := 0; !it.IsEnd() && steps < maxWalk; steps++ {
		if _, err := it.Value(); err != nil {
			return fmt.Errorf("%w: %w", ErrUnstableIterator, err)
		}

		if err := it.Next(); err != nil {
			return fmt.Errorf("%w: %w", ErrUnstableIterator, err)
		}
	}

	return nil
}

func (wk *worker) walkBack() error {
	it := wk.list.End()
	defer it.Close()

	for steps := 0; steps < maxWalk; steps++ {
		err := it.Prev()
		if errors.Is(err, conlist.ErrBeginOfSequence) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnstableIterator, err)
		}

		if _, err := it.Value(); err != nil {
			return fmt.Errorf("%w: %w", ErrUnstableIterator, err)
		}
	}

	return nil
}
