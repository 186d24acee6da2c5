package conlist

import (
	"sync"

	"go.uber.org/zap"
)

// Option is a list configuration option.
type Option interface {
	apply(*listOptions)
}

type listOptions struct {
	logger   *zap.Logger
	capacity int
	locked   bool
}

func newDefaultListOptions() listOptions {
	return listOptions{
		logger:   zap.NewNop(),
		capacity: 0,
		locked:   false,
	}
}

func (o listOptions) locker() sync.Locker {
	if o.locked {
		return &sync.Mutex{}
	}
	return nopLocker{}
}

// WithLock option guards every list and iterator operation with a single
// per-list mutex so that the list can be shared between goroutines.
//
// Without it the list is not safe for concurrent use.
func WithLock() Option {
	return funcOption(func(opts *listOptions) {
		opts.locked = true
	})
}

// WithLogger option configures the logger used for node lifecycle debug logs.
//
// The nil value configures a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return funcOption(func(opts *listOptions) {
		if logger == nil {
			logger = zap.NewNop()
		}
		opts.logger = logger
	})
}

// WithCapacity option preallocates storage for capacity nodes.
//
// The zero value configures no preallocation.
func WithCapacity(capacity int) Option {
	return funcOption(func(opts *listOptions) {
		if capacity < 0 {
			panic("conlist: invalid capacity")
		}
		opts.capacity = capacity
	})
}

type funcOption func(*listOptions)

func (o funcOption) apply(opts *listOptions) {
	o(opts)
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}
