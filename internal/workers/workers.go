package workers

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/mgnsk/conlist"
	"github.com/mgnsk/conlist/internal/config"
	"github.com/mgnsk/conlist/internal/metrics"
	"github.com/puzpuzpuz/xsync/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var (
	ErrUnstableIterator = errors.New("held iterator is unstable")
	ErrInconsistent     = errors.New("list is inconsistent")
)

// Report summarizes a finished workload.
type Report struct {
	Ops     int64
	Pushed  int64
	Deleted uint64
	Len     int
}

type Workers struct {
	cfg    *config.Config
	list   *conlist.List[int]
	m      *metrics.Metrics
	logger *zap.Logger

	ops    *xsync.Counter
	pushed *xsync.Counter
}

// New creates a locked list with cfg.Initial random values for the workers to mutate.
func New(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *Workers {
	initial := make([]int, cfg.Initial)
	for i := range initial {
		initial[i] = rand.IntN(cfg.Values)
	}

	w := &Workers{
		cfg: cfg,
		list: conlist.FromSlice(initial,
			conlist.WithLock(),
			conlist.WithLogger(logger.Named("list")),
		),
		m:      m,
		logger: logger.Named("workers"),
		ops:    xsync.NewCounter(),
		pushed: xsync.NewCounter(),
	}
	w.pushed.Add(int64(cfg.Initial))

	return w
}

func (w *Workers) List() *conlist.List[int] {
	return w.list
}

// Run starts cfg.Workers goroutines and waits until each has performed cfg.Ops
// operations, the configured duration has passed or ctx is done.
func (w *Workers) Run(ctx context.Context) error {
	if w.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.Duration)
		defer cancel()
	}

	limit := rate.Inf
	if w.cfg.RPS > 0 {
		limit = rate.Limit(w.cfg.RPS)
	}
	rl := rate.NewLimiter(limit, 1)

	g, ctx := errgroup.WithContext(ctx)

	for id := range w.cfg.Workers {
		g.Go(func() error {
			wk := &worker{
				Workers: w,
				logger:  w.logger.With(zap.Int("worker", id)),
			}
			defer wk.release()

			return wk.run(ctx, rl)
		})
	}

	if err := g.Wait(); err != nil {
		w.logger.Error("workload failed", zap.Error(err))
		return err
	}

	w.m.Observe(w.list.Len(), w.list.Deleted())

	return nil
}

// Verify checks the list after Run has returned, clears it and checks
// that every node ever allocated has been released.
func (w *Workers) Verify() (Report, error) {
	values := w.list.ToSlice()
	if n := w.list.Len(); n != len(values) {
		return Report{}, fmt.Errorf("%w: Len() is %d but %d values were traversed", ErrInconsistent, n, len(values))
	}

	w.list.Clear()

	r := Report{
		Ops:     w.ops.Value(),
		Pushed:  w.pushed.Value(),
		Deleted: w.list.Deleted(),
		Len:     w.list.Len(),
	}

	w.m.Observe(r.Len, r.Deleted)

	if r.Len != 0 {
		return r, fmt.Errorf("%w: %d elements left after Clear", ErrInconsistent, r.Len)
	}

	if r.Deleted != uint64(r.Pushed) {
		return r, fmt.Errorf("%w: %d nodes allocated, %d released", ErrInconsistent, r.Pushed, r.Deleted)
	}

	w.logger.Info("workload verified",
		zap.Int64("ops", r.Ops),
		zap.Int64("pushed", r.Pushed),
		zap.Uint64("deleted", r.Deleted),
	)

	return r, nil
}
