package workers_test

import (
	"context"
	"testing"
	"time"

	"github.com/mgnsk/conlist/internal/config"
	"github.com/mgnsk/conlist/internal/metrics"
	"github.com/mgnsk/conlist/internal/workers"
	. "github.com/onsi/gomega"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newConfig() *config.Config {
	return &config.Config{
		Workers: 4,
		Ops:     2000,
		Initial: 100,
		Values:  50,
		MaxHeld: 8,
	}
}

func TestRun(t *testing.T) {
	g := NewWithT(t)

	cfg := newConfig()

	w := workers.New(cfg, metrics.New(zap.NewNop()), zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel)))
	g.Expect(w.List().Len()).To(Equal(cfg.Initial))

	g.Expect(w.Run(context.Background())).To(Succeed())

	r, err := w.Verify()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(r.Ops).To(Equal(int64(cfg.Workers * cfg.Ops)))
	g.Expect(r.Pushed).To(BeNumerically(">=", cfg.Initial))
	g.Expect(r.Deleted).To(Equal(uint64(r.Pushed)))
	g.Expect(r.Len).To(BeZero())
}

func TestRunWithoutHeldIterators(t *testing.T) {
	g := NewWithT(t)

	cfg := newConfig()
	cfg.MaxHeld = 0

	w := workers.New(cfg, metrics.New(zap.NewNop()), zap.NewNop())
	g.Expect(w.Run(context.Background())).To(Succeed())

	r, err := w.Verify()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(r.Deleted).To(Equal(uint64(r.Pushed)))
}

func TestRunDuration(t *testing.T) {
	g := NewWithT(t)

	cfg := newConfig()
	cfg.Ops = 0
	cfg.RPS = 1000
	cfg.Duration = 100 * time.Millisecond

	w := workers.New(cfg, metrics.New(zap.NewNop()), zap.NewNop())

	start := time.Now()
	g.Expect(w.Run(context.Background())).To(Succeed())
	g.Expect(time.Since(start)).To(BeNumerically("<", 5*time.Second))

	r, err := w.Verify()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(r.Ops).To(BeNumerically(">", 0))
	g.Expect(r.Deleted).To(Equal(uint64(r.Pushed)))
}

func TestRunCanceled(t *testing.T) {
	g := NewWithT(t)

	cfg := newConfig()
	cfg.Ops = 0
	cfg.RPS = 100

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	w := workers.New(cfg, metrics.New(zap.NewNop()), zap.NewNop())
	g.Expect(w.Run(ctx)).To(Succeed())

	r, err := w.Verify()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(r.Deleted).To(Equal(uint64(r.Pushed)))
}
