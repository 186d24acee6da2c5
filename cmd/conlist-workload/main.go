package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mgnsk/conlist/internal/config"
	"github.com/mgnsk/conlist/internal/metrics"
	"github.com/mgnsk/conlist/internal/workers"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.New(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		panic(fmt.Errorf("create logger failed: %w", err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("workload failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if debug {
		zcfg.Level.SetLevel(zapcore.DebugLevel)
	}

	return zcfg.Build(zap.AddStacktrace(zapcore.PanicLevel))
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	m := metrics.New(logger)
	w := workers.New(cfg, m, logger)

	logger.Info("workload started",
		zap.Int("workers", cfg.Workers),
		zap.Int("ops", cfg.Ops),
		zap.Int("rps", cfg.RPS),
		zap.Duration("duration", cfg.Duration),
		zap.Int("initial", cfg.Initial),
	)

	serveCtx, stopServing := context.WithCancel(ctx)
	defer stopServing()

	g, gctx := errgroup.WithContext(serveCtx)

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return m.Serve(gctx, cfg.MetricsAddr)
		})
	}

	g.Go(func() error {
		defer stopServing()
		return w.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	r, err := w.Verify()
	if err != nil {
		return err
	}

	logger.Info("workload finished",
		zap.Int64("ops", r.Ops),
		zap.Int64("pushed", r.Pushed),
		zap.Uint64("deleted", r.Deleted),
	)

	return nil
}
