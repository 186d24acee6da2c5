package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "conlist"

type OpName = string

const (
	OpPushFront  OpName = "push_front"
	OpPushBack   OpName = "push_back"
	OpPopFront   OpName = "pop_front"
	OpPopBack    OpName = "pop_back"
	OpFront      OpName = "front"
	OpBack       OpName = "back"
	OpEraseValue OpName = "erase_value"
	OpFindErase  OpName = "find_erase"
	OpContains   OpName = "contains"
	OpWalk       OpName = "walk"
	OpWalkBack   OpName = "walk_back"
	OpHold       OpName = "hold"
	OpCheck      OpName = "check"
)

type Metrics struct {
	registry *prometheus.Registry

	oks     *prometheus.CounterVec
	notOks  *prometheus.CounterVec
	held    prometheus.Gauge
	size    prometheus.Gauge
	deleted prometheus.Gauge

	logger *zap.Logger
}

func New(logger *zap.Logger) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		logger:   logger.Named("metrics"),
	}

	m.oks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oks_total",
			Help:      "amount of completed operations",
		},
		[]string{"op"},
	)
	m.notOks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "not_oks_total",
			Help:      "amount of operations that returned an error",
		},
		[]string{"op"},
	)
	m.held = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "held_iterators",
		Help:      "amount of iterators held across mutations",
	})
	m.size = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "size",
		Help:      "number of live elements",
	})
	m.deleted = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "deallocated_nodes",
		Help:      "number of nodes released so far",
	})

	m.registry.MustRegister(
		m.oks,
		m.notOks,
		m.held,
		m.size,
		m.deleted,
		collectors.NewGoCollector(),
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Done records the outcome of an operation.
func (m *Metrics) Done(op OpName, err error) {
	if err != nil {
		m.notOks.WithLabelValues(op).Inc()
		return
	}
	m.oks.WithLabelValues(op).Inc()
}

func (m *Metrics) Hold() {
	m.held.Inc()
}

func (m *Metrics) Release() {
	m.held.Dec()
}

// Observe records the list size and the number of released nodes.
func (m *Metrics) Observe(size int, deleted uint64) {
	m.size.Set(float64(size))
	m.deleted.Set(float64(deleted))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(m.logger),
	})
}

// Serve exposes the registry on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		m.logger.Info("serving metrics", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
