package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mgnsk/conlist/internal/metrics"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func TestDone(t *testing.T) {
	g := NewWithT(t)

	m := metrics.New(zap.NewNop())

	m.Done(metrics.OpPushBack, nil)
	m.Done(metrics.OpPushBack, nil)
	m.Done(metrics.OpFront, errors.New("empty"))

	expected := `
# HELP conlist_oks_total amount of completed operations
# TYPE conlist_oks_total counter
conlist_oks_total{op="push_back"} 2
# HELP conlist_not_oks_total amount of operations that returned an error
# TYPE conlist_not_oks_total counter
conlist_not_oks_total{op="front"} 1
`

	g.Expect(testutil.GatherAndCompare(
		m.Registry(),
		strings.NewReader(expected),
		"conlist_oks_total",
		"conlist_not_oks_total",
	)).To(Succeed())
}

func TestObserve(t *testing.T) {
	g := NewWithT(t)

	m := metrics.New(zap.NewNop())

	m.Hold()
	m.Hold()
	m.Release()
	m.Observe(10, 3)

	expected := `
# HELP conlist_held_iterators amount of iterators held across mutations
# TYPE conlist_held_iterators gauge
conlist_held_iterators 1
# HELP conlist_size number of live elements
# TYPE conlist_size gauge
conlist_size 10
# HELP conlist_deallocated_nodes number of nodes released so far
# TYPE conlist_deallocated_nodes gauge
conlist_deallocated_nodes 3
`

	g.Expect(testutil.GatherAndCompare(
		m.Registry(),
		strings.NewReader(expected),
		"conlist_held_iterators",
		"conlist_size",
		"conlist_deallocated_nodes",
	)).To(Succeed())
}

func TestHandler(t *testing.T) {
	g := NewWithT(t)

	m := metrics.New(zap.NewNop())
	m.Done(metrics.OpWalk, nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	g.Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	g.Expect(resp.StatusCode).To(Equal(http.StatusOK))

	body, err := io.ReadAll(resp.Body)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(body)).To(ContainSubstring(`conlist_oks_total{op="walk"} 1`))
	g.Expect(string(body)).To(ContainSubstring("go_goroutines"))
}
