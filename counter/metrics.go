package counter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
)

const metricsNamespace = "furry_counter"

// Metrics exports store and render activity to Prometheus.
type Metrics struct {
	registry *prometheus.Registry

	writes         prometheus.Counter
	count          prometheus.Gauge
	step           prometheus.Gauge
	listeners      prometheus.Gauge
	frames         prometheus.Counter
	renderDuration prometheus.Histogram
	dirtyCells     prometheus.Histogram
}

// NewMetrics registers the counter metrics on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		writes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "store_writes_total",
			Help:      "Total number of writes to the counter store",
		}),
		count: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "count",
			Help:      "Current counter value",
		}),
		step: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "step",
			Help:      "Current increment step",
		}),
		listeners: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "store_listeners",
			Help:      "Listeners registered on the store at the last write",
		}),
		frames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "frames_total",
			Help:      "Total number of rendered frames",
		}),
		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering and flushing a frame",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		dirtyCells: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "dirty_cells",
			Help:      "Cells flushed per frame",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

// Registry returns the registry the metrics live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Instrument records every write to store. The returned func stops recording.
func (m *Metrics) Instrument(store *state.Store[State]) func() {
	m.observe(store, store.Get())
	return store.Subscribe(func(s State) {
		m.writes.Inc()
		m.observe(store, s)
	})
}

func (m *Metrics) observe(store *state.Store[State], s State) {
	m.count.Set(float64(s.Count))
	m.step.Set(float64(s.Step))
	m.listeners.Set(float64(store.Len()))
}

// ObserveRender implements runtime.RenderObserver.
func (m *Metrics) ObserveRender(stats runtime.RenderStats) {
	m.frames.Inc()
	m.renderDuration.Observe((stats.RenderDuration + stats.FlushDuration).Seconds())
	m.dirtyCells.Observe(float64(stats.DirtyCells))
}

// Handler serves /metrics and /healthz.
func (m *Metrics) Handler() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}

// Serve runs the metrics endpoint on addr until ctx ends.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

var _ runtime.RenderObserver = (*Metrics)(nil)
