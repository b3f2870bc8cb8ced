package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"interview-prep-service/internal/app"
)

// Metrics owns a private Prometheus registry so tests can build as many as they need.
type Metrics struct {
	registry     *prometheus.Registry
	storageOps   *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		storageOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interview_prep",
			Name:      "storage_operations_total",
			Help:      "Durable state store operations by key, operation and result.",
		}, []string{"key", "op", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interview_prep",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "interview_prep",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.storageOps,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records every request under its chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// InstrumentStorage counts every call made to s.
func (m *Metrics) InstrumentStorage(s app.Storage) app.Storage {
	return &instrumentedStorage{next: s, ops: m.storageOps}
}

type instrumentedStorage struct {
	next app.Storage
	ops  *prometheus.CounterVec
}

func (s *instrumentedStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.next.GetItem(ctx, key)
	result := "hit"
	switch {
	case err != nil:
		result = "error"
	case !ok:
		result = "miss"
	}
	s.ops.WithLabelValues(key, "get", result).Inc()
	return v, ok, err
}

func (s *instrumentedStorage) SetItem(ctx context.Context, key, value string) error {
	err := s.next.SetItem(ctx, key, value)
	s.ops.WithLabelValues(key, "set", outcome(err)).Inc()
	return err
}

func (s *instrumentedStorage) RemoveItem(ctx context.Context, key string) error {
	err := s.next.RemoveItem(ctx, key)
	s.ops.WithLabelValues(key, "remove", outcome(err)).Inc()
	return err
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
