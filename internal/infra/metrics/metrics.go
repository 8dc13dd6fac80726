// Package metrics holds the Prometheus collectors of the swipe engine and its
// HTTP surface. Every method is safe on a nil *Metrics so services can run
// without instrumentation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "matchdeck"

type Metrics struct {
	gatherer prometheus.Gatherer

	swipesRecorded      *prometheus.CounterVec
	swipeRecordFailures prometheus.Counter
	matchesFound        prometheus.Counter
	matchQueryDuration  prometheus.Histogram
	httpRequests        *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		swipesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swipes_recorded_total",
			Help:      "Swipe decisions persisted to the ledger.",
		}, []string{"action"}),
		swipeRecordFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swipe_record_failures_total",
			Help:      "Swipe decisions the ledger failed to persist.",
		}),
		matchesFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_found_total",
			Help:      "Mutual likes returned by match queries.",
		}),
		matchQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_query_duration_seconds",
			Help:      "Latency of a full match query including profile reads.",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.swipesRecorded,
		m.swipeRecordFailures,
		m.matchesFound,
		m.matchQueryDuration,
		m.httpRequests,
	)
	return m
}

func (m *Metrics) SwipeRecorded(action string) {
	if m == nil {
		return
	}
	m.swipesRecorded.WithLabelValues(action).Inc()
}

func (m *Metrics) SwipeRecordFailed() {
	if m == nil {
		return
	}
	m.swipeRecordFailures.Inc()
}

func (m *Metrics) MatchesFound(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.matchesFound.Add(float64(count))
}

func (m *Metrics) ObserveMatchQuery(d time.Duration) {
	if m == nil {
		return
	}
	m.matchQueryDuration.Observe(d.Seconds())
}

// Handler serves the exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware counts requests by chi route pattern, falling back to the raw
// path when nothing matched.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
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
	})
}
