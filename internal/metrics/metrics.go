// Package metrics exposes Prometheus metrics for the contact pipeline
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moss",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "moss",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks current in-flight requests
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "moss",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

var (
	// SubmissionsAccepted counts contact submissions delivered end to end
	SubmissionsAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "moss",
			Subsystem: "contact",
			Name:      "submissions_accepted_total",
			Help:      "Contact submissions that passed every gate and were delivered",
		},
	)

	// SubmissionsRejected counts rejected submissions by gate
	SubmissionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moss",
			Subsystem: "contact",
			Name:      "submissions_rejected_total",
			Help:      "Contact submissions rejected, labeled by the gate that fired",
		},
		[]string{"gate"},
	)

	// EmailsSent counts dispatched emails by kind
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moss",
			Subsystem: "mail",
			Name:      "emails_sent_total",
			Help:      "Emails dispatched through the mail provider, by kind",
		},
		[]string{"kind"},
	)

	// EmailsFailed counts failed dispatch attempts by kind
	EmailsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moss",
			Subsystem: "mail",
			Name:      "emails_failed_total",
			Help:      "Email dispatch attempts that failed, by kind",
		},
		[]string{"kind"},
	)

	// RateLimitHits counts requests rejected by the edge rate limiter
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "moss",
			Subsystem: "edge",
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected with 429 by the edge rate limiter",
		},
	)
)

// Middleware instruments HTTP requests with the standard metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := routePattern(r)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// routePattern returns the chi route pattern to keep label cardinality
// bounded, falling back to the raw path outside chi routing.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// Handler returns the Prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
