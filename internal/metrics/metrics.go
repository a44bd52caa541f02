// Package metrics exposes Prometheus metrics for the API server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recipehub"

var (
	// httpRequests counts handled requests.
	// Labels: method, route (chi route pattern), status
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	// httpDuration measures request latency.
	// Labels: method, route
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route"})

	// storeConflicts counts replayed transactions.
	// Labels: op (e.g. recipe.update)
	storeConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "conflicts_total",
		Help:      "Badger transaction conflicts that triggered a retry",
	}, []string{"op"})

	// versionsCreated counts recipe versions written.
	// Labels: kind (initial, update)
	versionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "recipes",
		Name:      "versions_created_total",
		Help:      "Recipe versions written",
	}, []string{"kind"})

	// searchQueries counts search requests.
	// Labels: status (success, error)
	searchQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "search",
		Name:      "queries_total",
		Help:      "Search queries by outcome",
	}, []string{"status"})

	// searchIndexErrors counts failed index updates.
	searchIndexErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "search",
		Name:      "index_errors_total",
		Help:      "Failed search index updates",
	})

	// rateLimited counts requests rejected by the rate limiter.
	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter",
	})
)

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records one handled HTTP request.
func RecordRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordStoreConflict records a transaction replay.
func RecordStoreConflict(op string) {
	storeConflicts.WithLabelValues(op).Inc()
}

// RecordVersionCreated records a new recipe version. Version 1 counts as
// initial.
func RecordVersionCreated(version int) {
	kind := "update"
	if version == 1 {
		kind = "initial"
	}
	versionsCreated.WithLabelValues(kind).Inc()
}

// RecordSearch records a search query outcome.
func RecordSearch(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	searchQueries.WithLabelValues(status).Inc()
}

// RecordSearchIndexError records a failed index update.
func RecordSearchIndexError() {
	searchIndexErrors.Inc()
}

// RecordRateLimited records a rejected request.
func RecordRateLimited() {
	rateLimited.Inc()
}
