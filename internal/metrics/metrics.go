// Package metrics defines the Prometheus collectors for the loader and
// the HTTP API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts API requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ygodb_http_requests_total",
		Help: "Total HTTP requests processed, by method, route and status code.",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration observes API request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ygodb_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds, by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// LoadsTotal counts repository loads by outcome ("ok", "error",
	// "cancelled").
	LoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ygodb_loads_total",
		Help: "Total repository loads, by outcome.",
	}, []string{"outcome"})

	// LoadDuration observes how long a full repository load takes.
	LoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ygodb_load_duration_seconds",
		Help:    "Duration of full repository loads in seconds.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	// CatalogSets tracks the number of sets in the current catalog.
	CatalogSets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ygodb_catalog_sets",
		Help: "Number of sets in the currently served catalog.",
	})

	// CatalogCards tracks the number of distinct cards in the current
	// catalog.
	CatalogCards = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ygodb_catalog_cards",
		Help: "Number of distinct cards in the currently served catalog.",
	})

	// CatalogIssues tracks issues recorded during the last load, by
	// severity.
	CatalogIssues = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ygodb_catalog_issues",
		Help: "Issues recorded during the last load, by severity.",
	}, []string{"severity"})
)
