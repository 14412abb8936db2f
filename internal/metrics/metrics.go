// Package metrics defines Prometheus metrics for the arbitrage service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "arb"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last liveness probe succeeded.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last readiness probe succeeded.",
	})

	PanicsRecoveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "panics_recovered_total",
		Help:      "Total handler panics recovered by the middleware.",
	})
)

// Enrichment metrics.
var (
	EnrichmentItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrichment_items_total",
		Help:      "Total items run through enrichment, by contributing source.",
	}, []string{"source"})

	EnrichmentFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrichment_failures_total",
		Help:      "Total items that degraded to the un-enriched fallback.",
	})

	EnrichmentBatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "enrichment_batch_duration_seconds",
		Help:      "Duration of batch enrichment runs in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	LookupOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookup_outcomes_total",
		Help:      "External lookup attempts by adapter and outcome.",
	}, []string{"adapter", "outcome"})
)

// Analysis metrics.
var (
	AnalysisRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_requests_total",
		Help:      "Item analyses by backend (llm, mock).",
	}, []string{"backend"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Duration of AI analysis calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Catalog API metrics.
var (
	CatalogAPICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_api_calls_total",
		Help:      "Total cumulative catalog API calls.",
	})

	CatalogDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_daily_usage",
		Help:      "Catalog API calls within the rolling 24-hour window.",
	})

	CatalogDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_daily_limit_hits_total",
		Help:      "Times the daily catalog API quota blocked a call.",
	})
)

// Upload processing metrics.
var (
	UploadsProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_processed_total",
		Help:      "Total uploads driven to completion.",
	})

	ItemsProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_processed_total",
		Help:      "Total manifest items analyzed and saved.",
	})

	ItemErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "item_errors_total",
		Help:      "Total manifest items saved with a processing error.",
	})
)
