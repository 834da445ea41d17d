package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes recorded by the metrics collector.
const (
	OutcomeRecommended = "recommended"
	OutcomeEmpty       = "empty"
	OutcomeRejected    = "rejected"
)

// MetricsCollector exposes Prometheus metrics for the stylist.
type MetricsCollector struct {
	recommendationRequests *prometheus.CounterVec
	recommendationLatency  prometheus.Histogram
	outfitConfidence       prometheus.Histogram
	candidatesGenerated    prometheus.Histogram
	ledgerResets           prometheus.Counter
	storeErrors            *prometheus.CounterVec
}

// NewMetricsCollector creates a new metrics collector registered on reg. A nil
// registerer uses the Prometheus default registry.
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &MetricsCollector{
		recommendationRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stylist_recommendation_requests_total",
			Help: "Total number of outfit recommendation requests by outcome",
		}, []string{"outcome"}),

		recommendationLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stylist_recommendation_latency_seconds",
			Help:    "Outfit recommendation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),

		outfitConfidence: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stylist_outfit_confidence",
			Help:    "Confidence of returned outfits",
			Buckets: prometheus.LinearBuckets(0.4, 0.1, 7),
		}),

		candidatesGenerated: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stylist_candidates_generated",
			Help:    "Number of candidate outfits generated per request",
			Buckets: []float64{0, 1, 2, 5, 10, 15, 20},
		}),

		ledgerResets: factory.NewCounter(prometheus.CounterOpts{
			Name: "stylist_ledger_resets_total",
			Help: "Number of usage ledgers reset after the idle window",
		}),

		storeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stylist_session_store_errors_total",
			Help: "Session store failures by operation",
		}, []string{"operation"}),
	}
}

// RecordRecommendation records one completed request.
func (mc *MetricsCollector) RecordRecommendation(result *RecommendationResult, latency time.Duration) {
	outcome := OutcomeEmpty
	if len(result.Recommendations) > 0 {
		outcome = OutcomeRecommended
	}
	mc.recommendationRequests.WithLabelValues(outcome).Inc()
	mc.recommendationLatency.Observe(latency.Seconds())
	mc.candidatesGenerated.Observe(float64(result.Candidates))
	for _, rec := range result.Recommendations {
		mc.outfitConfidence.Observe(rec.Confidence)
	}
	if result.LedgerReset {
		mc.ledgerResets.Inc()
	}
}

// RecordRejected records a request refused before reaching the engine.
func (mc *MetricsCollector) RecordRejected() {
	mc.recommendationRequests.WithLabelValues(OutcomeRejected).Inc()
}

// RecordStoreError records a failed session store operation.
func (mc *MetricsCollector) RecordStoreError(operation string) {
	mc.storeErrors.WithLabelValues(operation).Inc()
}
