// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Harvest metrics
	MentionsHarvested    *prometheus.CounterVec
	MentionsPromotional  *prometheus.CounterVec
	MentionsStored       prometheus.Counter
	HarvestErrors        *prometheus.CounterVec
	MentionScoreObserved prometheus.Histogram

	// Rebuild metrics
	RebuildRunsTotal     *prometheus.CounterVec
	RebuildDuration      prometheus.Histogram
	SchemesProcessed     prometheus.Counter
	PromotersResolved    prometheus.Gauge
	SerialOffendersFound prometheus.Gauge
	AccountsSynthesized  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulHarvest prometheus.Gauge
	LastSuccessfulRebuild prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pumpwatch"
	}

	return &Metrics{
		MentionsHarvested: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "harvest",
			Name:      "mentions_total",
			Help:      "Total number of mentions scored by platform",
		}, []string{"platform"}),
		MentionsPromotional: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "harvest",
			Name:      "mentions_promotional_total",
			Help:      "Total number of mentions classified promotional by platform",
		}, []string{"platform"}),
		MentionsStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "harvest",
			Name:      "mentions_stored_total",
			Help:      "Total number of mentions written to storage",
		}),
		HarvestErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "harvest",
			Name:      "errors_total",
			Help:      "Total number of harvest errors by type",
		}, []string{"error_type"}),
		MentionScoreObserved: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "harvest",
			Name:      "promotion_score",
			Help:      "Distribution of promotion scores",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		RebuildRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rebuild",
			Name:      "runs_total",
			Help:      "Total number of catalog rebuild runs by status",
		}, []string{"status"}),
		RebuildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rebuild",
			Name:      "duration_seconds",
			Help:      "Catalog rebuild duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		SchemesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rebuild",
			Name:      "schemes_processed_total",
			Help:      "Total number of scheme records processed",
		}),
		PromotersResolved: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rebuild",
			Name:      "promoters_resolved",
			Help:      "Number of canonical promoters in the latest rebuild",
		}),
		SerialOffendersFound: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rebuild",
			Name:      "serial_offenders",
			Help:      "Number of serial offenders in the latest rebuild",
		}),
		AccountsSynthesized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rebuild",
			Name:      "accounts_synthesized_total",
			Help:      "Total number of placeholder promoter accounts synthesized",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulHarvest: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_harvest_timestamp",
			Help:      "Unix timestamp of last successful harvest batch",
		}),
		LastSuccessfulRebuild: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_rebuild_timestamp",
			Help:      "Unix timestamp of last successful catalog rebuild",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordMentionScored records one scored mention.
func RecordMentionScored(platform string, score int, promotional bool) {
	DefaultMetrics.MentionsHarvested.WithLabelValues(platform).Inc()
	DefaultMetrics.MentionScoreObserved.Observe(float64(score))
	if promotional {
		DefaultMetrics.MentionsPromotional.WithLabelValues(platform).Inc()
	}
}

// RecordHarvestError records a harvest error.
func RecordHarvestError(errorType string) {
	DefaultMetrics.HarvestErrors.WithLabelValues(errorType).Inc()
}

// RecordRebuildRun records a catalog rebuild run.
func RecordRebuildRun(status string, durationSeconds float64) {
	DefaultMetrics.RebuildRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.RebuildDuration.Observe(durationSeconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
