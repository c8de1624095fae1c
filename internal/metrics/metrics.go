// Package metrics exposes the Prometheus instruments of a reconciliation run.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "kverse"

var (
	// changeoutLinks counts change-outs by the strategy that linked them.
	// Labels: strategy (direct, asof, unmatched)
	changeoutLinks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "linker",
		Name:      "changeouts_total",
		Help:      "Change-outs processed by linkage strategy",
	}, []string{"strategy"})

	// linkageRatio is the share of change-outs of the last run per strategy.
	// Labels: strategy
	linkageRatio = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "linker",
		Name:      "ratio",
		Help:      "Share of change-outs linked by each strategy in the last run",
	}, []string{"strategy"})

	// normalizationWarnings counts recovered normalization issues.
	// Labels: kind (unparseable_hours, invalid_serial)
	normalizationWarnings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reparation",
		Name:      "normalization_warnings_total",
		Help:      "Normalization warnings absorbed while building repair sequences",
	}, []string{"kind"})

	// integrityErrors counts fatal data contradictions.
	// Labels: kind
	integrityErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "lifecycle",
		Name:      "integrity_errors_total",
		Help:      "Fatal data integrity errors raised by the part tracer",
	}, []string{"kind"})

	// stageDuration measures each pipeline stage.
	// Labels: stage
	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Duration of reconciliation pipeline stages",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"stage"})

	// rowsPublished counts curated rows written per table and target.
	// Labels: table, target (store, lake, collaboration)
	rowsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "publish",
		Name:      "rows_total",
		Help:      "Curated rows written per table and target",
	}, []string{"table", "target"})
)

// RecordLinkage records the outcome of a linkage run
func RecordLinkage(direct, asof, unmatched int) {
	changeoutLinks.WithLabelValues("direct").Add(float64(direct))
	changeoutLinks.WithLabelValues("asof").Add(float64(asof))
	changeoutLinks.WithLabelValues("unmatched").Add(float64(unmatched))

	total := float64(direct + asof + unmatched)
	if total == 0 {
		return
	}
	linkageRatio.WithLabelValues("direct").Set(float64(direct) / total)
	linkageRatio.WithLabelValues("asof").Set(float64(asof) / total)
	linkageRatio.WithLabelValues("unmatched").Set(float64(unmatched) / total)
}

// RecordNormalizationWarnings adds warnings of a kind
func RecordNormalizationWarnings(kind string, n int) {
	if n > 0 {
		normalizationWarnings.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordIntegrityError counts a fatal integrity error of a kind
func RecordIntegrityError(kind string) {
	integrityErrors.WithLabelValues(kind).Inc()
}

// ObserveStage records how long a stage took since start
func ObserveStage(stage string, start time.Time) {
	stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// RecordRowsPublished counts rows written to a target
func RecordRowsPublished(table, target string, n int) {
	rowsPublished.WithLabelValues(table, target).Add(float64(n))
}

// Push sends the default registry to a Pushgateway. An empty URL is a no-op.
func Push(ctx context.Context, url, job string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(prometheus.DefaultGatherer).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
