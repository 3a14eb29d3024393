// Package observability exposes Prometheus metrics for the coaching service.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	reconcileCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coaching_service",
		Subsystem: "reconcile",
		Name:      "operations_total",
		Help:      "Reconciliation operations processed, labeled by aggregate and outcome.",
	}, []string{"aggregate", "outcome"})

	reconcileWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coaching_service",
		Subsystem: "reconcile",
		Name:      "row_writes_total",
		Help:      "Row level creates, updates, and deletes committed by reconciliations.",
	}, []string{"op"})

	commitGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "coaching_service",
		Subsystem: "persistence",
		Name:      "last_commit_timestamp_seconds",
		Help:      "Unix timestamp of the most recent committed write transaction.",
	})
)

func init() {
	prometheus.MustRegister(reconcileCounter, reconcileWrites, commitGauge)
}

// RecordReconcile counts one reconciliation attempt for an aggregate.
func RecordReconcile(aggregate, outcome string) {
	reconcileCounter.WithLabelValues(aggregate, outcome).Inc()
}

// RecordRowWrites counts committed row writes by kind.
func RecordRowWrites(created, updated, deleted int) {
	if created > 0 {
		reconcileWrites.WithLabelValues("create").Add(float64(created))
	}
	if updated > 0 {
		reconcileWrites.WithLabelValues("update").Add(float64(updated))
	}
	if deleted > 0 {
		reconcileWrites.WithLabelValues("delete").Add(float64(deleted))
	}
}

// RecordReconcileCommitted updates the commit watermark gauge.
func RecordReconcileCommitted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	commitGauge.Set(float64(ts.Unix()))
}
