// Invariants are conditions that must hold unless there is a bug in kvcache itself, e.g. an indexed cache key whose
// ordering node has gone missing. A violation is logged, counted in prometheus and, in test builds, turned into a
// panic so that tests fail loudly. Production code keeps running; the caller still has to handle the broken case
// (usually with an early return).
//
// Do not raise invariants for bad user input such as an empty key or a zero capacity; those are regular errors.

package utils

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	promclient "github.com/prometheus/client_model/go"
)

var invariantsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kvcache_invariants_total",
	Help: "The total number of invariant violations",
}, []string{
	"module", // The module in which this invariant occurred, e.g. lru.
	"type",   // The type of the invariant that occurred.
})

// RaiseInvariant records a violated invariant of `module`. Extra `args` are attached to the log record.
func RaiseInvariant(module, invariantType, msg string, args ...any) {
	invariantsMetric.WithLabelValues(module, invariantType).Inc()
	slog.With("invariant", invariantType, "module", module).Error(msg, args...)
	if IsTestMode {
		panic("invariant violated: " + invariantType)
	}
}

// GetInvariantCount returns how many times the invariant `invariantType` of `module` has been raised.
func GetInvariantCount(module, invariantType string) int {
	var metric = &promclient.Metric{}
	if err := invariantsMetric.WithLabelValues(module, invariantType).Write(metric); err != nil {
		slog.Error("Failed to read invariant metric.", "error", err)
		return 0
	}
	return int(metric.Counter.GetValue())
}
