package controller

import (
	"github.com/nobletooth/kvcache/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kvcache_events_total",
		Help: "Total number of events emitted by the active cache engine.",
	}, []string{"policy", "action" /* added | evicted | accessed */})
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kvcache_lookups_total",
		Help: "Total number of cache lookups.",
	}, []string{"policy", "status" /* hit | miss */})
	cacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kvcache_entries",
		Help: "Number of entries held by the active cache engine.",
	})
)

func recordLookup(policy cache.Policy, found bool) {
	status := "miss"
	if found {
		status = "hit"
	}
	cacheLookups.WithLabelValues(policy.String(), status).Inc()
}
