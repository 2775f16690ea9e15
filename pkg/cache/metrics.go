package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by layer (redis).
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_cache_hits_total",
			Help: "Total number of page cache hits",
		},
		[]string{"layer"}, // "redis"
	)

	// CacheMisses tracks cache misses.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_cache_misses_total",
			Help: "Total number of page cache misses",
		},
	)

	// CacheSize tracks bytes written to the cache by layer.
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inventory_cache_size_bytes",
			Help: "Bytes written to the page cache",
		},
		[]string{"layer"}, // "redis"
	)

	// NotModifiedResponses tracks 304 Not Modified responses.
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_304_responses_total",
			Help: "Total number of 304 Not Modified page responses",
		},
	)

	// ConditionalRequestsSent tracks conditional page requests sent.
	ConditionalRequestsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_conditional_requests_total",
			Help: "Total number of conditional page requests sent with If-None-Match",
		},
	)

	// CacheErrors tracks cache operation errors.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
