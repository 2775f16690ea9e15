// Package metrics provides the centralized Prometheus metrics registry for
// the inventory client. All metrics are defined in their respective packages
// (client, pagination, inventory, cache) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the inventory client.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - inventory_requests_total{endpoint, status} (Counter): Page requests by endpoint and HTTP status
//   - inventory_request_duration_seconds{endpoint} (Histogram): Page request duration by endpoint
//   - inventory_errors_total{class} (Counter): Client errors by class (transport, status)
//
// Pagination Metrics (pkg/pagination):
//   - inventory_pages_fetched_total (Counter): Pages fetched successfully
//   - inventory_page_errors_total (Counter): Page fetches that failed
//   - inventory_records_emitted_total (Counter): Records delivered to consumers
//
// Decoding Metrics (pkg/inventory):
//   - inventory_decode_errors_total (Counter): Page bodies that failed decoding
//   - inventory_record_errors_total (Counter): Raw records that failed validation
//
// Cache Metrics (pkg/cache):
//   - inventory_cache_hits_total{layer="redis"} (Counter): Page cache hits by layer
//   - inventory_cache_misses_total (Counter): Page cache misses
//   - inventory_cache_size_bytes{layer="redis"} (Gauge): Bytes written to the cache
//   - inventory_304_responses_total (Counter): 304 Not Modified page responses
//   - inventory_conditional_requests_total (Counter): Conditional requests sent with If-None-Match
//   - inventory_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(inventory_cache_hits_total[5m])) /
//   (sum(rate(inventory_cache_hits_total[5m])) + sum(rate(inventory_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(inventory_errors_total[5m])
//
//   # P95 Page Request Latency
//   histogram_quantile(0.95, rate(inventory_request_duration_seconds_bucket[5m]))
//
//   # Records Throughput
//   rate(inventory_records_emitted_total[5m])
