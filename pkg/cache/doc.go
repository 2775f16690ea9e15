// Package cache provides inventory page caching with a Redis backend.
//
// Paginated inventory collections are large and mostly static between polls,
// so the client caches each page window's response body keyed by resource
// path and query parameters (offset and limit included). When a cached entry
// carries an ETag or Last-Modified time, the next fetch of the same window is
// made conditional and a 304 Not Modified answer is served from cache.
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create cache manager
//	manager := cache.NewManager(redisClient)
//
//	// Create cache key
//	key := cache.Key{
//		Endpoint:    "/api/v1/devices",
//		QueryParams: url.Values{"offset": []string{"0"}, "limit": []string{"100"}},
//	}
//
//	// Get from cache
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// Cache miss - fetch the page
//	}
//
// # Conditional Requests
//
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//		// a 304 response means the cached page body is still current
//	}
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - inventory_cache_hits_total{layer="redis"} - Cache hits
//   - inventory_cache_misses_total - Cache misses
//   - inventory_cache_size_bytes{layer="redis"} - Bytes written
//   - inventory_304_responses_total - Conditional request successes
//   - inventory_conditional_requests_total - Conditional requests sent
//   - inventory_cache_errors_total{operation} - Cache operation errors
package cache
