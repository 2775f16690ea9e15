package cache

import (
	"net/http"
)

// ShouldMakeConditionalRequest determines if a page request should carry
// conditional headers (If-None-Match or If-Modified-Since) based on the
// cached entry.
func ShouldMakeConditionalRequest(entry *Entry) bool {
	if entry == nil {
		return false
	}
	return entry.ETag != "" || !entry.LastModified.IsZero()
}

// AddConditionalHeaders adds If-None-Match (ETag) or If-Modified-Since
// headers to the request if the cache entry supports conditional requests.
func AddConditionalHeaders(req *http.Request, entry *Entry) {
	if entry == nil || req == nil {
		return
	}

	// Prefer ETag over Last-Modified (more accurate).
	if entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	} else if !entry.LastModified.IsZero() {
		req.Header.Set("If-Modified-Since", entry.LastModified.Format(http.TimeFormat))
	}
}
