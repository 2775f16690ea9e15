package cache

import (
	"net/http"
	"time"
)

// DefaultTTL is the fallback TTL when a response carries no Expires header.
// Inventory collections change rarely between polls, so a short positive TTL
// keeps conditional requests cheap without serving stale pages for long.
const DefaultTTL = 5 * time.Minute

// Entry represents one cached page response.
type Entry struct {
	// Data is the accumulated response body of the page.
	Data []byte `json:"data"`

	// ETag for conditional requests (If-None-Match).
	ETag string `json:"etag"`

	// LastModified is the response's Last-Modified time, if any.
	LastModified time.Time `json:"last_modified"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`

	// CachedAt is when the entry was stored.
	CachedAt time.Time `json:"cached_at"`
}

// NewEntry builds a cache entry from a page response and its already
// accumulated body.
func NewEntry(resp *http.Response, body []byte) *Entry {
	entry := &Entry{
		Data:     body,
		ETag:     resp.Header.Get("ETag"),
		Expires:  parseExpires(resp.Header),
		CachedAt: time.Now(),
	}

	if lastModStr := resp.Header.Get("Last-Modified"); lastModStr != "" {
		if lastMod, err := http.ParseTime(lastModStr); err == nil {
			entry.LastModified = lastMod
		}
	}

	return entry
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// parseExpires parses the Expires header, falling back to DefaultTTL when
// the header is absent or unparseable.
func parseExpires(headers http.Header) time.Time {
	expiresStr := headers.Get("Expires")
	if expiresStr == "" {
		return time.Now().Add(DefaultTTL)
	}

	expires, err := http.ParseTime(expiresStr)
	if err != nil {
		return time.Now().Add(DefaultTTL)
	}

	if expires.Before(time.Now()) {
		return time.Now()
	}

	return expires
}
