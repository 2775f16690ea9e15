package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key represents a unique identifier for a cached page response.
type Key struct {
	// Endpoint is the collection resource path (e.g. "/api/v1/devices").
	Endpoint string

	// QueryParams are the full query parameters of the page request,
	// including offset and limit, so every page window caches separately.
	QueryParams url.Values
}

// String generates a deterministic cache key string.
// Format: inv:endpoint:param1=val1:param2=val2
//
// Example:
//
//	inv:api/v1/devices:limit=100:offset=200:site=ber1
func (k Key) String() string {
	parts := []string{"inv"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Query params sorted for determinism.
	if len(k.QueryParams) > 0 {
		names := make([]string, 0, len(k.QueryParams))
		for name := range k.QueryParams {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, k.QueryParams.Get(name)))
		}
	}

	return strings.Join(parts, ":")
}
