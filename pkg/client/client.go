// Package client provides the core inventory HTTP client with basic
// authentication, page fetching, optional response caching, and error
// handling.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sternwerk/inventory-client/pkg/cache"
)

// Prometheus metrics for inventory client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_requests_total",
		Help: "Total inventory requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_request_duration_seconds",
		Help:    "Inventory request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_errors_total",
		Help: "Total inventory client errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of fetch errors.
type ErrorClass string

const (
	// ErrorClassTransport represents network/timeout errors.
	ErrorClassTransport ErrorClass = "transport"

	// ErrorClassStatus represents responses with status >= 300.
	ErrorClassStatus ErrorClass = "status"
)

// Default configuration values.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultPageSize     = 100
	DefaultMaxBodyBytes = 8 << 20 // 8 MiB per page response
	DefaultUserAgent    = "inventory-client/0.1.0"
)

// Client is the inventory API HTTP client. It issues one GET per page,
// strictly sequentially per caller, and never follows redirects: any
// response with status >= 300 is a fetch failure.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// EndpointURL is the API base URL. It must use the https scheme, have
	// an empty or root path, and must not embed credentials.
	EndpointURL string

	// Username and Password form the HTTP basic auth credential pair.
	// Username must not contain ':' (the basic auth separator).
	Username string
	Password string

	// ResourcePath is the API path of the target collection,
	// e.g. "/api/v1/devices".
	ResourcePath string

	// QueryParams are fixed query parameters sent with every page request.
	// They are copied per request and extended with offset and limit.
	QueryParams url.Values

	// PageSize is the limit used for every page request. Must be positive.
	PageSize int

	// Timeout is the per-request HTTP timeout (default: DefaultTimeout).
	Timeout time.Duration

	// UserAgent is sent with every request (default: DefaultUserAgent).
	UserAgent string

	// MaxBodyBytes caps the size of an accepted page response body
	// (default: DefaultMaxBodyBytes). Larger bodies fail the fetch.
	MaxBodyBytes int64

	// Redis optionally enables the ETag page cache. Nil disables caching.
	Redis *redis.Client
}

// DefaultConfig returns a configuration with safe defaults for the given
// endpoint and credential pair.
func DefaultConfig(endpointURL, username, password string) Config {
	return Config{
		EndpointURL:  endpointURL,
		Username:     username,
		Password:     password,
		PageSize:     DefaultPageSize,
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// New creates a new inventory client. Configuration is validated
// synchronously; a *ConfigError is returned before any network activity.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.EndpointURL)
	if err != nil {
		return nil, &ConfigError{Option: "endpoint_url", Reason: fmt.Sprintf("not a valid URL: %v", err)}
	}

	if base.Scheme != "https" {
		return nil, &ConfigError{Option: "endpoint_url", Reason: fmt.Sprintf("scheme must be https (got %q)", base.Scheme)}
	}

	if base.Host == "" {
		return nil, &ConfigError{Option: "endpoint_url", Reason: "host is required"}
	}

	if base.Path != "" && base.Path != "/" {
		return nil, &ConfigError{Option: "endpoint_url", Reason: fmt.Sprintf("path must be empty or root (got %q)", base.Path)}
	}

	if base.User != nil {
		return nil, &ConfigError{Option: "endpoint_url", Reason: "must not embed credentials"}
	}

	if cfg.Username == "" {
		return nil, &ConfigError{Option: "username", Reason: "is required"}
	}

	if strings.Contains(cfg.Username, ":") {
		return nil, &ConfigError{Option: "username", Reason: "must not contain ':'"}
	}

	if cfg.ResourcePath == "" {
		return nil, &ConfigError{Option: "resource_path", Reason: "is required"}
	}

	if cfg.PageSize <= 0 {
		return nil, &ConfigError{Option: "page_size", Reason: fmt.Sprintf("must be positive (got %d)", cfg.PageSize)}
	}

	if !strings.HasPrefix(cfg.ResourcePath, "/") {
		cfg.ResourcePath = "/" + cfg.ResourcePath
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	logger := log.With().Str("component", "inventory-client").Logger()

	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		cacheManager = cache.NewManager(cfg.Redis)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			// Redirects are not followed; 3xx statuses surface as
			// StatusError like any other non-success response.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL: base,
		cache:   cacheManager,
		config:  cfg,
		logger:  logger,
	}, nil
}

// FetchPage issues one GET for a limit-sized slice of the collection at the
// given offset and returns the accumulated response body. It reports exactly
// one outcome per invocation: the body of a successful page, or an error.
func (c *Client) FetchPage(ctx context.Context, offset, limit int) ([]byte, error) {
	endpoint := c.config.ResourcePath

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	u := *c.baseURL
	u.Path = endpoint
	q := url.Values{}
	for name, values := range c.config.QueryParams {
		for _, v := range values {
			q.Add(name, v)
		}
	}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	req.SetBasicAuth(c.config.Username, c.config.Password)
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	// Check cache and make the request conditional on a hit.
	var cached *cache.Entry
	cacheKey := cache.Key{Endpoint: endpoint, QueryParams: q}
	if c.cache != nil {
		cached, err = c.cache.Get(ctx, cacheKey)
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
		if cache.ShouldMakeConditionalRequest(cached) {
			cache.AddConditionalHeaders(req, cached)
			cache.ConditionalRequestsSent.Inc()
			c.logger.Debug().
				Str("endpoint", endpoint).
				Int("offset", offset).
				Str("etag", cached.ETag).
				Msg("Making conditional page request")
		}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("offset", offset).
		Int("limit", limit).
		Msg("Fetching inventory page")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Page request failed")
		errorsTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	// 304 Not Modified answers a conditional request from cache.
	if resp.StatusCode == http.StatusNotModified && cached != nil {
		drainBody(resp.Body)
		requestsTotal.WithLabelValues(endpoint, "304").Inc()
		cache.NotModifiedResponses.Inc()
		c.logger.Debug().Str("endpoint", endpoint).Int("offset", offset).Msg("304 Not Modified - using cached page")

		if expiresStr := resp.Header.Get("Expires"); expiresStr != "" {
			if newExpires, err := http.ParseTime(expiresStr); err == nil {
				if err := c.cache.UpdateTTL(ctx, cacheKey, newExpires); err != nil {
					c.logger.Warn().Err(err).Msg("Failed to update cache TTL")
				}
			}
		}

		return cached.Data, nil
	}

	if resp.StatusCode >= 300 {
		// Drain before reporting so the connection can be reused.
		drainBody(resp.Body)
		errorsTotal.WithLabelValues(string(ErrorClassStatus)).Inc()
		requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("offset", offset).
			Int("status", resp.StatusCode).
			Msg("Page request returned non-success status")
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Endpoint: endpoint}
	}

	body, err := c.readBody(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
		requestsTotal.WithLabelValues(endpoint, "body_error").Inc()
		return nil, err
	}

	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if c.cache != nil && resp.StatusCode == http.StatusOK {
		entry := cache.NewEntry(resp, body)
		if entry.TTL() > 0 {
			if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to cache page response")
			}
		}
	}

	return body, nil
}

// readBody accumulates the full response body, enforcing the configured cap.
func (c *Client) readBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, c.config.MaxBodyBytes+1))
	if err != nil {
		return nil, &TransportError{Endpoint: c.config.ResourcePath, Err: err}
	}
	if int64(len(body)) > c.config.MaxBodyBytes {
		return nil, fmt.Errorf("%w (cap %d bytes)", ErrBodyTooLarge, c.config.MaxBodyBytes)
	}
	return body, nil
}

// drainBody discards the remainder of a response body to allow connection
// reuse.
func drainBody(r io.Reader) {
	_, _ = io.Copy(io.Discard, r)
}

// PageSize returns the configured page size.
func (c *Client) PageSize() int {
	return c.config.PageSize
}

// Close closes the client and releases resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// SetBaseURL overrides the endpoint base URL after validation (for testing).
func (c *Client) SetBaseURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	c.baseURL = u
	return nil
}

// GetCache returns the cache manager, or nil when caching is disabled
// (for testing).
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}
