// Package inventory exposes the remote device inventory as lazy sequences of
// decoded records, wiring the HTTP page fetcher, the page decoder, and the
// record adapter together.
package inventory

import (
	"context"
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sternwerk/inventory-client/pkg/client"
	"github.com/sternwerk/inventory-client/pkg/pagination"
)

// Prometheus metrics for inventory decoding.
var (
	decodeErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_decode_errors_total",
		Help: "Total number of page responses that failed decoding",
	})

	recordErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_record_errors_total",
		Help: "Total number of raw records that failed validation",
	})
)

// Client walks inventory collections page by page. Each sequence returned by
// Devices or Raw owns its own offset state, so independent sequences may run
// in parallel against the same endpoint.
type Client struct {
	http     *client.Client
	pageSize int
	logger   zerolog.Logger
}

// NewClient creates an inventory client. Configuration is validated
// synchronously; a *client.ConfigError is returned before any network
// activity.
func NewClient(cfg client.Config) (*Client, error) {
	httpClient, err := client.New(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:     httpClient,
		pageSize: cfg.PageSize,
		logger:   log.With().Str("component", "inventory").Logger(),
	}, nil
}

// Devices returns a lazy sequence of validated devices. The sequence issues
// one GET per page, strictly sequentially, and terminates either when a page
// reports completion or with a single terminal error. A record that fails
// validation fails the whole sequence; it is not silently skipped.
func (c *Client) Devices() *pagination.Pager[Device] {
	fetch := func(ctx context.Context, offset, limit int) (*pagination.PageResult[Device], error) {
		page, err := c.fetchRaw(ctx, offset, limit)
		if err != nil {
			return nil, err
		}

		devices := make([]Device, 0, len(page.Records))
		for _, raw := range page.Records {
			device, err := ToDevice(raw)
			if err != nil {
				recordErrorsTotal.Inc()
				c.logger.Warn().Err(err).Int("offset", offset).Msg("Record validation failed")
				return nil, err
			}
			devices = append(devices, device)
		}

		return &pagination.PageResult[Device]{Records: devices, Done: page.Done}, nil
	}

	return pagination.New(fetch, c.pageSize)
}

// Raw returns a lazy sequence of undecoded records for callers that do their
// own mapping.
func (c *Client) Raw() *pagination.Pager[json.RawMessage] {
	return pagination.New(c.fetchRaw, c.pageSize)
}

// fetchRaw fetches and decodes one page.
func (c *Client) fetchRaw(ctx context.Context, offset, limit int) (*pagination.PageResult[json.RawMessage], error) {
	body, err := c.http.FetchPage(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	page, err := DecodePage(body)
	if err != nil {
		decodeErrorsTotal.Inc()
		c.logger.Warn().Err(err).Int("offset", offset).Msg("Page decode failed")
		return nil, err
	}

	return page, nil
}

// HTTP returns the underlying transport client (for testing).
func (c *Client) HTTP() *client.Client {
	return c.http
}

// Close closes the client and releases resources.
func (c *Client) Close() error {
	return c.http.Close()
}
