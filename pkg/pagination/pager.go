package pagination

import (
	"context"
	"iter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for pagination operations.
var (
	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_pages_fetched_total",
		Help: "Total number of collection pages fetched successfully",
	})

	pageErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_page_errors_total",
		Help: "Total number of page fetches that failed",
	})

	recordsEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_records_emitted_total",
		Help: "Total number of records emitted to sequence consumers",
	})
)

// DefaultPageSize is used when a pager is created with a non-positive page size.
const DefaultPageSize = 100

// PageResult is the outcome of fetching a single page.
type PageResult[T any] struct {
	// Records holds the page's records in collection order. May be empty,
	// including on a terminal page.
	Records []T

	// Done is true when no further pages should be requested.
	Done bool
}

// FetchFunc fetches one page of a collection. It is invoked with the current
// offset and the constant page limit, and must report exactly one outcome:
// a page result or an error, never both.
type FetchFunc[T any] func(ctx context.Context, offset, limit int) (*PageResult[T], error)

// Pager walks a paginated collection one page at a time, in offset order.
// Records are delivered lazily: page N+1 is not requested before every record
// of page N has been consumed. A fetch error is terminal for the whole
// sequence; no records from the failing page are emitted and no further pages
// are requested.
//
// A Pager is single-use and not safe for concurrent use. Independent pagers
// may run in parallel against the same endpoint.
type Pager[T any] struct {
	fetch  FetchFunc[T]
	limit  int
	offset int
	page   []T
	pos    int
	item   T
	done   bool
	err    error
}

// New creates a pager over fetch with the given page size.
// A non-positive pageSize falls back to DefaultPageSize.
func New[T any](fetch FetchFunc[T], pageSize int) *Pager[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager[T]{
		fetch: fetch,
		limit: pageSize,
	}
}

// Next advances the pager to the next record, fetching the next page when the
// current one is exhausted. It returns false when the sequence is complete or
// a terminal error occurred; check Err to distinguish the two.
func (p *Pager[T]) Next(ctx context.Context) bool {
	if p.err != nil {
		return false
	}

	for {
		if p.pos < len(p.page) {
			p.item = p.page[p.pos]
			p.pos++
			recordsEmittedTotal.Inc()
			return true
		}

		if p.done {
			return false
		}

		result, err := p.fetch(ctx, p.offset, p.limit)
		if err != nil {
			pageErrorsTotal.Inc()
			log.Debug().
				Int("offset", p.offset).
				Int("limit", p.limit).
				Err(err).
				Msg("Page fetch failed")
			p.err = err
			return false
		}

		pagesFetchedTotal.Inc()
		log.Debug().
			Int("offset", p.offset).
			Int("limit", p.limit).
			Int("records", len(result.Records)).
			Bool("done", result.Done).
			Msg("Page fetched")

		p.page = result.Records
		p.pos = 0
		p.done = result.Done
		if !result.Done {
			// Offset advances only after a page completes successfully.
			p.offset += p.limit
		}
	}
}

// Item returns the record produced by the last successful call to Next.
func (p *Pager[T]) Item() T {
	return p.item
}

// Err returns the terminal error of the sequence, or nil if the pager has not
// failed. Once non-nil it never changes and Next always returns false.
func (p *Pager[T]) Err() error {
	return p.err
}

// Offset returns the offset of the next page to be requested.
func (p *Pager[T]) Offset() int {
	return p.offset
}

// All returns the remaining records as a single-use iterator. A terminal
// error is yielded as the final element; iteration then stops.
func (p *Pager[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for p.Next(ctx) {
			if !yield(p.Item(), nil) {
				return
			}
		}
		if err := p.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// Collect drains the sequence into a slice. Intended for small collections;
// large collections should be consumed through Next or All instead.
func (p *Pager[T]) Collect(ctx context.Context) ([]T, error) {
	var records []T
	for p.Next(ctx) {
		records = append(records, p.Item())
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
