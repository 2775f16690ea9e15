// Package pagination provides sequential offset/limit paging for inventory
// collection endpoints.
//
// The inventory API reports a total_count per page response; clients walk the
// collection by issuing bounded requests with increasing offsets until a page
// signals completion. This package implements that walk as a lazy pull-based
// sequence: pages are fetched strictly one at a time, and page N+1 is never
// requested before page N's records have been consumed.
//
// Example usage:
//
//	fetch := func(ctx context.Context, offset, limit int) (*pagination.PageResult[Device], error) {
//		// issue one bounded request and decode it
//	}
//	pager := pagination.New(fetch, 100)
//	for pager.Next(ctx) {
//		handle(pager.Item())
//	}
//	if err := pager.Err(); err != nil {
//		// a fetch error is terminal for the whole sequence
//	}
//
// The pager:
//   - Starts at offset 0 and advances by the page size after each page
//   - Emits a terminal page's records before completing
//   - Surfaces the first fetch error and requests nothing further
//   - Never prefetches or buffers beyond the current page
package pagination
