package pagination

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// scriptedPage describes one page a fake fetch function serves.
type scriptedPage struct {
	records []int
	done    bool
	err     error
}

// call records one invocation of a fake fetch function.
type call struct {
	offset int
	limit  int
}

// scriptedFetch returns a FetchFunc serving the given pages in order and
// recording every invocation.
func scriptedFetch(t *testing.T, pages []scriptedPage, calls *[]call) FetchFunc[int] {
	t.Helper()

	page := 0
	return func(ctx context.Context, offset, limit int) (*PageResult[int], error) {
		*calls = append(*calls, call{offset: offset, limit: limit})

		if page >= len(pages) {
			t.Fatalf("fetch called beyond scripted pages (offset %d)", offset)
		}
		p := pages[page]
		page++

		if p.err != nil {
			return nil, p.err
		}
		return &PageResult[int]{Records: p.records, Done: p.done}, nil
	}
}

func TestPager_WalksPagesInOffsetOrder(t *testing.T) {
	// total=250, limit=100: pages at offset 0, 100 and a short terminal
	// page of 50 at offset 200.
	pages := []scriptedPage{
		{records: seq(0, 100)},
		{records: seq(100, 100)},
		{records: seq(200, 50), done: true},
	}

	var calls []call
	pager := New(scriptedFetch(t, pages, &calls), 100)

	got, err := pager.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(got) != 250 {
		t.Fatalf("Collect() returned %d records, want 250", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("record %d = %d, want %d (out of order delivery)", i, v, i)
		}
	}

	wantCalls := []call{{0, 100}, {100, 100}, {200, 100}}
	if len(calls) != len(wantCalls) {
		t.Fatalf("fetch called %d times, want %d", len(calls), len(wantCalls))
	}
	for i, c := range calls {
		if c != wantCalls[i] {
			t.Errorf("call %d = %+v, want %+v", i, c, wantCalls[i])
		}
	}
}

func TestPager_NoPrefetch(t *testing.T) {
	pages := []scriptedPage{
		{records: []int{1, 2}},
		{records: []int{3}, done: true},
	}

	var calls []call
	pager := New(scriptedFetch(t, pages, &calls), 2)
	ctx := context.Background()

	if !pager.Next(ctx) {
		t.Fatal("Next() = false on first record")
	}
	if len(calls) != 1 {
		t.Fatalf("after first record %d pages fetched, want 1", len(calls))
	}

	// Second record is still on page one; no second request may be issued.
	if !pager.Next(ctx) {
		t.Fatal("Next() = false on second record")
	}
	if len(calls) != 1 {
		t.Fatalf("page 2 requested before page 1 was consumed (%d calls)", len(calls))
	}

	if !pager.Next(ctx) {
		t.Fatal("Next() = false on third record")
	}
	if len(calls) != 2 {
		t.Fatalf("after third record %d pages fetched, want 2", len(calls))
	}
}

func TestPager_TerminalPageEmitsRecords(t *testing.T) {
	pages := []scriptedPage{
		{records: []int{7, 8, 9}, done: true},
	}

	var calls []call
	pager := New(scriptedFetch(t, pages, &calls), 10)

	got, err := pager.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("terminal page yielded %d records, want 3", len(got))
	}
	if len(calls) != 1 {
		t.Fatalf("fetch called %d times after done page, want 1", len(calls))
	}
}

func TestPager_EmptyTerminalPage(t *testing.T) {
	pages := []scriptedPage{
		{records: nil, done: true},
	}

	var calls []call
	pager := New(scriptedFetch(t, pages, &calls), 50)

	if pager.Next(context.Background()) {
		t.Fatal("Next() = true on empty terminal collection")
	}
	if err := pager.Err(); err != nil {
		t.Fatalf("Err() = %v on empty terminal collection", err)
	}
}

func TestPager_FetchErrorIsTerminal(t *testing.T) {
	fetchErr := errors.New("boom")
	pages := []scriptedPage{
		{records: []int{1, 2}},
		{err: fetchErr},
	}

	var calls []call
	pager := New(scriptedFetch(t, pages, &calls), 2)
	ctx := context.Background()

	var got []int
	for pager.Next(ctx) {
		got = append(got, pager.Item())
	}

	if !errors.Is(pager.Err(), fetchErr) {
		t.Fatalf("Err() = %v, want %v", pager.Err(), fetchErr)
	}
	if len(got) != 2 {
		t.Fatalf("emitted %d records before failure, want 2 (failing page must emit none)", len(got))
	}

	// The error is sticky: further Next calls fail fast without fetching.
	if pager.Next(ctx) {
		t.Fatal("Next() = true after terminal error")
	}
	if len(calls) != 2 {
		t.Fatalf("fetch called %d times, want 2 (no requests after failure)", len(calls))
	}
}

func TestPager_EmptyNonTerminalPageAdvances(t *testing.T) {
	pages := []scriptedPage{
		{records: nil},
		{records: []int{5}, done: true},
	}

	var calls []call
	pager := New(scriptedFetch(t, pages, &calls), 10)

	got, err := pager.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 1 || got[0] != 5 {
		t.Fatalf("Collect() = %v, want [5]", got)
	}
	if calls[1].offset != 10 {
		t.Fatalf("second call offset = %d, want 10", calls[1].offset)
	}
}

func TestPager_DefaultPageSize(t *testing.T) {
	var calls []call
	pages := []scriptedPage{{records: nil, done: true}}
	pager := New(scriptedFetch(t, pages, &calls), 0)

	pager.Next(context.Background())

	if calls[0].limit != DefaultPageSize {
		t.Fatalf("limit = %d, want default %d", calls[0].limit, DefaultPageSize)
	}
}

func TestPager_All(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		pages := []scriptedPage{
			{records: []int{1, 2}},
			{records: []int{3}, done: true},
		}
		var calls []call
		pager := New(scriptedFetch(t, pages, &calls), 2)

		var got []int
		for v, err := range pager.All(context.Background()) {
			if err != nil {
				t.Fatalf("unexpected iteration error: %v", err)
			}
			got = append(got, v)
		}
		if fmt.Sprint(got) != "[1 2 3]" {
			t.Fatalf("All() yielded %v, want [1 2 3]", got)
		}
	})

	t.Run("error yielded last", func(t *testing.T) {
		fetchErr := errors.New("boom")
		pages := []scriptedPage{
			{records: []int{1}},
			{err: fetchErr},
		}
		var calls []call
		pager := New(scriptedFetch(t, pages, &calls), 1)

		var got []int
		var gotErr error
		for v, err := range pager.All(context.Background()) {
			if err != nil {
				gotErr = err
				continue
			}
			got = append(got, v)
		}
		if len(got) != 1 {
			t.Fatalf("All() yielded %d records before error, want 1", len(got))
		}
		if !errors.Is(gotErr, fetchErr) {
			t.Fatalf("All() error = %v, want %v", gotErr, fetchErr)
		}
	})

	t.Run("early break stops fetching", func(t *testing.T) {
		pages := []scriptedPage{
			{records: []int{1, 2}},
			{records: []int{3}, done: true},
		}
		var calls []call
		pager := New(scriptedFetch(t, pages, &calls), 2)

		for v, err := range pager.All(context.Background()) {
			_ = err
			if v == 1 {
				break
			}
		}
		if len(calls) != 1 {
			t.Fatalf("fetch called %d times after early break, want 1", len(calls))
		}
	})
}

// seq returns n consecutive ints starting at start.
func seq(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}
