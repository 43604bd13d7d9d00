// Package assembler accumulates cursor-paginated pages into one ordered
// list for infinite-scroll style consumers.
package assembler

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrFetchInProgress is returned when FetchMore is called while another
	// fetch is still outstanding.
	ErrFetchInProgress = errors.New("assembler: fetch already in progress")
	// ErrExhausted is returned once the last page has been loaded.
	ErrExhausted = errors.New("assembler: no more pages")
)

// firstPage keys the page requested without a cursor
const firstPage = ""

// Page is one server response: the items and the cursor for the next page,
// nil when there is none.
type Page[T any] struct {
	Items      []T
	NextCursor *string
}

// FetchFunc loads the page that starts at cursor. A nil cursor requests the
// first page.
type FetchFunc[T any] func(ctx context.Context, cursor *string) (Page[T], error)

// Assembler is safe for concurrent use. At most one fetch runs at a time.
type Assembler[T any] struct {
	fetch FetchFunc[T]

	mu         sync.Mutex
	pages      map[string][]T
	order      []string
	next       *string
	exhausted  bool
	inFlight   bool
	generation uint64
}

// New creates an empty assembler backed by fetch
func New[T any](fetch FetchFunc[T]) *Assembler[T] {
	return &Assembler[T]{
		fetch: fetch,
		pages: make(map[string][]T),
	}
}

// FetchMore loads the page for the current cursor and appends it.
func (a *Assembler[T]) FetchMore(ctx context.Context) error {
	a.mu.Lock()
	if a.inFlight {
		a.mu.Unlock()
		return ErrFetchInProgress
	}
	if a.exhausted {
		a.mu.Unlock()
		return ErrExhausted
	}
	a.inFlight = true
	cursor := a.next
	generation := a.generation
	a.mu.Unlock()

	page, err := a.fetch(ctx, cursor)

	a.mu.Lock()
	defer a.mu.Unlock()

	// A Reset during the fetch already cleared inFlight for the new generation
	if generation != a.generation {
		return nil
	}
	a.inFlight = false
	if err != nil {
		return err
	}

	key := firstPage
	if cursor != nil {
		key = *cursor
	}
	if _, seen := a.pages[key]; !seen {
		a.order = append(a.order, key)
	}
	a.pages[key] = page.Items
	a.next = page.NextCursor
	a.exhausted = page.NextCursor == nil
	return nil
}

// Items returns every loaded item in page order. Items repeated across pages
// are returned as many times as they were served.
func (a *Assembler[T]) Items() []T {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flatten(false)
}

// ItemsBackward returns every loaded item with the last loaded page first.
// Feeds whose cursor walks toward older items, such as comment threads that
// are displayed oldest at the top, read in this order.
func (a *Assembler[T]) ItemsBackward() []T {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flatten(true)
}

func (a *Assembler[T]) flatten(backward bool) []T {
	var n int
	for _, key := range a.order {
		n += len(a.pages[key])
	}
	items := make([]T, 0, n)
	for i := range a.order {
		key := a.order[i]
		if backward {
			key = a.order[len(a.order)-1-i]
		}
		items = append(items, a.pages[key]...)
	}
	return items
}

// PageCount returns the number of loaded pages
func (a *Assembler[T]) PageCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.order)
}

// HasMore reports whether another FetchMore could load new items
func (a *Assembler[T]) HasMore() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.exhausted
}

// Loading reports whether a fetch is outstanding
func (a *Assembler[T]) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inFlight
}

// Reset drops all pages so the next FetchMore starts from the first page.
// The result of a fetch still outstanding is discarded.
func (a *Assembler[T]) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pages = make(map[string][]T)
	a.order = nil
	a.next = nil
	a.exhausted = false
	a.inFlight = false
	a.generation++
}
