package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the detail requests in flight for one page.
const DefaultConcurrency = 8

var (
	// ErrNoMorePages is returned by Next after the last page. No request is made.
	ErrNoMorePages = errors.New("no more catalog pages")
	// ErrNoPreviousPage is returned by Previous on the first page.
	ErrNoPreviousPage = errors.New("already on the first catalog page")
	// ErrStale is returned when a newer navigation superseded the request. Its results were
	// not made visible.
	ErrStale = errors.New("catalog request superseded")
)

// State is the lifecycle state of the page being requested.
type State int

const (
	StateIdle State = iota
	StateLoadingPage
	StatePageReady
	StateLoadingDetails
	StateDetailsReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingPage:
		return "loading page"
	case StatePageReady:
		return "page ready"
	case StateLoadingDetails:
		return "loading details"
	case StateDetailsReady:
		return "details ready"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// DetailResult pairs a page item with its detail or the error fetching it.
type DetailResult struct {
	Item   Item
	ID     int
	Detail *Detail
	Err    error
}

// PageView is a page ready for display.
type PageView struct {
	Index       int
	Count       int
	Results     []DetailResult
	HasNext     bool
	HasPrevious bool
}

// Failed returns the number of items whose detail could not be fetched.
func (v *PageView) Failed() int {
	failed := 0
	for _, r := range v.Results {
		if r.Err != nil {
			failed++
		}
	}
	return failed
}

// BrowserOptions configures a Browser.
type BrowserOptions struct {
	// Concurrency bounds parallel detail requests. Zero uses DefaultConcurrency.
	Concurrency int
	// StrictDetails fails the whole page when any detail request fails instead of showing the
	// page with per-item errors.
	StrictDetails bool
	// StartOffset is the catalog offset of the first page of the session.
	StartOffset int
}

func (o BrowserOptions) firstCursor() string {
	if o.StartOffset <= 0 {
		return ""
	}
	return strconv.Itoa(o.StartOffset)
}

// Browser pages through the catalog. Pages are fetched into one contiguous run starting at
// index 0 and kept for the session, so moving backward never refetches. Only the results of the
// latest navigation are made visible.
type Browser struct {
	client Client
	opts   BrowserOptions

	mu         sync.Mutex
	state      State
	lastErr    error
	generation uint64
	pages      []*Page
	views      []*PageView
	details    map[string]*Detail
	visible    int
}

func NewBrowser(client Client, opts BrowserOptions) *Browser {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Browser{
		client:  client,
		opts:    opts,
		state:   StateIdle,
		details: map[string]*Detail{},
	}
}

// State returns the state of the latest navigation.
func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Err returns the error that put the browser into StateError.
func (b *Browser) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Current returns the visible page, or nil before the first page is ready.
func (b *Browser) Current() *PageView {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.visible == 0 {
		return nil
	}
	return b.views[b.visible-1]
}

// HasNext reports whether Next may load another page.
func (b *Browser) HasNext() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasNextLocked()
}

// HasPrevious reports whether Previous can step back.
func (b *Browser) HasPrevious() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible > 1
}

func (b *Browser) hasNextLocked() bool {
	if b.visible == 0 {
		return true
	}
	return b.pages[b.visible-1].HasNext()
}

// Next makes the page after the visible one visible, fetching it if it was never loaded.
func (b *Browser) Next(ctx context.Context) (*PageView, error) {
	b.mu.Lock()
	index := b.visible
	if !b.hasNextLocked() {
		b.mu.Unlock()
		return nil, ErrNoMorePages
	}
	b.generation++
	gen := b.generation
	var page *Page
	cursor := b.opts.firstCursor()
	if index < len(b.pages) {
		page = b.pages[index]
	} else if index > 0 {
		cursor = b.pages[index-1].Next
	}
	b.mu.Unlock()

	if page == nil {
		b.setState(gen, StateLoadingPage)
		fetched, err := b.client.FetchPage(ctx, cursor)
		if err != nil {
			return nil, b.fail(gen, fmt.Errorf("client.FetchPage(%q) > %w", cursor, err))
		}

		b.mu.Lock()
		if len(b.pages) == index {
			b.pages = append(b.pages, fetched)
		}
		page = b.pages[index]
		if gen != b.generation {
			b.mu.Unlock()
			return nil, ErrStale
		}
		b.state = StatePageReady
		b.mu.Unlock()
	}

	return b.resolve(ctx, gen, index, page)
}

// Previous steps back one page without any request.
func (b *Browser) Previous() (*PageView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.visible <= 1 {
		return nil, ErrNoPreviousPage
	}
	b.generation++
	b.visible--
	b.state = StateDetailsReady
	b.lastErr = nil
	return b.views[b.visible-1], nil
}

// Reload fetches the details still missing on the visible page. Before the first page it
// behaves like Next.
func (b *Browser) Reload(ctx context.Context) (*PageView, error) {
	b.mu.Lock()
	if b.visible == 0 {
		b.mu.Unlock()
		return b.Next(ctx)
	}
	b.generation++
	gen := b.generation
	index := b.visible - 1
	page := b.pages[index]
	b.mu.Unlock()

	return b.resolve(ctx, gen, index, page)
}

// resolve fetches every uncached detail of page concurrently and commits the page as visible
// once all of them finished.
func (b *Browser) resolve(ctx context.Context, gen uint64, index int, page *Page) (*PageView, error) {
	b.setState(gen, StateLoadingDetails)

	results := make([]DetailResult, len(page.Items))
	b.mu.Lock()
	for i, item := range page.Items {
		results[i] = DetailResult{Item: item, ID: ExtractID(item.URL)}
		if detail, ok := b.details[detailKey(item)]; ok {
			results[i].Detail = detail
		}
	}
	b.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)
	for i := range results {
		if results[i].Detail != nil {
			continue
		}
		g.Go(func() error {
			detail, err := b.client.FetchDetail(gctx, detailKey(results[i].Item))
			if err != nil {
				results[i].Err = err
				if b.opts.StrictDetails {
					return fmt.Errorf("client.FetchDetail(%s) > %w", results[i].Item.Name, err)
				}
				slog.Default().Warn("catalog detail unavailable", slog.String("name", results[i].Item.Name), slog.Any("error", err))
				return nil
			}
			results[i].Detail = detail
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, b.fail(gen, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range results {
		if r.Detail != nil {
			b.details[detailKey(r.Item)] = r.Detail
		}
	}
	if gen != b.generation {
		return nil, ErrStale
	}

	view := &PageView{
		Index:       index,
		Count:       page.Count,
		Results:     results,
		HasNext:     page.HasNext(),
		HasPrevious: index > 0,
	}
	if index < len(b.views) {
		b.views[index] = view
	} else {
		b.views = append(b.views, view)
	}
	b.visible = index + 1
	b.state = StateDetailsReady
	b.lastErr = nil

	if failed := view.Failed(); failed > 0 {
		slog.Default().Warn("catalog page shown with missing details",
			slog.Int("page", index),
			slog.Int("failed", failed),
		)
	}
	return view, nil
}

func (b *Browser) setState(gen uint64, state State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen == b.generation {
		b.state = state
	}
}

// fail records err when gen is still the latest navigation.
func (b *Browser) fail(gen uint64, err error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation {
		return ErrStale
	}
	b.state = StateError
	b.lastErr = err
	return err
}

func detailKey(item Item) string {
	if item.URL != "" {
		return item.URL
	}
	return item.Name
}
