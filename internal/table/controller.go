package table

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/contratos/internal/api"
)

// DefaultFetchError is shown for failed fetches when Spec.FetchError is empty.
const DefaultFetchError = "Não foi possível carregar os registros."

// Fetcher loads one page of T for a query.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, q Query) (Page[T], error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc[T any] func(ctx context.Context, q Query) (Page[T], error)

// Fetch calls f.
func (f FetcherFunc[T]) Fetch(ctx context.Context, q Query) (Page[T], error) {
	return f(ctx, q)
}

// Controller owns the query state and cached page of one remote table.
//
// Every change to the query issues exactly one fetch. Fetches are numbered;
// a response that is not the latest is dropped, so the cache always reflects
// the most recent query that resolved. All methods are safe for concurrent use.
type Controller[T any] struct {
	spec    Spec[T]
	fetcher Fetcher[T]
	opts    options
	logger  *slog.Logger

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu       sync.Mutex
	query    Query
	typed    string
	page     Page[T]
	loading  bool
	errMsg   string
	seq      uint64
	cancel   context.CancelFunc
	timer    Stopper
	timerGen uint64
	onChange func()
	closed   bool
}

// New creates a controller. No fetch is issued until Refresh or a query change.
func New[T any](spec Spec[T], fetcher Fetcher[T], opts ...Option) *Controller[T] {
	o := buildOptions(opts)
	if spec.FetchError == "" {
		spec.FetchError = DefaultFetchError
	}
	base, stop := context.WithCancel(context.Background())
	return &Controller[T]{
		spec:    spec,
		fetcher: fetcher,
		opts:    o,
		logger:  o.logger.With("table", spec.Name),
		base:    base,
		stop:    stop,
		query:   Query{PageSize: o.pageSize},
		page:    Page[T]{Rows: []T{}},
	}
}

// OnChange registers fn to run after every change that affects the view.
// It is called without the controller lock held.
func (c *Controller[T]) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Spec returns the controller's configuration.
func (c *Controller[T]) Spec() Spec[T] {
	return c.spec
}

// Query returns a copy of the current query state.
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.clone()
}

// Refresh fetches the current query again.
func (c *Controller[T]) Refresh() {
	c.mutate(func() bool { return true })
}

// Reset moves to the first page and fetches it. Used after a write.
func (c *Controller[T]) Reset() {
	c.mutate(func() bool {
		c.query.PageIndex = 0
		return true
	})
}

// Search records typed text. The text is committed once no further call
// arrives within the debounce delay.
func (c *Controller[T]) Search(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.typed = text
	c.stopTimerLocked()
	gen := c.timerGen
	c.timer = c.opts.afterFunc(c.opts.debounce, func() {
		c.commitDebounced(gen)
	})
	hook := c.onChange
	c.mu.Unlock()
	notify(hook)
}

// CommitSearch commits text immediately, cancelling any pending debounce.
func (c *Controller[T]) CommitSearch(text string) {
	c.mutate(func() bool {
		c.stopTimerLocked()
		c.typed = text
		return c.commitSearchLocked(text)
	})
}

func (c *Controller[T]) commitDebounced(gen uint64) {
	c.mutate(func() bool {
		if gen != c.timerGen {
			return false
		}
		c.timer = nil
		return c.commitSearchLocked(c.typed)
	})
}

func (c *Controller[T]) commitSearchLocked(text string) bool {
	s := strings.TrimSpace(text)
	if s == c.query.Search {
		return false
	}
	c.query.Search = s
	c.query.PageIndex = 0
	return true
}

// ToggleSort cycles the column identified by key through ascending,
// descending and unsorted. Sorting by another column replaces the sort.
func (c *Controller[T]) ToggleSort(key string) error {
	col, ok := c.spec.column(key)
	if !ok || !col.Sortable {
		return fmt.Errorf("%w: %q", ErrNotSortable, key)
	}
	field := col.SortName()
	c.mutate(func() bool {
		switch {
		case len(c.query.Sort) == 0 || c.query.Sort[0].Field != field:
			c.query.Sort = []SortKey{{Field: field}}
		case !c.query.Sort[0].Desc:
			c.query.Sort = []SortKey{{Field: field, Desc: true}}
		default:
			c.query.Sort = nil
		}
		c.query.PageIndex = 0
		return true
	})
	return nil
}

// SetPage moves to page i, clamped to the known page range.
func (c *Controller[T]) SetPage(i int) {
	c.mutate(func() bool {
		last := PageCount(c.page.Total, c.query.PageSize) - 1
		i = max(0, min(i, last))
		if i == c.query.PageIndex {
			return false
		}
		c.query.PageIndex = i
		return true
	})
}

// NextPage moves one page forward.
func (c *Controller[T]) NextPage() { c.SetPage(c.Query().PageIndex + 1) }

// PrevPage moves one page back.
func (c *Controller[T]) PrevPage() { c.SetPage(c.Query().PageIndex - 1) }

// FirstPage moves to the first page.
func (c *Controller[T]) FirstPage() { c.SetPage(0) }

// LastPage moves to the last known page.
func (c *Controller[T]) LastPage() {
	c.mu.Lock()
	last := PageCount(c.page.Total, c.query.PageSize) - 1
	c.mu.Unlock()
	c.SetPage(last)
}

// SetPageSize changes the page size and returns to the first page.
func (c *Controller[T]) SetPageSize(n int) error {
	if !slices.Contains(c.opts.pageSizes, n) {
		return fmt.Errorf("%w: %d", ErrPageSize, n)
	}
	c.mutate(func() bool {
		if n == c.query.PageSize {
			return false
		}
		c.query.PageSize = n
		c.query.PageIndex = 0
		return true
	})
	return nil
}

// Row returns the cached row with the given id.
func (c *Controller[T]) Row(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.spec.ID != nil {
		for _, r := range c.page.Rows {
			if c.spec.ID(r) == id {
				return r, true
			}
		}
	}
	var zero T
	return zero, false
}

// Wait blocks until no fetch is in flight. A pending debounce is not waited for.
func (c *Controller[T]) Wait() {
	c.wg.Wait()
}

// Close stops the debounce timer and cancels in-flight fetches. Later
// resolutions are dropped.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopTimerLocked()
	c.mu.Unlock()
	c.stop()
}

// mutate applies fn under the lock and fetches when fn reports a change.
func (c *Controller[T]) mutate(fn func() bool) {
	c.mu.Lock()
	if c.closed || !fn() {
		c.mu.Unlock()
		return
	}
	c.fetchLocked()
	hook := c.onChange
	c.mu.Unlock()
	notify(hook)
}

func (c *Controller[T]) fetchLocked() {
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq
	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel
	c.loading = true
	q := c.query.clone()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		page, err := c.fetcher.Fetch(ctx, q)
		c.resolve(seq, q, page, err)
	}()
}

func (c *Controller[T]) resolve(seq uint64, q Query, page Page[T], err error) {
	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("dropping superseded fetch", "seq", seq)
		return
	}
	c.loading = false
	c.cancel = nil
	if err != nil {
		c.page = Page[T]{Rows: []T{}}
		c.errMsg = api.UserMessage(err, c.spec.FetchError)
		c.logger.Error("fetch failed", "error", err, "page", q.PageIndex, "search", q.Search)
	} else {
		if page.Rows == nil {
			page.Rows = []T{}
		}
		c.page = page
		c.errMsg = ""
	}
	hook := c.onChange
	c.mu.Unlock()
	notify(hook)
}

func (c *Controller[T]) stopTimerLocked() {
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
