package table

import (
	"log/slog"
	"slices"
	"time"
)

// DefaultDebounce is how long search input must settle before it is committed.
const DefaultDebounce = 400 * time.Millisecond

// Stopper cancels a scheduled call.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Stopper

func timeAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

type options struct {
	afterFunc AfterFunc
	debounce  time.Duration
	pageSizes []int
	pageSize  int
	logger    *slog.Logger
}

// Option configures a Controller.
type Option func(*options)

// WithAfterFunc replaces the timer used for debouncing.
func WithAfterFunc(fn AfterFunc) Option {
	return func(o *options) {
		o.afterFunc = fn
	}
}

// WithDebounce sets the search debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithPageSizes sets the allowed page sizes.
func WithPageSizes(sizes ...int) Option {
	return func(o *options) {
		if len(sizes) > 0 {
			o.pageSizes = sizes
		}
	}
}

// WithPageSize sets the initial page size. It must be one of the allowed sizes.
func WithPageSize(n int) Option {
	return func(o *options) {
		o.pageSize = n
	}
}

// WithLogger sets the logger for fetch failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func buildOptions(opts []Option) options {
	o := options{
		afterFunc: timeAfterFunc,
		debounce:  DefaultDebounce,
		pageSizes: DefaultPageSizes,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if !slices.Contains(o.pageSizes, o.pageSize) {
		o.pageSize = o.pageSizes[0]
	}
	return o
}
