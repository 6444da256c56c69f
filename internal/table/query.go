// Package table implements the remote data table: query state with debounced
// search, a fetch coordinator that discards superseded responses, the cached
// result page and the row editor that writes through to the backend.
package table

import (
	"errors"
	"slices"
)

// DefaultPageSizes are the page sizes a table accepts unless configured otherwise.
var DefaultPageSizes = []int{10, 20, 50}

var (
	// ErrNotSortable is returned when sorting by a column that does not sort.
	ErrNotSortable = errors.New("column is not sortable")
	// ErrPageSize is returned for a page size outside the allowed set.
	ErrPageSize = errors.New("page size not allowed")
	// ErrInvalid is returned by Submit when client-side validation fails.
	ErrInvalid = errors.New("form has invalid fields")
	// ErrNotOpen is returned by Submit when the editor is closed.
	ErrNotOpen = errors.New("editor is not open")
	// ErrSaving is returned by Submit while an earlier write is in flight.
	ErrSaving = errors.New("save already in progress")
)

// SortKey orders rows by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Query is the state that determines which page is fetched.
// PageIndex is zero-based; the empty Sort means server default order.
type Query struct {
	PageIndex int
	PageSize  int
	Sort      []SortKey
	Search    string
}

func (q Query) clone() Query {
	q.Sort = slices.Clone(q.Sort)
	return q
}

// Page is one fetched page plus the total number of matching records.
type Page[T any] struct {
	Rows  []T
	Total int
}

// PageCount is the number of pages for total records, never less than one.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
