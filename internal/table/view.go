package table

import "slices"

// View is a consistent snapshot of a controller for rendering.
type View[T any] struct {
	Columns   []Column[T]
	Rows      []T
	Total     int
	PageIndex int
	PageSize  int
	PageSizes []int
	PageCount int
	Sort      []SortKey
	Search    string // committed search
	Typed     string // search box content, possibly not yet committed
	Loading   bool
	Err       string
}

// CanPrev reports whether a previous page exists.
func (v View[T]) CanPrev() bool { return v.PageIndex > 0 }

// CanNext reports whether a next page exists.
func (v View[T]) CanNext() bool { return v.PageIndex < v.PageCount-1 }

// PageNumber is the one-based page shown to users.
func (v View[T]) PageNumber() int { return v.PageIndex + 1 }

// Empty reports whether the loaded page has no rows.
func (v View[T]) Empty() bool { return !v.Loading && len(v.Rows) == 0 }

// SortOf returns the sort direction applied to col, if any.
func (v View[T]) SortOf(col Column[T]) (desc, sorted bool) {
	for _, k := range v.Sort {
		if k.Field == col.SortName() {
			return k.Desc, true
		}
	}
	return false, false
}

// Indicator is the arrow shown next to a sortable header.
func (v View[T]) Indicator(col Column[T]) string {
	if !col.Sortable {
		return ""
	}
	desc, sorted := v.SortOf(col)
	switch {
	case !sorted:
		return "↕"
	case desc:
		return "↓"
	default:
		return "↑"
	}
}

// Cells renders row through the columns.
func (v View[T]) Cells(row T) []string {
	cells := make([]string, len(v.Columns))
	for i, col := range v.Columns {
		if col.Cell != nil {
			cells[i] = col.Cell(row)
		}
	}
	return cells
}

// View returns a snapshot of the current state.
func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View[T]{
		Columns:   c.spec.Columns,
		Rows:      slices.Clone(c.page.Rows),
		Total:     c.page.Total,
		PageIndex: c.query.PageIndex,
		PageSize:  c.query.PageSize,
		PageSizes: slices.Clone(c.opts.pageSizes),
		PageCount: PageCount(c.page.Total, c.query.PageSize),
		Sort:      slices.Clone(c.query.Sort),
		Search:    c.query.Search,
		Typed:     c.typed,
		Loading:   c.loading,
		Err:       c.errMsg,
	}
}
