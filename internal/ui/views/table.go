package views

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/contratos/internal/table"
)

// Header is one column header.
type Header struct {
	Key       string
	Label     string
	Sortable  bool
	Indicator string
}

// Row is one rendered row.
type Row struct {
	ID    string
	Cells []string
}

// TableData is the #data-table fragment.
type TableData struct {
	Path          string
	Headers       []Header
	Rows          []Row
	Loading       bool
	Err           string
	Empty         bool
	PageNumber    int
	PageCount     int
	PageSize      int
	PageSizes     []int
	CanPrev       bool
	CanNext       bool
	Total         int
	Counter       string
	ShowFirstLast bool
	Editable      bool
}

// Columns is the number of rendered columns, actions included.
func (d TableData) Columns() int {
	if d.Editable {
		return len(d.Headers) + 1
	}
	return len(d.Headers)
}

// EditorData is the #editor fragment.
type EditorData struct {
	Path string
	table.EditorView
}

// Error returns the validation message of field.
func (d EditorData) Error(field string) string { return d.Errors[field] }

// Value returns the current value of field.
func (d EditorData) Value(field string) string { return d.Values[field] }

// TablePageData is a full data table page.
type TablePageData struct {
	Shell
	Heading           string
	Subtitle          string
	SearchPlaceholder string
	NewLabel          string
	Search            string
	Table             TableData
	Editor            EditorData
}

// Signals is the initial datastar signal set of the page.
func (d TablePageData) Signals() map[string]any {
	return map[string]any{"search": d.Search, "form": d.Editor.Values}
}

// TablePage renders a full data table page.
func TablePage(data TablePageData) templ.Component { return component("table-page", data) }

// Table renders the #data-table fragment.
func Table(data TableData) templ.Component { return component("data-table", data) }

// Editor renders the #editor fragment.
func Editor(data EditorData) templ.Component { return component("editor", data) }
