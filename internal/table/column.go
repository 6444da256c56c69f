package table

// Column describes how one field of T is shown and sorted.
type Column[T any] struct {
	Key       string
	Label     string
	Sortable  bool
	SortField string // wire field name; Key when empty
	Cell      func(T) string
}

// SortName is the field name sent to the backend when sorting by c.
func (c Column[T]) SortName() string {
	if c.SortField != "" {
		return c.SortField
	}
	return c.Key
}

// Spec configures a controller for one resource.
type Spec[T any] struct {
	// Name identifies the table in logs.
	Name    string
	Columns []Column[T]
	// ID returns the identifier of a row, used by the editor to pre-fill.
	ID func(T) string
	// FetchError is shown when a fetch fails without a usable message.
	FetchError string
}

func (s Spec[T]) column(key string) (Column[T], bool) {
	for _, c := range s.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}
