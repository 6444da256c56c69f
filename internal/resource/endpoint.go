package resource

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/contratos/internal/api"
	"github.com/leapstack-labs/contratos/internal/table"
)

// Backend collection paths.
const (
	ContractsPath = "/contracts"
	SuppliersPath = "/suppliers"
	PersonsPath   = "/persons"
)

// Endpoint adapts one backend collection to the table. It fetches pages
// and, for writable resources, creates and updates records.
type Endpoint[T any] struct {
	Client *api.Client
	Path   string
	Decode func(json.RawMessage) (T, error)
	// Sorted reports whether sort parameters are sent.
	Sorted bool
}

// Fetch requests the page described by q. PageIndex 0 is page 1 on the wire.
func (e Endpoint[T]) Fetch(ctx context.Context, q table.Query) (table.Page[T], error) {
	params := api.ListParams{
		Page:  q.PageIndex + 1,
		Size:  q.PageSize,
		Query: q.Search,
	}
	if e.Sorted {
		for _, k := range q.Sort {
			params.Sort = append(params.Sort, api.SortParam{Field: k.Field, Desc: k.Desc})
		}
	}

	raw, err := e.Client.List(ctx, e.Path, params)
	if err != nil {
		return table.Page[T]{}, err
	}

	rows := make([]T, 0, len(raw.Items))
	for i, item := range raw.Items {
		row, err := e.Decode(item)
		if err != nil {
			return table.Page[T]{}, fmt.Errorf("decode %s item %d: %w", e.Path, i, err)
		}
		rows = append(rows, row)
	}
	return table.Page[T]{Rows: rows, Total: raw.Total}, nil
}

// Create posts payload to the collection.
func (e Endpoint[T]) Create(ctx context.Context, payload any) error {
	_, err := e.Client.Create(ctx, e.Path, payload)
	return err
}

// Update puts payload to the item id.
func (e Endpoint[T]) Update(ctx context.Context, id string, payload any) error {
	_, err := e.Client.Update(ctx, e.Path, id, payload)
	return err
}

func decodeJSON[W any, T any](convert func(W) T) func(json.RawMessage) (T, error) {
	return func(raw json.RawMessage) (T, error) {
		var w W
		if err := json.Unmarshal(raw, &w); err != nil {
			var zero T
			return zero, err
		}
		return convert(w), nil
	}
}
