package home

import (
	"context"

	"github.com/leapstack-labs/contratos/internal/api"
	"github.com/leapstack-labs/contratos/internal/resource"
	"github.com/leapstack-labs/contratos/internal/table"
)

// counter loads the total of one collection.
type counter struct {
	label    string
	href     string
	fetchErr string
	total    func(ctx context.Context, client *api.Client) (int, error)
}

func totalOf[T any](endpoint func(*api.Client) resource.Endpoint[T]) func(context.Context, *api.Client) (int, error) {
	return func(ctx context.Context, client *api.Client) (int, error) {
		page, err := endpoint(client).Fetch(ctx, table.Query{PageSize: 1})
		if err != nil {
			return 0, err
		}
		return page.Total, nil
	}
}

var counters = []counter{
	{label: "Contratos", href: "/contratos", fetchErr: resource.ContractSpec.FetchError, total: totalOf(resource.ContractEndpoint)},
	{label: "Empresas", href: "/empresas", fetchErr: resource.CompanySpec.FetchError, total: totalOf(resource.CompanyEndpoint)},
	{label: "Usuários", href: "/usuarios", fetchErr: resource.UserSpec.FetchError, total: totalOf(resource.UserEndpoint)},
}
