package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/bilemo/internal/cache"
)

type ListClientsInput struct {
	PageParams
}

type GetClientInput struct {
	ID int64 `path:"id" doc:"Client ID"`
}

func RegisterClientRoutes(api huma.API, store DataStore, rc ResponseCache, maxLimit int) {
	huma.Register(api, huma.Operation{
		OperationID: "list-clients",
		Method:      http.MethodGet,
		Path:        "/clients",
		Summary:     "List clients with their users",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *ListClientsInput) (*JSONOutput, error) {
		page := input.resolve(maxLimit)
		body, err := rc.GetOrCompute(ctx, cache.ClientsPageKey(page), []string{cache.TagClients}, func(ctx context.Context) ([]byte, error) {
			clients, err := store.Clients().ListPage(ctx, page)
			if err != nil {
				return nil, err
			}
			return render(mapViews(clients, newClientView))
		})
		if err != nil {
			return nil, mapError(err, "clients", "list")
		}
		return jsonOutput(body), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-client",
		Method:      http.MethodGet,
		Path:        "/clients/{id}",
		Summary:     "Get a client by ID",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *GetClientInput) (*JSONOutput, error) {
		body, err := rc.GetOrCompute(ctx, cache.ClientDetailKey(input.ID), []string{cache.TagClients}, func(ctx context.Context) ([]byte, error) {
			c, err := store.Clients().GetByID(ctx, input.ID)
			if err != nil {
				return nil, err
			}
			return render(newClientView(c))
		})
		if err != nil {
			return nil, mapError(err, "client", "get")
		}
		return jsonOutput(body), nil
	})
}

