package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/bilemo/internal/cache"
)

type ListProductsInput struct {
	PageParams
}

type GetProductInput struct {
	ID int64 `path:"id" doc:"Product ID"`
}

func RegisterProductRoutes(api huma.API, store DataStore, rc ResponseCache, maxLimit int) {
	huma.Register(api, huma.Operation{
		OperationID: "list-products",
		Method:      http.MethodGet,
		Path:        "/products",
		Summary:     "List products",
		Tags:        []string{"Products"},
	}, func(ctx context.Context, input *ListProductsInput) (*JSONOutput, error) {
		page := input.resolve(maxLimit)
		body, err := rc.GetOrCompute(ctx, cache.ProductsPageKey(page), []string{cache.TagProducts}, func(ctx context.Context) ([]byte, error) {
			products, err := store.Products().ListPage(ctx, page)
			if err != nil {
				return nil, err
			}
			return render(mapViews(products, newProductView))
		})
		if err != nil {
			return nil, mapError(err, "products", "list")
		}
		return jsonOutput(body), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-product",
		Method:      http.MethodGet,
		Path:        "/products/{id}",
		Summary:     "Get a product by ID",
		Tags:        []string{"Products"},
	}, func(ctx context.Context, input *GetProductInput) (*JSONOutput, error) {
		body, err := rc.GetOrCompute(ctx, cache.ProductDetailKey(input.ID), []string{cache.TagProducts}, func(ctx context.Context) ([]byte, error) {
			p, err := store.Products().GetByID(ctx, input.ID)
			if err != nil {
				return nil, err
			}
			return render(newProductView(p))
		})
		if err != nil {
			return nil, mapError(err, "product", "get")
		}
		return jsonOutput(body), nil
	})
}

