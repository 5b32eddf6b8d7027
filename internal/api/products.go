// ABOUTME: Product catalog endpoints on the huma API.
// ABOUTME: Full CRUD; SKUs are immutable after creation.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/Rudrakshi123/smartstock/internal/store"
)

// registerProductRoutes wires up the product catalog endpoints.
func registerProductRoutes(api huma.API, s *store.Store) {
	huma.Register(api, huma.Operation{
		OperationID: "list-products",
		Method:      http.MethodGet,
		Path:        "/products",
		Summary:     "List products",
		Tags:        []string{"Products"},
	}, listProductsHandler(s))

	huma.Register(api, huma.Operation{
		OperationID:   "create-product",
		Method:        http.MethodPost,
		Path:          "/products",
		Summary:       "Create a product",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Products"},
	}, createProductHandler(s))

	huma.Register(api, huma.Operation{
		OperationID: "get-product",
		Method:      http.MethodGet,
		Path:        "/products/{id}",
		Summary:     "Get a product",
		Tags:        []string{"Products"},
	}, getProductHandler(s))

	huma.Register(api, huma.Operation{
		OperationID: "update-product",
		Method:      http.MethodPatch,
		Path:        "/products/{id}",
		Summary:     "Update a product",
		Tags:        []string{"Products"},
	}, updateProductHandler(s))

	huma.Register(api, huma.Operation{
		OperationID:   "delete-product",
		Method:        http.MethodDelete,
		Path:          "/products/{id}",
		Summary:       "Delete a product",
		DefaultStatus: http.StatusNoContent,
		Tags:          []string{"Products"},
	}, deleteProductHandler(s))
}

// ProductResponse is the API representation of a product row.
type ProductResponse struct {
	ID          string  `json:"id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"` // RFC3339
	UpdatedAt   string  `json:"updated_at"` // RFC3339
}

func productToResponse(p store.ProductRow) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		SKU:         p.SKU,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// parseIDParam parses a path id as a UUID, mapping failures to a 422.
func parseIDParam(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, huma.Error422UnprocessableEntity("invalid id; must be a UUID", err)
	}
	return parsed, nil
}

// ── GET /products ─────────────────────────────────────────────────────────────

// ListProductsInput defines query parameters for the product list.
type ListProductsInput struct {
	Category string `query:"category" doc:"Exact category match"`
	Search   string `query:"search" doc:"Case-insensitive substring over name and SKU"`
}

// ListProductsOutput is the response for GET /products.
type ListProductsOutput struct {
	Body *ListProductsBody
}

// ListProductsBody wraps the product list.
type ListProductsBody struct {
	Items []ProductResponse `json:"items"`
}

func listProductsHandler(s *store.Store) func(context.Context, *ListProductsInput) (*ListProductsOutput, error) {
	return func(ctx context.Context, input *ListProductsInput) (*ListProductsOutput, error) {
		rows, err := s.ListProducts(ctx, store.ListProductsParams{
			Category: input.Category,
			Search:   input.Search,
		})
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}

		items := make([]ProductResponse, len(rows))
		for i, r := range rows {
			items[i] = productToResponse(r)
		}
		return &ListProductsOutput{Body: &ListProductsBody{Items: items}}, nil
	}
}

// ── POST /products ────────────────────────────────────────────────────────────

// CreateProductInput is the request for creating a product.
type CreateProductInput struct {
	Body struct {
		SKU         string  `json:"sku" minLength:"1" maxLength:"64"`
		Name        string  `json:"name" minLength:"1" maxLength:"255"`
		Category    string  `json:"category" maxLength:"100"`
		Price       float64 `json:"price" minimum:"0"`
		Description string  `json:"description,omitempty" maxLength:"2000"`
	}
}

// CreateProductOutput is the response for POST /products.
type CreateProductOutput struct {
	Body *ProductResponse
}

func createProductHandler(s *store.Store) func(context.Context, *CreateProductInput) (*CreateProductOutput, error) {
	return func(ctx context.Context, input *CreateProductInput) (*CreateProductOutput, error) {
		row, err := s.CreateProduct(ctx, store.CreateProductParams{
			SKU:         input.Body.SKU,
			Name:        input.Body.Name,
			Category:    input.Body.Category,
			Price:       input.Body.Price,
			Description: input.Body.Description,
		})
		if errors.Is(err, store.ErrDuplicateSKU) {
			return nil, huma.Error409Conflict("a product with this SKU already exists", nil)
		}
		if err != nil {
			return nil, fmt.Errorf("create product: %w", err)
		}

		resp := productToResponse(*row)
		return &CreateProductOutput{Body: &resp}, nil
	}
}

// ── GET /products/{id} ────────────────────────────────────────────────────────

// GetProductInput defines path parameters for the single-product endpoint.
type GetProductInput struct {
	ID string `path:"id" doc:"Product id (UUID)"`
}

// GetProductOutput is the response for GET /products/{id}.
type GetProductOutput struct {
	Body *ProductResponse
}

func getProductHandler(s *store.Store) func(context.Context, *GetProductInput) (*GetProductOutput, error) {
	return func(ctx context.Context, input *GetProductInput) (*GetProductOutput, error) {
		id, err := parseIDParam(input.ID)
		if err != nil {
			return nil, err
		}
		row, err := s.GetProduct(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if row == nil {
			return nil, huma.Error404NotFound("product not found", nil)
		}

		resp := productToResponse(*row)
		return &GetProductOutput{Body: &resp}, nil
	}
}

// ── PATCH /products/{id} ──────────────────────────────────────────────────────

// UpdateProductInput is the request for a partial product update.
type UpdateProductInput struct {
	ID   string `path:"id" doc:"Product id (UUID)"`
	Body struct {
		Name        *string  `json:"name,omitempty" minLength:"1" maxLength:"255"`
		Category    *string  `json:"category,omitempty" maxLength:"100"`
		Price       *float64 `json:"price,omitempty" minimum:"0"`
		Description *string  `json:"description,omitempty" maxLength:"2000"`
	}
}

// UpdateProductOutput is the response for PATCH /products/{id}.
type UpdateProductOutput struct {
	Body *ProductResponse
}

func updateProductHandler(s *store.Store) func(context.Context, *UpdateProductInput) (*UpdateProductOutput, error) {
	return func(ctx context.Context, input *UpdateProductInput) (*UpdateProductOutput, error) {
		id, err := parseIDParam(input.ID)
		if err != nil {
			return nil, err
		}
		row, err := s.UpdateProduct(ctx, id, store.UpdateProductParams{
			Name:        input.Body.Name,
			Category:    input.Body.Category,
			Price:       input.Body.Price,
			Description: input.Body.Description,
		})
		if err != nil {
			return nil, fmt.Errorf("update product: %w", err)
		}
		if row == nil {
			return nil, huma.Error404NotFound("product not found", nil)
		}

		resp := productToResponse(*row)
		return &UpdateProductOutput{Body: &resp}, nil
	}
}

// ── DELETE /products/{id} ─────────────────────────────────────────────────────

// DeleteProductInput defines path parameters for product deletion.
type DeleteProductInput struct {
	ID string `path:"id" doc:"Product id (UUID)"`
}

// DeleteProductOutput is the empty 204 response.
type DeleteProductOutput struct{}

func deleteProductHandler(s *store.Store) func(context.Context, *DeleteProductInput) (*DeleteProductOutput, error) {
	return func(ctx context.Context, input *DeleteProductInput) (*DeleteProductOutput, error) {
		id, err := parseIDParam(input.ID)
		if err != nil {
			return nil, err
		}
		deleted, err := s.DeleteProduct(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("delete product: %w", err)
		}
		if !deleted {
			return nil, huma.Error404NotFound("product not found", nil)
		}
		return &DeleteProductOutput{}, nil
	}
}
