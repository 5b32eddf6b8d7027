// ABOUTME: Retail store (location) endpoints on the huma API.
// ABOUTME: products_count is derived from stock rows and read-only.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Rudrakshi123/smartstock/internal/store"
)

// registerStoreRoutes wires up the retail store endpoints.
func registerStoreRoutes(api huma.API, s *store.Store) {
	huma.Register(api, huma.Operation{
		OperationID: "list-stores",
		Method:      http.MethodGet,
		Path:        "/stores",
		Summary:     "List stores",
		Tags:        []string{"Stores"},
	}, listStoresHandler(s))

	huma.Register(api, huma.Operation{
		OperationID:   "create-store",
		Method:        http.MethodPost,
		Path:          "/stores",
		Summary:       "Create a store",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Stores"},
	}, createStoreHandler(s))

	huma.Register(api, huma.Operation{
		OperationID: "get-store",
		Method:      http.MethodGet,
		Path:        "/stores/{id}",
		Summary:     "Get a store",
		Tags:        []string{"Stores"},
	}, getStoreHandler(s))

	huma.Register(api, huma.Operation{
		OperationID: "update-store",
		Method:      http.MethodPatch,
		Path:        "/stores/{id}",
		Summary:     "Update a store",
		Tags:        []string{"Stores"},
	}, updateStoreHandler(s))

	huma.Register(api, huma.Operation{
		OperationID:   "delete-store",
		Method:        http.MethodDelete,
		Path:          "/stores/{id}",
		Summary:       "Delete a store",
		DefaultStatus: http.StatusNoContent,
		Tags:          []string{"Stores"},
	}, deleteStoreHandler(s))
}

// StoreResponse is the API representation of a retail store row.
type StoreResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Location      string `json:"location"`
	Address       string `json:"address"`
	Manager       string `json:"manager"`
	Status        string `json:"status"`
	ProductsCount int64  `json:"products_count"`
	CreatedAt     string `json:"created_at"` // RFC3339
	UpdatedAt     string `json:"updated_at"` // RFC3339
}

func storeToResponse(r store.StoreRow) StoreResponse {
	return StoreResponse{
		ID:            r.ID.String(),
		Name:          r.Name,
		Location:      r.Location,
		Address:       r.Address,
		Manager:       r.Manager,
		Status:        r.Status,
		ProductsCount: r.ProductsCount,
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ── GET /stores ───────────────────────────────────────────────────────────────

// ListStoresInput defines query parameters for the store list.
type ListStoresInput struct {
	ActiveOnly bool `query:"active_only" doc:"Exclude inactive stores"`
}

// ListStoresOutput is the response for GET /stores.
type ListStoresOutput struct {
	Body *ListStoresBody
}

// ListStoresBody wraps the store list.
type ListStoresBody struct {
	Items []StoreResponse `json:"items"`
}

func listStoresHandler(s *store.Store) func(context.Context, *ListStoresInput) (*ListStoresOutput, error) {
	return func(ctx context.Context, input *ListStoresInput) (*ListStoresOutput, error) {
		rows, err := s.ListStores(ctx, input.ActiveOnly)
		if err != nil {
			return nil, fmt.Errorf("list stores: %w", err)
		}

		items := make([]StoreResponse, len(rows))
		for i, r := range rows {
			items[i] = storeToResponse(r)
		}
		return &ListStoresOutput{Body: &ListStoresBody{Items: items}}, nil
	}
}

// ── POST /stores ──────────────────────────────────────────────────────────────

// CreateStoreInput is the request for creating a store.
type CreateStoreInput struct {
	Body struct {
		Name     string `json:"name" minLength:"1" maxLength:"255"`
		Location string `json:"location,omitempty" maxLength:"255"`
		Address  string `json:"address,omitempty" maxLength:"255"`
		Manager  string `json:"manager,omitempty" maxLength:"255"`
		Status   string `json:"status,omitempty" enum:"active,inactive"`
	}
}

// CreateStoreOutput is the response for POST /stores.
type CreateStoreOutput struct {
	Body *StoreResponse
}

func createStoreHandler(s *store.Store) func(context.Context, *CreateStoreInput) (*CreateStoreOutput, error) {
	return func(ctx context.Context, input *CreateStoreInput) (*CreateStoreOutput, error) {
		row, err := s.CreateStore(ctx, store.CreateStoreParams{
			Name:     input.Body.Name,
			Location: input.Body.Location,
			Address:  input.Body.Address,
			Manager:  input.Body.Manager,
			Status:   input.Body.Status,
		})
		if errors.Is(err, store.ErrDuplicateStoreName) {
			return nil, huma.Error409Conflict("a store with this name already exists", nil)
		}
		if err != nil {
			return nil, fmt.Errorf("create store: %w", err)
		}

		resp := storeToResponse(*row)
		return &CreateStoreOutput{Body: &resp}, nil
	}
}

// ── GET /stores/{id} ──────────────────────────────────────────────────────────

// GetStoreInput defines path parameters for the single-store endpoint.
type GetStoreInput struct {
	ID string `path:"id" doc:"Store id (UUID)"`
}

// GetStoreOutput is the response for GET /stores/{id}.
type GetStoreOutput struct {
	Body *StoreResponse
}

func getStoreHandler(s *store.Store) func(context.Context, *GetStoreInput) (*GetStoreOutput, error) {
	return func(ctx context.Context, input *GetStoreInput) (*GetStoreOutput, error) {
		id, err := parseIDParam(input.ID)
		if err != nil {
			return nil, err
		}
		row, err := s.GetStore(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get store: %w", err)
		}
		if row == nil {
			return nil, huma.Error404NotFound("store not found", nil)
		}

		resp := storeToResponse(*row)
		return &GetStoreOutput{Body: &resp}, nil
	}
}

// ── PATCH /stores/{id} ────────────────────────────────────────────────────────

// UpdateStoreInput is the request for a partial store update.
type UpdateStoreInput struct {
	ID   string `path:"id" doc:"Store id (UUID)"`
	Body struct {
		Name     *string `json:"name,omitempty" minLength:"1" maxLength:"255"`
		Location *string `json:"location,omitempty" maxLength:"255"`
		Address  *string `json:"address,omitempty" maxLength:"255"`
		Manager  *string `json:"manager,omitempty" maxLength:"255"`
		Status   *string `json:"status,omitempty" enum:"active,inactive"`
	}
}

// UpdateStoreOutput is the response for PATCH /stores/{id}.
type UpdateStoreOutput struct {
	Body *StoreResponse
}

func updateStoreHandler(s *store.Store) func(context.Context, *UpdateStoreInput) (*UpdateStoreOutput, error) {
	return func(ctx context.Context, input *UpdateStoreInput) (*UpdateStoreOutput, error) {
		id, err := parseIDParam(input.ID)
		if err != nil {
			return nil, err
		}
		row, err := s.UpdateStore(ctx, id, store.UpdateStoreParams{
			Name:     input.Body.Name,
			Location: input.Body.Location,
			Address:  input.Body.Address,
			Manager:  input.Body.Manager,
			Status:   input.Body.Status,
		})
		if errors.Is(err, store.ErrDuplicateStoreName) {
			return nil, huma.Error409Conflict("a store with this name already exists", nil)
		}
		if err != nil {
			return nil, fmt.Errorf("update store: %w", err)
		}
		if row == nil {
			return nil, huma.Error404NotFound("store not found", nil)
		}

		resp := storeToResponse(*row)
		return &UpdateStoreOutput{Body: &resp}, nil
	}
}

// ── DELETE /stores/{id} ───────────────────────────────────────────────────────

// DeleteStoreInput defines path parameters for store deletion.
type DeleteStoreInput struct {
	ID string `path:"id" doc:"Store id (UUID)"`
}

// DeleteStoreOutput is the empty 204 response.
type DeleteStoreOutput struct{}

func deleteStoreHandler(s *store.Store) func(context.Context, *DeleteStoreInput) (*DeleteStoreOutput, error) {
	return func(ctx context.Context, input *DeleteStoreInput) (*DeleteStoreOutput, error) {
		id, err := parseIDParam(input.ID)
		if err != nil {
			return nil, err
		}
		deleted, err := s.DeleteStore(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("delete store: %w", err)
		}
		if !deleted {
			return nil, huma.Error404NotFound("store not found", nil)
		}
		return &DeleteStoreOutput{}, nil
	}
}
