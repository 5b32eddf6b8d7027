// ABOUTME: Stock level endpoints on the huma API.
// ABOUTME: Levels are read and tuned here; quantity changes go through transactions.
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

// registerStockRoutes wires up the stock level endpoints.
func registerStockRoutes(api huma.API, s *store.Store) {
	huma.Register(api, huma.Operation{
		OperationID: "list-stock",
		Method:      http.MethodGet,
		Path:        "/stock",
		Summary:     "List stock levels",
		Tags:        []string{"Stock"},
	}, listStockHandler(s))

	huma.Register(api, huma.Operation{
		OperationID:   "adjust-stock",
		Method:        http.MethodPost,
		Path:          "/stock/adjust",
		Summary:       "Adjust a stock level",
		Description:   "Records an adjustment transaction and moves the level atomically.",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Stock"},
	}, adjustStockHandler(s))

	huma.Register(api, huma.Operation{
		OperationID: "set-min-quantity",
		Method:      http.MethodPut,
		Path:        "/stock/min-quantity",
		Summary:     "Set a minimum stock level",
		Description: "Sets the reorder minimum for a product at a store.",
		Tags:        []string{"Stock"},
	}, setMinQuantityHandler(s))
}

// StockResponse is the API representation of a stock level row.
type StockResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	StoreID     string `json:"store_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	StoreName   string `json:"store_name"`
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
	UpdatedAt   string `json:"updated_at"` // RFC3339
}

func stockToResponse(r store.StockRow) StockResponse {
	return StockResponse{
		ID:          r.ID.String(),
		ProductID:   r.ProductID.String(),
		StoreID:     r.StoreID.String(),
		ProductName: r.ProductName,
		SKU:         r.SKU,
		StoreName:   r.StoreName,
		Quantity:    r.Quantity,
		MinQuantity: r.MinQuantity,
		UpdatedAt:   r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ── GET /stock ────────────────────────────────────────────────────────────────

// ListStockInput defines query parameters for the stock list.
type ListStockInput struct {
	StoreID  string `query:"store_id" doc:"Limit to one store (UUID)"`
	Search   string `query:"search" doc:"Case-insensitive substring over product name and SKU"`
	BelowMin bool   `query:"below_min" doc:"Only rows under their minimum level"`
}

// ListStockOutput is the response for GET /stock.
type ListStockOutput struct {
	Body *ListStockBody
}

// ListStockBody wraps the stock level list.
type ListStockBody struct {
	Items []StockResponse `json:"items"`
}

func listStockHandler(s *store.Store) func(context.Context, *ListStockInput) (*ListStockOutput, error) {
	return func(ctx context.Context, input *ListStockInput) (*ListStockOutput, error) {
		f := store.StockFilter{
			Search:   input.Search,
			BelowMin: input.BelowMin,
		}
		if input.StoreID != "" {
			id, err := parseIDParam(input.StoreID)
			if err != nil {
				return nil, err
			}
			f.StoreID = &id
		}

		rows, err := s.ListStock(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("list stock: %w", err)
		}

		items := make([]StockResponse, len(rows))
		for i, r := range rows {
			items[i] = stockToResponse(r)
		}
		return &ListStockOutput{Body: &ListStockBody{Items: items}}, nil
	}
}

// ── POST /stock/adjust ────────────────────────────────────────────────────────

// AdjustStockInput is the request for a manual stock correction. Quantity is
// a signed delta; the movement lands in the ledger as an adjustment.
type AdjustStockInput struct {
	Body struct {
		ProductID  string `json:"product_id" format:"uuid"`
		StoreID    string `json:"store_id" format:"uuid"`
		Quantity   int    `json:"quantity" doc:"Signed quantity delta; must be non-zero"`
		RecordedBy string `json:"recorded_by,omitempty" maxLength:"255"`
	}
}

// AdjustStockOutput is the response for POST /stock/adjust.
type AdjustStockOutput struct {
	Body *TransactionResponse
}

func adjustStockHandler(s *store.Store) func(context.Context, *AdjustStockInput) (*AdjustStockOutput, error) {
	return func(ctx context.Context, input *AdjustStockInput) (*AdjustStockOutput, error) {
		productID, err := parseIDParam(input.Body.ProductID)
		if err != nil {
			return nil, err
		}
		storeID, err := parseIDParam(input.Body.StoreID)
		if err != nil {
			return nil, err
		}

		row, err := s.RecordTransaction(ctx, store.RecordTransactionParams{
			Type:       store.TxAdjustment,
			ProductID:  productID,
			StoreID:    storeID,
			Quantity:   input.Body.Quantity,
			RecordedBy: input.Body.RecordedBy,
		})
		if errors.Is(err, store.ErrQuantitySign) {
			return nil, huma.Error422UnprocessableEntity("quantity must be non-zero", nil)
		}
		if errors.Is(err, store.ErrInsufficientStock) {
			return nil, huma.Error409Conflict("insufficient stock for this adjustment", nil)
		}
		if errors.Is(err, store.ErrUnknownItem) {
			return nil, huma.Error404NotFound("unknown product or store", nil)
		}
		if err != nil {
			return nil, fmt.Errorf("adjust stock: %w", err)
		}

		resp := transactionToResponse(*row)
		return &AdjustStockOutput{Body: &resp}, nil
	}
}

// ── PUT /stock/min-quantity ───────────────────────────────────────────────────

// SetMinQuantityInput is the request for setting a reorder minimum.
type SetMinQuantityInput struct {
	Body struct {
		ProductID   string `json:"product_id" format:"uuid"`
		StoreID     string `json:"store_id" format:"uuid"`
		MinQuantity int    `json:"min_quantity" minimum:"0"`
	}
}

// SetMinQuantityOutput is the empty 200 response.
type SetMinQuantityOutput struct{}

func setMinQuantityHandler(s *store.Store) func(context.Context, *SetMinQuantityInput) (*SetMinQuantityOutput, error) {
	return func(ctx context.Context, input *SetMinQuantityInput) (*SetMinQuantityOutput, error) {
		productID, err := parseIDParam(input.Body.ProductID)
		if err != nil {
			return nil, err
		}
		storeID, err := parseIDParam(input.Body.StoreID)
		if err != nil {
			return nil, err
		}
		err = s.SetMinQuantity(ctx, productID, storeID, input.Body.MinQuantity)
		if errors.Is(err, store.ErrUnknownItem) {
			return nil, huma.Error404NotFound("no stock row for this product and store", nil)
		}
		if err != nil {
			return nil, fmt.Errorf("set min quantity: %w", err)
		}
		return &SetMinQuantityOutput{}, nil
	}
}
