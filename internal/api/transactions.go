// ABOUTME: Transaction ledger endpoints on the huma API.
// ABOUTME: Recording a transaction is the only way to change a stock quantity.
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

// registerTransactionRoutes wires up the transaction ledger endpoints.
func registerTransactionRoutes(api huma.API, s *store.Store) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/transactions",
		Summary:     "List transactions",
		Description: "Returns ledger entries, newest first.",
		Tags:        []string{"Transactions"},
	}, listTransactionsHandler(s))

	huma.Register(api, huma.Operation{
		OperationID:   "record-transaction",
		Method:        http.MethodPost,
		Path:          "/transactions",
		Summary:       "Record a transaction",
		Description:   "Writes a ledger entry and applies its signed quantity to the stock level atomically.",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Transactions"},
	}, recordTransactionHandler(s))
}

// TransactionResponse is the API representation of a ledger entry.
type TransactionResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	ProductID   string `json:"product_id"`
	StoreID     string `json:"store_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	StoreName   string `json:"store_name"`
	Quantity    int    `json:"quantity"`
	RecordedBy  string `json:"recorded_by,omitempty"`
	CreatedAt   string `json:"created_at"` // RFC3339
}

func transactionToResponse(r store.TransactionRow) TransactionResponse {
	return TransactionResponse{
		ID:          r.ID.String(),
		Type:        r.Type,
		ProductID:   r.ProductID.String(),
		StoreID:     r.StoreID.String(),
		ProductName: r.ProductName,
		SKU:         r.SKU,
		StoreName:   r.StoreName,
		Quantity:    r.Quantity,
		RecordedBy:  r.RecordedBy,
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ── GET /transactions ─────────────────────────────────────────────────────────

// ListTransactionsInput defines query parameters for the ledger list.
type ListTransactionsInput struct {
	Type    string `query:"type" enum:"sale,restock,transfer,adjustment" doc:"Filter by transaction type"`
	StoreID string `query:"store_id" doc:"Limit to one store (UUID)"`
	Limit   int    `query:"limit" minimum:"1" maximum:"500" default:"100" doc:"Page size"`
}

// ListTransactionsOutput is the response for GET /transactions.
type ListTransactionsOutput struct {
	Body *ListTransactionsBody
}

// ListTransactionsBody wraps the ledger entry list.
type ListTransactionsBody struct {
	Items []TransactionResponse `json:"items"`
}

func listTransactionsHandler(s *store.Store) func(context.Context, *ListTransactionsInput) (*ListTransactionsOutput, error) {
	return func(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
		f := store.TransactionFilter{
			Type:  input.Type,
			Limit: input.Limit,
		}
		if input.StoreID != "" {
			id, err := parseIDParam(input.StoreID)
			if err != nil {
				return nil, err
			}
			f.StoreID = &id
		}

		rows, err := s.ListTransactions(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}

		items := make([]TransactionResponse, len(rows))
		for i, r := range rows {
			items[i] = transactionToResponse(r)
		}
		return &ListTransactionsOutput{Body: &ListTransactionsBody{Items: items}}, nil
	}
}

// ── POST /transactions ────────────────────────────────────────────────────────

// RecordTransactionInput is the request for recording a ledger entry.
// Quantity is a signed delta: sales and outbound transfers are negative,
// restocks positive.
type RecordTransactionInput struct {
	Body struct {
		Type       string `json:"type" enum:"sale,restock,transfer,adjustment"`
		ProductID  string `json:"product_id" format:"uuid"`
		StoreID    string `json:"store_id" format:"uuid"`
		Quantity   int    `json:"quantity" doc:"Signed quantity delta; must be non-zero"`
		RecordedBy string `json:"recorded_by,omitempty" maxLength:"255"`
	}
}

// RecordTransactionOutput is the response for POST /transactions.
type RecordTransactionOutput struct {
	Body *TransactionResponse
}

func recordTransactionHandler(s *store.Store) func(context.Context, *RecordTransactionInput) (*RecordTransactionOutput, error) {
	return func(ctx context.Context, input *RecordTransactionInput) (*RecordTransactionOutput, error) {
		productID, err := parseIDParam(input.Body.ProductID)
		if err != nil {
			return nil, err
		}
		storeID, err := parseIDParam(input.Body.StoreID)
		if err != nil {
			return nil, err
		}

		row, err := s.RecordTransaction(ctx, store.RecordTransactionParams{
			Type:       input.Body.Type,
			ProductID:  productID,
			StoreID:    storeID,
			Quantity:   input.Body.Quantity,
			RecordedBy: input.Body.RecordedBy,
		})
		if errors.Is(err, store.ErrQuantitySign) {
			return nil, huma.Error422UnprocessableEntity("quantity must be non-zero, negative for sales, positive for restocks", nil)
		}
		if errors.Is(err, store.ErrInsufficientStock) {
			return nil, huma.Error409Conflict("insufficient stock for this movement", nil)
		}
		if errors.Is(err, store.ErrUnknownItem) {
			return nil, huma.Error404NotFound("unknown product or store", nil)
		}
		if err != nil {
			return nil, fmt.Errorf("record transaction: %w", err)
		}

		resp := transactionToResponse(*row)
		return &RecordTransactionOutput{Body: &resp}, nil
	}
}
