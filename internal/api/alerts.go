// ABOUTME: Alert endpoints: the low-stock report (huma) and the email send route (chi).
// ABOUTME: The send route keeps a fixed wire contract for browser clients, CORS included.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Rudrakshi123/smartstock/internal/alert"
	"github.com/Rudrakshi123/smartstock/internal/notify"
)

// ── GET /alerts/low-stock ─────────────────────────────────────────────────────

// registerLowStockRoutes wires up the low-stock report endpoint.
func registerLowStockRoutes(api huma.API, srv *Server) {
	huma.Register(api, huma.Operation{
		OperationID: "list-low-stock",
		Method:      http.MethodGet,
		Path:        "/alerts/low-stock",
		Summary:     "List low stock items",
		Description: "Returns stock levels at or below the threshold, with severity counts and reorder estimates.",
		Tags:        []string{"Alerts"},
	}, listLowStockHandler(srv))
}

// ListLowStockInput defines query parameters for the low-stock report.
type ListLowStockInput struct {
	Threshold *int `query:"threshold" minimum:"0" doc:"Quantity cutoff; defaults to the configured threshold"`
}

// ListLowStockOutput is the response for GET /alerts/low-stock.
type ListLowStockOutput struct {
	Body *ListLowStockBody
}

// ListLowStockBody pairs the item rows with their severity summary.
type ListLowStockBody struct {
	Items   []alert.LowStockItem `json:"items"`
	Summary alert.Summary        `json:"summary"`
}

func listLowStockHandler(srv *Server) func(context.Context, *ListLowStockInput) (*ListLowStockOutput, error) {
	return func(ctx context.Context, input *ListLowStockInput) (*ListLowStockOutput, error) {
		threshold := srv.cfg.DefaultLowStockThreshold
		if input.Threshold != nil {
			threshold = *input.Threshold
		}

		items, err := srv.store.ListLowStock(ctx, threshold)
		if err != nil {
			return nil, fmt.Errorf("list low stock: %w", err)
		}
		if items == nil {
			items = []alert.LowStockItem{} // never return null for arrays in JSON
		}

		return &ListLowStockOutput{Body: &ListLowStockBody{
			Items:   items,
			Summary: alert.Aggregate(items),
		}}, nil
	}
}

// ── POST /alerts/email ────────────────────────────────────────────────────────

// alertEmailCORS sets the permissive CORS headers browser clients of the send
// route expect, on every response including errors.
func alertEmailCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		next.ServeHTTP(w, r)
	})
}

// sendAlertEmailResponse is the success envelope for the send route.
type sendAlertEmailResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// sendAlertEmailError is the error envelope for the send route.
type sendAlertEmailError struct {
	Error string `json:"error"`
}

// sendAlertEmailHandler accepts an alert email request, dispatches exactly one
// email, and relays the provider response verbatim in the success envelope.
//
//	400 {"error":"Missing required fields: recipientEmail and alerts"}
//	500 {"error":<message>} for render or provider failures
//	200 {"success":true,"data":<provider response>}
func (srv *Server) sendAlertEmailHandler(w http.ResponseWriter, r *http.Request) {
	var req notify.AlertEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// A body that cannot be parsed is an unexpected failure, not a
		// validation failure, so it reports through the 500 envelope.
		writeAlertEmailError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	resp, err := srv.dispatcher.Dispatch(r.Context(), req)
	if errors.Is(err, notify.ErrMissingFields) {
		writeAlertEmailError(w, r, http.StatusBadRequest, "Missing required fields: recipientEmail and alerts")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "alert email dispatch failed", "error", err)
		writeAlertEmailError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(sendAlertEmailResponse{Success: true, Data: resp}); err != nil {
		slog.ErrorContext(r.Context(), "alert email: failed to encode response", "error", err)
	}
}

func writeAlertEmailError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(sendAlertEmailError{Error: msg}); err != nil {
		slog.ErrorContext(r.Context(), "alert email: failed to encode error", "error", err)
	}
}
