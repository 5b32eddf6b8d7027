// ABOUTME: Dashboard summary and store performance analytics endpoints.
// ABOUTME: Read-only aggregates computed in the database on each request.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Rudrakshi123/smartstock/internal/store"
)

// registerDashboardRoutes wires up the dashboard and analytics endpoints.
func registerDashboardRoutes(api huma.API, s *store.Store) {
	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard-summary",
		Method:      http.MethodGet,
		Path:        "/dashboard/summary",
		Summary:     "Get dashboard summary",
		Tags:        []string{"Dashboard"},
	}, dashboardSummaryHandler(s))

	huma.Register(api, huma.Operation{
		OperationID: "list-store-performance",
		Method:      http.MethodGet,
		Path:        "/analytics/store-performance",
		Summary:     "List store performance",
		Description: "Units sold and revenue per active store over a trailing window.",
		Tags:        []string{"Dashboard"},
	}, storePerformanceHandler(s))
}

// ── GET /dashboard/summary ────────────────────────────────────────────────────

// DashboardSummaryOutput is the response for GET /dashboard/summary.
type DashboardSummaryOutput struct {
	Body *DashboardSummaryBody
}

// DashboardSummaryBody holds the headline inventory numbers.
type DashboardSummaryBody struct {
	TotalProducts int64   `json:"totalProducts"`
	ActiveStores  int64   `json:"activeStores"`
	StockValue    float64 `json:"stockValue"`
	LowStockItems int64   `json:"lowStockItems"`
}

func dashboardSummaryHandler(s *store.Store) func(context.Context, *struct{}) (*DashboardSummaryOutput, error) {
	return func(ctx context.Context, _ *struct{}) (*DashboardSummaryOutput, error) {
		sum, err := s.GetDashboardSummary(ctx)
		if err != nil {
			return nil, fmt.Errorf("dashboard summary: %w", err)
		}
		return &DashboardSummaryOutput{Body: &DashboardSummaryBody{
			TotalProducts: sum.TotalProducts,
			ActiveStores:  sum.ActiveStores,
			StockValue:    sum.StockValue,
			LowStockItems: sum.LowStockItems,
		}}, nil
	}
}

// ── GET /analytics/store-performance ──────────────────────────────────────────

// StorePerformanceInput defines query parameters for the performance report.
type StorePerformanceInput struct {
	WindowDays int `query:"window_days" minimum:"1" maximum:"365" default:"30" doc:"Trailing window in days"`
}

// StorePerformanceOutput is the response for GET /analytics/store-performance.
type StorePerformanceOutput struct {
	Body *StorePerformanceBody
}

// StorePerformanceBody wraps the per-store rows.
type StorePerformanceBody struct {
	Items []StorePerformanceItem `json:"items"`
}

// StorePerformanceItem is one store's sales over the window.
type StorePerformanceItem struct {
	StoreName string  `json:"storeName"`
	UnitsSold int64   `json:"unitsSold"`
	Revenue   float64 `json:"revenue"`
}

func storePerformanceHandler(s *store.Store) func(context.Context, *StorePerformanceInput) (*StorePerformanceOutput, error) {
	return func(ctx context.Context, input *StorePerformanceInput) (*StorePerformanceOutput, error) {
		rows, err := s.ListStorePerformance(ctx, input.WindowDays)
		if err != nil {
			return nil, fmt.Errorf("store performance: %w", err)
		}

		items := make([]StorePerformanceItem, len(rows))
		for i, r := range rows {
			items[i] = StorePerformanceItem{
				StoreName: r.StoreName,
				UnitsSold: r.UnitsSold,
				Revenue:   r.Revenue,
			}
		}
		return &StorePerformanceOutput{Body: &StorePerformanceBody{Items: items}}, nil
	}
}
