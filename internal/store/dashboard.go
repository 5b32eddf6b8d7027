// ABOUTME: Aggregate queries for the dashboard summary cards and store analytics.
// ABOUTME: Single round-trip per endpoint; no caching, counts are always live.
package store

import (
	"context"
	"fmt"
)

// DashboardSummary feeds the four dashboard headline cards.
type DashboardSummary struct {
	TotalProducts int64
	ActiveStores  int64
	StockValue    float64
	LowStockItems int64
}

// GetDashboardSummary returns the live headline numbers. LowStockItems counts
// stock rows currently under their own reorder threshold.
func (s *Store) GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	var sum DashboardSummary
	err := s.pool.QueryRow(ctx,
		`SELECT
		    (SELECT count(*) FROM products),
		    (SELECT count(*) FROM stores WHERE status = 'active'),
		    (SELECT COALESCE(sum(st.quantity * p.price), 0)
		     FROM stock st JOIN products p ON p.id = st.product_id),
		    (SELECT count(*) FROM stock WHERE quantity < min_quantity)`,
	).Scan(&sum.TotalProducts, &sum.ActiveStores, &sum.StockValue, &sum.LowStockItems)
	if err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	return &sum, nil
}

// StorePerformanceRow is one store's sales over the reporting window.
type StorePerformanceRow struct {
	StoreName string
	UnitsSold int64
	Revenue   float64
}

// ListStorePerformance returns units sold and revenue per active store over
// the last windowDays days, ordered by revenue descending.
func (s *Store) ListStorePerformance(ctx context.Context, windowDays int) ([]StorePerformanceRow, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	rows, err := s.pool.Query(ctx,
		`SELECT s.name,
		        COALESCE(sum(-t.quantity), 0) AS units,
		        COALESCE(sum(-t.quantity * p.price), 0) AS revenue
		 FROM stores s
		 LEFT JOIN transactions t ON t.store_id = s.id
		     AND t.type = 'sale'
		     AND t.created_at > now() - make_interval(days => $1)
		 LEFT JOIN products p ON p.id = t.product_id
		 WHERE s.status = 'active'
		 GROUP BY s.id, s.name
		 ORDER BY revenue DESC, s.name`,
		windowDays)
	if err != nil {
		return nil, fmt.Errorf("store performance: %w", err)
	}
	defer rows.Close()

	var out []StorePerformanceRow
	for rows.Next() {
		var r StorePerformanceRow
		if err := rows.Scan(&r.StoreName, &r.UnitsSold, &r.Revenue); err != nil {
			return nil, fmt.Errorf("store performance: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
