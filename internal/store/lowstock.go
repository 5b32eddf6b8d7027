// ABOUTME: Low-stock snapshot query feeding the alerts screen and the email dispatcher.
// ABOUTME: Stockout estimation is ledger arithmetic (14-day sales velocity), not forecasting.
package store

import (
	"context"
	"fmt"
	"math"

	"github.com/Rudrakshi123/smartstock/internal/alert"
)

// daysUntilStockoutCap bounds the estimate so slow movers read as "about a
// month", not a spuriously precise large number.
const daysUntilStockoutCap = 30

// ListLowStock returns the items whose stock level is at or below threshold,
// as alert items ready for display or email dispatch. Results are ordered by
// quantity ascending, SKU as tie-break, so the most depleted items lead.
// A negative threshold yields an empty result.
func (s *Store) ListLowStock(ctx context.Context, threshold int) ([]alert.LowStockItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT p.name, p.sku, s.name, st.quantity, st.min_quantity,
		        COALESCE(sales.avg_daily, 0)
		 FROM stock st
		 JOIN products p ON p.id = st.product_id
		 JOIN stores s ON s.id = st.store_id
		 LEFT JOIN LATERAL (
		     SELECT sum(-t.quantity)::float8 / 14 AS avg_daily
		     FROM transactions t
		     WHERE t.product_id = st.product_id
		       AND t.store_id = st.store_id
		       AND t.type = 'sale'
		       AND t.created_at > now() - interval '14 days'
		 ) sales ON true
		 WHERE st.quantity <= $1
		 ORDER BY st.quantity, p.sku`,
		threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var out []alert.LowStockItem
	for rows.Next() {
		var item alert.LowStockItem
		var avgDaily float64
		if err := rows.Scan(&item.ProductName, &item.SKU, &item.StoreName,
			&item.CurrentStock, &item.MinStock, &avgDaily); err != nil {
			return nil, fmt.Errorf("list low stock: scan: %w", err)
		}
		item.SuggestedReorder = suggestReorder(item.MinStock)
		item.DaysUntilStockout = estimateDaysUntilStockout(item.CurrentStock, avgDaily)
		out = append(out, item)
	}
	return out, rows.Err()
}

// suggestReorder is the catalog replenishment heuristic: restock to double
// the reorder threshold plus a small buffer.
func suggestReorder(minStock int) int {
	return 2*minStock + 5
}

// estimateDaysUntilStockout divides the level by the recent daily sales rate.
// With no sales history the level itself is used as a pessimistic stand-in.
func estimateDaysUntilStockout(quantity int, avgDailySales float64) int {
	days := quantity
	if avgDailySales > 0 {
		days = int(math.Floor(float64(quantity) / avgDailySales))
	}
	if days > daysUntilStockoutCap {
		return daysUntilStockoutCap
	}
	if days < 0 {
		return 0
	}
	return days
}
