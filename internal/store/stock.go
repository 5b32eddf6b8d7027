// ABOUTME: Store methods for per-store stock levels and atomic stock movements.
// ABOUTME: Every movement writes a transaction row and the level change in one pgx transaction.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StockRow is a per-store stock level joined with its product and store names.
type StockRow struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	StoreID     uuid.UUID
	ProductName string
	SKU         string
	StoreName   string
	Quantity    int
	MinQuantity int
	UpdatedAt   time.Time
}

// StockFilter holds the optional filters for ListStock.
type StockFilter struct {
	StoreID *uuid.UUID
	Search  string // case-insensitive substring over product name and SKU
	// BelowMin keeps only rows whose quantity is under the minimum.
	BelowMin bool
}

// ErrInsufficientStock is returned when a movement would drive a stock level
// below zero.
var ErrInsufficientStock = errors.New("insufficient stock for movement")

// ErrUnknownItem is returned when a movement references a product/store pair
// that does not exist.
var ErrUnknownItem = errors.New("unknown product or store")

const stockColumns = `st.id, st.product_id, st.store_id, p.name, p.sku, s.name,
	st.quantity, st.min_quantity, st.updated_at`

func scanStock(row pgx.Row) (*StockRow, error) {
	var r StockRow
	err := row.Scan(&r.ID, &r.ProductID, &r.StoreID, &r.ProductName, &r.SKU, &r.StoreName,
		&r.Quantity, &r.MinQuantity, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListStock returns stock levels ordered by product name then store name.
func (s *Store) ListStock(ctx context.Context, f StockFilter) ([]StockRow, error) {
	q := psql.Select(stockColumns).
		From("stock st").
		Join("products p ON p.id = st.product_id").
		Join("stores s ON s.id = st.store_id").
		OrderBy("p.name", "s.name")
	if f.StoreID != nil {
		q = q.Where(sq.Eq{"st.store_id": *f.StoreID})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(sq.Or{sq.ILike{"p.name": pattern}, sq.ILike{"p.sku": pattern}})
	}
	if f.BelowMin {
		q = q.Where("st.quantity < st.min_quantity")
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("list stock: build query: %w", err)
	}
	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var out []StockRow
	for rows.Next() {
		r, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("list stock: scan: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// SetMinQuantity updates the reorder threshold for a stock row.
// Returns ErrUnknownItem when the row does not exist.
func (s *Store) SetMinQuantity(ctx context.Context, productID, storeID uuid.UUID, minQuantity int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE stock SET min_quantity = $1, updated_at = now()
		 WHERE product_id = $2 AND store_id = $3`,
		minQuantity, productID, storeID)
	if err != nil {
		return fmt.Errorf("set min quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUnknownItem
	}
	return nil
}

// applyMovement upserts the stock level by delta and records the transaction
// row, both inside tx. A first movement for a product/store pair creates the
// stock row (delta must be positive in that case, enforced by the quantity
// check constraint).
func applyMovement(ctx context.Context, tx pgx.Tx, txType string, productID, storeID uuid.UUID, delta int, recordedBy string) (uuid.UUID, time.Time, error) {
	_, err := tx.Exec(ctx,
		`INSERT INTO stock (product_id, store_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (product_id, store_id)
		 DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = now()`,
		productID, storeID, delta)
	if isCheckViolation(err) {
		return uuid.Nil, time.Time{}, ErrInsufficientStock
	}
	if isForeignKeyViolation(err) {
		return uuid.Nil, time.Time{}, ErrUnknownItem
	}
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("apply stock delta: %w", err)
	}

	var id uuid.UUID
	var createdAt time.Time
	err = tx.QueryRow(ctx,
		`INSERT INTO transactions (type, product_id, store_id, quantity, recorded_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		txType, productID, storeID, delta, recordedBy,
	).Scan(&id, &createdAt)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("record transaction: %w", err)
	}
	return id, createdAt, nil
}
