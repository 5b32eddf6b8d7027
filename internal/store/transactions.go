// ABOUTME: Store methods for the stock movement ledger.
// ABOUTME: RecordTransaction is the only write path — the ledger and the stock level cannot drift.
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

// Transaction types. Sales and outbound transfers carry negative quantities.
const (
	TxSale       = "sale"
	TxRestock    = "restock"
	TxTransfer   = "transfer"
	TxAdjustment = "adjustment"
)

// ValidTransactionType reports whether t is one of the known ledger types.
func ValidTransactionType(t string) bool {
	switch t {
	case TxSale, TxRestock, TxTransfer, TxAdjustment:
		return true
	}
	return false
}

// ErrQuantitySign is returned when a movement's quantity is zero or its sign
// contradicts the transaction type (positive sale, negative restock).
var ErrQuantitySign = errors.New("quantity sign does not match transaction type")

// checkQuantitySign enforces the sign convention before anything is written.
// Transfers and adjustments move stock in either direction and only need to
// be non-zero.
func checkQuantitySign(txType string, quantity int) error {
	switch {
	case quantity == 0:
		return ErrQuantitySign
	case txType == TxSale && quantity > 0:
		return ErrQuantitySign
	case txType == TxRestock && quantity < 0:
		return ErrQuantitySign
	}
	return nil
}

// TransactionRow is a ledger entry joined with its product and store names.
type TransactionRow struct {
	ID          uuid.UUID
	Type        string
	ProductID   uuid.UUID
	StoreID     uuid.UUID
	ProductName string
	SKU         string
	StoreName   string
	Quantity    int
	RecordedBy  string
	CreatedAt   time.Time
}

// RecordTransactionParams holds the fields for creating a ledger entry.
type RecordTransactionParams struct {
	Type       string
	ProductID  uuid.UUID
	StoreID    uuid.UUID
	Quantity   int // signed delta
	RecordedBy string
}

// TransactionFilter holds the optional filters for ListTransactions.
type TransactionFilter struct {
	Type    string
	StoreID *uuid.UUID
	Limit   int // 0 means the default of 100
}

// RecordTransaction writes a ledger entry and applies its quantity delta to
// the stock level atomically. Returns ErrQuantitySign for a zero or
// wrong-sign quantity, ErrInsufficientStock when the delta would drive the
// level negative, and ErrUnknownItem for an unknown product/store pair.
func (s *Store) RecordTransaction(ctx context.Context, p RecordTransactionParams) (*TransactionRow, error) {
	if err := checkQuantitySign(p.Type, p.Quantity); err != nil {
		return nil, err
	}
	var id uuid.UUID
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		id, _, err = applyMovement(ctx, tx, p.Type, p.ProductID, p.StoreID, p.Quantity, p.RecordedBy)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetTransaction(ctx, id)
}

const transactionColumns = `t.id, t.type, t.product_id, t.store_id, p.name, p.sku, s.name,
	t.quantity, t.recorded_by, t.created_at`

func scanTransaction(row pgx.Row) (*TransactionRow, error) {
	var r TransactionRow
	err := row.Scan(&r.ID, &r.Type, &r.ProductID, &r.StoreID, &r.ProductName, &r.SKU, &r.StoreName,
		&r.Quantity, &r.RecordedBy, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetTransaction returns one ledger entry by id.
func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionRow, error) {
	row, err := scanTransaction(s.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t
		 JOIN products p ON p.id = t.product_id
		 JOIN stores s ON s.id = t.store_id
		 WHERE t.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return row, nil
}

// ListTransactions returns ledger entries, newest first.
func (s *Store) ListTransactions(ctx context.Context, f TransactionFilter) ([]TransactionRow, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	q := psql.Select(transactionColumns).
		From("transactions t").
		Join("products p ON p.id = t.product_id").
		Join("stores s ON s.id = t.store_id").
		OrderBy("t.created_at DESC").
		Limit(uint64(limit))
	if f.Type != "" {
		q = q.Where(sq.Eq{"t.type": f.Type})
	}
	if f.StoreID != nil {
		q = q.Where(sq.Eq{"t.store_id": *f.StoreID})
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("list transactions: build query: %w", err)
	}
	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		r, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("list transactions: scan: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}
