// ABOUTME: Store methods for retail store (location) CRUD.
// ABOUTME: ProductsCount is derived from stock rows, never written directly.
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

// StoreRow is a retail store location record. ProductsCount is the number of
// distinct products stocked at the location.
type StoreRow struct {
	ID            uuid.UUID
	Name          string
	Location      string
	Address       string
	Manager       string
	Status        string
	ProductsCount int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateStoreParams holds the fields for creating a retail store.
type CreateStoreParams struct {
	Name     string
	Location string
	Address  string
	Manager  string
	Status   string
}

// UpdateStoreParams uses pointer fields so only supplied keys are updated.
type UpdateStoreParams struct {
	Name     *string
	Location *string
	Address  *string
	Manager  *string
	Status   *string
}

// ErrDuplicateStoreName is returned when a create collides with an existing store name.
var ErrDuplicateStoreName = errors.New("store name already exists")

const storeColumns = `s.id, s.name, s.location, s.address, s.manager, s.status,
	(SELECT count(*) FROM stock st WHERE st.store_id = s.id) AS products_count,
	s.created_at, s.updated_at`

func scanStore(row pgx.Row) (*StoreRow, error) {
	var r StoreRow
	err := row.Scan(&r.ID, &r.Name, &r.Location, &r.Address, &r.Manager, &r.Status,
		&r.ProductsCount, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateStore inserts a new retail store. Status defaults to active when empty.
func (s *Store) CreateStore(ctx context.Context, p CreateStoreParams) (*StoreRow, error) {
	status := p.Status
	if status == "" {
		status = "active"
	}
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO stores (name, location, address, manager, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		p.Name, p.Location, p.Address, p.Manager, status,
	).Scan(&id)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateStoreName
	}
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return s.GetStore(ctx, id)
}

// GetStore returns the store with the given id, or (nil, nil) if it does not exist.
func (s *Store) GetStore(ctx context.Context, id uuid.UUID) (*StoreRow, error) {
	row, err := scanStore(s.pool.QueryRow(ctx,
		`SELECT `+storeColumns+` FROM stores s WHERE s.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}
	return row, nil
}

// ListStores returns stores ordered by name. When activeOnly is set, inactive
// stores are excluded.
func (s *Store) ListStores(ctx context.Context, activeOnly bool) ([]StoreRow, error) {
	q := psql.Select(storeColumns).From("stores s").OrderBy("s.name")
	if activeOnly {
		q = q.Where(sq.Eq{"s.status": "active"})
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("list stores: build query: %w", err)
	}
	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var out []StoreRow
	for rows.Next() {
		r, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("list stores: scan: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// UpdateStore applies the non-nil fields of p to the store with the given id.
// Returns (nil, nil) when the store does not exist.
func (s *Store) UpdateStore(ctx context.Context, id uuid.UUID, p UpdateStoreParams) (*StoreRow, error) {
	q := psql.Update("stores").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id")
	if p.Name != nil {
		q = q.Set("name", *p.Name)
	}
	if p.Location != nil {
		q = q.Set("location", *p.Location)
	}
	if p.Address != nil {
		q = q.Set("address", *p.Address)
	}
	if p.Manager != nil {
		q = q.Set("manager", *p.Manager)
	}
	if p.Status != nil {
		q = q.Set("status", *p.Status)
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("update store: build query: %w", err)
	}
	var updatedID uuid.UUID
	err = s.pool.QueryRow(ctx, sqlStr, args...).Scan(&updatedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicateStoreName
	}
	if err != nil {
		return nil, fmt.Errorf("update store: %w", err)
	}
	return s.GetStore(ctx, updatedID)
}

// DeleteStore removes the store and, via cascade, its stock rows and
// transactions. Reports whether a row was deleted.
func (s *Store) DeleteStore(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete store: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
