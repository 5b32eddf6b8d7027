// ABOUTME: Store methods for product catalog CRUD.
// ABOUTME: Get/Update/Delete return (nil, nil) or false when the product does not exist.
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

// ProductRow is the product catalog record returned by store methods.
type ProductRow struct {
	ID          uuid.UUID
	SKU         string
	Name        string
	Category    string
	Price       float64
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateProductParams holds the fields for creating a product.
type CreateProductParams struct {
	SKU         string
	Name        string
	Category    string
	Price       float64
	Description string
}

// UpdateProductParams uses pointer fields so only supplied keys are updated.
type UpdateProductParams struct {
	Name        *string
	Category    *string
	Price       *float64
	Description *string
}

// ErrDuplicateSKU is returned when a create collides with an existing SKU.
var ErrDuplicateSKU = errors.New("sku already exists")

const productColumns = "id, sku, name, category, price, description, created_at, updated_at"

func scanProduct(row pgx.Row) (*ProductRow, error) {
	var p ProductRow
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.Price, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts a new product. Returns ErrDuplicateSKU when the SKU
// is already taken.
func (s *Store) CreateProduct(ctx context.Context, p CreateProductParams) (*ProductRow, error) {
	row, err := scanProduct(s.pool.QueryRow(ctx,
		`INSERT INTO products (sku, name, category, price, description)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+productColumns,
		p.SKU, p.Name, p.Category, p.Price, p.Description,
	))
	if isUniqueViolation(err) {
		return nil, ErrDuplicateSKU
	}
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return row, nil
}

// GetProduct returns the product with the given id, or (nil, nil) if it does
// not exist.
func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*ProductRow, error) {
	row, err := scanProduct(s.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row, nil
}

// ListProductsParams holds the optional filters for ListProducts.
type ListProductsParams struct {
	Category string // exact match when non-empty
	Search   string // case-insensitive substring over name and SKU
}

// ListProducts returns products ordered by SKU, optionally filtered.
func (s *Store) ListProducts(ctx context.Context, p ListProductsParams) ([]ProductRow, error) {
	q := psql.Select("id", "sku", "name", "category", "price", "description", "created_at", "updated_at").
		From("products").
		OrderBy("sku")
	if p.Category != "" {
		q = q.Where(sq.Eq{"category": p.Category})
	}
	if p.Search != "" {
		pattern := "%" + p.Search + "%"
		q = q.Where(sq.Or{sq.ILike{"name": pattern}, sq.ILike{"sku": pattern}})
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("list products: build query: %w", err)
	}
	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []ProductRow
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("list products: scan: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdateProduct applies the non-nil fields of p to the product with the given
// id. Returns (nil, nil) when the product does not exist.
func (s *Store) UpdateProduct(ctx context.Context, id uuid.UUID, p UpdateProductParams) (*ProductRow, error) {
	q := psql.Update("products").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + productColumns)
	if p.Name != nil {
		q = q.Set("name", *p.Name)
	}
	if p.Category != nil {
		q = q.Set("category", *p.Category)
	}
	if p.Price != nil {
		q = q.Set("price", *p.Price)
	}
	if p.Description != nil {
		q = q.Set("description", *p.Description)
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("update product: build query: %w", err)
	}
	row, err := scanProduct(s.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return row, nil
}

// DeleteProduct removes the product and, via cascade, its stock rows and
// transactions. Reports whether a row was deleted.
func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
