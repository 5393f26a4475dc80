package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/product/model"
	"github.com/agustxnpm/foodflow-sub003/pkg/money"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `
	id, tenant_id, category_id, name, base_price, allowed_extra_ids, active, created_at, updated_at
`

// FindByID loads one product scoped to a tenant.
func (r *PostgresRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2`

	row := r.db.QueryRow(ctx, query, tenantID, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

// FindByIDs loads a batch of products in one round trip.
func (r *PostgresRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	out := make(map[uuid.UUID]*model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = ANY($2)`

	rows, err := r.db.Query(ctx, query, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out[product.ID] = product
	}
	return out, rows.Err()
}

// List returns the tenant's catalog, active products first.
func (r *PostgresRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 ORDER BY active DESC, name ASC`

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		p         model.Product
		basePrice decimal.Decimal
		extraIDs  []string
	)

	err := row.Scan(
		&p.ID,                 // id
		&p.TenantID,           // tenant_id
		&p.CategoryID,         // category_id
		&p.Name,               // name
		&basePrice,            // base_price
		pq.Array(&extraIDs),   // allowed_extra_ids uuid[]
		&p.Active,             // active
		&p.CreatedAt,          // created_at
		&p.UpdatedAt,          // updated_at
	)
	if err != nil {
		return nil, err
	}

	p.BasePrice = money.New(basePrice)
	p.AllowedExtraIDs = make([]uuid.UUID, 0, len(extraIDs))
	for _, raw := range extraIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse extra id %q: %w", raw, err)
		}
		p.AllowedExtraIDs = append(p.AllowedExtraIDs, id)
	}
	return &p, nil
}
