package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/order/model"
	"github.com/agustxnpm/foodflow-sub003/internal/infrastructure/database"
	"github.com/agustxnpm/foodflow-sub003/pkg/money"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// -------------------------------------------------------------------
// WRITES
// -------------------------------------------------------------------

// Create inserts a fresh order header. Orders start without lines.
func (r *PostgresRepository) Create(ctx context.Context, order *model.Order) error {
	query := `
		INSERT INTO orders (id, tenant_id, table_name, status, global_discount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	global, err := marshalNullable(order.Global)
	if err != nil {
		return fmt.Errorf("encode global discount: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		order.ID,
		order.TenantID,
		order.TableName,
		order.Status,
		global,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Save replaces the whole aggregate. Lines are deleted and reinserted with
// their position so that insertion order survives a reload; the engine's
// remainder distribution depends on it.
func (r *PostgresRepository) Save(ctx context.Context, order *model.Order) error {
	global, err := marshalNullable(order.Global)
	if err != nil {
		return fmt.Errorf("encode global discount: %w", err)
	}

	return database.ExecuteInTransaction(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE orders
			SET table_name = $3, status = $4, global_discount = $5, updated_at = $6
			WHERE tenant_id = $1 AND id = $2
		`, order.TenantID, order.ID, order.TableName, order.Status, global, order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrOrderNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, order.ID); err != nil {
			return fmt.Errorf("clear order lines: %w", err)
		}
		return insertLines(ctx, tx, order)
	})
}

// Delete removes an order and its lines.
func (r *PostgresRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return database.ExecuteInTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, id); err != nil {
			return fmt.Errorf("delete order lines: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE tenant_id = $1 AND id = $2`, tenantID, id)
		if err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrOrderNotFound
		}
		return nil
	})
}

func insertLines(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO order_lines (
			id, order_id, product_id, category_id, product_name, unit_price,
			quantity, notes, extras, discount, promotion_id, promotion_name,
			manual_discount, position, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	for position, line := range order.Lines {
		extras, err := json.Marshal(line.Extras)
		if err != nil {
			return fmt.Errorf("encode extras: %w", err)
		}
		manual, err := marshalNullable(line.Manual)
		if err != nil {
			return fmt.Errorf("encode manual discount: %w", err)
		}

		_, err = tx.Exec(ctx, query,
			line.ID,
			order.ID,
			line.ProductID,
			line.CategoryID,
			line.ProductName,
			line.UnitPrice.Decimal(),
			line.Quantity.Int64(),
			line.Notes,
			extras,
			line.Discount.Decimal(),
			line.PromotionID,
			line.PromotionName,
			manual,
			position,
			line.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

// -------------------------------------------------------------------
// READS
// -------------------------------------------------------------------

// FindByID loads the aggregate with its lines in insertion order.
func (r *PostgresRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT id, tenant_id, table_name, status, global_discount, created_at, updated_at
		FROM orders
		WHERE tenant_id = $1 AND id = $2
	`

	order, err := scanOrder(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	if err := r.loadLines(ctx, []*model.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOpen returns a tenant's open orders, oldest first.
func (r *PostgresRepository) ListOpen(ctx context.Context, tenantID uuid.UUID) ([]*model.Order, error) {
	query := `
		SELECT id, tenant_id, table_name, status, global_discount, created_at, updated_at
		FROM orders
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, tenantID, model.OrderStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) loadLines(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*model.Order, len(orders))
	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	query := `
		SELECT id, order_id, product_id, category_id, product_name, unit_price,
		       quantity, notes, extras, discount, promotion_id, promotion_name,
		       manual_discount, created_at
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY order_id, position ASC
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		if order, ok := byID[line.OrderID]; ok {
			order.Lines = append(order.Lines, line)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o      model.Order
		global []byte
	)

	err := row.Scan(
		&o.ID,        // id
		&o.TenantID,  // tenant_id
		&o.TableName, // table_name
		&o.Status,    // status
		&global,      // global_discount jsonb
		&o.CreatedAt, // created_at
		&o.UpdatedAt, // updated_at
	)
	if err != nil {
		return nil, err
	}

	if len(global) > 0 {
		var d model.ManualDiscount
		if err := json.Unmarshal(global, &d); err != nil {
			return nil, fmt.Errorf("decode global discount: %w", err)
		}
		o.Global = &d
	}
	return &o, nil
}

func scanLine(row pgx.Row) (*model.OrderLine, error) {
	var (
		l         model.OrderLine
		unitPrice decimal.Decimal
		quantity  int64
		extras    []byte
		discount  decimal.Decimal
		manual    []byte
	)

	err := row.Scan(
		&l.ID,            // id
		&l.OrderID,       // order_id
		&l.ProductID,     // product_id
		&l.CategoryID,    // category_id
		&l.ProductName,   // product_name
		&unitPrice,       // unit_price
		&quantity,        // quantity
		&l.Notes,         // notes
		&extras,          // extras jsonb
		&discount,        // discount
		&l.PromotionID,   // promotion_id
		&l.PromotionName, // promotion_name
		&manual,          // manual_discount jsonb
		&l.CreatedAt,     // created_at
	)
	if err != nil {
		return nil, err
	}

	l.UnitPrice = money.New(unitPrice)
	l.Quantity = money.Quantity(quantity)
	l.Discount = money.New(discount)

	if len(extras) > 0 {
		if err := json.Unmarshal(extras, &l.Extras); err != nil {
			return nil, fmt.Errorf("decode extras: %w", err)
		}
	}
	if len(manual) > 0 {
		var d model.ManualDiscount
		if err := json.Unmarshal(manual, &d); err != nil {
			return nil, fmt.Errorf("decode manual discount: %w", err)
		}
		l.Manual = &d
	}
	return &l, nil
}

// marshalNullable keeps absent discounts as SQL NULL instead of "null".
func marshalNullable(d *model.ManualDiscount) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}
