package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/order/model"
)

// OrderRepository persists the order aggregate. Save replaces the whole
// aggregate (header plus lines) in one transaction; the rule engine mutates
// orders in memory and the result is written back atomically, so readers
// never observe a half-recalculated order.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Save(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Order, error)
	ListOpen(ctx context.Context, tenantID uuid.UUID) ([]*model.Order, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
