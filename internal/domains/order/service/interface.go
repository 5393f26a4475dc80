package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/order/model"
)

// ServiceInterface is the order workflow. Item mutations that can change
// promotion eligibility (add, quantity change, removal) run a full
// recalculation before the aggregate is saved; manual discounts never do,
// they layer on top of whatever the engine granted.
type ServiceInterface interface {
	Create(ctx context.Context, tenantID uuid.UUID, req *model.CreateOrderRequest) (*model.Order, error)
	Get(ctx context.Context, tenantID, orderID uuid.UUID) (*model.Order, error)
	ListOpen(ctx context.Context, tenantID uuid.UUID) ([]*model.Order, error)
	Delete(ctx context.Context, tenantID, orderID uuid.UUID) error

	AddItem(ctx context.Context, tenantID, orderID uuid.UUID, req *model.AddItemRequest) (*model.Order, error)
	UpdateItemQuantity(ctx context.Context, tenantID, orderID, lineID uuid.UUID, quantity int64) (*model.Order, error)
	RemoveItem(ctx context.Context, tenantID, orderID, lineID uuid.UUID) (*model.Order, error)

	Recalculate(ctx context.Context, tenantID, orderID uuid.UUID) (*model.Order, error)

	ApplyLineDiscount(ctx context.Context, tenantID, orderID, lineID, appliedBy uuid.UUID, req *model.ManualDiscountRequest) (*model.Order, error)
	ApplyGlobalDiscount(ctx context.Context, tenantID, orderID, appliedBy uuid.UUID, req *model.ManualDiscountRequest) (*model.Order, error)
}
