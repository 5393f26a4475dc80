package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/order/model"
	"github.com/agustxnpm/foodflow-sub003/internal/domains/order/repository"
	productmodel "github.com/agustxnpm/foodflow-sub003/internal/domains/product/model"
	productrepo "github.com/agustxnpm/foodflow-sub003/internal/domains/product/repository"
	"github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/engine"
	promotionmodel "github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/model"
	promotionservice "github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/service"
	"github.com/agustxnpm/foodflow-sub003/pkg/logger"
	"github.com/agustxnpm/foodflow-sub003/pkg/money"
)

type orderService struct {
	orders     repository.OrderRepository
	products   productrepo.ProductRepository
	promotions promotionservice.ServiceInterface
	engine     *engine.Engine
	clock      engine.Clock
}

// NewOrderService wires the order workflow. The engine instance is stateless
// and shared; the clock is injectable so evaluation time is controllable in
// tests.
func NewOrderService(
	orders repository.OrderRepository,
	products productrepo.ProductRepository,
	promotions promotionservice.ServiceInterface,
	eng *engine.Engine,
	clock engine.Clock,
) ServiceInterface {
	if clock == nil {
		clock = engine.SystemClock()
	}
	return &orderService{
		orders:     orders,
		products:   products,
		promotions: promotions,
		engine:     eng,
		clock:      clock,
	}
}

// -------------------------------------------------------------------
// LIFECYCLE
// -------------------------------------------------------------------

func (s *orderService) Create(ctx context.Context, tenantID uuid.UUID, req *model.CreateOrderRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, "invalid order request", err)
	}

	order := model.NewOrder(tenantID, req.TableName)
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, model.NewOrderError(model.ErrCodeStorageFailure, "failed to create order", err)
	}

	logger.Info("order created", map[string]interface{}{
		"order_id":  order.ID,
		"tenant_id": tenantID,
	})
	return order, nil
}

func (s *orderService) Get(ctx context.Context, tenantID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, tenantID, orderID)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return nil, model.NewOrderError(model.ErrCodeOrderNotFound, "order not found", err)
		}
		return nil, model.NewOrderError(model.ErrCodeStorageFailure, "failed to load order", err)
	}
	return order, nil
}

func (s *orderService) ListOpen(ctx context.Context, tenantID uuid.UUID) ([]*model.Order, error) {
	orders, err := s.orders.ListOpen(ctx, tenantID)
	if err != nil {
		return nil, model.NewOrderError(model.ErrCodeStorageFailure, "failed to list orders", err)
	}
	return orders, nil
}

func (s *orderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	if err := s.orders.Delete(ctx, tenantID, orderID); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return model.NewOrderError(model.ErrCodeOrderNotFound, "order not found", err)
		}
		return model.NewOrderError(model.ErrCodeStorageFailure, "failed to delete order", err)
	}
	return nil
}

// -------------------------------------------------------------------
// ITEM MUTATIONS
// -------------------------------------------------------------------

// AddItem snapshots the product, attaches it to the order (merging into an
// existing line when the configuration matches) and recalculates promotions
// before the aggregate is saved.
func (s *orderService) AddItem(ctx context.Context, tenantID, orderID uuid.UUID, req *model.AddItemRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, "invalid item request", err)
	}

	order, err := s.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, "invalid product id", err)
	}

	product, err := s.products.FindByID(ctx, tenantID, productID)
	if err != nil {
		if errors.Is(err, productmodel.ErrProductNotFound) {
			return nil, model.NewOrderError(model.ErrCodeProductNotFound, "product not found", err)
		}
		return nil, model.NewOrderError(model.ErrCodeStorageFailure, "failed to load product", err)
	}
	if !product.Active {
		return nil, model.NewOrderError(model.ErrCodeProductNotFound, "product not available", productmodel.ErrProductInactive)
	}

	extras, err := s.resolveExtras(ctx, tenantID, product, req.ExtraIDs)
	if err != nil {
		return nil, err
	}

	candidates, err := s.candidates(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	line, err := s.engine.ApplyOnAdd(
		order,
		product.ID,
		product.CategoryID,
		product.Name,
		product.BasePrice,
		money.Quantity(req.Quantity),
		req.Notes,
		extras,
		candidates,
		s.clock.Now(),
	)
	if err != nil {
		return nil, model.NewOrderError(model.ErrCodeNonPositiveQuantity, "cannot add item", err)
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, model.NewOrderError(model.ErrCodeStorageFailure, "failed to save order", err)
	}

	logger.Info("item added", map[string]interface{}{
		"order_id":   order.ID,
		"line_id":    line.ID,
		"product_id": product.ID,
		"quantity":   line.Quantity.Int64(),
	})
	return order, nil
}

func (s *orderService) UpdateItemQuantity(ctx context.Context, tenantID, orderID, lineID uuid.UUID, quantity int64) (*model.Order, error) {
	order, err := s.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateLineQuantity(lineID, money.Quantity(quantity)); err != nil {
		switch {
		case errors.Is(err, model.ErrLineNotFound):
			return nil, model.NewOrderError(model.ErrCodeLineNotFound, "order line not found", err)
		case errors.Is(err, model.ErrNonPositiveQuantity):
			return nil, model.NewOrderError(model.ErrCodeNonPositiveQuantity, "invalid quantity", err)
		default:
			return nil, model.NewOrderError(model.ErrCodeInvalidOrder, "cannot update quantity", err)
		}
	}

	return s.recalculateAndSave(ctx, tenantID, order)
}

func (s *orderService) RemoveItem(ctx context.Context, tenantID, orderID, lineID uuid.UUID) (*model.Order, error) {
	order, err := s.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveLine(lineID); err != nil {
		return nil, model.NewOrderError(model.ErrCodeLineNotFound, "order line not found", err)
	}

	return s.recalculateAndSave(ctx, tenantID, order)
}

// Recalculate re-runs the rule engine over the order as it stands. Safe to
// call any number of times.
func (s *orderService) Recalculate(ctx context.Context, tenantID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	return s.recalculateAndSave(ctx, tenantID, order)
}

// -------------------------------------------------------------------
// MANUAL DISCOUNTS
// -------------------------------------------------------------------

// ApplyLineDiscount attaches a staff discount to one line. No recalculation:
// manual discounts layer after automatic promotions and never affect them.
func (s *orderService) ApplyLineDiscount(ctx context.Context, tenantID, orderID, lineID, appliedBy uuid.UUID, req *model.ManualDiscountRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidDiscount, "invalid discount request", err)
	}

	order, err := s.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	discount, err := req.ToManualDiscount(appliedBy)
	if err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidDiscount, "invalid discount", err)
	}

	if err := order.ApplyLineDiscount(lineID, discount); err != nil {
		if errors.Is(err, model.ErrLineNotFound) {
			return nil, model.NewOrderError(model.ErrCodeLineNotFound, "order line not found", err)
		}
		return nil, model.NewOrderError(model.ErrCodeInvalidDiscount, "invalid discount", err)
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, model.NewOrderError(model.ErrCodeStorageFailure, "failed to save order", err)
	}
	return order, nil
}

func (s *orderService) ApplyGlobalDiscount(ctx context.Context, tenantID, orderID, appliedBy uuid.UUID, req *model.ManualDiscountRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidDiscount, "invalid discount request", err)
	}

	order, err := s.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	discount, err := req.ToManualDiscount(appliedBy)
	if err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidDiscount, "invalid discount", err)
	}

	if err := order.ApplyGlobalDiscount(discount); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidDiscount, "invalid discount", err)
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, model.NewOrderError(model.ErrCodeStorageFailure, "failed to save order", err)
	}
	return order, nil
}

// -------------------------------------------------------------------
// HELPERS
// -------------------------------------------------------------------

func (s *orderService) recalculateAndSave(ctx context.Context, tenantID uuid.UUID, order *model.Order) (*model.Order, error) {
	candidates, err := s.candidates(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	s.engine.Recalculate(order, candidates, s.clock.Now())

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, model.NewOrderError(model.ErrCodeStorageFailure, "failed to save order", err)
	}
	return order, nil
}

// candidates loads the tenant's active promotions in engine order. A failure
// here aborts the mutation: saving an order with stale promotion state would
// break idempotence guarantees.
func (s *orderService) candidates(ctx context.Context, tenantID uuid.UUID) ([]*promotionmodel.Promotion, error) {
	candidates, err := s.promotions.ActiveCandidates(ctx, tenantID)
	if err != nil {
		return nil, model.NewOrderError(model.ErrCodeStorageFailure, "failed to load promotions", err)
	}
	return candidates, nil
}

// resolveExtras maps requested extra ids to price snapshots, enforcing the
// product's whitelist.
func (s *orderService) resolveExtras(ctx context.Context, tenantID uuid.UUID, product *productmodel.Product, extraIDs []string) ([]model.Extra, error) {
	if len(extraIDs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(extraIDs))
	for _, raw := range extraIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, model.NewOrderError(model.ErrCodeInvalidOrder, "invalid extra id", err)
		}
		if !product.AllowsExtra(id) {
			return nil, model.NewOrderError(model.ErrCodeInvalidOrder,
				fmt.Sprintf("extra %s is not allowed for product %s", id, product.Name),
				productmodel.ErrExtraNotAllowed)
		}
		ids = append(ids, id)
	}

	extraProducts, err := s.products.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, model.NewOrderError(model.ErrCodeStorageFailure, "failed to load extras", err)
	}

	extras := make([]model.Extra, 0, len(ids))
	for _, id := range ids {
		p, ok := extraProducts[id]
		if !ok || !p.Active {
			return nil, model.NewOrderError(model.ErrCodeProductNotFound, "extra product not found", productmodel.ErrExtraUnavailable)
		}
		extras = append(extras, model.Extra{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.BasePrice,
		})
	}
	return extras, nil
}
