package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agustxnpm/foodflow-sub003/pkg/money"
)

// =====================================================
// CREATE ORDER REQUEST
// =====================================================

type CreateOrderRequest struct {
	TableName string `json:"table_name"`
}

func (req CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.TableName, validation.Length(0, 100)),
	)
}

// =====================================================
// ADD ITEM REQUEST
// =====================================================

// AddItemRequest adds a product to an open order. ExtraIDs reference catalog
// products sold as add-ons; a non-empty list makes the resulting line a
// customized offering that automatic promotions skip.
type AddItemRequest struct {
	ProductID string   `json:"product_id"`
	Quantity  int64    `json:"quantity"`
	Notes     string   `json:"notes"`
	ExtraIDs  []string `json:"extra_ids"`
}

func (req AddItemRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ProductID, validation.Required, is.UUID),
		validation.Field(&req.Quantity, validation.Required, validation.Min(int64(1)).Error("quantity must be at least 1")),
		validation.Field(&req.Notes, validation.Length(0, 500)),
		validation.Field(&req.ExtraIDs, validation.Each(is.UUID)),
	)
}

// =====================================================
// UPDATE QUANTITY REQUEST
// =====================================================

// UpdateQuantityRequest sets an absolute quantity. Zero removes the line.
type UpdateQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

func (req UpdateQuantityRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Quantity, validation.Min(int64(0)).Error("quantity cannot be negative")),
	)
}

// =====================================================
// MANUAL DISCOUNT REQUEST
// =====================================================

type ManualDiscountRequest struct {
	Mode   string          `json:"mode"`
	Value  decimal.Decimal `json:"value"`
	Reason string          `json:"reason"`
}

func (req ManualDiscountRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Mode, validation.Required, validation.In(
			string(ManualPercentage),
			string(ManualFixedAmount),
		).Error("mode must be PERCENTAGE or FIXED_AMOUNT")),
		validation.Field(&req.Value, validation.Required, validation.By(positiveDecimal)),
		validation.Field(&req.Reason, validation.Length(0, 250)),
	)
}

func positiveDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok || !d.IsPositive() {
		return validation.NewError("validation_positive", "must be a positive number")
	}
	return nil
}

// ToManualDiscount builds the domain value, stamping the staff member who
// granted it. Mode-specific range checks live in ManualDiscount.Validate.
func (req ManualDiscountRequest) ToManualDiscount(appliedBy uuid.UUID) (ManualDiscount, error) {
	d := ManualDiscount{
		Mode:      ManualDiscountMode(req.Mode),
		Value:     req.Value,
		Reason:    req.Reason,
		AppliedBy: appliedBy,
		AppliedAt: time.Now(),
	}
	if err := d.Validate(); err != nil {
		return ManualDiscount{}, err
	}
	return d, nil
}

// =====================================================
// RESPONSES
// =====================================================

type ExtraResponse struct {
	ProductID uuid.UUID   `json:"product_id"`
	Name      string      `json:"name"`
	UnitPrice money.Money `json:"unit_price"`
}

type ManualDiscountResponse struct {
	Mode      string          `json:"mode"`
	Value     decimal.Decimal `json:"value"`
	Amount    money.Money     `json:"amount"`
	Reason    string          `json:"reason,omitempty"`
	AppliedBy uuid.UUID       `json:"applied_by"`
	AppliedAt time.Time       `json:"applied_at"`
}

type OrderLineResponse struct {
	ID            uuid.UUID               `json:"id"`
	ProductID     uuid.UUID               `json:"product_id"`
	ProductName   string                  `json:"product_name"`
	UnitPrice     money.Money             `json:"unit_price"`
	Quantity      int64                   `json:"quantity"`
	Notes         string                  `json:"notes,omitempty"`
	Extras        []ExtraResponse         `json:"extras,omitempty"`
	Subtotal      money.Money             `json:"subtotal"`
	Discount      money.Money             `json:"discount"`
	PromotionID   *uuid.UUID              `json:"promotion_id,omitempty"`
	PromotionName *string                 `json:"promotion_name,omitempty"`
	Manual        *ManualDiscountResponse `json:"manual_discount,omitempty"`
	Total         money.Money             `json:"total"`
}

type OrderResponse struct {
	ID                uuid.UUID               `json:"id"`
	TableName         string                  `json:"table_name,omitempty"`
	Status            string                  `json:"status"`
	Lines             []OrderLineResponse     `json:"lines"`
	GrossSubtotal     money.Money             `json:"gross_subtotal"`
	PromotionDiscount money.Money             `json:"promotion_discount"`
	GlobalDiscount    *ManualDiscountResponse `json:"global_discount,omitempty"`
	Total             money.Money             `json:"total"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

func manualResponse(d *ManualDiscount, base money.Money) *ManualDiscountResponse {
	if d == nil {
		return nil
	}
	return &ManualDiscountResponse{
		Mode:      string(d.Mode),
		Value:     d.Value,
		Amount:    d.Amount(base),
		Reason:    d.Reason,
		AppliedBy: d.AppliedBy,
		AppliedAt: d.AppliedAt,
	}
}

func (l *OrderLine) toResponse() OrderLineResponse {
	extras := make([]ExtraResponse, 0, len(l.Extras))
	for _, e := range l.Extras {
		extras = append(extras, ExtraResponse{ProductID: e.ProductID, Name: e.Name, UnitPrice: e.UnitPrice})
	}

	afterPromo := l.BaseSubtotal().Sub(l.Discount)
	if afterPromo.IsNegative() {
		afterPromo = money.Zero()
	}

	return OrderLineResponse{
		ID:            l.ID,
		ProductID:     l.ProductID,
		ProductName:   l.ProductName,
		UnitPrice:     l.UnitPrice,
		Quantity:      l.Quantity.Int64(),
		Notes:         l.Notes,
		Extras:        extras,
		Subtotal:      l.GrossSubtotal(),
		Discount:      l.Discount,
		PromotionID:   l.PromotionID,
		PromotionName: l.PromotionName,
		Manual:        manualResponse(l.Manual, afterPromo),
		Total:         l.Total(),
	}
}

// ToResponse derives the presentation view of the aggregate. All amounts are
// computed, never stored, so the response is always consistent with the
// current lines.
func (o *Order) ToResponse() *OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	subtotalAfterLines := money.Zero()
	for _, l := range o.Lines {
		lines = append(lines, l.toResponse())
		subtotalAfterLines = subtotalAfterLines.Add(l.Total())
	}

	return &OrderResponse{
		ID:                o.ID,
		TableName:         o.TableName,
		Status:            string(o.Status),
		Lines:             lines,
		GrossSubtotal:     o.GrossSubtotal(),
		PromotionDiscount: o.PromotionDiscount(),
		GlobalDiscount:    manualResponse(o.Global, subtotalAfterLines),
		Total:             o.Total(),
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}
