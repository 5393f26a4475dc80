package model

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agustxnpm/foodflow-sub003/pkg/money"
)

// =====================================================
// ORDER STATUS CONSTANTS
// =====================================================

type OrderStatus string

const (
	OrderStatusOpen OrderStatus = "OPEN"
)

// =====================================================
// MANUAL DISCOUNT
// =====================================================

type ManualDiscountMode string

const (
	ManualPercentage  ManualDiscountMode = "PERCENTAGE"
	ManualFixedAmount ManualDiscountMode = "FIXED_AMOUNT"
)

// ManualDiscount is a staff-applied discount. Unlike automatic promotions it
// is dynamic: only the mode and value are stored, and the amount is computed
// against whatever base is current at the time totals are derived. It always
// applies AFTER automatic promotions, over the remaining amount.
type ManualDiscount struct {
	Mode      ManualDiscountMode `json:"mode"`
	Value     decimal.Decimal    `json:"value"`
	Reason    string             `json:"reason,omitempty"`
	AppliedBy uuid.UUID          `json:"applied_by"`
	AppliedAt time.Time          `json:"applied_at"`
}

// Validate checks the value against the mode.
func (d ManualDiscount) Validate() error {
	switch d.Mode {
	case ManualPercentage:
		if !d.Value.IsPositive() || d.Value.GreaterThan(decimal.NewFromInt(100)) {
			return ErrInvalidManualDiscount
		}
	case ManualFixedAmount:
		if !d.Value.IsPositive() {
			return ErrInvalidManualDiscount
		}
	default:
		return ErrInvalidManualDiscount
	}
	return nil
}

// Amount computes the discount against the given base. Fixed amounts are
// capped at the base; a discount can never take a line or order negative.
func (d ManualDiscount) Amount(base money.Money) money.Money {
	if base.IsNegative() || base.IsZero() {
		return money.Zero()
	}
	switch d.Mode {
	case ManualPercentage:
		return base.Percent(d.Value)
	case ManualFixedAmount:
		return money.New(d.Value).Min(base)
	}
	return money.Zero()
}

// =====================================================
// LINE EXTRAS
// =====================================================

// Extra is an add-on sold on top of a line's product (extra cheese, double
// portion). Name and price are snapshots. A line with extras is a customized
// offering: automatic promotions skip it entirely.
type Extra struct {
	ProductID uuid.UUID   `json:"product_id"`
	Name      string      `json:"name"`
	UnitPrice money.Money `json:"unit_price"`
}

// =====================================================
// ORDER LINE
// =====================================================

// OrderLine is one line of an order. Unit price, product name and category
// are snapshots captured at add-time; the catalog changing later does not
// affect an open order.
//
// Discount, PromotionID and PromotionName are owned by the rule engine and
// rewritten on every recalculation. ManualDiscount is owned by the order
// workflow and is never touched by the engine.
type OrderLine struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"order_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	CategoryID    uuid.UUID       `json:"category_id"`
	ProductName   string          `json:"product_name"`
	UnitPrice     money.Money     `json:"unit_price"`
	Quantity      money.Quantity  `json:"quantity"`
	Notes         string          `json:"notes,omitempty"`
	Extras        []Extra         `json:"extras,omitempty"`
	Discount      money.Money     `json:"discount"`
	PromotionID   *uuid.UUID      `json:"promotion_id,omitempty"`
	PromotionName *string         `json:"promotion_name,omitempty"`
	Manual        *ManualDiscount `json:"manual_discount,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (l *OrderLine) HasExtras() bool {
	return len(l.Extras) > 0
}

// BaseSubtotal is quantity × unit price, without extras or discounts. This
// is the only base automatic promotions ever discount.
func (l *OrderLine) BaseSubtotal() money.Money {
	return l.UnitPrice.MulInt(l.Quantity.Int64())
}

// ExtrasSubtotal is the per-unit extras total multiplied by the quantity.
func (l *OrderLine) ExtrasSubtotal() money.Money {
	perUnit := money.Zero()
	for _, e := range l.Extras {
		perUnit = perUnit.Add(e.UnitPrice)
	}
	return perUnit.MulInt(l.Quantity.Int64())
}

// GrossSubtotal is base + extras before any discount.
func (l *OrderLine) GrossSubtotal() money.Money {
	return l.BaseSubtotal().Add(l.ExtrasSubtotal())
}

// Total applies the discount hierarchy: automatic promotion first, then the
// manual line discount over the remainder, extras always at full price.
func (l *OrderLine) Total() money.Money {
	afterPromo := l.BaseSubtotal().Sub(l.Discount)
	if afterPromo.IsNegative() {
		afterPromo = money.Zero()
	}
	if l.Manual != nil {
		afterPromo = afterPromo.Sub(l.Manual.Amount(afterPromo))
	}
	return afterPromo.Add(l.ExtrasSubtotal())
}

// ClearPromotion resets the engine-owned fields. Manual discount stays.
func (l *OrderLine) ClearPromotion() {
	l.Discount = money.Zero()
	l.PromotionID = nil
	l.PromotionName = nil
}

// ApplyPromotion writes the engine result onto the line.
func (l *OrderLine) ApplyPromotion(promotionID uuid.UUID, promotionName string, discount money.Money) {
	l.Discount = discount
	id := promotionID
	name := promotionName
	l.PromotionID = &id
	l.PromotionName = &name
}

// SameConfiguration reports whether a new (product, notes, extras) tuple is
// the same offering as this line. Notes and extras are part of the identity:
// "milanesa" and "milanesa sin sal" never merge.
func (l *OrderLine) SameConfiguration(productID uuid.UUID, notes string, extras []Extra) bool {
	if l.ProductID != productID {
		return false
	}
	if strings.TrimSpace(l.Notes) != strings.TrimSpace(notes) {
		return false
	}
	return sameExtras(l.Extras, extras)
}

// sameExtras compares extras as multisets of product ids.
func sameExtras(a, b []Extra) bool {
	if len(a) != len(b) {
		return false
	}
	ka := extrasKey(a)
	kb := extrasKey(b)
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
	}
	return true
}

func extrasKey(extras []Extra) []string {
	keys := make([]string, 0, len(extras))
	for _, e := range extras {
		keys = append(keys, e.ProductID.String())
	}
	sort.Strings(keys)
	return keys
}

// =====================================================
// ORDER AGGREGATE
// =====================================================

// Order is the mutable aggregate the rule engine recalculates. Lines keep
// their insertion order; the engine relies on it when distributing rounding
// remainders, so it must be stable across loads.
type Order struct {
	ID        uuid.UUID       `json:"id"`
	TenantID  uuid.UUID       `json:"tenant_id"`
	TableName string          `json:"table_name,omitempty"`
	Status    OrderStatus     `json:"status"`
	Lines     []*OrderLine    `json:"lines"`
	Global    *ManualDiscount `json:"global_discount,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewOrder opens an empty order for a tenant.
func NewOrder(tenantID uuid.UUID, tableName string) *Order {
	now := time.Now()
	return &Order{
		ID:        uuid.New(),
		TenantID:  tenantID,
		TableName: strings.TrimSpace(tableName),
		Status:    OrderStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem adds a product to the order. If a line with the identical
// configuration (product + notes + extras) already exists, quantities merge
// into it and its promotion fields are reset pending recalculation.
// Returns the affected line.
func (o *Order) AddItem(
	productID uuid.UUID,
	categoryID uuid.UUID,
	productName string,
	unitPrice money.Money,
	qty money.Quantity,
	notes string,
	extras []Extra,
) (*OrderLine, error) {
	if !qty.IsPositive() {
		return nil, ErrNonPositiveQuantity
	}
	for _, line := range o.Lines {
		if line.SameConfiguration(productID, notes, extras) {
			line.Quantity = line.Quantity.Add(qty)
			line.ClearPromotion()
			o.UpdatedAt = time.Now()
			return line, nil
		}
	}

	line := &OrderLine{
		ID:          uuid.New(),
		OrderID:     o.ID,
		ProductID:   productID,
		CategoryID:  categoryID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    qty,
		Notes:       strings.TrimSpace(notes),
		Extras:      extras,
		Discount:    money.Zero(),
		CreatedAt:   time.Now(),
	}
	o.Lines = append(o.Lines, line)
	o.UpdatedAt = time.Now()
	return line, nil
}

// Line finds a line by id.
func (o *Order) Line(lineID uuid.UUID) (*OrderLine, error) {
	for _, line := range o.Lines {
		if line.ID == lineID {
			return line, nil
		}
	}
	return nil, ErrLineNotFound
}

// UpdateLineQuantity changes a line's quantity. Equal quantity is a no-op,
// zero removes the line, negative is rejected. Any change resets the line's
// promotion fields pending recalculation.
func (o *Order) UpdateLineQuantity(lineID uuid.UUID, qty money.Quantity) error {
	line, err := o.Line(lineID)
	if err != nil {
		return err
	}
	if qty < 0 {
		return ErrNonPositiveQuantity
	}
	if qty == line.Quantity {
		return nil
	}
	if qty == 0 {
		return o.RemoveLine(lineID)
	}
	line.Quantity = qty
	line.ClearPromotion()
	o.UpdatedAt = time.Now()
	return nil
}

// RemoveLine deletes a line from the order.
func (o *Order) RemoveLine(lineID uuid.UUID) error {
	for i, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			o.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrLineNotFound
}

// ApplyLineDiscount sets or replaces the manual discount of a line.
func (o *Order) ApplyLineDiscount(lineID uuid.UUID, d ManualDiscount) error {
	if err := d.Validate(); err != nil {
		return err
	}
	line, err := o.Line(lineID)
	if err != nil {
		return err
	}
	line.Manual = &d
	o.UpdatedAt = time.Now()
	return nil
}

// ApplyGlobalDiscount sets or replaces the order-level manual discount.
func (o *Order) ApplyGlobalDiscount(d ManualDiscount) error {
	if err := d.Validate(); err != nil {
		return err
	}
	o.Global = &d
	o.UpdatedAt = time.Now()
	return nil
}

// ClearPromotions resets the engine-owned fields on every line. Manual
// discounts are untouched.
func (o *Order) ClearPromotions() {
	for _, line := range o.Lines {
		line.ClearPromotion()
	}
}

// ProductIDs returns the distinct products on the order, extras lines
// included (content criteria care about presence, not eligibility).
func (o *Order) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(o.Lines))
	var out []uuid.UUID
	for _, line := range o.Lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			out = append(out, line.ProductID)
		}
	}
	return out
}

// GrossSubtotal is the order total before any discount.
func (o *Order) GrossSubtotal() money.Money {
	total := money.Zero()
	for _, line := range o.Lines {
		total = total.Add(line.GrossSubtotal())
	}
	return total
}

// PromotionDiscount is the sum of engine-granted discounts.
func (o *Order) PromotionDiscount() money.Money {
	total := money.Zero()
	for _, line := range o.Lines {
		total = total.Add(line.Discount)
	}
	return total
}

// Total applies the full hierarchy: line totals (promotion, then manual line
// discount) summed, then the global manual discount over the result.
func (o *Order) Total() money.Money {
	total := money.Zero()
	for _, line := range o.Lines {
		total = total.Add(line.Total())
	}
	if o.Global != nil {
		total = total.Sub(o.Global.Amount(total))
	}
	return total
}
