package model

import (
	"github.com/shopspring/decimal"

	"github.com/agustxnpm/foodflow-sub003/pkg/money"
)

// =====================================================
// STRATEGY VARIANTS
// =====================================================

// StrategyType tags the closed set of benefit strategies.
type StrategyType string

const (
	StrategyDirectDiscount   StrategyType = "DIRECT_DISCOUNT"
	StrategyFixedQuantity    StrategyType = "FIXED_QUANTITY"
	StrategyConditionalCombo StrategyType = "CONDITIONAL_COMBO"
	StrategyFixedPricePerQty StrategyType = "FIXED_PRICE_PER_QUANTITY"
)

// DiscountMode distinguishes percentage from fixed-amount direct discounts.
type DiscountMode string

const (
	ModePercentage  DiscountMode = "PERCENTAGE"
	ModeFixedAmount DiscountMode = "FIXED_AMOUNT"
)

func (m DiscountMode) IsValid() bool {
	return m == ModePercentage || m == ModeFixedAmount
}

// Strategy is the benefit computation of a promotion. The engine dispatches
// on the concrete type; strategies themselves are plain validated data.
type Strategy interface {
	Type() StrategyType
	Validate() error
}

// DirectDiscount takes a percentage or a fixed amount off every target unit.
type DirectDiscount struct {
	Mode  DiscountMode    `json:"mode"`
	Value decimal.Decimal `json:"value"`
}

func (d DirectDiscount) Type() StrategyType { return StrategyDirectDiscount }

func (d DirectDiscount) Validate() error {
	if !d.Mode.IsValid() {
		return ErrInvalidDiscountMode
	}
	if !d.Value.IsPositive() {
		return ErrNonPositiveDiscountValue
	}
	if d.Mode == ModePercentage && d.Value.GreaterThan(decimal.NewFromInt(100)) {
		return ErrPercentageOutOfRange
	}
	return nil
}

// FixedQuantity is the classic "buy N pay M" (2x1, 3x2). Buy must strictly
// exceed Pay or the strategy would never grant anything.
type FixedQuantity struct {
	Buy money.Quantity `json:"buy"`
	Pay money.Quantity `json:"pay"`
}

func (f FixedQuantity) Type() StrategyType { return StrategyFixedQuantity }

func (f FixedQuantity) Validate() error {
	if f.Pay < 1 {
		return ErrInvalidQuantityRatio
	}
	if f.Buy <= f.Pay {
		return ErrInvalidQuantityRatio
	}
	return nil
}

// FreePerCycle is the number of units not charged in one complete cycle.
func (f FixedQuantity) FreePerCycle() money.Quantity {
	return f.Buy - f.Pay
}

// ConditionalCombo grants a percentage off TARGET lines once at least
// MinTriggerQty units of a TRIGGER product exist in the order. A combo with
// no TRIGGER scope items applies unconditionally.
type ConditionalCombo struct {
	MinTriggerQty     money.Quantity  `json:"min_trigger_qty"`
	BenefitPercentage decimal.Decimal `json:"benefit_percentage"`
}

func (c ConditionalCombo) Type() StrategyType { return StrategyConditionalCombo }

func (c ConditionalCombo) Validate() error {
	if c.MinTriggerQty < 1 {
		return ErrInvalidTriggerQuantity
	}
	if !c.BenefitPercentage.IsPositive() || c.BenefitPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return ErrPercentageOutOfRange
	}
	return nil
}

// FixedPricePerQuantity charges a flat pack price for every complete group of
// ActivationQty units ("2 for 24000"). Remainder units pay full unit price.
type FixedPricePerQuantity struct {
	ActivationQty money.Quantity `json:"activation_qty"`
	PackPrice     money.Money    `json:"pack_price"`
}

func (f FixedPricePerQuantity) Type() StrategyType { return StrategyFixedPricePerQty }

func (f FixedPricePerQuantity) Validate() error {
	if f.ActivationQty < 2 {
		return ErrInvalidActivationQuantity
	}
	if !f.PackPrice.IsPositive() {
		return ErrNonPositivePackPrice
	}
	return nil
}
