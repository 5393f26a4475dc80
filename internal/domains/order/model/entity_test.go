package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agustxnpm/foodflow-sub003/pkg/money"
)

func add(t *testing.T, o *Order, productID uuid.UUID, price, qty int64, notes string, extras ...Extra) *OrderLine {
	t.Helper()
	line, err := o.AddItem(productID, uuid.New(), "Producto", money.NewFromInt(price), money.Quantity(qty), notes, extras)
	require.NoError(t, err)
	return line
}

func TestAddItemMergesIdenticalConfiguration(t *testing.T) {
	order := NewOrder(uuid.New(), "mesa 4")
	product := uuid.New()

	first := add(t, order, product, 2500, 2, "sin sal")
	second := add(t, order, product, 2500, 1, "sin sal")

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, money.Quantity(3), first.Quantity)
}

func TestAddItemKeepsDifferentConfigurationsApart(t *testing.T) {
	order := NewOrder(uuid.New(), "mesa 4")
	product := uuid.New()
	queso := Extra{ProductID: uuid.New(), Name: "Extra queso", UnitPrice: money.NewFromInt(300)}

	add(t, order, product, 2500, 1, "")
	add(t, order, product, 2500, 1, "sin sal")
	add(t, order, product, 2500, 1, "", queso)

	assert.Len(t, order.Lines, 3)
}

func TestAddItemMergeComparesExtrasAsMultiset(t *testing.T) {
	order := NewOrder(uuid.New(), "mesa 4")
	product := uuid.New()
	queso := Extra{ProductID: uuid.New(), Name: "Extra queso", UnitPrice: money.NewFromInt(300)}
	huevo := Extra{ProductID: uuid.New(), Name: "Huevo", UnitPrice: money.NewFromInt(200)}

	first := add(t, order, product, 2500, 1, "", queso, huevo)
	second := add(t, order, product, 2500, 1, "", huevo, queso)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, order.Lines, 1)
}

func TestAddItemMergeResetsPromotion(t *testing.T) {
	order := NewOrder(uuid.New(), "mesa 4")
	product := uuid.New()

	line := add(t, order, product, 2500, 2, "")
	line.ApplyPromotion(uuid.New(), "2x1", money.NewFromInt(2500))

	add(t, order, product, 2500, 1, "")

	assert.True(t, line.Discount.IsZero())
	assert.Nil(t, line.PromotionID)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	order := NewOrder(uuid.New(), "mesa 4")
	_, err := order.AddItem(uuid.New(), uuid.New(), "Producto", money.NewFromInt(100), 0, "", nil)
	assert.ErrorIs(t, err, ErrNonPositiveQuantity)
}

func TestUpdateLineQuantitySemantics(t *testing.T) {
	order := NewOrder(uuid.New(), "mesa 4")
	line := add(t, order, uuid.New(), 2500, 2, "")
	line.ApplyPromotion(uuid.New(), "2x1", money.NewFromInt(2500))

	t.Run("equal quantity is a no-op", func(t *testing.T) {
		require.NoError(t, order.UpdateLineQuantity(line.ID, 2))
		assert.NotNil(t, line.PromotionID, "no-op must not reset promotion")
	})

	t.Run("negative is rejected", func(t *testing.T) {
		assert.ErrorIs(t, order.UpdateLineQuantity(line.ID, -1), ErrNonPositiveQuantity)
	})

	t.Run("change resets promotion", func(t *testing.T) {
		require.NoError(t, order.UpdateLineQuantity(line.ID, 3))
		assert.Equal(t, money.Quantity(3), line.Quantity)
		assert.Nil(t, line.PromotionID)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		require.NoError(t, order.UpdateLineQuantity(line.ID, 0))
		assert.Empty(t, order.Lines)
	})

	t.Run("unknown line", func(t *testing.T) {
		assert.ErrorIs(t, order.UpdateLineQuantity(uuid.New(), 1), ErrLineNotFound)
	})
}

func TestLineTotalsHierarchy(t *testing.T) {
	order := NewOrder(uuid.New(), "mesa 4")
	queso := Extra{ProductID: uuid.New(), Name: "Extra queso", UnitPrice: money.NewFromInt(300)}
	line := add(t, order, uuid.New(), 2000, 2, "", queso)

	// Base 4000 + extras 600.
	assert.Equal(t, "4000", line.BaseSubtotal().String())
	assert.Equal(t, "600", line.ExtrasSubtotal().String())
	assert.Equal(t, "4600", line.GrossSubtotal().String())

	// Promotion discounts the base only.
	line.Discount = money.NewFromInt(1000)
	assert.Equal(t, "3600", line.Total().String())

	// Manual discount applies on the remainder after the promotion, still
	// never touching the extras.
	line.Manual = &ManualDiscount{
		Mode:      ManualPercentage,
		Value:     decimal.NewFromInt(10),
		AppliedBy: uuid.New(),
		AppliedAt: time.Now(),
	}
	// (4000 - 1000) - 10% = 2700, + 600 extras.
	assert.Equal(t, "3300", line.Total().String())
}

func TestGlobalDiscountAppliesLast(t *testing.T) {
	order := NewOrder(uuid.New(), "mesa 4")
	add(t, order, uuid.New(), 2000, 1, "")
	add(t, order, uuid.New(), 3000, 1, "")

	require.NoError(t, order.ApplyGlobalDiscount(ManualDiscount{
		Mode:      ManualFixedAmount,
		Value:     decimal.NewFromInt(1000),
		AppliedBy: uuid.New(),
		AppliedAt: time.Now(),
	}))

	assert.Equal(t, "4000", order.Total().String())
}

func TestGlobalFixedDiscountCappedAtTotal(t *testing.T) {
	order := NewOrder(uuid.New(), "mesa 4")
	add(t, order, uuid.New(), 500, 1, "")

	require.NoError(t, order.ApplyGlobalDiscount(ManualDiscount{
		Mode:      ManualFixedAmount,
		Value:     decimal.NewFromInt(9999),
		AppliedBy: uuid.New(),
		AppliedAt: time.Now(),
	}))

	assert.Equal(t, "0", order.Total().String())
}

func TestManualDiscountValidation(t *testing.T) {
	base := ManualDiscount{AppliedBy: uuid.New(), AppliedAt: time.Now()}

	over := base
	over.Mode = ManualPercentage
	over.Value = decimal.NewFromInt(150)
	assert.ErrorIs(t, over.Validate(), ErrInvalidManualDiscount)

	zero := base
	zero.Mode = ManualFixedAmount
	zero.Value = decimal.Zero
	assert.ErrorIs(t, zero.Validate(), ErrInvalidManualDiscount)

	ok := base
	ok.Mode = ManualPercentage
	ok.Value = decimal.NewFromInt(100)
	assert.NoError(t, ok.Validate())
}

func TestProductIDsAreDistinctAndOrdered(t *testing.T) {
	order := NewOrder(uuid.New(), "mesa 4")
	a, b := uuid.New(), uuid.New()
	add(t, order, a, 1000, 1, "")
	add(t, order, b, 1000, 1, "")
	add(t, order, a, 1000, 1, "sin sal")

	assert.Equal(t, []uuid.UUID{a, b}, order.ProductIDs())
}
