package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordermodel "github.com/agustxnpm/foodflow-sub003/internal/domains/order/model"
	"github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/model"
	"github.com/agustxnpm/foodflow-sub003/pkg/money"
)

var (
	tenantID   = uuid.New()
	categoryID = uuid.New()

	// A Wednesday evening.
	evalTime = time.Date(2026, 3, 11, 20, 30, 0, 0, time.UTC)
)

func wholeYear() model.Criterion {
	return model.Temporal{
		DateFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func newPromotion(t *testing.T, name string, priority int, strategy model.Strategy, scope ...model.ScopeItem) *model.Promotion {
	t.Helper()
	p, err := model.NewPromotion(tenantID, name, "", priority, strategy, []model.Criterion{wholeYear()}, scope)
	require.NoError(t, err)
	return p
}

func addLine(t *testing.T, o *ordermodel.Order, productID uuid.UUID, name string, unitPrice, qty int64, notes string, extras ...ordermodel.Extra) *ordermodel.OrderLine {
	t.Helper()
	line, err := o.AddItem(productID, categoryID, name, money.NewFromInt(unitPrice), money.Quantity(qty), notes, extras)
	require.NoError(t, err)
	return line
}

func percent(v int64) model.DirectDiscount {
	return model.DirectDiscount{Mode: model.ModePercentage, Value: decimal.NewFromInt(v)}
}

// -------------------------------------------------------------------
// Direct discount
// -------------------------------------------------------------------

func TestDirectDiscountPercentage(t *testing.T) {
	lomito := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 4")
	line := addLine(t, order, lomito, "Lomito", 2500, 1, "")

	promo := newPromotion(t, "20% off lomito", 0, percent(20), model.ProductTarget(lomito))

	NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

	assert.Equal(t, "500", line.Discount.String())
	require.NotNil(t, line.PromotionID)
	assert.Equal(t, promo.ID, *line.PromotionID)
	assert.Equal(t, "2000", line.Total().String())
}

func TestDirectDiscountPercentageAcrossLines(t *testing.T) {
	cafe := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 1")
	first := addLine(t, order, cafe, "Café", 1500, 2, "")
	second := addLine(t, order, cafe, "Café", 1500, 1, "sin azúcar")

	promo := newPromotion(t, "20% café", 0, percent(20), model.ProductTarget(cafe))

	NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

	// Each line computes independently; the sum equals the aggregate.
	assert.Equal(t, "600", first.Discount.String())
	assert.Equal(t, "300", second.Discount.String())
	assert.Equal(t, "900", order.PromotionDiscount().String())
}

func TestDirectDiscountFixedAmountCappedAtSubtotal(t *testing.T) {
	flan := uuid.New()
	order := ordermodel.NewOrder(tenantID, "barra")
	line := addLine(t, order, flan, "Flan", 900, 2, "")

	strategy := model.DirectDiscount{Mode: model.ModeFixedAmount, Value: decimal.NewFromInt(1000)}
	promo := newPromotion(t, "1000 off", 0, strategy, model.ProductTarget(flan))

	NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

	// 1000 × 2 = 2000 exceeds the 1800 base, so the cap applies.
	assert.Equal(t, "1800", line.Discount.String())
	assert.Equal(t, "0", line.Total().String())
}

// -------------------------------------------------------------------
// Fixed quantity (buy N pay M)
// -------------------------------------------------------------------

func TestFixedQuantityBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		qty      int64
		discount string
		applied  bool
	}{
		{"below threshold", 1, "0", false},
		{"exactly one cycle", 2, "2500", true},
		{"two cycles", 4, "5000", true},
		{"cycle plus remainder", 3, "2500", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			birra := uuid.New()
			order := ordermodel.NewOrder(tenantID, "mesa 2")
			line := addLine(t, order, birra, "Birra", 2500, tt.qty, "")

			promo := newPromotion(t, "2x1 birra", 0,
				model.FixedQuantity{Buy: 2, Pay: 1}, model.ProductTarget(birra))

			NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

			assert.Equal(t, tt.discount, line.Discount.String())
			if tt.applied {
				require.NotNil(t, line.PromotionID)
			} else {
				assert.Nil(t, line.PromotionID)
			}
		})
	}
}

func TestFixedQuantityAggregatesAcrossLines(t *testing.T) {
	birra := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 2")
	first := addLine(t, order, birra, "Birra", 2500, 1, "")
	second := addLine(t, order, birra, "Birra", 2500, 1, "bien fría")

	promo := newPromotion(t, "2x1 birra", 0,
		model.FixedQuantity{Buy: 2, Pay: 1}, model.ProductTarget(birra))

	NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

	// Neither line reaches the threshold alone; together they complete one
	// cycle and split the free unit evenly.
	assert.Equal(t, "1250", first.Discount.String())
	assert.Equal(t, "1250", second.Discount.String())
	require.NotNil(t, first.PromotionID)
	require.NotNil(t, second.PromotionID)
}

// -------------------------------------------------------------------
// Fixed price per quantity
// -------------------------------------------------------------------

func TestFixedPricePerQuantityDistribution(t *testing.T) {
	empanada := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 7")
	first := addLine(t, order, empanada, "Empanada", 13500, 3, "")
	second := addLine(t, order, empanada, "Empanada", 13500, 1, "de carne")

	promo := newPromotion(t, "2 por 24000", 0,
		model.FixedPricePerQuantity{ActivationQty: 2, PackPrice: money.NewFromInt(24000)},
		model.ProductTarget(empanada))

	NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

	// 4 units = 2 complete packs, 3000 off each: 6000 total, split by each
	// line's in-cycle units (3 and 1).
	assert.Equal(t, "4500", first.Discount.String())
	assert.Equal(t, "1500", second.Discount.String())
	assert.Equal(t, "6000", order.PromotionDiscount().String())
}

func TestFixedPricePerQuantityRemainderLineGetsNothing(t *testing.T) {
	empanada := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 7")
	first := addLine(t, order, empanada, "Empanada", 13500, 2, "")
	second := addLine(t, order, empanada, "Empanada", 13500, 1, "de carne")

	promo := newPromotion(t, "2 por 24000", 0,
		model.FixedPricePerQuantity{ActivationQty: 2, PackPrice: money.NewFromInt(24000)},
		model.ProductTarget(empanada))

	NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

	// The first line covers the whole cycle. The second holds only the
	// remainder unit: full price, no attribution.
	assert.Equal(t, "3000", first.Discount.String())
	require.NotNil(t, first.PromotionID)
	assert.Equal(t, "0", second.Discount.String())
	assert.Nil(t, second.PromotionID)
}

func TestFixedPricePerQuantityAboveRegularPriceGrantsNothing(t *testing.T) {
	empanada := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 7")
	line := addLine(t, order, empanada, "Empanada", 1000, 2, "")

	promo := newPromotion(t, "2 por 2500", 0,
		model.FixedPricePerQuantity{ActivationQty: 2, PackPrice: money.NewFromInt(2500)},
		model.ProductTarget(empanada))

	NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

	assert.Equal(t, "0", line.Discount.String())
	assert.Nil(t, line.PromotionID)
}

// -------------------------------------------------------------------
// Conditional combo
// -------------------------------------------------------------------

func TestConditionalComboRequiresTrigger(t *testing.T) {
	postre := uuid.New()
	menu := uuid.New()

	strategy := model.ConditionalCombo{MinTriggerQty: 1, BenefitPercentage: decimal.NewFromInt(50)}
	promo := newPromotion(t, "postre al 50% con menú", 0, strategy,
		model.ProductTarget(postre), model.ProductTrigger(menu))

	t.Run("trigger absent", func(t *testing.T) {
		order := ordermodel.NewOrder(tenantID, "mesa 3")
		line := addLine(t, order, postre, "Postre", 1800, 1, "")

		NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

		assert.Equal(t, "0", line.Discount.String())
		assert.Nil(t, line.PromotionID)
	})

	t.Run("trigger present", func(t *testing.T) {
		order := ordermodel.NewOrder(tenantID, "mesa 3")
		addLine(t, order, menu, "Menú del día", 9000, 1, "")
		line := addLine(t, order, postre, "Postre", 1800, 1, "")

		NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

		assert.Equal(t, "900", line.Discount.String())
		require.NotNil(t, line.PromotionID)
	})
}

func TestConditionalComboTriggerQuantityAggregatesAcrossLines(t *testing.T) {
	postre := uuid.New()
	menu := uuid.New()

	strategy := model.ConditionalCombo{MinTriggerQty: 2, BenefitPercentage: decimal.NewFromInt(50)}
	promo := newPromotion(t, "postre al 50% con dos menús", 0, strategy,
		model.ProductTarget(postre), model.ProductTrigger(menu))

	order := ordermodel.NewOrder(tenantID, "mesa 3")
	addLine(t, order, menu, "Menú del día", 9000, 1, "")
	addLine(t, order, menu, "Menú del día", 9000, 1, "sin papas")
	line := addLine(t, order, postre, "Postre", 1800, 1, "")

	NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

	assert.Equal(t, "900", line.Discount.String())
}

func TestConditionalComboWithoutTriggersAppliesDirectly(t *testing.T) {
	postre := uuid.New()

	strategy := model.ConditionalCombo{MinTriggerQty: 1, BenefitPercentage: decimal.NewFromInt(50)}
	promo := newPromotion(t, "50% postre", 0, strategy, model.ProductTarget(postre))

	order := ordermodel.NewOrder(tenantID, "mesa 3")
	line := addLine(t, order, postre, "Postre", 1800, 1, "")

	NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

	assert.Equal(t, "900", line.Discount.String())
}

// -------------------------------------------------------------------
// Eligibility and conflict resolution
// -------------------------------------------------------------------

func TestExtrasMakeLineIneligible(t *testing.T) {
	lomito := uuid.New()
	queso := ordermodel.Extra{ProductID: uuid.New(), Name: "Extra queso", UnitPrice: money.NewFromInt(300)}

	order := ordermodel.NewOrder(tenantID, "mesa 5")
	plain := addLine(t, order, lomito, "Lomito", 2500, 2, "")
	customized := addLine(t, order, lomito, "Lomito", 2500, 2, "", queso)

	promo := newPromotion(t, "2x1 lomito", 0,
		model.FixedQuantity{Buy: 2, Pay: 1}, model.ProductTarget(lomito))

	NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

	// The customized line is a different offering: no discount, and its
	// units do not count toward the sibling's threshold.
	assert.Equal(t, "2500", plain.Discount.String())
	assert.Equal(t, "0", customized.Discount.String())
	assert.Nil(t, customized.PromotionID)
}

func TestHigherPriorityWins(t *testing.T) {
	cafe := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 1")
	line := addLine(t, order, cafe, "Café", 1500, 1, "")

	low := newPromotion(t, "10% café", 1, percent(10), model.ProductTarget(cafe))
	high := newPromotion(t, "30% café", 5, percent(30), model.ProductTarget(cafe))

	NewDefault().Recalculate(order, []*model.Promotion{low, high}, evalTime)

	require.NotNil(t, line.PromotionID)
	assert.Equal(t, high.ID, *line.PromotionID)
	assert.Equal(t, "450", line.Discount.String())
}

func TestEqualPriorityTieBreaksByListOrder(t *testing.T) {
	cafe := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 1")
	line := addLine(t, order, cafe, "Café", 1500, 1, "")

	first := newPromotion(t, "10% café", 3, percent(10), model.ProductTarget(cafe))
	second := newPromotion(t, "30% café", 3, percent(30), model.ProductTarget(cafe))

	NewDefault().Recalculate(order, []*model.Promotion{first, second}, evalTime)

	require.NotNil(t, line.PromotionID)
	assert.Equal(t, first.ID, *line.PromotionID)
}

func TestInactivePromotionNeverApplies(t *testing.T) {
	cafe := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 1")
	line := addLine(t, order, cafe, "Café", 1500, 1, "")

	promo := newPromotion(t, "20% café", 0, percent(20), model.ProductTarget(cafe))
	promo.Deactivate()

	NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

	assert.Equal(t, "0", line.Discount.String())
	assert.Nil(t, line.PromotionID)
}

func TestCategoryScopedTarget(t *testing.T) {
	cerveza := uuid.New()
	order := ordermodel.NewOrder(tenantID, "barra")
	line := addLine(t, order, cerveza, "IPA", 3000, 1, "")

	promo := newPromotion(t, "20% bebidas", 0, percent(20), model.CategoryTarget(categoryID))

	NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

	assert.Equal(t, "600", line.Discount.String())
	require.NotNil(t, line.PromotionID)
}

func TestCriteriaGateEligibility(t *testing.T) {
	cafe := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 1")
	line := addLine(t, order, cafe, "Café", 1500, 1, "")

	p, err := model.NewPromotion(tenantID, "20% con pedido grande", "", 0,
		percent(20),
		[]model.Criterion{wholeYear(), model.MinimumAmount{Threshold: money.NewFromInt(10000)}},
		[]model.ScopeItem{model.ProductTarget(cafe)})
	require.NoError(t, err)

	NewDefault().Recalculate(order, []*model.Promotion{p}, evalTime)
	assert.Equal(t, "0", line.Discount.String())

	// Grow the order past the threshold and the same promotion fires.
	addLine(t, order, uuid.New(), "Parrillada", 12000, 1, "")
	NewDefault().Recalculate(order, []*model.Promotion{p}, evalTime)
	assert.Equal(t, "300", line.Discount.String())
}

// -------------------------------------------------------------------
// Recalculation contract
// -------------------------------------------------------------------

func TestRecalculateIsIdempotent(t *testing.T) {
	birra := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 2")
	first := addLine(t, order, birra, "Birra", 2500, 3, "")
	second := addLine(t, order, birra, "Birra", 2500, 1, "sin espuma")

	promo := newPromotion(t, "2x1 birra", 0,
		model.FixedQuantity{Buy: 2, Pay: 1}, model.ProductTarget(birra))
	candidates := []*model.Promotion{promo}

	e := NewDefault()
	e.Recalculate(order, candidates, evalTime)
	d1, d2 := first.Discount.String(), second.Discount.String()

	e.Recalculate(order, candidates, evalTime)

	assert.Equal(t, d1, first.Discount.String())
	assert.Equal(t, d2, second.Discount.String())
	assert.Equal(t, "5000", order.PromotionDiscount().String())
}

func TestRecalculateClearsStaleAttribution(t *testing.T) {
	birra := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 2")
	line := addLine(t, order, birra, "Birra", 2500, 2, "")

	promo := newPromotion(t, "2x1 birra", 0,
		model.FixedQuantity{Buy: 2, Pay: 1}, model.ProductTarget(birra))

	e := NewDefault()
	e.Recalculate(order, []*model.Promotion{promo}, evalTime)
	require.NotNil(t, line.PromotionID)

	// The promotion disappears from the candidate set (deactivated, window
	// closed): the attribution must not survive the next pass.
	e.Recalculate(order, nil, evalTime)
	assert.Equal(t, "0", line.Discount.String())
	assert.Nil(t, line.PromotionID)
}

func TestRecalculateLeavesManualDiscountsAlone(t *testing.T) {
	cafe := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 1")
	line := addLine(t, order, cafe, "Café", 1500, 2, "")

	manual := ordermodel.ManualDiscount{
		Mode:      ordermodel.ManualPercentage,
		Value:     decimal.NewFromInt(10),
		AppliedBy: uuid.New(),
		AppliedAt: evalTime,
	}
	require.NoError(t, order.ApplyLineDiscount(line.ID, manual))

	promo := newPromotion(t, "20% café", 0, percent(20), model.ProductTarget(cafe))
	NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

	require.NotNil(t, line.Manual)
	assert.Equal(t, "600", line.Discount.String())
	// 3000 - 600 promo = 2400, then 10% manual on the remainder.
	assert.Equal(t, "2160", line.Total().String())
}

func TestApplyOnAddMergesAndRecalculates(t *testing.T) {
	birra := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 2")

	promo := newPromotion(t, "2x1 birra", 0,
		model.FixedQuantity{Buy: 2, Pay: 1}, model.ProductTarget(birra))
	candidates := []*model.Promotion{promo}

	e := NewDefault()
	first, err := e.ApplyOnAdd(order, birra, categoryID, "Birra", money.NewFromInt(2500), 1, "", nil, candidates, evalTime)
	require.NoError(t, err)
	assert.Equal(t, "0", first.Discount.String())

	// Same configuration merges into the existing line and the threshold is
	// now met.
	second, err := e.ApplyOnAdd(order, birra, categoryID, "Birra", money.NewFromInt(2500), 1, "", nil, candidates, evalTime)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "2500", first.Discount.String())
}

func TestZeroDiscountAttributionPolicy(t *testing.T) {
	birra := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 2")
	line := addLine(t, order, birra, "Birra", 2500, 1, "")

	promo := newPromotion(t, "2x1 birra", 0,
		model.FixedQuantity{Buy: 2, Pay: 1}, model.ProductTarget(birra))

	New(Policy{AttributeZeroDiscount: true}).Recalculate(order, []*model.Promotion{promo}, evalTime)

	// One unit short of the cycle: zero discount, but the ticket can still
	// show the pending promotion.
	assert.Equal(t, "0", line.Discount.String())
	require.NotNil(t, line.PromotionID)
	assert.Equal(t, promo.ID, *line.PromotionID)
}

func TestGroupDiscountSumsMatchAggregate(t *testing.T) {
	empanada := uuid.New()
	order := ordermodel.NewOrder(tenantID, "mesa 7")
	addLine(t, order, empanada, "Empanada", 13500, 2, "")
	addLine(t, order, empanada, "Empanada", 13500, 2, "de carne")
	addLine(t, order, empanada, "Empanada", 13500, 1, "de pollo")

	promo := newPromotion(t, "2 por 24000", 0,
		model.FixedPricePerQuantity{ActivationQty: 2, PackPrice: money.NewFromInt(24000)},
		model.ProductTarget(empanada))

	NewDefault().Recalculate(order, []*model.Promotion{promo}, evalTime)

	// 5 units, 2 complete packs: aggregate discount 6000 regardless of how
	// the units are spread over lines.
	assert.Equal(t, "6000", order.PromotionDiscount().String())
}
