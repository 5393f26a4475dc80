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

func validTemporal() Temporal {
	return Temporal{
		DateFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestStrategyValidation(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		wantErr  error
	}{
		{"valid percentage", DirectDiscount{Mode: ModePercentage, Value: decimal.NewFromInt(20)}, nil},
		{"percentage over 100", DirectDiscount{Mode: ModePercentage, Value: decimal.NewFromInt(101)}, ErrPercentageOutOfRange},
		{"zero value", DirectDiscount{Mode: ModeFixedAmount, Value: decimal.Zero}, ErrNonPositiveDiscountValue},
		{"negative value", DirectDiscount{Mode: ModePercentage, Value: decimal.NewFromInt(-5)}, ErrNonPositiveDiscountValue},
		{"bad mode", DirectDiscount{Mode: "HALF_OFF", Value: decimal.NewFromInt(10)}, ErrInvalidDiscountMode},
		{"fixed amount over 100 is fine", DirectDiscount{Mode: ModeFixedAmount, Value: decimal.NewFromInt(5000)}, nil},

		{"valid 2x1", FixedQuantity{Buy: 2, Pay: 1}, nil},
		{"valid 3x2", FixedQuantity{Buy: 3, Pay: 2}, nil},
		{"no-op ratio", FixedQuantity{Buy: 2, Pay: 2}, ErrInvalidQuantityRatio},
		{"inverted ratio", FixedQuantity{Buy: 1, Pay: 2}, ErrInvalidQuantityRatio},
		{"pay zero", FixedQuantity{Buy: 2, Pay: 0}, ErrInvalidQuantityRatio},

		{"valid combo", ConditionalCombo{MinTriggerQty: 1, BenefitPercentage: decimal.NewFromInt(50)}, nil},
		{"combo trigger zero", ConditionalCombo{MinTriggerQty: 0, BenefitPercentage: decimal.NewFromInt(50)}, ErrInvalidTriggerQuantity},
		{"combo benefit over 100", ConditionalCombo{MinTriggerQty: 1, BenefitPercentage: decimal.NewFromInt(150)}, ErrPercentageOutOfRange},
		{"combo benefit zero", ConditionalCombo{MinTriggerQty: 1, BenefitPercentage: decimal.Zero}, ErrPercentageOutOfRange},

		{"valid pack", FixedPricePerQuantity{ActivationQty: 2, PackPrice: money.NewFromInt(24000)}, nil},
		{"pack of one", FixedPricePerQuantity{ActivationQty: 1, PackPrice: money.NewFromInt(24000)}, ErrInvalidActivationQuantity},
		{"free pack", FixedPricePerQuantity{ActivationQty: 2, PackPrice: money.Zero()}, ErrNonPositivePackPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.strategy.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTemporalValidation(t *testing.T) {
	inverted := validTemporal()
	inverted.DateFrom, inverted.DateTo = inverted.DateTo, inverted.DateFrom
	assert.ErrorIs(t, inverted.Validate(), ErrInvertedDateRange)

	partial := validTemporal()
	partial.TimeFrom = &ClockTime{Hour: 20}
	assert.ErrorIs(t, partial.Validate(), ErrPartialTimeWindow)

	invertedWindow := validTemporal()
	invertedWindow.TimeFrom = &ClockTime{Hour: 23}
	invertedWindow.TimeTo = &ClockTime{Hour: 20}
	assert.ErrorIs(t, invertedWindow.Validate(), ErrInvertedTimeWindow)

	emptyWindow := validTemporal()
	emptyWindow.TimeFrom = &ClockTime{Hour: 20, Minute: 30}
	emptyWindow.TimeTo = &ClockTime{Hour: 20, Minute: 30}
	assert.ErrorIs(t, emptyWindow.Validate(), ErrInvertedTimeWindow)

	missing := Temporal{}
	assert.ErrorIs(t, missing.Validate(), ErrMissingDateRange)

	window := validTemporal()
	window.TimeFrom = &ClockTime{Hour: 18}
	window.TimeTo = &ClockTime{Hour: 23, Minute: 59}
	assert.NoError(t, window.Validate())

	assert.NoError(t, validTemporal().Validate())
}

func TestTemporalHolds(t *testing.T) {
	from := &ClockTime{Hour: 20, Minute: 0}
	to := &ClockTime{Hour: 23, Minute: 30}

	criterion := Temporal{
		DateFrom:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DateTo:     time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		DaysOfWeek: []time.Weekday{time.Friday, time.Saturday},
		TimeFrom:   from,
		TimeTo:     to,
	}

	tests := []struct {
		name  string
		when  time.Time
		holds bool
	}{
		{"friday night inside window", time.Date(2026, 3, 13, 21, 0, 0, 0, time.UTC), true},
		{"window start is inclusive", time.Date(2026, 3, 13, 20, 0, 0, 0, time.UTC), true},
		{"window end is inclusive", time.Date(2026, 3, 13, 23, 30, 0, 0, time.UTC), true},
		{"minute past the window", time.Date(2026, 3, 13, 23, 31, 0, 0, time.UTC), false},
		{"wrong weekday", time.Date(2026, 3, 11, 21, 0, 0, 0, time.UTC), false},
		{"before date range", time.Date(2026, 2, 27, 21, 0, 0, 0, time.UTC), false},
		{"after date range", time.Date(2026, 4, 3, 21, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewEvalContext(tt.when, nil, money.Zero())
			assert.Equal(t, tt.holds, criterion.Holds(ctx))
		})
	}
}

func TestTemporalDefaultsToEveryDay(t *testing.T) {
	criterion := validTemporal()
	// A Wednesday.
	ctx := NewEvalContext(time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC), nil, money.Zero())
	assert.True(t, criterion.Holds(ctx))
}

func TestMinimumAmountHolds(t *testing.T) {
	criterion := MinimumAmount{Threshold: money.NewFromInt(10000)}

	below := NewEvalContext(time.Now(), nil, money.NewFromInt(9999))
	exact := NewEvalContext(time.Now(), nil, money.NewFromInt(10000))
	above := NewEvalContext(time.Now(), nil, money.NewFromInt(15000))

	assert.False(t, criterion.Holds(below))
	assert.True(t, criterion.Holds(exact))
	assert.True(t, criterion.Holds(above))

	assert.ErrorIs(t, MinimumAmount{Threshold: money.Zero()}.Validate(), ErrNonPositiveThreshold)
}

func TestContentRequiredHolds(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	criterion := ContentRequired{RequiredProductIDs: []uuid.UUID{a, b}}

	all := NewEvalContext(time.Now(), []uuid.UUID{a, b, uuid.New()}, money.Zero())
	some := NewEvalContext(time.Now(), []uuid.UUID{a}, money.Zero())
	none := NewEvalContext(time.Now(), nil, money.Zero())

	assert.True(t, criterion.Holds(all))
	assert.False(t, criterion.Holds(some))
	assert.False(t, criterion.Holds(none))

	assert.ErrorIs(t, ContentRequired{}.Validate(), ErrEmptyRequiredProducts)
}

func TestNewPromotionValidation(t *testing.T) {
	tenant := uuid.New()
	strategy := DirectDiscount{Mode: ModePercentage, Value: decimal.NewFromInt(20)}
	criteria := []Criterion{validTemporal()}
	scope := []ScopeItem{ProductTarget(uuid.New())}

	t.Run("valid", func(t *testing.T) {
		p, err := NewPromotion(tenant, "happy hour", "20% off", 3, strategy, criteria, scope)
		require.NoError(t, err)
		assert.Equal(t, StatusActive, p.Status)
		assert.True(t, p.IsActive())
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := NewPromotion(tenant, "   ", "", 0, strategy, criteria, scope)
		assert.ErrorIs(t, err, ErrBlankName)
	})

	t.Run("negative priority", func(t *testing.T) {
		_, err := NewPromotion(tenant, "happy hour", "", -1, strategy, criteria, scope)
		assert.ErrorIs(t, err, ErrNegativePriority)
	})

	t.Run("missing strategy", func(t *testing.T) {
		_, err := NewPromotion(tenant, "happy hour", "", 0, nil, criteria, scope)
		assert.ErrorIs(t, err, ErrMissingStrategy)
	})

	t.Run("no criteria", func(t *testing.T) {
		_, err := NewPromotion(tenant, "happy hour", "", 0, strategy, nil, scope)
		assert.ErrorIs(t, err, ErrMissingCriteria)
	})

	t.Run("invalid criterion bubbles up", func(t *testing.T) {
		_, err := NewPromotion(tenant, "happy hour", "", 0, strategy, []Criterion{Temporal{}}, scope)
		assert.ErrorIs(t, err, ErrMissingDateRange)
	})

	t.Run("scope without reference", func(t *testing.T) {
		badScope := []ScopeItem{{ID: uuid.New(), Kind: ReferenceProduct, Role: RoleTarget}}
		_, err := NewPromotion(tenant, "happy hour", "", 0, strategy, criteria, badScope)
		assert.ErrorIs(t, err, ErrScopeMissingReference)
	})
}

func TestScopeMatching(t *testing.T) {
	tenant := uuid.New()
	product := uuid.New()
	category := uuid.New()
	trigger := uuid.New()

	p, err := NewPromotion(tenant, "combo", "", 0,
		ConditionalCombo{MinTriggerQty: 1, BenefitPercentage: decimal.NewFromInt(50)},
		[]Criterion{validTemporal()},
		[]ScopeItem{ProductTarget(product), CategoryTarget(category), ProductTrigger(trigger)})
	require.NoError(t, err)

	assert.True(t, p.TargetsProduct(product, uuid.Nil))
	assert.True(t, p.TargetsProduct(uuid.New(), category))
	assert.False(t, p.TargetsProduct(uuid.New(), uuid.Nil))
	assert.False(t, p.TargetsProduct(trigger, uuid.Nil))

	assert.True(t, p.TriggersProduct(trigger, uuid.Nil))
	assert.False(t, p.TriggersProduct(product, uuid.Nil))

	assert.Len(t, p.Targets(), 2)
	assert.Len(t, p.Triggers(), 1)
}

func TestCreatePromotionRequestRoundTrip(t *testing.T) {
	value := decimal.NewFromInt(20)
	req := CreatePromotionRequest{
		Name:     "happy hour",
		Priority: 2,
		Strategy: StrategyRequest{Type: string(StrategyDirectDiscount), Mode: string(ModePercentage), Value: &value},
		Criteria: []CriterionRequest{{
			Type:     string(CriterionTemporal),
			DateFrom: "2026-01-01",
			DateTo:   "2026-12-31",
			TimeFrom: "18:00",
			TimeTo:   "20:00",
		}},
		Scope: []ScopeItemRequest{{ReferenceID: uuid.NewString(), Kind: string(ReferenceProduct), Role: string(RoleTarget)}},
	}
	require.NoError(t, req.Validate())

	p, err := req.ToPromotion(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "happy hour", p.Name)
	require.Len(t, p.Criteria, 1)

	temporal, ok := p.Criteria[0].(Temporal)
	require.True(t, ok)
	require.NotNil(t, temporal.TimeFrom)
	assert.Equal(t, 18, temporal.TimeFrom.Hour)

	resp := p.ToResponse()
	assert.Equal(t, string(StrategyDirectDiscount), resp.Strategy.Type)
	assert.Equal(t, "18:00", resp.Criteria[0].TimeFrom)
}

func TestCreatePromotionRequestRejectsBadStrategy(t *testing.T) {
	req := CreatePromotionRequest{
		Name:     "broken",
		Strategy: StrategyRequest{Type: string(StrategyFixedQuantity)},
		Criteria: []CriterionRequest{{Type: string(CriterionTemporal), DateFrom: "2026-01-01", DateTo: "2026-12-31"}},
	}
	// Field-level validation flags the missing buy/pay pair.
	assert.Error(t, req.Strategy.Validate())

	// And the domain conversion refuses the zero ratio outright.
	_, err := req.Strategy.ToStrategy()
	assert.ErrorIs(t, err, ErrInvalidQuantityRatio)
}
