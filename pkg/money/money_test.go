package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		pct      int64
		expected string
	}{
		{"20 percent of 2500", 2500, 20, "500"},
		{"50 percent of 1800", 1800, 50, "900"},
		{"100 percent", 1500, 100, "1500"},
		{"rounds to 2 places", 1000, 33, "330"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewFromInt(tt.amount).Percent(decimal.NewFromInt(tt.pct))
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestPercentRoundsHalfUp(t *testing.T) {
	// 33% of 50.05 = 16.5165 -> 16.52
	base, err := NewFromString("50.05")
	require.NoError(t, err)
	assert.Equal(t, "16.52", base.Percent(decimal.NewFromInt(33)).String())
}

func TestShares(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		weights  []int64
		expected []string
	}{
		{"proportional 3 to 1", 6000, []int64{3, 1}, []string{"4500", "1500"}},
		{"even split", 2500, []int64{1, 1}, []string{"1250", "1250"}},
		{"zero weight gets nothing", 3000, []int64{2, 0}, []string{"3000", "0"}},
		{"single line", 3000, []int64{2}, []string{"3000"}},
		{"remainder goes to last", 100, []int64{1, 1, 1}, []string{"33.33", "33.33", "33.34"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := NewFromInt(tt.total).Shares(tt.weights)
			require.Len(t, shares, len(tt.expected))
			sum := Zero()
			for i, s := range shares {
				assert.Equal(t, tt.expected[i], s.String(), "share %d", i)
				sum = sum.Add(s)
			}
			assert.True(t, sum.Equal(NewFromInt(tt.total)), "shares must sum to total, got %s", sum)
		})
	}
}

func TestSharesAllZeroWeights(t *testing.T) {
	shares := NewFromInt(5000).Shares([]int64{0, 0})
	for _, s := range shares {
		assert.True(t, s.IsZero())
	}
}

func TestSubAndMin(t *testing.T) {
	a := NewFromInt(1000)
	b := NewFromInt(1500)

	assert.Equal(t, "-500", a.Sub(b).String())
	assert.True(t, a.Sub(b).IsNegative())
	assert.Equal(t, "1000", a.Min(b).String())
	assert.Equal(t, "1000", b.Min(a).String())
}

func TestNewFromStringRejectsGarbage(t *testing.T) {
	_, err := NewFromString("12,50")
	assert.Error(t, err)
}

func TestQuantityCycles(t *testing.T) {
	tests := []struct {
		qty      Quantity
		per      Quantity
		cycles   int64
		inCycle  Quantity
	}{
		{1, 2, 0, 0},
		{2, 2, 1, 2},
		{3, 2, 1, 2},
		{4, 2, 2, 4},
		{7, 3, 2, 6},
		{5, 0, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.cycles, tt.qty.Cycles(tt.per), "cycles of %d per %d", tt.qty, tt.per)
		assert.Equal(t, tt.inCycle, tt.qty.InCycle(tt.per), "in-cycle of %d per %d", tt.qty, tt.per)
	}
}
