package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount of currency. All order and promotion
// arithmetic goes through this type; float64 never touches a price.
//
// Amounts are kept at full precision internally and rounded to 2 decimal
// places (half-up) only when a derived value is produced (percentages,
// proportional shares), matching how totals are snapshotted elsewhere.
type Money struct {
	amount decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Zero returns a zero amount.
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// New wraps a decimal as Money.
func New(d decimal.Decimal) Money {
	return Money{amount: d}
}

// NewFromInt builds an amount from whole currency units.
func NewFromInt(n int64) Money {
	return Money{amount: decimal.NewFromInt(n)}
}

// NewFromString parses a decimal string ("1500", "1499.90").
func NewFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return Money{amount: d}, nil
}

func (m Money) Add(o Money) Money {
	return Money{amount: m.amount.Add(o.amount)}
}

func (m Money) Sub(o Money) Money {
	return Money{amount: m.amount.Sub(o.amount)}
}

// MulInt multiplies by a unit count (quantity × unit price).
func (m Money) MulInt(n int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(n))}
}

// Percent returns pct% of the amount, rounded to 2 decimal places.
func (m Money) Percent(pct decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(pct).Div(hundred).Round(2)}
}

// Shares splits the amount proportionally by integer weights. Each share is
// numerator/denominator of the total rounded to 2 places, except the LAST
// non-zero weight, which absorbs the rounding remainder so the shares always
// sum back to the original amount.
func (m Money) Shares(weights []int64) []Money {
	out := make([]Money, len(weights))
	var total int64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		for i := range out {
			out[i] = Zero()
		}
		return out
	}

	last := -1
	for i, w := range weights {
		if w > 0 {
			last = i
		}
	}

	assigned := Zero()
	den := decimal.NewFromInt(total)
	for i, w := range weights {
		if w <= 0 || i == last {
			continue
		}
		share := m.amount.Mul(decimal.NewFromInt(w)).Div(den).Round(2)
		out[i] = Money{amount: share}
		assigned = assigned.Add(out[i])
	}
	out[last] = m.Sub(assigned)
	return out
}

// Min returns the smaller of the two amounts.
func (m Money) Min(o Money) Money {
	if m.amount.GreaterThan(o.amount) {
		return o
	}
	return m
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) GreaterThan(o Money) bool {
	return m.amount.GreaterThan(o.amount)
}

func (m Money) GreaterThanOrEqual(o Money) bool {
	return m.amount.GreaterThanOrEqual(o.amount)
}

func (m Money) LessThan(o Money) bool {
	return m.amount.LessThan(o.amount)
}

func (m Money) Equal(o Money) bool {
	return m.amount.Equal(o.amount)
}

// Decimal exposes the underlying decimal for persistence and serialization.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) String() string {
	return m.amount.String()
}

// MarshalJSON renders the amount as a JSON number string, same shape the
// decimal type itself uses.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.amount.MarshalJSON()
}

// UnmarshalJSON accepts both quoted and bare decimal numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.amount.UnmarshalJSON(data)
}
