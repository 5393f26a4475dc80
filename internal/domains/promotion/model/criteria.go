package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/agustxnpm/foodflow-sub003/pkg/money"
)

// =====================================================
// EVALUATION CONTEXT
// =====================================================

// EvalContext carries everything a criterion may inspect: the evaluation
// instant, the set of products already on the order, and the order total.
// Built once per engine pass; criteria never reach outside it.
type EvalContext struct {
	Date       time.Time
	ProductIDs map[uuid.UUID]bool
	OrderTotal money.Money
}

// NewEvalContext builds a context for the given instant.
func NewEvalContext(now time.Time, productIDs []uuid.UUID, orderTotal money.Money) EvalContext {
	ids := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		ids[id] = true
	}
	return EvalContext{Date: now, ProductIDs: ids, OrderTotal: orderTotal}
}

// ContainsProduct reports whether the order holds at least one line of the
// product.
func (c EvalContext) ContainsProduct(id uuid.UUID) bool {
	return c.ProductIDs[id]
}

// =====================================================
// CRITERION VARIANTS
// =====================================================

// CriterionType tags the closed set of activation criteria.
type CriterionType string

const (
	CriterionTemporal      CriterionType = "TEMPORAL"
	CriterionMinimumAmount CriterionType = "MINIMUM_AMOUNT"
	CriterionContent       CriterionType = "CONTENT_REQUIRED"
)

// Criterion is one activation condition of a promotion. Holds is pure and
// total: it never errors, and unset optional fields are unconstrained.
type Criterion interface {
	Type() CriterionType
	Holds(ctx EvalContext) bool
	Validate() error
}

// ClockTime is a wall-clock time of day without a date, minute precision.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t ClockTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t ClockTime) IsValid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// Temporal holds when the evaluation instant falls inside the date range, on
// an allowed weekday, and (if a time window is set) inside the window. Both
// the date range and the time window are inclusive at both ends. An empty
// DaysOfWeek means every day.
type Temporal struct {
	DateFrom   time.Time      `json:"date_from"`
	DateTo     time.Time      `json:"date_to"`
	DaysOfWeek []time.Weekday `json:"days_of_week,omitempty"`
	TimeFrom   *ClockTime     `json:"time_from,omitempty"`
	TimeTo     *ClockTime     `json:"time_to,omitempty"`
}

func (t Temporal) Type() CriterionType { return CriterionTemporal }

func (t Temporal) Validate() error {
	if t.DateFrom.IsZero() || t.DateTo.IsZero() {
		return ErrMissingDateRange
	}
	if dateOnly(t.DateTo).Before(dateOnly(t.DateFrom)) {
		return ErrInvertedDateRange
	}
	for _, d := range t.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return ErrInvalidWeekday
		}
	}
	if (t.TimeFrom == nil) != (t.TimeTo == nil) {
		return ErrPartialTimeWindow
	}
	if t.TimeFrom != nil {
		if !t.TimeFrom.IsValid() || !t.TimeTo.IsValid() {
			return ErrInvalidTimeOfDay
		}
		if t.TimeTo.Minutes() <= t.TimeFrom.Minutes() {
			return ErrInvertedTimeWindow
		}
	}
	return nil
}

func (t Temporal) Holds(ctx EvalContext) bool {
	day := dateOnly(ctx.Date)
	if day.Before(dateOnly(t.DateFrom)) || day.After(dateOnly(t.DateTo)) {
		return false
	}
	if len(t.DaysOfWeek) > 0 {
		found := false
		for _, d := range t.DaysOfWeek {
			if d == ctx.Date.Weekday() {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if t.TimeFrom != nil && t.TimeTo != nil {
		minutes := ctx.Date.Hour()*60 + ctx.Date.Minute()
		if minutes < t.TimeFrom.Minutes() || minutes > t.TimeTo.Minutes() {
			return false
		}
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MinimumAmount holds when the order total reaches the threshold.
type MinimumAmount struct {
	Threshold money.Money `json:"threshold"`
}

func (m MinimumAmount) Type() CriterionType { return CriterionMinimumAmount }

func (m MinimumAmount) Validate() error {
	if !m.Threshold.IsPositive() {
		return ErrNonPositiveThreshold
	}
	return nil
}

func (m MinimumAmount) Holds(ctx EvalContext) bool {
	return ctx.OrderTotal.GreaterThanOrEqual(m.Threshold)
}

// ContentRequired holds when every required product appears in the order.
type ContentRequired struct {
	RequiredProductIDs []uuid.UUID `json:"required_product_ids"`
}

func (c ContentRequired) Type() CriterionType { return CriterionContent }

func (c ContentRequired) Validate() error {
	if len(c.RequiredProductIDs) == 0 {
		return ErrEmptyRequiredProducts
	}
	for _, id := range c.RequiredProductIDs {
		if id == uuid.Nil {
			return ErrEmptyRequiredProducts
		}
	}
	return nil
}

func (c ContentRequired) Holds(ctx EvalContext) bool {
	for _, id := range c.RequiredProductIDs {
		if !ctx.ContainsProduct(id) {
			return false
		}
	}
	return true
}
