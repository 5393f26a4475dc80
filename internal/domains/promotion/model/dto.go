package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agustxnpm/foodflow-sub003/pkg/money"
)

const dateLayout = "2006-01-02"
const clockLayout = "15:04"

// -------------------------------------------------------------------
// ADMIN REQUESTS
// -------------------------------------------------------------------

// CreatePromotionRequest carries everything needed to assemble a promotion.
// Field-level validation happens here; the aggregate invariants are enforced
// again by NewPromotion, so nothing invalid can slip through to storage.
type CreatePromotionRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Priority    int                `json:"priority"`
	Strategy    StrategyRequest    `json:"strategy"`
	Criteria    []CriterionRequest `json:"criteria"`
	Scope       []ScopeItemRequest `json:"scope"`
}

func (r CreatePromotionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("promotion name is required"),
			validation.Length(2, 200).Error("promotion name must be 2-200 characters"),
		),
		validation.Field(&r.Description,
			validation.Length(0, 1000).Error("description cannot exceed 1000 characters"),
		),
		validation.Field(&r.Priority,
			validation.Min(0).Error("priority must be >= 0"),
		),
		validation.Field(&r.Strategy, validation.Required.Error("strategy is required")),
		validation.Field(&r.Criteria,
			validation.Required.Error("at least one activation criterion is required"),
			validation.Length(1, 20).Error("criteria list must have 1-20 entries"),
		),
		validation.Field(&r.Scope,
			validation.Length(0, 100).Error("scope list cannot exceed 100 entries"),
		),
	)
}

// ToPromotion converts the request into a validated aggregate.
func (r CreatePromotionRequest) ToPromotion(tenantID uuid.UUID) (*Promotion, error) {
	strategy, err := r.Strategy.ToStrategy()
	if err != nil {
		return nil, err
	}

	criteria := make([]Criterion, 0, len(r.Criteria))
	for _, cr := range r.Criteria {
		c, err := cr.ToCriterion()
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
	}

	scope := make([]ScopeItem, 0, len(r.Scope))
	for _, sr := range r.Scope {
		s, err := sr.ToScopeItem()
		if err != nil {
			return nil, err
		}
		scope = append(scope, s)
	}

	return NewPromotion(tenantID, r.Name, r.Description, r.Priority, strategy, criteria, scope)
}

// UpdatePromotionRequest replaces the full definition of a promotion.
type UpdatePromotionRequest struct {
	CreatePromotionRequest
}

// UpdateStatusRequest toggles a promotion between ACTIVE and INACTIVE.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.Required.Error("status is required"),
			validation.In(string(StatusActive), string(StatusInactive)).Error("status must be ACTIVE or INACTIVE"),
		),
	)
}

// -------------------------------------------------------------------
// STRATEGY / CRITERION / SCOPE SUB-REQUESTS
// -------------------------------------------------------------------

// StrategyRequest is the tagged wire form of a strategy. Only the fields of
// the declared type are read; the rest are ignored.
type StrategyRequest struct {
	Type              string           `json:"type"`
	Mode              string           `json:"mode,omitempty"`
	Value             *decimal.Decimal `json:"value,omitempty"`
	Buy               *int64           `json:"buy,omitempty"`
	Pay               *int64           `json:"pay,omitempty"`
	MinTriggerQty     *int64           `json:"min_trigger_qty,omitempty"`
	BenefitPercentage *decimal.Decimal `json:"benefit_percentage,omitempty"`
	ActivationQty     *int64           `json:"activation_qty,omitempty"`
	PackPrice         *decimal.Decimal `json:"pack_price,omitempty"`
}

func (r StrategyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type,
			validation.Required.Error("strategy type is required"),
			validation.In(
				string(StrategyDirectDiscount),
				string(StrategyFixedQuantity),
				string(StrategyConditionalCombo),
				string(StrategyFixedPricePerQty),
			).Error("unknown strategy type"),
		),
		validation.Field(&r.Mode,
			validation.When(r.Type == string(StrategyDirectDiscount),
				validation.Required.Error("discount mode is required"),
				validation.In(string(ModePercentage), string(ModeFixedAmount)).Error("mode must be PERCENTAGE or FIXED_AMOUNT"),
			),
		),
		validation.Field(&r.Value,
			validation.When(r.Type == string(StrategyDirectDiscount),
				validation.Required.Error("discount value is required"),
			),
		),
		validation.Field(&r.Buy,
			validation.When(r.Type == string(StrategyFixedQuantity),
				validation.Required.Error("buy quantity is required"),
			),
		),
		validation.Field(&r.Pay,
			validation.When(r.Type == string(StrategyFixedQuantity),
				validation.Required.Error("pay quantity is required"),
			),
		),
		validation.Field(&r.MinTriggerQty,
			validation.When(r.Type == string(StrategyConditionalCombo),
				validation.Required.Error("min trigger quantity is required"),
			),
		),
		validation.Field(&r.BenefitPercentage,
			validation.When(r.Type == string(StrategyConditionalCombo),
				validation.Required.Error("benefit percentage is required"),
			),
		),
		validation.Field(&r.ActivationQty,
			validation.When(r.Type == string(StrategyFixedPricePerQty),
				validation.Required.Error("activation quantity is required"),
			),
		),
		validation.Field(&r.PackPrice,
			validation.When(r.Type == string(StrategyFixedPricePerQty),
				validation.Required.Error("pack price is required"),
			),
		),
	)
}

// ToStrategy builds the domain strategy. The returned value still goes
// through Strategy.Validate inside NewPromotion.
func (r StrategyRequest) ToStrategy() (Strategy, error) {
	switch StrategyType(r.Type) {
	case StrategyDirectDiscount:
		s := DirectDiscount{Mode: DiscountMode(r.Mode)}
		if r.Value != nil {
			s.Value = *r.Value
		}
		return s, s.Validate()
	case StrategyFixedQuantity:
		s := FixedQuantity{}
		if r.Buy != nil {
			s.Buy = money.Quantity(*r.Buy)
		}
		if r.Pay != nil {
			s.Pay = money.Quantity(*r.Pay)
		}
		return s, s.Validate()
	case StrategyConditionalCombo:
		s := ConditionalCombo{}
		if r.MinTriggerQty != nil {
			s.MinTriggerQty = money.Quantity(*r.MinTriggerQty)
		}
		if r.BenefitPercentage != nil {
			s.BenefitPercentage = *r.BenefitPercentage
		}
		return s, s.Validate()
	case StrategyFixedPricePerQty:
		s := FixedPricePerQuantity{}
		if r.ActivationQty != nil {
			s.ActivationQty = money.Quantity(*r.ActivationQty)
		}
		if r.PackPrice != nil {
			s.PackPrice = money.New(*r.PackPrice)
		}
		return s, s.Validate()
	default:
		return nil, ErrUnknownStrategy
	}
}

// CriterionRequest is the tagged wire form of an activation criterion.
type CriterionRequest struct {
	Type               string           `json:"type"`
	DateFrom           string           `json:"date_from,omitempty"` // 2006-01-02
	DateTo             string           `json:"date_to,omitempty"`
	DaysOfWeek         []int            `json:"days_of_week,omitempty"` // 0=Sunday .. 6=Saturday
	TimeFrom           string           `json:"time_from,omitempty"` // 15:04
	TimeTo             string           `json:"time_to,omitempty"`
	Threshold          *decimal.Decimal `json:"threshold,omitempty"`
	RequiredProductIDs []string         `json:"required_product_ids,omitempty"`
}

func (r CriterionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type,
			validation.Required.Error("criterion type is required"),
			validation.In(
				string(CriterionTemporal),
				string(CriterionMinimumAmount),
				string(CriterionContent),
			).Error("unknown criterion type"),
		),
		validation.Field(&r.DateFrom,
			validation.When(r.Type == string(CriterionTemporal),
				validation.Required.Error("date_from is required"),
				validation.Date(dateLayout).Error("date_from must be YYYY-MM-DD"),
			),
		),
		validation.Field(&r.DateTo,
			validation.When(r.Type == string(CriterionTemporal),
				validation.Required.Error("date_to is required"),
				validation.Date(dateLayout).Error("date_to must be YYYY-MM-DD"),
			),
		),
		validation.Field(&r.TimeFrom,
			validation.When(r.TimeFrom != "", validation.Date(clockLayout).Error("time_from must be HH:MM")),
		),
		validation.Field(&r.TimeTo,
			validation.When(r.TimeTo != "", validation.Date(clockLayout).Error("time_to must be HH:MM")),
		),
		validation.Field(&r.Threshold,
			validation.When(r.Type == string(CriterionMinimumAmount),
				validation.Required.Error("threshold is required"),
			),
		),
		validation.Field(&r.RequiredProductIDs,
			validation.When(r.Type == string(CriterionContent),
				validation.Required.Error("required_product_ids is required"),
				validation.Each(is.UUID.Error("required_product_ids must contain UUIDs")),
			),
		),
	)
}

// ToCriterion builds the domain criterion. Validate runs again inside
// NewPromotion.
func (r CriterionRequest) ToCriterion() (Criterion, error) {
	switch CriterionType(r.Type) {
	case CriterionTemporal:
		c := Temporal{}
		if r.DateFrom != "" {
			d, err := time.Parse(dateLayout, r.DateFrom)
			if err != nil {
				return nil, ErrMissingDateRange
			}
			c.DateFrom = d
		}
		if r.DateTo != "" {
			d, err := time.Parse(dateLayout, r.DateTo)
			if err != nil {
				return nil, ErrMissingDateRange
			}
			c.DateTo = d
		}
		for _, d := range r.DaysOfWeek {
			c.DaysOfWeek = append(c.DaysOfWeek, time.Weekday(d))
		}
		if r.TimeFrom != "" {
			t, err := parseClock(r.TimeFrom)
			if err != nil {
				return nil, err
			}
			c.TimeFrom = t
		}
		if r.TimeTo != "" {
			t, err := parseClock(r.TimeTo)
			if err != nil {
				return nil, err
			}
			c.TimeTo = t
		}
		return c, c.Validate()
	case CriterionMinimumAmount:
		c := MinimumAmount{}
		if r.Threshold != nil {
			c.Threshold = money.New(*r.Threshold)
		}
		return c, c.Validate()
	case CriterionContent:
		c := ContentRequired{}
		for _, raw := range r.RequiredProductIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, ErrEmptyRequiredProducts
			}
			c.RequiredProductIDs = append(c.RequiredProductIDs, id)
		}
		return c, c.Validate()
	default:
		return nil, ErrUnknownCriterion
	}
}

func parseClock(s string) (*ClockTime, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return nil, ErrInvalidTimeOfDay
	}
	return &ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ScopeItemRequest is the wire form of a scope item.
type ScopeItemRequest struct {
	ReferenceID string `json:"reference_id"`
	Kind        string `json:"kind"`
	Role        string `json:"role"`
}

func (r ScopeItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ReferenceID,
			validation.Required.Error("reference_id is required"),
			is.UUID.Error("reference_id must be a UUID"),
		),
		validation.Field(&r.Kind,
			validation.Required.Error("kind is required"),
			validation.In(string(ReferenceProduct), string(ReferenceCategory)).Error("kind must be PRODUCT or CATEGORY"),
		),
		validation.Field(&r.Role,
			validation.Required.Error("role is required"),
			validation.In(string(RoleTrigger), string(RoleTarget)).Error("role must be TRIGGER or TARGET"),
		),
	)
}

func (r ScopeItemRequest) ToScopeItem() (ScopeItem, error) {
	id, err := uuid.Parse(r.ReferenceID)
	if err != nil {
		return ScopeItem{}, ErrScopeMissingReference
	}
	return ScopeItem{
		ID:          uuid.New(),
		ReferenceID: id,
		Kind:        ReferenceKind(r.Kind),
		Role:        ScopeRole(r.Role),
	}, nil
}

// -------------------------------------------------------------------
// RESPONSES
// -------------------------------------------------------------------

// StrategyResponse is the tagged JSON form of a strategy.
type StrategyResponse struct {
	Type              string           `json:"type"`
	Mode              string           `json:"mode,omitempty"`
	Value             *decimal.Decimal `json:"value,omitempty"`
	Buy               *int64           `json:"buy,omitempty"`
	Pay               *int64           `json:"pay,omitempty"`
	MinTriggerQty     *int64           `json:"min_trigger_qty,omitempty"`
	BenefitPercentage *decimal.Decimal `json:"benefit_percentage,omitempty"`
	ActivationQty     *int64           `json:"activation_qty,omitempty"`
	PackPrice         *decimal.Decimal `json:"pack_price,omitempty"`
}

// CriterionResponse is the tagged JSON form of a criterion.
type CriterionResponse struct {
	Type               string           `json:"type"`
	DateFrom           string           `json:"date_from,omitempty"`
	DateTo             string           `json:"date_to,omitempty"`
	DaysOfWeek         []int            `json:"days_of_week,omitempty"`
	TimeFrom           string           `json:"time_from,omitempty"`
	TimeTo             string           `json:"time_to,omitempty"`
	Threshold          *decimal.Decimal `json:"threshold,omitempty"`
	RequiredProductIDs []string         `json:"required_product_ids,omitempty"`
}

// PromotionResponse is the full admin-facing view of a promotion.
type PromotionResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Priority    int                 `json:"priority"`
	Status      Status              `json:"status"`
	Strategy    StrategyResponse    `json:"strategy"`
	Criteria    []CriterionResponse `json:"criteria"`
	Scope       []ScopeItem         `json:"scope"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToResponse converts the aggregate to its wire form.
func (p *Promotion) ToResponse() *PromotionResponse {
	resp := &PromotionResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Priority:    p.Priority,
		Status:      p.Status,
		Strategy:    strategyResponse(p.Strategy),
		Scope:       p.Scope,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, c := range p.Criteria {
		resp.Criteria = append(resp.Criteria, criterionResponse(c))
	}
	return resp
}

func strategyResponse(s Strategy) StrategyResponse {
	switch v := s.(type) {
	case DirectDiscount:
		value := v.Value
		return StrategyResponse{Type: string(v.Type()), Mode: string(v.Mode), Value: &value}
	case FixedQuantity:
		buy, pay := v.Buy.Int64(), v.Pay.Int64()
		return StrategyResponse{Type: string(v.Type()), Buy: &buy, Pay: &pay}
	case ConditionalCombo:
		qty, pct := v.MinTriggerQty.Int64(), v.BenefitPercentage
		return StrategyResponse{Type: string(v.Type()), MinTriggerQty: &qty, BenefitPercentage: &pct}
	case FixedPricePerQuantity:
		qty, price := v.ActivationQty.Int64(), v.PackPrice.Decimal()
		return StrategyResponse{Type: string(v.Type()), ActivationQty: &qty, PackPrice: &price}
	default:
		return StrategyResponse{}
	}
}

func criterionResponse(c Criterion) CriterionResponse {
	switch v := c.(type) {
	case Temporal:
		out := CriterionResponse{
			Type:     string(v.Type()),
			DateFrom: v.DateFrom.Format(dateLayout),
			DateTo:   v.DateTo.Format(dateLayout),
		}
		for _, d := range v.DaysOfWeek {
			out.DaysOfWeek = append(out.DaysOfWeek, int(d))
		}
		if v.TimeFrom != nil && v.TimeTo != nil {
			out.TimeFrom = formatClock(*v.TimeFrom)
			out.TimeTo = formatClock(*v.TimeTo)
		}
		return out
	case MinimumAmount:
		threshold := v.Threshold.Decimal()
		return CriterionResponse{Type: string(v.Type()), Threshold: &threshold}
	case ContentRequired:
		out := CriterionResponse{Type: string(v.Type())}
		for _, id := range v.RequiredProductIDs {
			out.RequiredProductIDs = append(out.RequiredProductIDs, id.String())
		}
		return out
	default:
		return CriterionResponse{}
	}
}

func formatClock(t ClockTime) string {
	return time.Date(0, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format(clockLayout)
}
