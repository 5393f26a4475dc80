package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =====================================================
// PROMOTION STATUS
// =====================================================

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive:
		return true
	}
	return false
}

// =====================================================
// SCOPE
// =====================================================

// ReferenceKind says whether a scope item points at a single product or at a
// whole category.
type ReferenceKind string

const (
	ReferenceProduct  ReferenceKind = "PRODUCT"
	ReferenceCategory ReferenceKind = "CATEGORY"
)

func (k ReferenceKind) IsValid() bool {
	return k == ReferenceProduct || k == ReferenceCategory
}

// ScopeRole is the part a referenced product/category plays in a promotion:
// TRIGGER items activate the benefit, TARGET items receive it.
type ScopeRole string

const (
	RoleTrigger ScopeRole = "TRIGGER"
	RoleTarget  ScopeRole = "TARGET"
)

func (r ScopeRole) IsValid() bool {
	return r == RoleTrigger || r == RoleTarget
}

// ScopeItem ties one product or category to a promotion with a role.
// Immutable once constructed.
type ScopeItem struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	ReferenceID uuid.UUID     `json:"reference_id" db:"reference_id"`
	Kind        ReferenceKind `json:"kind" db:"kind"`
	Role        ScopeRole     `json:"role" db:"role"`
}

func (s ScopeItem) IsTrigger() bool { return s.Role == RoleTrigger }
func (s ScopeItem) IsTarget() bool  { return s.Role == RoleTarget }

// ProductTarget builds a TARGET scope item for a single product.
func ProductTarget(productID uuid.UUID) ScopeItem {
	return ScopeItem{ID: uuid.New(), ReferenceID: productID, Kind: ReferenceProduct, Role: RoleTarget}
}

// ProductTrigger builds a TRIGGER scope item for a single product.
func ProductTrigger(productID uuid.UUID) ScopeItem {
	return ScopeItem{ID: uuid.New(), ReferenceID: productID, Kind: ReferenceProduct, Role: RoleTrigger}
}

// CategoryTarget builds a TARGET scope item for a category.
func CategoryTarget(categoryID uuid.UUID) ScopeItem {
	return ScopeItem{ID: uuid.New(), ReferenceID: categoryID, Kind: ReferenceCategory, Role: RoleTarget}
}

// =====================================================
// PROMOTION AGGREGATE
// =====================================================

// Promotion is the aggregate the rule engine consumes: one benefit strategy,
// a non-empty AND-combined list of activation criteria, and a scope listing
// which products/categories trigger it and which receive the benefit.
//
// Invalid combinations are rejected here, at construction time. The engine
// assumes every promotion handed to it already passed Validate.
type Promotion struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	TenantID    uuid.UUID   `json:"tenant_id" db:"tenant_id"`
	Name        string      `json:"name" db:"name"`
	Description string      `json:"description" db:"description"`
	Priority    int         `json:"priority" db:"priority"`
	Status      Status      `json:"status" db:"status"`
	Strategy    Strategy    `json:"strategy"`
	Criteria    []Criterion `json:"criteria"`
	Scope       []ScopeItem `json:"scope"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// NewPromotion validates and assembles a promotion.
func NewPromotion(
	tenantID uuid.UUID,
	name string,
	description string,
	priority int,
	strategy Strategy,
	criteria []Criterion,
	scope []ScopeItem,
) (*Promotion, error) {
	p := &Promotion{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Priority:    priority,
		Status:      StatusActive,
		Strategy:    strategy,
		Criteria:    criteria,
		Scope:       scope,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces the aggregate invariants: non-blank name, priority >= 0,
// a valid strategy and at least one valid criterion, consistent scope items.
func (p *Promotion) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrBlankName
	}
	if p.Priority < 0 {
		return ErrNegativePriority
	}
	if !p.Status.IsValid() {
		return ErrInvalidStatus
	}
	if p.Strategy == nil {
		return ErrMissingStrategy
	}
	if err := p.Strategy.Validate(); err != nil {
		return err
	}
	if len(p.Criteria) == 0 {
		return ErrMissingCriteria
	}
	for _, c := range p.Criteria {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	for _, s := range p.Scope {
		if s.ReferenceID == uuid.Nil {
			return ErrScopeMissingReference
		}
		if !s.Kind.IsValid() || !s.Role.IsValid() {
			return ErrInvalidScopeItem
		}
	}
	return nil
}

func (p *Promotion) IsActive() bool {
	return p.Status == StatusActive
}

func (p *Promotion) Activate() {
	p.Status = StatusActive
	p.UpdatedAt = time.Now()
}

func (p *Promotion) Deactivate() {
	p.Status = StatusInactive
	p.UpdatedAt = time.Now()
}

// Targets returns the TARGET scope items.
func (p *Promotion) Targets() []ScopeItem {
	return p.scopeWithRole(RoleTarget)
}

// Triggers returns the TRIGGER scope items.
func (p *Promotion) Triggers() []ScopeItem {
	return p.scopeWithRole(RoleTrigger)
}

func (p *Promotion) scopeWithRole(role ScopeRole) []ScopeItem {
	var out []ScopeItem
	for _, s := range p.Scope {
		if s.Role == role {
			out = append(out, s)
		}
	}
	return out
}

// TargetsProduct reports whether the product, or its category, appears as a
// TARGET scope item.
func (p *Promotion) TargetsProduct(productID, categoryID uuid.UUID) bool {
	return p.scopeMatches(RoleTarget, productID, categoryID)
}

// TriggersProduct reports whether the product, or its category, appears as a
// TRIGGER scope item.
func (p *Promotion) TriggersProduct(productID, categoryID uuid.UUID) bool {
	return p.scopeMatches(RoleTrigger, productID, categoryID)
}

func (p *Promotion) scopeMatches(role ScopeRole, productID, categoryID uuid.UUID) bool {
	for _, s := range p.Scope {
		if s.Role != role {
			continue
		}
		switch s.Kind {
		case ReferenceProduct:
			if s.ReferenceID == productID {
				return true
			}
		case ReferenceCategory:
			if categoryID != uuid.Nil && s.ReferenceID == categoryID {
				return true
			}
		}
	}
	return false
}

// CanActivate evaluates every criterion against the context. AND semantics:
// all must hold.
func (p *Promotion) CanActivate(ctx EvalContext) bool {
	for _, c := range p.Criteria {
		if !c.Holds(ctx) {
			return false
		}
	}
	return true
}
