package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Strategies and criteria are interfaces, so their JSON form carries an
// explicit type tag next to the payload. The same envelope is used for the
// JSONB columns in Postgres and for the cached candidate lists in Redis.

// MarshalStrategy encodes a strategy as (type tag, payload).
func MarshalStrategy(s Strategy) (string, []byte, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return "", nil, fmt.Errorf("marshal strategy: %w", err)
	}
	return string(s.Type()), payload, nil
}

// UnmarshalStrategy decodes a strategy from its type tag and payload, and
// re-validates it so a corrupted row cannot smuggle an invalid strategy past
// construction-time checks.
func UnmarshalStrategy(typ string, payload []byte) (Strategy, error) {
	var s Strategy
	switch StrategyType(typ) {
	case StrategyDirectDiscount:
		var v DirectDiscount
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, fmt.Errorf("unmarshal strategy %s: %w", typ, err)
		}
		s = v
	case StrategyFixedQuantity:
		var v FixedQuantity
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, fmt.Errorf("unmarshal strategy %s: %w", typ, err)
		}
		s = v
	case StrategyConditionalCombo:
		var v ConditionalCombo
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, fmt.Errorf("unmarshal strategy %s: %w", typ, err)
		}
		s = v
	case StrategyFixedPricePerQty:
		var v FixedPricePerQuantity
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, fmt.Errorf("unmarshal strategy %s: %w", typ, err)
		}
		s = v
	default:
		return nil, ErrUnknownStrategy
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// MarshalCriterion encodes a criterion as (type tag, payload).
func MarshalCriterion(c Criterion) (string, []byte, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", nil, fmt.Errorf("marshal criterion: %w", err)
	}
	return string(c.Type()), payload, nil
}

// UnmarshalCriterion decodes and re-validates a criterion.
func UnmarshalCriterion(typ string, payload []byte) (Criterion, error) {
	var c Criterion
	switch CriterionType(typ) {
	case CriterionTemporal:
		var v Temporal
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, fmt.Errorf("unmarshal criterion %s: %w", typ, err)
		}
		c = v
	case CriterionMinimumAmount:
		var v MinimumAmount
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, fmt.Errorf("unmarshal criterion %s: %w", typ, err)
		}
		c = v
	case CriterionContent:
		var v ContentRequired
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, fmt.Errorf("unmarshal criterion %s: %w", typ, err)
		}
		c = v
	default:
		return nil, ErrUnknownCriterion
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

type strategyEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type criterionEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type promotionWire struct {
	ID          uuid.UUID           `json:"id"`
	TenantID    uuid.UUID           `json:"tenant_id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Priority    int                 `json:"priority"`
	Status      Status              `json:"status"`
	Strategy    strategyEnvelope    `json:"strategy"`
	Criteria    []criterionEnvelope `json:"criteria"`
	Scope       []ScopeItem         `json:"scope,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// MarshalJSON renders the aggregate with tagged strategy/criteria envelopes
// so it survives a round trip through the cache.
func (p *Promotion) MarshalJSON() ([]byte, error) {
	styp, spayload, err := MarshalStrategy(p.Strategy)
	if err != nil {
		return nil, err
	}
	wire := promotionWire{
		ID:          p.ID,
		TenantID:    p.TenantID,
		Name:        p.Name,
		Description: p.Description,
		Priority:    p.Priority,
		Status:      p.Status,
		Strategy:    strategyEnvelope{Type: styp, Payload: spayload},
		Scope:       p.Scope,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, c := range p.Criteria {
		ctyp, cpayload, err := MarshalCriterion(c)
		if err != nil {
			return nil, err
		}
		wire.Criteria = append(wire.Criteria, criterionEnvelope{Type: ctyp, Payload: cpayload})
	}
	return json.Marshal(wire)
}

func (p *Promotion) UnmarshalJSON(data []byte) error {
	var wire promotionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	strategy, err := UnmarshalStrategy(wire.Strategy.Type, wire.Strategy.Payload)
	if err != nil {
		return err
	}
	criteria := make([]Criterion, 0, len(wire.Criteria))
	for _, env := range wire.Criteria {
		c, err := UnmarshalCriterion(env.Type, env.Payload)
		if err != nil {
			return err
		}
		criteria = append(criteria, c)
	}

	p.ID = wire.ID
	p.TenantID = wire.TenantID
	p.Name = wire.Name
	p.Description = wire.Description
	p.Priority = wire.Priority
	p.Status = wire.Status
	p.Strategy = strategy
	p.Criteria = criteria
	p.Scope = wire.Scope
	p.CreatedAt = wire.CreatedAt
	p.UpdatedAt = wire.UpdatedAt
	return nil
}
