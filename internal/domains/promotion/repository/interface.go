package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/model"
)

// PromotionRepository persists the promotion catalog.
//
// FindActiveByTenant feeds the rule engine: it returns only ACTIVE
// promotions, ordered by priority DESC then created_at ASC. The engine
// breaks priority ties by list position, so this ordering is part of the
// contract, not a cosmetic choice.
type PromotionRepository interface {
	Create(ctx context.Context, promo *model.Promotion) error
	Update(ctx context.Context, promo *model.Promotion) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Promotion, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*model.Promotion, error)
	FindActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.Promotion, error)

	// DeactivateExpired flips to INACTIVE every ACTIVE promotion whose
	// temporal window ended before the given instant. Used by the worker.
	DeactivateExpired(ctx context.Context, before time.Time) (int64, error)
}
