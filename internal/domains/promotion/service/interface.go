package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/model"
)

// ServiceInterface is the promotion catalog: the admin CRUD surface plus the
// candidate feed the rule engine consumes.
type ServiceInterface interface {
	Create(ctx context.Context, tenantID uuid.UUID, req *model.CreatePromotionRequest) (*model.Promotion, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req *model.UpdatePromotionRequest) (*model.Promotion, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status model.Status) (*model.Promotion, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Promotion, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*model.Promotion, error)

	// ActiveCandidates returns the pre-filtered, priority-ordered list the
	// engine evaluates. Called on every order mutation.
	ActiveCandidates(ctx context.Context, tenantID uuid.UUID) ([]*model.Promotion, error)
}
