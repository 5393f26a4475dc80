package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/model"
	"github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/repository"
	"github.com/agustxnpm/foodflow-sub003/pkg/logger"
)

// promotionService owns the catalog lifecycle. Every aggregate that reaches
// the repository has passed both the DTO validation and the domain
// invariants; the engine downstream never re-checks them.
type promotionService struct {
	repo repository.PromotionRepository
}

// NewPromotionService builds the catalog service.
func NewPromotionService(repo repository.PromotionRepository) ServiceInterface {
	return &promotionService{repo: repo}
}

// -------------------------------------------------------------------
// ADMIN OPERATIONS
// -------------------------------------------------------------------

func (s *promotionService) Create(ctx context.Context, tenantID uuid.UUID, req *model.CreatePromotionRequest) (*model.Promotion, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewPromotionError(model.ErrCodeInvalidPromotion, "invalid promotion", err)
	}

	promo, err := req.ToPromotion(tenantID)
	if err != nil {
		return nil, model.NewPromotionError(model.ErrCodeInvalidPromotion, "invalid promotion", err)
	}

	if err := s.repo.Create(ctx, promo); err != nil {
		if err == model.ErrDuplicateName {
			return nil, model.NewPromotionError(model.ErrCodeDuplicateName, "promotion name already in use", err)
		}
		return nil, fmt.Errorf("create promotion: %w", err)
	}

	logger.Info("promotion created", map[string]interface{}{
		"promotion_id": promo.ID.String(),
		"tenant_id":    tenantID.String(),
		"name":         promo.Name,
		"strategy":     string(promo.Strategy.Type()),
	})
	return promo, nil
}

func (s *promotionService) Update(ctx context.Context, tenantID, id uuid.UUID, req *model.UpdatePromotionRequest) (*model.Promotion, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewPromotionError(model.ErrCodeInvalidPromotion, "invalid promotion", err)
	}

	existing, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	updated, err := req.ToPromotion(tenantID)
	if err != nil {
		return nil, model.NewPromotionError(model.ErrCodeInvalidPromotion, "invalid promotion", err)
	}

	// Identity and history survive the replacement.
	updated.ID = existing.ID
	updated.Status = existing.Status
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, updated); err != nil {
		if err == model.ErrDuplicateName {
			return nil, model.NewPromotionError(model.ErrCodeDuplicateName, "promotion name already in use", err)
		}
		return nil, fmt.Errorf("update promotion: %w", err)
	}
	return updated, nil
}

func (s *promotionService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status model.Status) (*model.Promotion, error) {
	promo, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if status == model.StatusActive {
		promo.Activate()
	} else {
		promo.Deactivate()
	}

	if err := s.repo.Update(ctx, promo); err != nil {
		return nil, fmt.Errorf("update promotion status: %w", err)
	}

	logger.Info("promotion status changed", map[string]interface{}{
		"promotion_id": promo.ID.String(),
		"status":       string(promo.Status),
	})
	return promo, nil
}

func (s *promotionService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	logger.Info("promotion deleted", map[string]interface{}{
		"promotion_id": id.String(),
		"tenant_id":    tenantID.String(),
	})
	return nil
}

func (s *promotionService) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Promotion, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

func (s *promotionService) List(ctx context.Context, tenantID uuid.UUID) ([]*model.Promotion, error) {
	return s.repo.List(ctx, tenantID)
}

// -------------------------------------------------------------------
// ENGINE FEED
// -------------------------------------------------------------------

func (s *promotionService) ActiveCandidates(ctx context.Context, tenantID uuid.UUID) ([]*model.Promotion, error) {
	promos, err := s.repo.FindActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load candidate promotions: %w", err)
	}
	return promos, nil
}
