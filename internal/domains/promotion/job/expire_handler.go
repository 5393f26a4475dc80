package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/repository"
	"github.com/agustxnpm/foodflow-sub003/pkg/logger"
)

// ExpirePromotionsHandler flips promotions whose validity window has fully
// passed to INACTIVE. The engine already ignores them via its temporal
// criteria; the sweep keeps the catalog and the candidate queries small.
//
// Cached candidate lists are not invalidated per tenant here; the short
// cache TTL absorbs the lag.
type ExpirePromotionsHandler struct {
	repo repository.PromotionRepository
}

func NewExpirePromotionsHandler(repo repository.PromotionRepository) *ExpirePromotionsHandler {
	return &ExpirePromotionsHandler{repo: repo}
}

func (h *ExpirePromotionsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	deactivated, err := h.repo.DeactivateExpired(ctx, time.Now())
	if err != nil {
		logger.Error("promotion expiry sweep failed", err)
		return err
	}

	if deactivated > 0 {
		logger.Info("expired promotions deactivated", map[string]interface{}{
			"count": deactivated,
		})
	}
	return nil
}
