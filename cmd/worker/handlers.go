package main

import (
	"github.com/hibiken/asynq"

	promotionJob "github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/job"
	"github.com/agustxnpm/foodflow-sub003/internal/shared"
	"github.com/agustxnpm/foodflow-sub003/pkg/container"
)

// HandlerRegistry holds all background job handlers.
type HandlerRegistry struct {
	expirePromotions *promotionJob.ExpirePromotionsHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		expirePromotions: promotionJob.NewExpirePromotionsHandler(c.PromotionRepo),
	}
}

// RegisterHandlers binds every task type to its handler.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeExpirePromotions, h.expirePromotions.ProcessTask)
}
