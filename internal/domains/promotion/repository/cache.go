package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/model"
	"github.com/agustxnpm/foodflow-sub003/internal/infrastructure/cache"
	"github.com/agustxnpm/foodflow-sub003/pkg/logger"
)

const (
	candidatesKeyFmt    = "promotions:candidates:%s"
	defaultCandidateTTL = 60 * time.Second
)

// CachedRepository decorates the Postgres repository with a short-lived
// Redis cache over the candidate list, which is read on every order
// mutation. Writes invalidate the tenant's entry; the TTL catches anything
// that slips past (another instance writing, manual SQL).
//
// Cache failures are never fatal: a miss or a Redis outage just falls
// through to Postgres.
type CachedRepository struct {
	PromotionRepository
	redis *cache.RedisClient
	ttl   time.Duration
}

func NewCachedRepository(inner PromotionRepository, redis *cache.RedisClient, ttl time.Duration) *CachedRepository {
	if ttl <= 0 {
		ttl = defaultCandidateTTL
	}
	return &CachedRepository{PromotionRepository: inner, redis: redis, ttl: ttl}
}

func (r *CachedRepository) FindActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.Promotion, error) {
	key := fmt.Sprintf(candidatesKeyFmt, tenantID)

	raw, err := r.redis.Client.Get(ctx, key).Bytes()
	if err == nil {
		var promos []*model.Promotion
		if err := json.Unmarshal(raw, &promos); err == nil {
			return promos, nil
		}
		// A payload we can no longer decode is dropped, not served.
		r.redis.Client.Del(ctx, key)
	} else if err != redis.Nil {
		logger.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("promotion cache read failed")
	}

	promos, err := r.PromotionRepository.FindActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(promos); err == nil {
		if err := r.redis.Client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			logger.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("promotion cache write failed")
		}
	}
	return promos, nil
}

func (r *CachedRepository) Create(ctx context.Context, promo *model.Promotion) error {
	if err := r.PromotionRepository.Create(ctx, promo); err != nil {
		return err
	}
	r.invalidate(ctx, promo.TenantID)
	return nil
}

func (r *CachedRepository) Update(ctx context.Context, promo *model.Promotion) error {
	if err := r.PromotionRepository.Update(ctx, promo); err != nil {
		return err
	}
	r.invalidate(ctx, promo.TenantID)
	return nil
}

func (r *CachedRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := r.PromotionRepository.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	r.invalidate(ctx, tenantID)
	return nil
}

func (r *CachedRepository) invalidate(ctx context.Context, tenantID uuid.UUID) {
	key := fmt.Sprintf(candidatesKeyFmt, tenantID)
	if err := r.redis.Client.Del(ctx, key).Err(); err != nil {
		logger.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("promotion cache invalidation failed")
	}
}
