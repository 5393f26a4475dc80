package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/product/model"
)

// ProductRepository is the catalog read surface the ordering flow depends
// on. Catalog writes live in a separate back-office system.
type ProductRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Product, error)
	// FindByIDs loads a batch of products keyed by id. Missing ids are
	// simply absent from the map.
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*model.Product, error)
}
