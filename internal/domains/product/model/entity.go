package model

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/agustxnpm/foodflow-sub003/pkg/money"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductInactive  = errors.New("product is not available")
	ErrExtraNotAllowed  = errors.New("extra is not allowed for this product")
	ErrExtraUnavailable = errors.New("extra product not found")
)

// Product is the read model the ordering flow snapshots from. Prices and
// names are copied onto order lines at add-time; later catalog edits never
// touch open orders.
type Product struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	CategoryID uuid.UUID
	Name       string
	BasePrice  money.Money
	// AllowedExtraIDs whitelists the catalog products that can be sold as
	// add-ons on top of this one.
	AllowedExtraIDs []uuid.UUID
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AllowsExtra reports whether the given product may be attached as an extra.
func (p *Product) AllowsExtra(extraID uuid.UUID) bool {
	for _, id := range p.AllowedExtraIDs {
		if id == extraID {
			return true
		}
	}
	return false
}
