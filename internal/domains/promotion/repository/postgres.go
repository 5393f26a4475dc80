package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/model"
	"github.com/agustxnpm/foodflow-sub003/internal/infrastructure/database"
)

const uniqueViolation = "23505"

// PostgresRepository stores promotions across three tables: the aggregate
// row (with the strategy as a tagged JSONB payload), one row per criterion
// and one row per scope item. Criteria keep their position so the AND list
// reloads in the same order it was defined.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// -------------------------------------------------------------------
// WRITE OPERATIONS
// -------------------------------------------------------------------

// Create inserts the whole aggregate in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, promo *model.Promotion) error {
	return database.ExecuteInTransaction(ctx, r.db, func(tx pgx.Tx) error {
		return r.insertAggregate(ctx, tx, promo)
	})
}

// Update replaces the aggregate: the promotion row is updated in place,
// criteria and scope are deleted and re-inserted.
func (r *PostgresRepository) Update(ctx context.Context, promo *model.Promotion) error {
	strategyType, strategyPayload, err := model.MarshalStrategy(promo.Strategy)
	if err != nil {
		return err
	}

	return database.ExecuteInTransaction(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE promotions
			SET name = $1, description = $2, priority = $3, status = $4,
			    strategy_type = $5, strategy = $6, valid_until = $7, updated_at = $8
			WHERE id = $9 AND tenant_id = $10
		`,
			promo.Name,
			promo.Description,
			promo.Priority,
			promo.Status,
			strategyType,
			strategyPayload,
			validUntil(promo),
			promo.UpdatedAt,
			promo.ID,
			promo.TenantID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return model.ErrDuplicateName
			}
			return fmt.Errorf("update promotion: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrPromotionNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM promotion_criteria WHERE promotion_id = $1`, promo.ID); err != nil {
			return fmt.Errorf("delete promotion criteria: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM promotion_scope WHERE promotion_id = $1`, promo.ID); err != nil {
			return fmt.Errorf("delete promotion scope: %w", err)
		}
		return r.insertChildren(ctx, tx, promo)
	})
}

// Delete removes the aggregate. Criteria and scope rows cascade.
func (r *PostgresRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM promotions WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPromotionNotFound
	}
	return nil
}

// DeactivateExpired flips ACTIVE promotions whose last temporal window ended
// before the cutoff. Promotions without any temporal criterion never expire.
func (r *PostgresRepository) DeactivateExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE promotions
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND valid_until IS NOT NULL AND valid_until < $3
	`, model.StatusInactive, model.StatusActive, before)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired promotions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepository) insertAggregate(ctx context.Context, tx pgx.Tx, promo *model.Promotion) error {
	strategyType, strategyPayload, err := model.MarshalStrategy(promo.Strategy)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO promotions (
			id, tenant_id, name, description, priority, status,
			strategy_type, strategy, valid_until, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		promo.ID,
		promo.TenantID,
		promo.Name,
		promo.Description,
		promo.Priority,
		promo.Status,
		strategyType,
		strategyPayload,
		validUntil(promo),
		promo.CreatedAt,
		promo.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateName
		}
		return fmt.Errorf("insert promotion: %w", err)
	}
	return r.insertChildren(ctx, tx, promo)
}

func (r *PostgresRepository) insertChildren(ctx context.Context, tx pgx.Tx, promo *model.Promotion) error {
	for position, criterion := range promo.Criteria {
		criterionType, payload, err := model.MarshalCriterion(criterion)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO promotion_criteria (id, promotion_id, position, criterion_type, criterion)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New(), promo.ID, position, criterionType, payload)
		if err != nil {
			return fmt.Errorf("insert promotion criterion: %w", err)
		}
	}

	for _, item := range promo.Scope {
		_, err := tx.Exec(ctx, `
			INSERT INTO promotion_scope (id, promotion_id, reference_id, kind, role)
			VALUES ($1, $2, $3, $4, $5)
		`, item.ID, promo.ID, item.ReferenceID, item.Kind, item.Role)
		if err != nil {
			return fmt.Errorf("insert promotion scope item: %w", err)
		}
	}
	return nil
}

// -------------------------------------------------------------------
// READ OPERATIONS
// -------------------------------------------------------------------

func (r *PostgresRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Promotion, error) {
	query := `
		SELECT id, tenant_id, name, description, priority, status,
		       strategy_type, strategy, created_at, updated_at
		FROM promotions
		WHERE id = $1 AND tenant_id = $2
	`

	promo, err := r.scanPromotion(r.db.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("find promotion by id: %w", err)
	}

	if err := r.loadChildren(ctx, []*model.Promotion{promo}); err != nil {
		return nil, err
	}
	return promo, nil
}

// List returns every promotion of the tenant, newest first.
func (r *PostgresRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*model.Promotion, error) {
	query := `
		SELECT id, tenant_id, name, description, priority, status,
		       strategy_type, strategy, created_at, updated_at
		FROM promotions
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`
	return r.queryPromotions(ctx, query, tenantID)
}

// FindActiveByTenant returns the engine's candidate list. Ordering is part
// of the engine contract: priority DESC, then created_at ASC so equal
// priorities tie-break on the older promotion.
func (r *PostgresRepository) FindActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.Promotion, error) {
	query := `
		SELECT id, tenant_id, name, description, priority, status,
		       strategy_type, strategy, created_at, updated_at
		FROM promotions
		WHERE tenant_id = $1 AND status = $2
		ORDER BY priority DESC, created_at ASC
	`
	return r.queryPromotions(ctx, query, tenantID, model.StatusActive)
}

func (r *PostgresRepository) queryPromotions(ctx context.Context, query string, args ...any) ([]*model.Promotion, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query promotions: %w", err)
	}
	defer rows.Close()

	var promos []*model.Promotion
	for rows.Next() {
		promo, err := r.scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		promos = append(promos, promo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promotions: %w", err)
	}

	if err := r.loadChildren(ctx, promos); err != nil {
		return nil, err
	}
	return promos, nil
}

func (r *PostgresRepository) scanPromotion(row pgx.Row) (*model.Promotion, error) {
	var (
		promo           model.Promotion
		strategyType    string
		strategyPayload []byte
	)
	err := row.Scan(
		&promo.ID,          // id
		&promo.TenantID,    // tenant_id
		&promo.Name,        // name
		&promo.Description, // description
		&promo.Priority,    // priority
		&promo.Status,      // status
		&strategyType,      // strategy_type
		&strategyPayload,   // strategy (jsonb)
		&promo.CreatedAt,   // created_at
		&promo.UpdatedAt,   // updated_at
	)
	if err != nil {
		return nil, err
	}

	promo.Strategy, err = model.UnmarshalStrategy(strategyType, strategyPayload)
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// loadChildren attaches criteria and scope to the already-scanned rows with
// one query per table.
func (r *PostgresRepository) loadChildren(ctx context.Context, promos []*model.Promotion) error {
	if len(promos) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*model.Promotion, len(promos))
	ids := make([]uuid.UUID, 0, len(promos))
	for _, p := range promos {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT promotion_id, criterion_type, criterion
		FROM promotion_criteria
		WHERE promotion_id = ANY($1)
		ORDER BY promotion_id, position
	`, ids)
	if err != nil {
		return fmt.Errorf("query promotion criteria: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			promoID       uuid.UUID
			criterionType string
			payload       []byte
		)
		if err := rows.Scan(&promoID, &criterionType, &payload); err != nil {
			return fmt.Errorf("scan promotion criterion: %w", err)
		}
		criterion, err := model.UnmarshalCriterion(criterionType, payload)
		if err != nil {
			return err
		}
		if promo, ok := byID[promoID]; ok {
			promo.Criteria = append(promo.Criteria, criterion)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate promotion criteria: %w", err)
	}

	scopeRows, err := r.db.Query(ctx, `
		SELECT id, promotion_id, reference_id, kind, role
		FROM promotion_scope
		WHERE promotion_id = ANY($1)
	`, ids)
	if err != nil {
		return fmt.Errorf("query promotion scope: %w", err)
	}
	defer scopeRows.Close()

	for scopeRows.Next() {
		var (
			promoID uuid.UUID
			item    model.ScopeItem
		)
		if err := scopeRows.Scan(&item.ID, &promoID, &item.ReferenceID, &item.Kind, &item.Role); err != nil {
			return fmt.Errorf("scan promotion scope item: %w", err)
		}
		if promo, ok := byID[promoID]; ok {
			promo.Scope = append(promo.Scope, item)
		}
	}
	if err := scopeRows.Err(); err != nil {
		return fmt.Errorf("iterate promotion scope: %w", err)
	}
	return nil
}

// -------------------------------------------------------------------
// HELPERS
// -------------------------------------------------------------------

// validUntil derives the expiry marker from the temporal criteria: the
// latest DateTo, or nil when the promotion has no temporal criterion.
func validUntil(promo *model.Promotion) *time.Time {
	var latest *time.Time
	for _, c := range promo.Criteria {
		temporal, ok := c.(model.Temporal)
		if !ok {
			continue
		}
		end := temporal.DateTo.Add(24*time.Hour - time.Nanosecond)
		if latest == nil || end.After(*latest) {
			latest = &end
		}
	}
	return latest
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
