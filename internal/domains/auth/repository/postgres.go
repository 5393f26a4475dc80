package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agustxnpm/foodflow-sub003/internal/domains/auth/model"
)

// UserRepository looks up staff accounts for authentication.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `
	id, tenant_id, email, password_hash, full_name, role, is_active, last_login_at, created_at, updated_at
`

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.findOne(ctx, query, email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $2, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var u model.User

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID,          // id
		&u.TenantID,    // tenant_id
		&u.Email,       // email
		&u.Password,    // password_hash
		&u.FullName,    // full_name
		&u.Role,        // role
		&u.IsActive,    // is_active
		&u.LastLoginAt, // last_login_at
		&u.CreatedAt,   // created_at
		&u.UpdatedAt,   // updated_at
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
