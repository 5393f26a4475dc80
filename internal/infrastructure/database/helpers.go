package database

import (
	"context"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agustxnpm/foodflow-sub003/pkg/logger"
)

// Close drains the pool. Idempotent; safe during shutdown.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}
	db.Pool.Close()
	db.Pool = nil
	return nil
}

// PoolStats is a snapshot of connection pool metrics.
type PoolStats struct {
	AcquiredConns        int32
	IdleConns            int32
	TotalConns           int32
	MaxConns             int32
	AcquireCount         int64
	AcquireDuration      time.Duration
	CanceledAcquireCount int64
}

// Stats returns the current pool metrics.
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		AcquiredConns:        raw.AcquiredConns(),
		IdleConns:            raw.IdleConns(),
		TotalConns:           raw.TotalConns(),
		MaxConns:             raw.MaxConns(),
		AcquireCount:         raw.AcquireCount(),
		AcquireDuration:      raw.AcquireDuration(),
		CanceledAcquireCount: raw.CanceledAcquireCount(),
	}, nil
}

// ExecuteInTransaction runs fn inside a transaction, committing on success
// and rolling back on error. The error from fn is returned as-is so
// sentinel errors survive for errors.Is at the call site. Rollback after a
// commit is a no-op.
func ExecuteInTransaction(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			logger.Warn().Err(err).Msg("transaction rollback error")
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// MonitorPoolHealth periodically logs pool pressure. Run in its own
// goroutine; stops when the context is cancelled.
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				logger.Warn().Err(err).Msg("failed to read pool stats")
				continue
			}

			utilization := float64(stats.AcquiredConns) / float64(stats.MaxConns) * 100
			if utilization > 80 {
				logger.Warn().
					Float64("utilization_pct", utilization).
					Int32("acquired", stats.AcquiredConns).
					Int32("max", stats.MaxConns).
					Msg("high database pool utilization")
			}

		case <-ctx.Done():
			return
		}
	}
}
