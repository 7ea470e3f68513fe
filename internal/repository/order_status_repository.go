package repository

import (
	"context"
	"fmt"
	"time"

	"caseable-catalog/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema is the DDL of the order status journal.
const Schema = `
	CREATE TABLE IF NOT EXISTS order_statuses (
		id BIGINT PRIMARY KEY,
		status TEXT NOT NULL,
		status_changed BIGINT NOT NULL DEFAULT -1,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_order_statuses_recorded_at ON order_statuses(recorded_at DESC);
`

// orderStatusRepository implements OrderStatusRepository using PostgreSQL.
type orderStatusRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderStatusRepository creates a new PostgreSQL-backed order status journal.
func NewOrderStatusRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderStatusRepository {
	return &orderStatusRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order_status").Logger(),
	}
}

func (r *orderStatusRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		r.logger.Error().Err(err).Msg("failed to create order status schema")
		return fmt.Errorf("failed to create order status schema: %w", err)
	}
	return nil
}

func (r *orderStatusRepository) Upsert(ctx context.Context, statuses []model.OrderStatus) error {
	query := `
		INSERT INTO order_statuses (id, status, status_changed, recorded_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
			status_changed = EXCLUDED.status_changed,
			recorded_at = EXCLUDED.recorded_at
		WHERE EXCLUDED.status_changed >= order_statuses.status_changed
	`

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	queued := make([]model.OrderStatus, 0, len(statuses))
	for _, s := range statuses {
		if s.ID < 0 {
			r.logger.Debug().Str("status", s.Status).Msg("skipping order status without id")
			continue
		}
		batch.Queue(query, s.ID, s.Status, s.StatusChanged, now)
		queued = append(queued, s)
	}

	if len(queued) == 0 {
		return nil
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for _, s := range queued {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Int64("order_id", s.ID).
				Msg("failed to record order status")
			return fmt.Errorf("failed to record order status %d: %w", s.ID, err)
		}
	}

	r.logger.Debug().
		Int("count", len(queued)).
		Msg("order statuses recorded")

	return nil
}

func (r *orderStatusRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.JournalEntry, error) {
	if len(ids) == 0 {
		return []model.JournalEntry{}, nil
	}

	query := `
		SELECT id, status, status_changed, recorded_at
		FROM order_statuses
		WHERE id = ANY($1)
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query order statuses")
		return nil, fmt.Errorf("failed to query order statuses: %w", err)
	}

	return r.collect(rows)
}

func (r *orderStatusRepository) List(ctx context.Context, limit, offset int) ([]model.JournalEntry, error) {
	query := `
		SELECT id, status, status_changed, recorded_at
		FROM order_statuses
		ORDER BY recorded_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Int("offset", offset).Msg("failed to list order statuses")
		return nil, fmt.Errorf("failed to list order statuses: %w", err)
	}

	return r.collect(rows)
}

func (r *orderStatusRepository) collect(rows pgx.Rows) ([]model.JournalEntry, error) {
	defer rows.Close()

	entries := []model.JournalEntry{}
	for rows.Next() {
		var e model.JournalEntry
		if err := rows.Scan(&e.ID, &e.Status, &e.StatusChanged, &e.RecordedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order status row")
			return nil, fmt.Errorf("failed to scan order status: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order status rows")
		return nil, fmt.Errorf("error iterating order statuses: %w", err)
	}

	return entries, nil
}
