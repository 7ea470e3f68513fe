package repository

import (
	"context"

	"caseable-catalog/internal/model"
)

// OrderStatusRepository defines the journal of order statuses seen by the
// picker API.
type OrderStatusRepository interface {
	// EnsureSchema creates the journal table when it does not exist.
	EnsureSchema(ctx context.Context) error

	// Upsert records statuses. A status replaces a recorded one for the same
	// order only when it changed at the same time or later. Statuses without
	// a known order id are skipped.
	Upsert(ctx context.Context, statuses []model.OrderStatus) error

	// GetByIDs retrieves the recorded statuses of the given orders.
	GetByIDs(ctx context.Context, ids []int64) ([]model.JournalEntry, error)

	// List retrieves recorded statuses, most recently recorded first.
	List(ctx context.Context, limit, offset int) ([]model.JournalEntry, error)
}
