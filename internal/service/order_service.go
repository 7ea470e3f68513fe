package service

import (
	"context"
	"fmt"

	"caseable-catalog/internal/model"
	"caseable-catalog/internal/repository"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orders  Orders
	journal repository.OrderStatusRepository
	creds   *model.Credentials
	logger  zerolog.Logger
}

// NewOrderService creates a new order service that calls the catalog
// service with creds.
func NewOrderService(
	orders Orders,
	journal repository.OrderStatusRepository,
	creds *model.Credentials,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orders:  orders,
		journal: journal,
		creds:   creds,
		logger:  logger.With().Str("service", "order").Logger(),
	}
}

func (s *orderService) Place(ctx context.Context, req *model.OrderRequest) (model.OrderStatus, error) {
	status, err := s.orders.PlaceOrder(ctx, req, s.creds)
	if err != nil {
		return model.OrderStatus{}, err
	}

	s.record(ctx, status)

	s.logger.Info().
		Int64("order_id", status.ID).
		Str("status", status.Status).
		Msg("order placed successfully")

	return status, nil
}

func (s *orderService) Get(ctx context.Context, ids []string) ([]model.OrderStatus, error) {
	statuses, err := s.orders.GetOrders(ctx, ids, s.creds)
	if err != nil {
		return nil, err
	}

	s.record(ctx, statuses...)

	return statuses, nil
}

func (s *orderService) Update(ctx context.Context, id, status string) (model.OrderStatus, error) {
	updated, err := s.orders.UpdateOrder(ctx, id, status, s.creds)
	if err != nil {
		return model.OrderStatus{}, err
	}

	s.record(ctx, updated)

	s.logger.Info().
		Str("order_id", id).
		Str("status", updated.Status).
		Msg("order updated successfully")

	return updated, nil
}

func (s *orderService) Journal(ctx context.Context, limit, offset int) ([]model.JournalEntry, error) {
	entries, err := s.journal.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Int("limit", limit).Int("offset", offset).Msg("failed to list journal")
		return nil, fmt.Errorf("failed to list order journal: %w", err)
	}
	return entries, nil
}

func (s *orderService) JournalByIDs(ctx context.Context, ids []int64) ([]model.JournalEntry, error) {
	entries, err := s.journal.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to look up journal")
		return nil, fmt.Errorf("failed to look up order journal: %w", err)
	}
	return entries, nil
}

// record journals statuses. The catalog service already accepted the call,
// so a journal failure is logged and not returned.
func (s *orderService) record(ctx context.Context, statuses ...model.OrderStatus) {
	if err := s.journal.Upsert(ctx, statuses); err != nil {
		s.logger.Error().
			Err(err).
			Int("count", len(statuses)).
			Msg("failed to record order statuses")
	}
}
