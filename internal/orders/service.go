// Package orders is the staff-facing side of order management: moving an
// order through its lifecycle and browsing the order book.
package orders

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/repository"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

type Service struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewService creates a new order management service
func NewService(repos *repository.Repositories, logger *zap.Logger) *Service {
	return &Service{
		repos:  repos,
		logger: logger,
	}
}

// Get returns an order with its item snapshot
func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (*domain.Order, []domain.OrderItem, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.repos.Order.GetItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// List returns recent orders, optionally filtered by status
func (s *Service) List(ctx context.Context, status *domain.OrderStatus, limit int) ([]domain.Order, error) {
	return s.repos.Order.List(ctx, status, limit)
}

// Confirm moves a pending order to confirmed
func (s *Service) Confirm(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, domain.OrderStatusConfirmed, nil)
}

// StartAssembly moves a confirmed order into assembly
func (s *Service) StartAssembly(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, domain.OrderStatusInProgress, nil)
}

// Ship marks an order as handed to delivery
func (s *Service) Ship(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, domain.OrderStatusShipped, nil)
}

// Deliver marks a shipped order as delivered
func (s *Service) Deliver(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, domain.OrderStatusDelivered, nil)
}

// Cancel cancels an order that has not shipped yet
func (s *Service) Cancel(ctx context.Context, orderID uuid.UUID, reason string) error {
	data := map[string]interface{}{}
	if reason != "" {
		data["reason"] = reason
	}
	return s.transition(ctx, orderID, domain.OrderStatusCancelled, data)
}

// transition validates and applies a status change, recording an event
func (s *Service) transition(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus, extra map[string]interface{}) error {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.Status.CanTransitionTo(to) {
		return &perrors.ErrInvalidStateTransition{
			From: order.Status,
			To:   to,
		}
	}

	if err := s.repos.Order.UpdateStatus(ctx, orderID, to); err != nil {
		return err
	}

	event := &domain.OrderEvent{
		ID:        uuid.New(),
		OrderID:   orderID,
		EventType: "status_change",
		EventData: map[string]interface{}{
			"from": string(order.Status),
			"to":   string(to),
		},
	}
	for k, v := range extra {
		event.EventData[k] = v
	}
	if err := s.repos.OrderEvent.Create(ctx, event); err != nil {
		s.logger.Warn("Failed to record status change event", zap.Error(err))
	}

	s.logger.Info("Order status changed",
		zap.String("order_id", orderID.String()),
		zap.String("from", string(order.Status)),
		zap.String("to", string(to)))

	return nil
}
