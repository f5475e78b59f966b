package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"
)

// OrderStore is the persistence surface for finished orders. Orders are
// append-only; only the status field ever changes after creation.
type OrderStore interface {
	GetByID(ctx context.Context, orderID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
}

type OrderService struct {
	Repo OrderStore
}

func NewOrderService(r OrderStore) *OrderService {
	return &OrderService{Repo: r}
}

// Get returns an order; non-admin callers only see their own.
func (s *OrderService) Get(ctx context.Context, orderID, userID string, isAdmin bool) (*model.Order, error) {
	o, err := s.Repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, errors.New("order not found")
	}
	return o, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context, limit, offset int) ([]model.Order, error) {
	return s.Repo.ListAll(ctx, limit, offset)
}

// UpdateStatus sets any valid status from any other. The status is a flat
// label, not a guarded state machine; there is no transition graph to check.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}
	return s.Repo.UpdateStatus(ctx, orderID, status)
}
