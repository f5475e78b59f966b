package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	orders map[string]*model.Order
}

func newFakeOrderStore(orders ...*model.Order) *fakeOrderStore {
	m := make(map[string]*model.Order)
	for _, o := range orders {
		m[o.OrderID] = o
	}
	return &fakeOrderStore{orders: m}
}

func (f *fakeOrderStore) GetByID(_ context.Context, id string) (*model.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, errors.New("order not found")
	}
	return o, nil
}

func (f *fakeOrderStore) ListByUser(_ context.Context, userID string) ([]model.Order, error) {
	var out []model.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) ListAll(_ context.Context, _, _ int) ([]model.Order, error) {
	var out []model.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id string, status model.OrderStatus) error {
	o, ok := f.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	o.Status = status
	return nil
}

func TestOrderStatusIsFlat(t *testing.T) {
	t.Parallel()

	store := newFakeOrderStore(&model.Order{OrderID: "o1", UserID: testUser, Status: model.StatusPending})
	svc := services.NewOrderService(store)
	ctx := context.Background()

	// any status from any status, forwards or backwards
	steps := []model.OrderStatus{
		model.StatusCompleted,
		model.StatusPending,
		model.StatusCancelled,
		model.StatusPaymentConfirmed,
		model.StatusAwaitingPayment,
		model.StatusProcessing,
	}
	for _, s := range steps {
		require.NoError(t, svc.UpdateStatus(ctx, "o1", s))
		assert.Equal(t, s, store.orders["o1"].Status)
	}

	// only enum membership is enforced
	assert.Error(t, svc.UpdateStatus(ctx, "o1", "shipped"))
	assert.Equal(t, model.StatusProcessing, store.orders["o1"].Status)
}

func TestOrderVisibility(t *testing.T) {
	t.Parallel()

	store := newFakeOrderStore(
		&model.Order{OrderID: "o1", UserID: testUser},
		&model.Order{OrderID: "o2", UserID: "someone-else"},
	)
	svc := services.NewOrderService(store)
	ctx := context.Background()

	o, err := svc.Get(ctx, "o1", testUser, false)
	require.NoError(t, err)
	assert.Equal(t, "o1", o.OrderID)

	// users cannot read other users' orders
	_, err = svc.Get(ctx, "o2", testUser, false)
	assert.Error(t, err)

	// admins can
	o, err = svc.Get(ctx, "o2", testUser, true)
	require.NoError(t, err)
	assert.Equal(t, "o2", o.OrderID)
}
