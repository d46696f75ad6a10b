package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/repository"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

type fakeOrderRepo struct {
	order *domain.Order
}

func (f *fakeOrderRepo) Create(context.Context, *domain.Order, []*domain.OrderItem, *domain.IdempotencyKey) error {
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	if f.order == nil || f.order.ID != id {
		return nil, &perrors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	cp := *f.order
	return &cp, nil
}

func (f *fakeOrderRepo) GetItems(context.Context, uuid.UUID) ([]domain.OrderItem, error) {
	return nil, nil
}

func (f *fakeOrderRepo) ListByUser(context.Context, uuid.UUID, int) ([]domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) List(context.Context, *domain.OrderStatus, int) ([]domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, _ uuid.UUID, status domain.OrderStatus) error {
	f.order.Status = status
	return nil
}

type fakeEventRepo struct {
	events []*domain.OrderEvent
}

func (f *fakeEventRepo) Create(_ context.Context, event *domain.OrderEvent) error {
	f.events = append(f.events, event)
	return nil
}

func newService(status domain.OrderStatus) (*Service, *fakeOrderRepo, *fakeEventRepo, uuid.UUID) {
	orderID := uuid.New()
	orderRepo := &fakeOrderRepo{order: &domain.Order{ID: orderID, Status: status}}
	eventRepo := &fakeEventRepo{}
	svc := NewService(&repository.Repositories{
		Order:      orderRepo,
		OrderEvent: eventRepo,
	}, zap.NewNop())
	return svc, orderRepo, eventRepo, orderID
}

func TestConfirmPendingOrder(t *testing.T) {
	svc, repo, events, orderID := newService(domain.OrderStatusPending)

	require.NoError(t, svc.Confirm(context.Background(), orderID))
	assert.Equal(t, domain.OrderStatusConfirmed, repo.order.Status)

	require.Len(t, events.events, 1)
	assert.Equal(t, "status_change", events.events[0].EventType)
	assert.Equal(t, "pending", events.events[0].EventData["from"])
	assert.Equal(t, "confirmed", events.events[0].EventData["to"])
}

func TestLifecycleToDelivered(t *testing.T) {
	svc, repo, _, orderID := newService(domain.OrderStatusPending)
	ctx := context.Background()

	require.NoError(t, svc.Confirm(ctx, orderID))
	require.NoError(t, svc.StartAssembly(ctx, orderID))
	require.NoError(t, svc.Ship(ctx, orderID))
	require.NoError(t, svc.Deliver(ctx, orderID))
	assert.Equal(t, domain.OrderStatusDelivered, repo.order.Status)
}

func TestCancelShippedOrderRejected(t *testing.T) {
	svc, repo, events, orderID := newService(domain.OrderStatusShipped)

	err := svc.Cancel(context.Background(), orderID, "передумал")
	var transition *perrors.ErrInvalidStateTransition
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, domain.OrderStatusShipped, transition.From)
	assert.Equal(t, domain.OrderStatusCancelled, transition.To)

	assert.Equal(t, domain.OrderStatusShipped, repo.order.Status)
	assert.Empty(t, events.events)
}

func TestCancelRecordsReason(t *testing.T) {
	svc, _, events, orderID := newService(domain.OrderStatusPending)

	require.NoError(t, svc.Cancel(context.Background(), orderID, "нет в наличии"))
	require.Len(t, events.events, 1)
	assert.Equal(t, "нет в наличии", events.events[0].EventData["reason"])
}

func TestTransitionUnknownOrder(t *testing.T) {
	svc, _, _, _ := newService(domain.OrderStatusPending)

	err := svc.Confirm(context.Background(), uuid.New())
	var notFound *perrors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
}
