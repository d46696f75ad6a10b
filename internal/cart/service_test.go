package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/cache"
	"github.com/akzshop/storeapi/internal/domain"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

type mockCartRepo struct {
	m     sync.Mutex
	items []domain.CartItem
	err   error
}

func (m *mockCartRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	items := make([]domain.CartItem, len(m.items))
	copy(items, m.items)
	return &domain.Cart{ID: uuid.New(), UserID: userID, Items: items}, nil
}

func (m *mockCartRepo) SetItem(_ context.Context, _ uuid.UUID, item domain.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for i := range m.items {
		if m.items[i].ProductID == item.ProductID {
			m.items[i] = item
			return nil
		}
	}
	m.items = append(m.items, item)
	return nil
}

func (m *mockCartRepo) UpdateItemPrice(_ context.Context, _ uuid.UUID, productID uuid.UUID, price int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	for i := range m.items {
		if m.items[i].ProductID == productID {
			m.items[i].Price = price
		}
	}
	return nil
}

func (m *mockCartRepo) RemoveItem(_ context.Context, _ uuid.UUID, productID uuid.UUID) error {
	m.m.Lock()
	defer m.m.Unlock()
	for i := range m.items {
		if m.items[i].ProductID == productID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockCartRepo) Clear(context.Context, uuid.UUID) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.items = nil
	return nil
}

type mockProductRepo struct {
	products map[uuid.UUID]domain.Product
}

func (m *mockProductRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, &perrors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	return &p, nil
}

func (m *mockProductRepo) List(context.Context) ([]domain.Product, error) { return nil, nil }
func (m *mockProductRepo) Create(context.Context, *domain.Product) error  { return nil }

type mockCache struct {
	m     sync.Mutex
	carts map[string]*domain.Cart
}

func newMockCache() *mockCache {
	return &mockCache{carts: make(map[string]*domain.Cart)}
}

func (m *mockCache) Get(_ context.Context, userID string) (*domain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if c, ok := m.carts[userID]; ok {
		return c, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *mockCache) Set(_ context.Context, userID string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.carts[userID] = cart
	return nil
}

func (m *mockCache) Delete(_ context.Context, userID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, userID)
	return nil
}

func newTestService() (*Service, *mockCartRepo, *mockProductRepo, uuid.UUID) {
	repo := &mockCartRepo{}
	oats := domain.Product{
		ID:           uuid.New(),
		Name:         "Овёс премиум",
		Specs:        "Мешок 20 кг",
		Unit:         domain.UnitBag,
		BasePrice:    765,
		PremiumPrice: 650,
		ProPrice:     550,
		IsActive:     true,
	}
	products := &mockProductRepo{products: map[uuid.UUID]domain.Product{oats.ID: oats}}
	svc := NewService(repo, products, newMockCache(), zap.NewNop())
	return svc, repo, products, oats.ID
}

func TestAddItemNewLine(t *testing.T) {
	svc, repo, _, productID := newTestService()
	userID := uuid.New()

	item, err := svc.AddItem(context.Background(), userID, productID, 2, domain.SubscriptionFree)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, int64(765), item.Price)
	require.Len(t, repo.items, 1)
}

func TestAddItemIncrementsAndClamps(t *testing.T) {
	svc, repo, _, productID := newTestService()
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, productID, 8, domain.SubscriptionFree)
	require.NoError(t, err)

	// 8 + 5 clamps to the max of 10
	item, err := svc.AddItem(context.Background(), userID, productID, 5, domain.SubscriptionFree)
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)
	require.Len(t, repo.items, 1)
	assert.Equal(t, 10, repo.items[0].Quantity)
}

func TestAddItemUsesTierPrice(t *testing.T) {
	svc, _, _, productID := newTestService()

	item, err := svc.AddItem(context.Background(), uuid.New(), productID, 1, domain.SubscriptionPro)
	require.NoError(t, err)
	assert.Equal(t, int64(550), item.Price)
	assert.Equal(t, int64(765), item.OriginalPrice)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 1, domain.SubscriptionFree)
	var notFound *perrors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestUpdateQuantityClamps(t *testing.T) {
	svc, repo, _, productID := newTestService()
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, productID, 5, domain.SubscriptionFree)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuantity(context.Background(), userID, productID, 99))
	assert.Equal(t, 10, repo.items[0].Quantity)

	require.NoError(t, svc.UpdateQuantity(context.Background(), userID, productID, -3))
	assert.Equal(t, 1, repo.items[0].Quantity)
}

func TestUpdateQuantityAbsentIsNoop(t *testing.T) {
	svc, repo, _, _ := newTestService()

	require.NoError(t, svc.UpdateQuantity(context.Background(), uuid.New(), uuid.New(), 5))
	assert.Empty(t, repo.items)
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	svc, repo, _, productID := newTestService()
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, productID, 1, domain.SubscriptionFree)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(context.Background(), userID, uuid.New()))
	assert.Len(t, repo.items, 1)

	require.NoError(t, svc.RemoveItem(context.Background(), userID, productID))
	assert.Empty(t, repo.items)
}

func TestClear(t *testing.T) {
	svc, repo, _, productID := newTestService()
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, productID, 3, domain.SubscriptionFree)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), userID))
	assert.Empty(t, repo.items)

	count, err := svc.Count(context.Background(), userID, domain.SubscriptionFree)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGetRefreshesPricesForTier(t *testing.T) {
	svc, repo, _, productID := newTestService()
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, productID, 2, domain.SubscriptionFree)
	require.NoError(t, err)
	assert.Equal(t, int64(765), repo.items[0].Price)

	// upgrading to pro reprices the existing line on the next read
	crt, err := svc.Get(context.Background(), userID, domain.SubscriptionPro)
	require.NoError(t, err)
	require.Len(t, crt.Items, 1)
	assert.Equal(t, int64(550), crt.Items[0].Price)

	// give the async cache write a moment; the repo copy must be updated too
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int64(550), repo.items[0].Price)
}

func TestCount(t *testing.T) {
	svc, _, _, productID := newTestService()
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, productID, 4, domain.SubscriptionFree)
	require.NoError(t, err)

	count, err := svc.Count(context.Background(), userID, domain.SubscriptionFree)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
