package internal

import (
	"context"
	"foodcourt/entity"
	"foodcourt/services"

	"go.mongodb.org/mongo-driver/mongo"
)

// dbMock implements services.Database with overridable function fields,
// defaulting to empty results.
type dbMock struct {
	getMenuItemsFn  func(ctx context.Context, category string) ([]entity.MenuItem, error)
	getMenuItemFn   func(ctx context.Context, id string) (*entity.MenuItem, error)
	saveOrderFn     func(ctx context.Context, order *entity.Order) error
	getOrderByTxnFn func(ctx context.Context, txn string) (*entity.Order, error)
	updateStatusFn  func(ctx context.Context, id, status string) error
}

func (m *dbMock) WriteLogMessage(services.Data) error { return nil }

func (m *dbMock) GetMenuItems(ctx context.Context, category string) ([]entity.MenuItem, error) {
	if m.getMenuItemsFn != nil {
		return m.getMenuItemsFn(ctx, category)
	}
	return nil, nil
}

func (m *dbMock) GetMenuItem(ctx context.Context, id string) (*entity.MenuItem, error) {
	if m.getMenuItemFn != nil {
		return m.getMenuItemFn(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *dbMock) CreateMenuItem(context.Context, *entity.MenuItem) error { return nil }
func (m *dbMock) UpdateMenuItem(context.Context, *entity.MenuItem) error { return nil }
func (m *dbMock) DeleteMenuItem(context.Context, string) error           { return nil }

func (m *dbMock) SaveOrder(ctx context.Context, order *entity.Order) error {
	if m.saveOrderFn != nil {
		return m.saveOrderFn(ctx, order)
	}
	return nil
}

func (m *dbMock) GetOrder(context.Context, string) (*entity.Order, error) {
	return nil, mongo.ErrNoDocuments
}

func (m *dbMock) GetOrderByTxn(ctx context.Context, txn string) (*entity.Order, error) {
	if m.getOrderByTxnFn != nil {
		return m.getOrderByTxnFn(ctx, txn)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *dbMock) GetOrders(context.Context) ([]entity.Order, error) { return nil, nil }

func (m *dbMock) UpdateOrderStatus(ctx context.Context, id, status string) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *dbMock) CountOrders(context.Context) (int64, int64, error) { return 0, 0, nil }

// cartsMock implements services.Carts in memory.
type cartsMock struct {
	carts   map[string]*entity.Cart
	cleared []string
}

func newCartsMock() *cartsMock {
	return &cartsMock{carts: make(map[string]*entity.Cart)}
}

func (m *cartsMock) GetCart(_ context.Context, userId string) (*entity.Cart, error) {
	if cart, ok := m.carts[userId]; ok {
		return cart, nil
	}
	return &entity.Cart{UserId: userId}, nil
}

func (m *cartsMock) SaveCart(_ context.Context, cart *entity.Cart) error {
	m.carts[cart.UserId] = cart
	return nil
}

func (m *cartsMock) ClearCart(_ context.Context, userId string) error {
	delete(m.carts, userId)
	m.cleared = append(m.cleared, userId)
	return nil
}
