// Package services declares the interfaces wiring the storefront together.
package services

import (
	"context"
	"foodcourt/entity"
)

// Database is the document-store surface the storefront depends on.
// Menu items and orders live in the hosted document database; the service
// only performs CRUD against the collections it owns.
type Database interface {
	WriteLogMessage(data Data) error

	GetMenuItems(ctx context.Context, category string) ([]entity.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*entity.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *entity.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *entity.MenuItem) error
	DeleteMenuItem(ctx context.Context, id string) error

	SaveOrder(ctx context.Context, order *entity.Order) error
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	GetOrderByTxn(ctx context.Context, merchantTxnId string) (*entity.Order, error)
	GetOrders(ctx context.Context) ([]entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
	CountOrders(ctx context.Context) (total int64, completed int64, err error)
}

type Data interface {
	DataType() string
}
