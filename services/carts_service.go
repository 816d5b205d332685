package services

import (
	"context"
	"foodcourt/entity"
)

// Carts stores per-user cart snapshots. Loading a cart that does not exist
// returns an empty cart, not an error.
type Carts interface {
	GetCart(ctx context.Context, userId string) (*entity.Cart, error)
	SaveCart(ctx context.Context, cart *entity.Cart) error
	ClearCart(ctx context.Context, userId string) error
}
