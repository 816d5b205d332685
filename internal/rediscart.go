package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"foodcourt/config"
	"foodcourt/entity"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCarts keeps per-user cart snapshots in Redis. Carts expire after the
// configured TTL so abandoned carts do not accumulate.
type RedisCarts struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCarts(conf *config.Config) (*RedisCarts, error) {
	if !conf.Redis.Enabled {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", conf.Redis.Host, conf.Redis.Port),
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %v", err)
	}
	return &RedisCarts{
		client: client,
		ttl:    time.Duration(conf.Redis.CartTTL) * time.Hour,
	}, nil
}

func cartKey(userId string) string {
	return "cart:" + userId
}

// GetCart loads a user's cart; a missing key yields an empty cart.
func (r *RedisCarts) GetCart(ctx context.Context, userId string) (*entity.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(userId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &entity.Cart{UserId: userId}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %v", err)
	}
	var cart entity.Cart
	if err = json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %v", err)
	}
	return &cart, nil
}

func (r *RedisCarts) SaveCart(ctx context.Context, cart *entity.Cart) error {
	if cart.UserId == "" {
		return fmt.Errorf("cart has no user id")
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %v", err)
	}
	if err = r.client.Set(ctx, cartKey(cart.UserId), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %v", err)
	}
	return nil
}

func (r *RedisCarts) ClearCart(ctx context.Context, userId string) error {
	if err := r.client.Del(ctx, cartKey(userId)).Err(); err != nil {
		return fmt.Errorf("clear cart: %v", err)
	}
	return nil
}
