package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix = "cart:"
	cartTTL       = 24 * time.Hour
)

// Repository persists cart sessions.
type Repository interface {
	Get(ctx context.Context, sessionID string) (Cart, error)
	Set(ctx context.Context, sessionID string, c Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisRepository stores carts as JSON values with a sliding 24h TTL.
type RedisRepository struct {
	rdb *redis.Client
}

// NewRedisRepository creates a Repository after verifying connectivity.
func NewRedisRepository(ctx context.Context, rdb *redis.Client) (*RedisRepository, error) {
	if rdb == nil {
		return nil, errors.New("redis client must be non-nil")
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisRepository{rdb: rdb}, nil
}

// Get returns the session's cart; a missing key is an empty cart.
func (r *RedisRepository) Get(ctx context.Context, sessionID string) (Cart, error) {
	val, err := r.rdb.Get(ctx, cartKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Cart{}, nil
		}
		return Cart{}, fmt.Errorf("get cart: %w", err)
	}
	var c Cart
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		return Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

func (r *RedisRepository) Set(ctx context.Context, sessionID string, c Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.rdb.Set(ctx, cartKeyPrefix+sessionID, data, cartTTL).Err(); err != nil {
		return fmt.Errorf("set cart: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, cartKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
