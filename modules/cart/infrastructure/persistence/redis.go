package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/rai/commerce-saga-go/modules/cart/domain"
)

const (
	cartKeyPrefix = "cart:"
	maxTxRetries  = 5
)

// errNoChange signals that a mutator left the cart untouched and the write
// should be skipped.
var errNoChange = errors.New("cart unchanged")

// RedisRepository stores carts as JSON values in Redis. Per-key atomicity of
// read-modify-write comes from optimistic locking: the key is WATCHed, the
// mutated cart is written in a MULTI/EXEC, and a lost race retries.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	val, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading cart %s: %w", userID, err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(val, &cart); err != nil {
		return nil, fmt.Errorf("decoding cart %s: %w", userID, err)
	}
	return &cart, nil
}

func (r *RedisRepository) Upsert(ctx context.Context, userID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	return r.mutate(ctx, userID, true, fn)
}

func (r *RedisRepository) Update(ctx context.Context, userID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	return r.mutate(ctx, userID, false, fn)
}

func (r *RedisRepository) UpdateEach(ctx context.Context, fn func(*domain.Cart) bool) error {
	iter := r.client.Scan(ctx, 0, cartKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		userID := strings.TrimPrefix(iter.Val(), cartKeyPrefix)
		_, err := r.mutate(ctx, userID, false, func(c *domain.Cart) error {
			if !fn(c) {
				return errNoChange
			}
			return nil
		})
		if err != nil && !errors.Is(err, errNoChange) && !errors.Is(err, domain.ErrCartNotFound) {
			return err
		}
	}
	return iter.Err()
}

func (r *RedisRepository) mutate(ctx context.Context, userID string, create bool, fn func(*domain.Cart) error) (*domain.Cart, error) {
	key := cartKey(userID)
	var result *domain.Cart

	txf := func(tx *redis.Tx) error {
		var cart *domain.Cart
		val, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if !create {
				return domain.ErrCartNotFound
			}
			cart = domain.New(userID)
		case err != nil:
			return fmt.Errorf("loading cart %s: %w", userID, err)
		default:
			cart = &domain.Cart{}
			if err := json.Unmarshal(val, cart); err != nil {
				return fmt.Errorf("decoding cart %s: %w", userID, err)
			}
		}

		if err := fn(cart); err != nil {
			return err
		}

		data, err := json.Marshal(cart)
		if err != nil {
			return fmt.Errorf("encoding cart %s: %w", userID, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		result = cart
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// Optimistic lock lost to a concurrent writer; retry.
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("updating cart %s: %w", userID, redis.TxFailedErr)
}

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}

var _ domain.Repository = (*RedisRepository)(nil)
