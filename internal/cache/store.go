package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gravity_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	checkoutDataPrefix = "mp-gravity-checkout-data:"
	validOrdersPrefix  = "valid_orders:"
	couponUsagePrefix  = "coupon_usage:"
	couponUsedPrefix   = "coupon_used:"
	checkoutStateTTL   = 30 * 24 * time.Hour
)

// RedisStore persiste l'état durable du checkout dans Redis
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) LoadData(ctx context.Context, sid string) (models.CheckoutData, bool, error) {
	var data models.CheckoutData

	raw, err := r.client.Get(ctx, checkoutDataPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return data, false, nil
	}
	if err != nil {
		return data, false, err
	}

	if err := json.Unmarshal(raw, &data); err != nil {
		return models.CheckoutData{}, false, fmt.Errorf("données checkout corrompues: %w", err)
	}
	return data, true, nil
}

func (r *RedisStore) SaveData(ctx context.Context, sid string, data models.CheckoutData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, checkoutDataPrefix+sid, raw, checkoutStateTTL).Err()
}

func (r *RedisStore) ClearData(ctx context.Context, sid string) error {
	return r.client.Del(ctx, checkoutDataPrefix+sid).Err()
}

func (r *RedisStore) AppendValidOrder(ctx context.Context, sid, orderID string) error {
	key := validOrdersPrefix + sid
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, orderID)
	pipe.Expire(ctx, key, checkoutStateTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) ValidOrders(ctx context.Context, sid string) ([]string, error) {
	return r.client.LRange(ctx, validOrdersPrefix+sid, 0, -1).Result()
}

func (r *RedisStore) CouponUses(ctx context.Context, sid, code string) (int, int, error) {
	pipe := r.client.Pipeline()
	global := pipe.Get(ctx, couponUsedPrefix+code)
	customer := pipe.Get(ctx, couponUsagePrefix+sid+":"+code)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, err
	}

	g, err := counter(global)
	if err != nil {
		return 0, 0, err
	}
	c, err := counter(customer)
	if err != nil {
		return 0, 0, err
	}
	return g, c, nil
}

func (r *RedisStore) RecordCouponUse(ctx context.Context, sid, code string) error {
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, couponUsedPrefix+code)
	pipe.Incr(ctx, couponUsagePrefix+sid+":"+code)
	_, err := pipe.Exec(ctx)
	return err
}

func counter(cmd *redis.StringCmd) (int, error) {
	n, err := cmd.Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}
