package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "checkout-service:ipn:"

type RedisNotificationRepository struct {
	rdb *redis.Client
}

func CreateRedisNotificationRepository(rdb *redis.Client) *RedisNotificationRepository {
	return &RedisNotificationRepository{rdb: rdb}
}

func (r *RedisNotificationRepository) Reserve(ctx context.Context, key string, ttl time.Duration) (reserved bool, err error) {
	reserved, err = r.rdb.SetNX(ctx, redisKeyPrefix+key, time.Now().Unix(), ttl).Result()
	if err != nil {
		log.Error().Err(err).Str("component", "Reserve").Str("key", key).Msg("")
		return false, err
	}

	return reserved, nil
}

func (r *RedisNotificationRepository) Extend(ctx context.Context, key string, ttl time.Duration) (err error) {
	err = r.rdb.Set(ctx, redisKeyPrefix+key, time.Now().Unix(), ttl).Err()
	if err != nil {
		log.Error().Err(err).Str("component", "Extend").Str("key", key).Msg("")
		return err
	}

	return nil
}

func (r *RedisNotificationRepository) Release(ctx context.Context, key string) (err error) {
	err = r.rdb.Del(ctx, redisKeyPrefix+key).Err()
	if err != nil {
		log.Error().Err(err).Str("component", "Release").Str("key", key).Msg("")
		return err
	}

	return nil
}
