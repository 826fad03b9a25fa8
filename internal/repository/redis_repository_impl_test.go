package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisNotificationRepository(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	opt, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	repo := CreateRedisNotificationRepository(rdb)
	ctx := context.Background()
	key := "on_payment:" + uuid.New().String()
	defer repo.Release(ctx, key)

	reserved, err := repo.Reserve(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved)

	reserved, err = repo.Reserve(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, reserved)

	require.NoError(t, repo.Extend(ctx, key, time.Hour))
	ttl, err := rdb.TTL(ctx, redisKeyPrefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Minute)

	require.NoError(t, repo.Release(ctx, key))

	reserved, err = repo.Reserve(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved)
}
