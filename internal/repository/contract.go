package repository

import (
	"context"
	"time"
)

// NotificationRepository remembers which deliveries are already being handled.
type NotificationRepository interface {
	// Reserve claims key for ttl. It reports false when the key is already claimed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (reserved bool, err error)
	// Extend keeps an existing claim for ttl from now.
	Extend(ctx context.Context, key string, ttl time.Duration) (err error)
	Release(ctx context.Context, key string) (err error)
}
