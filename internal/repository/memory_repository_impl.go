package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type MemoryNotificationRepository struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func CreateMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (r *MemoryNotificationRepository) Reserve(ctx context.Context, key string, ttl time.Duration) (reserved bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if expiresAt, ok := r.entries[key]; ok && now.Before(expiresAt) {
		return false, nil
	}

	r.entries[key] = now.Add(ttl)

	return true, nil
}

func (r *MemoryNotificationRepository) Extend(ctx context.Context, key string, ttl time.Duration) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = r.now().Add(ttl)

	return nil
}

func (r *MemoryNotificationRepository) Release(ctx context.Context, key string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key)

	return nil
}

// PruneExpired drops expired claims and returns how many were removed.
func (r *MemoryNotificationRepository) PruneExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for key, expiresAt := range r.entries {
		if !now.Before(expiresAt) {
			delete(r.entries, key)
			removed++
		}
	}

	log.Info().Str("component", "PruneExpired").Int("removed", removed).Int("remaining", len(r.entries)).Msg("")

	return removed
}
