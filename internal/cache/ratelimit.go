package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateCounter compte les requêtes par fenêtre fixe (INCR + EXPIRE)
type RedisRateCounter struct {
	client *redis.Client
}

func NewRedisRateCounter(client *redis.Client) *RedisRateCounter {
	return &RedisRateCounter{client: client}
}

// Hit incrémente le compteur et retourne la valeur après incrément
func (r *RedisRateCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

type window struct {
	count   int64
	expires time.Time
}

// MemoryRateCounter est l'équivalent en mémoire, pour un seul processus
type MemoryRateCounter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryRateCounter() *MemoryRateCounter {
	return &MemoryRateCounter{windows: make(map[string]*window), now: time.Now}
}

func (m *MemoryRateCounter) Hit(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.expires) {
		w = &window{expires: now.Add(ttl)}
		m.windows[key] = w
	}
	w.count++
	return w.count, nil
}
