package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyPrefix = "idempotency:payment:"
	idempotencyKeyTTL = 24 * time.Hour
)

// RedisIdempotency réserve une clé de paiement via SETNX
type RedisIdempotency struct {
	client *redis.Client
}

func NewRedisIdempotency(client *redis.Client) *RedisIdempotency {
	return &RedisIdempotency{client: client}
}

// Acquire retourne false si la clé a déjà été vue dans les 24 dernières heures
func (r *RedisIdempotency) Acquire(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, idempotencyPrefix+key, 1, idempotencyKeyTTL).Result()
}

// Release libère la clé quand la passerelle n'a rien enregistré
func (r *RedisIdempotency) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, idempotencyPrefix+key).Err()
}

// MemoryIdempotency est l'équivalent en mémoire, pour un seul processus
type MemoryIdempotency struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryIdempotency() *MemoryIdempotency {
	return &MemoryIdempotency{
		seen: make(map[string]time.Time),
		ttl:  idempotencyKeyTTL,
		now:  time.Now,
	}
}

func (m *MemoryIdempotency) Acquire(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if expires, ok := m.seen[key]; ok && now.Before(expires) {
		return false, nil
	}
	m.seen[key] = now.Add(m.ttl)

	// purge opportuniste
	for k, expires := range m.seen {
		if !now.Before(expires) {
			delete(m.seen, k)
		}
	}
	return true, nil
}

func (m *MemoryIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, key)
	return nil
}
