package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"gravity_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	OrderViewCacheTTL = 5 * time.Minute
	orderViewPrefix   = "order_view:"
)

// OrderViewCache garde la vue formatée des commandes consultées
type OrderViewCache struct {
	client *redis.Client
}

func NewOrderViewCache(client *redis.Client) *OrderViewCache {
	return &OrderViewCache{client: client}
}

// Get retourne false en cas d'absence ou d'erreur Redis
func (c *OrderViewCache) Get(ctx context.Context, orderID string) (models.OrderView, bool) {
	var view models.OrderView
	if c == nil || c.client == nil {
		return view, false
	}

	data, err := c.client.Get(ctx, orderViewPrefix+orderID).Bytes()
	if err != nil {
		return view, false
	}
	if json.Unmarshal(data, &view) != nil {
		return models.OrderView{}, false
	}
	return view, true
}

func (c *OrderViewCache) Set(ctx context.Context, view models.OrderView) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, orderViewPrefix+view.ID, data, OrderViewCacheTTL).Err(); err != nil {
		log.Printf("⚠️ Mise en cache commande %s impossible: %v", view.ID, err)
	}
}

func (c *OrderViewCache) Invalidate(ctx context.Context, orderID string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, orderViewPrefix+orderID)
}
