package repository

import (
	"context"
	"sync"

	"gravity_back_end/internal/models"
)

// MemoryOrders garde les commandes en mémoire (dev et tests)
type MemoryOrders struct {
	mu       sync.RWMutex
	orders   map[string]models.Order
	products []map[string]any
}

func NewMemoryOrders(products ...map[string]any) *MemoryOrders {
	return &MemoryOrders{
		orders:   make(map[string]models.Order),
		products: products,
	}
}

func (m *MemoryOrders) CreateOrder(_ context.Context, order models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// même sémantique que ON CONFLICT DO NOTHING
	if _, exists := m.orders[order.ID]; exists {
		return nil
	}
	order.Items = append([]models.CartItem(nil), order.Items...)
	m.orders[order.ID] = order
	return nil
}

func (m *MemoryOrders) GetOrder(_ context.Context, id string) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	order.Items = append([]models.CartItem(nil), order.Items...)
	return order, nil
}

func (m *MemoryOrders) MarkEmailSent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	order.EmailSent = true
	m.orders[id] = order
	return nil
}

func (m *MemoryOrders) SampleProducts(context.Context) ([]map[string]any, error) {
	if len(m.products) == 0 {
		return []map[string]any{}, nil
	}
	return m.products[:1], nil
}

func (m *MemoryOrders) OrderIDByTracking(_ context.Context, trackingCode string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for id, order := range m.orders {
		if order.TrackingCode == trackingCode {
			return id, nil
		}
	}
	return "", ErrOrderNotFound
}
