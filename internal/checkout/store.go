package checkout

import (
	"context"
	"sync"

	"gravity_back_end/internal/models"
)

// Store persiste l'état durable d'une session de checkout
type Store interface {
	LoadData(ctx context.Context, sid string) (models.CheckoutData, bool, error)
	SaveData(ctx context.Context, sid string, data models.CheckoutData) error
	ClearData(ctx context.Context, sid string) error

	AppendValidOrder(ctx context.Context, sid, orderID string) error
	ValidOrders(ctx context.Context, sid string) ([]string, error)

	// CouponUses retourne les utilisations globales et celles de ce client
	CouponUses(ctx context.Context, sid, code string) (global, customer int, err error)
	RecordCouponUse(ctx context.Context, sid, code string) error
}

// MemoryStore garde tout en mémoire (dev et tests)
type MemoryStore struct {
	mu             sync.Mutex
	data           map[string]models.CheckoutData
	orders         map[string][]string
	couponGlobal   map[string]int
	couponCustomer map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:           make(map[string]models.CheckoutData),
		orders:         make(map[string][]string),
		couponGlobal:   make(map[string]int),
		couponCustomer: make(map[string]int),
	}
}

func (m *MemoryStore) LoadData(_ context.Context, sid string) (models.CheckoutData, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[sid]
	return d, ok, nil
}

func (m *MemoryStore) SaveData(_ context.Context, sid string, data models.CheckoutData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sid] = data
	return nil
}

func (m *MemoryStore) ClearData(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sid)
	return nil
}

func (m *MemoryStore) AppendValidOrder(_ context.Context, sid, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[sid] = append(m.orders[sid], orderID)
	return nil
}

func (m *MemoryStore) ValidOrders(_ context.Context, sid string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.orders[sid]...), nil
}

func (m *MemoryStore) CouponUses(_ context.Context, sid, code string) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.couponGlobal[code], m.couponCustomer[sid+":"+code], nil
}

func (m *MemoryStore) RecordCouponUse(_ context.Context, sid, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.couponGlobal[code]++
	m.couponCustomer[sid+":"+code]++
	return nil
}
