package checkout

import (
	"context"
	"log"
	"sync"
	"time"

	"gravity_back_end/internal/coupon"
)

const persistTimeout = 5 * time.Second

// Manager tient le registre des sessions actives du processus
type Manager struct {
	store     Store
	validator *coupon.Validator
	idleTTL   time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(store Store, validator *coupon.Validator, idleTTL time.Duration) *Manager {
	return &Manager{
		store:     store,
		validator: validator,
		idleTTL:   idleTTL,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Get retourne la session sid, créée et hydratée au premier accès
func (m *Manager) Get(ctx context.Context, sid string) *Session {
	m.mu.Lock()
	if s, ok := m.sessions[sid]; ok {
		m.mu.Unlock()
		return s
	}
	m.mu.Unlock()

	s := newSession(sid, m.store, m.validator, m.now)
	data, found, err := m.store.LoadData(ctx, sid)
	if err != nil {
		log.Printf("⚠️ Hydratation checkout impossible (session %s): %v", sid, err)
	} else if found {
		s.hydrate(data)
	}
	s.Subscribe(m.persist)

	m.mu.Lock()
	defer m.mu.Unlock()
	// une requête concurrente a pu créer la session entre-temps
	if existing, ok := m.sessions[sid]; ok {
		return existing
	}
	m.sessions[sid] = s
	return s
}

// persist écrit les données à chaque mutation ; les erreurs sont seulement journalisées
func (m *Manager) persist(change Change) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var err error
	if change.Cleared {
		err = m.store.ClearData(ctx, change.SessionID)
	} else {
		err = m.store.SaveData(ctx, change.SessionID, change.Data)
	}
	if err != nil {
		log.Printf("⚠️ Sauvegarde checkout échouée (session %s): %v", change.SessionID, err)
	}
}

// Reset efface les données persistées et oublie la session
func (m *Manager) Reset(ctx context.Context, sid string) error {
	m.mu.Lock()
	delete(m.sessions, sid)
	m.mu.Unlock()
	return m.store.ClearData(ctx, sid)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// EvictIdle retire les sessions inactives depuis plus de idleTTL
func (m *Manager) EvictIdle() int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for sid, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, sid)
			evicted++
		}
	}
	return evicted
}

// Run lance le nettoyage périodique jusqu'à l'annulation du contexte
func (m *Manager) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.EvictIdle(); n > 0 {
				log.Printf("🧹 %d session(s) de checkout expirée(s)", n)
			}
		}
	}
}
