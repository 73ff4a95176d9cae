package checkout

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"gravity_back_end/internal/coupon"
	"gravity_back_end/internal/models"
	"gravity_back_end/internal/pricing"
)

var (
	ErrInvalidItem  = errors.New("artículo inválido")
	ErrItemNotFound = errors.New("artículo no encontrado en el carrito")

	ErrCouponUnavailable = errors.New("No pudimos validar el cupón, intenta nuevamente")
)

// Change est publié à chaque mutation des données du formulaire
type Change struct {
	SessionID string
	Data      models.CheckoutData
	Cleared   bool
}

// Listener ne doit pas modifier la session qui le notifie
type Listener func(Change)

// Snapshot est la vue complète d'une session, totaux recalculés
type Snapshot struct {
	SessionID     string              `json:"sessionId"`
	Step          Step                `json:"step"`
	Steps         []Step              `json:"steps"`
	Completed     map[Step]bool       `json:"completed"`
	Data          models.CheckoutData `json:"data"`
	Cart          []models.CartItem   `json:"cart"`
	AppliedCoupon *models.Coupon      `json:"appliedCoupon"`
	CouponError   string              `json:"couponError,omitempty"`
	Totals        models.Totals       `json:"totals"`
}

// Session est l'état de checkout d'un navigateur
type Session struct {
	id        string
	store     Store
	validator *coupon.Validator
	now       func() time.Time

	mu        sync.Mutex
	step      Step
	data      models.CheckoutData
	cart      []models.CartItem
	coupon    *models.Coupon
	couponErr string
	orders    map[string]models.Order // par identifiant de paiement
	lastSeen  time.Time

	// notifyMu sérialise les notifications dans l'ordre des mutations
	notifyMu  sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func newSession(id string, store Store, validator *coupon.Validator, now func() time.Time) *Session {
	return &Session{
		id:        id,
		store:     store,
		validator: validator,
		now:       now,
		step:      StepPersonal,
		orders:    make(map[string]models.Order),
		listeners: make(map[int]Listener),
		lastSeen:  now(),
	}
}

func (s *Session) ID() string { return s.id }

// Subscribe enregistre un listener ; la fonction retournée le désinscrit
func (s *Session) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// publish doit être appelée avec s.mu verrouillé ; elle le libère
func (s *Session) publish(change Change) {
	listeners := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if l, ok := s.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, l := range listeners {
		l(change)
	}
}

func (s *Session) touchLocked() {
	s.lastSeen = s.now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// --- Données du formulaire ---

func (s *Session) Data() models.CheckoutData {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	return s.data
}

func (s *Session) SetData(d models.CheckoutData) {
	s.mu.Lock()
	s.touchLocked()
	s.data = d
	s.publish(Change{SessionID: s.id, Data: d})
}

// UpdateData applique fn à une copie des données puis publie le résultat
func (s *Session) UpdateData(fn func(*models.CheckoutData)) models.CheckoutData {
	s.mu.Lock()
	s.touchLocked()
	d := s.data
	fn(&d)
	s.data = d
	s.publish(Change{SessionID: s.id, Data: d})
	return d
}

func (s *Session) ClearData() {
	s.mu.Lock()
	s.touchLocked()
	s.data = models.CheckoutData{}
	s.publish(Change{SessionID: s.id, Cleared: true})
}

// hydrate charge les données persistées sans notifier
func (s *Session) hydrate(d models.CheckoutData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = d
}

// --- Navigation ---

func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// NextStep avance d'une étape sans valider ; sans effet sur "payment"
func (s *Session) NextStep() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.step = s.step.next()
	return s.step
}

// PrevStep recule d'une étape ; sans effet sur "personal"
func (s *Session) PrevStep() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.step = s.step.prev()
	return s.step
}

// GoTo ouvre directement une étape si toutes les précédentes sont valides.
// Sinon la demande est ignorée et l'étape courante reste inchangée.
func (s *Session) GoTo(target Step) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if !CanEnter(target, s.data) {
		return false
	}
	s.step = target
	return true
}

// Advance valide l'étape courante avant d'avancer
func (s *Session) Advance() (Step, FieldErrors) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if errs := StepErrors(s.step, s.data); len(errs) > 0 {
		return s.step, errs
	}
	s.step = s.step.next()
	return s.step, nil
}

// --- Panier ---

func (s *Session) Cart() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartItem(nil), s.cart...)
}

// AddItem ajoute un article ou cumule la quantité d'une ligne existante
func (s *Session) AddItem(item models.CartItem) error {
	item.ID = strings.TrimSpace(item.ID)
	if item.ID == "" || item.Quantity <= 0 || item.Price.IsNegative() {
		return ErrInvalidItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	for i := range s.cart {
		if s.cart[i].ID == item.ID {
			s.cart[i].Quantity += item.Quantity
			s.recheckCouponLocked()
			return nil
		}
	}
	s.cart = append(s.cart, item)
	s.recheckCouponLocked()
	return nil
}

// UpdateQuantity fixe la quantité d'une ligne ; 0 ou moins la retire
func (s *Session) UpdateQuantity(id string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	for i := range s.cart {
		if s.cart[i].ID != id {
			continue
		}
		if quantity <= 0 {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
		} else {
			s.cart[i].Quantity = quantity
		}
		s.recheckCouponLocked()
		return nil
	}
	return ErrItemNotFound
}

func (s *Session) RemoveItem(id string) error {
	return s.UpdateQuantity(id, 0)
}

// recheckCouponLocked retire le coupon si le panier ne le permet plus
func (s *Session) recheckCouponLocked() {
	if s.coupon == nil {
		return
	}
	if err := coupon.StillApplies(*s.coupon, s.cart); err != nil {
		log.Printf("🏷️ Coupon %s retiré (session %s): %v", s.coupon.Code, s.id, err)
		s.coupon = nil
		s.couponErr = err.Error()
	}
}

// --- Coupons ---

// ApplyCoupon valide le code contre le panier courant. En cas d'échec le
// coupon déjà appliqué est conservé et CouponError décrit la règle violée.
func (s *Session) ApplyCoupon(ctx context.Context, code string) bool {
	code = strings.TrimSpace(code)

	s.mu.Lock()
	s.couponErr = ""
	items := append([]models.CartItem(nil), s.cart...)
	s.mu.Unlock()

	var counts coupon.Counts
	if code != "" {
		global, customer, err := s.store.CouponUses(ctx, s.id, code)
		if err != nil {
			// sans compteurs les limites d'usage ne sont pas vérifiables
			log.Printf("⚠️ Lecture utilisations coupon %s impossible: %v", code, err)
			s.mu.Lock()
			defer s.mu.Unlock()
			s.touchLocked()
			s.couponErr = ErrCouponUnavailable.Error()
			return false
		}
		counts = coupon.Counts{Global: global, Customer: customer}
	}

	cp, err := s.validator.Validate(code, items, counts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if err == nil {
		// le panier a pu changer pendant la lecture des compteurs
		err = coupon.StillApplies(cp, s.cart)
	}
	if err != nil {
		s.couponErr = err.Error()
		return false
	}
	s.coupon = &cp
	s.couponErr = ""
	log.Printf("🏷️ Coupon %s appliqué (session %s)", cp.Code, s.id)
	return true
}

func (s *Session) RemoveCoupon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.coupon = nil
	s.couponErr = ""
}

func (s *Session) AppliedCoupon() *models.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.coupon == nil {
		return nil
	}
	cp := *s.coupon
	return &cp
}

func (s *Session) CouponError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.couponErr
}

// --- Totaux ---

// Totals est recalculé à chaque lecture
func (s *Session) Totals() models.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Compute(s.cart, s.coupon, s.data)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	completed := make(map[Step]bool, len(Steps))
	for _, step := range Steps {
		completed[step] = step.index() < s.step.index() && len(StepErrors(step, s.data)) == 0
	}

	var applied *models.Coupon
	if s.coupon != nil {
		cp := *s.coupon
		applied = &cp
	}

	return Snapshot{
		SessionID:     s.id,
		Step:          s.step,
		Steps:         Steps,
		Completed:     completed,
		Data:          s.data,
		Cart:          append([]models.CartItem{}, s.cart...),
		AppliedCoupon: applied,
		CouponError:   s.couponErr,
		Totals:        pricing.Compute(s.cart, s.coupon, s.data),
	}
}
