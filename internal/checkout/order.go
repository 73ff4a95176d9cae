package checkout

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"gravity_back_end/internal/models"
	"gravity_back_end/internal/pricing"

	"github.com/google/uuid"
)

var (
	ErrMissingPaymentID = errors.New("identificador de pago requerido")
	ErrEmptyCart        = errors.New("el carrito está vacío")

	ErrPaymentNotApproved = errors.New("el pago no está aprobado")
	ErrForeignPayment     = errors.New("el pago no corresponde a este checkout")
	ErrAmountMismatch     = errors.New("el monto pagado no coincide con el total del pedido")
)

// TrackingCode dérive "TRK-" + les 8 derniers chiffres du timestamp en millisecondes
func TrackingCode(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "TRK-" + ms
}

func paymentMethodLabel(method string) string {
	switch method {
	case models.PaymentMethodYape:
		return models.PaymentMethodYape
	default:
		return models.PaymentMethodCreditCard
	}
}

// CreateOrder fige le checkout en commande après un paiement approuvé.
// Le paiement doit venir de cette session et couvrir exactement le total ;
// un même paiement ne produit jamais deux commandes.
func (s *Session) CreateOrder(ctx context.Context, paid models.PaymentStatus) (models.Order, bool, error) {
	paymentID := paid.ID
	if paymentID == "" {
		return models.Order{}, false, ErrMissingPaymentID
	}
	if paid.Status != models.PaymentStatusApproved {
		return models.Order{}, false, ErrPaymentNotApproved
	}
	if paid.SessionRef != s.id {
		return models.Order{}, false, ErrForeignPayment
	}

	s.mu.Lock()
	s.touchLocked()
	if existing, ok := s.orders[paymentID]; ok {
		s.mu.Unlock()
		return existing, false, nil
	}
	if len(s.cart) == 0 {
		s.mu.Unlock()
		return models.Order{}, false, ErrEmptyCart
	}
	totals := pricing.Compute(s.cart, s.coupon, s.data)
	if !paid.Amount.Round(2).Equal(totals.Total.Round(2)) {
		s.mu.Unlock()
		log.Printf("🚫 Paiement %s de %s pour un total de %s (session %s)", paymentID, paid.Amount, totals.Total, s.id)
		return models.Order{}, false, ErrAmountMismatch
	}

	now := s.now()
	order := models.Order{
		ID:            uuid.NewString(),
		TrackingCode:  TrackingCode(now),
		Customer:      s.data,
		Items:         append([]models.CartItem(nil), s.cart...),
		Totals:        totals,
		PaymentStatus: paid.Status,
		PaymentMethod: paymentMethodLabel(s.data.PaymentMethod),
		PaymentID:     paymentID,
		Status:        models.OrderStatusPending,
		CreatedAt:     now,
	}
	if s.coupon != nil {
		order.CouponCode = s.coupon.Code
	}
	s.orders[paymentID] = order
	s.mu.Unlock()

	if err := s.store.AppendValidOrder(ctx, s.id, order.ID); err != nil {
		log.Printf("⚠️ Impossible d'enregistrer la commande %s dans valid_orders: %v", order.ID, err)
	}
	if order.CouponCode != "" {
		if err := s.store.RecordCouponUse(ctx, s.id, order.CouponCode); err != nil {
			log.Printf("⚠️ Impossible de compter l'utilisation du coupon %s: %v", order.CouponCode, err)
		}
	}

	log.Printf("🧾 Commande %s créée (%s) pour le paiement %s", order.ID, order.TrackingCode, paymentID)
	return order, true, nil
}

// ValidOrders retourne les identifiants de commandes de cette session
func (s *Session) ValidOrders(ctx context.Context) ([]string, error) {
	return s.store.ValidOrders(ctx, s.id)
}
