package checkout

import (
	"time"

	"gravity_back_end/internal/coupon"
	"gravity_back_end/internal/models"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func newTestManager(store Store) *Manager {
	m := NewManager(store, coupon.NewValidator(coupon.DefaultCatalog(), testClock), time.Hour)
	m.now = testClock
	return m
}

func validData() models.CheckoutData {
	return models.CheckoutData{
		FirstName:      "Lucía",
		LastName:       "Quispe",
		DNI:            "45678912",
		Phone:          "987654321",
		Email:          "lucia@example.pe",
		DeliveryMethod: models.DeliveryMethodDelivery,
		Address:        "Av. Larco 123",
		District:       "miraflores",
		Reference:      "Frente al parque",
		PaymentMethod:  models.PaymentMethodTarjeta,
	}
}

func polo(qty int) models.CartItem {
	return models.CartItem{ID: "polo", Name: "Polo Gravity", Price: decimal.NewFromInt(100), Quantity: qty}
}

// paidFor simule un paiement approuvé du total courant de la session
func paidFor(s *Session, paymentID string) models.PaymentStatus {
	return models.PaymentStatus{
		ID:         paymentID,
		Status:     models.PaymentStatusApproved,
		Amount:     s.Totals().Total,
		SessionRef: s.ID(),
	}
}
