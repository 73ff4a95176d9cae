package repository

import (
	"context"
	"testing"
	"time"

	"gravity_back_end/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() models.Order {
	return models.Order{
		ID:           uuid.NewString(),
		TrackingCode: "TRK-12345678",
		Customer: models.CheckoutData{
			FirstName:      "María José",
			LastName:       "Huamán Rojas",
			Email:          "mj@example.pe",
			Phone:          "912345678",
			DNI:            "12345678",
			DeliveryMethod: models.DeliveryMethodDelivery,
			Address:        "Jr. Cusco 450",
			District:       "barranco",
			Reference:      "Casa verde",
		},
		Items: []models.CartItem{
			{ID: "polo", Name: "Polo", Price: decimal.RequireFromString("59.90"), Quantity: 2},
		},
		Totals: models.Totals{
			Subtotal:     decimal.RequireFromString("119.80"),
			DeliveryCost: decimal.NewFromInt(12),
			Total:        decimal.RequireFromString("131.80"),
		},
		PaymentStatus: models.PaymentStatusApproved,
		PaymentMethod: models.PaymentMethodCreditCard,
		Status:        models.OrderStatusPending,
		CreatedAt:     time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC),
	}
}

func TestMemoryOrders(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrders(map[string]any{"id": "p-1"})
	order := sampleOrder()

	require.NoError(t, repo.CreateOrder(ctx, order))

	got, err := repo.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.TrackingCode, got.TrackingCode)
	require.Len(t, got.Items, 1)

	id, err := repo.OrderIDByTracking(ctx, "TRK-12345678")
	require.NoError(t, err)
	assert.Equal(t, order.ID, id)

	require.NoError(t, repo.MarkEmailSent(ctx, order.ID))
	got, _ = repo.GetOrder(ctx, order.ID)
	assert.True(t, got.EmailSent)

	// une resoumission ne réécrit pas la commande
	resubmitted := order
	resubmitted.TrackingCode = "TRK-99999999"
	require.NoError(t, repo.CreateOrder(ctx, resubmitted))
	got, _ = repo.GetOrder(ctx, order.ID)
	assert.Equal(t, "TRK-12345678", got.TrackingCode)
	assert.True(t, got.EmailSent)

	_, err = repo.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorIs(t, repo.MarkEmailSent(ctx, "missing"), ErrOrderNotFound)

	data, err := repo.SampleProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": "p-1"}}, data)
}

func TestSplitName(t *testing.T) {
	first, last := splitName("María José Huamán")
	assert.Equal(t, "María", first)
	assert.Equal(t, "José Huamán", last)

	first, last = splitName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Empty(t, last)
}

func TestDeliveryDate(t *testing.T) {
	created := time.Date(2026, time.December, 28, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, time.January, 4, 9, 0, 0, 0, time.UTC), DeliveryDate(created))
}

func TestShippingAddress(t *testing.T) {
	assert.Equal(t, "Recojo en oficina", shippingAddress(models.CheckoutData{DeliveryMethod: models.DeliveryMethodOficina, Address: "x"}))
	assert.Equal(t, "Av. Pardo 10, Dpto 302", shippingAddress(models.CheckoutData{
		DeliveryMethod: models.DeliveryMethodDelivery, Address: "Av. Pardo 10", Apartment: "Dpto 302",
	}))
}
