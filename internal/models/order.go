package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending = "pending"

	PaymentStatusApproved = "approved"

	PaymentMethodCreditCard = "tarjeta_credito"
)

// City est fixe : la boutique ne livre que Lima
const City = "Lima"

type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	DeliveryCost decimal.Decimal `json:"deliveryCost"`
	Total        decimal.Decimal `json:"total"`
	FreeShipping bool            `json:"freeShipping,omitempty"`
}

// Order est l'instantané figé d'un checkout payé
type Order struct {
	ID            string       `json:"id" binding:"required,uuid"`
	TrackingCode  string       `json:"trackingCode" binding:"required"`
	Customer      CheckoutData `json:"customer"`
	Items         []CartItem   `json:"items" binding:"required,min=1,dive"`
	Totals        Totals       `json:"totals"`
	PaymentStatus string       `json:"paymentStatus"`
	PaymentMethod string       `json:"paymentMethod"`
	PaymentID     string       `json:"paymentId,omitempty"`
	CouponCode    string       `json:"couponCode,omitempty"`
	Status        string       `json:"status,omitempty"`
	EmailSent     bool         `json:"emailSent,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// OrderView est la vue formatée renvoyée par GET /api/orders/:id
type OrderView struct {
	ID           string          `json:"id"`
	TrackingCode string          `json:"trackingCode"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	Items        []OrderViewItem `json:"items"`
	Customer     OrderViewBuyer  `json:"customer"`
	DeliveryDate string          `json:"deliveryDate"`
}

type OrderViewItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image"`
}

type OrderViewBuyer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	District  string `json:"district"`
	City      string `json:"city"`
}
