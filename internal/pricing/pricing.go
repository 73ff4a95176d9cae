package pricing

import (
	"gravity_back_end/internal/models"

	"github.com/shopspring/decimal"
)

// FreeShippingThreshold : livraison offerte à partir de S/ 150 après remise
var FreeShippingThreshold = decimal.NewFromInt(150)

var hundred = decimal.NewFromInt(100)

// Subtotal additionne prix × quantité de chaque ligne
func Subtotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// EligibleSubtotal ne compte que les lignes sans remise préexistante
func EligibleSubtotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Discounted {
			continue
		}
		total = total.Add(item.LineTotal())
	}
	return total
}

// Discount calcule la remise du coupon sur la partie éligible du panier
func Discount(items []models.CartItem, coupon *models.Coupon) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}

	eligible := EligibleSubtotal(items)
	var discount decimal.Decimal

	switch coupon.DiscountType {
	case models.CouponTypeFixed:
		discount = decimal.Min(coupon.Value, eligible)
	case models.CouponTypePercentage:
		discount = eligible.Mul(coupon.Value).Div(hundred)
	default:
		return decimal.Zero
	}

	if coupon.MaximumDiscountAmount.IsPositive() && discount.GreaterThan(coupon.MaximumDiscountAmount) {
		discount = coupon.MaximumDiscountAmount
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}

// DeliveryCost retourne le coût de livraison pour un montant déjà remisé
func DeliveryCost(data models.CheckoutData, afterDiscount decimal.Decimal) decimal.Decimal {
	if data.DeliveryMethod != models.DeliveryMethodDelivery {
		return decimal.Zero
	}
	if afterDiscount.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	rate, ok := DistrictRate(data.District)
	if !ok {
		return decimal.Zero
	}
	return rate
}

// Compute enchaîne sous-total, remise, livraison et total
func Compute(items []models.CartItem, coupon *models.Coupon, data models.CheckoutData) models.Totals {
	subtotal := Subtotal(items)
	discount := Discount(items, coupon)

	afterDiscount := subtotal.Sub(discount)
	if afterDiscount.IsNegative() {
		afterDiscount = decimal.Zero
	}

	delivery := DeliveryCost(data, afterDiscount)

	return models.Totals{
		Subtotal:     subtotal,
		Discount:     discount,
		DeliveryCost: delivery,
		Total:        afterDiscount.Add(delivery),
		FreeShipping: data.DeliveryMethod == models.DeliveryMethodDelivery &&
			afterDiscount.GreaterThanOrEqual(FreeShippingThreshold),
	}
}
