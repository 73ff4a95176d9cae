package models

import "github.com/shopspring/decimal"

type CartItem struct {
	ID         string          `json:"id" binding:"required"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image,omitempty"`    // URL ou clé d'objet MinIO
	Quantity   int             `json:"quantity" binding:"gt=0"`
	Discounted bool            `json:"discounted,omitempty"` // déjà soldé, exclu des coupons
}

// LineTotal retourne prix × quantité
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
