package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

type Coupon struct {
	ID                    string          `json:"id"`
	Code                  string          `json:"code"`
	DiscountType          string          `json:"discountType"` // "percentage" ou "fixed"
	Value                 decimal.Decimal `json:"value"`
	MinimumOrderAmount    decimal.Decimal `json:"minimumOrderAmount"`
	MaximumDiscountAmount decimal.Decimal `json:"maximumDiscountAmount"` // 0 = pas de plafond
	UsageLimit            int             `json:"usageLimit"`            // 0 = illimité
	UsedCount             int             `json:"usedCount"`
	UsageLimitPerCustomer int             `json:"usageLimitPerCustomer"` // 0 = illimité
	IsActive              bool            `json:"isActive"`
	StartsAt              time.Time       `json:"startsAt"`
	ExpiresAt             time.Time       `json:"expiresAt"`
}
