package coupon

import (
	"time"

	"gravity_back_end/internal/models"

	"github.com/shopspring/decimal"
)

// Catalog résout un code coupon (sensible à la casse)
type Catalog interface {
	Lookup(code string) (models.Coupon, bool)
}

// StaticCatalog est un catalogue en mémoire, figé au démarrage
type StaticCatalog struct {
	coupons map[string]models.Coupon
}

func NewStaticCatalog(coupons ...models.Coupon) *StaticCatalog {
	c := &StaticCatalog{coupons: make(map[string]models.Coupon, len(coupons))}
	for _, cp := range coupons {
		c.coupons[cp.Code] = cp
	}
	return c
}

func (c *StaticCatalog) Lookup(code string) (models.Coupon, bool) {
	cp, ok := c.coupons[code]
	return cp, ok
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DefaultCatalog contient les coupons de la boutique
func DefaultCatalog() *StaticCatalog {
	return NewStaticCatalog(
		models.Coupon{
			ID:                    "cpn-welcome20",
			Code:                  "WELCOME20",
			DiscountType:          models.CouponTypePercentage,
			Value:                 decimal.NewFromInt(20),
			MinimumOrderAmount:    decimal.NewFromInt(100),
			MaximumDiscountAmount: decimal.NewFromInt(50),
			UsageLimitPerCustomer: 1,
			IsActive:              true,
			StartsAt:              date(2025, time.January, 1),
			ExpiresAt:             date(2027, time.December, 31),
		},
		models.Coupon{
			ID:                 "cpn-flash50",
			Code:               "FLASH50",
			DiscountType:       models.CouponTypeFixed,
			Value:              decimal.NewFromInt(50),
			MinimumOrderAmount: decimal.NewFromInt(200),
			UsageLimit:         500,
			UsedCount:          120,
			IsActive:           true,
			StartsAt:           date(2025, time.January, 1),
			ExpiresAt:          date(2027, time.December, 31),
		},
		models.Coupon{
			ID:           "cpn-verano15",
			Code:         "VERANO15",
			DiscountType: models.CouponTypePercentage,
			Value:        decimal.NewFromInt(15),
			IsActive:     true,
			StartsAt:     date(2025, time.December, 1),
			ExpiresAt:    date(2027, time.March, 31),
		},
		models.Coupon{
			ID:           "cpn-navidad10",
			Code:         "NAVIDAD10",
			DiscountType: models.CouponTypeFixed,
			Value:        decimal.NewFromInt(10),
			IsActive:     false,
			StartsAt:     date(2025, time.December, 1),
			ExpiresAt:    date(2025, time.December, 31),
		},
		models.Coupon{
			ID:           "cpn-cyber2024",
			Code:         "CYBER2024",
			DiscountType: models.CouponTypePercentage,
			Value:        decimal.NewFromInt(30),
			IsActive:     true,
			StartsAt:     date(2024, time.November, 1),
			ExpiresAt:    date(2024, time.November, 30),
		},
	)
}
