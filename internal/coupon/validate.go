package coupon

import (
	"fmt"
	"time"

	"gravity_back_end/internal/models"
	"gravity_back_end/internal/pricing"
)

type Reason string

const (
	ReasonNotFound        Reason = "not_found"
	ReasonInactive        Reason = "inactive"
	ReasonNotYetValid     Reason = "not_yet_valid"
	ReasonExpired         Reason = "expired"
	ReasonUsageLimit      Reason = "usage_limit"
	ReasonMinimumAmount   Reason = "minimum_amount"
	ReasonNoEligibleItems Reason = "no_eligible_items"
	ReasonCustomerLimit   Reason = "customer_limit"
)

// Rejection est renvoyée quand une règle de validation échoue
type Rejection struct {
	Reason  Reason
	Message string
}

func (r *Rejection) Error() string { return r.Message }

func reject(reason Reason, msg string) *Rejection {
	return &Rejection{Reason: reason, Message: msg}
}

// Counts regroupe les utilisations enregistrées hors catalogue
type Counts struct {
	Global   int // utilisations comptées depuis le démarrage du catalogue
	Customer int // utilisations par ce client
}

type Validator struct {
	catalog Catalog
	now     func() time.Time
}

func NewValidator(catalog Catalog, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{catalog: catalog, now: now}
}

// Validate applique les règles dans l'ordre ; la première qui échoue l'emporte
func (v *Validator) Validate(code string, items []models.CartItem, counts Counts) (models.Coupon, error) {
	cp, ok := v.catalog.Lookup(code)
	if !ok {
		return models.Coupon{}, reject(ReasonNotFound, "Cupón no válido")
	}

	if !cp.IsActive {
		return models.Coupon{}, reject(ReasonInactive, "Este cupón no está activo")
	}

	now := v.now()
	if !cp.StartsAt.IsZero() && now.Before(cp.StartsAt) {
		return models.Coupon{}, reject(ReasonNotYetValid, "Este cupón aún no es válido")
	}
	if !cp.ExpiresAt.IsZero() && now.After(cp.ExpiresAt) {
		return models.Coupon{}, reject(ReasonExpired, "Este cupón ha expirado")
	}

	if cp.UsageLimit > 0 && cp.UsedCount+counts.Global >= cp.UsageLimit {
		return models.Coupon{}, reject(ReasonUsageLimit, "Este cupón alcanzó su límite de usos")
	}

	if pricing.Subtotal(items).LessThan(cp.MinimumOrderAmount) {
		return models.Coupon{}, reject(ReasonMinimumAmount,
			fmt.Sprintf("El monto mínimo para usar este cupón es %s", models.FormatSoles(cp.MinimumOrderAmount)))
	}

	if !hasEligibleItem(items) {
		return models.Coupon{}, reject(ReasonNoEligibleItems, "Este cupón no aplica a productos con descuento")
	}

	if cp.UsageLimitPerCustomer > 0 && counts.Customer >= cp.UsageLimitPerCustomer {
		return models.Coupon{}, reject(ReasonCustomerLimit, "Ya usaste este cupón el máximo de veces permitido")
	}

	cp.UsedCount += counts.Global
	return cp, nil
}

func hasEligibleItem(items []models.CartItem) bool {
	for _, item := range items {
		if !item.Discounted && item.Quantity > 0 {
			return true
		}
	}
	return false
}

// StillApplies revérifie un coupon déjà appliqué après une modification du panier
func StillApplies(cp models.Coupon, items []models.CartItem) error {
	if pricing.Subtotal(items).LessThan(cp.MinimumOrderAmount) {
		return reject(ReasonMinimumAmount,
			fmt.Sprintf("El monto mínimo para usar este cupón es %s", models.FormatSoles(cp.MinimumOrderAmount)))
	}
	if !hasEligibleItem(items) {
		return reject(ReasonNoEligibleItems, "Este cupón no aplica a productos con descuento")
	}
	return nil
}
