package checkout

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"gravity_back_end/internal/models"
	"gravity_back_end/internal/pricing"
)

var (
	dniPattern   = regexp.MustCompile(`^\d{8}$`)
	phonePattern = regexp.MustCompile(`^\d{9}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FieldErrors associe un champ du formulaire à son message d'erreur
type FieldErrors map[string]string

func validName(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= 2
}

// PersonalErrors valide l'étape des données personnelles
func PersonalErrors(d models.CheckoutData) FieldErrors {
	errs := FieldErrors{}
	if !validName(d.FirstName) {
		errs["firstName"] = "El nombre debe tener al menos 2 caracteres"
	}
	if !validName(d.LastName) {
		errs["lastName"] = "El apellido debe tener al menos 2 caracteres"
	}
	if !dniPattern.MatchString(d.DNI) {
		errs["dni"] = "El DNI debe tener 8 dígitos"
	}
	if !phonePattern.MatchString(d.Phone) {
		errs["phone"] = "El teléfono debe tener 9 dígitos"
	}
	if !emailPattern.MatchString(d.Email) {
		errs["email"] = "Ingresa un correo electrónico válido"
	}
	return errs
}

// DeliveryErrors valide l'étape de livraison
func DeliveryErrors(d models.CheckoutData) FieldErrors {
	errs := FieldErrors{}
	switch d.DeliveryMethod {
	case models.DeliveryMethodOficina:
	case models.DeliveryMethodDelivery:
		if strings.TrimSpace(d.Address) == "" {
			errs["address"] = "La dirección es obligatoria"
		}
		switch district := strings.TrimSpace(d.District); {
		case district == "":
			errs["district"] = "Selecciona un distrito"
		case !pricing.IsKnownDistrict(district):
			errs["district"] = "Selecciona un distrito válido"
		}
		if strings.TrimSpace(d.Reference) == "" {
			errs["reference"] = "La referencia es obligatoria"
		}
	default:
		errs["deliveryMethod"] = "Selecciona un método de entrega"
	}
	return errs
}

// PaymentMethodErrors valide le choix du moyen de paiement
func PaymentMethodErrors(d models.CheckoutData) FieldErrors {
	errs := FieldErrors{}
	if d.PaymentMethod != models.PaymentMethodTarjeta && d.PaymentMethod != models.PaymentMethodYape {
		errs["paymentMethod"] = "Selecciona un método de pago"
	}
	return errs
}

func IsPersonalValid(d models.CheckoutData) bool      { return len(PersonalErrors(d)) == 0 }
func IsDeliveryValid(d models.CheckoutData) bool      { return len(DeliveryErrors(d)) == 0 }
func IsPaymentMethodValid(d models.CheckoutData) bool { return len(PaymentMethodErrors(d)) == 0 }

// StepErrors retourne les erreurs bloquantes de l'étape ; summary et payment n'en ont pas
func StepErrors(step Step, d models.CheckoutData) FieldErrors {
	switch step {
	case StepPersonal:
		return PersonalErrors(d)
	case StepDelivery:
		return DeliveryErrors(d)
	case StepPaymentMethod:
		return PaymentMethodErrors(d)
	}
	return FieldErrors{}
}

// CanEnter indique si toutes les étapes précédant target sont valides
func CanEnter(target Step, d models.CheckoutData) bool {
	idx := target.index()
	if idx < 0 {
		return false
	}
	for _, step := range Steps[:idx] {
		if len(StepErrors(step, d)) > 0 {
			return false
		}
	}
	return true
}
