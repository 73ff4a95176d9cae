package models

const (
	DeliveryMethodDelivery = "delivery"
	DeliveryMethodOficina  = "oficina"

	PaymentMethodTarjeta = "tarjeta"
	PaymentMethodYape    = "yape"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CheckoutData regroupe les champs saisis pendant le checkout
type CheckoutData struct {
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	DNI            string       `json:"dni"`
	Phone          string       `json:"phone"`
	Email          string       `json:"email" binding:"required"`
	DeliveryMethod string       `json:"deliveryMethod"` // "delivery" ou "oficina"
	Address        string       `json:"address"`
	District       string       `json:"district"`
	Apartment      string       `json:"apartment"`
	Reference      string       `json:"reference"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
	PaymentMethod  string       `json:"paymentMethod"` // "tarjeta" ou "yape"
}

// FullName concatène prénom et nom
func (d CheckoutData) FullName() string {
	switch {
	case d.FirstName == "":
		return d.LastName
	case d.LastName == "":
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

// CheckoutDataPatch est une mise à jour partielle : seuls les champs non nil sont appliqués
type CheckoutDataPatch struct {
	FirstName      *string      `json:"firstName"`
	LastName       *string      `json:"lastName"`
	DNI            *string      `json:"dni"`
	Phone          *string      `json:"phone"`
	Email          *string      `json:"email"`
	DeliveryMethod *string      `json:"deliveryMethod"`
	Address        *string      `json:"address"`
	District       *string      `json:"district"`
	Apartment      *string      `json:"apartment"`
	Reference      *string      `json:"reference"`
	Coordinates    *Coordinates `json:"coordinates"`
	PaymentMethod  *string      `json:"paymentMethod"`
}

// Apply copie les champs présents du patch dans d
func (p CheckoutDataPatch) Apply(d *CheckoutData) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&d.FirstName, p.FirstName)
	set(&d.LastName, p.LastName)
	set(&d.DNI, p.DNI)
	set(&d.Phone, p.Phone)
	set(&d.Email, p.Email)
	set(&d.DeliveryMethod, p.DeliveryMethod)
	set(&d.Address, p.Address)
	set(&d.District, p.District)
	set(&d.Apartment, p.Apartment)
	set(&d.Reference, p.Reference)
	set(&d.PaymentMethod, p.PaymentMethod)
	if p.Coordinates != nil {
		c := *p.Coordinates
		d.Coordinates = &c
	}
}
