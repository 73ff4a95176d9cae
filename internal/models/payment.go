package models

import "github.com/shopspring/decimal"

type PayerIdentification struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type Payer struct {
	Email          string               `json:"email" binding:"required,email"`
	FirstName      string               `json:"first_name,omitempty"`
	LastName       string               `json:"last_name,omitempty"`
	Identification *PayerIdentification `json:"identification,omitempty"`
}

// PaymentRequest est le corps accepté par POST /api/process-payment
type PaymentRequest struct {
	Token             string            `json:"token" binding:"required"`
	TransactionAmount decimal.Decimal   `json:"transaction_amount"`
	Installments      int               `json:"installments"`
	PaymentMethodID   string            `json:"payment_method_id" binding:"required"`
	IssuerID          string            `json:"issuer_id,omitempty"`
	Payer             *Payer            `json:"payer" binding:"required"`
	Description       string            `json:"description,omitempty"`
	ExternalReference string            `json:"external_reference,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// PaymentStatus est la vue réduite d'un paiement côté passerelle
type PaymentStatus struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	StatusDetail string `json:"status_detail"`

	// montant débité et session de checkout d'origine, jamais exposés
	Amount     decimal.Decimal `json:"-"`
	SessionRef string          `json:"-"`
}

// PaymentNotification est le corps des webhooks Mercado Pago
type PaymentNotification struct {
	ID     any    `json:"id,omitempty"`
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}
