package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gravity_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// Stripe confirme un PaymentIntent à partir du payment method tokenisé côté client
type Stripe struct {
	currency string
}

func NewStripe(secretKey string) *Stripe {
	stripe.Key = secretKey
	return &Stripe{currency: "pen"}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) CreatePayment(ctx context.Context, req models.PaymentRequest, idempotencyKey string) (*Result, error) {
	if stripe.Key == "" {
		return nil, ErrGatewayDisabled
	}

	// montant en céntimos
	amount := req.TransactionAmount.Shift(2).Round(0).IntPart()

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amount),
		Currency:      stripe.String(s.currency),
		PaymentMethod: stripe.String(req.Token),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
		Metadata: map[string]string{},
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.Payer != nil && req.Payer.Email != "" {
		params.ReceiptEmail = stripe.String(req.Payer.Email)
	}
	for k, v := range req.Metadata {
		params.Metadata[k] = v
	}
	if req.ExternalReference != "" {
		params.Metadata["external_reference"] = req.ExternalReference
	}
	params.Context = ctx
	params.SetIdempotencyKey(idempotencyKey)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, stripeAPIError(err)
	}

	status, detail := mapIntentStatus(intent.Status)
	log.Printf("💳 PaymentIntent %s : %s", intent.ID, intent.Status)

	return &Result{
		ID:           intent.ID,
		Status:       status,
		StatusDetail: detail,
		Amount:       intentAmount(intent),
		Raw:          intentJSON(intent),
	}, nil
}

func (s *Stripe) GetPayment(ctx context.Context, id string) (*models.PaymentStatus, error) {
	if stripe.Key == "" {
		return nil, ErrGatewayDisabled
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	intent, err := paymentintent.Get(id, params)
	if err != nil {
		return nil, stripeAPIError(err)
	}

	status, detail := mapIntentStatus(intent.Status)
	return &models.PaymentStatus{
		ID:           intent.ID,
		Status:       status,
		StatusDetail: detail,
		Amount:       intentAmount(intent),
		SessionRef:   intent.Metadata["checkout_session"],
	}, nil
}

// intentAmount repasse des céntimos aux soles
func intentAmount(intent *stripe.PaymentIntent) decimal.Decimal {
	return decimal.New(intent.Amount, -2)
}

// mapIntentStatus traduit le cycle de vie Stripe vers les statuts Mercado Pago
func mapIntentStatus(st stripe.PaymentIntentStatus) (string, string) {
	switch st {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusApproved, "accredited"
	case stripe.PaymentIntentStatusProcessing:
		return StatusInProcess, "pending_review_manual"
	case stripe.PaymentIntentStatusRequiresAction:
		return StatusPending, "pending_challenge"
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		return StatusRejected, "cc_rejected_other_reason"
	case stripe.PaymentIntentStatusCanceled:
		return StatusCancelled, "by_collector"
	}
	return StatusPending, string(st)
}

func intentJSON(intent *stripe.PaymentIntent) json.RawMessage {
	if intent.LastResponse != nil && len(intent.LastResponse.RawJSON) > 0 {
		return intent.LastResponse.RawJSON
	}
	raw, err := json.Marshal(intent)
	if err != nil {
		return nil
	}
	return raw
}

func stripeAPIError(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return fmt.Errorf("appel Stripe: %w", err)
	}
	apiErr := &APIError{StatusCode: se.HTTPStatusCode, Message: se.Msg}
	if apiErr.StatusCode == 0 {
		apiErr.StatusCode = 502
	}
	if body, mErr := json.Marshal(se); mErr == nil {
		apiErr.Body = body
	}
	return apiErr
}
