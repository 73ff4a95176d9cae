package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gravity_back_end/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
)

const (
	StatusApproved    = "approved"
	StatusPending     = "pending"
	StatusInProcess   = "in_process"
	StatusRejected    = "rejected"
	StatusCancelled   = "cancelled"
	StatusRefunded    = "refunded"
	StatusChargedBack = "charged_back"
)

var (
	ErrPollExhausted   = errors.New("statut de paiement toujours non final")
	ErrMissingFields   = errors.New("Missing required fields")
	ErrGatewayDisabled = errors.New("passerelle de paiement non configurée")

	// ErrDuplicatePayment signale une clé d'idempotence déjà utilisée
	ErrDuplicatePayment = errors.New("pago duplicado: esta solicitud ya fue procesada")
)

// Result est la réponse de la passerelle à une création de paiement
type Result struct {
	ID           string
	Status       string
	StatusDetail string
	Amount       decimal.Decimal // montant effectivement débité
	Raw          json.RawMessage // corps renvoyé tel quel au client
}

// Gateway abstrait le prestataire de paiement
type Gateway interface {
	Name() string
	CreatePayment(ctx context.Context, req models.PaymentRequest, idempotencyKey string) (*Result, error)
	GetPayment(ctx context.Context, id string) (*models.PaymentStatus, error)
}

// APIError transporte une réponse d'erreur de la passerelle
type APIError struct {
	StatusCode int
	Message    string
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("passerelle %d: %s", e.StatusCode, e.Message)
}

// IsTerminal indique si le statut ne peut plus évoluer
func IsTerminal(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusCancelled, StatusRefunded, StatusChargedBack:
		return true
	}
	return false
}

// ValidateRequest applique les tags binding puis exige un montant positif
func ValidateRequest(req models.PaymentRequest) error {
	if err := binding.Validator.ValidateStruct(req); err != nil {
		return ErrMissingFields
	}
	if !req.TransactionAmount.IsPositive() {
		return ErrMissingFields
	}
	return nil
}

// PaymentStatus construit la vue de statut d'un résultat de création
func (r *Result) PaymentStatus(sessionRef string) models.PaymentStatus {
	return models.PaymentStatus{
		ID:           r.ID,
		Status:       r.Status,
		StatusDetail: r.StatusDetail,
		Amount:       r.Amount,
		SessionRef:   sessionRef,
	}
}
