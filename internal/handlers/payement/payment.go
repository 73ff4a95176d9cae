package payement

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"gravity_back_end/internal/checkout"
	"gravity_back_end/internal/middleware"
	"gravity_back_end/internal/models"
	"gravity_back_end/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const gatewayTimeout = 30 * time.Second

// IdempotencyGuard réserve une clé de paiement le temps de la fenêtre de rejeu
type IdempotencyGuard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type Options struct {
	PollInterval        time.Duration
	PollAttempts        int
	StripeWebhookSecret string
	YapePhone           string
	YapeHolder          string
}

type Handler struct {
	gateway   payment.Gateway
	guard     IdempotencyGuard
	manager   *checkout.Manager
	submitter checkout.Submitter
	opts      Options
}

func NewHandler(gw payment.Gateway, guard IdempotencyGuard, manager *checkout.Manager, submitter checkout.Submitter, opts Options) *Handler {
	return &Handler{
		gateway:   gw,
		guard:     guard,
		manager:   manager,
		submitter: submitter,
		opts:      opts,
	}
}

// ProcessPayment relaie le paiement à la passerelle : POST /api/process-payment
func (h *Handler) ProcessPayment(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if err := payment.ValidateRequest(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), gatewayTimeout)
	defer cancel()

	// une clé fournie par le client est verrouillée ; sinon une clé neuve
	// protège seulement les reprises internes de la passerelle
	key := strings.TrimSpace(c.GetHeader("X-Idempotency-Key"))
	if key == "" {
		key = req.ExternalReference
	}
	guarded := false
	if key != "" && h.guard != nil {
		ok, err := h.guard.Acquire(ctx, key)
		switch {
		case err != nil:
			log.Printf("⚠️ Verrou d'idempotence indisponible (%s): %v", key, err)
		case !ok:
			log.Printf("🔁 Paiement déjà soumis pour la clé %s", key)
			c.JSON(http.StatusConflict, gin.H{"error": payment.ErrDuplicatePayment.Error()})
			return
		default:
			guarded = true
		}
	}
	if key == "" {
		key = uuid.NewString()
	}

	sid := middleware.CheckoutSID(c)
	if sid != "" {
		if req.Metadata == nil {
			req.Metadata = map[string]string{}
		}
		req.Metadata["checkout_session"] = sid
	}

	res, err := h.gateway.CreatePayment(ctx, req, key)
	if err != nil {
		if guarded {
			h.release(ctx, key)
		}
		log.Printf("❌ Erreur paiement %s: %v", h.gateway.Name(), err)
		respondGatewayError(c, err)
		return
	}

	log.Printf("💳 Paiement %s %s : %s (%s)", h.gateway.Name(), res.ID, res.Status, res.StatusDetail)

	switch res.Status {
	case payment.StatusApproved:
		h.placeOrder(ctx, res.PaymentStatus(sid))
	case payment.StatusRejected, payment.StatusCancelled:
		// un refus libère la référence pour un nouvel essai avec une autre carte
		if guarded {
			h.release(ctx, key)
		}
	}

	if len(res.Raw) > 0 {
		c.Data(http.StatusOK, "application/json; charset=utf-8", res.Raw)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": res.ID, "status": res.Status, "status_detail": res.StatusDetail})
}

func (h *Handler) release(ctx context.Context, key string) {
	if err := h.guard.Release(context.WithoutCancel(ctx), key); err != nil {
		log.Printf("⚠️ Libération clé %s impossible: %v", key, err)
	}
}

// placeOrder fige le checkout en commande ; la session vérifie statut,
// provenance et montant du paiement
func (h *Handler) placeOrder(ctx context.Context, paid models.PaymentStatus) {
	if paid.SessionRef == "" || h.manager == nil {
		return
	}
	s := h.manager.Get(ctx, paid.SessionRef)
	if _, _, err := checkout.PlaceOrder(ctx, s, h.submitter, paid); err != nil {
		log.Printf("⚠️ Commande non créée pour le paiement %s: %v", paid.ID, err)
	}
}

// PaymentStatus : GET /api/payment-status/:id
func (h *Handler) PaymentStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment ID is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), gatewayTimeout)
	defer cancel()

	log.Println("🔎 Statut du paiement", id)
	st, err := h.gateway.GetPayment(ctx, id)
	if err != nil {
		log.Printf("❌ Lecture statut %s: %v", id, err)
		respondGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// WaitPaymentStatus attend un statut final : GET /api/payment-status/:id/wait.
// 202 avec le dernier statut connu quand les tentatives sont épuisées.
func (h *Handler) WaitPaymentStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment ID is required"})
		return
	}

	st, err := payment.PollStatus(c.Request.Context(), h.gateway, id, h.opts.PollInterval, h.opts.PollAttempts)
	switch {
	case err == nil:
		if st.Status == payment.StatusApproved {
			if sid := middleware.CheckoutSID(c); sid != "" && st.SessionRef == sid {
				h.placeOrder(c.Request.Context(), *st)
			}
		}
		c.JSON(http.StatusOK, st)
	case errors.Is(err, payment.ErrPollExhausted):
		c.JSON(http.StatusAccepted, st)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// client parti
		c.Status(http.StatusRequestTimeout)
	default:
		respondGatewayError(c, err)
	}
}

func respondGatewayError(c *gin.Context, err error) {
	var apiErr *payment.APIError
	switch {
	case errors.As(err, &apiErr):
		if len(apiErr.Body) > 0 && json.Valid(apiErr.Body) {
			c.Data(apiErr.StatusCode, "application/json; charset=utf-8", apiErr.Body)
			return
		}
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
	case errors.Is(err, payment.ErrGatewayDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"details": err.Error(),
		})
	}
}
