package payement

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"gravity_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
)

const maxWebhookBytes = int64(65536)

// MercadoPagoWebhook accuse réception des notifications : POST /api/webhooks/mercadopago
func (h *Handler) MercadoPagoWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes)

	var n models.PaymentNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		log.Println("❌ Webhook Mercado Pago illisible:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}

	log.Printf("📥 Webhook Mercado Pago : type=%s action=%s data.id=%s", n.Type, n.Action, n.Data.ID)

	switch n.Type {
	case "payment":
		if n.Data.ID != "" {
			go h.logPaymentStatus(n.Data.ID)
		}
	case "merchant_order":
		log.Println("🧾 Événement merchant_order :", n.Data.ID)
	default:
		log.Println("ℹ️ Type d'événement inconnu :", n.Type)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// logPaymentStatus relit le paiement notifié ; le webhook n'est pas signé
func (h *Handler) logPaymentStatus(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
	defer cancel()

	st, err := h.gateway.GetPayment(ctx, id)
	if err != nil {
		log.Printf("⚠️ Lecture du paiement notifié %s: %v", id, err)
		return
	}
	log.Printf("💳 Paiement notifié %s : %s (%s)", st.ID, st.Status, st.StatusDetail)
}

// StripeWebhook : POST /api/webhooks/stripe
func (h *Handler) StripeWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	var event stripe.Event
	if h.opts.StripeWebhookSecret == "" {
		log.Println("⚠️ Pas de STRIPE_WEBHOOK_SECRET, mode test")
		if err := json.Unmarshal(payload, &event); err != nil {
			log.Println("❌ JSON invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
			return
		}
	} else {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.opts.StripeWebhookSecret)
		if err != nil {
			log.Println("❌ Signature Stripe invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
			return
		}
	}

	log.Printf("📥 Événement Stripe reçu : %s", event.Type)

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed", "payment_intent.canceled":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			log.Println("❌ Erreur décodage PaymentIntent:", err)
			break
		}
		log.Printf("💳 PaymentIntent %s : %s (session %s)", pi.ID, pi.Status, pi.Metadata["checkout_session"])
	default:
		log.Printf("ℹ️ Événement ignoré : %s", event.Type)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
