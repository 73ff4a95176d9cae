package checkout

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"gravity_back_end/internal/checkout"
	"gravity_back_end/internal/middleware"
	"gravity_back_end/internal/models"
	"gravity_back_end/internal/payment"
	"gravity_back_end/internal/pricing"

	"github.com/gin-gonic/gin"
)

const lookupTimeout = 15 * time.Second

// PaymentLookup relit un paiement auprès de la passerelle
type PaymentLookup interface {
	GetPayment(ctx context.Context, id string) (*models.PaymentStatus, error)
}

// Handler expose la session de checkout du navigateur courant
type Handler struct {
	manager   *checkout.Manager
	submitter checkout.Submitter
	payments  PaymentLookup
}

func NewHandler(manager *checkout.Manager, submitter checkout.Submitter, payments PaymentLookup) *Handler {
	return &Handler{manager: manager, submitter: submitter, payments: payments}
}

func (h *Handler) session(c *gin.Context) *checkout.Session {
	return h.manager.Get(c.Request.Context(), middleware.CheckoutSID(c))
}

// GetCheckout : GET /api/checkout
func (h *Handler) GetCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, h.session(c).Snapshot())
}

// PatchData fusionne les champs envoyés : PATCH /api/checkout/data
func (h *Handler) PatchData(c *gin.Context) {
	var patch models.CheckoutDataPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	s := h.session(c)
	s.UpdateData(func(d *models.CheckoutData) { patch.Apply(d) })
	c.JSON(http.StatusOK, s.Snapshot())
}

// ClearData : DELETE /api/checkout/data
func (h *Handler) ClearData(c *gin.Context) {
	s := h.session(c)
	s.ClearData()
	c.JSON(http.StatusOK, s.Snapshot())
}

// Next valide l'étape courante puis avance : POST /api/checkout/next
func (h *Handler) Next(c *gin.Context) {
	s := h.session(c)
	step, fields := s.Advance()
	if len(fields) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Por favor completa los campos requeridos",
			"step":   step,
			"fields": fields,
		})
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// Prev : POST /api/checkout/prev
func (h *Handler) Prev(c *gin.Context) {
	s := h.session(c)
	s.PrevStep()
	c.JSON(http.StatusOK, s.Snapshot())
}

// GoTo : POST /api/checkout/steps/:step. Un saut refusé laisse l'étape inchangée.
func (h *Handler) GoTo(c *gin.Context) {
	target, ok := checkout.ParseStep(c.Param("step"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paso desconocido"})
		return
	}
	s := h.session(c)
	s.GoTo(target)
	c.JSON(http.StatusOK, s.Snapshot())
}

// AddItem : POST /api/checkout/cart
func (h *Handler) AddItem(c *gin.Context) {
	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Artículo inválido"})
		return
	}

	s := h.session(c)
	if err := s.AddItem(item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// UpdateItem : PUT /api/checkout/cart/:itemId, quantité 0 = suppression
func (h *Handler) UpdateItem(c *gin.Context) {
	var body struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cantidad requerida"})
		return
	}
	h.updateQuantity(c, *body.Quantity)
}

// RemoveItem : DELETE /api/checkout/cart/:itemId
func (h *Handler) RemoveItem(c *gin.Context) {
	h.updateQuantity(c, 0)
}

func (h *Handler) updateQuantity(c *gin.Context, quantity int) {
	s := h.session(c)
	err := s.UpdateQuantity(c.Param("itemId"), quantity)
	if errors.Is(err, checkout.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// ApplyCoupon : POST /api/checkout/coupon. Un refus n'est pas une erreur HTTP.
func (h *Handler) ApplyCoupon(c *gin.Context) {
	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Código requerido"})
		return
	}

	s := h.session(c)
	applied := s.ApplyCoupon(c.Request.Context(), body.Code)
	c.JSON(http.StatusOK, gin.H{
		"applied":  applied,
		"error":    s.CouponError(),
		"checkout": s.Snapshot(),
	})
}

// RemoveCoupon : DELETE /api/checkout/coupon
func (h *Handler) RemoveCoupon(c *gin.Context) {
	s := h.session(c)
	s.RemoveCoupon()
	c.JSON(http.StatusOK, s.Snapshot())
}

// CreateOrder fige la session en commande : POST /api/checkout/orders.
// Le paiement est relu auprès de la passerelle avant toute création.
func (h *Handler) CreateOrder(c *gin.Context) {
	var body struct {
		PaymentID string `json:"paymentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}
	if h.payments == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": payment.ErrGatewayDisabled.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), lookupTimeout)
	defer cancel()

	paid, err := h.payments.GetPayment(ctx, body.PaymentID)
	if err != nil {
		log.Printf("❌ Vérification du paiement %s: %v", body.PaymentID, err)
		var apiErr *payment.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No se pudo verificar el pago"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No se pudo verificar el pago, intenta nuevamente"})
		return
	}

	order, created, err := checkout.PlaceOrder(ctx, h.session(c), h.submitter, *paid)
	switch {
	case errors.Is(err, checkout.ErrMissingPaymentID), errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, checkout.ErrPaymentNotApproved),
		errors.Is(err, checkout.ErrForeignPayment),
		errors.Is(err, checkout.ErrAmountMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Hubo un error al procesar el pedido. Por favor intenta nuevamente."})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"order": order, "created": created})
}

// ListOrders : GET /api/checkout/orders
func (h *Handler) ListOrders(c *gin.Context) {
	ids, err := h.session(c).ValidOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener los pedidos"})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": ids})
}

// Reset oublie la session et ses données persistées : POST /api/checkout/reset
func (h *Handler) Reset(c *gin.Context) {
	sid := middleware.CheckoutSID(c)
	if err := h.manager.Reset(c.Request.Context(), sid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo reiniciar el checkout"})
		return
	}
	c.JSON(http.StatusOK, h.session(c).Snapshot())
}

// Districts : GET /api/checkout/districts
func (h *Handler) Districts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"districts":             pricing.Districts(),
		"freeShippingThreshold": pricing.FreeShippingThreshold,
	})
}
