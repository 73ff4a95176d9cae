package order

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"gravity_back_end/internal/cache"
	"gravity_back_end/internal/models"
	"gravity_back_end/internal/pricing"
	"gravity_back_end/internal/repository"
	"gravity_back_end/internal/services"
	"gravity_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	requestTimeout   = 10 * time.Second
	afterSaveTimeout = 30 * time.Second
)

// Indexer est la partie de l'index Elasticsearch utilisée ici
type Indexer interface {
	Enabled() bool
	IndexOrder(ctx context.Context, order models.Order) error
	SearchByTracking(ctx context.Context, trackingCode string) (string, error)
}

type Mailer interface {
	Enabled() bool
	SendOrderConfirmation(ctx context.Context, order models.Order) error
}

type ImageSigner interface {
	Sign(ctx context.Context, image string) string
}

type Handler struct {
	repo   repository.OrderRepository
	views  *cache.OrderViewCache
	index  Indexer
	images ImageSigner
	mailer Mailer
	now    func() time.Time
	async  func(func())
}

func NewHandler(repo repository.OrderRepository, views *cache.OrderViewCache, index Indexer, images ImageSigner, mailer Mailer) *Handler {
	return &Handler{
		repo:   repo,
		views:  views,
		index:  index,
		images: images,
		mailer: mailer,
		now:    time.Now,
		async:  func(f func()) { go f() },
	}
}

// bindingMessage traduit la première règle binding violée en message 400
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}

	fe := verrs[0]
	switch fe.StructNamespace() {
	case "Order.ID":
		if fe.Tag() == "uuid" {
			return "Order ID must be a UUID"
		}
		return "Order ID is required"
	case "Order.TrackingCode":
		return "Tracking code is required"
	case "Order.Customer.Email":
		return "Customer email is required"
	case "Order.Items":
		return "Order must contain at least one item"
	}
	return "Invalid order item"
}

// CreateOrder enregistre une commande payée : POST /api/orders/create
func (h *Handler) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}
	// decimal échappe aux tags binding
	for _, item := range order.Items {
		if item.Price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order item"})
			return
		}
	}

	if order.PaymentStatus == "" {
		order.PaymentStatus = models.PaymentStatusApproved
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = models.PaymentMethodCreditCard
	}
	order.Status = models.OrderStatusPending
	order.EmailSent = false
	if order.CreatedAt.IsZero() {
		order.CreatedAt = h.now()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	log.Printf("📥 Création commande %s (%s)", order.ID, order.TrackingCode)
	if err := h.repo.CreateOrder(ctx, order); err != nil {
		log.Printf("❌ Erreur insertion commande %s: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.async(func() { h.afterSave(order) })

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order created successfully"})
}

// afterSave indexe la commande et envoie l'e-mail de confirmation
func (h *Handler) afterSave(order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), afterSaveTimeout)
	defer cancel()

	if h.index != nil && h.index.Enabled() {
		if err := h.index.IndexOrder(ctx, order); err != nil {
			log.Printf("⚠️ Indexation commande %s échouée: %v", order.ID, err)
		}
	}

	if h.mailer == nil || !h.mailer.Enabled() {
		return
	}
	if err := h.mailer.SendOrderConfirmation(ctx, order); err != nil {
		log.Printf("❌ Erreur envoi e-mail confirmation %s: %v", order.ID, err)
		return
	}
	log.Println("📧 E-mail de confirmation envoyé à", order.Customer.Email)

	if err := h.repo.MarkEmailSent(ctx, order.ID); err != nil {
		log.Printf("⚠️ email_sent non mis à jour pour %s: %v", order.ID, err)
	}
	h.views.Invalidate(ctx, order.ID)
}

// GetOrder renvoie la vue formatée : GET /api/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order ID is required"})
		return
	}
	if uuid.Validate(id) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if view, ok := h.views.Get(ctx, id); ok {
		c.JSON(http.StatusOK, view)
		return
	}

	order, err := h.repo.GetOrder(ctx, id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Lecture commande %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	view := h.toView(ctx, order)
	h.views.Set(ctx, view)
	c.JSON(http.StatusOK, view)
}

// TrackOrder retrouve une commande par code de suivi : GET /api/orders/track/:trackingCode
func (h *Handler) TrackOrder(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("trackingCode")))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tracking code is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	id, err := h.lookupTracking(ctx, code)
	if errors.Is(err, repository.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Recherche suivi %s: %v", code, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	order, err := h.repo.GetOrder(ctx, id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Lecture commande %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, h.toView(ctx, order))
}

// lookupTracking interroge Elasticsearch puis, à défaut, le dépôt
func (h *Handler) lookupTracking(ctx context.Context, code string) (string, error) {
	if h.index != nil && h.index.Enabled() {
		id, err := h.index.SearchByTracking(ctx, code)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, services.ErrNotIndexed) {
			log.Printf("⚠️ Recherche Elastic %s échouée, repli sur la base: %v", code, err)
		}
	}
	return h.repo.OrderIDByTracking(ctx, code)
}

func (h *Handler) toView(ctx context.Context, order models.Order) models.OrderView {
	items := make([]models.OrderViewItem, 0, len(order.Items))
	for _, item := range order.Items {
		image := item.Image
		if h.images != nil {
			image = h.images.Sign(ctx, image)
		}
		items = append(items, models.OrderViewItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Image:    image,
		})
	}

	c := order.Customer
	return models.OrderView{
		ID:           order.ID,
		TrackingCode: order.TrackingCode,
		Total:        order.Totals.Total,
		Status:       order.Status,
		Items:        items,
		Customer: models.OrderViewBuyer{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			Address:   c.Address,
			District:  pricing.DistrictName(c.District),
			City:      models.City,
		},
		DeliveryDate: utils.FormatLongDateES(repository.DeliveryDate(order.CreatedAt)),
	}
}
