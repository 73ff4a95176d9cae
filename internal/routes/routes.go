package routes

import (
	"net/http"

	"gravity_back_end/internal/handlers/admin"
	checkouthandler "gravity_back_end/internal/handlers/checkout"
	"gravity_back_end/internal/handlers/order"
	"gravity_back_end/internal/handlers/payement"
	"gravity_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// Deps regroupe les handlers et middlewares montés sur le routeur
type Deps struct {
	Checkout *checkouthandler.Handler
	Orders   *order.Handler
	Payments *payement.Handler
	Admin    *admin.Handler

	Sessions    sessions.Store
	RateCounter middleware.RateCounter
	JWTSecret   string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	session := middleware.CheckoutSession(d.Sessions)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Commandes
	api.POST("/orders/create", d.Orders.CreateOrder)
	api.GET("/orders/track/:trackingCode", d.Orders.TrackOrder)
	api.GET("/orders/:id", d.Orders.GetOrder)

	// Paiements
	api.POST("/process-payment", middleware.PaymentRateLimit(d.RateCounter), session, d.Payments.ProcessPayment)
	api.GET("/payment-status/:id", d.Payments.PaymentStatus)
	api.GET("/payment-status/:id/wait", session, d.Payments.WaitPaymentStatus)
	api.POST("/webhooks/mercadopago", d.Payments.MercadoPagoWebhook)
	api.POST("/webhooks/stripe", d.Payments.StripeWebhook)
	api.GET("/yape/qr", d.Payments.YapeQR)

	// Diagnostic
	api.GET("/debug-product", middleware.AuthRequired(d.JWTSecret), middleware.RequireAdmin, d.Admin.DebugProduct)

	// Checkout
	co := api.Group("/checkout", session)
	co.GET("", d.Checkout.GetCheckout)
	co.PATCH("/data", d.Checkout.PatchData)
	co.DELETE("/data", d.Checkout.ClearData)
	co.POST("/next", d.Checkout.Next)
	co.POST("/prev", d.Checkout.Prev)
	co.POST("/steps/:step", d.Checkout.GoTo)
	co.POST("/cart", d.Checkout.AddItem)
	co.PUT("/cart/:itemId", d.Checkout.UpdateItem)
	co.DELETE("/cart/:itemId", d.Checkout.RemoveItem)
	co.POST("/coupon", middleware.CouponRateLimit(d.RateCounter), d.Checkout.ApplyCoupon)
	co.DELETE("/coupon", d.Checkout.RemoveCoupon)
	co.POST("/orders", d.Checkout.CreateOrder)
	co.GET("/orders", d.Checkout.ListOrders)
	co.POST("/reset", d.Checkout.Reset)
	co.GET("/districts", d.Checkout.Districts)
}
