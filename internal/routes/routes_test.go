package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gravity_back_end/internal/cache"
	"gravity_back_end/internal/checkout"
	"gravity_back_end/internal/coupon"
	"gravity_back_end/internal/handlers/admin"
	checkouthandler "gravity_back_end/internal/handlers/checkout"
	"gravity_back_end/internal/handlers/order"
	"gravity_back_end/internal/handlers/payement"
	"gravity_back_end/internal/middleware"
	"gravity_back_end/internal/payment"
	"gravity_back_end/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryOrders()
	manager := checkout.NewManager(checkout.NewMemoryStore(), coupon.NewValidator(coupon.DefaultCatalog(), time.Now), time.Hour)
	gw := payment.NewMercadoPago("http://127.0.0.1:0", "", "GRAVITY", time.Second)

	r := gin.New()
	RegisterRoutes(r, Deps{
		Checkout:    checkouthandler.NewHandler(manager, nil, gw),
		Orders:      order.NewHandler(repo, nil, nil, nil, nil),
		Payments:    payement.NewHandler(gw, cache.NewMemoryIdempotency(), manager, nil, payement.Options{PollAttempts: 1}),
		Admin:       admin.NewHandler(repo),
		Sessions:    middleware.NewCookieStore("0123456789abcdef0123456789abcdef", false),
		RateCounter: cache.NewMemoryRateCounter(),
		JWTSecret:   "secret",
	})
	return r
}

func TestRoutesAreMounted(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/checkout", http.StatusOK},
		{http.MethodGet, "/api/checkout/districts", http.StatusOK},
		{http.MethodGet, "/api/orders/not-a-uuid", http.StatusBadRequest},
		{http.MethodPost, "/api/checkout/orders", http.StatusBadRequest},
		{http.MethodGet, "/api/orders/track/GRV-UNKNOWN", http.StatusNotFound},
		{http.MethodGet, "/api/debug-product", http.StatusUnauthorized},
		{http.MethodGet, "/api/yape/qr?amount=10", http.StatusServiceUnavailable},
		{http.MethodPost, "/api/webhooks/mercadopago", http.StatusOK},
	}
	for _, tc := range cases {
		body := strings.NewReader(`{"type":"test","data":{}}`)
		req := httptest.NewRequest(tc.method, tc.path, body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestProcessPaymentIsRateLimited(t *testing.T) {
	r := newTestRouter()

	var last int
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/process-payment", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.0.0.7:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		last = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
