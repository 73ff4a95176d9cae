package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gravity_back_end/internal/checkout"
	"gravity_back_end/internal/coupon"
	"gravity_back_end/internal/middleware"
	"gravity_back_end/internal/models"
	"gravity_back_end/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

type recordingSubmitter struct{ orders chan models.Order }

func (r recordingSubmitter) Submit(_ context.Context, o models.Order) error {
	r.orders <- o
	return nil
}

// knownPayments répond comme la passerelle pour les paiements enregistrés
type knownPayments map[string]models.PaymentStatus

func (k knownPayments) GetPayment(_ context.Context, id string) (*models.PaymentStatus, error) {
	st, ok := k[id]
	if !ok {
		return nil, &payment.APIError{StatusCode: http.StatusNotFound, Message: "Payment not found"}
	}
	return &st, nil
}

func newRouter(sub checkout.Submitter) *gin.Engine {
	return newRouterWithPayments(sub, knownPayments{})
}

func newRouterWithPayments(sub checkout.Submitter, payments PaymentLookup) *gin.Engine {
	validator := coupon.NewValidator(coupon.DefaultCatalog(), func() time.Time { return testNow })
	h := NewHandler(checkout.NewManager(checkout.NewMemoryStore(), validator, time.Hour), sub, payments)

	r := gin.New()
	api := r.Group("/api/checkout", middleware.CheckoutSession(middleware.NewCookieStore("0123456789abcdef0123456789abcdef", false)))
	api.GET("", h.GetCheckout)
	api.PATCH("/data", h.PatchData)
	api.DELETE("/data", h.ClearData)
	api.POST("/next", h.Next)
	api.POST("/prev", h.Prev)
	api.POST("/steps/:step", h.GoTo)
	api.POST("/cart", h.AddItem)
	api.PUT("/cart/:itemId", h.UpdateItem)
	api.DELETE("/cart/:itemId", h.RemoveItem)
	api.POST("/coupon", h.ApplyCoupon)
	api.DELETE("/coupon", h.RemoveCoupon)
	api.POST("/orders", h.CreateOrder)
	api.GET("/orders", h.ListOrders)
	api.POST("/reset", h.Reset)
	api.GET("/districts", h.Districts)
	return r
}

// browser rejoue le cookie de session comme un navigateur
type browser struct {
	t      *testing.T
	r      http.Handler
	cookie *http.Cookie
}

func (b *browser) do(method, path string, body any) *httptest.ResponseRecorder {
	b.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	w := httptest.NewRecorder()
	b.r.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.CheckoutCookieName {
			b.cookie = ck
		}
	}
	return w
}

func (b *browser) snapshot(w *httptest.ResponseRecorder) checkout.Snapshot {
	b.t.Helper()
	var snap checkout.Snapshot
	require.NoError(b.t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func personal() map[string]any {
	return map[string]any{
		"firstName": "Lucía",
		"lastName":  "Quispe",
		"dni":       "45678912",
		"phone":     "987654321",
		"email":     "lucia@example.pe",
	}
}

func TestWizardFlow(t *testing.T) {
	b := &browser{t: t, r: newRouter(nil)}

	snap := b.snapshot(b.do(http.MethodGet, "/api/checkout", nil))
	assert.Equal(t, checkout.StepPersonal, snap.Step)

	w := b.do(http.MethodPost, "/api/checkout/next", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var blocked struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &blocked))
	assert.Contains(t, blocked.Fields, "email")

	require.Equal(t, http.StatusOK, b.do(http.MethodPatch, "/api/checkout/data", personal()).Code)
	snap = b.snapshot(b.do(http.MethodPost, "/api/checkout/next", nil))
	assert.Equal(t, checkout.StepDelivery, snap.Step)

	snap = b.snapshot(b.do(http.MethodPatch, "/api/checkout/data", map[string]any{"deliveryMethod": "oficina"}))
	assert.Equal(t, "Lucía", snap.Data.FirstName)

	snap = b.snapshot(b.do(http.MethodPost, "/api/checkout/next", nil))
	assert.Equal(t, checkout.StepPaymentMethod, snap.Step)

	// saut refusé tant que le moyen de paiement manque
	snap = b.snapshot(b.do(http.MethodPost, "/api/checkout/steps/summary", nil))
	assert.Equal(t, checkout.StepPaymentMethod, snap.Step)

	b.do(http.MethodPatch, "/api/checkout/data", map[string]any{"paymentMethod": "yape"})
	snap = b.snapshot(b.do(http.MethodPost, "/api/checkout/steps/summary", nil))
	assert.Equal(t, checkout.StepSummary, snap.Step)

	snap = b.snapshot(b.do(http.MethodPost, "/api/checkout/prev", nil))
	assert.Equal(t, checkout.StepPaymentMethod, snap.Step)

	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/api/checkout/steps/nowhere", nil).Code)
}

func TestCartAndCoupon(t *testing.T) {
	b := &browser{t: t, r: newRouter(nil)}
	b.do(http.MethodPatch, "/api/checkout/data", map[string]any{"deliveryMethod": "oficina"})

	w := b.do(http.MethodPost, "/api/checkout/cart", map[string]any{"id": "polo", "name": "Polo", "price": 100, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "200", b.snapshot(w).Totals.Subtotal.String())

	w = b.do(http.MethodPost, "/api/checkout/coupon", map[string]any{"code": "WELCOME20"})
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Applied  bool              `json:"applied"`
		Error    string            `json:"error"`
		Checkout checkout.Snapshot `json:"checkout"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Applied)
	assert.Equal(t, "40", res.Checkout.Totals.Discount.String())
	assert.Equal(t, "160", res.Checkout.Totals.Total.String())

	w = b.do(http.MethodPost, "/api/checkout/coupon", map[string]any{"code": "NOPE"})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Applied)
	assert.Equal(t, "Cupón no válido", res.Error)
	require.NotNil(t, res.Checkout.AppliedCoupon)
	assert.Equal(t, "WELCOME20", res.Checkout.AppliedCoupon.Code)

	assert.Equal(t, http.StatusNotFound, b.do(http.MethodPut, "/api/checkout/cart/ghost", map[string]any{"quantity": 1}).Code)
	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPut, "/api/checkout/cart/polo", map[string]any{}).Code)
	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/api/checkout/cart", map[string]any{"id": "", "quantity": 1}).Code)
	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/api/checkout/cart", map[string]any{"id": "gorra", "price": 30, "quantity": 0}).Code)
	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/api/checkout/coupon", map[string]any{}).Code)

	// sous le minimum de 100, le coupon tombe
	snap := b.snapshot(b.do(http.MethodDelete, "/api/checkout/cart/polo", nil))
	assert.Empty(t, snap.Cart)
	assert.Nil(t, snap.AppliedCoupon)
}

func approvedFor(id, sid string, amount int64) models.PaymentStatus {
	return models.PaymentStatus{
		ID:         id,
		Status:     payment.StatusApproved,
		Amount:     decimal.NewFromInt(amount),
		SessionRef: sid,
	}
}

func TestCreateOrderFromSession(t *testing.T) {
	sub := recordingSubmitter{orders: make(chan models.Order, 1)}
	payments := knownPayments{}
	b := &browser{t: t, r: newRouterWithPayments(sub, payments)}

	sid := b.snapshot(b.do(http.MethodGet, "/api/checkout", nil)).SessionID
	require.NotEmpty(t, sid)
	payments["1"] = approvedFor("1", sid, 110)
	payments["1319452901"] = approvedFor("1319452901", sid, 110)

	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/api/checkout/orders", map[string]any{"paymentId": "1"}).Code)
	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/api/checkout/orders", map[string]any{}).Code)

	data := personal()
	data["deliveryMethod"] = "delivery"
	data["address"] = "Av. Larco 123"
	data["district"] = "miraflores"
	data["paymentMethod"] = "tarjeta"
	b.do(http.MethodPatch, "/api/checkout/data", data)
	b.do(http.MethodPost, "/api/checkout/cart", map[string]any{"id": "polo", "name": "Polo", "price": 100, "quantity": 1})

	w := b.do(http.MethodPost, "/api/checkout/orders", map[string]any{"paymentId": "1319452901"})
	require.Equal(t, http.StatusCreated, w.Code)
	var res struct {
		Order   models.Order `json:"order"`
		Created bool         `json:"created"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Created)
	assert.Equal(t, "110", res.Order.Totals.Total.String())
	assert.Equal(t, models.PaymentMethodCreditCard, res.Order.PaymentMethod)

	select {
	case submitted := <-sub.orders:
		assert.Equal(t, res.Order.ID, submitted.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("commande non soumise")
	}

	w = b.do(http.MethodPost, "/api/checkout/orders", map[string]any{"paymentId": "1319452901"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = b.do(http.MethodGet, "/api/checkout/orders", nil)
	assert.JSONEq(t, `{"orders":["`+res.Order.ID+`"]}`, w.Body.String())
}

func TestCreateOrderRejectsUnverifiedPayments(t *testing.T) {
	payments := knownPayments{}
	b := &browser{t: t, r: newRouterWithPayments(nil, payments)}

	sid := b.snapshot(b.do(http.MethodGet, "/api/checkout", nil)).SessionID
	b.do(http.MethodPatch, "/api/checkout/data", map[string]any{"deliveryMethod": "oficina"})
	b.do(http.MethodPost, "/api/checkout/cart", map[string]any{"id": "polo", "name": "Polo", "price": 100, "quantity": 5})

	// identifiant inventé : la passerelle ne le connaît pas
	w := b.do(http.MethodPost, "/api/checkout/orders", map[string]any{"paymentId": "made-up-123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"No se pudo verificar el pago"}`, w.Body.String())

	payments["cheap"] = approvedFor("cheap", sid, 1)
	w = b.do(http.MethodPost, "/api/checkout/orders", map[string]any{"paymentId": "cheap"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"`+checkout.ErrAmountMismatch.Error()+`"}`, w.Body.String())

	pending := approvedFor("pending", sid, 500)
	pending.Status = payment.StatusInProcess
	payments["pending"] = pending
	assert.Equal(t, http.StatusConflict, b.do(http.MethodPost, "/api/checkout/orders", map[string]any{"paymentId": "pending"}).Code)

	payments["other"] = approvedFor("other", "another-session", 500)
	assert.Equal(t, http.StatusConflict, b.do(http.MethodPost, "/api/checkout/orders", map[string]any{"paymentId": "other"}).Code)

	w = b.do(http.MethodGet, "/api/checkout/orders", nil)
	assert.JSONEq(t, `{"orders":[]}`, w.Body.String())
}

func TestCreateOrderWithoutGateway(t *testing.T) {
	b := &browser{t: t, r: newRouterWithPayments(nil, nil)}
	w := b.do(http.MethodPost, "/api/checkout/orders", map[string]any{"paymentId": "1"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestResetAndDistricts(t *testing.T) {
	b := &browser{t: t, r: newRouter(nil)}
	b.do(http.MethodPatch, "/api/checkout/data", personal())
	b.do(http.MethodPost, "/api/checkout/next", nil)

	snap := b.snapshot(b.do(http.MethodPost, "/api/checkout/reset", nil))
	assert.Equal(t, checkout.StepPersonal, snap.Step)
	assert.Empty(t, snap.Data.FirstName)

	w := b.do(http.MethodGet, "/api/checkout/districts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"freeShippingThreshold":150`)
	assert.Contains(t, w.Body.String(), "Miraflores")
}
