package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gravity_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardRequest() models.PaymentRequest {
	return models.PaymentRequest{
		Token:             "tok_abc",
		TransactionAmount: decimal.RequireFromString("185.50"),
		PaymentMethodID:   "visa",
		Payer:             &models.Payer{Email: "lucia@example.pe"},
	}
}

func TestMercadoPagoCreatePayment(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments", r.URL.Path)
		assert.Equal(t, "Bearer TEST-token", r.Header.Get("Authorization"))
		assert.Equal(t, "idem-1", r.Header.Get("X-Idempotency-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1319452901, "status": "approved", "status_detail": "accredited", "transaction_amount": 185.5}`))
	}))
	defer srv.Close()

	mp := NewMercadoPago(srv.URL, "TEST-token", "GRAVITY", time.Second)
	mp.now = func() time.Time { return time.UnixMilli(1760000000000) }

	res, err := mp.CreatePayment(context.Background(), cardRequest(), "idem-1")
	require.NoError(t, err)

	assert.Equal(t, "1319452901", res.ID)
	assert.Equal(t, StatusApproved, res.Status)
	assert.True(t, decimal.RequireFromString("185.50").Equal(res.Amount))
	assert.Contains(t, string(res.Raw), "accredited")

	assert.Equal(t, 185.5, body["transaction_amount"])
	assert.Equal(t, float64(1), body["installments"])
	assert.Equal(t, "optional", body["three_d_secure_mode"])
	assert.Equal(t, "GRAVITY", body["statement_descriptor"])
	assert.Equal(t, "1760000000000", body["external_reference"])
	assert.NotContains(t, body, "issuer_id")
}

func TestMercadoPagoErrorIsRelayed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "invalid card token", "status": 400}`))
	}))
	defer srv.Close()

	mp := NewMercadoPago(srv.URL, "TEST-token", "GRAVITY", time.Second)
	_, err := mp.CreatePayment(context.Background(), cardRequest(), "idem-2")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid card token", apiErr.Message)
	assert.JSONEq(t, `{"message": "invalid card token", "status": 400}`, string(apiErr.Body))
}

func TestMercadoPagoGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/payments/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 42, "status": "in_process", "status_detail": "pending_contingency",
			"transaction_amount": 59.9, "metadata": {"checkout_session": "sid-42"}}`))
	}))
	defer srv.Close()

	st, err := NewMercadoPago(srv.URL, "TEST-token", "GRAVITY", time.Second).GetPayment(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", st.ID)
	assert.Equal(t, StatusInProcess, st.Status)
	assert.Equal(t, "pending_contingency", st.StatusDetail)
	assert.True(t, decimal.RequireFromString("59.90").Equal(st.Amount))
	assert.Equal(t, "sid-42", st.SessionRef)
}

func TestMercadoPagoUnknownPaymentID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("aucun appel attendu, reçu %s", r.URL.Path)
	}))
	defer srv.Close()

	_, err := NewMercadoPago(srv.URL, "TEST-token", "GRAVITY", time.Second).GetPayment(context.Background(), "made-up")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestMercadoPagoWithoutTokenIsDisabled(t *testing.T) {
	_, err := NewMercadoPago("http://unused", "", "", time.Second).CreatePayment(context.Background(), cardRequest(), "k")
	assert.ErrorIs(t, err, ErrGatewayDisabled)
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(cardRequest()))

	noToken := cardRequest()
	noToken.Token = ""
	assert.ErrorIs(t, ValidateRequest(noToken), ErrMissingFields)

	zero := cardRequest()
	zero.TransactionAmount = decimal.Zero
	assert.ErrorIs(t, ValidateRequest(zero), ErrMissingFields)

	noPayer := cardRequest()
	noPayer.Payer = nil
	assert.ErrorIs(t, ValidateRequest(noPayer), ErrMissingFields)

	badEmail := cardRequest()
	badEmail.Payer = &models.Payer{Email: "lucia"}
	assert.ErrorIs(t, ValidateRequest(badEmail), ErrMissingFields)
}
