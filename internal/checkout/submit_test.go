package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gravity_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSubmitterPostsOrder(t *testing.T) {
	var received models.Order
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	order := models.Order{ID: "0b6f2c3e-1111-4c1e-9a7a-5c7f0e8d9a10", TrackingCode: "TRK-12345678", Items: []models.CartItem{polo(2)}}
	ok := SubmitOrder(context.Background(), NewHTTPSubmitter(srv.URL, time.Second), order)

	assert.True(t, ok)
	assert.Equal(t, order.ID, received.ID)
	assert.Equal(t, 2, received.Items[0].Quantity)
}

func TestHTTPSubmitterNon2xxIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	sub := NewHTTPSubmitter(srv.URL, time.Second)
	err := sub.Submit(context.Background(), models.Order{ID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	assert.False(t, SubmitOrder(context.Background(), sub, models.Order{ID: "x"}))
}

type chanSubmitter chan models.Order

func (c chanSubmitter) Submit(_ context.Context, order models.Order) error {
	c <- order
	return nil
}

func TestPlaceOrderSubmitsOnce(t *testing.T) {
	m := newTestManager(NewMemoryStore())
	s := m.Get(context.Background(), "sid-place")
	s.SetData(validData())
	require.NoError(t, s.AddItem(polo(1)))

	sub := make(chanSubmitter, 2)
	order, created, err := PlaceOrder(context.Background(), s, sub, paidFor(s, "pay-1"))
	require.NoError(t, err)
	assert.True(t, created)

	select {
	case got := <-sub:
		assert.Equal(t, order.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("commande non soumise")
	}

	_, created, err = PlaceOrder(context.Background(), s, sub, paidFor(s, "pay-1"))
	require.NoError(t, err)
	assert.False(t, created)
	select {
	case <-sub:
		t.Fatal("commande soumise deux fois")
	case <-time.After(50 * time.Millisecond):
	}
}
