package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gravity_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeElastic répond comme un nœud Elasticsearch minimal
func fakeElastic(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestIndexOrder(t *testing.T) {
	var doc map[string]any
	client := fakeElastic(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/orders/_doc/9f1c", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	order := models.Order{
		ID:           "9f1c",
		TrackingCode: "TRK-12345678",
		Customer:     models.CheckoutData{FirstName: "Lucía", LastName: "Quispe", Email: "lucia@example.pe"},
		Totals:       models.Totals{Total: decimal.RequireFromString("160")},
		CreatedAt:    time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewOrderIndex(client).IndexOrder(context.Background(), order))

	assert.Equal(t, "TRK-12345678", doc["tracking_code"])
	assert.Equal(t, "160.00", doc["total"])
	assert.Equal(t, "Lucía Quispe", doc["customer_name"])
}

func TestSearchByTracking(t *testing.T) {
	client := fakeElastic(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/orders/_search"))
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_source":{"order_id":"9f1c","tracking_code":"TRK-12345678"}}]}}`))
	})

	id, err := NewOrderIndex(client).SearchByTracking(context.Background(), "TRK-12345678")
	require.NoError(t, err)
	assert.Equal(t, "9f1c", id)
}

func TestSearchByTrackingMiss(t *testing.T) {
	client := fakeElastic(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[]}}`))
	})

	_, err := NewOrderIndex(client).SearchByTracking(context.Background(), "TRK-00000000")
	assert.ErrorIs(t, err, ErrNotIndexed)
}

func TestOrderIndexDisabled(t *testing.T) {
	var idx *OrderIndex
	assert.False(t, idx.Enabled())
	assert.ErrorIs(t, NewOrderIndex(nil).IndexOrder(context.Background(), models.Order{}), ErrSearchDisabled)

	_, err := NewOrderIndex(nil).SearchByTracking(context.Background(), "TRK-1")
	assert.ErrorIs(t, err, ErrSearchDisabled)
}
