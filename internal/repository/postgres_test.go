package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getPostgres(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgresOrdersRoundTrip(t *testing.T) {
	db := getPostgres(t)
	ctx := context.Background()
	repo := NewPostgresOrders(db)
	order := sampleOrder()

	require.NoError(t, repo.CreateOrder(ctx, order))
	// une seconde soumission est ignorée
	require.NoError(t, repo.CreateOrder(ctx, order))

	got, err := repo.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "María", got.Customer.FirstName)
	assert.Equal(t, "José Huamán Rojas", got.Customer.LastName)
	assert.True(t, got.Totals.Total.Equal(order.Totals.Total))
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Price.Equal(order.Items[0].Price))

	require.NoError(t, repo.MarkEmailSent(ctx, order.ID))

	_, err = repo.GetOrder(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
