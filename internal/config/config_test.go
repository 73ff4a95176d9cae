package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ORDER_STORE", "Postgres")
	t.Setenv("CORS_ORIGINS", "https://gravity.pe, https://www.gravity.pe ,")
	t.Setenv("STATUS_POLL_INTERVAL", "not-a-duration")
	t.Setenv("STATUS_POLL_ATTEMPTS", "4")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.OrderStore)
	assert.Equal(t, []string{"https://gravity.pe", "https://www.gravity.pe"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Second, cfg.StatusPollInterval)
	assert.Equal(t, 4, cfg.StatusPollAttempts)
	assert.Equal(t, "http://localhost:9090/api/orders/create", cfg.OrdersAPIURL)
	assert.Equal(t, "mercadopago", cfg.PaymentProvider)
}

func TestLoadStorageSettings(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "minio.gravity.internal:9000")
	t.Setenv("MINIO_ACCESS_KEY", "gravity")
	t.Setenv("MINIO_SECRET_KEY", "s3cret")
	t.Setenv("MINIO_BUCKET", "catalogo")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("REDIS_HOST", "redis:6379")
	t.Setenv("SCYLLA_HOSTS", "10.0.0.1,10.0.0.2")
	t.Setenv("SCYLLA_KS_ORDERS_KEYSPACE", "gravity_orders")

	cfg := Load()

	assert.Equal(t, "minio.gravity.internal:9000", cfg.MinIOEndpoint)
	assert.Equal(t, "gravity", cfg.MinIOAccessKey)
	assert.Equal(t, "s3cret", cfg.MinIOSecretKey)
	assert.Equal(t, "catalogo", cfg.MinIOBucket)
	assert.True(t, cfg.MinIOUseSSL)
	assert.Equal(t, "redis:6379", cfg.RedisHost)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.ScyllaHosts)
	assert.Equal(t, "gravity_orders", cfg.ScyllaKeyspace)
}

func TestMinIODefaults(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "")
	t.Setenv("MINIO_BUCKET", "")
	t.Setenv("MINIO_USE_SSL", "")

	cfg := Load()

	assert.Empty(t, cfg.MinIOEndpoint)
	assert.Equal(t, "gravity-products", cfg.MinIOBucket)
	assert.False(t, cfg.MinIOUseSSL)
}
