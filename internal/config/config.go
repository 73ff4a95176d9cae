package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	SessionSecret string
	SessionSecure bool
	JWTSecret     string

	// Stockage des commandes : postgres, scylla ou memory
	OrderStore  string
	DatabaseURL string

	ScyllaHosts      []string
	ScyllaKeyspace   string
	ScyllaRole       string
	ScyllaPassword   string
	ScyllaSSLEnabled bool
	ScyllaCAPath     string

	RedisHost     string
	RedisPassword string

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string

	// Images produits signées depuis MinIO
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	PaymentProvider        string
	MercadoPagoAccessToken string
	MercadoPagoBaseURL     string
	StatementDescriptor    string
	StripeSecretKey        string
	StripeWebhookSecret    string

	OrdersAPIURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	YapePhone  string
	YapeHolder string

	SessionIdleTTL     time.Duration
	StatusPollInterval time.Duration
	StatusPollAttempts int
}

// Load charge le fichier .env puis construit la configuration
func Load() *Config {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}

	port := getEnv("PORT", "8080")

	return &Config{
		Port:        port,
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:4321")),

		SessionSecret: getEnv("SESSION_SECRET", "gravity-dev-session-secret"),
		SessionSecure: getEnv("SESSION_SECURE", "false") == "true",
		JWTSecret:     getEnv("JWT_SECRET", ""),

		OrderStore:  strings.ToLower(getEnv("ORDER_STORE", "memory")),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		ScyllaHosts:      splitList(getEnv("SCYLLA_HOSTS", "")),
		ScyllaKeyspace:   getEnv("SCYLLA_KS_ORDERS_KEYSPACE", ""),
		ScyllaRole:       getEnv("SCYLLA_KS_ORDERS_ROLE", ""),
		ScyllaPassword:   getEnv("SCYLLA_KS_ORDERS_PASSWORD", ""),
		ScyllaSSLEnabled: strings.ToLower(getEnv("SCYLLA_SSL_ENABLED", "false")) == "true",
		ScyllaCAPath:     getEnv("SCYLLA_SSL_CA_PATH", ""),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		ElasticURL:      getEnv("ELASTIC_URL", ""),
		ElasticUser:     getEnv("ELASTIC_USER", ""),
		ElasticPassword: getEnv("ELASTIC_PASSWORD", ""),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "gravity-products"),
		MinIOUseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",

		PaymentProvider:        strings.ToLower(getEnv("PAYMENT_PROVIDER", "mercadopago")),
		MercadoPagoAccessToken: getEnv("MERCADO_PAGO_ACCESS_TOKEN", ""),
		MercadoPagoBaseURL:     getEnv("MERCADO_PAGO_BASE_URL", "https://api.mercadopago.com"),
		StatementDescriptor:    getEnv("STATEMENT_DESCRIPTOR", "GRAVITY"),
		StripeSecretKey:        getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:    getEnv("STRIPE_WEBHOOK_SECRET", ""),

		OrdersAPIURL: getEnv("ORDERS_API_URL", "http://localhost:"+port+"/api/orders/create"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "pedidos@gravity.pe"),

		YapePhone:  getEnv("YAPE_PHONE", ""),
		YapeHolder: getEnv("YAPE_HOLDER", "Gravity"),

		SessionIdleTTL:     getEnvDuration("SESSION_IDLE_TTL", 2*time.Hour),
		StatusPollInterval: getEnvDuration("STATUS_POLL_INTERVAL", 2*time.Second),
		StatusPollAttempts: getEnvInt("STATUS_POLL_ATTEMPTS", 10),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %s", key, raw, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
