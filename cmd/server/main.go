package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gravity_back_end/internal/cache"
	"gravity_back_end/internal/checkout"
	"gravity_back_end/internal/config"
	"gravity_back_end/internal/coupon"
	"gravity_back_end/internal/database"
	"gravity_back_end/internal/handlers/admin"
	checkouthandler "gravity_back_end/internal/handlers/checkout"
	"gravity_back_end/internal/handlers/order"
	"gravity_back_end/internal/handlers/payement"
	"gravity_back_end/internal/middleware"
	"gravity_back_end/internal/payment"
	"gravity_back_end/internal/repository"
	"gravity_back_end/internal/routes"
	"gravity_back_end/internal/services"
	"gravity_back_end/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	database.ConnectDatabases(cfg)

	repo := newOrderRepository(cfg)
	gateway := newGateway(cfg)

	// Sessions de checkout, idempotence et compteurs : Redis si disponible
	var (
		store   checkout.Store
		guard   payement.IdempotencyGuard
		counter middleware.RateCounter
	)
	if database.Redis != nil {
		store = cache.NewRedisStore(database.Redis)
		guard = cache.NewRedisIdempotency(database.Redis)
		counter = cache.NewRedisRateCounter(database.Redis)
	} else {
		store = checkout.NewMemoryStore()
		guard = cache.NewMemoryIdempotency()
		counter = cache.NewMemoryRateCounter()
	}

	validator := coupon.NewValidator(coupon.DefaultCatalog(), time.Now)
	manager := checkout.NewManager(store, validator, cfg.SessionIdleTTL)
	submitter := checkout.NewHTTPSubmitter(cfg.OrdersAPIURL, 15*time.Second)

	ctx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go manager.Run(ctx, 10*time.Minute)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Idempotency-Key"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Checkout: checkouthandler.NewHandler(manager, submitter, gateway),
		Orders: order.NewHandler(
			repo,
			cache.NewOrderViewCache(database.Redis),
			services.NewOrderIndex(database.Elastic),
			services.NewImageSigner(database.MinIO, cfg.MinIOBucket, time.Hour),
			utils.NewMailer(cfg),
		),
		Payments: payement.NewHandler(gateway, guard, manager, submitter, payement.Options{
			PollInterval:        cfg.StatusPollInterval,
			PollAttempts:        cfg.StatusPollAttempts,
			StripeWebhookSecret: cfg.StripeWebhookSecret,
			YapePhone:           cfg.YapePhone,
			YapeHolder:          cfg.YapeHolder,
		}),
		Admin:       admin.NewHandler(repo),
		Sessions:    middleware.NewCookieStore(cfg.SessionSecret, cfg.SessionSecure),
		RateCounter: counter,
		JWTSecret:   cfg.JWTSecret,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Println("🚀 Serveur Gravity lancé sur le port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Serveur arrêté: %v", err)
		}
	}()

	<-stop
	log.Println("🛑 Arrêt du serveur...")
	stopJanitor()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Arrêt forcé: %v", err)
	}

	database.CloseDatabases()
	log.Println("👋 Serveur arrêté")
}

func newOrderRepository(cfg *config.Config) repository.OrderRepository {
	switch cfg.OrderStore {
	case "postgres":
		return repository.NewPostgresOrders(database.Postgres)
	case "scylla":
		session, err := database.GetOrdersSession()
		if err != nil {
			log.Fatalf("❌ Session ScyllaDB indisponible: %v", err)
		}
		return repository.NewScyllaOrders(session)
	default:
		return repository.NewMemoryOrders()
	}
}

func newGateway(cfg *config.Config) payment.Gateway {
	switch cfg.PaymentProvider {
	case "stripe":
		if cfg.StripeSecretKey == "" {
			log.Println("⚠️ STRIPE_SECRET_KEY absent, paiements Stripe refusés")
		}
		log.Println("✅ Passerelle de paiement : Stripe")
		return payment.NewStripe(cfg.StripeSecretKey)
	default:
		if cfg.MercadoPagoAccessToken == "" {
			log.Println("⚠️ MERCADO_PAGO_ACCESS_TOKEN absent, paiements refusés")
		}
		log.Println("✅ Passerelle de paiement : Mercado Pago")
		return payment.NewMercadoPago(cfg.MercadoPagoBaseURL, cfg.MercadoPagoAccessToken, cfg.StatementDescriptor, 30*time.Second)
	}
}
