package database

import (
	"context"
	"database/sql"
	"log"
	"time"

	"gravity_back_end/internal/cache"
	"gravity_back_end/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// --- Variables Globales ---
var (
	Scylla   *ScyllaManager
	Redis    *redis.Client
	Postgres *sql.DB
	Elastic  *elasticsearch.Client
	MinIO    *minio.Client
)

// ConnectDatabases ouvre les connexions. Seul le stockage de commandes choisi
// est obligatoire ; Redis, Elasticsearch et MinIO se désactivent en cas d'échec.
func ConnectDatabases(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. Stockage des commandes
	switch cfg.OrderStore {
	case "postgres":
		db, err := NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Échec connexion PostgreSQL: %v", err)
		}
		Postgres = db
		log.Println("✅ Connecté à PostgreSQL")
	case "scylla":
		if err := InitScyllaDB(cfg); err != nil {
			log.Fatalf("❌ Échec initialisation ScyllaDB: %v", err)
		}
	default:
		log.Println("⚠️ ORDER_STORE=memory, les commandes ne survivent pas au redémarrage")
	}

	// 2. Redis
	connectRedis(ctx, cfg)

	// 3. Elasticsearch
	connectElastic(cfg)

	// 4. MinIO
	connectMinIO(ctx, cfg)

	log.Println("✅ Connexions initialisées")
}

// CloseDatabases ferme ce qui a été ouvert
func CloseDatabases() {
	if Scylla != nil {
		CloseScylla()
	}
	if Postgres != nil {
		Postgres.Close()
		log.Println("🔌 PostgreSQL fermé")
	}
	if Redis != nil {
		Redis.Close()
		log.Println("🔌 Redis fermé")
	}
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context, cfg *config.Config) {
	if cfg.RedisHost == "" {
		log.Println("⚠️ REDIS_HOST absent, sessions et idempotence en mémoire")
		return
	}

	client, err := cache.NewRedisClient(ctx, cfg.RedisHost, cfg.RedisPassword)
	if err != nil {
		log.Println("⚠️ Redis indisponible, repli en mémoire:", err)
		return
	}
	Redis = client
}

// =============================================
// ELASTICSEARCH
// =============================================
func connectElastic(cfg *config.Config) {
	if cfg.ElasticURL == "" {
		log.Println("⚠️ ELASTIC_URL absent, suivi par code désactivé")
		return
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		log.Println("⚠️ Erreur création client Elasticsearch:", err)
		return
	}

	res, err := client.Info()
	if err != nil {
		log.Println("⚠️ Erreur connexion Elasticsearch:", err)
		return
	}
	defer res.Body.Close()

	Elastic = client
	log.Println("✅ Connecté à Elasticsearch")
}

// =============================================
// MINIO
// =============================================
func connectMinIO(ctx context.Context, cfg *config.Config) {
	endpoint := cfg.MinIOEndpoint
	if endpoint == "" {
		log.Println("⚠️ MINIO_ENDPOINT absent, images servies telles quelles")
		return
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		log.Println("⚠️ Erreur connexion MinIO:", err)
		return
	}

	bucketName := cfg.MinIOBucket
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		log.Println("⚠️ Erreur vérification bucket MinIO:", err)
		return
	}
	if !exists {
		log.Printf("⚠️ Bucket MinIO %q introuvable, images servies telles quelles", bucketName)
		return
	}
	log.Println("🪣 Bucket MinIO présent :", bucketName)

	MinIO = client
	log.Println("✅ Connecté à MinIO :", endpoint)
}
