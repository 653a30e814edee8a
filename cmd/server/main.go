package main

import (
	"context"

	"finapi/internal/api"
	"finapi/internal/config"
	"finapi/internal/db"
	"finapi/internal/events"
	"finapi/internal/events/kafka"
	"finapi/internal/ledger"
	"finapi/internal/storage/gormstore"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig()

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	database, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Setup Redis client; caching is optional and skipped when unconfigured
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	}

	// Setup event publisher; no-op unless Kafka brokers are configured
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kp.Close()
		publisher = kp
	}

	users := gormstore.NewUserStore(database)
	statements := gormstore.NewStatementStore(database)
	ledgerService := ledger.NewLedger(users, statements, publisher)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.RouterConfig{
		Users:      users,
		Statements: statements,
		Ledger:     ledgerService,
		Cache:      redisClient,
		JWTSecret:  cfg.JWTSecret,
		RateLimit:  rate.Limit(50),
		RateBurst:  100,
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.Infof("Server running on %s", cfg.AppPort)
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
