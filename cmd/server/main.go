package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/ielts-prep/session-service/internal/backend"
	"github.com/ielts-prep/session-service/internal/cache"
	"github.com/ielts-prep/session-service/internal/config"
	"github.com/ielts-prep/session-service/internal/events"
	"github.com/ielts-prep/session-service/internal/handlers"
	"github.com/ielts-prep/session-service/internal/session"
	"github.com/ielts-prep/session-service/internal/utils"
)

func main() {
	// A missing .env file is fine; the environment itself still applies.
	_ = godotenv.Load()
	cfg := config.Load()

	logger := utils.NewDefaultLogger()
	if cfg.IsDevelopment() {
		logger = utils.NewDevelopmentLogger()
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	snapshots := cache.NewRedisStore(redisClient, cfg.SnapshotTTL, logger)

	publisher, _ := events.NewGoChannelEventPublisher(events.PublisherConfig{
		TopicName: cfg.EventTopic,
		Logger:    slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	})
	defer publisher.Close()

	backendClient := backend.NewHTTPClient(cfg.BackendBaseURL, nil)

	timing := session.Timing{
		ReadingSeconds:     cfg.ReadingSeconds,
		ReviewGapSeconds:   cfg.ReviewGapSeconds,
		FinalReviewSeconds: cfg.FinalReviewSeconds,
	}
	engine := session.NewEngine(backendClient, snapshots, publisher, session.NewRealClock(), timing, logger)

	validator := utils.NewValidator()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(utils.LoggerMiddleware(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlerManager := handlers.NewHandlerManager(engine, backendClient, validator, logger)
	handlerManager.SetupRoutes(r)

	logger.Info("starting session service", "port", cfg.Port, "environment", cfg.Environment)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
