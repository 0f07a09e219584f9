package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/assessment-authoring/internal/cache"
	"github.com/SAP-F-2025/assessment-authoring/internal/config"
	"github.com/SAP-F-2025/assessment-authoring/internal/events"
	"github.com/SAP-F-2025/assessment-authoring/internal/generation"
	"github.com/SAP-F-2025/assessment-authoring/internal/handlers"
	"github.com/SAP-F-2025/assessment-authoring/internal/repositories/postgres"
	"github.com/SAP-F-2025/assessment-authoring/internal/services"
	"github.com/SAP-F-2025/assessment-authoring/internal/utils"
	"github.com/SAP-F-2025/assessment-authoring/internal/validator"
	"github.com/SAP-F-2025/assessment-authoring/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, caching disabled", "error", err)
		}
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Events go to Kafka when brokers are configured, otherwise they stay in process
	var publisher events.EventPublisher
	if cfg.Kafka.Enabled() {
		publisher, err = events.NewKafkaEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize event publisher: %v", err)
		}
	} else {
		inMemory, pubSub := events.NewInMemoryEventPublisher(cfg.Kafka.Topic, slogLogger)
		if err := events.LogEvents(rootCtx, pubSub, inMemory.Topic(), slogLogger); err != nil {
			logger.Warn("Event logging disabled", "error", err)
		}
		publisher = inMemory
	}

	engine := generation.NewEngine(cfg.Gemini, slogLogger)
	if !engine.Available() {
		logger.Warn("GEMINI_API_KEY not set, generation endpoints will answer 503")
	}

	// Initialize services
	serviceManager := services.NewServiceManager(slogLogger, validator.New(), services.ServiceManagerConfig{
		Repository:   repoManager.GetRepository(),
		Publisher:    publisher,
		CacheManager: cache.NewCacheManager(redisClient),
		Generator:    engine,
		Generation: services.GenerationConfig{
			Tick:        cfg.Generation.Tick,
			RevealDelay: cfg.Generation.RevealDelay,
		},
	})
	if err := serviceManager.Initialize(rootCtx); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "kafka", cfg.Kafka.Enabled())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Closes the event publisher
	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}
	stop()

	// Closes the database and Redis connections
	if err := repoManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to close repositories", "error", err)
	}

	logger.Info("Server exited")
}
