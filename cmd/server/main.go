package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/financial-frontier/backend/adapters/event"
	httpAdapter "github.com/financial-frontier/backend/adapters/http"
	"github.com/financial-frontier/backend/adapters/llm"
	"github.com/financial-frontier/backend/adapters/persistence"
	gameUC "github.com/financial-frontier/backend/internal/application/usecase/game"
	onboardingUC "github.com/financial-frontier/backend/internal/application/usecase/onboarding"
	"github.com/financial-frontier/backend/internal/config"
	"github.com/financial-frontier/backend/pkg/auth"
	"github.com/financial-frontier/backend/pkg/logger"
	"github.com/financial-frontier/backend/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Start Financial Frontier API Server...")

	if cfg.Jaeger.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, "financial-frontier-api")
		if err != nil {
			appLogger.Fatal("cannot init tracer", err)
		}
		defer tp.Shutdown(context.Background())
	}

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	progressionRepo := persistence.NewPostgresProgressionRepo(dbPool, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret)
	rankingSvc, err := llm.NewOpenAIRankingAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init ranking adapter", err)
	}

	// Use Cases
	onboardUseCase := onboardingUC.NewOnboardUseCase(userRepo, rankingSvc, kafkaClient, appLogger)
	statsUseCase := gameUC.NewStatsUseCase(userRepo, redisClient, cfg.Redis.StatsTTL, appLogger)
	progressionUseCase := gameUC.NewProgressionUseCase(progressionRepo)

	// HTTP Handlers
	onboardingHandler := httpAdapter.NewOnboardingHandler(onboardUseCase, appLogger)
	gameHandler := httpAdapter.NewGameHandler(statsUseCase, progressionUseCase, appLogger)

	// Middleware
	attachUser := httpAdapter.AttachUser(jwtSvc, appLogger)
	requireAuth := httpAdapter.RequireAuth()
	errorMiddleware := httpAdapter.ErrorMiddleware(appLogger)

	// Setup Gin router
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CORS,
		AllowMethods:     []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Financial Frontier Backend Running")
	})

	api := router.Group("/api")
	api.Use(attachUser, errorMiddleware)
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		users := api.Group("/users")
		{
			// Onboarding checks identity itself; AttachUser is permissive.
			users.POST("/onboarding", onboardingHandler.Onboard)
		}

		game := api.Group("/game")
		game.Use(requireAuth)
		{
			game.GET("/stats", gameHandler.GetStats)
			game.GET("/progression", gameHandler.GetProgression)
		}
	}

	appLogger.Info("Server running on port " + cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("Cannot run server", err)
	}
}
