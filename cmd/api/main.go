package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"io.winapps.sparkbrush/internal/db"
	firebaseutil "io.winapps.sparkbrush/internal/firebase"
	"io.winapps.sparkbrush/internal/handlers"
	"io.winapps.sparkbrush/internal/middleware"
	promptmodels "io.winapps.sparkbrush/internal/models/prompt"
	"io.winapps.sparkbrush/internal/prompts"
	"io.winapps.sparkbrush/internal/queue"
	"io.winapps.sparkbrush/internal/streaks"
	"io.winapps.sparkbrush/internal/submissions"
)

// alwaysOnline is the simulated environment's connectivity probe.
type alwaysOnline struct{}

func (alwaysOnline) Ping(ctx context.Context) error { return nil }

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	// Environment is selected exactly once here: Live wires Postgres,
	// Redis and Firebase; Simulated wires in-memory collaborators
	// behind the same interfaces. Business logic never branches on it.
	appEnv := getEnvOrDefault("APP_ENV", "live")

	var (
		promptStore  prompts.PromptStore
		historyStore handlers.PromptHistoryStore
		prefStore    prompts.PreferenceStore
		respStore    submissions.ResponseStore
		imageStore   submissions.ImageTransfer
		queueStorage queue.Storage
		pinger       queue.Pinger
		authMW       gin.HandlerFunc
		redisClient  *redis.Client
	)

	switch appEnv {
	case "simulated":
		memPrompts := prompts.NewMemoryPromptStore()
		memPrefs := prompts.NewMemoryPreferenceStore()
		memPrefs.Put(&promptmodels.UserPreferences{
			UserID:        "demo",
			ArtMediums:    []string{"watercolor", "ink", "digital"},
			Subjects:      []string{"landscape", "animals", "still_life", "botanical"},
			ColorPalettes: []string{"warm", "muted"},
			Difficulty:    prompts.TierNovice,
		})

		promptStore = memPrompts
		historyStore = memPrompts
		prefStore = memPrefs
		respStore = submissions.NewMemoryResponseStore()
		imageStore = submissions.NewSimulatedImageStore()
		queueStorage = queue.NewMemoryStorage()
		pinger = alwaysOnline{}
		authMW = middleware.SimulatedAuthMiddleware()
		logger.Infow("starting in simulated environment")

	default:
		firebaseApp, err := firebaseutil.InitFirebase()
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}

		postgresDB, err := db.InitPostgres()
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL: %v", err)
		}
		defer postgresDB.Close()

		rdb, err := db.InitRedis()
		if err != nil {
			log.Fatalf("Failed to initialize Redis: %v", err)
		}
		defer rdb.Close()
		redisClient = rdb

		pgPrompts := prompts.NewPostgresPromptStore(postgresDB)
		promptStore = pgPrompts
		historyStore = pgPrompts
		prefStore = prompts.NewPostgresPreferenceStore(postgresDB, rdb)
		respStore = submissions.NewPostgresResponseStore(postgresDB)
		imageStore = submissions.NewFileSystemImageStore("", "", os.Getenv("PUBLIC_BASE_URL"))
		queueStorage = queue.NewRedisStorage(rdb, "submission_queue")
		pinger = postgresDB
		authMW = middleware.AuthMiddleware(firebaseApp, rdb)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine := prompts.NewEngine(promptStore, prefStore, logger, rng)

	submissionQueue := queue.New(queueStorage, logger)
	monitor := queue.NewMonitor(pinger, 15*time.Second, logger)

	streakService := streaks.NewService(respStore, logger)
	orchestrator := submissions.NewOrchestrator(monitor, imageStore, respStore, submissionQueue, streakService, logger)

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	monitor.Start(monitorCtx)

	// Replay queued submissions on every reconnect edge
	go func() {
		for range monitor.Reconnected() {
			result, err := submissionQueue.ReplayAll(context.Background(), orchestrator.ReplayItem)
			if err != nil {
				logger.Errorw("queue replay failed", "error", err)
				continue
			}
			logger.Infow("queue replay finished", "succeeded", result.Succeeded, "failed", result.Failed)
		}
	}()

	// Opportunistic purge at startup, then daily via cron
	if removed, err := submissionQueue.PurgeExpired(context.Background()); err != nil {
		logger.Warnw("startup queue purge failed", "error", err)
	} else if removed > 0 {
		logger.Infow("purged expired queued submissions", "removed", removed)
	}
	cronManager := cron.New(cron.WithLocation(time.UTC))
	cronManager.AddFunc("10 3 * * *", func() {
		if removed, err := submissionQueue.PurgeExpired(context.Background()); err != nil {
			logger.Warnw("scheduled queue purge failed", "error", err)
		} else if removed > 0 {
			logger.Infow("purged expired queued submissions", "removed", removed)
		}
	})
	cronManager.Start()
	defer cronManager.Stop()

	// Initialize Gin router
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware for mobile app
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	promptHandler := handlers.NewPromptHandler(engine, historyStore, redisClient, logger)
	submissionHandler := handlers.NewSubmissionHandler(orchestrator, submissionQueue, logger)
	streaksHandler := handlers.NewStreaksHandler(streakService, logger)

	// Define routes
	v1 := router.Group("/api/v1")
	{
		promptRoutes := v1.Group("/prompts")
		promptRoutes.Use(authMW)
		{
			promptRoutes.POST("/get-daily", promptHandler.GetDailyPrompt)
			promptRoutes.POST("/create-manual", promptHandler.CreateManualPrompt)
			promptRoutes.POST("/history", promptHandler.PromptHistory)
		}

		submissionRoutes := v1.Group("/submissions")
		submissionRoutes.Use(authMW)
		{
			submissionRoutes.POST("/submit", submissionHandler.SubmitResponse)
			submissionRoutes.POST("/queue-stats", submissionHandler.QueueStats)
		}

		streakRoutes := v1.Group("/streaks")
		streakRoutes.Use(authMW)
		{
			streakRoutes.POST("/get", streaksHandler.GetStreaks)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "online": monitor.Online()})
	})

	// Serve static image files
	router.Static("/images", "./internal/images")

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + getEnvOrDefault("PORT", "9092"),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infow("server starting", "addr", srv.Addr, "env", appEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infow("shutting down server")

	// Give a 5 second timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Infow("server exited")
}

// getEnvOrDefault returns the environment variable value or a default value if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
