package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/emergency_response_system/internal/config"
	"github.com/shenikar/emergency_response_system/internal/dispatch"
	v1 "github.com/shenikar/emergency_response_system/internal/handler/http/v1"
	"github.com/shenikar/emergency_response_system/internal/repository"
	"github.com/shenikar/emergency_response_system/internal/roster"
	"github.com/shenikar/emergency_response_system/internal/service"
	"github.com/shenikar/emergency_response_system/pkg/logger"
	"github.com/shenikar/emergency_response_system/pkg/postgres"
	redisclient "github.com/shenikar/emergency_response_system/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/emergency_response_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Emergency Response System API
// @version 1.0
// @description Emergency report intake, responder matching and dispatch API server.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run migrations
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Connect to PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Initialize Redis client
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Load the responder roster once; a missing or broken file degrades to
	// an empty roster instead of aborting startup
	responderRoster, err := roster.Load(cfg.RespondersFile)
	if err != nil {
		log.WithError(err).Warn("Failed to load responder roster, dispatch runs with an empty roster")
	} else {
		log.Infof("Loaded %d responders", responderRoster.Len())
	}

	// Initialize the dispatch publisher
	dispatchPublisher := dispatch.NewRedisDispatchPublisher(redisClient)

	// Initialize and start the dispatch log worker
	dispatchWorker := dispatch.NewLogWorker(redisClient, log, cfg)
	dispatchWorker.Start(ctx)

	// Initialize repositories
	reportRepo := repository.NewReportRepository(dbpool, redisClient)
	userRepo := repository.NewUserRepository(dbpool)

	// Initialize services
	reportService := service.NewReportService(reportRepo, userRepo, responderRoster, log, dispatchPublisher)
	userService := service.NewUserService(userRepo, log)

	// Initialize handlers
	handler := v1.NewHandler(reportService, userService, log, cfg)

	// Set up Gin router
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Add the Swagger UI route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Start the HTTP server
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Run the server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
