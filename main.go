// @title Nomad Crew Planner API
// @version 1.0
// @description Group trip planning: members and invitations, step voting and shared expenses.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/config"
	"github.com/NomadCrew/nomad-crew-planner/db"
	_ "github.com/NomadCrew/nomad-crew-planner/docs"
	"github.com/NomadCrew/nomad-crew-planner/handlers"
	"github.com/NomadCrew/nomad-crew-planner/internal/auth"
	"github.com/NomadCrew/nomad-crew-planner/internal/metrics"
	"github.com/NomadCrew/nomad-crew-planner/internal/store/postgres"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/models"
	"github.com/NomadCrew/nomad-crew-planner/pkg/pexels"
	"github.com/NomadCrew/nomad-crew-planner/router"
	"github.com/NomadCrew/nomad-crew-planner/services"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	poolConfig, err := config.ConfigurePostgresPool(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to parse database config: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	log.Infow("Database pool created", "dsn", logger.MaskConnectionString(cfg.Database.URL()))

	if cfg.Database.RunMigrations {
		if err := db.RunMigrations(cfg.Database.URL()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Redis
	redisClient := redis.NewClient(config.ConfigureRedisOptions(&cfg.Redis))
	defer func() { _ = redisClient.Close() }()
	if err := config.PingRedis(ctx, redisClient, 5, 2*time.Second); err != nil {
		// Rate limiting fails open, so the API can still serve without Redis.
		log.Warnw("Redis unavailable at startup", "error", err)
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Services
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecretKey, cfg.Auth.TokenTTL())
	if err != nil {
		log.Fatalf("Failed to create token manager: %v", err)
	}
	var pexelsClient pexels.ClientInterface
	if cfg.ExternalServices.PexelsAPIKey != "" {
		pexelsClient = pexels.NewClient(cfg.ExternalServices.PexelsAPIKey)
	}
	imageService := services.NewImageService(pexelsClient, time.Duration(cfg.ExternalServices.ImageLookupTimeout)*time.Second)
	emailPool := services.NewWorkerPool(cfg.WorkerPool, reg)
	emailPool.Start()
	emailService := services.NewQueuedEmailService(services.NewEmailServiceWithRegistry(&cfg.Email, reg), emailPool)
	rateLimitService := services.NewRateLimitService(redisClient)
	healthService := services.NewHealthService(pool, redisClient, cfg.Server.Version)

	// Models
	st := postgres.NewStore(pool)
	userModel := models.NewUserModel(st.Users(), st.Invitations(), tokens, cfg.Auth.BcryptCost)
	tripModel := models.NewTripModel(st.Trips(), imageService, m)
	invitationModel := models.NewInvitationModel(st.Trips(), st.Invitations(), st.Users(), emailService, cfg.Server.FrontendURL, m)
	stepModel := models.NewStepModel(st.Trips(), st.Steps(), imageService, m)
	expenseModel := models.NewExpenseModel(st.Trips(), st.Expenses(), m)

	r := router.SetupRouter(router.Dependencies{
		Config:            cfg,
		TokenValidator:    tokens,
		RateLimiter:       rateLimitService,
		Metrics:           m,
		Gatherer:          reg,
		AuthHandler:       handlers.NewAuthHandler(userModel),
		TripHandler:       handlers.NewTripHandler(tripModel),
		MemberHandler:     handlers.NewMemberHandler(tripModel, invitationModel),
		InvitationHandler: handlers.NewInvitationHandler(invitationModel),
		StepHandler:       handlers.NewStepHandler(stepModel),
		ExpenseHandler:    handlers.NewExpenseHandler(expenseModel),
		HealthHandler:     handlers.NewHealthHandler(healthService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shut down", "error", err)
	}

	poolCtx, poolCancel := context.WithTimeout(context.Background(), time.Duration(cfg.WorkerPool.ShutdownTimeoutSeconds)*time.Second)
	defer poolCancel()
	if err := emailPool.Shutdown(poolCtx); err != nil {
		log.Warnw("Pending invitation emails were abandoned", "error", err)
	}
	log.Info("Server exited")
}
