package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/Omondi01/sciencefair-system/config"
	"github.com/Omondi01/sciencefair-system/db"
	"github.com/Omondi01/sciencefair-system/handlers"
	"github.com/Omondi01/sciencefair-system/live"
	"github.com/Omondi01/sciencefair-system/middleware"
	"github.com/Omondi01/sciencefair-system/repositories"
	api "github.com/Omondi01/sciencefair-system/routes"
	"github.com/Omondi01/sciencefair-system/services"
	"github.com/Omondi01/sciencefair-system/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.StorageEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("certificate storage initialized")
	} else {
		logger.Warn("R2 storage not configured, certificate generation disabled")
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	projectRepo := repositories.NewPostgresProjectRepository(dbConn)
	assignmentRepo := repositories.NewPostgresAssignmentRepository(dbConn)
	editionRepo := repositories.NewPostgresEditionRepository(dbConn)
	settingsRepo := repositories.NewPostgresSettingsRepository(dbConn)
	auditRepo := repositories.NewPostgresAuditRepository(dbConn)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, editionRepo)
	assignmentService := services.NewAssignmentService(assignmentRepo, projectRepo, userRepo, editionRepo)
	editionService := services.NewEditionService(editionRepo, settingsRepo)
	rankingService := services.NewRankingService(editionRepo, projectRepo, assignmentRepo, userRepo)
	publishService := services.NewPublishService(
		rankingService,
		projectRepo,
		assignmentRepo,
		userRepo,
		editionRepo,
		settingsRepo,
		auditRepo,
		wsHub,
		logger,
	)
	dashboardService := services.NewDashboardService(userRepo, projectRepo, assignmentRepo, editionRepo, auditRepo)

	var emailService *services.EmailService
	if cfg.MailEnabled() {
		emailService = services.NewEmailService(cfg)
	} else {
		logger.Warn("SMTP not configured, result notifications disabled")
	}
	var certificateService *services.CertificateService
	if uploader != nil {
		certificateService = services.NewCertificateService(rankingService, uploader)
	}
	logger.Info("services initialized")

	authenticator := middleware.NewAuthenticator([]byte(cfg.JWTSecretKey))

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService, userService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, userService)
	rankingHandler := handlers.NewRankingHandler(rankingService, certificateService)
	publishHandler := handlers.NewPublishHandler(publishService, userService, emailService, logger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	editionHandler := handlers.NewEditionHandler(editionService, userService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authenticator,
		authHandler,
		userHandler,
		projectHandler,
		assignmentHandler,
		rankingHandler,
		publishHandler,
		dashboardHandler,
		editionHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
