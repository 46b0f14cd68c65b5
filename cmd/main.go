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

	"github.com/Dosada05/football-cup/brackets"
	"github.com/Dosada05/football-cup/config"
	"github.com/Dosada05/football-cup/db"
	"github.com/Dosada05/football-cup/handlers"
	"github.com/Dosada05/football-cup/metrics"
	"github.com/Dosada05/football-cup/middleware"
	"github.com/Dosada05/football-cup/repositories"
	api "github.com/Dosada05/football-cup/routes"
	"github.com/Dosada05/football-cup/services"
	"github.com/Dosada05/football-cup/storage"
	"github.com/go-chi/chi/v5"
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
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(migrateCtx, dbConn)
	cancelMigrate()
	if err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}

	var logoUploader storage.FileUploader
	if cfg.R2Enabled() {
		logoUploader, err = storage.NewCloudflareR2Uploader(context.Background(), storage.CloudflareR2UploaderConfig{
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
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 is not configured, team logo upload is disabled")
	}

	cupMetrics := metrics.New()

	transactor := repositories.NewPostgresTransactor(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	drawRepo := repositories.NewPostgresDrawRepository(dbConn)

	authService := services.NewAuthService(userRepo, logger)
	userService := services.NewUserService(userRepo, logger)
	dashboardService := services.NewDashboardService(teamRepo, matchRepo)
	teamService := services.NewTeamService(transactor, teamRepo, logoUploader, logger)
	matchService := services.NewMatchService(transactor, teamRepo, matchRepo, cupMetrics, logger)
	tournamentService := services.NewTournamentService(
		transactor,
		teamRepo,
		matchRepo,
		drawRepo,
		brackets.NewDraw(),
		cupMetrics,
		logger,
	)

	if cfg.AdminEmail != "" {
		if _, err := authService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Error("failed to bootstrap admin account", slog.Any("error", err))
			os.Exit(1)
		}
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Deps{
		AuthHandler:       handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		UserHandler:       handlers.NewUserHandler(userService),
		DashboardHandler:  handlers.NewDashboardHandler(dashboardService),
		TeamHandler:       handlers.NewTeamHandler(teamService),
		MatchHandler:      handlers.NewMatchHandler(matchService),
		TournamentHandler: handlers.NewTournamentHandler(tournamentService),
		JWTSecret:         []byte(cfg.JWTSecretKey),
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		LoginLimiter:      middleware.NewIPRateLimiter(cfg.LoginRatePerMinute),
		Metrics:           cupMetrics.Handler(),
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
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
	logger.Info("application exited")
}
