package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/localizy/localizy-backend/api/routes"
	"github.com/localizy/localizy-backend/internal/addresses"
	"github.com/localizy/localizy-backend/internal/auth"
	"github.com/localizy/localizy-backend/internal/cities"
	"github.com/localizy/localizy-backend/internal/homeslides"
	"github.com/localizy/localizy-backend/internal/projects"
	"github.com/localizy/localizy-backend/internal/settings"
	"github.com/localizy/localizy-backend/internal/users"
	"github.com/localizy/localizy-backend/internal/validations"
	"github.com/localizy/localizy-backend/pkg/config"
	"github.com/localizy/localizy-backend/pkg/db"
	"github.com/localizy/localizy-backend/pkg/logger"
	"github.com/localizy/localizy-backend/pkg/migrate"
	"github.com/localizy/localizy-backend/pkg/redis"
	"github.com/localizy/localizy-backend/pkg/storage/uploads"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	uploadsClient, err := uploads.New(cfg.Uploads)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap upload storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := uploadsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing upload storage", err)
		}
	}()

	userRepo := users.NewRepository(dbClient.DB())
	cityRepo := cities.NewRepository(dbClient.DB())
	addressRepo := addresses.NewRepository(dbClient.DB())
	validationRepo := validations.NewRepository(dbClient.DB())
	slideRepo := homeslides.NewRepository(dbClient.DB())
	settingRepo := settings.NewRepository(dbClient.DB())
	projectRepo := projects.NewRepository(dbClient.DB())

	authService, err := auth.NewService(userRepo, cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	userService, err := users.NewService(userRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	cityService, err := cities.NewService(cityRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create city service", err)
		os.Exit(1)
	}
	addressService, err := addresses.NewService(addressRepo, userRepo, cityRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}
	validationService, err := validations.NewService(validationRepo, addressRepo, userRepo, dbClient, uploadsClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create validation service", err)
		os.Exit(1)
	}
	slideService, err := homeslides.NewService(slideRepo, uploadsClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create home slide service", err)
		os.Exit(1)
	}
	settingService, err := settings.NewService(settingRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create setting service", err)
		os.Exit(1)
	}
	projectService, err := projects.NewService(projectRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create project service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			authService,
			userService,
			cityService,
			addressService,
			validationService,
			slideService,
			settingService,
			projectService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithFields(ctx, map[string]any{"signal": sig.String()}), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
