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

	specpkg "github.com/gamevault/gamevault/api"
	"github.com/gamevault/gamevault/internal/api"
	"github.com/gamevault/gamevault/internal/auth"
	"github.com/gamevault/gamevault/internal/config"
	"github.com/gamevault/gamevault/internal/game"
	"github.com/gamevault/gamevault/internal/migrations"
	"github.com/gamevault/gamevault/internal/playsession"
	"github.com/gamevault/gamevault/internal/postgres"
	"github.com/gamevault/gamevault/internal/stats"
	"github.com/gamevault/gamevault/internal/user"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := migrations.Up(ctx, pool); err != nil {
			return err
		}
		slog.Info("database migrations applied")
	}

	userRepo := user.NewRepository(pool)
	gameRepo := game.NewRepository(pool)
	sessionRepo := playsession.NewRepository(pool)

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	codec, err := auth.NewTokenCodec([]byte(cfg.SecretKey))
	if err != nil {
		return fmt.Errorf("creating token codec: %w", err)
	}

	validator, err := auth.NewCredentialValidator(userRepo, hasher)
	if err != nil {
		return fmt.Errorf("creating credential validator: %w", err)
	}

	authService := auth.NewService(validator, codec, hasher, auth.WithSecureCookie(cfg.CookieSecure))

	created, err := authService.BootstrapSuperuser(ctx, userRepo, cfg.SuperuserEmail, cfg.SuperuserPassword)
	if err != nil {
		return fmt.Errorf("bootstrapping superuser: %w", err)
	}
	if !created && cfg.SuperuserEmail != "" {
		slog.Debug("superuser bootstrap skipped; users already exist")
	}

	go stats.New(userRepo, sessionRepo, cfg.StatsInterval).Start(ctx)

	router := api.NewRouter(api.RouterDeps{
		DBPinger:      pool,
		Version:       cfg.Version,
		OpenAPISpec:   specpkg.OpenAPISpec,
		AuthService:   authService,
		Authenticator: auth.NewAuthenticator(codec, userRepo),
		Policy:        auth.NewAccessPolicy(),
		Hasher:        hasher,
		UserRepo:      userRepo,
		GameRepo:      gameRepo,
		SessionRepo:   sessionRepo,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting gamevault server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-serverErr:
		return fmt.Errorf("serving http: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
