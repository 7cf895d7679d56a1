package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/importguess/internal/config"
	"github.com/JonMunkholm/importguess/internal/core"
	"github.com/JonMunkholm/importguess/internal/core/models"
	"github.com/JonMunkholm/importguess/internal/logging"
	"github.com/JonMunkholm/importguess/internal/store"
	"github.com/JonMunkholm/importguess/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"database", cfg.Database.Enabled(),
		"redis", cfg.Redis.Enabled(),
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()
	deps := core.Dependencies{Currencies: models.CurrencySymbols()}

	if cfg.Database.Enabled() {
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := store.Migrate(ctx, pool); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		added, err := store.SeedCurrencies(ctx, pool, models.Currencies)
		if err != nil {
			slog.Error("failed to seed currencies", "error", err)
			os.Exit(1)
		}
		if added > 0 {
			slog.Info("currencies seeded", "count", added)
		}

		deps.Currencies = store.NewCurrencyStore(pool)
		deps.Mappings = store.NewMappingStore(pool)
		deps.Sink = store.NewPostgresSink(pool)
		deps.Audit = store.NewAuditStore(pool)
	} else {
		slog.Warn("DATABASE_URL not set, keeping mappings, audit log and imported rows in memory")
	}

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	if cfg.Redis.Enabled() {
		client, err := store.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		deps.Sessions = store.NewRedisSessions(client, cfg.Redis.KeyPrefix, cfg.Import.SessionTTL)
		slog.Info("sessions stored in redis", "prefix", cfg.Redis.KeyPrefix)
	} else {
		sessions := core.NewMemorySessions(cfg.Import.SessionTTL)
		deps.Sessions = sessions
		go core.RunJanitor(jobCtx, sessions, cfg.Import.JanitorInterval)
	}

	service := core.NewService(cfg.Import, deps)
	slog.Info("models registered", "count", core.ModelCount())

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if active := service.ActiveImports(); active > 0 {
			slog.Info("waiting for imports to complete", "active", active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-shutdownDone
	slog.Info("server stopped")
}
