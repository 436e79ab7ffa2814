package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/diyorbekkd/thDent/cache"
	"github.com/diyorbekkd/thDent/config"
	"github.com/diyorbekkd/thDent/database"
	"github.com/diyorbekkd/thDent/notifications"
	"github.com/diyorbekkd/thDent/repositories"
	"github.com/diyorbekkd/thDent/routes"
	"github.com/diyorbekkd/thDent/services"
	"github.com/diyorbekkd/thDent/utils"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	utils.InitLogger("thdent", cfg.Env, cfg.LogFile)

	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to initialize store")
	}

	deps := routes.Dependencies{
		Store:    store,
		Locker:   services.NewLocalLocker(),
		Notifier: notifications.FromConfig(cfg),
		Clock:    utils.SystemClock,
	}

	// Redis is optional: with it, locks and the patient cache are shared
	// between instances.
	if cfg.Redis.URL != "" {
		client, err := database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Redis client")
		}
		defer client.Close()
		database.MonitorRedisPool(client)

		c, err := cache.NewCache(client, "thdent:")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize cache")
		}
		deps.Cache = c
		deps.Locker = database.NewRedisLocker(client)
	}

	svc := routes.NewServices(cfg, deps)
	handler := routes.SetupRoutes(cfg, deps, svc)

	// Configure and start the server
	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		log.Info().Str("addr", srv.Addr).Str("driver", cfg.StoreDriver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listenAndServe failed")
		}
	}()

	// Graceful shutdown handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	log.Info().Msg("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	wg.Wait()

	// Let pending receipts go out before the store closes.
	svc.Ledger.Wait()
	if err := store.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close store")
	}
	log.Info().Msg("server exited gracefully")
}

func openStore(ctx context.Context, cfg *config.AppConfig) (repositories.Store, error) {
	opts := database.Options{
		Debug:         cfg.IsDevelopment(),
		SQLMigrations: cfg.Migrations,
	}
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.OpenPostgres(ctx, cfg.DBURL, opts)
		if err != nil {
			return nil, err
		}
		return repositories.NewGormStore(db), nil
	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath, opts)
		if err != nil {
			return nil, err
		}
		return repositories.NewGormStore(db), nil
	default:
		log.Warn().Msg("using the in-memory store, data is lost on exit")
		return repositories.NewMemoryStore(), nil
	}
}
