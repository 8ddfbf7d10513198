package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/eventura/client-gateway/internal/api"
	"github.com/eventura/client-gateway/internal/clientcore"
	"github.com/eventura/client-gateway/internal/core/ports"
	"github.com/eventura/client-gateway/internal/infrastructure/config"
	"github.com/eventura/client-gateway/internal/infrastructure/rest"
	"github.com/eventura/client-gateway/internal/infrastructure/store"
	"github.com/eventura/client-gateway/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var rdb *goredis.Client
	stores := clientcore.StoreFactory(func(string) ports.DeviceStore {
		return store.NewMemoryStore()
	})
	if cfg.Redis.Addr != "" {
		var err error
		rdb, err = store.Connect(ctx, store.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer func() { _ = rdb.Close() }()
		stores = func(deviceID string) ports.DeviceStore {
			return store.NewRedisStore(rdb, deviceID)
		}
	} else {
		log.Warn().Msg("redis disabled, device state is in-memory only")
	}

	restCfg := rest.Config{BaseURL: cfg.Backend.BaseURL, Timeout: cfg.Backend.Timeout}
	manager := clientcore.NewManager(stores, restCfg, cfg.DeviceIdleTTL, log)
	go manager.Run(ctx)

	e := api.NewRouter(manager, rdb, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend.BaseURL).Msg("gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("gateway stopped")
}
