package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"

	"github.com/jwpark-dev/cardtable/internal/api"
	"github.com/jwpark-dev/cardtable/internal/factory"
	redisstorage "github.com/jwpark-dev/cardtable/internal/storage/redis"
)

// serverEnv is the environment configuration for the server process
type serverEnv struct {
	StorageType   string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL      string `env:"REDIS_URL"`
	TransportType string `env:"TRANSPORT_TYPE" envDefault:"loopback"`
	RelayEndpoint string `env:"RELAY_ENDPOINT" envDefault:"127.0.0.1:9400"`
	RelayRegion   string `env:"RELAY_REGION" envDefault:"auto"`
}

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var envCfg serverEnv
	if err := env.Parse(&envCfg); err != nil {
		logger.Error("failed to parse environment", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg := factory.Config{
		Logger:        logger,
		StorageType:   envCfg.StorageType,
		TransportType: envCfg.TransportType,
		RelayEndpoint: envCfg.RelayEndpoint,
	}
	cfg.SessionConfig.Region = envCfg.RelayRegion

	if cfg.StorageType == factory.StorageTypeRedis {
		if envCfg.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = envCfg.RedisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bootstrap without blocking startup; the lobby's bus subscription is
	// opened at construction, so its event loop can start in any order
	go app.Orchestrator.Run(ctx)
	go func() {
		if err := app.Bootstrapper.Initialize(ctx); err != nil {
			logger.Error("bootstrap failed", slog.String("error", err.Error()))
		}
	}()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		Orchestrator: app.Orchestrator,
		Identity:     app.Identity,
		Bus:          app.Bus,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	server := api.NewServer(router, serverConfig, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	app.Bus.Close()
	logger.Info("server stopped")
}
