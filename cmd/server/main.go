package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nulzo/app-config-api/internal/config"
	"github.com/nulzo/app-config-api/internal/platform/logger"
	"github.com/nulzo/app-config-api/internal/platform/otel"
	"github.com/nulzo/app-config-api/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Get().Fatal("Failed to load config", zap.Error(err))
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logger.Initialize(logCfg)
	log := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := otel.InitTracer(ctx, cfg.Tracing.ServiceName, cfg.Version, log, os.Stdout)
		if err != nil {
			log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error("Failed to flush traces", zap.Error(err))
			}
		}()
	}

	log.Info("Loaded application settings",
		zap.String("env", cfg.Server.Env),
		zap.Strings("keys", cfg.Settings().Keys()),
	)

	srv := server.New(cfg, log, cfg)
	if err := srv.Run(ctx); err != nil {
		log.Error("Server failed", zap.Error(err))
		return
	}

	log.Info("Server stopped")
}
