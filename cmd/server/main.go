// file: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sprintdeck/internal/cache"
	"sprintdeck/internal/config"
	"sprintdeck/internal/database"
	"sprintdeck/internal/events"
	"sprintdeck/internal/repositories"
	"sprintdeck/internal/response"
	"sprintdeck/internal/router"
	"sprintdeck/internal/services"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("Failed to load configuration", zap.Error(err))
	}

	logger := buildLogger(cfg)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if err := services.ValidateBadgeCatalog(); err != nil {
		return err
	}

	db, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return err
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c, err = cache.New(cfg.Cache.RedisURL, logger)
		if err != nil {
			return err
		}
	} else {
		c = cache.NewMemoryCache()
	}
	defer c.Close()

	bus := events.NewInMemoryBus(logger)
	defer bus.Close()

	repos := repositories.NewCollection(db, logger)
	svcs := services.NewCollection(repos, c, bus, cfg, logger)

	builderCfg := response.DefaultConfig()
	builderCfg.MaskInternalErrors = cfg.IsProduction()
	builder := response.NewBuilder(builderCfg, logger)

	handler := router.New(router.Dependencies{
		Services: svcs,
		DB:       db,
		Builder:  builder,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening",
			zap.String("addr", server.Addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}

func buildLogger(cfg *config.Config) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		logger = zap.NewExample()
	}
	return logger
}
