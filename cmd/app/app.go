package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/scoutcamp/campo/internal/api"
	"github.com/scoutcamp/campo/internal/config"
	"github.com/scoutcamp/campo/internal/db"
	"github.com/scoutcamp/campo/internal/logger"
)

const (
	configPath      = "./cmd/app/config.yml"
	shutdownTimeout = 10 * time.Second
)

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	if err = logger.SetLevel(conf.Log.Level); err != nil {
		return fmt.Errorf("failed to set log level -> %w", err)
	}

	conn, err := openDB(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}
	defer closeDB(conn)

	s, err := api.NewServer(conf, conn)
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}

	watchConfig()

	srv := &http.Server{
		Addr:              ":" + conf.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openDB prefers DATABASE_URL (PostgreSQL) over the configured driver.
func openDB(conf *config.AppConfig) (*gorm.DB, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return db.OpenPostgresWithURL(dbURL)
	}

	return db.Open(conf)
}

func closeDB(conn *gorm.DB) {
	sqlDB, err := conn.DB()
	if err != nil {
		return
	}
	if err = sqlDB.Close(); err != nil {
		zap.L().Warn("closing database", zap.Error(err))
	}
}

// watchConfig applies log level changes from the config file while running.
func watchConfig() {
	err := config.Watch(configPath,
		func(conf *config.AppConfig) {
			if err := logger.SetLevel(conf.Log.Level); err != nil {
				zap.L().Warn("ignoring log level from config", zap.Error(err))
			}
		},
		func(err error) {
			zap.L().Warn("config reload failed", zap.Error(err))
		},
	)
	if err != nil {
		zap.L().Info("config file not watched", zap.Error(err))
	}
}
