package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kdimtricp/geoclips/internal/api"
	"github.com/kdimtricp/geoclips/internal/config"
	"github.com/kdimtricp/geoclips/internal/database"
	"github.com/kdimtricp/geoclips/internal/logging"
	"github.com/kdimtricp/geoclips/web"
	"go.uber.org/zap"
)

const readHeaderTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.RunMigrations {
		applied, err := db.RunMigrations(ctx)
		if err != nil {
			return err
		}
		for _, m := range applied {
			logger.Info("applied migration", zap.Int64("version", m.Version), zap.String("name", m.Name))
		}
	}

	app := &api.App{
		Store:             database.NewVideoRepository(db),
		DB:                db,
		Logger:            logger,
		Static:            web.Static(cfg.Server.StaticDir),
		MaxUploadSize:     cfg.Upload.MaxFileSize,
		StrictCoordinates: cfg.Upload.StrictCoordinates,
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.NewRouter(app),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger.Info("server starting",
		zap.String("addr", "http://localhost:"+cfg.Server.Port),
		zap.String("db_type", cfg.Database.Type),
		zap.Int("db_max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int64("max_upload_size", cfg.Upload.MaxFileSize),
		zap.Bool("strict_coordinates", cfg.Upload.StrictCoordinates),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped gracefully")
	return nil
}
