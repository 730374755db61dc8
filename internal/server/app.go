// Package server initializes and runs the application server: it opens the
// database, runs migrations, builds the object store and services, and serves
// the HTTP API with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/filecove/filecove/internal/logging"
	"github.com/filecove/filecove/internal/server/config"
	"github.com/filecove/filecove/internal/server/httpapi"
	"github.com/filecove/filecove/internal/server/objectstore"
	"github.com/filecove/filecove/internal/server/repositories/repomanager"
	"github.com/filecove/filecove/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler *httpapi.Handler
}

func newLogger(env string) logging.Logger {
	var h slog.Handler
	if env == "production" {
		h = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		h = tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelDebug})
	}
	return logging.NewSlogLogger(slog.New(h))
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := newLogger(cfg.Env)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := objectstore.NewS3Store(ctx, objectstore.Config{
		Region:           cfg.S3Region,
		AccessKeyID:      cfg.S3AccessKeyID,
		SecretAccessKey:  cfg.S3SecretAccessKey,
		Endpoint:         cfg.S3Endpoint,
		Bucket:           cfg.S3Bucket,
		AllowedMIMETypes: cfg.AllowedMIMETypes,
	})
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	us := services.NewUserService(db, rm, store, cfg)
	fs := services.NewFileService(db, rm, store, cfg)
	fos := services.NewFolderService(db, rm, store, cfg)
	ss := services.NewShareService(db, rm, store, cfg)

	handler := httpapi.NewHandler(us, fs, fos, ss, []byte(cfg.SecretKey), logger)

	return &App{config: cfg, logger: logger, db: db, handler: handler}, nil
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr, "env", app.config.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	if err := app.db.Close(); err != nil {
		return fmt.Errorf("db close error: %w", err)
	}

	return nil
}
