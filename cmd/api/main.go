package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"questionnaire-app/internal/adapters/storage/memory"
	pg "questionnaire-app/internal/adapters/storage/postgres"
	"questionnaire-app/internal/adapters/storage/sqlite"
	"questionnaire-app/internal/domain/responses"
	"questionnaire-app/internal/platform/config"
	"questionnaire-app/internal/platform/logger"
	"questionnaire-app/internal/router"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	log := logger.NewFromEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", map[string]any{"err": err.Error()})
		return err
	}
	log = logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	repo, closeStore, err := openStore(cfg)
	if err != nil {
		log.Error("storage unavailable", map[string]any{"storage": cfg.Storage, "err": err.Error()})
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("closing storage", map[string]any{"err": err.Error()})
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Error("ensure schema", map[string]any{"err": err.Error()})
		return err
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router.NewRouter(router.Options{Repo: repo, Logger: log}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "storage": cfg.Storage})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"err": err.Error()})
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore abre el backend configurado; el cierre corre en todos los caminos de salida de run.
func openStore(cfg config.Config) (responses.Repository, func() error, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Storage {
	case config.StorageMemory:
		return memory.NewResponsesRepo(), func() error { return nil }, nil
	case config.StoragePostgres:
		if db, err = pg.Open(cfg.DBDSN, pg.Pool{
			MaxOpenConns:    cfg.DBPool.MaxOpenConns,
			MaxIdleConns:    cfg.DBPool.MaxIdleConns,
			ConnMaxLifetime: cfg.DBPool.ConnMaxLifetime,
			PingTimeout:     cfg.DBPool.PingTimeout,
		}); err != nil {
			return nil, nil, err
		}
		return pg.NewResponsesRepo(db), db.Close, nil
	default:
		if db, err = sqlite.Open(cfg.DBPath); err != nil {
			return nil, nil, err
		}
		return sqlite.NewResponsesRepo(db), db.Close, nil
	}
}
