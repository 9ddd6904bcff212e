package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rabbit-pedigree/internal/adapters/storage/graph"
	pg "rabbit-pedigree/internal/adapters/storage/postgres"
	"rabbit-pedigree/internal/domain/breeds"
	"rabbit-pedigree/internal/platform/config"
	"rabbit-pedigree/internal/platform/logger"
	"rabbit-pedigree/internal/router"

	"github.com/jmoiron/sqlx"
)

// @title Rabbit Pedigree API
// @version 1.0
// @description Registro de linaje y verificación de compatibilidad de cruzas.
// @BasePath /
func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("invalid config", map[string]any{"err": err})
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	if zl, ok := log.(*logger.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		Logger:         log,
		MaxGenerations: cfg.Pedigree.MaxGenerations,
	}

	// Postgres guarda razas y cruzas aun cuando los animales vayan al grafo.
	if cfg.Storage.DSN != "" && cfg.Storage.Driver != config.DriverMemory {
		db, err := openPostgres(ctx, cfg.Storage.DSN)
		if err != nil {
			log.Error("postgres unavailable", map[string]any{"err": err})
			return err
		}
		defer db.Close()
		opts.DB = db
	}

	if cfg.Storage.Driver == config.DriverNeo4j {
		store, err := graph.Open(ctx, cfg.Storage.Neo4jURI, cfg.Storage.Neo4jUser, cfg.Storage.Neo4jPassword, "")
		if err != nil {
			log.Error("neo4j unavailable", map[string]any{"err": err})
			return err
		}
		defer func() { _ = store.Close(context.Background()) }()
		if err := store.EnsureSchema(ctx); err != nil {
			log.Error("neo4j schema", map[string]any{"err": err})
			return err
		}
		opts.Graph = store
	}

	if cfg.Breeds.File != "" {
		table, err := breeds.LoadTableFile(cfg.Breeds.File)
		if err != nil {
			log.Error("breeds table", map[string]any{"err": err, "file": cfg.Breeds.File})
			return err
		}
		opts.BreedTable = &table
	}

	h, err := router.NewRouter(ctx, opts)
	if err != nil {
		log.Error("router setup failed", map[string]any{"err": err})
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":    srv.Addr,
			"storage": cfg.Storage.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", map[string]any{"err": err})
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down", nil)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", map[string]any{"err": err})
		return err
	}
	return nil
}

func openPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := pg.Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
