package router

import (
	"context"
	"fmt"
	"net/http"

	_ "rabbit-pedigree/docs"
	"rabbit-pedigree/internal/adapters/storage/graph"
	mem "rabbit-pedigree/internal/adapters/storage/memory"
	pg "rabbit-pedigree/internal/adapters/storage/postgres"
	"rabbit-pedigree/internal/domain/animals"
	"rabbit-pedigree/internal/domain/breeding"
	"rabbit-pedigree/internal/domain/breeds"
	"rabbit-pedigree/internal/middleware"
	"rabbit-pedigree/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger

	// Opcional: si viene, breeds y pairings (y animals si no hay Graph) van a Postgres.
	DB *sqlx.DB

	// Opcional: si viene, los animales viven en el grafo.
	Graph *graph.Store

	// Tabla de razas a cargar al arrancar (nil = sin seed).
	BreedTable *breeds.Table

	MaxGenerations int
}

func NewRouter(ctx context.Context, opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var (
		animalRepo  animals.Repository
		breedRepo   breeds.Repository
		pairingRepo breeding.PairingRepository
	)

	if opts.DB != nil {
		animalRepo = pg.NewAnimalsRepo(opts.DB)
		breedRepo = pg.NewBreedsRepo(opts.DB)
		pairingRepo = pg.NewPairingsRepo(opts.DB)
	} else {
		animalRepo = mem.NewAnimalRepo()
		breedRepo = mem.NewBreedRepo()
		pairingRepo = mem.NewPairingRepo()
	}
	if opts.Graph != nil {
		animalRepo = graph.NewAnimalsRepo(opts.Graph)
	}

	// Services por módulo
	animalsSvc := animals.NewService(animalRepo, animals.Options{
		Logger:         log,
		MaxGenerations: opts.MaxGenerations,
	})
	breedsSvc := breeds.NewService(breedRepo, log)
	breedingSvc := breeding.NewService(animalRepo, breedsSvc, pairingRepo, log)

	if opts.BreedTable != nil {
		if err := breedsSvc.Seed(ctx, *opts.BreedTable); err != nil {
			return nil, fmt.Errorf("seed breeds: %w", err)
		}
	}

	// Rutas por módulo
	animals.RegisterRoutes(r, animalsSvc)
	breeds.RegisterRoutes(r, breedsSvc)
	breeding.RegisterRoutes(r, breedingSvc, log)

	return r, nil
}
