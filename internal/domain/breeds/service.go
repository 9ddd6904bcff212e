package breeds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rabbit-pedigree/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("breed compatibility not found")
)

type Service struct {
	repo Repository
	log  logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo: repo,
		log:  log.With(map[string]any{"component": "breeds"}),
	}
}

// Seed carga una tabla completa (upsert, idempotente).
func (s *Service) Seed(ctx context.Context, t Table) error {
	for _, b := range t.breeds() {
		if err := s.repo.UpsertBreed(ctx, b); err != nil {
			return fmt.Errorf("seed breed %d: %w", b.ID, err)
		}
	}
	for _, c := range t.compatibilities() {
		if err := s.repo.UpsertPair(ctx, c); err != nil {
			return fmt.Errorf("seed pair %d-%d: %w", c.BreedA, c.BreedB, err)
		}
	}

	s.log.Info("breed table seeded", map[string]any{
		"breeds": len(t.Breeds),
		"pairs":  len(t.Pairs),
	})
	return nil
}

func (s *Service) UpsertBreed(ctx context.Context, b Breed) error {
	b.Name = strings.TrimSpace(b.Name)
	if b.ID <= 0 || b.Name == "" {
		return ErrInvalidInput
	}
	return s.repo.UpsertBreed(ctx, b)
}

func (s *Service) ListBreeds(ctx context.Context) ([]Breed, error) {
	return s.repo.ListBreeds(ctx)
}

func (s *Service) ListPairs(ctx context.Context) ([]Compatibility, error) {
	return s.repo.ListPairs(ctx)
}

// Get devuelve la entrada del par (orden indistinto) o ErrNotFound.
func (s *Service) Get(ctx context.Context, a, b int64) (Compatibility, error) {
	if a <= 0 || b <= 0 || a == b {
		return Compatibility{}, ErrInvalidInput
	}
	lo, hi := PairKey(a, b)
	return s.repo.GetPair(ctx, lo, hi)
}

// Lookup es el enriquecimiento opcional del veredicto de cruza: solo aplica
// cuando ambas razas son conocidas y distintas. La falta de entrada no es error.
func (s *Service) Lookup(ctx context.Context, a, b *int64) (*Compatibility, error) {
	if a == nil || b == nil || *a == *b {
		return nil, nil
	}
	c, err := s.Get(ctx, *a, *b)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
