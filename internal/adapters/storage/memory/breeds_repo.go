package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"rabbit-pedigree/internal/domain/breeds"
)

type pairKey struct {
	a, b int64
}

type breedRepo struct {
	mu     sync.RWMutex
	breeds map[int64]breeds.Breed
	pairs  map[pairKey]breeds.Compatibility
}

func NewBreedRepo() breeds.Repository {
	return &breedRepo{
		breeds: make(map[int64]breeds.Breed),
		pairs:  make(map[pairKey]breeds.Compatibility),
	}
}

func (r *breedRepo) UpsertBreed(ctx context.Context, b breeds.Breed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID <= 0 {
		return errors.New("breed id required")
	}
	r.breeds[b.ID] = b
	return nil
}

func (r *breedRepo) ListBreeds(ctx context.Context) ([]breeds.Breed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]breeds.Breed, 0, len(r.breeds))
	for _, b := range r.breeds {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *breedRepo) UpsertPair(ctx context.Context, c breeds.Compatibility) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c = c.Normalized()
	c.ExpectedTraits = append([]string(nil), c.ExpectedTraits...)
	r.pairs[pairKey{c.BreedA, c.BreedB}] = c
	return nil
}

func (r *breedRepo) GetPair(ctx context.Context, a, b int64) (breeds.Compatibility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, b = breeds.PairKey(a, b)
	c, ok := r.pairs[pairKey{a, b}]
	if !ok {
		return breeds.Compatibility{}, breeds.ErrNotFound
	}
	c.ExpectedTraits = append([]string(nil), c.ExpectedTraits...)
	return c, nil
}

func (r *breedRepo) ListPairs(ctx context.Context) ([]breeds.Compatibility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]breeds.Compatibility, 0, len(r.pairs))
	for _, c := range r.pairs {
		c.ExpectedTraits = append([]string(nil), c.ExpectedTraits...)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BreedA != out[j].BreedA {
			return out[i].BreedA < out[j].BreedA
		}
		return out[i].BreedB < out[j].BreedB
	})
	return out, nil
}
