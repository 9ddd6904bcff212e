package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"rabbit-pedigree/internal/domain/breeding"
)

type pairingRepo struct {
	mu   sync.RWMutex
	byID map[string]breeding.Pairing
}

func NewPairingRepo() breeding.PairingRepository {
	return &pairingRepo{
		byID: make(map[string]breeding.Pairing),
	}
}

func (r *pairingRepo) Create(ctx context.Context, p breeding.Pairing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("pairing id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pairing already exists")
	}

	r.byID[p.ID] = p
	return nil
}

func (r *pairingRepo) List(ctx context.Context, filter breeding.PairingFilter) ([]breeding.Pairing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = breeding.DefaultPairingLimit
	}

	out := make([]breeding.Pairing, 0)
	for _, p := range r.byID {
		if filter.AnimalID != 0 && p.MaleID != filter.AnimalID && p.FemaleID != filter.AnimalID {
			continue
		}
		out = append(out, p)
	}

	// Más reciente primero; desempate por id para orden estable.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PairedAt.Equal(out[j].PairedAt) {
			return out[i].PairedAt.After(out[j].PairedAt)
		}
		return out[i].ID < out[j].ID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
