package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"rabbit-pedigree/internal/domain/animals"
)

type animalRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]animals.Animal
}

func NewAnimalRepo() animals.Repository {
	return &animalRepo{
		byID: make(map[int64]animals.Animal),
	}
}

func (r *animalRepo) Create(ctx context.Context, a animals.Animal) (animals.Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	a.ID = r.nextID

	r.byID[a.ID] = cloneAnimal(a)
	return cloneAnimal(a), nil
}

func (r *animalRepo) Update(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID <= 0 {
		return errors.New("animal id required")
	}
	if _, exists := r.byID[a.ID]; !exists {
		return animals.ErrNotFound
	}
	r.byID[a.ID] = cloneAnimal(a)
	return nil
}

// UpdateLineage valida el lote completo antes de escribir: o se aplica todo o nada.
func (r *animalRepo) UpdateLineage(ctx context.Context, batch []animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range batch {
		if _, exists := r.byID[a.ID]; !exists {
			return animals.ErrNotFound
		}
	}
	for _, a := range batch {
		r.byID[a.ID] = cloneAnimal(a)
	}
	return nil
}

func (r *animalRepo) GetByID(ctx context.Context, id int64) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return cloneAnimal(a), nil
}

func (r *animalRepo) ListByGenderStatus(ctx context.Context, gender animals.Gender, status animals.Status) ([]animals.Animal, error) {
	return r.filter(func(a animals.Animal) bool {
		return a.Gender == gender && a.Status == status
	}), nil
}

func (r *animalRepo) ListChildren(ctx context.Context, parentID int64) ([]animals.Animal, error) {
	return r.filter(func(a animals.Animal) bool {
		return (a.ParentMaleID != nil && *a.ParentMaleID == parentID) ||
			(a.ParentFemaleID != nil && *a.ParentFemaleID == parentID)
	}), nil
}

func (r *animalRepo) filter(keep func(animals.Animal) bool) []animals.Animal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if keep(a) {
			out = append(out, cloneAnimal(a))
		}
	}

	// Orden de creación: los ids son secuenciales.
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// cloneAnimal evita que el caller mute slices/punteros guardados en el map.
func cloneAnimal(a animals.Animal) animals.Animal {
	cp := a
	if a.Ancestry != nil {
		cp.Ancestry = append([]string(nil), a.Ancestry...)
	}
	cp.BreedID = cloneID(a.BreedID)
	cp.ParentMaleID = cloneID(a.ParentMaleID)
	cp.ParentFemaleID = cloneID(a.ParentFemaleID)
	if a.BirthDate != nil {
		t := *a.BirthDate
		cp.BirthDate = &t
	}
	return cp
}

func cloneID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
