package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"rabbit-pedigree/internal/domain/animals"

	"gopkg.in/yaml.v3"
)

// herdFile es el formato de --herd:
//
//	animals:
//	  - id: 1
//	    name: Bruno
//	    gender: male
//	    breed_id: 1
//	  - id: 3
//	    name: Copo
//	    gender: male
//	    sire: 1
//	    dam: 2
type herdFile struct {
	Animals []herdAnimal `yaml:"animals"`
}

type herdAnimal struct {
	ID      int64          `yaml:"id"`
	Name    string         `yaml:"name"`
	Gender  animals.Gender `yaml:"gender"`
	BreedID *int64         `yaml:"breed_id"`
	Sire    *int64         `yaml:"sire"`
	Dam     *int64         `yaml:"dam"`
	Status  animals.Status `yaml:"status"`
}

func loadHerdFile(path string) (herdFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return herdFile{}, fmt.Errorf("open herd file: %w", err)
	}
	defer f.Close()
	return loadHerd(f)
}

func loadHerd(r io.Reader) (herdFile, error) {
	var h herdFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&h); err != nil && err != io.EOF {
		return herdFile{}, fmt.Errorf("decode herd: %w", err)
	}

	seen := make(map[int64]struct{}, len(h.Animals))
	for _, a := range h.Animals {
		if a.ID <= 0 {
			return herdFile{}, fmt.Errorf("herd animal %q: id must be positive", a.Name)
		}
		if _, dup := seen[a.ID]; dup {
			return herdFile{}, fmt.Errorf("herd animal %d: duplicate id", a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	return h, nil
}

// register da de alta el rodeo en orden (padres antes que hijos) para que
// el servicio calcule la ancestry. Devuelve id del archivo -> id asignado.
func (h herdFile) register(ctx context.Context, svc *animals.Service) (map[int64]int64, error) {
	byID := make(map[int64]herdAnimal, len(h.Animals))
	for _, a := range h.Animals {
		byID[a.ID] = a
	}

	pending := make([]int64, 0, len(byID))
	for id := range byID {
		pending = append(pending, id)
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i] < pending[j] })

	assigned := make(map[int64]int64, len(byID))
	mapParent := func(p *int64) (*int64, bool, error) {
		if p == nil {
			return nil, true, nil
		}
		if _, ok := byID[*p]; !ok {
			return nil, false, fmt.Errorf("parent %d is not in the herd", *p)
		}
		got, ok := assigned[*p]
		if !ok {
			return nil, false, nil
		}
		return &got, true, nil
	}

	for len(pending) > 0 {
		next := pending[:0:0]
		for _, id := range pending {
			a := byID[id]
			sire, okS, err := mapParent(a.Sire)
			if err != nil {
				return nil, fmt.Errorf("herd animal %d: %w", id, err)
			}
			dam, okD, err := mapParent(a.Dam)
			if err != nil {
				return nil, fmt.Errorf("herd animal %d: %w", id, err)
			}
			if !okS || !okD {
				next = append(next, id)
				continue
			}

			created, err := svc.Register(ctx, animals.RegisterInput{
				Name:           a.Name,
				Gender:         a.Gender,
				BreedID:        a.BreedID,
				ParentMaleID:   sire,
				ParentFemaleID: dam,
				Status:         a.Status,
			})
			if err != nil {
				return nil, fmt.Errorf("herd animal %d: %w", id, err)
			}
			assigned[id] = created.ID
		}

		if len(next) == len(pending) {
			return nil, fmt.Errorf("herd has a lineage cycle involving animal %d", next[0])
		}
		pending = next
	}
	return assigned, nil
}
