package animals

import (
	"context"
	"errors"
	"sort"
)

// PedigreeNode es un nodo del árbol genealógico (hacia atrás: sire y dam).
type PedigreeNode struct {
	Animal     Animal
	Generation int
	Sire       *PedigreeNode
	Dam        *PedigreeNode
}

// Pedigree arma el árbol hasta `generations` generaciones de ancestros.
// generations <= 0 usa el default; se recorta al máximo configurado.
func (s *Service) Pedigree(ctx context.Context, id int64, generations int) (PedigreeNode, error) {
	if generations <= 0 {
		generations = DefaultPedigreeGenerations
	}
	if generations > s.maxGenerations {
		generations = s.maxGenerations
	}

	root, err := s.Get(ctx, id)
	if err != nil {
		return PedigreeNode{}, err
	}

	// memo por llamada: en pedigrees con endogamia el mismo ancestro aparece varias veces
	memo := map[int64]Animal{root.ID: root}
	load := func(id int64) (Animal, bool, error) {
		if a, ok := memo[id]; ok {
			return a, true, nil
		}
		a, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Animal{}, false, nil
			}
			return Animal{}, false, err
		}
		memo[id] = a
		return a, true, nil
	}

	var build func(a Animal, gen int) (*PedigreeNode, error)
	build = func(a Animal, gen int) (*PedigreeNode, error) {
		n := &PedigreeNode{Animal: a, Generation: gen}
		if gen >= generations {
			return n, nil
		}

		for _, link := range []struct {
			id  *int64
			dst **PedigreeNode
		}{
			{a.ParentMaleID, &n.Sire},
			{a.ParentFemaleID, &n.Dam},
		} {
			if link.id == nil {
				continue
			}
			p, ok, err := load(*link.id)
			if err != nil {
				return nil, err
			}
			if !ok {
				s.log.Warn("pedigree references missing animal", map[string]any{
					"animal_id": a.ID,
					"parent_id": *link.id,
				})
				continue
			}
			child, err := build(p, gen+1)
			if err != nil {
				return nil, err
			}
			*link.dst = child
		}
		return n, nil
	}

	n, err := build(root, 0)
	if err != nil {
		return PedigreeNode{}, err
	}
	return *n, nil
}

// Ancestors recorre el grafo de padres hasta `generations` niveles y devuelve
// el set de ids encontrado. Sirve para auditar el Ancestry desnormalizado.
func (s *Service) Ancestors(ctx context.Context, id int64, generations int) (map[int64]struct{}, error) {
	tree, err := s.Pedigree(ctx, id, generations)
	if err != nil {
		return nil, err
	}

	out := map[int64]struct{}{}
	stack := []*PedigreeNode{tree.Sire, tree.Dam}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		out[n.Animal.ID] = struct{}{}
		stack = append(stack, n.Sire, n.Dam)
	}
	return out, nil
}

// AuditAncestry compara Ancestry con el recorrido real del linaje y devuelve
// los ids que faltan en el campo desnormalizado.
func (s *Service) AuditAncestry(ctx context.Context, id int64) ([]string, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	walked, err := s.Ancestors(ctx, id, s.maxGenerations)
	if err != nil {
		return nil, err
	}

	stored := make(map[string]struct{}, len(a.Ancestry))
	for _, k := range a.Ancestry {
		stored[k] = struct{}{}
	}

	missing := make([]string, 0)
	for aid := range walked {
		k := AncestryKey(aid)
		if _, ok := stored[k]; !ok {
			missing = append(missing, k)
		}
	}
	sortKeys(missing)
	return missing, nil
}

// sortKeys ordena ids numéricos guardados como string.
func sortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
}
