package animals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rabbit-pedigree/internal/platform/logger"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("animal not found")
	ErrInvalidParent = errors.New("invalid parent")
	ErrLineageCycle  = errors.New("lineage cycle")
)

const (
	DefaultPedigreeGenerations = 4
	DefaultMaxGenerations      = 8
)

type Options struct {
	Logger         logger.Logger
	MaxGenerations int
}

type Service struct {
	repo           Repository
	log            logger.Logger
	maxGenerations int
	now            func() time.Time
}

func NewService(repo Repository, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	maxGen := opts.MaxGenerations
	if maxGen <= 0 {
		maxGen = DefaultMaxGenerations
	}
	return &Service{
		repo:           repo,
		log:            log.With(map[string]any{"component": "animals"}),
		maxGenerations: maxGen,
		now:            time.Now,
	}
}

type RegisterInput struct {
	Name           string
	Gender         Gender
	BreedID        *int64
	ParentMaleID   *int64
	ParentFemaleID *int64
	Status         Status
	BirthDate      *time.Time
	Notes          string
}

// Register da de alta un animal. Si trae padres, valida que existan y tengan
// el sexo correcto, y calcula Ancestry a partir de ellos.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Animal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Animal{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !in.Gender.Valid() {
		return Animal{}, fmt.Errorf("%w: gender must be male or female", ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	if !status.Valid() {
		return Animal{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	sire, dam, err := s.resolveParents(ctx, in.ParentMaleID, in.ParentFemaleID)
	if err != nil {
		return Animal{}, err
	}

	now := s.now()
	a := Animal{
		Name:           name,
		Gender:         in.Gender,
		BreedID:        in.BreedID,
		ParentMaleID:   in.ParentMaleID,
		ParentFemaleID: in.ParentFemaleID,
		Ancestry:       buildAncestry(sire, dam),
		Status:         status,
		BirthDate:      in.BirthDate,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return Animal{}, err
	}

	s.log.Info("animal registered", map[string]any{
		"animal_id": created.ID,
		"gender":    string(created.Gender),
		"ancestors": len(created.Ancestry),
	})
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Animal, error) {
	if id <= 0 {
		return Animal{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListByGenderStatus es la consulta que alimenta las listas de selección.
// Status vacío = active.
func (s *Service) ListByGenderStatus(ctx context.Context, gender Gender, status Status) ([]Animal, error) {
	if !gender.Valid() {
		return nil, fmt.Errorf("%w: gender must be male or female", ErrInvalidInput)
	}
	if status == "" {
		status = StatusActive
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.repo.ListByGenderStatus(ctx, gender, status)
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (Animal, error) {
	if !status.Valid() {
		return Animal{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if a.Status == status {
		return a, nil
	}

	a.Status = status
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// SetParents reemplaza sire/dam de un animal y recalcula Ancestry para él y
// todos sus descendientes, de modo que el campo desnormalizado no quede
// desfasado respecto del linaje.
func (s *Service) SetParents(ctx context.Context, id int64, sireID, damID *int64) (Animal, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if (sireID != nil && *sireID == id) || (damID != nil && *damID == id) {
		return Animal{}, fmt.Errorf("%w: animal %d cannot be its own parent", ErrLineageCycle, id)
	}

	sire, dam, err := s.resolveParents(ctx, sireID, damID)
	if err != nil {
		return Animal{}, err
	}

	order, desc, err := s.descendants(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	for _, p := range []*Animal{sire, dam} {
		if p == nil {
			continue
		}
		if _, ok := desc[p.ID]; ok {
			return Animal{}, fmt.Errorf("%w: %d descends from %d", ErrLineageCycle, p.ID, id)
		}
	}

	now := s.now()
	a.ParentMaleID = sireID
	a.ParentFemaleID = damID
	a.Ancestry = buildAncestry(sire, dam)
	a.UpdatedAt = now

	batch, err := s.propagateAncestry(ctx, a, order, desc, now)
	if err != nil {
		return Animal{}, err
	}
	if err := s.writeLineage(ctx, batch); err != nil {
		return Animal{}, err
	}

	s.log.Info("lineage updated", map[string]any{
		"animal_id":   a.ID,
		"descendants": len(batch) - 1,
	})
	return a, nil
}

// propagateAncestry recalcula Ancestry de los descendientes procesando cada
// uno recién cuando sus padres dentro del subárbol ya fueron recalculados.
// Devuelve el lote a escribir: la raíz primero y luego padres antes que hijos.
func (s *Service) propagateAncestry(ctx context.Context, root Animal, order []int64, desc map[int64]Animal, now time.Time) ([]Animal, error) {
	done := map[int64]Animal{root.ID: root}
	batch := []Animal{root}

	lookup := func(id *int64) (*Animal, error) {
		if id == nil {
			return nil, nil
		}
		if a, ok := done[*id]; ok {
			return &a, nil
		}
		a, err := s.repo.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		return &a, nil
	}
	ready := func(c Animal) bool {
		for _, pid := range []*int64{c.ParentMaleID, c.ParentFemaleID} {
			if pid == nil {
				continue
			}
			if _, inSubtree := desc[*pid]; inSubtree {
				if _, ok := done[*pid]; !ok {
					return false
				}
			}
		}
		return true
	}

	pending := order
	for len(pending) > 0 {
		next := make([]int64, 0, len(pending))
		progressed := false

		for _, cid := range pending {
			c := desc[cid]
			if !ready(c) {
				next = append(next, cid)
				continue
			}

			sire, err := lookup(c.ParentMaleID)
			if err != nil {
				return nil, err
			}
			dam, err := lookup(c.ParentFemaleID)
			if err != nil {
				return nil, err
			}

			c.Ancestry = buildAncestry(sire, dam)
			c.UpdatedAt = now
			done[c.ID] = c
			batch = append(batch, c)
			progressed = true
		}

		if !progressed {
			return nil, ErrLineageCycle
		}
		pending = next
	}

	return batch, nil
}

// writeLineage persiste el lote. Sin LineageWriter, un fallo a mitad de camino
// deja descendientes con Ancestry viejo; se loguean para poder corregirlos.
func (s *Service) writeLineage(ctx context.Context, batch []Animal) error {
	if lw, ok := s.repo.(LineageWriter); ok {
		return lw.UpdateLineage(ctx, batch)
	}

	for i, a := range batch {
		if err := s.repo.Update(ctx, a); err != nil {
			unsynced := make([]int64, 0, len(batch)-i)
			for _, rest := range batch[i:] {
				unsynced = append(unsynced, rest.ID)
			}
			s.log.Error("lineage update interrupted", map[string]any{
				"animal_id": batch[0].ID,
				"failed_id": a.ID,
				"unsynced":  unsynced,
				"err":       err,
			})
			return err
		}
	}
	return nil
}

// descendants recorre hijos en BFS. Devuelve el orden de visita y el set (sin la raíz).
func (s *Service) descendants(ctx context.Context, id int64) ([]int64, map[int64]Animal, error) {
	order := make([]int64, 0)
	seen := map[int64]Animal{}
	queue := []int64{id}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		children, err := s.repo.ListChildren(ctx, cur)
		if err != nil {
			return nil, nil, err
		}
		for _, c := range children {
			if c.ID == id {
				return nil, nil, fmt.Errorf("%w: %d is its own descendant", ErrLineageCycle, id)
			}
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = c
			order = append(order, c.ID)
			queue = append(queue, c.ID)
		}
	}
	return order, seen, nil
}

func (s *Service) resolveParents(ctx context.Context, sireID, damID *int64) (*Animal, *Animal, error) {
	var sire, dam *Animal

	if sireID != nil {
		a, err := s.repo.GetByID(ctx, *sireID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, nil, fmt.Errorf("%w: sire %d not found", ErrInvalidParent, *sireID)
			}
			return nil, nil, err
		}
		if a.Gender != GenderMale {
			return nil, nil, fmt.Errorf("%w: sire %d is not male", ErrInvalidParent, *sireID)
		}
		sire = &a
	}

	if damID != nil {
		a, err := s.repo.GetByID(ctx, *damID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, nil, fmt.Errorf("%w: dam %d not found", ErrInvalidParent, *damID)
			}
			return nil, nil, err
		}
		if a.Gender != GenderFemale {
			return nil, nil, fmt.Errorf("%w: dam %d is not female", ErrInvalidParent, *damID)
		}
		dam = &a
	}

	return sire, dam, nil
}

// buildAncestry: sire, ancestros del sire, dam, ancestros de la dam; sin duplicados.
func buildAncestry(sire, dam *Animal) []string {
	out := make([]string, 0)
	seen := map[string]struct{}{}
	add := func(k string) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}

	for _, p := range []*Animal{sire, dam} {
		if p == nil {
			continue
		}
		add(AncestryKey(p.ID))
		for _, k := range p.Ancestry {
			if strings.TrimSpace(k) == "" {
				continue
			}
			add(k)
		}
	}
	return out
}
