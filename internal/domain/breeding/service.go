package breeding

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"rabbit-pedigree/internal/domain/animals"
	"rabbit-pedigree/internal/domain/breeds"
	"rabbit-pedigree/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrIncompatiblePairing = errors.New("incompatible pairing")
)

const (
	DefaultPairingLimit = 50
	MaxPairingLimit     = 200
)

// AnimalReader es lo que el servicio necesita del pedigree store.
type AnimalReader interface {
	GetByID(ctx context.Context, id int64) (animals.Animal, error)
	ListByGenderStatus(ctx context.Context, gender animals.Gender, status animals.Status) ([]animals.Animal, error)
}

// BreedLookup resuelve la entrada de la matriz de razas; (nil, nil) = sin datos.
type BreedLookup interface {
	Lookup(ctx context.Context, a, b *int64) (*breeds.Compatibility, error)
}

type Service struct {
	animals  AnimalReader
	breeds   BreedLookup
	pairings PairingRepository
	log      logger.Logger
	now      func() time.Time
}

// NewService: breeds y pairings pueden ser nil (sin enriquecimiento / sin registro).
func NewService(animalsRepo AnimalReader, breedLookup BreedLookup, pairings PairingRepository, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		animals:  animalsRepo,
		breeds:   breedLookup,
		pairings: pairings,
		log:      log.With(map[string]any{"component": "breeding"}),
		now:      time.Now,
	}
}

// Check resuelve ambos animales y los evalúa. Los errores de lookup se
// devuelven tal cual; el mapeo a FailClosed lo hace el borde (handler/cliente).
func (s *Service) Check(ctx context.Context, maleID, femaleID int64) (Verdict, error) {
	male, female, err := s.resolve(ctx, maleID, femaleID)
	if err != nil {
		return Verdict{}, err
	}

	v := Evaluate(male, female)
	s.enrich(ctx, &v, male, female)
	return v, nil
}

func (s *Service) resolve(ctx context.Context, maleID, femaleID int64) (animals.Animal, animals.Animal, error) {
	var male, female animals.Animal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.animals.GetByID(gctx, maleID)
		if err != nil {
			return fmt.Errorf("lookup male %d: %w", maleID, err)
		}
		male = a
		return nil
	})
	g.Go(func() error {
		a, err := s.animals.GetByID(gctx, femaleID)
		if err != nil {
			return fmt.Errorf("lookup female %d: %w", femaleID, err)
		}
		female = a
		return nil
	})
	if err := g.Wait(); err != nil {
		return animals.Animal{}, animals.Animal{}, err
	}
	return male, female, nil
}

// enrich agrega la compatibilidad de razas si existe. Nunca cambia Compatible.
func (s *Service) enrich(ctx context.Context, v *Verdict, male, female animals.Animal) {
	if s.breeds == nil {
		return
	}
	c, err := s.breeds.Lookup(ctx, male.BreedID, female.BreedID)
	if err != nil {
		s.log.Warn("breed compatibility lookup failed", map[string]any{
			"male_id":   male.ID,
			"female_id": female.ID,
			"err":       err,
		})
		return
	}
	if c == nil {
		return
	}
	v.Breed = &BreedMatch{
		BreedA:         c.BreedA,
		BreedB:         c.BreedB,
		Score:          c.Score,
		ExpectedTraits: append([]string{}, c.ExpectedTraits...),
		Recommended:    c.Recommended,
	}
}

type Candidate struct {
	Animal  animals.Animal
	Verdict Verdict
}

type CandidateSummary struct {
	Total      int
	Compatible int

	// Solo sobre candidatos con entrada en la matriz de razas.
	Scored           int
	MeanBreedScore   float64
	MedianBreedScore float64
}

type CandidateReport struct {
	Male       animals.Animal
	Candidates []Candidate
	Summary    CandidateSummary
}

// Candidates evalúa un macho contra todas las hembras activas.
// Orden: compatibles primero, luego mayor score de raza, luego id.
func (s *Service) Candidates(ctx context.Context, maleID int64) (CandidateReport, error) {
	male, err := s.animals.GetByID(ctx, maleID)
	if err != nil {
		return CandidateReport{}, fmt.Errorf("lookup male %d: %w", maleID, err)
	}
	if male.Gender != animals.GenderMale {
		return CandidateReport{}, fmt.Errorf("%w: animal %d is not male", ErrInvalidInput, maleID)
	}

	females, err := s.animals.ListByGenderStatus(ctx, animals.GenderFemale, animals.StatusActive)
	if err != nil {
		return CandidateReport{}, err
	}

	out := make([]Candidate, 0, len(females))
	scores := make(stats.Float64Data, 0, len(females))
	compatible := 0
	for _, f := range females {
		v := Evaluate(male, f)
		s.enrich(ctx, &v, male, f)
		if v.Compatible {
			compatible++
		}
		if v.Breed != nil {
			scores = append(scores, float64(v.Breed.Score))
		}
		out = append(out, Candidate{Animal: f, Verdict: v})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Verdict.Compatible != b.Verdict.Compatible {
			return a.Verdict.Compatible
		}
		sa, sb := breedScore(a.Verdict), breedScore(b.Verdict)
		if sa != sb {
			return sa > sb
		}
		return a.Animal.ID < b.Animal.ID
	})

	summary := CandidateSummary{
		Total:      len(out),
		Compatible: compatible,
		Scored:     len(scores),
	}
	if len(scores) > 0 {
		// Mean/Median solo fallan con input vacío.
		summary.MeanBreedScore, _ = stats.Mean(scores)
		summary.MedianBreedScore, _ = stats.Median(scores)
	}

	return CandidateReport{Male: male, Candidates: out, Summary: summary}, nil
}

func breedScore(v Verdict) int {
	if v.Breed == nil {
		return -1
	}
	return v.Breed.Score
}

type PairingInput struct {
	MaleID   int64
	FemaleID int64
	PairedAt *time.Time
	Override bool
	Notes    string
}

// RecordPairing registra una cruza. Si el veredicto es incompatible se
// rechaza con ErrIncompatiblePairing (y se devuelve el veredicto) salvo
// que venga Override.
func (s *Service) RecordPairing(ctx context.Context, in PairingInput) (Pairing, Verdict, error) {
	if s.pairings == nil {
		return Pairing{}, Verdict{}, errors.New("pairing repository not configured")
	}
	if in.MaleID <= 0 || in.FemaleID <= 0 {
		return Pairing{}, Verdict{}, fmt.Errorf("%w: male and female ids are required", ErrInvalidInput)
	}

	male, female, err := s.resolve(ctx, in.MaleID, in.FemaleID)
	if err != nil {
		return Pairing{}, FailClosed(), err
	}
	if male.Gender != animals.GenderMale || female.Gender != animals.GenderFemale {
		return Pairing{}, Verdict{}, fmt.Errorf("%w: expected a male and a female", ErrInvalidInput)
	}

	v := Evaluate(male, female)
	s.enrich(ctx, &v, male, female)

	if !v.Compatible && !in.Override {
		return Pairing{}, v, ErrIncompatiblePairing
	}

	now := s.now()
	pairedAt := now
	if in.PairedAt != nil && !in.PairedAt.IsZero() {
		pairedAt = *in.PairedAt
	}

	p := Pairing{
		ID:        uuid.NewString(),
		MaleID:    male.ID,
		FemaleID:  female.ID,
		PairedAt:  pairedAt,
		RiskLevel: v.RiskLevel,
		Reason:    v.Reason,
		Override:  !v.Compatible && in.Override,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
	}
	if err := s.pairings.Create(ctx, p); err != nil {
		return Pairing{}, v, err
	}

	fields := map[string]any{
		"pairing_id": p.ID,
		"male_id":    p.MaleID,
		"female_id":  p.FemaleID,
		"risk":       string(p.RiskLevel),
	}
	if p.Override {
		s.log.Warn("incompatible pairing recorded with override", fields)
	} else {
		s.log.Info("pairing recorded", fields)
	}
	return p, v, nil
}

func (s *Service) ListPairings(ctx context.Context, filter PairingFilter) ([]Pairing, error) {
	if s.pairings == nil {
		return []Pairing{}, nil
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultPairingLimit
	}
	if filter.Limit > MaxPairingLimit {
		filter.Limit = MaxPairingLimit
	}
	return s.pairings.List(ctx, filter)
}
