package breeding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"rabbit-pedigree/internal/domain/animals"
	"rabbit-pedigree/internal/domain/breeds"
	"rabbit-pedigree/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// -------------------------
// Fakes
// -------------------------

type fakeAnimals struct {
	byID map[int64]animals.Animal
	err  error // si no es nil, toda lectura falla
}

func newFakeAnimals(items ...animals.Animal) *fakeAnimals {
	f := &fakeAnimals{byID: map[int64]animals.Animal{}}
	for _, a := range items {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAnimals) GetByID(ctx context.Context, id int64) (animals.Animal, error) {
	if f.err != nil {
		return animals.Animal{}, f.err
	}
	a, ok := f.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (f *fakeAnimals) ListByGenderStatus(ctx context.Context, g animals.Gender, s animals.Status) ([]animals.Animal, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]animals.Animal, 0)
	for _, a := range f.byID {
		if a.Gender == g && a.Status == s {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeBreeds struct {
	pairs map[[2]int64]breeds.Compatibility
	err   error
}

func (f *fakeBreeds) Lookup(ctx context.Context, a, b *int64) (*breeds.Compatibility, error) {
	if f.err != nil {
		return nil, f.err
	}
	if a == nil || b == nil {
		return nil, nil
	}
	lo, hi := breeds.PairKey(*a, *b)
	c, ok := f.pairs[[2]int64{lo, hi}]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type fakePairings struct {
	mu    sync.Mutex
	items []Pairing
	last  PairingFilter
}

func (f *fakePairings) Create(ctx context.Context, p Pairing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, p)
	return nil
}

func (f *fakePairings) List(ctx context.Context, filter PairingFilter) ([]Pairing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = filter
	return append([]Pairing{}, f.items...), nil
}

func herd() *fakeAnimals {
	return newFakeAnimals(
		animals.Animal{ID: 1, Name: "Bruno", Gender: animals.GenderMale, Status: animals.StatusActive, BreedID: id(100)},
		animals.Animal{ID: 2, Name: "Luna", Gender: animals.GenderFemale, Status: animals.StatusActive, BreedID: id(100)},
		animals.Animal{ID: 3, Name: "Mora", Gender: animals.GenderFemale, Status: animals.StatusActive, BreedID: id(200),
			ParentMaleID: id(1), ParentFemaleID: id(2), Ancestry: []string{"1", "2"}},
		animals.Animal{ID: 4, Name: "Nube", Gender: animals.GenderFemale, Status: animals.StatusActive, BreedID: id(200)},
		animals.Animal{ID: 5, Name: "Kiwi", Gender: animals.GenderFemale, Status: animals.StatusActive, BreedID: id(300)},
		animals.Animal{ID: 6, Name: "Vieja", Gender: animals.GenderFemale, Status: animals.StatusRetired},
	)
}

func breedTable() *fakeBreeds {
	return &fakeBreeds{pairs: map[[2]int64]breeds.Compatibility{
		{100, 200}: {BreedA: 100, BreedB: 200, Score: 80, ExpectedTraits: []string{"dense coat"}, Recommended: true},
		{100, 300}: {BreedA: 100, BreedB: 300, Score: 40},
	}}
}

func observed() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return logger.NewWithZap(zap.New(core)), logs
}

// -------------------------
// Check
// -------------------------

func TestCheck_EvaluatesAndEnriches(t *testing.T) {
	svc := NewService(herd(), breedTable(), nil, nil)

	v, err := svc.Check(context.Background(), 1, 4)
	require.NoError(t, err)

	assert.True(t, v.Compatible)
	assert.Equal(t, RiskNone, v.RiskLevel)
	require.NotNil(t, v.Breed)
	assert.Equal(t, 80, v.Breed.Score)
	assert.Equal(t, []string{"dense coat"}, v.Breed.ExpectedTraits)
}

func TestCheck_EnrichmentNeverChangesVerdict(t *testing.T) {
	svc := NewService(herd(), breedTable(), nil, nil)

	// padre-hija con un par de razas recomendado: sigue incompatible
	v, err := svc.Check(context.Background(), 1, 3)
	require.NoError(t, err)

	assert.False(t, v.Compatible)
	assert.Equal(t, ReasonParentChild, v.Reason)
	require.NotNil(t, v.Breed)
	assert.True(t, v.Breed.Recommended)
}

func TestCheck_BreedLookupFailureIsLogged(t *testing.T) {
	log, logs := observed()
	svc := NewService(herd(), &fakeBreeds{err: errors.New("db down")}, nil, log)

	v, err := svc.Check(context.Background(), 1, 4)
	require.NoError(t, err)

	assert.True(t, v.Compatible)
	assert.Nil(t, v.Breed)
	assert.Equal(t, 1, logs.FilterMessage("breed compatibility lookup failed").Len())
}

func TestCheck_LookupErrors(t *testing.T) {
	svc := NewService(herd(), nil, nil, nil)

	_, err := svc.Check(context.Background(), 1, 999)
	require.ErrorIs(t, err, animals.ErrNotFound)
	assert.Contains(t, err.Error(), "lookup female 999")

	down := newFakeAnimals()
	down.err = errors.New("connection refused")
	_, err = NewService(down, nil, nil, nil).Check(context.Background(), 1, 2)
	require.Error(t, err)
}

// -------------------------
// Candidates
// -------------------------

func TestCandidates_OrderAndSummary(t *testing.T) {
	svc := NewService(herd(), breedTable(), nil, nil)

	rep, err := svc.Candidates(context.Background(), 1)
	require.NoError(t, err)

	ids := make([]int64, 0, len(rep.Candidates))
	for _, c := range rep.Candidates {
		ids = append(ids, c.Animal.ID)
	}
	// compatibles: 4 (score 80), 5 (score 40), 2 (sin score); luego 3 (hija)
	assert.Equal(t, []int64{4, 5, 2, 3}, ids)

	assert.Equal(t, 4, rep.Summary.Total)
	assert.Equal(t, 3, rep.Summary.Compatible)
	assert.Equal(t, 3, rep.Summary.Scored) // 3, 4 y 5 tienen par de razas
	assert.InDelta(t, (80.0+80.0+40.0)/3, rep.Summary.MeanBreedScore, 0.001)
	assert.InDelta(t, 80.0, rep.Summary.MedianBreedScore, 0.001)
}

func TestCandidates_RejectsFemale(t *testing.T) {
	svc := NewService(herd(), nil, nil, nil)

	_, err := svc.Candidates(context.Background(), 2)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Candidates(context.Background(), 42)
	assert.ErrorIs(t, err, animals.ErrNotFound)
}

// -------------------------
// Pairings
// -------------------------

func TestRecordPairing_RefusesIncompatible(t *testing.T) {
	pairs := &fakePairings{}
	svc := NewService(herd(), nil, pairs, nil)

	_, v, err := svc.RecordPairing(context.Background(), PairingInput{MaleID: 1, FemaleID: 3})
	require.ErrorIs(t, err, ErrIncompatiblePairing)
	assert.Equal(t, ReasonParentChild, v.Reason)
	assert.Empty(t, pairs.items)
}

func TestRecordPairing_OverrideIsRecorded(t *testing.T) {
	log, logs := observed()
	pairs := &fakePairings{}
	svc := NewService(herd(), nil, pairs, log)
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	p, _, err := svc.RecordPairing(context.Background(), PairingInput{
		MaleID: 1, FemaleID: 3, Override: true, Notes: "  línea cerrada ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.True(t, p.Override)
	assert.Equal(t, RiskHigh, p.RiskLevel)
	assert.Equal(t, "línea cerrada", p.Notes)
	assert.Equal(t, fixed, p.PairedAt)
	require.Len(t, pairs.items, 1)
	assert.Equal(t, 1, logs.FilterMessage("incompatible pairing recorded with override").Len())
}

func TestRecordPairing_CompatibleIgnoresOverrideFlag(t *testing.T) {
	pairs := &fakePairings{}
	svc := NewService(herd(), nil, pairs, nil)
	at := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	p, v, err := svc.RecordPairing(context.Background(), PairingInput{MaleID: 1, FemaleID: 4, Override: true, PairedAt: &at})
	require.NoError(t, err)

	assert.True(t, v.Compatible)
	assert.False(t, p.Override)
	assert.Equal(t, at, p.PairedAt)
}

func TestRecordPairing_Validation(t *testing.T) {
	svc := NewService(herd(), nil, &fakePairings{}, nil)

	_, _, err := svc.RecordPairing(context.Background(), PairingInput{MaleID: 0, FemaleID: 2})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// dos hembras
	_, _, err = svc.RecordPairing(context.Background(), PairingInput{MaleID: 2, FemaleID: 4})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, v, err := svc.RecordPairing(context.Background(), PairingInput{MaleID: 1, FemaleID: 77})
	assert.ErrorIs(t, err, animals.ErrNotFound)
	assert.Equal(t, FailClosed(), v)
}

func TestListPairings_Limits(t *testing.T) {
	pairs := &fakePairings{}
	svc := NewService(herd(), nil, pairs, nil)

	_, err := svc.ListPairings(context.Background(), PairingFilter{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPairingLimit, pairs.last.Limit)

	_, err = svc.ListPairings(context.Background(), PairingFilter{AnimalID: 3, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxPairingLimit, pairs.last.Limit)
	assert.Equal(t, int64(3), pairs.last.AnimalID)

	got, err := NewService(herd(), nil, nil, nil).ListPairings(context.Background(), PairingFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

// -------------------------
// HTTP
// -------------------------

func serve(svc *Service, log logger.Logger, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	RegisterRoutes(r, svc, log)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestCompatibilityHandler_FailsClosed(t *testing.T) {
	down := newFakeAnimals()
	down.err = errors.New("store unavailable")
	log, logs := observed()

	rec := serve(NewService(down, nil, nil, nil), log, "/breeding/compatibility?maleId=1&femaleId=2")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"compatible":false,"reason":"Error checking compatibility. Please try again.","riskLevel":"high"}`, rec.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("compatibility check failed").Len())
}

func TestCompatibilityHandler_BadIDs(t *testing.T) {
	for _, q := range []string{"", "maleId=1", "maleId=x&femaleId=2", "maleId=-1&femaleId=2"} {
		rec := serve(NewService(herd(), nil, nil, nil), nil, "/breeding/compatibility?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.True(t, strings.Contains(rec.Body.String(), ReasonCheckFailed), q)
	}
}

func TestCompatibilityHandler_OK(t *testing.T) {
	rec := serve(NewService(herd(), nil, nil, nil), nil, "/breeding/compatibility?maleId=1&femaleId=4")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"compatible":true,"riskLevel":"none"}`, rec.Body.String())
}
