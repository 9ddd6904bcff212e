package memory

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"rabbit-pedigree/internal/domain/animals"
	"rabbit-pedigree/internal/domain/breeding"
	"rabbit-pedigree/internal/domain/breeds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimalRepo_CreationOrderAndIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewAnimalRepo()

	sire, err := repo.Create(ctx, animals.Animal{Name: "Bruno", Gender: animals.GenderMale, Status: animals.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sire.ID)

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, animals.Animal{
			Name:         "kit " + strconv.Itoa(i),
			Gender:       animals.GenderFemale,
			Status:       animals.StatusActive,
			ParentMaleID: &sire.ID,
			Ancestry:     []string{"1"},
		})
		require.NoError(t, err)
	}

	females, err := repo.ListByGenderStatus(ctx, animals.GenderFemale, animals.StatusActive)
	require.NoError(t, err)
	require.Len(t, females, 3)
	assert.Equal(t, []int64{2, 3, 4}, []int64{females[0].ID, females[1].ID, females[2].ID})

	// mutar lo devuelto no afecta el store
	females[0].Ancestry[0] = "mutated"
	*females[0].ParentMaleID = 99
	again, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, again.Ancestry)
	assert.Equal(t, int64(1), *again.ParentMaleID)

	children, err := repo.ListChildren(ctx, sire.ID)
	require.NoError(t, err)
	assert.Len(t, children, 3)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, animals.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, animals.Animal{ID: 42}), animals.ErrNotFound)
}

func TestAnimalRepo_UpdateLineageAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewAnimalRepo()

	a, err := repo.Create(ctx, animals.Animal{Name: "Bruno", Gender: animals.GenderMale, Status: animals.StatusActive})
	require.NoError(t, err)
	b, err := repo.Create(ctx, animals.Animal{Name: "Copo", Gender: animals.GenderMale, Status: animals.StatusActive})
	require.NoError(t, err)

	lw, ok := repo.(animals.LineageWriter)
	require.True(t, ok)

	a.Ancestry = []string{"9"}
	b.Ancestry = []string{"9"}
	err = lw.UpdateLineage(ctx, []animals.Animal{a, b, {ID: 77}})
	assert.ErrorIs(t, err, animals.ErrNotFound)

	got, _ := repo.GetByID(ctx, a.ID)
	assert.Empty(t, got.Ancestry)

	require.NoError(t, lw.UpdateLineage(ctx, []animals.Animal{a, b}))
	got, _ = repo.GetByID(ctx, b.ID)
	assert.Equal(t, []string{"9"}, got.Ancestry)
}

func TestAnimalRepo_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewAnimalRepo()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Create(ctx, animals.Animal{Gender: animals.GenderMale, Status: animals.StatusActive})
		}()
	}
	wg.Wait()

	all, err := repo.ListByGenderStatus(ctx, animals.GenderMale, animals.StatusActive)
	require.NoError(t, err)
	require.Len(t, all, 50)
	assert.Equal(t, int64(50), all[49].ID)
}

func TestBreedRepo_PairsAreUnordered(t *testing.T) {
	ctx := context.Background()
	repo := NewBreedRepo()

	require.NoError(t, repo.UpsertBreed(ctx, breeds.Breed{ID: 2, Name: "Rex"}))
	require.NoError(t, repo.UpsertBreed(ctx, breeds.Breed{ID: 1, Name: "Holland Lop"}))
	require.NoError(t, repo.UpsertPair(ctx, breeds.Compatibility{BreedA: 1, BreedB: 2, Score: 60}))
	require.NoError(t, repo.UpsertPair(ctx, breeds.Compatibility{BreedA: 2, BreedB: 1, Score: 65}))

	c, err := repo.GetPair(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 65, c.Score)

	_, err = repo.GetPair(ctx, 1, 3)
	assert.ErrorIs(t, err, breeds.ErrNotFound)

	bs, err := repo.ListBreeds(ctx)
	require.NoError(t, err)
	require.Len(t, bs, 2)
	assert.Equal(t, int64(1), bs[0].ID)

	pairs, err := repo.ListPairs(ctx)
	require.NoError(t, err)
	assert.Len(t, pairs, 1)
}

func TestPairingRepo_FilterAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewPairingRepo()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	for i, p := range []breeding.Pairing{
		{ID: "a", MaleID: 1, FemaleID: 2, PairedAt: base},
		{ID: "b", MaleID: 1, FemaleID: 3, PairedAt: base.Add(48 * time.Hour)},
		{ID: "c", MaleID: 4, FemaleID: 2, PairedAt: base.Add(24 * time.Hour)},
		{ID: "d", MaleID: 5, FemaleID: 6, PairedAt: base.Add(24 * time.Hour)},
	} {
		require.NoError(t, repo.Create(ctx, p), i)
	}
	assert.Error(t, repo.Create(ctx, breeding.Pairing{ID: "a"}))
	assert.Error(t, repo.Create(ctx, breeding.Pairing{}))

	all, err := repo.List(ctx, breeding.PairingFilter{})
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"b", "c", "d", "a"}, ids)

	forTwo, err := repo.List(ctx, breeding.PairingFilter{AnimalID: 2})
	require.NoError(t, err)
	require.Len(t, forTwo, 2)
	assert.Equal(t, "c", forTwo[0].ID)

	limited, err := repo.List(ctx, breeding.PairingFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
