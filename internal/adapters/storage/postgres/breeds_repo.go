package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rabbit-pedigree/internal/domain/breeds"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type BreedsRepo struct {
	db *sqlx.DB
}

func NewBreedsRepo(db *sqlx.DB) *BreedsRepo {
	return &BreedsRepo{db: db}
}

type breedRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type compatibilityRow struct {
	BreedA         int64          `db:"breed_a"`
	BreedB         int64          `db:"breed_b"`
	Score          int            `db:"score"`
	ExpectedTraits pq.StringArray `db:"expected_traits"`
	Recommended    bool           `db:"recommended"`
}

func (r *BreedsRepo) UpsertBreed(ctx context.Context, b breeds.Breed) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO breeds (id, name) VALUES (:id, :name)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`, breedRow{ID: b.ID, Name: b.Name})
	return err
}

func (r *BreedsRepo) ListBreeds(ctx context.Context) ([]breeds.Breed, error) {
	var rows []breedRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, name FROM breeds ORDER BY id ASC`); err != nil {
		return nil, err
	}
	out := make([]breeds.Breed, 0, len(rows))
	for _, row := range rows {
		out = append(out, breeds.Breed{ID: row.ID, Name: row.Name})
	}
	return out, nil
}

func (r *BreedsRepo) UpsertPair(ctx context.Context, c breeds.Compatibility) error {
	c = c.Normalized()
	traits := c.ExpectedTraits
	if traits == nil {
		traits = []string{}
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO breed_compatibility (breed_a, breed_b, score, expected_traits, recommended)
		VALUES (:breed_a, :breed_b, :score, :expected_traits, :recommended)
		ON CONFLICT (breed_a, breed_b) DO UPDATE SET
			score = EXCLUDED.score,
			expected_traits = EXCLUDED.expected_traits,
			recommended = EXCLUDED.recommended
	`, compatibilityRow{
		BreedA:         c.BreedA,
		BreedB:         c.BreedB,
		Score:          c.Score,
		ExpectedTraits: pq.StringArray(traits),
		Recommended:    c.Recommended,
	})
	return err
}

func (r *BreedsRepo) GetPair(ctx context.Context, a, b int64) (breeds.Compatibility, error) {
	a, b = breeds.PairKey(a, b)

	var row compatibilityRow
	err := r.db.GetContext(ctx, &row, `
		SELECT breed_a, breed_b, score, expected_traits, recommended
		FROM breed_compatibility
		WHERE breed_a = $1 AND breed_b = $2
	`, a, b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return breeds.Compatibility{}, breeds.ErrNotFound
		}
		return breeds.Compatibility{}, err
	}
	return row.toDomain(), nil
}

func (r *BreedsRepo) ListPairs(ctx context.Context) ([]breeds.Compatibility, error) {
	var rows []compatibilityRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT breed_a, breed_b, score, expected_traits, recommended
		FROM breed_compatibility
		ORDER BY breed_a ASC, breed_b ASC
	`)
	if err != nil {
		return nil, err
	}
	out := make([]breeds.Compatibility, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (row compatibilityRow) toDomain() breeds.Compatibility {
	return breeds.Compatibility{
		BreedA:         row.BreedA,
		BreedB:         row.BreedB,
		Score:          row.Score,
		ExpectedTraits: []string(row.ExpectedTraits),
		Recommended:    row.Recommended,
	}
}
