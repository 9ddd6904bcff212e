package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"rabbit-pedigree/internal/domain/animals"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type AnimalsRepo struct {
	db *sqlx.DB
}

func NewAnimalsRepo(db *sqlx.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

type animalRow struct {
	ID             int64          `db:"id"`
	Name           string         `db:"name"`
	Gender         string         `db:"gender"`
	BreedID        sql.NullInt64  `db:"breed_id"`
	ParentMaleID   sql.NullInt64  `db:"parent_male_id"`
	ParentFemaleID sql.NullInt64  `db:"parent_female_id"`
	Ancestry       pq.StringArray `db:"ancestry"`
	Status         string         `db:"status"`
	BirthDate      sql.NullTime   `db:"birth_date"`
	Notes          string         `db:"notes"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

const animalColumns = `
	id, name, gender, breed_id,
	parent_male_id, parent_female_id, ancestry,
	status, birth_date, notes,
	created_at, updated_at`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) (animals.Animal, error) {
	anc := a.Ancestry
	if anc == nil {
		anc = []string{}
	}

	var id int64
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO animals (
			name, gender, breed_id,
			parent_male_id, parent_female_id, ancestry,
			status, birth_date, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`,
		a.Name,
		string(a.Gender),
		toNullID(a.BreedID),
		toNullID(a.ParentMaleID),
		toNullID(a.ParentFemaleID),
		pq.StringArray(anc),
		string(a.Status),
		toNullDate(a.BirthDate),
		a.Notes,
		a.CreatedAt,
		a.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return animals.Animal{}, err
	}

	a.ID = id
	a.Ancestry = anc
	return a, nil
}

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	return updateAnimal(ctx, r.db, a)
}

// UpdateLineage aplica el lote en una sola transacción.
func (r *AnimalsRepo) UpdateLineage(ctx context.Context, batch []animals.Animal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range batch {
		if err := updateAnimal(ctx, tx, a); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func updateAnimal(ctx context.Context, db sqlx.ExecerContext, a animals.Animal) error {
	anc := a.Ancestry
	if anc == nil {
		anc = []string{}
	}

	res, err := db.ExecContext(ctx, `
		UPDATE animals
		SET
			name = $2,
			gender = $3,
			breed_id = $4,
			parent_male_id = $5,
			parent_female_id = $6,
			ancestry = $7,
			status = $8,
			birth_date = $9,
			notes = $10,
			updated_at = $11
		WHERE id = $1
	`,
		a.ID,
		a.Name,
		string(a.Gender),
		toNullID(a.BreedID),
		toNullID(a.ParentMaleID),
		toNullID(a.ParentFemaleID),
		pq.StringArray(anc),
		string(a.Status),
		toNullDate(a.BirthDate),
		a.Notes,
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id int64) (animals.Animal, error) {
	if id <= 0 {
		return animals.Animal{}, animals.ErrNotFound
	}

	var row animalRow
	err := r.db.GetContext(ctx, &row, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, err
	}
	return row.toDomain(), nil
}

func (r *AnimalsRepo) ListByGenderStatus(ctx context.Context, gender animals.Gender, status animals.Status) ([]animals.Animal, error) {
	var rows []animalRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE gender = $1 AND status = $2
		ORDER BY id ASC
	`, string(gender), string(status))
	if err != nil {
		return nil, err
	}
	return toDomainList(rows), nil
}

func (r *AnimalsRepo) ListChildren(ctx context.Context, parentID int64) ([]animals.Animal, error) {
	var rows []animalRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE parent_male_id = $1 OR parent_female_id = $1
		ORDER BY id ASC
	`, parentID)
	if err != nil {
		return nil, err
	}
	return toDomainList(rows), nil
}

func (row animalRow) toDomain() animals.Animal {
	a := animals.Animal{
		ID:             row.ID,
		Name:           row.Name,
		Gender:         animals.Gender(strings.TrimSpace(row.Gender)),
		BreedID:        fromNullID(row.BreedID),
		ParentMaleID:   fromNullID(row.ParentMaleID),
		ParentFemaleID: fromNullID(row.ParentFemaleID),
		Ancestry:       []string(row.Ancestry),
		Status:         animals.Status(strings.TrimSpace(row.Status)),
		Notes:          row.Notes,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.BirthDate.Valid {
		// ojo: birth_date es date, pgx lo mapea a time.Time midnight UTC
		t := row.BirthDate.Time
		a.BirthDate = &t
	}
	return a
}

func toDomainList(rows []animalRow) []animals.Animal {
	out := make([]animals.Animal, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

func toNullID(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func fromNullID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// birth_date es DATE, lo pasamos como NullTime para simplificar
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
