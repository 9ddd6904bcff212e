package postgres

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"rabbit-pedigree/internal/domain/animals"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimalRow_ToDomain(t *testing.T) {
	born := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	row := animalRow{
		ID:           9,
		Name:         "Mora",
		Gender:       "female ",
		ParentMaleID: sql.NullInt64{Int64: 1, Valid: true},
		Ancestry:     pq.StringArray{"1", "2"},
		Status:       "active",
		BirthDate:    sql.NullTime{Time: born, Valid: true},
	}

	a := row.toDomain()

	assert.Equal(t, animals.GenderFemale, a.Gender)
	require.NotNil(t, a.ParentMaleID)
	assert.Equal(t, int64(1), *a.ParentMaleID)
	assert.Nil(t, a.ParentFemaleID)
	assert.Equal(t, []string{"1", "2"}, a.Ancestry)
	require.NotNil(t, a.BirthDate)
	assert.Equal(t, born, *a.BirthDate)
}

func TestNullHelpers(t *testing.T) {
	assert.False(t, toNullID(nil).Valid)
	v := int64(5)
	assert.Equal(t, sql.NullInt64{Int64: 5, Valid: true}, toNullID(&v))
	assert.Nil(t, fromNullID(sql.NullInt64{}))
	assert.False(t, toNullDate(nil).Valid)
}

func TestSchemaIsEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS animals")
	assert.Contains(t, schemaSQL, "pairings")
}

func TestSchema_PairingsDoNotReferenceAnimals(t *testing.T) {
	start := strings.Index(schemaSQL, "CREATE TABLE IF NOT EXISTS pairings")
	require.GreaterOrEqual(t, start, 0)
	end := strings.Index(schemaSQL[start:], ");")
	require.Greater(t, end, 0)

	table := schemaSQL[start : start+end]
	assert.NotContains(t, table, "REFERENCES")

	// bases creadas con la versión anterior del schema
	assert.Contains(t, schemaSQL, "DROP CONSTRAINT IF EXISTS pairings_male_id_fkey")
	assert.Contains(t, schemaSQL, "DROP CONSTRAINT IF EXISTS pairings_female_id_fkey")
}

func TestAnimalsRepo_WritesLineageInOneTransaction(t *testing.T) {
	var _ animals.LineageWriter = (*AnimalsRepo)(nil)
}
