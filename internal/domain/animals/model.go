package animals

import (
	"strconv"
	"time"
)

// Gender define el sexo del animal.
// @Enum male, female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Status es el estado del ciclo de vida del animal.
// Solo los "active" se ofrecen como candidatos de cruza.
type Status string

const (
	StatusActive   Status = "active"
	StatusBreeding Status = "breeding"
	StatusRetired  Status = "retired"
	StatusSold     Status = "sold"
	StatusDeceased Status = "deceased"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusBreeding, StatusRetired, StatusSold, StatusDeceased:
		return true
	default:
		return false
	}
}

// Animal es el registro de pedigree de un conejo.
//
// ParentMaleID/ParentFemaleID (padre/madre) forman un grafo acíclico.
// Ancestry es la versión aplanada de ese grafo (ids como string) para
// detectar ancestros comunes sin recorrer el grafo; el Service la mantiene
// sincronizada cuando cambia el linaje.
type Animal struct {
	ID     int64
	Name   string
	Gender Gender

	BreedID *int64

	ParentMaleID   *int64 // sire
	ParentFemaleID *int64 // dam

	Ancestry []string

	Status Status

	BirthDate *time.Time
	Notes     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFoundation indica si no tiene padres registrados.
func (a Animal) IsFoundation() bool {
	return a.ParentMaleID == nil && a.ParentFemaleID == nil
}

// AncestryKey es la forma en que un id aparece dentro de Ancestry.
func AncestryKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
