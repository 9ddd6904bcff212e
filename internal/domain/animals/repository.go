package animals

import "context"

// Repository es el pedigree store. Las implementaciones devuelven ErrNotFound
// (envuelto o no) cuando el id no existe.
type Repository interface {
	// Create asigna el ID y devuelve el animal persistido.
	Create(ctx context.Context, a Animal) (Animal, error)
	Update(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id int64) (Animal, error)

	// ListByGenderStatus devuelve en orden de creación.
	ListByGenderStatus(ctx context.Context, gender Gender, status Status) ([]Animal, error)

	// ListChildren devuelve los hijos directos (como sire o dam).
	ListChildren(ctx context.Context, parentID int64) ([]Animal, error)
}

// LineageWriter lo implementan los stores que pueden aplicar un lote de
// cambios de linaje todo o nada. Si el store no lo implementa, SetParents
// escribe animal por animal.
type LineageWriter interface {
	UpdateLineage(ctx context.Context, batch []Animal) error
}
