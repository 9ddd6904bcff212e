package breeds

import "context"

type Repository interface {
	UpsertBreed(ctx context.Context, b Breed) error
	ListBreeds(ctx context.Context) ([]Breed, error)

	// UpsertPair recibe la entrada ya normalizada.
	UpsertPair(ctx context.Context, c Compatibility) error
	// GetPair recibe a < b; devuelve ErrNotFound si no hay entrada.
	GetPair(ctx context.Context, a, b int64) (Compatibility, error)
	ListPairs(ctx context.Context) ([]Compatibility, error)
}
