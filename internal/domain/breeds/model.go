package breeds

// Breed es una raza conocida por el sistema.
type Breed struct {
	ID   int64
	Name string
}

// Compatibility es la entrada de la matriz de cruza entre dos razas.
// El par es no ordenado; se guarda normalizado con BreedA < BreedB.
type Compatibility struct {
	BreedA int64
	BreedB int64

	Score          int // 0-100
	ExpectedTraits []string
	Recommended    bool
}

// PairKey normaliza un par no ordenado.
func PairKey(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// Normalized devuelve la entrada con BreedA < BreedB.
func (c Compatibility) Normalized() Compatibility {
	c.BreedA, c.BreedB = PairKey(c.BreedA, c.BreedB)
	return c
}
