package breeding

import (
	"context"
	"time"
)

// Pairing es el registro de una cruza efectivamente realizada.
// Guarda el veredicto con que se autorizó (o el override si se forzó).
type Pairing struct {
	ID string

	MaleID   int64
	FemaleID int64

	PairedAt time.Time

	RiskLevel RiskLevel
	Reason    string
	Override  bool

	Notes string

	CreatedAt time.Time
}

type PairingFilter struct {
	AnimalID int64 // 0 = todos; si no, como sire o dam
	Limit    int
}

type PairingRepository interface {
	Create(ctx context.Context, p Pairing) error
	List(ctx context.Context, filter PairingFilter) ([]Pairing, error)
}
