package postgres

import (
	"context"
	"time"

	"rabbit-pedigree/internal/domain/breeding"

	"github.com/jmoiron/sqlx"
)

type PairingsRepo struct {
	db *sqlx.DB
}

func NewPairingsRepo(db *sqlx.DB) *PairingsRepo {
	return &PairingsRepo{db: db}
}

type pairingRow struct {
	ID        string    `db:"id"`
	MaleID    int64     `db:"male_id"`
	FemaleID  int64     `db:"female_id"`
	PairedAt  time.Time `db:"paired_at"`
	RiskLevel string    `db:"risk_level"`
	Reason    string    `db:"reason"`
	Override  bool      `db:"override"`
	Notes     string    `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *PairingsRepo) Create(ctx context.Context, p breeding.Pairing) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO pairings (
			id, male_id, female_id, paired_at,
			risk_level, reason, override, notes, created_at
		) VALUES (
			:id, :male_id, :female_id, :paired_at,
			:risk_level, :reason, :override, :notes, :created_at
		)
	`, pairingRow{
		ID:        p.ID,
		MaleID:    p.MaleID,
		FemaleID:  p.FemaleID,
		PairedAt:  p.PairedAt,
		RiskLevel: string(p.RiskLevel),
		Reason:    p.Reason,
		Override:  p.Override,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	})
	return err
}

func (r *PairingsRepo) List(ctx context.Context, filter breeding.PairingFilter) ([]breeding.Pairing, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = breeding.DefaultPairingLimit
	}

	var rows []pairingRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT
			id::text AS id, male_id, female_id, paired_at,
			risk_level, reason, override, notes, created_at
		FROM pairings
		WHERE ($1::bigint = 0 OR male_id = $1 OR female_id = $1)
		ORDER BY paired_at DESC, id ASC
		LIMIT $2
	`, filter.AnimalID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]breeding.Pairing, 0, len(rows))
	for _, row := range rows {
		out = append(out, breeding.Pairing{
			ID:        row.ID,
			MaleID:    row.MaleID,
			FemaleID:  row.FemaleID,
			PairedAt:  row.PairedAt,
			RiskLevel: breeding.RiskLevel(row.RiskLevel),
			Reason:    row.Reason,
			Override:  row.Override,
			Notes:     row.Notes,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
