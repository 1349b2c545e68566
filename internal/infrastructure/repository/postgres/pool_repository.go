package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/poolhouse/confidence-pool/internal/domain/pool"
	qb "github.com/poolhouse/confidence-pool/internal/platform/querybuilder"
)

type PoolRepository struct {
	db *sqlx.DB
}

func NewPoolRepository(db *sqlx.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

type membershipTableModel struct {
	UserID   string `db:"user_id"`
	Season   int    `db:"season"`
	Survivor bool   `db:"survivor"`
}

func (r *PoolRepository) ListMembers(ctx context.Context) ([]pool.Membership, error) {
	query, args, err := qb.Select("user_id", "season", "survivor").
		From("pool_members").
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pool members query: %w", err)
	}

	var rows []membershipTableModel
	if err := sqlx.SelectContext(ctx, execer(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pool members: %w", err)
	}

	out := make([]pool.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, pool.Membership{
			UserID:   row.UserID,
			Season:   row.Season,
			Survivor: row.Survivor,
		})
	}
	return out, nil
}
