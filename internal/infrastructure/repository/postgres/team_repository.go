package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/poolhouse/confidence-pool/internal/domain/team"
	qb "github.com/poolhouse/confidence-pool/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("id", "abbr", "name", "city", "bye_week").
		From("teams").
		OrderBy("abbr").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, execer(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) UpdateByeWeek(ctx context.Context, teamID string, byeWeek *int) error {
	query, args, err := qb.Update("teams").
		Set("bye_week", byeWeek).
		Set("updated_at", qb.Now()).
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team bye week query: %w", err)
	}

	if _, err := execer(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team bye week team=%s: %w", teamID, err)
	}
	return nil
}
