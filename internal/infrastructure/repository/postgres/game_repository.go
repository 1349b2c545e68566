package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/poolhouse/confidence-pool/internal/domain/game"
	qb "github.com/poolhouse/confidence-pool/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) ListByWeek(ctx context.Context, week int) ([]game.Game, error) {
	return r.list(ctx, qb.Eq("week", week))
}

func (r *GameRepository) ListSeason(ctx context.Context) ([]game.Game, error) {
	return r.list(ctx)
}

func (r *GameRepository) list(ctx context.Context, conditions ...qb.Condition) ([]game.Game, error) {
	query, args, err := qb.Select(gameColumns...).
		From("games").
		Where(conditions...).
		OrderBy("week", "seq").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := sqlx.SelectContext(ctx, execer(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GameRepository) UpdateSchedule(ctx context.Context, item game.Game) error {
	query, args, err := qb.Update("games").
		Set("week", item.Week).
		Set("seq", item.Sequence).
		Set("kickoff_at", item.KickoffAt).
		Set("updated_at", qb.Now()).
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game schedule query: %w", err)
	}

	if _, err := execer(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update game schedule game=%s: %w", item.ID, err)
	}
	return nil
}
