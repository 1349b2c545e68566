package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/poolhouse/confidence-pool/internal/domain/pick"
	qb "github.com/poolhouse/confidence-pool/internal/platform/querybuilder"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) ListByUserWeek(ctx context.Context, userID string, week int) ([]pick.Pick, error) {
	query, args, err := qb.Select("id", "user_id", "game_id", "week", "team_id", "points").
		From("picks").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("week", week),
		).
		OrderBy("game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks query: %w", err)
	}

	var rows []pickTableModel
	if err := sqlx.SelectContext(ctx, execer(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select picks user=%s week=%d: %w", userID, week, err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PickRepository) ListUserIDsWithPicksInWeek(ctx context.Context, week int) ([]string, error) {
	query, args, err := qb.Select("DISTINCT user_id").
		From("picks").
		Where(qb.Eq("week", week)).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pick users query: %w", err)
	}

	var userIDs []string
	if err := sqlx.SelectContext(ctx, execer(ctx, r.db), &userIDs, query, args...); err != nil {
		return nil, fmt.Errorf("select pick users week=%d: %w", week, err)
	}
	return userIDs, nil
}

func (r *PickRepository) UpdatePoints(ctx context.Context, pickID string, points *int, actor string) error {
	query, args, err := qb.Update("picks").
		Set("points", points).
		Set("updated_by", actor).
		Set("updated_at", qb.Now()).
		Where(qb.Eq("id", pickID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update pick points query: %w", err)
	}

	if _, err := execer(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update pick points pick=%s: %w", pickID, err)
	}
	return nil
}

func (r *PickRepository) MoveToWeek(ctx context.Context, gameID string, week int, actor string) error {
	query, args, err := qb.Update("picks").
		Set("week", week).
		Set("updated_by", actor).
		Set("updated_at", qb.Now()).
		Where(qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build move picks query: %w", err)
	}

	if _, err := execer(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("move picks game=%s week=%d: %w", gameID, week, err)
	}
	return nil
}
