package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/poolhouse/confidence-pool/internal/domain/survivor"
	qb "github.com/poolhouse/confidence-pool/internal/platform/querybuilder"
)

type SurvivorRepository struct {
	db *sqlx.DB
}

func NewSurvivorRepository(db *sqlx.DB) *SurvivorRepository {
	return &SurvivorRepository{db: db}
}

func (r *SurvivorRepository) ListByWeek(ctx context.Context, week int) ([]survivor.Pick, error) {
	return r.list(ctx, qb.Eq("week", week))
}

func (r *SurvivorRepository) ListByUser(ctx context.Context, userID string) ([]survivor.Pick, error) {
	return r.list(ctx, qb.Eq("user_id", userID))
}

// ListAlive returns the picks of users with no dead marker anywhere.
func (r *SurvivorRepository) ListAlive(ctx context.Context) ([]survivor.Pick, error) {
	return r.list(ctx, qb.Expr(
		"user_id NOT IN (SELECT user_id FROM survivor_picks WHERE dead_at IS NOT NULL)",
	))
}

func (r *SurvivorRepository) list(ctx context.Context, conditions ...qb.Condition) ([]survivor.Pick, error) {
	query, args, err := qb.Select("id", "user_id", "week", "team_id", "dead_at").
		From("survivor_picks").
		Where(conditions...).
		OrderBy("week", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select survivor picks query: %w", err)
	}

	var rows []survivorPickTableModel
	if err := sqlx.SelectContext(ctx, execer(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select survivor picks: %w", err)
	}

	out := make([]survivor.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *SurvivorRepository) MarkDeadFrom(ctx context.Context, userID string, fromWeek int, deadAt time.Time, actor string) error {
	query, args, err := qb.Update("survivor_picks").
		Set("dead_at", deadAt).
		Set("updated_by", actor).
		Set("updated_at", qb.Now()).
		Where(
			qb.Eq("user_id", userID),
			qb.Gte("week", fromWeek),
			qb.IsNull("dead_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark survivor dead query: %w", err)
	}

	if _, err := execer(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark survivor dead user=%s from_week=%d: %w", userID, fromWeek, err)
	}
	return nil
}

// Unregister hard-deletes the user's rows. Reserved for users who never paid
// into the pool.
func (r *SurvivorRepository) Unregister(ctx context.Context, userID string) error {
	query, args, err := qb.DeleteFrom("survivor_picks").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build unregister survivor query: %w", err)
	}

	if _, err := execer(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("unregister survivor user=%s: %w", userID, err)
	}
	return nil
}
