package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/poolhouse/confidence-pool/internal/domain/standing"
	qb "github.com/poolhouse/confidence-pool/internal/platform/querybuilder"
)

// StandingRepository reads the materialized ranking views. The aggregation
// job that refreshes them lives outside this service.
type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

type standingTableModel struct {
	UserID  string `db:"user_id"`
	Week    int    `db:"week"`
	Rank    int    `db:"rank"`
	Tied    bool   `db:"tied"`
	Points  int    `db:"points"`
	Correct int    `db:"correct"`
	Missed  int    `db:"missed"`
}

func (r *StandingRepository) ListWeekly(ctx context.Context, week int) ([]standing.Standing, error) {
	return r.list(ctx, standing.KindWeekly, "weekly_standings", qb.Eq("week", week))
}

func (r *StandingRepository) ListOverall(ctx context.Context) ([]standing.Standing, error) {
	return r.list(ctx, standing.KindOverall, "overall_standings")
}

func (r *StandingRepository) ListSurvivor(ctx context.Context) ([]standing.Standing, error) {
	return r.list(ctx, standing.KindSurvivor, "survivor_standings")
}

func (r *StandingRepository) list(ctx context.Context, kind, view string, conditions ...qb.Condition) ([]standing.Standing, error) {
	query, args, err := qb.Select("user_id", "week", "rank", "tied", "points", "correct", "missed").
		From(view).
		Where(conditions...).
		OrderBy("rank", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select standings query view=%s: %w", view, err)
	}

	var rows []standingTableModel
	if err := sqlx.SelectContext(ctx, execer(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select standings view=%s: %w", view, err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Standing{
			Kind:    kind,
			UserID:  row.UserID,
			Week:    row.Week,
			Rank:    row.Rank,
			Tied:    row.Tied,
			Points:  row.Points,
			Correct: row.Correct,
			Missed:  row.Missed,
		})
	}
	return out, nil
}
