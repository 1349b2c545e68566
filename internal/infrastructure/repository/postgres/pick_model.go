package postgres

import (
	"database/sql"

	"github.com/poolhouse/confidence-pool/internal/domain/pick"
)

type pickTableModel struct {
	ID     string         `db:"id"`
	UserID string         `db:"user_id"`
	GameID string         `db:"game_id"`
	Week   int            `db:"week"`
	TeamID sql.NullString `db:"team_id"`
	Points sql.NullInt64  `db:"points"`
}

func (m pickTableModel) toDomain() pick.Pick {
	out := pick.Pick{
		ID:     m.ID,
		UserID: m.UserID,
		GameID: m.GameID,
		Week:   m.Week,
	}
	if m.TeamID.Valid {
		teamID := m.TeamID.String
		out.TeamID = &teamID
	}
	if m.Points.Valid {
		points := int(m.Points.Int64)
		out.Points = &points
	}
	return out
}
