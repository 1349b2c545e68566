package postgres

import (
	"database/sql"

	"github.com/poolhouse/confidence-pool/internal/domain/survivor"
)

type survivorPickTableModel struct {
	ID     string         `db:"id"`
	UserID string         `db:"user_id"`
	Week   int            `db:"week"`
	TeamID sql.NullString `db:"team_id"`
	DeadAt sql.NullTime   `db:"dead_at"`
}

func (m survivorPickTableModel) toDomain() survivor.Pick {
	out := survivor.Pick{
		ID:     m.ID,
		UserID: m.UserID,
		Week:   m.Week,
	}
	if m.TeamID.Valid {
		teamID := m.TeamID.String
		out.TeamID = &teamID
	}
	if m.DeadAt.Valid {
		deadAt := m.DeadAt.Time
		out.DeadAt = &deadAt
	}
	return out
}
