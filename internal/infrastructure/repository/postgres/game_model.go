package postgres

import (
	"database/sql"
	"time"

	"github.com/poolhouse/confidence-pool/internal/domain/game"
)

type gameTableModel struct {
	ID            string         `db:"id"`
	Week          int            `db:"week"`
	Sequence      int            `db:"seq"`
	HomeTeamID    string         `db:"home_team_id"`
	VisitorTeamID string         `db:"visitor_team_id"`
	KickoffAt     time.Time      `db:"kickoff_at"`
	Status        string         `db:"status"`
	Quarter       sql.NullInt64  `db:"quarter"`
	HomeScore     sql.NullInt64  `db:"home_score"`
	VisitorScore  sql.NullInt64  `db:"visitor_score"`
	WinnerTeamID  sql.NullString `db:"winner_team_id"`
}

func (m gameTableModel) toDomain() game.Game {
	out := game.Game{
		ID:            m.ID,
		Week:          m.Week,
		Sequence:      m.Sequence,
		HomeTeamID:    m.HomeTeamID,
		VisitorTeamID: m.VisitorTeamID,
		KickoffAt:     m.KickoffAt,
		Status:        m.Status,
		Quarter:       int(m.Quarter.Int64),
		WinnerTeamID:  m.WinnerTeamID.String,
	}
	if m.HomeScore.Valid {
		score := int(m.HomeScore.Int64)
		out.HomeScore = &score
	}
	if m.VisitorScore.Valid {
		score := int(m.VisitorScore.Int64)
		out.VisitorScore = &score
	}
	return out
}

var gameColumns = []string{
	"id", "week", "seq", "home_team_id", "visitor_team_id",
	"kickoff_at", "status", "quarter", "home_score", "visitor_score", "winner_team_id",
}
