package postgres

import (
	"database/sql"

	"github.com/poolhouse/confidence-pool/internal/domain/team"
)

type teamTableModel struct {
	ID      string         `db:"id"`
	Abbr    string         `db:"abbr"`
	Name    string         `db:"name"`
	City    sql.NullString `db:"city"`
	ByeWeek sql.NullInt64  `db:"bye_week"`
}

func (m teamTableModel) toDomain() team.Team {
	out := team.Team{
		ID:   m.ID,
		Abbr: m.Abbr,
		Name: m.Name,
		City: m.City.String,
	}
	if m.ByeWeek.Valid {
		week := int(m.ByeWeek.Int64)
		out.ByeWeek = &week
	}
	return out
}
