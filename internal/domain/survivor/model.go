package survivor

import "time"

// Pick is one user's survivor-pool call for one week. Elimination is
// monotonic: once DeadAt is set for week W, every later week's row for that
// user is dead too, and the user makes no further picks.
type Pick struct {
	ID     string
	UserID string
	Week   int
	TeamID *string
	DeadAt *time.Time
}

func (p Pick) IsDead() bool {
	return p.DeadAt != nil
}

func (p Pick) HasTeam() bool {
	return p.TeamID != nil && *p.TeamID != ""
}
