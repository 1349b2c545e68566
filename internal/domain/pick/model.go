package pick

// Pick is one user's call on one game: an optional team choice plus an
// optional confidence-point value. For a fixed (user, week) the non-nil point
// values must be a duplicate-free sub-permutation of 1..N where N is the
// week's game count; PointLedger restores that invariant when it drifts.
type Pick struct {
	ID     string
	UserID string
	GameID string
	Week   int
	TeamID *string
	Points *int
}

func (p Pick) HasPoints() bool {
	return p.Points != nil
}

func (p Pick) PointValue() int {
	if p.Points == nil {
		return 0
	}
	return *p.Points
}
