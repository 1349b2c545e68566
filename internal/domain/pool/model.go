package pool

// Membership is one user's enrollment in the season pool. Survivor marks the
// optional side-pool entry.
type Membership struct {
	UserID   string
	Season   int
	Survivor bool
}
