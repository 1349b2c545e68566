package standing

import "context"

// Repository exposes read-only standing queries.
type Repository interface {
	ListWeekly(ctx context.Context, week int) ([]Standing, error)
	ListOverall(ctx context.Context) ([]Standing, error)
	ListSurvivor(ctx context.Context) ([]Standing, error)
}
