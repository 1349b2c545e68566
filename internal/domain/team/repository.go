package team

import "context"

// Repository exposes team read/write operations.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	UpdateByeWeek(ctx context.Context, teamID string, byeWeek *int) error
}
