package pick

import "context"

// Repository exposes pick read/write operations.
type Repository interface {
	ListByUserWeek(ctx context.Context, userID string, week int) ([]Pick, error)
	ListUserIDsWithPicksInWeek(ctx context.Context, week int) ([]string, error)
	// UpdatePoints persists a repaired point value. A nil value clears the
	// assignment. Team choices are never written here.
	UpdatePoints(ctx context.Context, pickID string, points *int, actor string) error
	// MoveToWeek follows a relocated game: the pick row tracks its game's week.
	MoveToWeek(ctx context.Context, gameID string, week int, actor string) error
}
