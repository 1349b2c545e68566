package game

import "context"

// Repository exposes game read/write operations.
type Repository interface {
	ListByWeek(ctx context.Context, week int) ([]Game, error)
	ListSeason(ctx context.Context) ([]Game, error)
	// UpdateSchedule rewrites week, sequence and kickoff for one game.
	UpdateSchedule(ctx context.Context, item Game) error
}
