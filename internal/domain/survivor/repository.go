package survivor

import (
	"context"
	"time"
)

// Repository exposes survivor-pick read/write operations. Rows are
// soft-deleted via the dead marker; Unregister is the only hard delete and is
// reserved for users who never actually joined.
type Repository interface {
	ListByWeek(ctx context.Context, week int) ([]Pick, error)
	ListByUser(ctx context.Context, userID string) ([]Pick, error)
	ListAlive(ctx context.Context) ([]Pick, error)
	// MarkDeadFrom sets the dead marker on every pick of the user with
	// week >= fromWeek that is not already dead.
	MarkDeadFrom(ctx context.Context, userID string, fromWeek int, deadAt time.Time, actor string) error
	Unregister(ctx context.Context, userID string) error
}
