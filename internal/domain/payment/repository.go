package payment

import "context"

// Repository exposes ledger read/write operations.
type Repository interface {
	GetPrizeTable(ctx context.Context, pool string) (PrizeTable, bool, error)
	// BalanceCents sums the user's ledger rows; a user who never paid their
	// fee carries a balance below the negated entry fee.
	BalanceCents(ctx context.Context, userID string) (int64, error)
	// ReplacePrizes deletes the Prize rows matching (pool, week) and inserts
	// the given rows in one transaction. A nil week scopes to season-level
	// prizes for the pool.
	ReplacePrizes(ctx context.Context, pool string, week *int, rows []Payment) error
}
