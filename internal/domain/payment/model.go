package payment

import "time"

const (
	KindFee    = "FEE"
	KindPaid   = "PAID"
	KindPrize  = "PRIZE"
	KindPayout = "PAYOUT"
)

const (
	PoolWeekly   = "WEEKLY"
	PoolOverall  = "OVERALL"
	PoolSurvivor = "SURVIVOR"
	// PoolLastPlace is the overall pool's one-slot consolation table.
	PoolLastPlace = "LAST_PLACE"
)

// SystemActor is the audit identity recorded on rows written by settlement
// rather than by a person.
const SystemActor = "settlement-engine"

// Payment is one ledger row. Amounts are cents; fees are negative, prizes
// positive. Settlement replaces Prize rows wholesale for its scope, so a rerun
// converges to the same ledger.
type Payment struct {
	ID          string
	UserID      string
	AmountCents int64
	Kind        string
	Pool        string
	Week        *int
	Note        string
	CreatedBy   string
	CreatedAt   time.Time
}

// PrizeTable is the fixed rank-indexed prize list for one pool type; index 0
// is first place.
type PrizeTable struct {
	Pool         string
	AmountsCents []int64
}
