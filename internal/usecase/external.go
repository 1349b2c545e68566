package usecase

import (
	"context"
	"time"
)

// ExternalMatchup is one game as the schedule provider reports it. Team
// references are short codes resolved against the internal team table;
// kickoff is the field the provider rewrites most often and is never used for
// matching.
type ExternalMatchup struct {
	HomeRef          string
	VisitorRef       string
	Kickoff          time.Time
	Status           string
	HomeScore        *int
	VisitorScore     *int
	SecondsRemaining int
}

// ExternalWeek is the provider's view of one week's slate.
type ExternalWeek struct {
	Week     int
	Matchups []ExternalMatchup
}

// ScheduleFeed is the external schedule provider. A fetch failure aborts the
// healing pass for the affected scope; the pass is idempotent and safe to
// retry next cycle.
type ScheduleFeed interface {
	FetchSeason(ctx context.Context) ([]ExternalWeek, error)
}

const (
	InvalidSourceFeed  = "feed"
	InvalidSourceStore = "store"
)

// InvalidGameEntry is one schedule entry healing could not resolve on either
// side. These are reported to operators and left for manual correction.
type InvalidGameEntry struct {
	Source     string
	Week       int
	HomeRef    string
	VisitorRef string
	Reason     string
}

type InvalidGamesReport struct {
	Week    int
	Entries []InvalidGameEntry
}

// Notifier delivers operator-facing reports. Delivery mechanics are out of
// scope; failures are logged, never fatal to healing.
type Notifier interface {
	ReportInvalidGames(ctx context.Context, report InvalidGamesReport) error
	PublishSettlementNote(ctx context.Context, note string) error
}

// Transactor runs fn inside one store transaction. Multi-step healing units
// (move game + renumber + repair points) roll back together on failure.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
