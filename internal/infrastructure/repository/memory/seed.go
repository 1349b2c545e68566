package memory

import (
	"time"

	"github.com/poolhouse/confidence-pool/internal/domain/game"
	"github.com/poolhouse/confidence-pool/internal/domain/payment"
	"github.com/poolhouse/confidence-pool/internal/domain/pick"
	"github.com/poolhouse/confidence-pool/internal/domain/pool"
	"github.com/poolhouse/confidence-pool/internal/domain/standing"
	"github.com/poolhouse/confidence-pool/internal/domain/survivor"
	"github.com/poolhouse/confidence-pool/internal/domain/team"
)

// Seed bundles a small self-consistent season for local runs without a
// database.
type Seed struct {
	Teams    []team.Team
	Games    []game.Game
	Picks    []pick.Pick
	Survivor []survivor.Pick
	Members  []pool.Membership
	Weekly   map[int][]standing.Standing
	Overall  []standing.Standing
	Tables   map[string]payment.PrizeTable
	Ledger   []payment.Payment
}

func intRef(v int) *int       { return &v }
func strRef(v string) *string { return &v }

// DemoSeed is a two-week, four-team season with one deliberately broken point
// permutation, so a settlement run against it has visible work to do.
func DemoSeed() Seed {
	kickoff := time.Date(2025, time.September, 7, 17, 0, 0, 0, time.UTC)

	teams := []team.Team{
		{ID: "NE", Abbr: "NE", Name: "Patriots", City: "New England"},
		{ID: "NYJ", Abbr: "NYJ", Name: "Jets", City: "New York"},
		{ID: "DAL", Abbr: "DAL", Name: "Cowboys", City: "Dallas"},
		{ID: "PHI", Abbr: "PHI", Name: "Eagles", City: "Philadelphia"},
	}

	games := []game.Game{
		{ID: "g-1-1", Week: 1, Sequence: 1, HomeTeamID: "NE", VisitorTeamID: "NYJ",
			KickoffAt: kickoff, Status: game.StatusFinal,
			HomeScore: intRef(21), VisitorScore: intRef(14), WinnerTeamID: "NE"},
		{ID: "g-1-2", Week: 1, Sequence: 2, HomeTeamID: "DAL", VisitorTeamID: "PHI",
			KickoffAt: kickoff.Add(3 * time.Hour), Status: game.StatusFinal,
			HomeScore: intRef(17), VisitorScore: intRef(17), WinnerTeamID: game.TieTeamID},
		{ID: "g-2-1", Week: 2, Sequence: 1, HomeTeamID: "NYJ", VisitorTeamID: "DAL",
			KickoffAt: kickoff.AddDate(0, 0, 7), Status: game.StatusPregame},
		{ID: "g-2-2", Week: 2, Sequence: 2, HomeTeamID: "PHI", VisitorTeamID: "NE",
			KickoffAt: kickoff.AddDate(0, 0, 7).Add(3 * time.Hour), Status: game.StatusPregame},
	}

	picks := []pick.Pick{
		{ID: "pk-1", UserID: "alice", GameID: "g-1-1", Week: 1, TeamID: strRef("NE"), Points: intRef(2)},
		{ID: "pk-2", UserID: "alice", GameID: "g-1-2", Week: 1, TeamID: strRef("PHI"), Points: intRef(1)},
		// bob's points are a duplicate pair; point repair fixes them.
		{ID: "pk-3", UserID: "bob", GameID: "g-1-1", Week: 1, TeamID: strRef("NYJ"), Points: intRef(2)},
		{ID: "pk-4", UserID: "bob", GameID: "g-1-2", Week: 1, TeamID: strRef("DAL"), Points: intRef(2)},
	}

	survivorPicks := []survivor.Pick{
		{ID: "sv-1", UserID: "alice", Week: 1, TeamID: strRef("NE")},
		{ID: "sv-2", UserID: "alice", Week: 2},
		{ID: "sv-3", UserID: "bob", Week: 1, TeamID: strRef("DAL")},
		{ID: "sv-4", UserID: "bob", Week: 2},
	}

	members := []pool.Membership{
		{UserID: "alice", Season: 2025, Survivor: true},
		{UserID: "bob", Season: 2025, Survivor: true},
	}

	weekly := map[int][]standing.Standing{
		1: {
			{Kind: standing.KindWeekly, UserID: "alice", Week: 1, Rank: 1, Points: 3, Correct: 2},
			{Kind: standing.KindWeekly, UserID: "bob", Week: 1, Rank: 2, Points: 0, Correct: 0},
		},
	}
	overall := []standing.Standing{
		{Kind: standing.KindOverall, UserID: "alice", Rank: 1, Points: 3, Correct: 2},
		{Kind: standing.KindOverall, UserID: "bob", Rank: 2, Points: 0, Correct: 0},
	}

	tables := map[string]payment.PrizeTable{
		payment.PoolWeekly:   {Pool: payment.PoolWeekly, AmountsCents: []int64{2500, 1500}},
		payment.PoolOverall:  {Pool: payment.PoolOverall, AmountsCents: []int64{50000, 30000}},
		payment.PoolSurvivor: {Pool: payment.PoolSurvivor, AmountsCents: []int64{40000}},
	}

	now := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	ledger := []payment.Payment{
		{ID: "pay-1", UserID: "alice", AmountCents: -5000, Kind: payment.KindFee, Pool: payment.PoolSurvivor, Note: "survivor entry fee", CreatedBy: payment.SystemActor, CreatedAt: now},
		{ID: "pay-2", UserID: "alice", AmountCents: 5000, Kind: payment.KindPaid, Pool: payment.PoolSurvivor, Note: "entry fee received", CreatedBy: payment.SystemActor, CreatedAt: now},
		{ID: "pay-3", UserID: "bob", AmountCents: -5000, Kind: payment.KindFee, Pool: payment.PoolSurvivor, Note: "survivor entry fee", CreatedBy: payment.SystemActor, CreatedAt: now},
	}

	return Seed{
		Teams:    teams,
		Games:    games,
		Picks:    picks,
		Survivor: survivorPicks,
		Members:  members,
		Weekly:   weekly,
		Overall:  overall,
		Tables:   tables,
		Ledger:   ledger,
	}
}
