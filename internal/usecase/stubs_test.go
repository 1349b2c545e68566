package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/poolhouse/confidence-pool/internal/domain/game"
	"github.com/poolhouse/confidence-pool/internal/domain/payment"
	"github.com/poolhouse/confidence-pool/internal/domain/pick"
	domainpool "github.com/poolhouse/confidence-pool/internal/domain/pool"
	"github.com/poolhouse/confidence-pool/internal/domain/standing"
	"github.com/poolhouse/confidence-pool/internal/domain/survivor"
	"github.com/poolhouse/confidence-pool/internal/domain/team"
)

// In-memory stub repositories shared across the package's tests. They apply
// writes to their slices so multi-step flows observe their own effects.

type stubGameRepo struct {
	games []game.Game
}

func (s *stubGameRepo) ListByWeek(_ context.Context, week int) ([]game.Game, error) {
	out := []game.Game{}
	for _, item := range s.games {
		if item.Week == week {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (s *stubGameRepo) ListSeason(context.Context) ([]game.Game, error) {
	return append([]game.Game(nil), s.games...), nil
}

func (s *stubGameRepo) UpdateSchedule(_ context.Context, item game.Game) error {
	for i := range s.games {
		if s.games[i].ID == item.ID {
			s.games[i].Week = item.Week
			s.games[i].Sequence = item.Sequence
			s.games[i].KickoffAt = item.KickoffAt
			return nil
		}
	}
	return nil
}

type stubPickRepo struct {
	picks []pick.Pick
}

func (s *stubPickRepo) ListByUserWeek(_ context.Context, userID string, week int) ([]pick.Pick, error) {
	out := []pick.Pick{}
	for _, item := range s.picks {
		if item.UserID == userID && item.Week == week {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubPickRepo) ListUserIDsWithPicksInWeek(_ context.Context, week int) ([]string, error) {
	seen := map[string]struct{}{}
	out := []string{}
	for _, item := range s.picks {
		if item.Week != week {
			continue
		}
		if _, ok := seen[item.UserID]; ok {
			continue
		}
		seen[item.UserID] = struct{}{}
		out = append(out, item.UserID)
	}
	sort.Strings(out)
	return out, nil
}

func (s *stubPickRepo) UpdatePoints(_ context.Context, pickID string, points *int, _ string) error {
	for i := range s.picks {
		if s.picks[i].ID == pickID {
			s.picks[i].Points = points
			return nil
		}
	}
	return nil
}

func (s *stubPickRepo) MoveToWeek(_ context.Context, gameID string, week int, _ string) error {
	for i := range s.picks {
		if s.picks[i].GameID == gameID {
			s.picks[i].Week = week
		}
	}
	return nil
}

type stubTeamRepo struct {
	teams []team.Team
}

func (s *stubTeamRepo) List(context.Context) ([]team.Team, error) {
	return append([]team.Team(nil), s.teams...), nil
}

func (s *stubTeamRepo) UpdateByeWeek(_ context.Context, teamID string, byeWeek *int) error {
	for i := range s.teams {
		if s.teams[i].ID == teamID {
			s.teams[i].ByeWeek = byeWeek
			return nil
		}
	}
	return nil
}

type stubSurvivorRepo struct {
	picks        []survivor.Pick
	unregistered []string
}

func (s *stubSurvivorRepo) ListByWeek(_ context.Context, week int) ([]survivor.Pick, error) {
	out := []survivor.Pick{}
	for _, item := range s.picks {
		if item.Week == week {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubSurvivorRepo) ListByUser(_ context.Context, userID string) ([]survivor.Pick, error) {
	out := []survivor.Pick{}
	for _, item := range s.picks {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubSurvivorRepo) ListAlive(context.Context) ([]survivor.Pick, error) {
	dead := map[string]struct{}{}
	for _, item := range s.picks {
		if item.IsDead() {
			dead[item.UserID] = struct{}{}
		}
	}
	out := []survivor.Pick{}
	for _, item := range s.picks {
		if _, ok := dead[item.UserID]; !ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubSurvivorRepo) MarkDeadFrom(_ context.Context, userID string, fromWeek int, deadAt time.Time, _ string) error {
	for i := range s.picks {
		if s.picks[i].UserID == userID && s.picks[i].Week >= fromWeek && !s.picks[i].IsDead() {
			at := deadAt
			s.picks[i].DeadAt = &at
		}
	}
	return nil
}

func (s *stubSurvivorRepo) Unregister(_ context.Context, userID string) error {
	kept := s.picks[:0]
	for _, item := range s.picks {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	s.picks = kept
	s.unregistered = append(s.unregistered, userID)
	return nil
}

type stubStandingRepo struct {
	weekly   map[int][]standing.Standing
	overall  []standing.Standing
	survivor []standing.Standing
}

func (s *stubStandingRepo) ListWeekly(_ context.Context, week int) ([]standing.Standing, error) {
	return s.weekly[week], nil
}

func (s *stubStandingRepo) ListOverall(context.Context) ([]standing.Standing, error) {
	return s.overall, nil
}

func (s *stubStandingRepo) ListSurvivor(context.Context) ([]standing.Standing, error) {
	return s.survivor, nil
}

type stubPaymentRepo struct {
	tables   map[string]payment.PrizeTable
	balances map[string]int64
	replaced map[string][]payment.Payment
}

func prizeKey(pool string, week *int) string {
	if week == nil {
		return pool
	}
	return pool + "#" + strconv.Itoa(*week)
}

func (s *stubPaymentRepo) GetPrizeTable(_ context.Context, pool string) (payment.PrizeTable, bool, error) {
	table, ok := s.tables[pool]
	return table, ok, nil
}

func (s *stubPaymentRepo) BalanceCents(_ context.Context, userID string) (int64, error) {
	return s.balances[userID], nil
}

func (s *stubPaymentRepo) ReplacePrizes(_ context.Context, pool string, week *int, rows []payment.Payment) error {
	if s.replaced == nil {
		s.replaced = map[string][]payment.Payment{}
	}
	s.replaced[prizeKey(pool, week)] = rows
	return nil
}

type stubPoolRepo struct {
	members []domainpool.Membership
}

func (s *stubPoolRepo) ListMembers(context.Context) ([]domainpool.Membership, error) {
	return s.members, nil
}

type stubFeed struct {
	weeks []ExternalWeek
	err   error
}

func (s *stubFeed) FetchSeason(context.Context) ([]ExternalWeek, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.weeks, nil
}

type stubNotifier struct {
	reports []InvalidGamesReport
	notes   []string
}

func (s *stubNotifier) ReportInvalidGames(_ context.Context, report InvalidGamesReport) error {
	s.reports = append(s.reports, report)
	return nil
}

func (s *stubNotifier) PublishSettlementNote(_ context.Context, note string) error {
	s.notes = append(s.notes, note)
	return nil
}

type stubTx struct{}

func (stubTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// weekGames builds a contiguous slate of count games for the week.
func weekGames(week, count int) []game.Game {
	kickoff := time.Date(2025, time.September, 7, 13, 0, 0, 0, time.UTC).AddDate(0, 0, (week-1)*7)
	out := make([]game.Game, 0, count)
	for seq := 1; seq <= count; seq++ {
		out = append(out, game.Game{
			ID:            fmt.Sprintf("g-%d-%d", week, seq),
			Week:          week,
			Sequence:      seq,
			HomeTeamID:    fmt.Sprintf("H%d%d", week, seq),
			VisitorTeamID: fmt.Sprintf("V%d%d", week, seq),
			KickoffAt:     kickoff.Add(time.Duration(seq) * time.Hour),
			Status:        game.StatusPregame,
		})
	}
	return out
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
