package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/poolhouse/confidence-pool/internal/domain/game"
	"github.com/poolhouse/confidence-pool/internal/domain/payment"
	"github.com/poolhouse/confidence-pool/internal/domain/pick"
	"github.com/poolhouse/confidence-pool/internal/domain/team"
	"github.com/poolhouse/confidence-pool/internal/platform/logging"
)

// ScheduleHealerService reconciles stored games against the schedule feed.
// Matching is by (home, visitor) team pair, never by kickoff: kickoff is the
// field the feed rewrites, so it cannot anchor identity.
type ScheduleHealerService struct {
	feed     ScheduleFeed
	gameRepo game.Repository
	teamRepo team.Repository
	pickRepo pick.Repository
	ledger   *PointLedgerService
	notifier Notifier
	tx       Transactor
	logger   *logging.Logger
	now      func() time.Time
}

func NewScheduleHealerService(
	feed ScheduleFeed,
	gameRepo game.Repository,
	teamRepo team.Repository,
	pickRepo pick.Repository,
	ledger *PointLedgerService,
	notifier Notifier,
	tx Transactor,
	logger *logging.Logger,
) *ScheduleHealerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleHealerService{
		feed:     feed,
		gameRepo: gameRepo,
		teamRepo: teamRepo,
		pickRepo: pickRepo,
		ledger:   ledger,
		notifier: notifier,
		tx:       tx,
		logger:   logger,
		now:      time.Now,
	}
}

// HealResult summarizes one week's reconciliation pass.
type HealResult struct {
	Week           int
	Matched        int
	KickoffUpdated int
	RelocatedIn    int
	RelocatedOut   int
	InvalidEntries []InvalidGameEntry
}

// HealWeek reconciles one week. A feed failure aborts before any mutation;
// the pass is idempotent, so the next cycle simply retries.
func (s *ScheduleHealerService) HealWeek(ctx context.Context, week int) (HealResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleHealerService.HealWeek")
	defer span.End()

	if week < 1 {
		return HealResult{}, fmt.Errorf("%w: week must be greater than zero", ErrInvalidInput)
	}

	feedWeeks, err := s.feed.FetchSeason(ctx)
	if err != nil {
		return HealResult{}, fmt.Errorf("%w: fetch schedule feed week=%d: %v", ErrDependencyUnavailable, week, err)
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return HealResult{}, fmt.Errorf("list teams for healing week=%d: %w", week, err)
	}
	seasonGames, err := s.gameRepo.ListSeason(ctx)
	if err != nil {
		return HealResult{}, fmt.Errorf("list season games for healing week=%d: %w", week, err)
	}

	result := HealResult{Week: week}

	// Local games become a worklist keyed by team pair; matched pairs leave
	// it, and whatever stays behind is drift the feed no longer confirms.
	localByPair := make(map[string]game.Game)
	for _, item := range seasonGames {
		if item.Week == week {
			localByPair[item.PairKey()] = item
		}
	}

	var inbound []pendingMove
	for _, matchup := range matchupsForWeek(feedWeeks, week) {
		home, homeOK := team.ResolveRef(teams, matchup.HomeRef)
		visitor, visitorOK := team.ResolveRef(teams, matchup.VisitorRef)
		if !homeOK || !visitorOK {
			result.InvalidEntries = append(result.InvalidEntries, InvalidGameEntry{
				Source:     InvalidSourceFeed,
				Week:       week,
				HomeRef:    matchup.HomeRef,
				VisitorRef: matchup.VisitorRef,
				Reason:     "team reference does not resolve",
			})
			continue
		}

		pair := game.PairKeyFor(home.ID, visitor.ID)
		if local, ok := localByPair[pair]; ok {
			result.Matched++
			if !local.KickoffAt.Equal(matchup.Kickoff) {
				local.KickoffAt = matchup.Kickoff
				if err := s.updateKickoff(ctx, local); err != nil {
					return result, err
				}
				result.KickoffUpdated++
			}
			delete(localByPair, pair)
			continue
		}

		// The feed scheduled this pair for week W but we have it stored
		// elsewhere: a relocated game. Only later weeks are searched; past
		// weeks are settled history. The move itself is deferred so all
		// newcomers to the week can be numbered in kickoff order.
		if moved, ok := findStoredGame(seasonGames, pair, week); ok {
			inbound = append(inbound, pendingMove{gameID: moved.ID, week: week, kickoff: matchup.Kickoff})
			continue
		}

		result.InvalidEntries = append(result.InvalidEntries, InvalidGameEntry{
			Source:     InvalidSourceFeed,
			Week:       week,
			HomeRef:    matchup.HomeRef,
			VisitorRef: matchup.VisitorRef,
			Reason:     "no stored game for team pair",
		})
	}

	movedIn, err := s.applyMoves(ctx, &seasonGames, inbound)
	result.RelocatedIn = movedIn
	if err != nil {
		return result, err
	}

	// Local games the feed no longer lists for this week: follow them to
	// whichever week the feed moved them, or report the drift.
	remaining := make([]game.Game, 0, len(localByPair))
	for _, item := range localByPair {
		remaining = append(remaining, item)
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Sequence < remaining[j].Sequence
	})

	var outbound []pendingMove
	for _, local := range remaining {
		destWeek, kickoff, found := findFeedWeekForPair(feedWeeks, teams, local, week)
		if found {
			outbound = append(outbound, pendingMove{gameID: local.ID, week: destWeek, kickoff: kickoff})
			continue
		}
		result.InvalidEntries = append(result.InvalidEntries, InvalidGameEntry{
			Source:     InvalidSourceStore,
			Week:       week,
			HomeRef:    local.HomeTeamID,
			VisitorRef: local.VisitorTeamID,
			Reason:     "feed has no matchup for team pair in any week",
		})
	}
	movedOut, err := s.applyMoves(ctx, &seasonGames, outbound)
	result.RelocatedOut = movedOut
	if err != nil {
		return result, err
	}

	if len(result.InvalidEntries) > 0 {
		report := InvalidGamesReport{Week: week, Entries: result.InvalidEntries}
		if err := s.notifier.ReportInvalidGames(ctx, report); err != nil {
			s.logger.WarnContext(ctx, "invalid games report delivery failed", "week", week, "error", err)
		}
	}

	if err := s.RecomputeByes(ctx, week); err != nil {
		return result, err
	}

	s.logger.InfoContext(ctx, "healed week",
		"week", week,
		"matched", result.Matched,
		"kickoff_updated", result.KickoffUpdated,
		"relocated_in", result.RelocatedIn,
		"relocated_out", result.RelocatedOut,
		"invalid", len(result.InvalidEntries),
	)
	return result, nil
}

// pendingMove is a relocation decided during matching and applied afterwards.
type pendingMove struct {
	gameID  string
	week    int
	kickoff time.Time
}

// applyMoves relocates the collected games in kickoff order, so games landing
// in the same destination week take their fresh slots earliest kickoff first.
func (s *ScheduleHealerService) applyMoves(ctx context.Context, seasonGames *[]game.Game, moves []pendingMove) (int, error) {
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].kickoff.Before(moves[j].kickoff)
	})

	applied := 0
	for _, move := range moves {
		if err := s.relocateGame(ctx, seasonGames, move.gameID, move.week, move.kickoff); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

func (s *ScheduleHealerService) updateKickoff(ctx context.Context, item game.Game) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.gameRepo.UpdateSchedule(ctx, item); err != nil {
			return fmt.Errorf("update kickoff game=%s week=%d: %w", item.ID, item.Week, err)
		}
		return nil
	})
}

// relocateGame moves one game to a new week inside a single transaction:
// the game row, both weeks' sequence renumbering, the pick rows that follow
// the game, and point repair for every user holding picks in either week.
func (s *ScheduleHealerService) relocateGame(ctx context.Context, seasonGames *[]game.Game, gameID string, toWeek int, kickoff time.Time) error {
	var moved game.Game
	movedIdx := -1
	for i, item := range *seasonGames {
		if item.ID == gameID {
			moved = item
			movedIdx = i
			break
		}
	}
	if movedIdx < 0 {
		return fmt.Errorf("%w: game %s not loaded for relocation", ErrDataIntegrity, gameID)
	}
	fromWeek := moved.Week

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		// Origin week compacts back to 1..count, games keeping their order.
		originSeq := 1
		for i := range *seasonGames {
			item := &(*seasonGames)[i]
			if item.Week != fromWeek || item.ID == gameID {
				continue
			}
			if item.Sequence != originSeq {
				item.Sequence = originSeq
				if err := s.gameRepo.UpdateSchedule(ctx, *item); err != nil {
					return fmt.Errorf("renumber origin week=%d game=%s: %w", fromWeek, item.ID, err)
				}
			}
			originSeq++
		}

		// Destination keeps existing slots; the newcomer takes the next open
		// one. applyMoves hands games over earliest kickoff first, so a batch
		// of newcomers ends up numbered in kickoff order.
		destCount := 0
		for _, item := range *seasonGames {
			if item.Week == toWeek && item.ID != gameID {
				destCount++
			}
		}

		moved.Week = toWeek
		moved.Sequence = destCount + 1
		moved.KickoffAt = kickoff
		if err := s.gameRepo.UpdateSchedule(ctx, moved); err != nil {
			return fmt.Errorf("move game=%s to week=%d: %w", gameID, toWeek, err)
		}
		(*seasonGames)[movedIdx] = moved

		if err := s.pickRepo.MoveToWeek(ctx, gameID, toWeek, payment.SystemActor); err != nil {
			return fmt.Errorf("move picks for game=%s to week=%d: %w", gameID, toWeek, err)
		}

		// Both weeks changed size, so both permutations need repair.
		for _, affectedWeek := range []int{fromWeek, toWeek} {
			userIDs, err := s.pickRepo.ListUserIDsWithPicksInWeek(ctx, affectedWeek)
			if err != nil {
				return fmt.Errorf("list users for point repair week=%d: %w", affectedWeek, err)
			}
			for _, userID := range userIDs {
				if _, err := s.ledger.RepairWeek(ctx, userID, affectedWeek); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "relocated game", "game_id", gameID, "from_week", fromWeek, "to_week", toWeek)
	return nil
}

// RecomputeByes marks teams absent from the week's slate as on bye, and
// clears stale bye markers for teams that do play.
func (s *ScheduleHealerService) RecomputeByes(ctx context.Context, week int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleHealerService.RecomputeByes")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list teams for bye recompute week=%d: %w", week, err)
	}
	games, err := s.gameRepo.ListByWeek(ctx, week)
	if err != nil {
		return fmt.Errorf("list games for bye recompute week=%d: %w", week, err)
	}

	playing := make(map[string]struct{}, len(games)*2)
	for _, item := range games {
		playing[item.HomeTeamID] = struct{}{}
		playing[item.VisitorTeamID] = struct{}{}
	}

	for _, item := range teams {
		_, plays := playing[item.ID]
		onBye := item.ByeWeek != nil && *item.ByeWeek == week
		switch {
		case !plays && !onBye:
			byeWeek := week
			if err := s.teamRepo.UpdateByeWeek(ctx, item.ID, &byeWeek); err != nil {
				return fmt.Errorf("set bye week team=%s week=%d: %w", item.ID, week, err)
			}
		case plays && onBye:
			if err := s.teamRepo.UpdateByeWeek(ctx, item.ID, nil); err != nil {
				return fmt.Errorf("clear bye week team=%s week=%d: %w", item.ID, week, err)
			}
		}
	}
	return nil
}

func matchupsForWeek(weeks []ExternalWeek, week int) []ExternalMatchup {
	for _, item := range weeks {
		if item.Week == week {
			return item.Matchups
		}
	}
	return nil
}

// findStoredGame searches later weeks for the team pair; earlier weeks are
// already played or settled and never pulled forward.
func findStoredGame(seasonGames []game.Game, pair string, afterWeek int) (game.Game, bool) {
	for _, item := range seasonGames {
		if item.Week > afterWeek && item.PairKey() == pair {
			return item, true
		}
	}
	return game.Game{}, false
}

// findFeedWeekForPair searches every feed week except the one being healed
// for the local game's team pair.
func findFeedWeekForPair(weeks []ExternalWeek, teams []team.Team, local game.Game, excludeWeek int) (int, time.Time, bool) {
	for _, feedWeek := range weeks {
		if feedWeek.Week == excludeWeek {
			continue
		}
		for _, matchup := range feedWeek.Matchups {
			home, homeOK := team.ResolveRef(teams, matchup.HomeRef)
			visitor, visitorOK := team.ResolveRef(teams, matchup.VisitorRef)
			if !homeOK || !visitorOK {
				continue
			}
			if game.PairKeyFor(home.ID, visitor.ID) == local.PairKey() {
				return feedWeek.Week, matchup.Kickoff, true
			}
		}
	}
	return 0, time.Time{}, false
}
