package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/poolhouse/confidence-pool/internal/domain/game"
	"github.com/poolhouse/confidence-pool/internal/domain/payment"
	"github.com/poolhouse/confidence-pool/internal/domain/pick"
	domainpool "github.com/poolhouse/confidence-pool/internal/domain/pool"
	"github.com/poolhouse/confidence-pool/internal/domain/standing"
	"github.com/poolhouse/confidence-pool/internal/domain/survivor"
	"github.com/poolhouse/confidence-pool/internal/platform/logging"
)

const defaultSettlementWorkers = 8

// SettlementService drives one settlement cycle: schedule healing, point
// repair across the member roster, survivor elimination, and prize
// settlement. The external scheduler serializes cycles; nothing here guards
// against two concurrent runs over the same scope.
type SettlementService struct {
	poolRepo     domainpool.Repository
	pickRepo     pick.Repository
	gameRepo     game.Repository
	standingRepo standing.Repository
	paymentRepo  payment.Repository
	survivorRepo survivor.Repository

	ledger      *PointLedgerService
	healer      *ScheduleHealerService
	survivorSvc *SurvivorService
	notifier    Notifier

	workers int
	logger  *logging.Logger
	now     func() time.Time
}

func NewSettlementService(
	poolRepo domainpool.Repository,
	pickRepo pick.Repository,
	gameRepo game.Repository,
	standingRepo standing.Repository,
	paymentRepo payment.Repository,
	survivorRepo survivor.Repository,
	ledger *PointLedgerService,
	healer *ScheduleHealerService,
	survivorSvc *SurvivorService,
	notifier Notifier,
	workers int,
	logger *logging.Logger,
) *SettlementService {
	if workers < 1 {
		workers = defaultSettlementWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SettlementService{
		poolRepo:     poolRepo,
		pickRepo:     pickRepo,
		gameRepo:     gameRepo,
		standingRepo: standingRepo,
		paymentRepo:  paymentRepo,
		survivorRepo: survivorRepo,
		ledger:       ledger,
		healer:       healer,
		survivorSvc:  survivorSvc,
		notifier:     notifier,
		workers:      workers,
		logger:       logger,
		now:          time.Now,
	}
}

// RepairAllPoints walks every member's picks for the week and repairs the
// point permutation where it is violated. Users are independent, so the walk
// fans out over a bounded worker pool; repair within one user stays
// sequential.
func (s *SettlementService) RepairAllPoints(ctx context.Context, week int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.RepairAllPoints")
	defer span.End()

	if week < 1 {
		return 0, fmt.Errorf("%w: week must be greater than zero", ErrInvalidInput)
	}

	members, err := s.poolRepo.ListMembers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list members for point repair week=%d: %w", week, err)
	}
	games, err := s.gameRepo.ListByWeek(ctx, week)
	if err != nil {
		return 0, fmt.Errorf("list games for point repair week=%d: %w", week, err)
	}
	gameCount := len(games)

	workerPool, err := ants.NewPool(s.workers)
	if err != nil {
		return 0, fmt.Errorf("create repair worker pool: %w", err)
	}
	defer workerPool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		repaired int
		firstErr error
	)
	for _, member := range members {
		userID := member.UserID
		wg.Add(1)
		submitErr := workerPool.Submit(func() {
			defer wg.Done()
			changed, err := s.repairMemberWeek(ctx, userID, week, gameCount)
			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			repaired += changed
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit repair task user=%s week=%d: %w", userID, week, submitErr)
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return repaired, firstErr
	}
	s.logger.InfoContext(ctx, "point repair pass complete", "week", week, "members", len(members), "repaired_picks", repaired)
	return repaired, nil
}

// repairMemberWeek classifies first and only invokes repair when a violation
// class is non-empty, so the common all-clean case stays read-only.
func (s *SettlementService) repairMemberWeek(ctx context.Context, userID string, week, gameCount int) (int, error) {
	picks, err := s.pickRepo.ListByUserWeek(ctx, userID, week)
	if err != nil {
		return 0, fmt.Errorf("list picks user=%s week=%d: %w", userID, week, err)
	}

	classification := ClassifyPoints(picks, gameCount)
	if !classification.NeedsRepair() && !hasCollision(picks) {
		return 0, nil
	}
	return s.ledger.RepairWeek(ctx, userID, week)
}

func hasCollision(picks []pick.Pick) bool {
	values := make([]int, 0, len(picks))
	for _, item := range picks {
		if item.HasPoints() {
			values = append(values, item.PointValue())
		}
	}
	_, _, found := findCollision(len(values), func(i int) int { return values[i] })
	return found
}

// HealWeeks runs schedule healing for each week. Weeks are independent;
// healing within one week is sequential inside the healer.
func (s *SettlementService) HealWeeks(ctx context.Context, weeks []int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.HealWeeks")
	defer span.End()

	group := pool.New().WithErrors().WithMaxGoroutines(s.workers)
	for _, week := range weeks {
		week := week
		group.Go(func() error {
			_, err := s.healer.HealWeek(ctx, week)
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("heal weeks: %w", err)
	}
	return nil
}

// SettlementSummary reports what one prize-settlement pass wrote.
type SettlementSummary struct {
	WeeklyWeeks     int
	WeeklyAwards    int
	OverallSettled  bool
	LastPlaceUser   string
	SurvivorSettled bool
}

// SettlePrizes recomputes and replaces Prize ledger rows. Weekly prizes are
// replaced unconditionally for weeks 1..currentWeek; the overall pool and its
// last-place bonus settle only once every season game is final; the survivor
// pool settles only in the cycle it concludes.
func (s *SettlementService) SettlePrizes(ctx context.Context, currentWeek int) (SettlementSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.SettlePrizes")
	defer span.End()

	summary := SettlementSummary{}
	if currentWeek < 1 {
		return summary, fmt.Errorf("%w: current week must be greater than zero", ErrInvalidInput)
	}

	for week := 1; week <= currentWeek; week++ {
		awards, err := s.settleWeekly(ctx, week)
		if err != nil {
			return summary, err
		}
		summary.WeeklyWeeks++
		summary.WeeklyAwards += awards
	}

	seasonGames, err := s.gameRepo.ListSeason(ctx)
	if err != nil {
		return summary, fmt.Errorf("list season games for settlement: %w", err)
	}
	totalWeeks := 0
	seasonDone := len(seasonGames) > 0
	for _, item := range seasonGames {
		if item.Week > totalWeeks {
			totalWeeks = item.Week
		}
		if item.Status != game.StatusInvalid && !item.IsFinal() {
			seasonDone = false
		}
	}

	if seasonDone {
		if err := s.settleOverall(ctx, &summary); err != nil {
			return summary, err
		}
	}

	justEnded, err := s.survivorJustEnded(ctx, currentWeek, totalWeeks, seasonDone)
	if err != nil {
		return summary, err
	}
	if justEnded {
		if err := s.settleSurvivor(ctx); err != nil {
			return summary, err
		}
		summary.SurvivorSettled = true
	}

	note := fmt.Sprintf("settled prizes through week %d: %d weekly awards, overall=%t, survivor=%t",
		currentWeek, summary.WeeklyAwards, summary.OverallSettled, summary.SurvivorSettled)
	if err := s.notifier.PublishSettlementNote(ctx, note); err != nil {
		s.logger.WarnContext(ctx, "settlement note delivery failed", "error", err)
	}
	return summary, nil
}

func (s *SettlementService) settleWeekly(ctx context.Context, week int) (int, error) {
	table, ok, err := s.paymentRepo.GetPrizeTable(ctx, payment.PoolWeekly)
	if err != nil {
		return 0, fmt.Errorf("load weekly prize table: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: weekly prize table", ErrNotFound)
	}

	standings, err := s.standingRepo.ListWeekly(ctx, week)
	if err != nil {
		return 0, fmt.Errorf("list weekly standings week=%d: %w", week, err)
	}

	awards := AllocatePrizes(table, standings)
	rows := s.prizeRows(awards, payment.PoolWeekly, &week, fmt.Sprintf("weekly prize week %d", week))
	if err := s.paymentRepo.ReplacePrizes(ctx, payment.PoolWeekly, &week, rows); err != nil {
		return 0, fmt.Errorf("replace weekly prizes week=%d: %w", week, err)
	}
	return len(awards), nil
}

func (s *SettlementService) settleOverall(ctx context.Context, summary *SettlementSummary) error {
	table, ok, err := s.paymentRepo.GetPrizeTable(ctx, payment.PoolOverall)
	if err != nil {
		return fmt.Errorf("load overall prize table: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: overall prize table", ErrNotFound)
	}

	standings, err := s.standingRepo.ListOverall(ctx)
	if err != nil {
		return fmt.Errorf("list overall standings: %w", err)
	}

	awards := AllocatePrizes(table, standings)
	rows := s.prizeRows(awards, payment.PoolOverall, nil, "overall season prize")
	if err := s.paymentRepo.ReplacePrizes(ctx, payment.PoolOverall, nil, rows); err != nil {
		return fmt.Errorf("replace overall prizes: %w", err)
	}
	summary.OverallSettled = true

	return s.settleLastPlace(ctx, standings, summary)
}

// settleLastPlace awards the overall pool's one-slot consolation prize to the
// worst-ranked users who never missed a pick all season.
func (s *SettlementService) settleLastPlace(ctx context.Context, overall []standing.Standing, summary *SettlementSummary) error {
	table, ok, err := s.paymentRepo.GetPrizeTable(ctx, payment.PoolLastPlace)
	if err != nil {
		return fmt.Errorf("load last-place prize table: %w", err)
	}
	if !ok {
		// Not every season funds the consolation slot.
		return nil
	}

	worstRank := 0
	for _, row := range overall {
		if row.Missed == 0 && row.Rank > worstRank {
			worstRank = row.Rank
		}
	}
	if worstRank == 0 {
		return nil
	}

	group := make([]standing.Standing, 0, 1)
	for _, row := range overall {
		if row.Missed == 0 && row.Rank == worstRank {
			row.Rank = 1
			group = append(group, row)
		}
	}

	awards := AllocatePrizes(table, group)
	rows := s.prizeRows(awards, payment.PoolLastPlace, nil, "overall last-place bonus")
	if err := s.paymentRepo.ReplacePrizes(ctx, payment.PoolLastPlace, nil, rows); err != nil {
		return fmt.Errorf("replace last-place prize: %w", err)
	}
	if len(awards) > 0 {
		summary.LastPlaceUser = awards[0].UserID
	}
	return nil
}

func (s *SettlementService) settleSurvivor(ctx context.Context) error {
	table, ok, err := s.paymentRepo.GetPrizeTable(ctx, payment.PoolSurvivor)
	if err != nil {
		return fmt.Errorf("load survivor prize table: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: survivor prize table", ErrNotFound)
	}

	standings, err := s.standingRepo.ListSurvivor(ctx)
	if err != nil {
		return fmt.Errorf("list survivor standings: %w", err)
	}

	awards := AllocatePrizes(table, standings)
	rows := s.prizeRows(awards, payment.PoolSurvivor, nil, "survivor pool prize")
	if err := s.paymentRepo.ReplacePrizes(ctx, payment.PoolSurvivor, nil, rows); err != nil {
		return fmt.Errorf("replace survivor prizes: %w", err)
	}
	return nil
}

// survivorJustEnded detects whether the survivor pool concluded in this
// cycle. Three conditions, checked in order: the season itself ended; the
// sole remaining survivor became sole exactly this week; or, with the tied
// leaders still alive, the chasing group died out exactly this week.
func (s *SettlementService) survivorJustEnded(ctx context.Context, currentWeek, totalWeeks int, seasonDone bool) (bool, error) {
	if seasonDone && currentWeek >= totalWeeks {
		return true, nil
	}

	alivePicks, err := s.survivorRepo.ListAlive(ctx)
	if err != nil {
		return false, fmt.Errorf("list alive survivors: %w", err)
	}
	alive := make(map[string]struct{})
	for _, item := range alivePicks {
		alive[item.UserID] = struct{}{}
	}

	// A user's elimination week is the first week carrying the dead marker.
	firstDead := make(map[string]int)
	for week := 1; week <= currentWeek; week++ {
		picks, err := s.survivorRepo.ListByWeek(ctx, week)
		if err != nil {
			return false, fmt.Errorf("list survivor picks week=%d: %w", week, err)
		}
		for _, item := range picks {
			if !item.IsDead() {
				continue
			}
			if _, seen := firstDead[item.UserID]; !seen {
				firstDead[item.UserID] = week
			}
		}
	}

	diedThisWeek := 0
	lastDeathWeek := 0
	for _, week := range firstDead {
		if week == currentWeek {
			diedThisWeek++
		}
		if week > lastDeathWeek {
			lastDeathWeek = week
		}
	}

	if len(alive) == 1 && diedThisWeek > 0 {
		return true, nil
	}
	if len(alive) > 1 && len(firstDead) > 0 && lastDeathWeek == currentWeek {
		return true, nil
	}
	return false, nil
}

func (s *SettlementService) prizeRows(awards []Award, poolName string, week *int, note string) []payment.Payment {
	createdAt := s.now()
	rows := make([]payment.Payment, 0, len(awards))
	for _, award := range awards {
		rows = append(rows, payment.Payment{
			UserID:      award.UserID,
			AmountCents: award.AmountCents,
			Kind:        payment.KindPrize,
			Pool:        poolName,
			Week:        week,
			Note:        note,
			CreatedBy:   payment.SystemActor,
			CreatedAt:   createdAt,
		})
	}
	return rows
}

// Run executes one full settlement cycle for the current week: heal the
// schedule, apply final game results to the survivor pool, eliminate empty
// picks, repair points across the roster, then settle prizes.
func (s *SettlementService) Run(ctx context.Context, currentWeek int) (SettlementSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.Run")
	defer span.End()

	if currentWeek < 1 {
		return SettlementSummary{}, fmt.Errorf("%w: current week must be greater than zero", ErrInvalidInput)
	}

	if err := s.HealWeeks(ctx, []int{currentWeek}); err != nil {
		return SettlementSummary{}, err
	}

	games, err := s.gameRepo.ListByWeek(ctx, currentWeek)
	if err != nil {
		return SettlementSummary{}, fmt.Errorf("list games for settlement week=%d: %w", currentWeek, err)
	}
	for _, item := range games {
		if err := s.survivorSvc.ApplyGameResult(ctx, item); err != nil {
			return SettlementSummary{}, err
		}
	}
	if _, err := s.survivorSvc.MarkEmptyPicksDead(ctx, currentWeek); err != nil {
		return SettlementSummary{}, err
	}

	if _, err := s.RepairAllPoints(ctx, currentWeek); err != nil {
		return SettlementSummary{}, err
	}

	summary, err := s.SettlePrizes(ctx, currentWeek)
	if err != nil {
		return summary, err
	}
	s.logger.InfoContext(ctx, "settlement cycle complete", "week", currentWeek,
		"weekly_awards", summary.WeeklyAwards, "overall", summary.OverallSettled, "survivor", summary.SurvivorSettled)
	return summary, nil
}
