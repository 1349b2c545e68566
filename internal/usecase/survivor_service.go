package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/poolhouse/confidence-pool/internal/domain/game"
	"github.com/poolhouse/confidence-pool/internal/domain/payment"
	"github.com/poolhouse/confidence-pool/internal/domain/survivor"
	"github.com/poolhouse/confidence-pool/internal/platform/logging"
)

// SurvivorService enforces monotonic elimination in the survivor side-pool.
type SurvivorService struct {
	survivorRepo  survivor.Repository
	paymentRepo   payment.Repository
	entryFeeCents int64
	logger        *logging.Logger
	now           func() time.Time
}

func NewSurvivorService(survivorRepo survivor.Repository, paymentRepo payment.Repository, entryFeeCents int64, logger *logging.Logger) *SurvivorService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SurvivorService{
		survivorRepo:  survivorRepo,
		paymentRepo:   paymentRepo,
		entryFeeCents: entryFeeCents,
		logger:        logger,
		now:           time.Now,
	}
}

// MarkLosersDead eliminates every user whose pick for the week backed the
// losing team. The dead marker propagates to all later weeks; elimination is
// never reversed.
func (s *SurvivorService) MarkLosersDead(ctx context.Context, week int, losingTeamID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SurvivorService.MarkLosersDead")
	defer span.End()

	if week < 1 {
		return 0, fmt.Errorf("%w: week must be greater than zero", ErrInvalidInput)
	}
	if losingTeamID == "" {
		return 0, fmt.Errorf("%w: losing team id is required", ErrInvalidInput)
	}

	picks, err := s.survivorRepo.ListByWeek(ctx, week)
	if err != nil {
		return 0, fmt.Errorf("list survivor picks week=%d: %w", week, err)
	}

	deadAt := s.now()
	eliminated := 0
	for _, item := range picks {
		if item.IsDead() || !item.HasTeam() || *item.TeamID != losingTeamID {
			continue
		}
		if err := s.survivorRepo.MarkDeadFrom(ctx, item.UserID, week, deadAt, payment.SystemActor); err != nil {
			return eliminated, fmt.Errorf("mark survivor dead user=%s week=%d: %w", item.UserID, week, err)
		}
		eliminated++
	}

	if eliminated > 0 {
		s.logger.InfoContext(ctx, "eliminated survivor pickers", "week", week, "team_id", losingTeamID, "eliminated", eliminated)
	}
	return eliminated, nil
}

// MarkEmptyPicksDead eliminates users who left the week's pick empty. Week 1
// is special: an empty pick there only matters when the user never paid the
// entry fee, and such users are unregistered outright rather than marked
// dead, since they never actually joined.
func (s *SurvivorService) MarkEmptyPicksDead(ctx context.Context, week int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SurvivorService.MarkEmptyPicksDead")
	defer span.End()

	if week < 1 {
		return 0, fmt.Errorf("%w: week must be greater than zero", ErrInvalidInput)
	}

	picks, err := s.survivorRepo.ListByWeek(ctx, week)
	if err != nil {
		return 0, fmt.Errorf("list survivor picks week=%d: %w", week, err)
	}

	deadAt := s.now()
	removed := 0
	for _, item := range picks {
		if item.IsDead() || item.HasTeam() {
			continue
		}

		if week == 1 {
			balance, err := s.paymentRepo.BalanceCents(ctx, item.UserID)
			if err != nil {
				return removed, fmt.Errorf("load balance user=%s: %w", item.UserID, err)
			}
			if balance < -s.entryFeeCents {
				if err := s.survivorRepo.Unregister(ctx, item.UserID); err != nil {
					return removed, fmt.Errorf("unregister survivor user=%s: %w", item.UserID, err)
				}
				removed++
			}
			continue
		}

		if err := s.survivorRepo.MarkDeadFrom(ctx, item.UserID, week, deadAt, payment.SystemActor); err != nil {
			return removed, fmt.Errorf("mark survivor dead user=%s week=%d: %w", item.UserID, week, err)
		}
		removed++
	}

	if removed > 0 {
		s.logger.InfoContext(ctx, "eliminated empty survivor picks", "week", week, "removed", removed)
	}
	return removed, nil
}

// ApplyGameResult runs elimination for a game that just went final. A tie
// eliminates pickers of both sides.
func (s *SurvivorService) ApplyGameResult(ctx context.Context, g game.Game) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SurvivorService.ApplyGameResult")
	defer span.End()

	for _, teamID := range g.LosingTeamIDs() {
		if _, err := s.MarkLosersDead(ctx, g.Week, teamID); err != nil {
			return err
		}
	}
	return nil
}
