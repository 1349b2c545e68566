package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/poolhouse/confidence-pool/internal/domain/game"
	"github.com/poolhouse/confidence-pool/internal/domain/payment"
	"github.com/poolhouse/confidence-pool/internal/domain/pick"
	"github.com/poolhouse/confidence-pool/internal/platform/logging"
)

// PointLedgerService restores the confidence-point permutation invariant for
// one (user, week): the non-nil point values must be exactly {1..k} for some
// k <= N, where N is the week's game count.
type PointLedgerService struct {
	pickRepo pick.Repository
	gameRepo game.Repository
	logger   *logging.Logger
}

func NewPointLedgerService(pickRepo pick.Repository, gameRepo game.Repository, logger *logging.Logger) *PointLedgerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PointLedgerService{
		pickRepo: pickRepo,
		gameRepo: gameRepo,
		logger:   logger,
	}
}

// PointChange is one repaired assignment to persist.
type PointChange struct {
	PickID string
	Points int
}

// PointClassification buckets a week's pointed picks by violation class.
type PointClassification struct {
	TooLow  []pick.Pick
	TooHigh []pick.Pick
	OK      []pick.Pick
}

func (c PointClassification) NeedsRepair() bool {
	return len(c.TooLow) > 0 || len(c.TooHigh) > 0
}

// ClassifyPoints splits pointed picks into too-low / ok / too-high against
// the authoritative game count.
func ClassifyPoints(picks []pick.Pick, gameCount int) PointClassification {
	out := PointClassification{}
	for _, item := range picks {
		if !item.HasPoints() {
			continue
		}
		switch value := item.PointValue(); {
		case value < 1:
			out.TooLow = append(out.TooLow, item)
		case value > gameCount:
			out.TooHigh = append(out.TooHigh, item)
		default:
			out.OK = append(out.OK, item)
		}
	}
	return out
}

// RepairWeek loads the user's picks for the week and persists whatever point
// values the cascade changed. Team choices are never touched. Calling it
// again without new violations writes nothing.
func (s *PointLedgerService) RepairWeek(ctx context.Context, userID string, week int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointLedgerService.RepairWeek")
	defer span.End()

	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if week < 1 {
		return 0, fmt.Errorf("%w: week must be greater than zero", ErrInvalidInput)
	}

	games, err := s.gameRepo.ListByWeek(ctx, week)
	if err != nil {
		return 0, fmt.Errorf("list games for point repair week=%d: %w", week, err)
	}
	picks, err := s.pickRepo.ListByUserWeek(ctx, userID, week)
	if err != nil {
		return 0, fmt.Errorf("list picks for point repair user=%s week=%d: %w", userID, week, err)
	}

	changes, err := RepairPoints(picks, len(games))
	if err != nil {
		return 0, fmt.Errorf("repair points user=%s week=%d: %w", userID, week, err)
	}
	for _, change := range changes {
		points := change.Points
		if err := s.pickRepo.UpdatePoints(ctx, change.PickID, &points, payment.SystemActor); err != nil {
			return 0, fmt.Errorf("persist repaired points pick=%s user=%s week=%d: %w", change.PickID, userID, week, err)
		}
	}

	if len(changes) > 0 {
		s.logger.InfoContext(ctx, "repaired confidence points", "user_id", userID, "week", week, "changed", len(changes))
	}
	return len(changes), nil
}

// RepairPoints computes the repaired permutation for one week's picks without
// touching storage. The cascade is iterative with an explicit displaced-pick
// chain; each pass strictly shrinks the number of collisions, so it
// terminates within gameCount steps per violation.
func RepairPoints(picks []pick.Pick, gameCount int) ([]PointChange, error) {
	type slot struct {
		pickID   string
		value    int
		original int
	}

	pointed := make([]slot, 0, len(picks))
	for _, item := range picks {
		if !item.HasPoints() {
			continue
		}
		pointed = append(pointed, slot{
			pickID:   item.ID,
			value:    item.PointValue(),
			original: item.PointValue(),
		})
	}
	if len(pointed) == 0 {
		return nil, nil
	}
	if len(pointed) > gameCount {
		return nil, fmt.Errorf("%w: %d pointed picks for %d games", ErrDataIntegrity, len(pointed), gameCount)
	}

	inChain := make([]bool, len(pointed))

	// cascade shifts the mover one slot in the given direction, first
	// vacating the target by chaining through consecutive occupants.
	cascade := func(mover int, step int) {
		chain := []int{mover}
		inChain[mover] = true
		for {
			head := chain[len(chain)-1]
			target := pointed[head].value + step
			occupant := -1
			for i := range pointed {
				if !inChain[i] && pointed[i].value == target {
					occupant = i
					break
				}
			}
			if occupant < 0 {
				break
			}
			chain = append(chain, occupant)
			inChain[occupant] = true
		}
		for _, i := range chain {
			pointed[i].value += step
			inChain[i] = false
		}
	}

	maxIdx := func() int {
		best := 0
		for i := range pointed {
			if pointed[i].value > pointed[best].value {
				best = i
			}
		}
		return best
	}
	minIdx := func() int {
		best := 0
		for i := range pointed {
			if pointed[i].value < pointed[best].value {
				best = i
			}
		}
		return best
	}

	// Bounded by construction; the guard exists so a logic regression fails
	// loudly instead of spinning.
	for guard := 0; ; guard++ {
		if guard > gameCount*gameCount+len(pointed) {
			return nil, fmt.Errorf("%w: point cascade did not converge", ErrDataIntegrity)
		}

		if idx := maxIdx(); pointed[idx].value > gameCount {
			cascade(idx, -1)
			continue
		}
		if idx := minIdx(); pointed[idx].value < 1 {
			cascade(idx, +1)
			continue
		}

		if mover, down, found := findCollision(len(pointed), func(i int) int { return pointed[i].value }); found {
			if down {
				cascade(mover, -1)
			} else {
				cascade(mover, +1)
			}
			continue
		}
		break
	}

	changes := make([]PointChange, 0, len(pointed))
	for _, item := range pointed {
		if item.value != item.original {
			changes = append(changes, PointChange{PickID: item.pickID, Points: item.value})
		}
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Points < changes[j].Points
	})
	return changes, nil
}

// findCollision locates the next duplicate or gap to resolve once all values
// are inside [1, N]. Duplicates move toward the nearest free slot; gaps pull
// the pick just above the hole downward so the set compacts to 1..k.
func findCollision(count int, valueAt func(int) int) (mover int, down bool, found bool) {
	holders := make(map[int][]int, count)
	maxValue := 0
	for i := 0; i < count; i++ {
		value := valueAt(i)
		holders[value] = append(holders[value], i)
		if value > maxValue {
			maxValue = value
		}
	}

	// Duplicates first: move the later pick, downward when a slot below is
	// free so relative order of the non-colliding picks survives.
	for value := 1; value <= maxValue; value++ {
		dups := holders[value]
		if len(dups) < 2 {
			continue
		}
		mover = dups[len(dups)-1]
		for below := value - 1; below >= 1; below-- {
			if len(holders[below]) == 0 {
				return mover, true, true
			}
		}
		return mover, false, true
	}

	// Then gaps: find the lowest empty slot under the maximum and drag the
	// next-higher pick into it.
	for value := 1; value < maxValue; value++ {
		if len(holders[value]) > 0 {
			continue
		}
		for above := value + 1; above <= maxValue; above++ {
			if len(holders[above]) > 0 {
				return holders[above][0], true, true
			}
		}
	}

	return 0, false, false
}
