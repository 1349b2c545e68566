package memory

import (
	"context"
	"sync"

	"github.com/poolhouse/confidence-pool/internal/domain/standing"
)

type StandingRepository struct {
	mu       sync.RWMutex
	weekly   map[int][]standing.Standing
	overall  []standing.Standing
	survivor []standing.Standing
}

func NewStandingRepository(weekly map[int][]standing.Standing, overall, survivor []standing.Standing) *StandingRepository {
	if weekly == nil {
		weekly = map[int][]standing.Standing{}
	}
	return &StandingRepository{weekly: weekly, overall: overall, survivor: survivor}
}

func (r *StandingRepository) ListWeekly(_ context.Context, week int) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]standing.Standing(nil), r.weekly[week]...), nil
}

func (r *StandingRepository) ListOverall(context.Context) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]standing.Standing(nil), r.overall...), nil
}

func (r *StandingRepository) ListSurvivor(context.Context) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]standing.Standing(nil), r.survivor...), nil
}
