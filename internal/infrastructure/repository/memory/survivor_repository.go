package memory

import (
	"context"
	"sync"
	"time"

	"github.com/poolhouse/confidence-pool/internal/domain/survivor"
)

type SurvivorRepository struct {
	mu    sync.RWMutex
	items []survivor.Pick
}

func NewSurvivorRepository(picks []survivor.Pick) *SurvivorRepository {
	return &SurvivorRepository{items: append([]survivor.Pick(nil), picks...)}
}

func (r *SurvivorRepository) ListByWeek(_ context.Context, week int) ([]survivor.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []survivor.Pick{}
	for _, item := range r.items {
		if item.Week == week {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *SurvivorRepository) ListByUser(_ context.Context, userID string) ([]survivor.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []survivor.Pick{}
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *SurvivorRepository) ListAlive(context.Context) ([]survivor.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dead := map[string]struct{}{}
	for _, item := range r.items {
		if item.IsDead() {
			dead[item.UserID] = struct{}{}
		}
	}
	out := []survivor.Pick{}
	for _, item := range r.items {
		if _, ok := dead[item.UserID]; !ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *SurvivorRepository) MarkDeadFrom(_ context.Context, userID string, fromWeek int, deadAt time.Time, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].UserID == userID && r.items[i].Week >= fromWeek && !r.items[i].IsDead() {
			at := deadAt
			r.items[i].DeadAt = &at
		}
	}
	return nil
}

func (r *SurvivorRepository) Unregister(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	for _, item := range r.items {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}
