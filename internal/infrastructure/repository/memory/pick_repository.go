package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/poolhouse/confidence-pool/internal/domain/pick"
)

type PickRepository struct {
	mu    sync.RWMutex
	items []pick.Pick
}

func NewPickRepository(picks []pick.Pick) *PickRepository {
	return &PickRepository{items: append([]pick.Pick(nil), picks...)}
}

func (r *PickRepository) ListByUserWeek(_ context.Context, userID string, week int) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []pick.Pick{}
	for _, item := range r.items {
		if item.UserID == userID && item.Week == week {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *PickRepository) ListUserIDsWithPicksInWeek(_ context.Context, week int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]struct{}{}
	out := []string{}
	for _, item := range r.items {
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

func (r *PickRepository) UpdatePoints(_ context.Context, pickID string, points *int, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == pickID {
			r.items[i].Points = points
			break
		}
	}
	return nil
}

func (r *PickRepository) MoveToWeek(_ context.Context, gameID string, week int, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].GameID == gameID {
			r.items[i].Week = week
		}
	}
	return nil
}
