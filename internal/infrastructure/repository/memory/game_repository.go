package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/poolhouse/confidence-pool/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	items []game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	return &GameRepository{items: append([]game.Game(nil), games...)}
}

func (r *GameRepository) ListByWeek(_ context.Context, week int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(func(item game.Game) bool { return item.Week == week }), nil
}

func (r *GameRepository) ListSeason(context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(func(game.Game) bool { return true }), nil
}

func (r *GameRepository) filter(keep func(game.Game) bool) []game.Game {
	out := make([]game.Game, 0, len(r.items))
	for _, item := range r.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out
}

func (r *GameRepository) UpdateSchedule(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == item.ID {
			r.items[i].Week = item.Week
			r.items[i].Sequence = item.Sequence
			r.items[i].KickoffAt = item.KickoffAt
			break
		}
	}
	return nil
}
