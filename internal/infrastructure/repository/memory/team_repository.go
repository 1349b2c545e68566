package memory

import (
	"context"
	"sync"

	"github.com/poolhouse/confidence-pool/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items []team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	return &TeamRepository{items: append([]team.Team(nil), teams...)}
}

func (r *TeamRepository) List(context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]team.Team(nil), r.items...), nil
}

func (r *TeamRepository) UpdateByeWeek(_ context.Context, teamID string, byeWeek *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == teamID {
			r.items[i].ByeWeek = byeWeek
			break
		}
	}
	return nil
}
