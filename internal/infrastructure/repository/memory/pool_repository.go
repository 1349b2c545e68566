package memory

import (
	"context"
	"sync"

	"github.com/poolhouse/confidence-pool/internal/domain/pool"
)

type PoolRepository struct {
	mu    sync.RWMutex
	items []pool.Membership
}

func NewPoolRepository(members []pool.Membership) *PoolRepository {
	return &PoolRepository{items: append([]pool.Membership(nil), members...)}
}

func (r *PoolRepository) ListMembers(context.Context) ([]pool.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]pool.Membership(nil), r.items...), nil
}
