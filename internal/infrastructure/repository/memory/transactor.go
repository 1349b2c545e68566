package memory

import "context"

// Transactor satisfies usecase.Transactor without transactional semantics;
// the in-memory store applies each write immediately.
type Transactor struct{}

func NewTransactor() Transactor {
	return Transactor{}
}

func (Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
