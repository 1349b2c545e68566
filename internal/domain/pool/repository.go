package pool

import "context"

// Repository exposes membership queries for the settlement walk.
type Repository interface {
	ListMembers(ctx context.Context) ([]Membership, error)
}
