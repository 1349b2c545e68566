package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/poolhouse/confidence-pool/internal/domain/payment"
	"github.com/poolhouse/confidence-pool/internal/domain/survivor"
	paymentmock "github.com/poolhouse/confidence-pool/internal/mocks/domain/payment"
	survivormock "github.com/poolhouse/confidence-pool/internal/mocks/domain/survivor"
	"github.com/poolhouse/confidence-pool/internal/platform/logging"
)

func TestSurvivorService_MarkLosersDead_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	survivorRepo := survivormock.NewRepository(t)
	paymentRepo := paymentmock.NewRepository(t)

	service := NewSurvivorService(survivorRepo, paymentRepo, 5000, logging.NewNop())

	dead := time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC)
	picks := []survivor.Pick{
		{ID: "sv-1", UserID: "u-1", Week: 3, TeamID: strPtr("DAL")},
		{ID: "sv-2", UserID: "u-2", Week: 3, TeamID: strPtr("PHI")},
		{ID: "sv-3", UserID: "u-3", Week: 3, TeamID: strPtr("DAL"), DeadAt: &dead},
	}

	survivorRepo.
		On("ListByWeek", mock.Anything, 3).
		Return(picks, nil).
		Once()
	survivorRepo.
		On("MarkDeadFrom", mock.Anything, "u-1", 3, mock.AnythingOfType("time.Time"), payment.SystemActor).
		Return(nil).
		Once()

	eliminated, err := service.MarkLosersDead(ctx, 3, "DAL")
	if err != nil {
		t.Fatalf("mark losers dead: %v", err)
	}
	if eliminated != 1 {
		t.Fatalf("expected 1 elimination, got %d", eliminated)
	}
}

func TestSurvivorService_MarkEmptyPicksDead_Week1UnregistersUnpaid_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	survivorRepo := survivormock.NewRepository(t)
	paymentRepo := paymentmock.NewRepository(t)

	service := NewSurvivorService(survivorRepo, paymentRepo, 5000, logging.NewNop())

	picks := []survivor.Pick{
		{ID: "sv-1", UserID: "unpaid", Week: 1},
		{ID: "sv-2", UserID: "paid", Week: 1},
	}

	survivorRepo.
		On("ListByWeek", mock.Anything, 1).
		Return(picks, nil).
		Once()
	paymentRepo.
		On("BalanceCents", mock.Anything, "unpaid").
		Return(int64(-12000), nil).
		Once()
	paymentRepo.
		On("BalanceCents", mock.Anything, "paid").
		Return(int64(-5000), nil).
		Once()
	survivorRepo.
		On("Unregister", mock.Anything, "unpaid").
		Return(nil).
		Once()

	removed, err := service.MarkEmptyPicksDead(ctx, 1)
	if err != nil {
		t.Fatalf("mark empty picks dead: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
}

func TestSurvivorService_MarkLosersDead_RepoFailure_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	survivorRepo := survivormock.NewRepository(t)
	paymentRepo := paymentmock.NewRepository(t)

	service := NewSurvivorService(survivorRepo, paymentRepo, 5000, logging.NewNop())

	repoErr := errors.New("connection reset")
	survivorRepo.
		On("ListByWeek", mock.Anything, 2).
		Return(nil, repoErr).
		Once()

	_, err := service.MarkLosersDead(ctx, 2, "NE")
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected repo error, got %v", err)
	}
}
