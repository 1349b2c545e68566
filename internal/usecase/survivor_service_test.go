package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/poolhouse/confidence-pool/internal/domain/game"
	"github.com/poolhouse/confidence-pool/internal/domain/survivor"
	"github.com/poolhouse/confidence-pool/internal/platform/logging"
)

const testEntryFeeCents = 5000

func survivorPicks(userID string, picksByWeek map[int]*string) []survivor.Pick {
	out := make([]survivor.Pick, 0, len(picksByWeek))
	for week, teamID := range picksByWeek {
		out = append(out, survivor.Pick{
			ID:     userID + "-w" + string(rune('0'+week)),
			UserID: userID,
			Week:   week,
			TeamID: teamID,
		})
	}
	return out
}

func deadWeeks(picks []survivor.Pick, userID string) map[int]bool {
	out := map[int]bool{}
	for _, item := range picks {
		if item.UserID == userID {
			out[item.Week] = item.IsDead()
		}
	}
	return out
}

func TestSurvivorService_MarkLosersDead_Monotonic(t *testing.T) {
	t.Parallel()

	repo := &stubSurvivorRepo{}
	repo.picks = append(repo.picks, survivorPicks("u-1", map[int]*string{
		1: strPtr("NE"), 2: strPtr("DAL"), 3: strPtr("GB"), 4: nil,
	})...)
	repo.picks = append(repo.picks, survivorPicks("u-2", map[int]*string{
		1: strPtr("NE"), 2: strPtr("KC"), 3: nil, 4: nil,
	})...)

	service := NewSurvivorService(repo, &stubPaymentRepo{}, testEntryFeeCents, logging.NewNop())
	eliminated, err := service.MarkLosersDead(context.Background(), 2, "DAL")
	if err != nil {
		t.Fatalf("mark losers dead: %v", err)
	}
	if eliminated != 1 {
		t.Fatalf("expected one elimination, got %d", eliminated)
	}

	dead := deadWeeks(repo.picks, "u-1")
	if dead[1] {
		t.Fatal("week before elimination must stay alive")
	}
	for week := 2; week <= 4; week++ {
		if !dead[week] {
			t.Fatalf("week %d should be dead after elimination at week 2", week)
		}
	}
	for week, isDead := range deadWeeks(repo.picks, "u-2") {
		if isDead {
			t.Fatalf("untouched user marked dead at week %d", week)
		}
	}
}

func TestSurvivorService_MarkLosersDead_AlreadyDeadUnchanged(t *testing.T) {
	t.Parallel()

	deadAt := time.Date(2025, time.September, 14, 20, 0, 0, 0, time.UTC)
	repo := &stubSurvivorRepo{picks: []survivor.Pick{
		{ID: "u-1-w2", UserID: "u-1", Week: 2, TeamID: strPtr("DAL"), DeadAt: &deadAt},
	}}

	service := NewSurvivorService(repo, &stubPaymentRepo{}, testEntryFeeCents, logging.NewNop())
	eliminated, err := service.MarkLosersDead(context.Background(), 2, "DAL")
	if err != nil {
		t.Fatalf("mark losers dead: %v", err)
	}
	if eliminated != 0 {
		t.Fatalf("dead picks must not be re-eliminated, got %d", eliminated)
	}
	if !repo.picks[0].DeadAt.Equal(deadAt) {
		t.Fatalf("original death timestamp rewritten: %v", repo.picks[0].DeadAt)
	}
}

func TestSurvivorService_ApplyGameResult_TieEliminatesBothSides(t *testing.T) {
	t.Parallel()

	repo := &stubSurvivorRepo{picks: []survivor.Pick{
		{ID: "u-1-w3", UserID: "u-1", Week: 3, TeamID: strPtr("NE")},
		{ID: "u-2-w3", UserID: "u-2", Week: 3, TeamID: strPtr("NYJ")},
		{ID: "u-3-w3", UserID: "u-3", Week: 3, TeamID: strPtr("KC")},
	}}
	service := NewSurvivorService(repo, &stubPaymentRepo{}, testEntryFeeCents, logging.NewNop())

	tied := game.Game{
		ID: "g-1", Week: 3, HomeTeamID: "NE", VisitorTeamID: "NYJ",
		Status: game.StatusFinal, WinnerTeamID: game.TieTeamID,
	}
	if err := service.ApplyGameResult(context.Background(), tied); err != nil {
		t.Fatalf("apply game result: %v", err)
	}

	if !deadWeeks(repo.picks, "u-1")[3] || !deadWeeks(repo.picks, "u-2")[3] {
		t.Fatal("a tie must eliminate pickers of both teams")
	}
	if deadWeeks(repo.picks, "u-3")[3] {
		t.Fatal("picker of an uninvolved team eliminated")
	}
}

func TestSurvivorService_MarkEmptyPicksDead(t *testing.T) {
	t.Parallel()

	t.Run("week one unregisters only users who never paid", func(t *testing.T) {
		repo := &stubSurvivorRepo{picks: []survivor.Pick{
			{ID: "u-1-w1", UserID: "u-1", Week: 1},
			{ID: "u-2-w1", UserID: "u-2", Week: 1},
			{ID: "u-3-w1", UserID: "u-3", Week: 1, TeamID: strPtr("NE")},
		}}
		payments := &stubPaymentRepo{balances: map[string]int64{
			"u-1": -12000,
			"u-2": -testEntryFeeCents,
		}}

		service := NewSurvivorService(repo, payments, testEntryFeeCents, logging.NewNop())
		removed, err := service.MarkEmptyPicksDead(context.Background(), 1)
		if err != nil {
			t.Fatalf("mark empty picks dead: %v", err)
		}
		if removed != 1 {
			t.Fatalf("expected one removal, got %d", removed)
		}
		if len(repo.unregistered) != 1 || repo.unregistered[0] != "u-1" {
			t.Fatalf("unpaid user should be unregistered: %v", repo.unregistered)
		}
		for _, item := range repo.picks {
			if item.IsDead() {
				t.Fatalf("week-one empty pick of a paid user marked dead: %+v", item)
			}
		}
	})

	t.Run("later weeks eliminate unconditionally", func(t *testing.T) {
		repo := &stubSurvivorRepo{picks: []survivor.Pick{
			{ID: "u-1-w5", UserID: "u-1", Week: 5},
			{ID: "u-1-w6", UserID: "u-1", Week: 6},
			{ID: "u-2-w5", UserID: "u-2", Week: 5, TeamID: strPtr("GB")},
		}}

		service := NewSurvivorService(repo, &stubPaymentRepo{}, testEntryFeeCents, logging.NewNop())
		removed, err := service.MarkEmptyPicksDead(context.Background(), 5)
		if err != nil {
			t.Fatalf("mark empty picks dead: %v", err)
		}
		if removed != 1 {
			t.Fatalf("expected one elimination, got %d", removed)
		}
		dead := deadWeeks(repo.picks, "u-1")
		if !dead[5] || !dead[6] {
			t.Fatalf("empty pick should cascade dead from week 5: %v", dead)
		}
		if deadWeeks(repo.picks, "u-2")[5] {
			t.Fatal("user with a pick eliminated")
		}
	})
}
