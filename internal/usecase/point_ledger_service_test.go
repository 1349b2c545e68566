package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/poolhouse/confidence-pool/internal/domain/pick"
	"github.com/poolhouse/confidence-pool/internal/platform/logging"
)

func pointedPicks(values ...int) []pick.Pick {
	out := make([]pick.Pick, 0, len(values))
	for i, value := range values {
		out = append(out, pick.Pick{
			ID:     "pk-" + string(rune('a'+i)),
			UserID: "u-1",
			Week:   1,
			Points: intPtr(value),
		})
	}
	return out
}

func repairedValues(t *testing.T, picks []pick.Pick, gameCount int) map[string]int {
	t.Helper()
	changes, err := RepairPoints(picks, gameCount)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	out := map[string]int{}
	for _, item := range picks {
		if item.HasPoints() {
			out[item.ID] = item.PointValue()
		}
	}
	for _, change := range changes {
		out[change.PickID] = change.Points
	}
	return out
}

func assertPermutation(t *testing.T, values map[string]int, gameCount int) {
	t.Helper()
	seen := map[int]string{}
	max := 0
	for id, value := range values {
		if value < 1 || value > gameCount {
			t.Fatalf("pick %s out of range: %d", id, value)
		}
		if other, ok := seen[value]; ok {
			t.Fatalf("picks %s and %s both hold %d", id, other, value)
		}
		seen[value] = id
		if value > max {
			max = value
		}
	}
	for v := 1; v <= max; v++ {
		if _, ok := seen[v]; !ok {
			t.Fatalf("gap at %d: values are not contiguous 1..%d", v, max)
		}
	}
}

func TestRepairPoints(t *testing.T) {
	t.Parallel()

	t.Run("valid permutation is untouched", func(t *testing.T) {
		changes, err := RepairPoints(pointedPicks(2, 1, 3), 3)
		if err != nil {
			t.Fatalf("repair: %v", err)
		}
		if len(changes) != 0 {
			t.Fatalf("expected no changes, got %v", changes)
		}
	})

	t.Run("too-high cascades down", func(t *testing.T) {
		picks := pointedPicks(5, 2, 1)
		values := repairedValues(t, picks, 3)
		assertPermutation(t, values, 3)
		if values["pk-a"] != 3 {
			t.Fatalf("highest pick should land on 3, got %d", values["pk-a"])
		}
		if values["pk-b"] != 2 || values["pk-c"] != 1 {
			t.Fatalf("clean picks moved: %v", values)
		}
	})

	t.Run("too-high displaces occupant", func(t *testing.T) {
		picks := pointedPicks(4, 3, 1)
		values := repairedValues(t, picks, 3)
		assertPermutation(t, values, 3)
		if values["pk-a"] != 3 || values["pk-b"] != 2 {
			t.Fatalf("cascade order broken: %v", values)
		}
	})

	t.Run("too-low cascades up", func(t *testing.T) {
		picks := pointedPicks(0, 1, 3)
		values := repairedValues(t, picks, 3)
		assertPermutation(t, values, 3)
		if values["pk-a"] != 1 || values["pk-b"] != 2 {
			t.Fatalf("cascade order broken: %v", values)
		}
	})

	t.Run("duplicate with free slot below moves down", func(t *testing.T) {
		picks := pointedPicks(3, 3, 1)
		values := repairedValues(t, picks, 3)
		assertPermutation(t, values, 3)
		if values["pk-a"] != 3 {
			t.Fatalf("earlier duplicate holder should keep its slot, got %d", values["pk-a"])
		}
		if values["pk-b"] != 2 {
			t.Fatalf("later duplicate should fill the gap at 2, got %d", values["pk-b"])
		}
		if values["pk-c"] != 1 {
			t.Fatalf("clean pick moved: %v", values)
		}
	})

	t.Run("duplicate at floor pushes up", func(t *testing.T) {
		picks := pointedPicks(1, 1, 2)
		values := repairedValues(t, picks, 3)
		assertPermutation(t, values, 3)
		if values["pk-a"] != 1 {
			t.Fatalf("earlier duplicate holder should keep 1, got %d", values["pk-a"])
		}
	})

	t.Run("non-contiguous set compacts", func(t *testing.T) {
		picks := pointedPicks(1, 3)
		values := repairedValues(t, picks, 3)
		assertPermutation(t, values, 3)
		if values["pk-a"] != 1 || values["pk-b"] != 2 {
			t.Fatalf("expected compaction to {1,2}, got %v", values)
		}
	})

	t.Run("unpointed picks are ignored", func(t *testing.T) {
		picks := []pick.Pick{
			{ID: "pk-a", Points: intPtr(4)},
			{ID: "pk-b"},
			{ID: "pk-c", Points: intPtr(1)},
		}
		values := repairedValues(t, picks, 4)
		assertPermutation(t, values, 4)
		if _, ok := values["pk-b"]; ok {
			t.Fatal("unpointed pick gained a value")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		picks := pointedPicks(7, 7, 2, 0)
		changes, err := RepairPoints(picks, 5)
		if err != nil {
			t.Fatalf("first repair: %v", err)
		}
		byID := map[string]*pick.Pick{}
		for i := range picks {
			byID[picks[i].ID] = &picks[i]
		}
		for _, change := range changes {
			byID[change.PickID].Points = intPtr(change.Points)
		}

		again, err := RepairPoints(picks, 5)
		if err != nil {
			t.Fatalf("second repair: %v", err)
		}
		if len(again) != 0 {
			t.Fatalf("second repair changed picks: %v", again)
		}
	})

	t.Run("more pointed picks than games fails", func(t *testing.T) {
		_, err := RepairPoints(pointedPicks(1, 2, 3, 4), 3)
		if !errors.Is(err, ErrDataIntegrity) {
			t.Fatalf("expected data integrity error, got %v", err)
		}
	})
}

func TestClassifyPoints(t *testing.T) {
	t.Parallel()

	picks := []pick.Pick{
		{ID: "pk-a", Points: intPtr(0)},
		{ID: "pk-b", Points: intPtr(2)},
		{ID: "pk-c", Points: intPtr(9)},
		{ID: "pk-d"},
	}
	got := ClassifyPoints(picks, 4)
	if len(got.TooLow) != 1 || got.TooLow[0].ID != "pk-a" {
		t.Fatalf("too-low: %+v", got.TooLow)
	}
	if len(got.TooHigh) != 1 || got.TooHigh[0].ID != "pk-c" {
		t.Fatalf("too-high: %+v", got.TooHigh)
	}
	if len(got.OK) != 1 || got.OK[0].ID != "pk-b" {
		t.Fatalf("ok: %+v", got.OK)
	}
	if !got.NeedsRepair() {
		t.Fatal("expected repair need")
	}
}

func TestPointLedgerService_RepairWeek(t *testing.T) {
	t.Parallel()

	games := &stubGameRepo{games: weekGames(1, 3)}
	picks := &stubPickRepo{picks: []pick.Pick{
		{ID: "pk-1", UserID: "u-1", GameID: "g-1-1", Week: 1, Points: intPtr(3)},
		{ID: "pk-2", UserID: "u-1", GameID: "g-1-2", Week: 1, Points: intPtr(3)},
		{ID: "pk-3", UserID: "u-1", GameID: "g-1-3", Week: 1, Points: intPtr(1)},
	}}
	service := NewPointLedgerService(picks, games, logging.NewNop())

	changed, err := service.RepairWeek(context.Background(), "u-1", 1)
	if err != nil {
		t.Fatalf("repair week: %v", err)
	}
	if changed != 1 {
		t.Fatalf("expected 1 change, got %d", changed)
	}

	stored, _ := picks.ListByUserWeek(context.Background(), "u-1", 1)
	values := map[string]int{}
	for _, item := range stored {
		values[item.ID] = item.PointValue()
	}
	assertPermutation(t, values, 3)

	changed, err = service.RepairWeek(context.Background(), "u-1", 1)
	if err != nil {
		t.Fatalf("second repair week: %v", err)
	}
	if changed != 0 {
		t.Fatalf("second pass should be a no-op, changed %d", changed)
	}
}
