package usecase

import (
	"testing"

	"github.com/poolhouse/confidence-pool/internal/domain/payment"
	"github.com/poolhouse/confidence-pool/internal/domain/standing"
)

func rankedStanding(userID string, rank int) standing.Standing {
	return standing.Standing{Kind: standing.KindWeekly, UserID: userID, Rank: rank}
}

func awardsByUser(awards []Award) map[string]int64 {
	out := map[string]int64{}
	for _, item := range awards {
		out[item.UserID] = item.AmountCents
	}
	return out
}

func TestAllocatePrizes(t *testing.T) {
	t.Parallel()

	table := payment.PrizeTable{Pool: payment.PoolWeekly, AmountsCents: []int64{10000, 6000, 4000}}

	t.Run("no ties pays table as written", func(t *testing.T) {
		awards := AllocatePrizes(table, []standing.Standing{
			rankedStanding("u-1", 1),
			rankedStanding("u-2", 2),
			rankedStanding("u-3", 3),
		})
		got := awardsByUser(awards)
		if got["u-1"] != 10000 || got["u-2"] != 6000 || got["u-3"] != 4000 {
			t.Fatalf("unexpected awards: %v", got)
		}
	})

	t.Run("tie at first rolls second prize into the split", func(t *testing.T) {
		awards := AllocatePrizes(table, []standing.Standing{
			rankedStanding("u-1", 1),
			rankedStanding("u-2", 1),
			rankedStanding("u-3", 3),
		})
		got := awardsByUser(awards)
		if got["u-1"] != 8000 || got["u-2"] != 8000 {
			t.Fatalf("tied winners should split 16000 evenly: %v", got)
		}
		if got["u-3"] != 4000 {
			t.Fatalf("third place untouched by the tie: %v", got)
		}
	})

	t.Run("unclaimed tail rolls forward", func(t *testing.T) {
		awards := AllocatePrizes(table, []standing.Standing{
			rankedStanding("u-1", 1),
			rankedStanding("u-2", 2),
		})
		got := awardsByUser(awards)
		if got["u-1"] != 10000 {
			t.Fatalf("first place: %v", got)
		}
		if got["u-2"] != 10000 {
			t.Fatalf("second place should absorb the unclaimed third prize: %v", got)
		}
	})

	t.Run("rounds once per rank", func(t *testing.T) {
		awards := AllocatePrizes(payment.PrizeTable{AmountsCents: []int64{10000}}, []standing.Standing{
			rankedStanding("u-1", 1),
			rankedStanding("u-2", 1),
			rankedStanding("u-3", 1),
		})
		for _, item := range awards {
			if item.AmountCents != 3333 {
				t.Fatalf("each tied user gets the identical rounded share: %+v", item)
			}
		}
	})

	t.Run("conservation within one cent per tied group", func(t *testing.T) {
		standings := []standing.Standing{
			rankedStanding("u-1", 1),
			rankedStanding("u-2", 1),
			rankedStanding("u-3", 1),
			rankedStanding("u-4", 4),
		}
		awards := AllocatePrizes(table, standings)
		var total int64
		for _, item := range awards {
			total += item.AmountCents
		}
		var funded int64
		for _, amount := range table.AmountsCents {
			funded += amount
		}
		diff := funded - total
		if diff < -1 || diff > 1 {
			t.Fatalf("awards %d drift from funded %d by more than a cent per group", total, funded)
		}
	})

	t.Run("empty inputs yield nothing", func(t *testing.T) {
		if got := AllocatePrizes(payment.PrizeTable{}, []standing.Standing{rankedStanding("u-1", 1)}); got != nil {
			t.Fatalf("empty table: %v", got)
		}
		if got := AllocatePrizes(table, nil); got != nil {
			t.Fatalf("empty standings: %v", got)
		}
	})
}
