package usecase

import (
	"math"

	"github.com/poolhouse/confidence-pool/internal/domain/payment"
	"github.com/poolhouse/confidence-pool/internal/domain/standing"
)

// Award is one user's computed share of a prize table.
type Award struct {
	UserID      string
	Rank        int
	AmountCents int64
}

// AllocatePrizes converts a rank-indexed prize table into per-user awards.
// Unclaimed prizes roll up into the next-better rank, never disappear; a tied
// group splits its (possibly augmented) prize with one half-up rounding per
// rank, so every member receives the identical cent amount.
func AllocatePrizes(table payment.PrizeTable, standings []standing.Standing) []Award {
	if len(table.AmountsCents) == 0 || len(standings) == 0 {
		return nil
	}

	byRank := make(map[int][]standing.Standing, len(standings))
	for _, row := range standings {
		if row.Rank < 1 {
			continue
		}
		byRank[row.Rank] = append(byRank[row.Rank], row)
	}

	awards := make([]Award, 0, len(standings))
	var carry int64
	for rank := len(table.AmountsCents); rank >= 1; rank-- {
		amount := table.AmountsCents[rank-1] + carry
		holders := byRank[rank]
		if len(holders) == 0 {
			carry = amount
			continue
		}
		carry = 0
		share := int64(math.Round(float64(amount) / float64(len(holders))))
		for _, row := range holders {
			awards = append(awards, Award{UserID: row.UserID, Rank: rank, AmountCents: share})
		}
	}
	return awards
}
