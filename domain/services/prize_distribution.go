package services

import (
	"github.com/shopspring/decimal"

	"astraldraw/domain/entities"
)

const (
	// SecondaryThreshold is the match count required to share in the
	// secondary pool. Distribution always re-filters at this value,
	// whatever threshold built the upstream resolution list.
	SecondaryThreshold = 4

	// MaxSecondaryWinners caps the secondary pool split
	MaxSecondaryWinners = 5
)

var (
	jackpotShare   = decimal.NewFromFloat(0.70)
	secondaryShare = decimal.NewFromFloat(0.20)
)

// DistributePrizes is a pure function allocating a draw's prize pool
// across a resolution result. No exact-match winner means no payout at
// all: the whole pool stays unallocated. With one, the jackpot is 70%
// of the pool and 20% is split evenly across up to five nearest
// matches at four or more; the remainder stays unallocated. Funds
// movement is an external collaborator's concern; the breakdown only
// reports.
func DistributePrizes(pool decimal.Decimal, resolution entities.ResolutionResult) entities.Distribution {
	dist := entities.Distribution{
		Distributed: decimal.Zero,
		Unallocated: pool,
	}

	if resolution.ExactWinner == nil {
		return dist
	}

	jackpot := pool.Mul(jackpotShare)
	dist.Awards = append(dist.Awards, entities.PrizeAward{
		WalletID:     resolution.ExactWinner.Ticket.WalletID,
		SerialNumber: resolution.ExactWinner.Ticket.SerialNumber,
		MatchCount:   resolution.ExactWinner.MatchCount,
		Amount:       jackpot,
		IsJackpot:    true,
	})
	dist.Distributed = dist.Distributed.Add(jackpot)

	var qualifying []*entities.MatchedTicket
	for _, m := range resolution.NearestMatches {
		if m.MatchCount >= SecondaryThreshold {
			qualifying = append(qualifying, m)
		}
		if len(qualifying) == MaxSecondaryWinners {
			break
		}
	}

	if len(qualifying) > 0 {
		// Even split across the actual qualifying count, not a fixed five
		perWinner := pool.Mul(secondaryShare).Div(decimal.NewFromInt(int64(len(qualifying))))
		for _, m := range qualifying {
			dist.Awards = append(dist.Awards, entities.PrizeAward{
				WalletID:     m.Ticket.WalletID,
				SerialNumber: m.Ticket.SerialNumber,
				MatchCount:   m.MatchCount,
				Amount:       perWinner,
			})
			dist.Distributed = dist.Distributed.Add(perWinner)
		}
	}

	dist.Unallocated = pool.Sub(dist.Distributed)
	return dist
}
