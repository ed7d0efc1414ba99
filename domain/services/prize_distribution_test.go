package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astraldraw/domain/entities"
)

func matched(walletID int64, serial string, matchCount int) *entities.MatchedTicket {
	return &entities.MatchedTicket{
		Ticket: &entities.Ticket{
			WalletID:     walletID,
			SerialNumber: serial,
		},
		MatchCount: matchCount,
	}
}

func TestDistributePrizes_JackpotShare(t *testing.T) {
	t.Parallel()

	pool := decimal.NewFromInt(1000)
	resolution := entities.ResolutionResult{
		ExactWinner: matched(1, "AK000100010001", 6),
	}

	dist := DistributePrizes(pool, resolution)

	require.Len(t, dist.Awards, 1)
	assert.True(t, dist.Awards[0].IsJackpot)
	assert.Equal(t, "700", dist.Awards[0].Amount.String())
	assert.Equal(t, "700", dist.Distributed.String())
	assert.Equal(t, "300", dist.Unallocated.String())
}

func TestDistributePrizes_SecondarySplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		nearest        []*entities.MatchedTicket
		wantSecondary  int
		wantPerWinner  string
	}{
		{
			name: "two qualifying split evenly",
			nearest: []*entities.MatchedTicket{
				matched(2, "AK-2", 5),
				matched(3, "AK-3", 4),
			},
			wantSecondary: 2,
			wantPerWinner: "100",
		},
		{
			name: "five way split",
			nearest: []*entities.MatchedTicket{
				matched(2, "AK-2", 5),
				matched(3, "AK-3", 5),
				matched(4, "AK-4", 4),
				matched(5, "AK-5", 4),
				matched(6, "AK-6", 4),
			},
			wantSecondary: 5,
			wantPerWinner: "40",
		},
		{
			name: "capped at five winners",
			nearest: []*entities.MatchedTicket{
				matched(2, "AK-2", 6),
				matched(3, "AK-3", 5),
				matched(4, "AK-4", 5),
				matched(5, "AK-5", 4),
				matched(6, "AK-6", 4),
				matched(7, "AK-7", 4),
			},
			wantSecondary: 5,
			wantPerWinner: "40",
		},
		{
			name: "below four match does not qualify",
			nearest: []*entities.MatchedTicket{
				matched(2, "AK-2", 5),
				matched(3, "AK-3", 3),
			},
			wantSecondary: 1,
			wantPerWinner: "200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := decimal.NewFromInt(1000)
			dist := DistributePrizes(pool, entities.ResolutionResult{
				ExactWinner:    matched(1, "AK-1", 6),
				NearestMatches: tt.nearest,
			})

			var secondary []entities.PrizeAward
			for _, a := range dist.Awards {
				if !a.IsJackpot {
					secondary = append(secondary, a)
				}
			}

			require.Len(t, secondary, tt.wantSecondary)
			for _, a := range secondary {
				assert.Equal(t, tt.wantPerWinner, a.Amount.String())
			}

			// Never more than 90% of the pool leaves the calculator
			assert.True(t, dist.Distributed.LessThanOrEqual(pool.Mul(decimal.NewFromFloat(0.9))))
			assert.Equal(t, pool.Sub(dist.Distributed).String(), dist.Unallocated.String())
		})
	}
}

func TestDistributePrizes_NoExactWinner(t *testing.T) {
	t.Parallel()

	pool := decimal.NewFromInt(500)
	dist := DistributePrizes(pool, entities.ResolutionResult{
		NearestMatches: []*entities.MatchedTicket{
			matched(2, "AK-2", 5),
			matched(3, "AK-3", 4),
		},
	})

	// No jackpot ticket means nothing leaves the pool, nearest
	// matches included
	assert.Empty(t, dist.Awards)
	assert.True(t, dist.Distributed.IsZero())
	assert.Equal(t, "500", dist.Unallocated.String())
}

func TestDistributePrizes_Empty(t *testing.T) {
	t.Parallel()

	pool := decimal.NewFromInt(1000)
	dist := DistributePrizes(pool, entities.ResolutionResult{})

	assert.Empty(t, dist.Awards)
	assert.True(t, dist.Distributed.IsZero())
	assert.Equal(t, pool.String(), dist.Unallocated.String())
}

func TestDistributePrizes_UnevenSplitKeepsTotal(t *testing.T) {
	t.Parallel()

	pool := decimal.NewFromInt(100)
	dist := DistributePrizes(pool, entities.ResolutionResult{
		ExactWinner: matched(1, "AK-1", 6),
		NearestMatches: []*entities.MatchedTicket{
			matched(2, "AK-2", 5),
			matched(3, "AK-3", 4),
			matched(4, "AK-4", 4),
		},
	})

	require.Len(t, dist.Awards, 4)
	total := decimal.Zero
	for _, a := range dist.Awards {
		total = total.Add(a.Amount)
	}
	assert.Equal(t, dist.Distributed.String(), total.String())
	assert.Equal(t, pool.String(), dist.Distributed.Add(dist.Unallocated).String())
}
