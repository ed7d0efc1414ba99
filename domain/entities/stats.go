package entities

import "github.com/shopspring/decimal"

// PlatformStats is the platform-wide aggregate served on the landing
// paths. TotalPlayers is filled from the wallet side; the rest comes
// from the draw and ticket aggregates.
type PlatformStats struct {
	TotalDraws         int64
	ActiveDraws        int64
	TotalPrizePool     decimal.Decimal
	TotalPlayers       int64
	TotalTicketsMinted int64
}
