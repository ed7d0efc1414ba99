package entities

import "github.com/shopspring/decimal"

// MatchedTicket is a ticket paired with its decrypted combination and
// the match count against the winning combination.
type MatchedTicket struct {
	Ticket      *Ticket
	Combination Combination
	MatchCount  int
}

// ResolutionResult is the outcome of winner resolution for a draw
type ResolutionResult struct {
	// ExactWinner is the jackpot ticket, nil when no exact match exists
	ExactWinner *MatchedTicket

	// NearestMatches are the runner-up tickets at or above the
	// resolution threshold, best match first
	NearestMatches []*MatchedTicket
}

// PrizeAward is one line of a prize distribution breakdown
type PrizeAward struct {
	WalletID     int64
	SerialNumber string
	MatchCount   int
	Amount       decimal.Decimal
	IsJackpot    bool
}

// Distribution is the full prize allocation for a processed draw
type Distribution struct {
	Awards      []PrizeAward
	Distributed decimal.Decimal
	Unallocated decimal.Decimal
}

// DrawOutcome captures everything a processing run decided
type DrawOutcome struct {
	Draw         *Draw
	Resolution   ResolutionResult
	Distribution Distribution
}
