package services

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"astraldraw/domain/entities"
	"astraldraw/domain/interfaces"
)

const (
	// DefaultResolutionThreshold is the minimum match count for a ticket
	// to appear among the nearest matches
	DefaultResolutionThreshold = 5

	// ExactMatchCount marks the jackpot ticket in a resolution result
	ExactMatchCount = 6
)

// WinnerResolver finds the exact winner and nearest matches of a draw.
// The exact winner is located by ciphertext equality, which the
// deterministic codec makes possible without decrypting every ticket.
type WinnerResolver struct {
	ticketRepo interfaces.TicketRepository
	codec      interfaces.Codec
	threshold  int
}

// NewWinnerResolver creates a resolver with the default match threshold
func NewWinnerResolver(ticketRepo interfaces.TicketRepository, codec interfaces.Codec) *WinnerResolver {
	return &WinnerResolver{
		ticketRepo: ticketRepo,
		codec:      codec,
		threshold:  DefaultResolutionThreshold,
	}
}

// WithThreshold returns a copy of the resolver using a custom threshold
func (r *WinnerResolver) WithThreshold(threshold int) *WinnerResolver {
	clone := *r
	clone.threshold = threshold
	return &clone
}

// Resolve determines the winners of draw. A draw without a stored
// winning combination, or with one that no longer decrypts, resolves to
// an empty result with no error. Tickets whose combinations cannot be
// decrypted or parsed are skipped, never fatal.
func (r *WinnerResolver) Resolve(ctx context.Context, draw *entities.Draw) (entities.ResolutionResult, error) {
	var result entities.ResolutionResult

	winning, ok := r.decodeWinning(draw)
	if !ok {
		return result, nil
	}

	// Exact winner first, by ciphertext equality. When several tickets
	// carry the identical combination the newest one takes the jackpot.
	exact, err := r.ticketRepo.GetByEncryptedCombination(ctx, draw.ID, draw.WinningCombinationEnc)
	if err != nil {
		return result, fmt.Errorf("failed to query exact matches: %w", err)
	}
	if len(exact) > 0 {
		result.ExactWinner = &entities.MatchedTicket{
			Ticket:      exact[0],
			Combination: winning,
			MatchCount:  ExactMatchCount,
		}
	}

	tickets, err := r.ticketRepo.ListByDraw(ctx, draw.ID)
	if err != nil {
		return result, fmt.Errorf("failed to list draw tickets: %w", err)
	}

	for _, ticket := range tickets {
		if result.ExactWinner != nil && ticket.ID == result.ExactWinner.Ticket.ID {
			continue
		}

		combination, ok := r.decodeTicket(ticket)
		if !ok {
			continue
		}

		matches := combination.MatchCount(winning)
		if matches >= r.threshold {
			result.NearestMatches = append(result.NearestMatches, &entities.MatchedTicket{
				Ticket:      ticket,
				Combination: combination,
				MatchCount:  matches,
			})
		}
	}

	// Best match first; the stable sort keeps the repository's
	// newest-first order among equal match counts.
	sort.SliceStable(result.NearestMatches, func(i, j int) bool {
		return result.NearestMatches[i].MatchCount > result.NearestMatches[j].MatchCount
	})

	return result, nil
}

func (r *WinnerResolver) decodeWinning(draw *entities.Draw) (entities.Combination, bool) {
	if draw.WinningCombinationEnc == "" {
		log.WithField("drawID", draw.ID).Warn("draw has no winning combination, resolving empty")
		return entities.Combination{}, false
	}

	var symbols []int
	if err := r.codec.DecryptJSON(draw.WinningCombinationEnc, &symbols); err != nil {
		log.WithError(err).WithField("drawID", draw.ID).Warn("winning combination undecryptable, resolving empty")
		return entities.Combination{}, false
	}

	winning, err := entities.NewCombination(symbols)
	if err != nil {
		log.WithError(err).WithField("drawID", draw.ID).Warn("winning combination malformed, resolving empty")
		return entities.Combination{}, false
	}
	return winning, true
}

func (r *WinnerResolver) decodeTicket(ticket *entities.Ticket) (entities.Combination, bool) {
	var symbols []int
	if err := r.codec.DecryptJSON(ticket.CombinationEnc, &symbols); err != nil {
		log.WithError(err).WithField("ticketID", ticket.ID).Warn("skipping undecryptable ticket combination")
		return entities.Combination{}, false
	}

	combination, err := entities.NewCombination(symbols)
	if err != nil {
		log.WithError(err).WithField("ticketID", ticket.ID).Warn("skipping malformed ticket combination")
		return entities.Combination{}, false
	}
	return combination, true
}
