package interfaces

import (
	"context"

	"astraldraw/domain/entities"
	"astraldraw/domain/events"
)

// WalletRepository defines the interface for wallet data access
type WalletRepository interface {
	// GetByID retrieves a wallet by its numeric ID
	GetByID(ctx context.Context, id int64) (*entities.Wallet, error)

	// GetByOwnerRef retrieves a wallet by its external owner reference
	GetByOwnerRef(ctx context.Context, ownerRef string) (*entities.Wallet, error)

	// Create persists a new wallet. The private key ciphertext is
	// write-once: updates never modify it once set.
	Create(ctx context.Context, wallet *entities.Wallet) error

	// UpdateBalance sets a wallet's fiat balance
	UpdateBalance(ctx context.Context, id int64, newBalance string) error

	// CreditBalance atomically adds amount to a wallet's balance
	CreditBalance(ctx context.Context, id int64, amount string) error

	// CountAll returns the total number of wallets
	CountAll(ctx context.Context) (int64, error)
}

// DrawRepository defines the interface for draw data access
type DrawRepository interface {
	// Create persists a new draw
	Create(ctx context.Context, draw *entities.Draw) error

	// GetByID retrieves a draw by its ID
	GetByID(ctx context.Context, id int64) (*entities.Draw, error)

	// GetByIDForUpdate retrieves a draw by ID holding a row lock for the
	// duration of the enclosing transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Draw, error)

	// ListByStatus returns draws in the given statuses, soonest first
	ListByStatus(ctx context.Context, statuses ...entities.DrawStatus) ([]*entities.Draw, error)

	// GetNextPending returns the active or upcoming draw with the
	// earliest draw_datetime, or nil when none exist
	GetNextPending(ctx context.Context) (*entities.Draw, error)

	// NextTicketSequence atomically advances the draw's ticket counter
	// and returns the new value
	NextTicketSequence(ctx context.Context, drawID int64) (int64, error)

	// TransitionStatus performs a conditional status update; it fails if
	// the draw is not currently in the expected status
	TransitionStatus(ctx context.Context, drawID int64, from, to entities.DrawStatus) error

	// RecordResult stores the processing outcome and moves the draw to ENDED
	RecordResult(ctx context.Context, draw *entities.Draw) error

	// IncrementTicketsSold bumps the denormalized sold counter
	IncrementTicketsSold(ctx context.Context, drawID int64) error

	// AggregateStats returns platform-wide draw aggregates
	AggregateStats(ctx context.Context) (*entities.PlatformStats, error)
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create persists a new ticket
	Create(ctx context.Context, ticket *entities.Ticket) error

	// GetByID retrieves a ticket by its ID
	GetByID(ctx context.Context, id int64) (*entities.Ticket, error)

	// GetBySerial retrieves a ticket by its serial number
	GetBySerial(ctx context.Context, serial string) (*entities.Ticket, error)

	// ListByDraw returns all tickets of a draw, newest first
	ListByDraw(ctx context.Context, drawID int64) ([]*entities.Ticket, error)

	// ListByWallet returns a wallet's tickets across draws, newest first
	ListByWallet(ctx context.Context, walletID int64, limit int) ([]*entities.Ticket, error)

	// GetByEncryptedCombination returns the tickets of a draw whose
	// stored ciphertext equals combinationEnc, newest first
	GetByEncryptedCombination(ctx context.Context, drawID int64, combinationEnc string) ([]*entities.Ticket, error)

	// CountByDraw returns the number of tickets in a draw
	CountByDraw(ctx context.Context, drawID int64) (int64, error)

	// SetTokenRef records the external token reference for a minted ticket
	SetTokenRef(ctx context.Context, ticketID int64, tokenRef string) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}
