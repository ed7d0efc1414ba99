package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"astraldraw/domain/entities"
)

// DrawService defines the interface for draw lifecycle operations
type DrawService interface {
	// CreateDraw schedules a new draw with a freshly generated winning combination
	CreateDraw(ctx context.Context, title string, prizePool decimal.Decimal, drawTime time.Time) (*entities.Draw, error)

	// ActivateDraw moves an UPCOMING draw to ACTIVE
	ActivateDraw(ctx context.Context, drawID int64) error

	// CancelDraw terminally cancels an UPCOMING or ACTIVE draw
	CancelDraw(ctx context.Context, drawID int64) error

	// ProcessDraw resolves winners, distributes prizes and ends the draw
	ProcessDraw(ctx context.Context, drawID int64) (*entities.DrawOutcome, error)
}

// TicketService defines the interface for ticket submission
type TicketService interface {
	// SubmitTicket validates and mints a ticket for wallet in draw
	SubmitTicket(ctx context.Context, walletID, drawID int64, combination entities.Combination) (*entities.Ticket, error)

	// TicketMetadata builds the metadata document for an existing ticket
	TicketMetadata(ctx context.Context, ticketID int64) (*entities.TicketMetadata, error)
}

// WalletService defines the interface for wallet provisioning
type WalletService interface {
	// GetOrCreateWallet retrieves the wallet for ownerRef, provisioning
	// one through the ledger when it does not exist yet
	GetOrCreateWallet(ctx context.Context, ownerRef, ownerName string) (*entities.Wallet, error)
}
