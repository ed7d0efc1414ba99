package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"astraldraw/domain/entities"
	"astraldraw/domain/events"
	"astraldraw/domain/interfaces"
	"astraldraw/domain/xerrors"
)

// ticketService implements business logic for ticket submission
type ticketService struct {
	drawRepo       interfaces.DrawRepository
	ticketRepo     interfaces.TicketRepository
	walletRepo     interfaces.WalletRepository
	codec          interfaces.Codec
	eventPublisher interfaces.EventPublisher
	serialPrefix   string
	imageBaseURL   string
}

// NewTicketService creates a new ticket service
func NewTicketService(
	drawRepo interfaces.DrawRepository,
	ticketRepo interfaces.TicketRepository,
	walletRepo interfaces.WalletRepository,
	codec interfaces.Codec,
	eventPublisher interfaces.EventPublisher,
	serialPrefix string,
	imageBaseURL string,
) interfaces.TicketService {
	return &ticketService{
		drawRepo:       drawRepo,
		ticketRepo:     ticketRepo,
		walletRepo:     walletRepo,
		codec:          codec,
		eventPublisher: eventPublisher,
		serialPrefix:   serialPrefix,
		imageBaseURL:   imageBaseURL,
	}
}

// SubmitTicket validates and mints a ticket. The serial sequence comes
// from the draw's atomic counter; duplicate submissions surface as
// ErrConflict through the unique constraints, never as a second ticket.
func (s *ticketService) SubmitTicket(ctx context.Context, walletID, drawID int64, combination entities.Combination) (*entities.Ticket, error) {
	// Revalidate range; the entity constructor is bypassable via literals
	if _, err := entities.NewCombination(combination.Slice()); err != nil {
		return nil, xerrors.New(xerrors.ErrValidation, "invalid combination: %v", err)
	}

	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet == nil {
		return nil, xerrors.New(xerrors.ErrNotFound, "wallet %d not found", walletID)
	}

	draw, err := s.drawRepo.GetByID(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	if draw == nil {
		return nil, xerrors.New(xerrors.ErrNotFound, "draw %d not found", drawID)
	}
	if !draw.IsParticipable(time.Now()) {
		return nil, xerrors.New(xerrors.ErrState, "draw %d is not open for participation", drawID)
	}

	sequence, err := s.drawRepo.NextTicketSequence(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate ticket sequence: %w", err)
	}

	encrypted, err := s.codec.EncryptJSON(combination.Slice())
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt combination: %w", err)
	}

	ticket := &entities.Ticket{
		UUID:           uuid.New(),
		SerialNumber:   entities.FormatSerial(s.serialPrefix, drawID, walletID, sequence),
		WalletID:       walletID,
		DrawID:         drawID,
		CombinationEnc: encrypted,
		Rarity:         entities.DeriveRarity(combination),
		Glyphs:         entities.DeriveGlyphs(combination),
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		if xerrors.IsUniqueViolation(err, "") {
			return nil, xerrors.New(xerrors.ErrConflict, "wallet %d already holds a ticket for draw %d", walletID, drawID)
		}
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	if err := s.drawRepo.IncrementTicketsSold(ctx, drawID); err != nil {
		return nil, fmt.Errorf("failed to increment tickets sold: %w", err)
	}

	if err := s.eventPublisher.Publish(events.TicketMintedEvent{
		TicketID:     ticket.ID,
		DrawID:       drawID,
		WalletID:     walletID,
		SerialNumber: ticket.SerialNumber,
		Rarity:       ticket.Rarity,
	}); err != nil {
		log.WithError(err).WithField("ticketID", ticket.ID).Error("failed to publish ticket minted event")
	}

	return ticket, nil
}

// TicketMetadata builds the metadata document for an existing ticket
func (s *ticketService) TicketMetadata(ctx context.Context, ticketID int64) (*entities.TicketMetadata, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, xerrors.New(xerrors.ErrNotFound, "ticket %d not found", ticketID)
	}

	draw, err := s.drawRepo.GetByID(ctx, ticket.DrawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	if draw == nil {
		return nil, xerrors.New(xerrors.ErrNotFound, "draw %d not found", ticket.DrawID)
	}

	var symbols []int
	if err := s.codec.DecryptJSON(ticket.CombinationEnc, &symbols); err != nil {
		return nil, xerrors.New(xerrors.ErrCrypto, "ticket %d combination undecryptable", ticketID)
	}
	combination, err := entities.NewCombination(symbols)
	if err != nil {
		return nil, xerrors.New(xerrors.ErrCrypto, "ticket %d combination malformed", ticketID)
	}

	meta := entities.BuildTicketMetadata(ticket, draw, combination, s.imageBaseURL)
	return &meta, nil
}
