package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"astraldraw/domain/entities"
	"astraldraw/domain/events"
	"astraldraw/domain/interfaces"
	"astraldraw/domain/xerrors"
)

// drawService implements business logic for the draw lifecycle
type drawService struct {
	drawRepo       interfaces.DrawRepository
	walletRepo     interfaces.WalletRepository
	resolver       *WinnerResolver
	codec          interfaces.Codec
	eventPublisher interfaces.EventPublisher
}

// NewDrawService creates a new draw service
func NewDrawService(
	drawRepo interfaces.DrawRepository,
	walletRepo interfaces.WalletRepository,
	resolver *WinnerResolver,
	codec interfaces.Codec,
	eventPublisher interfaces.EventPublisher,
) interfaces.DrawService {
	return &drawService{
		drawRepo:       drawRepo,
		walletRepo:     walletRepo,
		resolver:       resolver,
		codec:          codec,
		eventPublisher: eventPublisher,
	}
}

// CreateDraw schedules a new draw. The winning combination is generated
// here, never caller-supplied, and only its ciphertext is persisted.
func (s *drawService) CreateDraw(ctx context.Context, title string, prizePool decimal.Decimal, drawTime time.Time) (*entities.Draw, error) {
	if title == "" {
		return nil, xerrors.New(xerrors.ErrValidation, "draw title is required")
	}
	if prizePool.IsNegative() {
		return nil, xerrors.New(xerrors.ErrValidation, "prize pool must not be negative")
	}
	if !drawTime.After(time.Now()) {
		return nil, xerrors.New(xerrors.ErrValidation, "draw datetime must be in the future")
	}

	combination, err := entities.GenerateCombination()
	if err != nil {
		return nil, fmt.Errorf("failed to generate winning combination: %w", err)
	}

	encrypted, err := s.codec.EncryptJSON(combination.Slice())
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt winning combination: %w", err)
	}

	draw := &entities.Draw{
		Title:                 title,
		PrizePool:             prizePool,
		WinningCombinationEnc: encrypted,
		Status:                entities.DrawStatusUpcoming,
		DrawDatetime:          drawTime,
	}
	if err := s.drawRepo.Create(ctx, draw); err != nil {
		return nil, fmt.Errorf("failed to create draw: %w", err)
	}

	if err := s.eventPublisher.Publish(events.DrawCreatedEvent{
		DrawID:       draw.ID,
		Title:        draw.Title,
		PrizePool:    draw.PrizePool.String(),
		DrawDatetime: draw.DrawDatetime.UTC().Format(time.RFC3339),
	}); err != nil {
		log.WithError(err).WithField("drawID", draw.ID).Error("failed to publish draw created event")
	}

	return draw, nil
}

// ActivateDraw moves an UPCOMING draw to ACTIVE
func (s *drawService) ActivateDraw(ctx context.Context, drawID int64) error {
	if err := s.drawRepo.TransitionStatus(ctx, drawID, entities.DrawStatusUpcoming, entities.DrawStatusActive); err != nil {
		return err
	}
	s.publishStatusChange(drawID, entities.DrawStatusUpcoming, entities.DrawStatusActive)
	return nil
}

// CancelDraw terminally cancels a draw. Allowed from UPCOMING or ACTIVE.
func (s *drawService) CancelDraw(ctx context.Context, drawID int64) error {
	draw, err := s.drawRepo.GetByID(ctx, drawID)
	if err != nil {
		return fmt.Errorf("failed to get draw: %w", err)
	}
	if draw == nil {
		return xerrors.New(xerrors.ErrNotFound, "draw %d not found", drawID)
	}
	if !draw.CanCancel() {
		return xerrors.New(xerrors.ErrState, "draw %d cannot be cancelled from status %s", drawID, draw.Status)
	}

	if err := s.drawRepo.TransitionStatus(ctx, drawID, draw.Status, entities.DrawStatusCancelled); err != nil {
		return err
	}
	s.publishStatusChange(drawID, draw.Status, entities.DrawStatusCancelled)
	return nil
}

// ProcessDraw resolves winners, allocates prizes and ends the draw. The
// row lock makes concurrent processors serialize; the loser of the race
// re-reads a non-ACTIVE status and fails the state check.
func (s *drawService) ProcessDraw(ctx context.Context, drawID int64) (*entities.DrawOutcome, error) {
	draw, err := s.drawRepo.GetByIDForUpdate(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock draw: %w", err)
	}
	if draw == nil {
		return nil, xerrors.New(xerrors.ErrNotFound, "draw %d not found", drawID)
	}
	if draw.Status != entities.DrawStatusActive {
		return nil, xerrors.New(xerrors.ErrState, "draw %d is not active, status %s", drawID, draw.Status)
	}
	if draw.DrawDatetime.After(time.Now()) {
		return nil, xerrors.New(xerrors.ErrState, "draw %d is not due until %s", drawID, draw.DrawDatetime.UTC().Format(time.RFC3339))
	}

	resolution, err := s.resolver.Resolve(ctx, draw)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve winners: %w", err)
	}

	distribution := DistributePrizes(draw.PrizePool, resolution)

	draw.TotalPrizeDistributed = distribution.Distributed
	if resolution.ExactWinner != nil {
		serial := resolution.ExactWinner.Ticket.SerialNumber
		walletID := resolution.ExactWinner.Ticket.WalletID
		draw.WinningTicketSerial = &serial
		draw.WinnerWalletID = &walletID
	}
	draw.Status = entities.DrawStatusEnded

	if err := s.drawRepo.RecordResult(ctx, draw); err != nil {
		return nil, fmt.Errorf("failed to record draw result: %w", err)
	}

	log.WithFields(log.Fields{
		"drawID":      draw.ID,
		"winnerCount": len(distribution.Awards),
		"distributed": distribution.Distributed.String(),
	}).Info("draw processed")

	if err := s.eventPublisher.Publish(events.DrawProcessedEvent{
		DrawID:           draw.ID,
		WinnerWalletID:   draw.WinnerWalletID,
		WinningSerial:    draw.WinningTicketSerial,
		TotalDistributed: distribution.Distributed.String(),
		WinnerCount:      len(distribution.Awards),
	}); err != nil {
		log.WithError(err).WithField("drawID", draw.ID).Error("failed to publish draw processed event")
	}

	return &entities.DrawOutcome{
		Draw:         draw,
		Resolution:   resolution,
		Distribution: distribution,
	}, nil
}

func (s *drawService) publishStatusChange(drawID int64, from, to entities.DrawStatus) {
	if err := s.eventPublisher.Publish(events.DrawStatusChangedEvent{
		DrawID:    drawID,
		OldStatus: string(from),
		NewStatus: string(to),
	}); err != nil {
		log.WithError(err).WithField("drawID", drawID).Error("failed to publish draw status change event")
	}
}
