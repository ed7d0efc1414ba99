package application

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"astraldraw/application/dto"
	"astraldraw/domain/entities"
	"astraldraw/domain/interfaces"
	"astraldraw/domain/services"
	"astraldraw/domain/xerrors"
	"astraldraw/render"
)

// TicketApp orchestrates ticket submission and listing
type TicketApp struct {
	uowFactory    UnitOfWorkFactory
	codec         interfaces.Codec
	cache         interfaces.CacheStore
	cardGenerator *render.GlyphCardGenerator
	serialPrefix  string
	imageBaseURL  string
}

// NewTicketApp creates a new ticket application service
func NewTicketApp(uowFactory UnitOfWorkFactory, codec interfaces.Codec, cache interfaces.CacheStore, serialPrefix, imageBaseURL string) *TicketApp {
	return &TicketApp{
		uowFactory:    uowFactory,
		codec:         codec,
		cache:         cache,
		cardGenerator: render.NewGlyphCardGenerator(),
		serialPrefix:  serialPrefix,
		imageBaseURL:  imageBaseURL,
	}
}

// SubmitTicket handles the external submission payload for the wallet
// identified by ownerRef.
func (a *TicketApp) SubmitTicket(ctx context.Context, ownerRef string, drawID int64, req dto.SubmitTicketRequest) *dto.SubmitTicketResponse {
	combination, err := entities.NewCombination(req.StarKeys)
	if err != nil {
		return &dto.SubmitTicketResponse{
			Success: false,
			Error:   err.Error(),
			Code:    xerrors.CodeValidation,
		}
	}

	var ticket *entities.Ticket
	err = a.inTransaction(ctx, func(uow UnitOfWork) error {
		wallet, err := uow.WalletRepository().GetByOwnerRef(ctx, ownerRef)
		if err != nil {
			return err
		}
		if wallet == nil {
			return xerrors.New(xerrors.ErrNotFound, "no wallet for caller")
		}

		ticketService := a.newTicketService(uow)
		minted, err := ticketService.SubmitTicket(ctx, wallet.ID, drawID, combination)
		if err != nil {
			return err
		}
		ticket = minted
		return nil
	})
	if err != nil {
		return &dto.SubmitTicketResponse{
			Success: false,
			Error:   userMessage(err),
			Code:    xerrors.Code(err),
		}
	}

	a.invalidateTicketCaches(ctx, drawID)

	return &dto.SubmitTicketResponse{
		Success:      true,
		SerialNumber: ticket.SerialNumber,
		Message:      fmt.Sprintf("Astral Key %s forged with %s rarity", ticket.SerialNumber, ticket.Rarity),
	}
}

// ListWalletTickets returns the caller's tickets, newest first
func (a *TicketApp) ListWalletTickets(ctx context.Context, ownerRef string, limit int) ([]dto.TicketInfo, error) {
	if limit <= 0 {
		limit = 50
	}

	var infos []dto.TicketInfo
	err := a.inTransaction(ctx, func(uow UnitOfWork) error {
		wallet, err := uow.WalletRepository().GetByOwnerRef(ctx, ownerRef)
		if err != nil {
			return err
		}
		if wallet == nil {
			return xerrors.New(xerrors.ErrNotFound, "no wallet for caller")
		}

		tickets, err := uow.TicketRepository().ListByWallet(ctx, wallet.ID, limit)
		if err != nil {
			return err
		}
		for _, t := range tickets {
			infos = append(infos, dto.TicketInfo{
				SerialNumber: t.SerialNumber,
				DrawID:       t.DrawID,
				Rarity:       t.Rarity,
				Glyphs:       t.Glyphs,
				CreatedAt:    t.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// TicketMetadata returns the NFT-style metadata document for a ticket
func (a *TicketApp) TicketMetadata(ctx context.Context, ticketID int64) (*entities.TicketMetadata, error) {
	var meta *entities.TicketMetadata
	err := a.inTransaction(ctx, func(uow UnitOfWork) error {
		m, err := a.newTicketService(uow).TicketMetadata(ctx, ticketID)
		if err != nil {
			return err
		}
		meta = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// TicketCard renders the glyph card PNG for a ticket
func (a *TicketApp) TicketCard(ctx context.Context, ticketID int64) ([]byte, error) {
	var ticket *entities.Ticket
	var drawTitle string
	err := a.inTransaction(ctx, func(uow UnitOfWork) error {
		t, err := uow.TicketRepository().GetByID(ctx, ticketID)
		if err != nil {
			return err
		}
		if t == nil {
			return xerrors.New(xerrors.ErrNotFound, "ticket %d not found", ticketID)
		}
		draw, err := uow.DrawRepository().GetByID(ctx, t.DrawID)
		if err != nil {
			return err
		}
		if draw != nil {
			drawTitle = draw.Title
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a.cardGenerator.GenerateTicketCard(ticket, drawTitle)
}

func (a *TicketApp) newTicketService(uow UnitOfWork) interfaces.TicketService {
	return services.NewTicketService(
		uow.DrawRepository(),
		uow.TicketRepository(),
		uow.WalletRepository(),
		a.codec,
		uow.EventBus(),
		a.serialPrefix,
		a.imageBaseURL,
	)
}

func (a *TicketApp) inTransaction(ctx context.Context, fn func(UnitOfWork) error) error {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit()
}

func (a *TicketApp) invalidateTicketCaches(ctx context.Context, drawID int64) {
	if err := a.cache.DeleteMany(ctx, CacheKeyPlatformStats, CacheKeyLandingDraws, CacheKeyDrawDetail(drawID)); err != nil {
		log.WithError(err).WithField("drawID", drawID).Warn("failed to invalidate ticket caches")
	}
}
