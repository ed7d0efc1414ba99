package application

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"astraldraw/application/dto"
	"astraldraw/domain/entities"
	"astraldraw/domain/interfaces"
	"astraldraw/domain/services"
	"astraldraw/domain/xerrors"
)

// DrawApp orchestrates draw lifecycle operations across transaction,
// cache and authorization boundaries.
type DrawApp struct {
	uowFactory UnitOfWorkFactory
	codec      interfaces.Codec
	cache      interfaces.CacheStore
}

// NewDrawApp creates a new draw application service
func NewDrawApp(uowFactory UnitOfWorkFactory, codec interfaces.Codec, cache interfaces.CacheStore) *DrawApp {
	return &DrawApp{
		uowFactory: uowFactory,
		codec:      codec,
		cache:      cache,
	}
}

// CreateDraw handles the external draw creation payload. Restricted to
// admin wallets.
func (a *DrawApp) CreateDraw(ctx context.Context, callerOwnerRef string, req dto.CreateDrawRequest) *dto.CreateDrawResponse {
	prizePool, err := decimal.NewFromString(req.PrizePool)
	if err != nil {
		return &dto.CreateDrawResponse{
			Success: false,
			Error:   "prize_pool must be a decimal amount",
			Code:    xerrors.CodeValidation,
		}
	}

	var draw *entities.Draw
	err = a.inTransaction(ctx, func(uow UnitOfWork) error {
		if err := requireAdmin(ctx, uow, callerOwnerRef); err != nil {
			return err
		}

		drawService := a.newDrawService(uow)
		created, err := drawService.CreateDraw(ctx, req.Title, prizePool, req.DrawDatetime)
		if err != nil {
			return err
		}
		draw = created
		return nil
	})
	if err != nil {
		return &dto.CreateDrawResponse{
			Success: false,
			Error:   userMessage(err),
			Code:    xerrors.Code(err),
		}
	}

	a.invalidateDrawCaches(ctx, draw.ID)

	return &dto.CreateDrawResponse{
		Success:   true,
		DrawID:    draw.ID,
		DrawTitle: draw.Title,
	}
}

// ActivateDraw opens an upcoming draw for participation. Admin only.
func (a *DrawApp) ActivateDraw(ctx context.Context, callerOwnerRef string, drawID int64) error {
	err := a.inTransaction(ctx, func(uow UnitOfWork) error {
		if err := requireAdmin(ctx, uow, callerOwnerRef); err != nil {
			return err
		}
		return a.newDrawService(uow).ActivateDraw(ctx, drawID)
	})
	if err != nil {
		return err
	}

	a.invalidateDrawCaches(ctx, drawID)
	return nil
}

// CancelDraw terminally cancels a draw. Admin only.
func (a *DrawApp) CancelDraw(ctx context.Context, callerOwnerRef string, drawID int64) error {
	err := a.inTransaction(ctx, func(uow UnitOfWork) error {
		if err := requireAdmin(ctx, uow, callerOwnerRef); err != nil {
			return err
		}
		return a.newDrawService(uow).CancelDraw(ctx, drawID)
	})
	if err != nil {
		return err
	}

	a.invalidateDrawCaches(ctx, drawID)
	return nil
}

// ProcessDraw resolves and ends a draw. Admin only. The whole run is one
// transaction: winner refs, distribution totals and the ENDED transition
// land together or not at all.
func (a *DrawApp) ProcessDraw(ctx context.Context, callerOwnerRef string, drawID int64) *dto.ProcessDrawResponse {
	var outcome *entities.DrawOutcome
	var winnerName string

	err := a.inTransaction(ctx, func(uow UnitOfWork) error {
		if err := requireAdmin(ctx, uow, callerOwnerRef); err != nil {
			return err
		}

		result, err := a.newDrawService(uow).ProcessDraw(ctx, drawID)
		if err != nil {
			return err
		}
		outcome = result

		if outcome.Resolution.ExactWinner != nil {
			winner, err := uow.WalletRepository().GetByID(ctx, outcome.Resolution.ExactWinner.Ticket.WalletID)
			if err != nil {
				return err
			}
			if winner != nil {
				winnerName = winner.OwnerName
			}
		}
		return nil
	})
	if err != nil {
		return &dto.ProcessDrawResponse{
			Success: false,
			Error:   userMessage(err),
			Code:    xerrors.Code(err),
		}
	}

	a.invalidateDrawCaches(ctx, drawID)

	resp := &dto.ProcessDrawResponse{Success: true}
	for _, award := range outcome.Distribution.Awards {
		resp.Breakdown = append(resp.Breakdown, dto.AwardInfo{
			WalletID:     award.WalletID,
			SerialNumber: award.SerialNumber,
			MatchCount:   award.MatchCount,
			Amount:       award.Amount.String(),
			IsJackpot:    award.IsJackpot,
		})
	}
	if winner := outcome.Resolution.ExactWinner; winner != nil {
		resp.Winner = &dto.WinnerInfo{
			Username:     winnerName,
			SerialNumber: winner.Ticket.SerialNumber,
			PrizeAmount:  outcome.Distribution.Awards[0].Amount.String(),
		}
	}
	return resp
}

func (a *DrawApp) newDrawService(uow UnitOfWork) interfaces.DrawService {
	resolver := services.NewWinnerResolver(uow.TicketRepository(), a.codec)
	return services.NewDrawService(uow.DrawRepository(), uow.WalletRepository(), resolver, a.codec, uow.EventBus())
}

func (a *DrawApp) inTransaction(ctx context.Context, fn func(UnitOfWork) error) error {
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

func (a *DrawApp) invalidateDrawCaches(ctx context.Context, drawID int64) {
	if err := a.cache.DeleteMany(ctx, CacheKeyPlatformStats, CacheKeyLandingDraws, CacheKeyDrawDetail(drawID)); err != nil {
		log.WithError(err).WithField("drawID", drawID).Warn("failed to invalidate draw caches")
	}
}

// requireAdmin rejects callers whose wallet is missing or not flagged admin
func requireAdmin(ctx context.Context, uow UnitOfWork, ownerRef string) error {
	wallet, err := uow.WalletRepository().GetByOwnerRef(ctx, ownerRef)
	if err != nil {
		return err
	}
	if wallet == nil || !wallet.IsAdmin {
		return xerrors.New(xerrors.ErrUnauthorized, "caller is not authorized for draw administration")
	}
	return nil
}

// userMessage keeps internal detail out of external payloads
func userMessage(err error) string {
	var coded *xerrors.CodedError
	if errors.As(err, &coded) {
		return coded.Msg
	}
	log.WithError(err).Error("internal error reached the payload boundary")
	return "internal error"
}
