package application

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"astraldraw/application/dto"
	"astraldraw/domain/entities"
	"astraldraw/domain/interfaces"
	"astraldraw/domain/xerrors"
)

// StatsApp serves the aggregate read paths through the cache store.
// Correctness never depends on a cache hit; every miss falls through to
// the database and repopulates the key.
type StatsApp struct {
	uowFactory    UnitOfWorkFactory
	cache         interfaces.CacheStore
	statsTTL      time.Duration
	drawDetailTTL time.Duration
}

// NewStatsApp creates a new stats application service
func NewStatsApp(uowFactory UnitOfWorkFactory, cache interfaces.CacheStore, statsTTL, drawDetailTTL time.Duration) *StatsApp {
	return &StatsApp{
		uowFactory:    uowFactory,
		cache:         cache,
		statsTTL:      statsTTL,
		drawDetailTTL: drawDetailTTL,
	}
}

// PlatformStats returns the platform-wide aggregate, cache first
func (a *StatsApp) PlatformStats(ctx context.Context) (*dto.PlatformStatsResponse, error) {
	var cached dto.PlatformStatsResponse
	hit, err := a.cache.Get(ctx, CacheKeyPlatformStats, &cached)
	if err != nil {
		log.WithError(err).Warn("platform stats cache read failed, falling through")
	}
	if hit {
		return &cached, nil
	}

	var resp *dto.PlatformStatsResponse
	err = a.inTransaction(ctx, func(uow UnitOfWork) error {
		stats, err := uow.DrawRepository().AggregateStats(ctx)
		if err != nil {
			return err
		}
		players, err := uow.WalletRepository().CountAll(ctx)
		if err != nil {
			return err
		}

		resp = &dto.PlatformStatsResponse{
			TotalDraws:         stats.TotalDraws,
			ActiveDraws:        stats.ActiveDraws,
			TotalPrizePool:     stats.TotalPrizePool.String(),
			TotalPlayers:       players,
			TotalTicketsMinted: stats.TotalTicketsMinted,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := a.cache.Set(ctx, CacheKeyPlatformStats, resp, a.statsTTL); err != nil {
		log.WithError(err).Warn("failed to cache platform stats")
	}
	return resp, nil
}

// DrawDetail returns the per-draw view, including winner info once the
// draw has ended. Cache first.
func (a *StatsApp) DrawDetail(ctx context.Context, drawID int64) (*dto.DrawDetailResponse, error) {
	key := CacheKeyDrawDetail(drawID)

	var cached dto.DrawDetailResponse
	hit, err := a.cache.Get(ctx, key, &cached)
	if err != nil {
		log.WithError(err).WithField("drawID", drawID).Warn("draw detail cache read failed, falling through")
	}
	if hit {
		return &cached, nil
	}

	var resp *dto.DrawDetailResponse
	err = a.inTransaction(ctx, func(uow UnitOfWork) error {
		draw, err := uow.DrawRepository().GetByID(ctx, drawID)
		if err != nil {
			return err
		}
		if draw == nil {
			return xerrors.New(xerrors.ErrNotFound, "draw %d not found", drawID)
		}

		resp = &dto.DrawDetailResponse{
			DrawID:           draw.ID,
			Title:            draw.Title,
			Status:           string(draw.Status),
			PrizePool:        draw.PrizePool.String(),
			DrawDatetime:     draw.DrawDatetime,
			TotalTicketsSold: draw.TotalTicketsSold,
		}

		if draw.Status == entities.DrawStatusEnded && draw.WinnerWalletID != nil {
			winner, err := uow.WalletRepository().GetByID(ctx, *draw.WinnerWalletID)
			if err != nil {
				return err
			}
			if winner != nil {
				serial := ""
				if draw.WinningTicketSerial != nil {
					serial = *draw.WinningTicketSerial
				}
				resp.Winner = &dto.WinnerInfo{
					Username:     winner.OwnerName,
					SerialNumber: serial,
					PrizeAmount:  draw.TotalPrizeDistributed.String(),
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := a.cache.Set(ctx, key, resp, a.drawDetailTTL); err != nil {
		log.WithError(err).WithField("drawID", drawID).Warn("failed to cache draw detail")
	}
	return resp, nil
}

// LandingDraws returns the participable draws for the landing view
func (a *StatsApp) LandingDraws(ctx context.Context) ([]dto.DrawDetailResponse, error) {
	var cached []dto.DrawDetailResponse
	hit, err := a.cache.Get(ctx, CacheKeyLandingDraws, &cached)
	if err != nil {
		log.WithError(err).Warn("landing draws cache read failed, falling through")
	}
	if hit {
		return cached, nil
	}

	var resp []dto.DrawDetailResponse
	err = a.inTransaction(ctx, func(uow UnitOfWork) error {
		draws, err := uow.DrawRepository().ListByStatus(ctx, entities.DrawStatusUpcoming, entities.DrawStatusActive)
		if err != nil {
			return err
		}
		for _, draw := range draws {
			resp = append(resp, dto.DrawDetailResponse{
				DrawID:           draw.ID,
				Title:            draw.Title,
				Status:           string(draw.Status),
				PrizePool:        draw.PrizePool.String(),
				DrawDatetime:     draw.DrawDatetime,
				TotalTicketsSold: draw.TotalTicketsSold,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := a.cache.Set(ctx, CacheKeyLandingDraws, resp, a.statsTTL); err != nil {
		log.WithError(err).Warn("failed to cache landing draws")
	}
	return resp, nil
}

func (a *StatsApp) inTransaction(ctx context.Context, fn func(UnitOfWork) error) error {
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
