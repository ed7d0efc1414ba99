package application

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"astraldraw/domain/entities"
	"astraldraw/domain/interfaces"
	"astraldraw/domain/services"
)

// DrawWorker processes draws whose scheduled time has passed. It sleeps
// until the next pending draw_datetime and wakes hourly when the
// schedule is empty.
type DrawWorker struct {
	uowFactory UnitOfWorkFactory
	codec      interfaces.Codec
	cache      interfaces.CacheStore
}

// NewDrawWorker creates a new draw worker
func NewDrawWorker(uowFactory UnitOfWorkFactory, codec interfaces.Codec, cache interfaces.CacheStore) *DrawWorker {
	return &DrawWorker{
		uowFactory: uowFactory,
		codec:      codec,
		cache:      cache,
	}
}

// Start begins the worker goroutine and returns a stop function
func (w *DrawWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Info("Draw worker started")

		for {
			if err := w.processDueDraws(ctx); err != nil {
				log.Errorf("Error processing due draws: %v", err)
			}

			nextDrawTime := w.nextDrawTime(ctx)
			if nextDrawTime == nil {
				log.Info("No pending draws, checking again in 1 hour")
				select {
				case <-ctx.Done():
					log.Info("Draw worker shutting down (context cancelled)")
					return
				case <-stopChan:
					log.Info("Draw worker shutting down (stop requested)")
					return
				case <-time.After(1 * time.Hour):
					continue
				}
			}

			waitDuration := time.Until(*nextDrawTime)
			if waitDuration <= 0 {
				// Draw time already passed, loop to process immediately
				continue
			}

			log.Infof("Next draw at %v (in %v)", nextDrawTime.UTC(), waitDuration)

			select {
			case <-ctx.Done():
				log.Info("Draw worker shutting down (context cancelled)")
				return
			case <-stopChan:
				log.Info("Draw worker shutting down (stop requested)")
				return
			case <-time.After(waitDuration):
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// nextDrawTime reads the earliest pending draw time, nil when none
func (w *DrawWorker) nextDrawTime(ctx context.Context) *time.Time {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction for next draw time: %v", err)
		return nil
	}
	defer uow.Rollback()

	next, err := uow.DrawRepository().GetNextPending(ctx)
	if err != nil {
		log.Errorf("Failed to get next pending draw: %v", err)
		return nil
	}
	if next == nil {
		return nil
	}
	return &next.DrawDatetime
}

// processDueDraws processes every active draw whose time has passed.
// Each draw runs in its own transaction so one failure cannot poison
// the rest of the schedule.
func (w *DrawWorker) processDueDraws(ctx context.Context) error {
	due, err := w.collectDueDraws(ctx)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	log.Infof("Found %d due draws to process", len(due))

	var failures int
	for _, drawID := range due {
		if err := w.processOne(ctx, drawID); err != nil {
			log.WithError(err).WithField("drawID", drawID).Error("failed to process draw")
			failures++
			continue
		}

		if err := w.cache.DeleteMany(ctx, CacheKeyPlatformStats, CacheKeyLandingDraws, CacheKeyDrawDetail(drawID)); err != nil {
			log.WithError(err).WithField("drawID", drawID).Warn("failed to invalidate caches after processing")
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d due draws failed to process", failures, len(due))
	}
	return nil
}

func (w *DrawWorker) collectDueDraws(ctx context.Context) ([]int64, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	draws, err := uow.DrawRepository().ListByStatus(ctx, entities.DrawStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active draws: %w", err)
	}

	now := time.Now()
	var due []int64
	for _, draw := range draws {
		if draw.IsDue(now) {
			due = append(due, draw.ID)
		}
	}
	return due, nil
}

func (w *DrawWorker) processOne(ctx context.Context, drawID int64) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	resolver := services.NewWinnerResolver(uow.TicketRepository(), w.codec)
	drawService := services.NewDrawService(uow.DrawRepository(), uow.WalletRepository(), resolver, w.codec, uow.EventBus())

	outcome, err := drawService.ProcessDraw(ctx, drawID)
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit draw processing: %w", err)
	}

	if outcome.Resolution.ExactWinner != nil {
		log.WithFields(log.Fields{
			"drawID": drawID,
			"serial": outcome.Resolution.ExactWinner.Ticket.SerialNumber,
		}).Info("draw processed with jackpot winner")
	} else {
		log.WithField("drawID", drawID).Info("draw processed without jackpot winner")
	}
	return nil
}
