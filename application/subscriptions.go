package application

import (
	"context"

	log "github.com/sirupsen/logrus"

	"astraldraw/domain/events"
	"astraldraw/domain/interfaces"
)

// RegisterAnnouncementSubscriptions wires the announcement handlers for
// events flowing back over the bus. Processed draws and minted tickets
// get an operator-visible log line; downstream services consume the same
// subjects for their own surfaces.
func RegisterAnnouncementSubscriptions(subscriber interfaces.EventSubscriber) error {
	if err := subscriber.Subscribe(events.EventTypeDrawProcessed,
		func(ctx context.Context, event events.Event) error {
			processed, ok := event.(*events.DrawProcessedEvent)
			if !ok {
				log.WithField("eventType", event.Type()).Warn("unexpected payload type for processed draw event")
				return nil
			}

			fields := log.Fields{
				"drawID":           processed.DrawID,
				"totalDistributed": processed.TotalDistributed,
				"winnerCount":      processed.WinnerCount,
			}
			if processed.WinningSerial != nil {
				fields["winningSerial"] = *processed.WinningSerial
			}
			log.WithFields(fields).Info("Draw processed")
			return nil
		}); err != nil {
		return err
	}

	return subscriber.Subscribe(events.EventTypeTicketMinted,
		func(ctx context.Context, event events.Event) error {
			minted, ok := event.(*events.TicketMintedEvent)
			if !ok {
				log.WithField("eventType", event.Type()).Warn("unexpected payload type for minted ticket event")
				return nil
			}

			log.WithFields(log.Fields{
				"drawID":       minted.DrawID,
				"serialNumber": minted.SerialNumber,
				"rarity":       minted.Rarity,
			}).Info("Ticket minted")
			return nil
		})
}
