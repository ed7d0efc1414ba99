package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DrawStatus is the lifecycle state of a draw
type DrawStatus string

const (
	DrawStatusUpcoming  DrawStatus = "UPCOMING"
	DrawStatusActive    DrawStatus = "ACTIVE"
	DrawStatusEnded     DrawStatus = "ENDED"
	DrawStatusCancelled DrawStatus = "CANCELLED"
)

// Draw represents a scheduled drawing with a hidden winning combination.
// The winning combination is stored only as ciphertext; TicketCounter is
// the per-draw serial sequence and is only ever advanced atomically in
// the database.
type Draw struct {
	ID                    int64
	UUID                  uuid.UUID
	Title                 string
	PrizePool             decimal.Decimal
	WinningCombinationEnc string
	Status                DrawStatus
	DrawDatetime          time.Time
	TicketCounter         int64
	TotalTicketsSold      int
	TotalPrizeDistributed decimal.Decimal
	WinningTicketSerial   *string
	WinnerWalletID        *int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsParticipable reports whether tickets may still be submitted.
// Participation closes the moment draw_datetime passes, regardless of
// whether the processor has run yet.
func (d *Draw) IsParticipable(now time.Time) bool {
	if d.Status != DrawStatusUpcoming && d.Status != DrawStatusActive {
		return false
	}
	return d.DrawDatetime.After(now)
}

// IsDue reports whether the draw is ready to be processed
func (d *Draw) IsDue(now time.Time) bool {
	return d.Status == DrawStatusActive && !d.DrawDatetime.After(now)
}

// IsTerminal reports whether the draw has reached a final state
func (d *Draw) IsTerminal() bool {
	return d.Status == DrawStatusEnded || d.Status == DrawStatusCancelled
}

// CanCancel reports whether cancellation is allowed from the current state
func (d *Draw) CanCancel() bool {
	return d.Status == DrawStatusUpcoming || d.Status == DrawStatusActive
}
