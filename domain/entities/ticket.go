package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ticket is a submitted entry in a draw. The combination is stored only
// as ciphertext; Rarity and Glyphs are derived at mint time.
type Ticket struct {
	ID             int64
	UUID           uuid.UUID
	SerialNumber   string
	WalletID       int64
	DrawID         int64
	CombinationEnc string
	Rarity         string
	Glyphs         string
	TokenRef       string
	CreatedAt      time.Time
}

// FormatSerial builds a ticket serial from its components. Each component
// is zero-padded to four digits and widens naturally beyond 9999;
// uniqueness is carried by the sequence and the unique constraint, not by
// fixed width.
func FormatSerial(prefix string, drawID, walletID, sequence int64) string {
	return fmt.Sprintf("%s%04d%04d%04d", prefix, drawID, walletID, sequence)
}
