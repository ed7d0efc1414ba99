package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is a platform account. Key material is stored encrypted; the
// encrypted private key is write-once at the repository boundary.
type Wallet struct {
	ID             int64
	UUID           uuid.UUID
	OwnerRef       string
	OwnerName      string
	FiatBalance    decimal.Decimal
	PublicKey      string
	PrivateKeyEnc  string
	RecipientIDEnc string
	IsAdmin        bool
	CreatedAt      time.Time
}

// HasKeyMaterial reports whether the wallet has been provisioned on the
// ledger side.
func (w *Wallet) HasKeyMaterial() bool {
	return w.PublicKey != "" && w.PrivateKeyEnc != ""
}

// CanAfford reports whether the wallet balance covers amount
func (w *Wallet) CanAfford(amount decimal.Decimal) bool {
	return w.FiatBalance.GreaterThanOrEqual(amount)
}
