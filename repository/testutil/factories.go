package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"astraldraw/domain/entities"
)

// CreateTestWallet creates a test wallet with default values
func CreateTestWallet(ownerRef string) *entities.Wallet {
	return &entities.Wallet{
		UUID:        uuid.New(),
		OwnerRef:    ownerRef,
		OwnerName:   "Wallet " + ownerRef,
		FiatBalance: decimal.Zero,
	}
}

// CreateTestAdminWallet creates a test wallet flagged as platform admin
func CreateTestAdminWallet(ownerRef string) *entities.Wallet {
	wallet := CreateTestWallet(ownerRef)
	wallet.IsAdmin = true
	return wallet
}

// CreateTestDraw creates an active test draw with default values
func CreateTestDraw(title, winningCombinationEnc string) *entities.Draw {
	return &entities.Draw{
		UUID:                  uuid.New(),
		Title:                 title,
		PrizePool:             decimal.NewFromInt(1000),
		WinningCombinationEnc: winningCombinationEnc,
		Status:                entities.DrawStatusActive,
		DrawDatetime:          time.Now().Add(24 * time.Hour),
	}
}

// CreateTestTicket creates a test ticket for the given wallet and draw
func CreateTestTicket(walletID, drawID, sequence int64, combinationEnc string) *entities.Ticket {
	return &entities.Ticket{
		UUID:           uuid.New(),
		SerialNumber:   entities.FormatSerial("AK", drawID, walletID, sequence),
		WalletID:       walletID,
		DrawID:         drawID,
		CombinationEnc: combinationEnc,
		Rarity:         entities.RarityCommon,
		Glyphs:         "⟟⟟⟟⟟⟟⟟",
	}
}

// UniqueOwnerRef builds a collision-free owner reference for tests
func UniqueOwnerRef(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}
