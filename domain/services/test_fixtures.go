package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"astraldraw/crypto"
	"astraldraw/domain/entities"
	"astraldraw/domain/interfaces"
)

// newTestCodec builds a codec with a throwaway secret for service tests
func newTestCodec() *crypto.Codec {
	codec, err := crypto.NewCodec("service-test-secret")
	if err != nil {
		panic(err)
	}
	return codec
}

// createTestDraw builds an active, future-dated draw with common defaults
func createTestDraw(id int64, opts ...func(*entities.Draw)) *entities.Draw {
	draw := &entities.Draw{
		ID:           id,
		UUID:         uuid.New(),
		Title:        "Test Convergence",
		PrizePool:    decimal.NewFromInt(1000),
		Status:       entities.DrawStatusActive,
		DrawDatetime: time.Now().Add(1 * time.Hour),
		CreatedAt:    time.Now(),
	}
	for _, opt := range opts {
		opt(draw)
	}
	return draw
}

// createTestTicket builds a ticket with its combination encrypted by codec
func createTestTicket(id, walletID, drawID int64, combination entities.Combination, codec interfaces.Codec) *entities.Ticket {
	enc, err := codec.EncryptJSON(combination.Slice())
	if err != nil {
		panic(err)
	}
	return &entities.Ticket{
		ID:             id,
		UUID:           uuid.New(),
		SerialNumber:   entities.FormatSerial("AK", drawID, walletID, id),
		WalletID:       walletID,
		DrawID:         drawID,
		CombinationEnc: enc,
		Rarity:         entities.DeriveRarity(combination),
		Glyphs:         entities.DeriveGlyphs(combination),
		CreatedAt:      time.Now(),
	}
}

func mustCombination(symbols ...int) entities.Combination {
	c, err := entities.NewCombination(symbols)
	if err != nil {
		panic(err)
	}
	return c
}
