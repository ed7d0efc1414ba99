package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"astraldraw/application/dto"
	"astraldraw/domain/entities"
	"astraldraw/domain/testhelpers"
	"astraldraw/domain/xerrors"
)

func TestTicketApp_SubmitTicket(t *testing.T) {
	ctx := context.Background()
	uow := newMockUnitOfWork()
	cache := new(testhelpers.MockCacheStore)
	codec := newAppTestCodec()
	app := NewTicketApp(&mockUoWFactory{uow: uow}, codec, cache, "AK", "https://astraldraw.test/keys")

	wallet := &entities.Wallet{ID: 12, OwnerRef: "user-12", OwnerName: "Caster"}
	draw := &entities.Draw{
		ID:           3,
		Title:        "Nebula Draw",
		Status:       entities.DrawStatusActive,
		PrizePool:    decimal.NewFromInt(1000),
		DrawDatetime: time.Now().Add(24 * time.Hour),
	}

	uow.walletRepo.On("GetByOwnerRef", ctx, "user-12").Return(wallet, nil)
	uow.walletRepo.On("GetByID", ctx, int64(12)).Return(wallet, nil)
	uow.drawRepo.On("GetByID", ctx, int64(3)).Return(draw, nil)
	uow.drawRepo.On("NextTicketSequence", ctx, int64(3)).Return(int64(7), nil)
	uow.ticketRepo.On("Create", ctx, mock.AnythingOfType("*entities.Ticket")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entities.Ticket).ID = 99
		}).Return(nil)
	uow.drawRepo.On("IncrementTicketsSold", ctx, int64(3)).Return(nil)
	uow.eventBus.On("Publish", mock.Anything).Return(nil)
	cache.On("DeleteMany", mock.Anything, CacheKeyPlatformStats, CacheKeyLandingDraws, CacheKeyDrawDetail(int64(3))).Return(nil)

	resp := app.SubmitTicket(ctx, "user-12", 3, dto.SubmitTicketRequest{StarKeys: []int{1, 2, 3, 4, 5, 6}})

	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "AK000300120007", resp.SerialNumber)
	assert.Contains(t, resp.Message, "Rare")
	assert.Equal(t, 1, uow.committed)
	uow.ticketRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestTicketApp_SubmitTicketInvalidCombination(t *testing.T) {
	uow := newMockUnitOfWork()
	app := NewTicketApp(&mockUoWFactory{uow: uow}, newAppTestCodec(), new(testhelpers.MockCacheStore), "AK", "https://astraldraw.test/keys")

	resp := app.SubmitTicket(context.Background(), "user-12", 3, dto.SubmitTicketRequest{StarKeys: []int{1, 2, 3}})

	assert.False(t, resp.Success)
	assert.Equal(t, xerrors.CodeValidation, resp.Code)
	assert.Equal(t, 0, uow.began)
}

func TestTicketApp_SubmitTicketUnknownWallet(t *testing.T) {
	ctx := context.Background()
	uow := newMockUnitOfWork()
	app := NewTicketApp(&mockUoWFactory{uow: uow}, newAppTestCodec(), new(testhelpers.MockCacheStore), "AK", "https://astraldraw.test/keys")

	uow.walletRepo.On("GetByOwnerRef", ctx, "ghost").Return(nil, nil)

	resp := app.SubmitTicket(ctx, "ghost", 3, dto.SubmitTicketRequest{StarKeys: []int{1, 2, 3, 4, 5, 6}})

	assert.False(t, resp.Success)
	assert.Equal(t, xerrors.CodeNotFound, resp.Code)
	assert.Equal(t, 1, uow.rolledBack)
}

func TestTicketApp_ListWalletTickets(t *testing.T) {
	ctx := context.Background()
	uow := newMockUnitOfWork()
	app := NewTicketApp(&mockUoWFactory{uow: uow}, newAppTestCodec(), new(testhelpers.MockCacheStore), "AK", "https://astraldraw.test/keys")

	wallet := &entities.Wallet{ID: 12, OwnerRef: "user-12"}
	tickets := []*entities.Ticket{
		{ID: 2, SerialNumber: "AK000300120002", DrawID: 3, Rarity: "Rare", Glyphs: "⍙⟊⊑⌇⎍⏁"},
		{ID: 1, SerialNumber: "AK000300120001", DrawID: 3, Rarity: "Common", Glyphs: "⟟⟟⍙⍙⟊⊑"},
	}

	uow.walletRepo.On("GetByOwnerRef", ctx, "user-12").Return(wallet, nil)
	uow.ticketRepo.On("ListByWallet", ctx, int64(12), 50).Return(tickets, nil)

	infos, err := app.ListWalletTickets(ctx, "user-12", 0)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "AK000300120002", infos[0].SerialNumber)
	assert.Equal(t, "Rare", infos[0].Rarity)
}

func TestTicketApp_TicketCard(t *testing.T) {
	ctx := context.Background()
	uow := newMockUnitOfWork()
	app := NewTicketApp(&mockUoWFactory{uow: uow}, newAppTestCodec(), new(testhelpers.MockCacheStore), "AK", "https://astraldraw.test/keys")

	ticket := &entities.Ticket{
		ID:           99,
		DrawID:       3,
		SerialNumber: "AK000300120007",
		Rarity:       entities.RarityRare,
		Glyphs:       "⍙⟊⊑⌇⎍⏁",
		CreatedAt:    time.Now(),
	}
	draw := &entities.Draw{ID: 3, Title: "Nebula Draw"}

	uow.ticketRepo.On("GetByID", ctx, int64(99)).Return(ticket, nil)
	uow.drawRepo.On("GetByID", ctx, int64(3)).Return(draw, nil)

	data, err := app.TicketCard(ctx, 99)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestTicketApp_TicketCardNotFound(t *testing.T) {
	ctx := context.Background()
	uow := newMockUnitOfWork()
	app := NewTicketApp(&mockUoWFactory{uow: uow}, newAppTestCodec(), new(testhelpers.MockCacheStore), "AK", "https://astraldraw.test/keys")

	uow.ticketRepo.On("GetByID", ctx, int64(404)).Return(nil, nil)

	_, err := app.TicketCard(ctx, 404)
	require.Error(t, err)
	assert.Equal(t, xerrors.CodeNotFound, xerrors.Code(err))
}
