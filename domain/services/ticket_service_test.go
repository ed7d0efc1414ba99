package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"astraldraw/domain/entities"
	"astraldraw/domain/testhelpers"
	"astraldraw/domain/xerrors"
)

func newTicketServiceUnderTest(
	drawRepo *testhelpers.MockDrawRepository,
	ticketRepo *testhelpers.MockTicketRepository,
	walletRepo *testhelpers.MockWalletRepository,
	eventPublisher *testhelpers.MockEventPublisher,
) *ticketService {
	codec := newTestCodec()
	return NewTicketService(drawRepo, ticketRepo, walletRepo, codec, eventPublisher, "AK", "https://astraldraw.example/api/nft-image").(*ticketService)
}

func testWallet(id int64) *entities.Wallet {
	return &entities.Wallet{ID: id, OwnerRef: "owner", OwnerName: "Test Owner"}
}

func TestTicketService_SubmitTicket(t *testing.T) {
	t.Parallel()

	drawRepo, walletRepo, ticketRepo, eventPublisher := setupDrawServiceMocks()
	service := newTicketServiceUnderTest(drawRepo, ticketRepo, walletRepo, eventPublisher)

	draw := createTestDraw(3, func(d *entities.Draw) {
		d.Status = entities.DrawStatusActive
		d.DrawDatetime = time.Now().Add(time.Hour)
	})

	walletRepo.On("GetByID", mock.Anything, int64(12)).Return(testWallet(12), nil)
	drawRepo.On("GetByID", mock.Anything, int64(3)).Return(draw, nil)
	drawRepo.On("NextTicketSequence", mock.Anything, int64(3)).Return(int64(7), nil)
	ticketRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	drawRepo.On("IncrementTicketsSold", mock.Anything, int64(3)).Return(nil)
	eventPublisher.On("Publish", mock.Anything).Return(nil)

	combination := mustCombination(1, 2, 3, 4, 5, 6)
	ticket, err := service.SubmitTicket(context.Background(), 12, 3, combination)
	require.NoError(t, err)

	assert.Equal(t, "AK000300120007", ticket.SerialNumber)
	assert.Equal(t, entities.RarityRare, ticket.Rarity)
	assert.Equal(t, "⍙⟊⊑⌇⎍⏁", ticket.Glyphs)

	// Only the ciphertext is carried on the ticket
	var symbols []int
	require.NoError(t, service.codec.DecryptJSON(ticket.CombinationEnc, &symbols))
	assert.Equal(t, combination.Slice(), symbols)

	drawRepo.AssertExpectations(t)
	ticketRepo.AssertExpectations(t)
	eventPublisher.AssertExpectations(t)
}

func TestTicketService_SubmitTicket_InvalidCombination(t *testing.T) {
	t.Parallel()

	drawRepo, walletRepo, ticketRepo, eventPublisher := setupDrawServiceMocks()
	service := newTicketServiceUnderTest(drawRepo, ticketRepo, walletRepo, eventPublisher)

	// Bypass the constructor with an out-of-range literal
	bad := entities.Combination{1, 2, 3, 4, 5, 10}

	_, err := service.SubmitTicket(context.Background(), 12, 3, bad)
	assert.ErrorIs(t, err, xerrors.ErrValidation)
	ticketRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTicketService_SubmitTicket_NotParticipable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		draw *entities.Draw
	}{
		{
			name: "draw time passed",
			draw: createTestDraw(4, func(d *entities.Draw) {
				d.Status = entities.DrawStatusActive
				d.DrawDatetime = time.Now().Add(-time.Minute)
			}),
		},
		{
			name: "draw ended",
			draw: createTestDraw(4, func(d *entities.Draw) {
				d.Status = entities.DrawStatusEnded
			}),
		},
		{
			name: "draw cancelled",
			draw: createTestDraw(4, func(d *entities.Draw) {
				d.Status = entities.DrawStatusCancelled
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			drawRepo, walletRepo, ticketRepo, eventPublisher := setupDrawServiceMocks()
			service := newTicketServiceUnderTest(drawRepo, ticketRepo, walletRepo, eventPublisher)

			walletRepo.On("GetByID", mock.Anything, int64(12)).Return(testWallet(12), nil)
			drawRepo.On("GetByID", mock.Anything, int64(4)).Return(tt.draw, nil)

			_, err := service.SubmitTicket(context.Background(), 12, 4, mustCombination(1, 2, 3, 4, 5, 6))
			assert.ErrorIs(t, err, xerrors.ErrState)
			drawRepo.AssertNotCalled(t, "NextTicketSequence", mock.Anything, mock.Anything)
		})
	}
}

func TestTicketService_SubmitTicket_Duplicate(t *testing.T) {
	t.Parallel()

	drawRepo, walletRepo, ticketRepo, eventPublisher := setupDrawServiceMocks()
	service := newTicketServiceUnderTest(drawRepo, ticketRepo, walletRepo, eventPublisher)

	draw := createTestDraw(5, func(d *entities.Draw) {
		d.Status = entities.DrawStatusUpcoming
		d.DrawDatetime = time.Now().Add(time.Hour)
	})

	walletRepo.On("GetByID", mock.Anything, int64(12)).Return(testWallet(12), nil)
	drawRepo.On("GetByID", mock.Anything, int64(5)).Return(draw, nil)
	drawRepo.On("NextTicketSequence", mock.Anything, int64(5)).Return(int64(2), nil)
	ticketRepo.On("Create", mock.Anything, mock.Anything).Return(&pgconn.PgError{
		Code:           "23505",
		ConstraintName: "tickets_wallet_id_draw_id_key",
	})

	_, err := service.SubmitTicket(context.Background(), 12, 5, mustCombination(1, 2, 3, 4, 5, 6))
	assert.ErrorIs(t, err, xerrors.ErrConflict)
	drawRepo.AssertNotCalled(t, "IncrementTicketsSold", mock.Anything, mock.Anything)
	eventPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestTicketService_SubmitTicket_MissingWalletOrDraw(t *testing.T) {
	t.Parallel()

	t.Run("wallet not found", func(t *testing.T) {
		t.Parallel()

		drawRepo, walletRepo, ticketRepo, eventPublisher := setupDrawServiceMocks()
		service := newTicketServiceUnderTest(drawRepo, ticketRepo, walletRepo, eventPublisher)

		walletRepo.On("GetByID", mock.Anything, int64(1)).Return(nil, nil)

		_, err := service.SubmitTicket(context.Background(), 1, 2, mustCombination(1, 2, 3, 4, 5, 6))
		assert.ErrorIs(t, err, xerrors.ErrNotFound)
	})

	t.Run("draw not found", func(t *testing.T) {
		t.Parallel()

		drawRepo, walletRepo, ticketRepo, eventPublisher := setupDrawServiceMocks()
		service := newTicketServiceUnderTest(drawRepo, ticketRepo, walletRepo, eventPublisher)

		walletRepo.On("GetByID", mock.Anything, int64(1)).Return(testWallet(1), nil)
		drawRepo.On("GetByID", mock.Anything, int64(2)).Return(nil, nil)

		_, err := service.SubmitTicket(context.Background(), 1, 2, mustCombination(1, 2, 3, 4, 5, 6))
		assert.ErrorIs(t, err, xerrors.ErrNotFound)
	})
}

func TestTicketService_TicketMetadata(t *testing.T) {
	t.Parallel()

	drawRepo, walletRepo, ticketRepo, eventPublisher := setupDrawServiceMocks()
	codec := newTestCodec()
	service := NewTicketService(drawRepo, ticketRepo, walletRepo, codec, eventPublisher, "AK", "https://astraldraw.example/api/nft-image").(*ticketService)

	combination := mustCombination(2, 2, 4, 4, 6, 6)
	ticket := createTestTicket(60, 600, 6, combination, codec)
	draw := createTestDraw(6, func(d *entities.Draw) {
		d.Title = "Orion Convergence"
	})

	ticketRepo.On("GetByID", mock.Anything, int64(60)).Return(ticket, nil)
	drawRepo.On("GetByID", mock.Anything, int64(6)).Return(draw, nil)

	meta, err := service.TicketMetadata(context.Background(), 60)
	require.NoError(t, err)

	assert.Equal(t, "Astral Key #"+ticket.SerialNumber, meta.Name)
	assert.Contains(t, meta.Description, "Orion Convergence")

	attrs := make(map[string]string, len(meta.Attributes))
	for _, a := range meta.Attributes {
		attrs[a.TraitType] = a.Value
	}
	assert.Equal(t, entities.RarityEpic, attrs["Rarity"])
	assert.Equal(t, "⟊⟊⌇⌇⏁⏁", attrs["Cosmic Glyph"])
}
