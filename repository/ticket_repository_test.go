package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astraldraw/domain/entities"
	"astraldraw/domain/xerrors"
	"astraldraw/repository/testutil"
)

func setupTicketFixtures(t *testing.T, testDB *testutil.TestDatabase) (*entities.Wallet, *entities.Draw) {
	t.Helper()
	ctx := context.Background()

	wallet := testutil.CreateTestWallet(testutil.UniqueOwnerRef("holder"))
	require.NoError(t, NewWalletRepository(testDB.DB).Create(ctx, wallet))

	draw := testutil.CreateTestDraw("Ticket Draw", "sk1:winning")
	require.NoError(t, NewDrawRepository(testDB.DB).Create(ctx, draw))

	return wallet, draw
}

func TestTicketRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()
	wallet, draw := setupTicketFixtures(t, testDB)

	ticket := testutil.CreateTestTicket(wallet.ID, draw.ID, 1, "sk1:combo-a")
	ticket.Rarity = entities.RarityRare
	require.NoError(t, repo.Create(ctx, ticket))
	require.NotZero(t, ticket.ID)

	got, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ticket.SerialNumber, got.SerialNumber)
	assert.Equal(t, "sk1:combo-a", got.CombinationEnc)
	assert.Equal(t, entities.RarityRare, got.Rarity)

	bySerial, err := repo.GetBySerial(ctx, ticket.SerialNumber)
	require.NoError(t, err)
	require.NotNil(t, bySerial)
	assert.Equal(t, ticket.ID, bySerial.ID)

	missing, err := repo.GetBySerial(ctx, "AK999999999999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTicketRepository_DuplicateWalletDraw(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()
	wallet, draw := setupTicketFixtures(t, testDB)

	first := testutil.CreateTestTicket(wallet.ID, draw.ID, 1, "sk1:combo-a")
	require.NoError(t, repo.Create(ctx, first))

	// Same wallet, same draw, different serial and combination
	second := testutil.CreateTestTicket(wallet.ID, draw.ID, 2, "sk1:combo-b")
	err := repo.Create(ctx, second)
	require.Error(t, err)
	assert.True(t, xerrors.IsUniqueViolation(err, ""))
}

func TestTicketRepository_ConcurrentDuplicateSubmission(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()
	wallet, draw := setupTicketFixtures(t, testDB)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(seq int64) {
			defer wg.Done()
			ticket := testutil.CreateTestTicket(wallet.ID, draw.ID, seq, "sk1:combo")
			errs <- repo.Create(ctx, ticket)
		}(int64(i + 1))
	}
	wg.Wait()
	close(errs)

	// Exactly one submission survives the unique constraint
	var succeeded, conflicted int
	for err := range errs {
		if err == nil {
			succeeded++
		} else if xerrors.IsUniqueViolation(err, "") {
			conflicted++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)
}

func TestTicketRepository_ListByDraw_NewestFirst(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB)
	walletRepo := NewWalletRepository(testDB.DB)
	ctx := context.Background()
	_, draw := setupTicketFixtures(t, testDB)

	var created []*entities.Ticket
	for i := 0; i < 3; i++ {
		wallet := testutil.CreateTestWallet(testutil.UniqueOwnerRef("holder"))
		require.NoError(t, walletRepo.Create(ctx, wallet))

		ticket := testutil.CreateTestTicket(wallet.ID, draw.ID, int64(i+1), "sk1:combo")
		require.NoError(t, repo.Create(ctx, ticket))
		created = append(created, ticket)
		time.Sleep(10 * time.Millisecond)
	}

	tickets, err := repo.ListByDraw(ctx, draw.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 3)

	// Newest first, id as tiebreak
	assert.Equal(t, created[2].ID, tickets[0].ID)
	assert.Equal(t, created[1].ID, tickets[1].ID)
	assert.Equal(t, created[0].ID, tickets[2].ID)
}

func TestTicketRepository_GetByEncryptedCombination(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB)
	walletRepo := NewWalletRepository(testDB.DB)
	ctx := context.Background()
	wallet, draw := setupTicketFixtures(t, testDB)

	match := testutil.CreateTestTicket(wallet.ID, draw.ID, 1, "sk1:the-winning-one")
	require.NoError(t, repo.Create(ctx, match))

	other := testutil.CreateTestWallet(testutil.UniqueOwnerRef("other"))
	require.NoError(t, walletRepo.Create(ctx, other))
	miss := testutil.CreateTestTicket(other.ID, draw.ID, 2, "sk1:something-else")
	require.NoError(t, repo.Create(ctx, miss))

	found, err := repo.GetByEncryptedCombination(ctx, draw.ID, "sk1:the-winning-one")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, match.ID, found[0].ID)

	none, err := repo.GetByEncryptedCombination(ctx, draw.ID, "sk1:absent")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTicketRepository_SetTokenRef(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()
	wallet, draw := setupTicketFixtures(t, testDB)

	ticket := testutil.CreateTestTicket(wallet.ID, draw.ID, 1, "sk1:combo")
	require.NoError(t, repo.Create(ctx, ticket))

	require.NoError(t, repo.SetTokenRef(ctx, ticket.ID, "0.0.5555/7"))

	got, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.0.5555/7", got.TokenRef)

	err = repo.SetTokenRef(ctx, 999999, "nope")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}
