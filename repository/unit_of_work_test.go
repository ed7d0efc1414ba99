package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astraldraw/domain/events"
	"astraldraw/repository/testutil"
)

// recordingPublisher buffers events and records flush/discard calls
type recordingPublisher struct {
	pending   []events.Event
	flushed   []events.Event
	discarded int
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

func (p *recordingPublisher) Flush(ctx context.Context) {
	p.flushed = append(p.flushed, p.pending...)
	p.pending = nil
}

func (p *recordingPublisher) Discard() {
	p.discarded++
	p.pending = nil
}

func TestUnitOfWork_CommitPersistsAndFlushes(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := &recordingPublisher{}
	uow := CreateTestUnitOfWork(testDB.DB, publisher)

	require.NoError(t, uow.Begin(ctx))

	wallet := testutil.CreateTestWallet(testutil.UniqueOwnerRef("uow"))
	require.NoError(t, uow.WalletRepository().Create(ctx, wallet))

	draw := testutil.CreateTestDraw("UoW Draw", "sk1:combo")
	require.NoError(t, uow.DrawRepository().Create(ctx, draw))

	require.NoError(t, uow.EventBus().Publish(events.DrawCreatedEvent{DrawID: draw.ID}))
	assert.Empty(t, publisher.flushed, "events must not escape before commit")

	require.NoError(t, uow.Commit())

	// Events flush only after the transaction lands
	require.Len(t, publisher.flushed, 1)

	got, err := NewDrawRepository(testDB.DB).GetByID(ctx, draw.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := &recordingPublisher{}
	uow := CreateTestUnitOfWork(testDB.DB, publisher)

	require.NoError(t, uow.Begin(ctx))

	draw := testutil.CreateTestDraw("Rolled Back Draw", "sk1:combo")
	require.NoError(t, uow.DrawRepository().Create(ctx, draw))
	require.NoError(t, uow.EventBus().Publish(events.DrawCreatedEvent{DrawID: draw.ID}))

	require.NoError(t, uow.Rollback())

	assert.Empty(t, publisher.flushed)
	assert.Equal(t, 1, publisher.discarded)

	got, err := NewDrawRepository(testDB.DB).GetByID(ctx, draw.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "rolled back draw must not persist")
}

func TestUnitOfWork_Guards(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	uow := CreateTestUnitOfWork(testDB.DB, &recordingPublisher{})

	assert.Error(t, uow.Commit(), "commit before begin")
	assert.NoError(t, uow.Rollback(), "rollback before begin is a no-op")
	assert.Panics(t, func() { uow.DrawRepository() })

	require.NoError(t, uow.Begin(ctx))
	assert.Error(t, uow.Begin(ctx), "double begin")
	require.NoError(t, uow.Rollback())
}
