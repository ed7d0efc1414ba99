package application

import (
	"context"

	"astraldraw/crypto"
	"astraldraw/domain/interfaces"
	"astraldraw/domain/testhelpers"
)

// mockUnitOfWork drives the application layer against testify mocks
// without a database
type mockUnitOfWork struct {
	walletRepo *testhelpers.MockWalletRepository
	drawRepo   *testhelpers.MockDrawRepository
	ticketRepo *testhelpers.MockTicketRepository
	eventBus   *testhelpers.MockEventPublisher

	began      int
	committed  int
	rolledBack int
}

func newMockUnitOfWork() *mockUnitOfWork {
	return &mockUnitOfWork{
		walletRepo: new(testhelpers.MockWalletRepository),
		drawRepo:   new(testhelpers.MockDrawRepository),
		ticketRepo: new(testhelpers.MockTicketRepository),
		eventBus:   new(testhelpers.MockEventPublisher),
	}
}

func (m *mockUnitOfWork) Begin(ctx context.Context) error { m.began++; return nil }
func (m *mockUnitOfWork) Commit() error                   { m.committed++; return nil }
func (m *mockUnitOfWork) Rollback() error                 { m.rolledBack++; return nil }

func (m *mockUnitOfWork) WalletRepository() interfaces.WalletRepository { return m.walletRepo }
func (m *mockUnitOfWork) DrawRepository() interfaces.DrawRepository     { return m.drawRepo }
func (m *mockUnitOfWork) TicketRepository() interfaces.TicketRepository { return m.ticketRepo }
func (m *mockUnitOfWork) EventBus() interfaces.EventPublisher           { return m.eventBus }

// mockUoWFactory hands out the same unit of work every time so tests can
// assert against its repositories
type mockUoWFactory struct {
	uow *mockUnitOfWork
}

func (f *mockUoWFactory) Create() UnitOfWork { return f.uow }

func newAppTestCodec() *crypto.Codec {
	codec, err := crypto.NewCodec("application-test-secret")
	if err != nil {
		panic(err)
	}
	return codec
}
