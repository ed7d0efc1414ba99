package application

import (
	"context"

	"astraldraw/domain/entities"
	"astraldraw/domain/interfaces"
	"astraldraw/domain/services"
)

// WalletApp orchestrates wallet provisioning. The ledger calls happen
// before the transaction opens, so a remote failure never holds a
// database transaction hostage and never leaves a partial row.
type WalletApp struct {
	uowFactory UnitOfWorkFactory
	ledger     interfaces.LedgerClient
	codec      interfaces.Codec
}

// NewWalletApp creates a new wallet application service
func NewWalletApp(uowFactory UnitOfWorkFactory, ledger interfaces.LedgerClient, codec interfaces.Codec) *WalletApp {
	return &WalletApp{
		uowFactory: uowFactory,
		ledger:     ledger,
		codec:      codec,
	}
}

// GetOrCreateWallet returns the wallet for ownerRef, provisioning one
// through the ledger when needed
func (a *WalletApp) GetOrCreateWallet(ctx context.Context, ownerRef, ownerName string) (*entities.Wallet, error) {
	var wallet *entities.Wallet

	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	walletService := services.NewWalletService(uow.WalletRepository(), a.ledger, a.codec, uow.EventBus())
	wallet, err := walletService.GetOrCreateWallet(ctx, ownerRef, ownerName)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return wallet, nil
}
