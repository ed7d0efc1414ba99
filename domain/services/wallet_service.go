package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"astraldraw/crypto"
	"astraldraw/domain/entities"
	"astraldraw/domain/events"
	"astraldraw/domain/interfaces"
	"astraldraw/domain/xerrors"
)

// walletService implements wallet provisioning against the ledger
type walletService struct {
	walletRepo     interfaces.WalletRepository
	ledger         interfaces.LedgerClient
	codec          interfaces.Codec
	eventPublisher interfaces.EventPublisher
}

// NewWalletService creates a new wallet service
func NewWalletService(
	walletRepo interfaces.WalletRepository,
	ledger interfaces.LedgerClient,
	codec interfaces.Codec,
	eventPublisher interfaces.EventPublisher,
) interfaces.WalletService {
	return &walletService{
		walletRepo:     walletRepo,
		ledger:         ledger,
		codec:          codec,
		eventPublisher: eventPublisher,
	}
}

// GetOrCreateWallet returns the wallet for ownerRef, provisioning one
// when it does not exist. Both ledger calls must succeed before any row
// is written, so a ledger failure leaves no partial state behind.
func (s *walletService) GetOrCreateWallet(ctx context.Context, ownerRef, ownerName string) (*entities.Wallet, error) {
	if ownerRef == "" {
		return nil, xerrors.New(xerrors.ErrValidation, "owner reference is required")
	}

	existing, err := s.walletRepo.GetByOwnerRef(ctx, ownerRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	account, err := s.ledger.CreateAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger account: %w", err)
	}

	if err := s.ledger.AssociateToken(ctx, account.AccountID, account.PrivateKey); err != nil {
		return nil, fmt.Errorf("failed to associate token: %w", err)
	}

	privateKeyEnc, err := s.encryptOnce(account.PrivateKey)
	if err != nil {
		return nil, err
	}
	recipientEnc, err := s.encryptOnce(account.AccountID)
	if err != nil {
		return nil, err
	}

	wallet := &entities.Wallet{
		UUID:           uuid.New(),
		OwnerRef:       ownerRef,
		OwnerName:      ownerName,
		PublicKey:      account.PublicKey,
		PrivateKeyEnc:  privateKeyEnc,
		RecipientIDEnc: recipientEnc,
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		if xerrors.IsUniqueViolation(err, "") {
			// Lost a provisioning race; the winner's row is authoritative
			return s.walletRepo.GetByOwnerRef(ctx, ownerRef)
		}
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	log.WithFields(log.Fields{
		"walletID": wallet.ID,
		"ownerRef": ownerRef,
	}).Info("wallet provisioned")

	if err := s.eventPublisher.Publish(events.WalletCreatedEvent{
		WalletID:  wallet.ID,
		OwnerRef:  ownerRef,
		PublicKey: wallet.PublicKey,
	}); err != nil {
		log.WithError(err).WithField("walletID", wallet.ID).Error("failed to publish wallet created event")
	}

	return wallet, nil
}

// encryptOnce encrypts value unless it already carries the ciphertext
// marker, keeping encryption idempotent for values handed back to us.
func (s *walletService) encryptOnce(value string) (string, error) {
	if crypto.IsCiphertext(value) {
		return value, nil
	}
	encrypted, err := s.codec.Encrypt(value)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt wallet secret: %w", err)
	}
	return encrypted, nil
}
