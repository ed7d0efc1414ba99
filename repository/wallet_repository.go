package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"astraldraw/domain/entities"
	"astraldraw/domain/xerrors"
)

const walletColumns = `id, uuid, owner_ref, owner_name, fiat_balance::text,
	COALESCE(public_key, ''), COALESCE(private_key_enc, ''), COALESCE(recipient_id_enc, ''),
	is_admin, created_at`

// WalletRepository implements wallet data access
type WalletRepository struct {
	q Queryable
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(q Queryable) *WalletRepository {
	return &WalletRepository{q: q}
}

func scanWallet(row rowScanner) (*entities.Wallet, error) {
	var wallet entities.Wallet
	var balance string

	err := row.Scan(
		&wallet.ID,
		&wallet.UUID,
		&wallet.OwnerRef,
		&wallet.OwnerName,
		&balance,
		&wallet.PublicKey,
		&wallet.PrivateKeyEnc,
		&wallet.RecipientIDEnc,
		&wallet.IsAdmin,
		&wallet.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if wallet.FiatBalance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("failed to parse wallet balance: %w", err)
	}
	return &wallet, nil
}

// GetByID retrieves a wallet by its numeric ID
func (r *WalletRepository) GetByID(ctx context.Context, id int64) (*entities.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE id = $1`, walletColumns)

	wallet, err := scanWallet(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet by ID %d: %w", id, err)
	}

	return wallet, nil
}

// GetByOwnerRef retrieves a wallet by its external owner reference
func (r *WalletRepository) GetByOwnerRef(ctx context.Context, ownerRef string) (*entities.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE owner_ref = $1`, walletColumns)

	wallet, err := scanWallet(r.q.QueryRow(ctx, query, ownerRef))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet by owner ref: %w", err)
	}

	return wallet, nil
}

// Create persists a new wallet. The private key ciphertext column is
// written here and never touched by any update path, which is what makes
// it write-once.
func (r *WalletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	query := `
		INSERT INTO wallets (uuid, owner_ref, owner_name, public_key, private_key_enc, recipient_id_enc, is_admin)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		wallet.UUID,
		wallet.OwnerRef,
		wallet.OwnerName,
		wallet.PublicKey,
		wallet.PrivateKeyEnc,
		wallet.RecipientIDEnc,
		wallet.IsAdmin,
	).Scan(&wallet.ID, &wallet.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

// UpdateBalance sets a wallet's fiat balance
func (r *WalletRepository) UpdateBalance(ctx context.Context, id int64, newBalance string) error {
	tag, err := r.q.Exec(ctx, `UPDATE wallets SET fiat_balance = $1 WHERE id = $2`, newBalance, id)
	if err != nil {
		return fmt.Errorf("failed to update balance for wallet %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.New(xerrors.ErrNotFound, "wallet %d not found", id)
	}
	return nil
}

// CreditBalance atomically adds amount to a wallet's balance
func (r *WalletRepository) CreditBalance(ctx context.Context, id int64, amount string) error {
	tag, err := r.q.Exec(ctx, `UPDATE wallets SET fiat_balance = fiat_balance + $1 WHERE id = $2`, amount, id)
	if err != nil {
		return fmt.Errorf("failed to credit wallet %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.New(xerrors.ErrNotFound, "wallet %d not found", id)
	}
	return nil
}

// CountAll returns the total number of wallets
func (r *WalletRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM wallets`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count wallets: %w", err)
	}
	return count, nil
}
