package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"astraldraw/domain/entities"
	"astraldraw/domain/xerrors"
)

const ticketColumns = `id, uuid, serial_number, wallet_id, draw_id, combination_enc,
	COALESCE(rarity, ''), COALESCE(glyphs, ''), COALESCE(token_ref, ''), created_at`

// TicketRepository implements ticket data access
type TicketRepository struct {
	q Queryable
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(q Queryable) *TicketRepository {
	return &TicketRepository{q: q}
}

func scanTicket(row rowScanner) (*entities.Ticket, error) {
	var ticket entities.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.UUID,
		&ticket.SerialNumber,
		&ticket.WalletID,
		&ticket.DrawID,
		&ticket.CombinationEnc,
		&ticket.Rarity,
		&ticket.Glyphs,
		&ticket.TokenRef,
		&ticket.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepository) queryTickets(ctx context.Context, query string, args ...any) ([]*entities.Ticket, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*entities.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}

// Create persists a new ticket. Unique violations on the serial or the
// (wallet, draw) pair pass through untranslated; the service layer maps
// them to conflicts.
func (r *TicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	query := `
		INSERT INTO tickets (uuid, serial_number, wallet_id, draw_id, combination_enc, rarity, glyphs, token_ref)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''))
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		ticket.UUID,
		ticket.SerialNumber,
		ticket.WalletID,
		ticket.DrawID,
		ticket.CombinationEnc,
		ticket.Rarity,
		ticket.Glyphs,
		ticket.TokenRef,
	).Scan(&ticket.ID, &ticket.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a ticket by its ID
func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id = $1`, ticketColumns)

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket by ID %d: %w", id, err)
	}

	return ticket, nil
}

// GetBySerial retrieves a ticket by its serial number
func (r *TicketRepository) GetBySerial(ctx context.Context, serial string) (*entities.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE serial_number = $1`, ticketColumns)

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, serial))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket by serial %s: %w", serial, err)
	}

	return ticket, nil
}

// ListByDraw returns all tickets of a draw, newest first. The id tiebreak
// keeps the order deterministic for tickets created in the same instant;
// downstream match ordering depends on it.
func (r *TicketRepository) ListByDraw(ctx context.Context, drawID int64) ([]*entities.Ticket, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tickets
		WHERE draw_id = $1
		ORDER BY created_at DESC, id DESC
	`, ticketColumns)

	tickets, err := r.queryTickets(ctx, query, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets for draw %d: %w", drawID, err)
	}
	return tickets, nil
}

// ListByWallet returns a wallet's tickets across draws, newest first
func (r *TicketRepository) ListByWallet(ctx context.Context, walletID int64, limit int) ([]*entities.Ticket, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tickets
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, ticketColumns)

	tickets, err := r.queryTickets(ctx, query, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets for wallet %d: %w", walletID, err)
	}
	return tickets, nil
}

// GetByEncryptedCombination returns the tickets of a draw whose stored
// ciphertext equals combinationEnc, newest first. The deterministic codec
// is what makes this equality query equivalent to a plaintext match.
func (r *TicketRepository) GetByEncryptedCombination(ctx context.Context, drawID int64, combinationEnc string) ([]*entities.Ticket, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tickets
		WHERE draw_id = $1 AND combination_enc = $2
		ORDER BY created_at DESC, id DESC
	`, ticketColumns)

	tickets, err := r.queryTickets(ctx, query, drawID, combinationEnc)
	if err != nil {
		return nil, fmt.Errorf("failed to query exact matches for draw %d: %w", drawID, err)
	}
	return tickets, nil
}

// CountByDraw returns the number of tickets in a draw
func (r *TicketRepository) CountByDraw(ctx context.Context, drawID int64) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE draw_id = $1`, drawID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets for draw %d: %w", drawID, err)
	}
	return count, nil
}

// SetTokenRef records the external token reference for a minted ticket
func (r *TicketRepository) SetTokenRef(ctx context.Context, ticketID int64, tokenRef string) error {
	tag, err := r.q.Exec(ctx, `UPDATE tickets SET token_ref = $1 WHERE id = $2`, tokenRef, ticketID)
	if err != nil {
		return fmt.Errorf("failed to set token ref for ticket %d: %w", ticketID, err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.New(xerrors.ErrNotFound, "ticket %d not found", ticketID)
	}
	return nil
}
