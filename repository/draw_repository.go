package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"astraldraw/domain/entities"
	"astraldraw/domain/xerrors"
)

const drawColumns = `id, uuid, title, prize_pool::text, winning_combination_enc, status,
	draw_datetime, ticket_counter, total_tickets_sold, total_prize_distributed::text,
	winning_ticket_serial, winner_wallet_id, created_at, updated_at`

// DrawRepository implements draw data access
type DrawRepository struct {
	q Queryable
}

// NewDrawRepository creates a new draw repository
func NewDrawRepository(q Queryable) *DrawRepository {
	return &DrawRepository{q: q}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraw(row rowScanner) (*entities.Draw, error) {
	var draw entities.Draw
	var prizePool, distributed string
	var status string

	err := row.Scan(
		&draw.ID,
		&draw.UUID,
		&draw.Title,
		&prizePool,
		&draw.WinningCombinationEnc,
		&status,
		&draw.DrawDatetime,
		&draw.TicketCounter,
		&draw.TotalTicketsSold,
		&distributed,
		&draw.WinningTicketSerial,
		&draw.WinnerWalletID,
		&draw.CreatedAt,
		&draw.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	draw.Status = entities.DrawStatus(status)
	if draw.PrizePool, err = decimal.NewFromString(prizePool); err != nil {
		return nil, fmt.Errorf("failed to parse prize pool: %w", err)
	}
	if draw.TotalPrizeDistributed, err = decimal.NewFromString(distributed); err != nil {
		return nil, fmt.Errorf("failed to parse distributed total: %w", err)
	}
	return &draw, nil
}

// Create persists a new draw
func (r *DrawRepository) Create(ctx context.Context, draw *entities.Draw) error {
	query := `
		INSERT INTO draws (uuid, title, prize_pool, winning_combination_enc, status, draw_datetime)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, uuid, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		draw.Title,
		draw.PrizePool.String(),
		draw.WinningCombinationEnc,
		string(draw.Status),
		draw.DrawDatetime,
	).Scan(&draw.ID, &draw.UUID, &draw.CreatedAt, &draw.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create draw: %w", err)
	}

	return nil
}

// GetByID retrieves a draw by its ID
func (r *DrawRepository) GetByID(ctx context.Context, id int64) (*entities.Draw, error) {
	query := fmt.Sprintf(`SELECT %s FROM draws WHERE id = $1`, drawColumns)

	draw, err := scanDraw(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw by ID %d: %w", id, err)
	}

	return draw, nil
}

// GetByIDForUpdate retrieves a draw by ID with a row lock for update
func (r *DrawRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Draw, error) {
	query := fmt.Sprintf(`SELECT %s FROM draws WHERE id = $1 FOR UPDATE`, drawColumns)

	draw, err := scanDraw(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock draw %d: %w", id, err)
	}

	return draw, nil
}

// ListByStatus returns draws in the given statuses ordered by draw time
func (r *DrawRepository) ListByStatus(ctx context.Context, statuses ...entities.DrawStatus) ([]*entities.Draw, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, s := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = string(s)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM draws
		WHERE status IN (%s)
		ORDER BY draw_datetime ASC
	`, drawColumns, strings.Join(placeholders, ", "))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list draws by status: %w", err)
	}
	defer rows.Close()

	var draws []*entities.Draw
	for rows.Next() {
		draw, err := scanDraw(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		draws = append(draws, draw)
	}

	return draws, rows.Err()
}

// GetNextPending returns the upcoming or active draw with the earliest
// draw time, or nil when none exist
func (r *DrawRepository) GetNextPending(ctx context.Context) (*entities.Draw, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM draws
		WHERE status IN ('UPCOMING', 'ACTIVE')
		ORDER BY draw_datetime ASC
		LIMIT 1
	`, drawColumns)

	draw, err := scanDraw(r.q.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next pending draw: %w", err)
	}

	return draw, nil
}

// NextTicketSequence atomically advances the draw's ticket counter.
// The single UPDATE ... RETURNING means two concurrent submissions can
// never observe the same sequence value.
func (r *DrawRepository) NextTicketSequence(ctx context.Context, drawID int64) (int64, error) {
	query := `
		UPDATE draws
		SET ticket_counter = ticket_counter + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING ticket_counter
	`

	var sequence int64
	err := r.q.QueryRow(ctx, query, drawID).Scan(&sequence)
	if err == pgx.ErrNoRows {
		return 0, xerrors.New(xerrors.ErrNotFound, "draw %d not found", drawID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to advance ticket counter for draw %d: %w", drawID, err)
	}

	return sequence, nil
}

// TransitionStatus performs a conditional status update. The WHERE clause
// on the current status is what guards against concurrent transitions.
func (r *DrawRepository) TransitionStatus(ctx context.Context, drawID int64, from, to entities.DrawStatus) error {
	query := `
		UPDATE draws
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	tag, err := r.q.Exec(ctx, query, string(to), drawID, string(from))
	if err != nil {
		return fmt.Errorf("failed to transition draw %d: %w", drawID, err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.GetByID(ctx, drawID)
		if err != nil {
			return err
		}
		if existing == nil {
			return xerrors.New(xerrors.ErrNotFound, "draw %d not found", drawID)
		}
		return xerrors.New(xerrors.ErrState, "draw %d is %s, expected %s", drawID, existing.Status, from)
	}

	return nil
}

// RecordResult stores the processing outcome and moves the draw to ENDED.
// Conditional on ACTIVE so a concurrent processor that lost the row-lock
// race cannot end the draw twice.
func (r *DrawRepository) RecordResult(ctx context.Context, draw *entities.Draw) error {
	query := `
		UPDATE draws
		SET status = 'ENDED',
		    total_prize_distributed = $1,
		    winning_ticket_serial = $2,
		    winner_wallet_id = $3,
		    updated_at = NOW()
		WHERE id = $4 AND status = 'ACTIVE'
	`

	tag, err := r.q.Exec(ctx, query,
		draw.TotalPrizeDistributed.String(),
		draw.WinningTicketSerial,
		draw.WinnerWalletID,
		draw.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to record result for draw %d: %w", draw.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.New(xerrors.ErrState, "draw %d was not active when recording result", draw.ID)
	}

	return nil
}

// IncrementTicketsSold bumps the denormalized sold counter
func (r *DrawRepository) IncrementTicketsSold(ctx context.Context, drawID int64) error {
	query := `
		UPDATE draws
		SET total_tickets_sold = total_tickets_sold + 1, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, drawID)
	if err != nil {
		return fmt.Errorf("failed to increment tickets sold for draw %d: %w", drawID, err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.New(xerrors.ErrNotFound, "draw %d not found", drawID)
	}

	return nil
}

// AggregateStats returns platform-wide draw and ticket aggregates.
// TotalPlayers is the wallet repository's concern and stays zero here.
func (r *DrawRepository) AggregateStats(ctx context.Context) (*entities.PlatformStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'ACTIVE'),
			COALESCE(SUM(prize_pool), 0)::text,
			COALESCE((SELECT COUNT(*) FROM tickets), 0)
		FROM draws
	`

	var stats entities.PlatformStats
	var prizeSum string
	err := r.q.QueryRow(ctx, query).Scan(
		&stats.TotalDraws,
		&stats.ActiveDraws,
		&prizeSum,
		&stats.TotalTicketsMinted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate platform stats: %w", err)
	}

	if stats.TotalPrizePool, err = decimal.NewFromString(prizeSum); err != nil {
		return nil, fmt.Errorf("failed to parse prize pool sum: %w", err)
	}

	return &stats, nil
}
