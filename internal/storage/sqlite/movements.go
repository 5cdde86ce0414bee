package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ncasas/cartera/internal/models"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

// MovementStore persists the movement ledger in a flat movements table.
type MovementStore struct {
	db *sql.DB
}

const movementColumns = `id, datetime, type, instrument_id, account_id,
	quantity, unit_price, trade_currency, gross_amount, net_amount,
	total_ars, total_usd, fee_amount, fee_currency, fx_rate, fx_type,
	fx_at_trade, meta_settlement_currency, meta_transfer_group,
	created_at, updated_at`

// SaveMovement inserts or replaces a movement.
func (s *MovementStore) SaveMovement(ctx context.Context, mv *models.Movement) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO movements (`+movementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mv.ID,
		mv.Datetime.UTC().Format(time.RFC3339Nano),
		string(mv.Type),
		mv.InstrumentID,
		mv.AccountID,
		mv.Quantity,
		mv.UnitPrice,
		mv.TradeCurrency,
		mv.GrossAmount,
		mv.NetAmount,
		mv.TotalARS,
		mv.TotalUSD,
		mv.Fee.Amount,
		mv.Fee.Currency,
		mv.FX.Rate,
		mv.FX.Type,
		mv.FXAtTrade,
		mv.Meta.SettlementCurrency,
		mv.Meta.TransferGroup,
		formatTime(mv.CreatedAt),
		formatTime(mv.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save movement %s: %w", mv.ID, err)
	}
	return nil
}

// GetMovement retrieves one movement by ID.
func (s *MovementStore) GetMovement(ctx context.Context, id string) (*models.Movement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+movementColumns+` FROM movements WHERE id = ?`, id)
	mv, err := scanMovement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("movement %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movement %s: %w", id, err)
	}
	return mv, nil
}

// DeleteMovement removes a movement by ID.
func (s *MovementStore) DeleteMovement(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM movements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete movement %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("movement %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListMovements returns the whole ledger ordered chronologically.
func (s *MovementStore) ListMovements(ctx context.Context) ([]models.Movement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movementColumns+` FROM movements ORDER BY datetime, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	var out []models.Movement
	for rows.Next() {
		mv, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		out = append(out, *mv)
	}
	return out, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanMovement(sc scanner) (*models.Movement, error) {
	var mv models.Movement
	var datetime, createdAt, updatedAt string
	err := sc.Scan(
		&mv.ID,
		&datetime,
		&mv.Type,
		&mv.InstrumentID,
		&mv.AccountID,
		&mv.Quantity,
		&mv.UnitPrice,
		&mv.TradeCurrency,
		&mv.GrossAmount,
		&mv.NetAmount,
		&mv.TotalARS,
		&mv.TotalUSD,
		&mv.Fee.Amount,
		&mv.Fee.Currency,
		&mv.FX.Rate,
		&mv.FX.Type,
		&mv.FXAtTrade,
		&mv.Meta.SettlementCurrency,
		&mv.Meta.TransferGroup,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	mv.Datetime = parseTime(datetime)
	mv.CreatedAt = parseTime(createdAt)
	mv.UpdatedAt = parseTime(updatedAt)
	return &mv, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
