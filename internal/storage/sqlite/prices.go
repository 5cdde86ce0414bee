package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PriceStore persists the latest price per instrument.
type PriceStore struct {
	db *sql.DB
}

// SavePrice inserts or replaces the latest price for an instrument.
func (s *PriceStore) SavePrice(ctx context.Context, instrumentID string, price float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO prices (instrument_id, price, updated_at) VALUES (?, ?, ?)`,
		instrumentID, price, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save price for %s: %w", instrumentID, err)
	}
	return nil
}

// GetPrice retrieves the latest price for an instrument.
func (s *PriceStore) GetPrice(ctx context.Context, instrumentID string) (float64, error) {
	var price float64
	err := s.db.QueryRowContext(ctx,
		`SELECT price FROM prices WHERE instrument_id = ?`, instrumentID).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("price for %s: %w", instrumentID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get price for %s: %w", instrumentID, err)
	}
	return price, nil
}

// ListPrices returns the latest price per instrument.
func (s *PriceStore) ListPrices(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT instrument_id, price FROM prices`)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var id string
		var price float64
		if err := rows.Scan(&id, &price); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		out[id] = price
	}
	return out, rows.Err()
}
