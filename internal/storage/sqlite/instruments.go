package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ncasas/cartera/internal/models"
)

// InstrumentStore persists the instrument registry.
type InstrumentStore struct {
	db *sql.DB
}

// SaveInstrument inserts or replaces an instrument.
func (s *InstrumentStore) SaveInstrument(ctx context.Context, inst *models.Instrument) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO instruments (id, symbol, name, category, native_currency)
		VALUES (?, ?, ?, ?, ?)`,
		inst.ID, inst.Symbol, inst.Name, string(inst.Category), inst.NativeCurrency)
	if err != nil {
		return fmt.Errorf("failed to save instrument %s: %w", inst.ID, err)
	}
	return nil
}

// GetInstrument retrieves one instrument by ID.
func (s *InstrumentStore) GetInstrument(ctx context.Context, id string) (*models.Instrument, error) {
	var inst models.Instrument
	err := s.db.QueryRowContext(ctx,
		`SELECT id, symbol, name, category, native_currency FROM instruments WHERE id = ?`, id).
		Scan(&inst.ID, &inst.Symbol, &inst.Name, &inst.Category, &inst.NativeCurrency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("instrument %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get instrument %s: %w", id, err)
	}
	return &inst, nil
}

// ListInstruments returns all instruments ordered by symbol.
func (s *InstrumentStore) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, symbol, name, category, native_currency FROM instruments ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}
	defer rows.Close()

	var out []models.Instrument
	for rows.Next() {
		var inst models.Instrument
		if err := rows.Scan(&inst.ID, &inst.Symbol, &inst.Name, &inst.Category, &inst.NativeCurrency); err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}
