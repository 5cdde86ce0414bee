// Package sqlite provides the SQLite-backed StorageManager holding the
// movement ledger, instrument registry, accounts and latest prices.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/ncasas/cartera/internal/common"
	"github.com/ncasas/cartera/internal/interfaces"
)

// Manager implements interfaces.StorageManager over a single SQLite file.
type Manager struct {
	db     *sql.DB
	logger *common.Logger

	movements   *MovementStore
	instruments *InstrumentStore
	accounts    *AccountStore
	prices      *PriceStore
}

var _ interfaces.StorageManager = (*Manager)(nil)

// NewManager opens (or creates) the database at path and runs schema init.
func NewManager(logger *common.Logger, path string) (*Manager, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite performs best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Warn().Err(err).Msg("pragma busy_timeout failed")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logger.Warn().Err(err).Msg("pragma foreign_keys failed")
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info().Str("path", cleanPath).Msg("Storage manager initialized")

	return &Manager{
		db:          db,
		logger:      logger,
		movements:   &MovementStore{db: db},
		instruments: &InstrumentStore{db: db},
		accounts:    &AccountStore{db: db},
		prices:      &PriceStore{db: db},
	}, nil
}

func (m *Manager) MovementStore() interfaces.MovementStore {
	return m.movements
}

func (m *Manager) InstrumentStore() interfaces.InstrumentStore {
	return m.instruments
}

func (m *Manager) AccountStore() interfaces.AccountStore {
	return m.accounts
}

func (m *Manager) PriceStore() interfaces.PriceStore {
	return m.prices
}

// Close releases the database handle.
func (m *Manager) Close() error {
	return m.db.Close()
}
