// Package interfaces defines service contracts for Cartera
package interfaces

import (
	"context"

	"github.com/ncasas/cartera/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	MovementStore() MovementStore
	InstrumentStore() InstrumentStore
	AccountStore() AccountStore
	PriceStore() PriceStore

	// Lifecycle
	Close() error
}

// MovementStore persists the immutable movement ledger
type MovementStore interface {
	SaveMovement(ctx context.Context, mv *models.Movement) error
	GetMovement(ctx context.Context, id string) (*models.Movement, error)
	DeleteMovement(ctx context.Context, id string) error
	ListMovements(ctx context.Context) ([]models.Movement, error)
}

// InstrumentStore persists the instrument registry
type InstrumentStore interface {
	SaveInstrument(ctx context.Context, inst *models.Instrument) error
	GetInstrument(ctx context.Context, id string) (*models.Instrument, error)
	ListInstruments(ctx context.Context) ([]models.Instrument, error)
}

// AccountStore persists broker, bank and wallet accounts
type AccountStore interface {
	SaveAccount(ctx context.Context, acct *models.Account) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

// PriceStore persists the latest price per instrument
type PriceStore interface {
	SavePrice(ctx context.Context, instrumentID string, price float64) error
	GetPrice(ctx context.Context, instrumentID string) (float64, error)
	ListPrices(ctx context.Context) (map[string]float64, error)
}
