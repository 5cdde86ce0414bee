// Package interfaces defines service contracts for Cartera
package interfaces

import (
	"context"

	"github.com/ncasas/cartera/internal/models"
)

// PortfolioService computes derived portfolio state from the movement ledger
type PortfolioService interface {
	// Holdings returns per-instrument aggregated positions with valuations
	Holdings(ctx context.Context) ([]models.HoldingAggregated, error)

	// Holding returns the position for one (instrument, account) pair
	Holding(ctx context.Context, instrumentID, accountID string) (*models.Holding, error)

	// Lots returns the open acquisition lots for one (instrument, account) pair
	Lots(ctx context.Context, instrumentID, accountID string) ([]models.Lot, error)

	// Totals returns the portfolio-wide rollup with category breakdown
	Totals(ctx context.Context) (*models.PortfolioTotals, error)

	// CashLedger returns per-account cash balances with inferred openings
	CashLedger(ctx context.Context) (*models.CashLedgerResult, error)

	// RealizedPnL returns realized gains grouped by instrument and account
	RealizedPnL(ctx context.Context) (*models.RealizedPnLResult, error)

	// SimulateSale previews a disposal without mutating any state
	SimulateSale(ctx context.Context, req SaleRequest) (*models.SaleAllocation, error)
}

// SaleRequest describes a sale preview over an instrument's open lots.
type SaleRequest struct {
	InstrumentID string               `json:"instrument_id"`
	AccountID    string               `json:"account_id"`
	Quantity     float64              `json:"quantity"`
	Price        float64              `json:"price"`
	Method       models.CostingMethod `json:"method"`
	Currency     string               `json:"currency,omitempty"`
	Manual       []models.ManualAllocation `json:"manual,omitempty"`
}

// LedgerService manages the movement ledger and reference data
type LedgerService interface {
	// AddMovement validates and stores a new movement
	AddMovement(ctx context.Context, mv *models.Movement) error

	// UpdateMovement replaces an existing movement
	UpdateMovement(ctx context.Context, mv *models.Movement) error

	// DeleteMovement removes a movement by ID
	DeleteMovement(ctx context.Context, id string) error

	// GetMovement retrieves a movement by ID
	GetMovement(ctx context.Context, id string) (*models.Movement, error)

	// ListMovements returns movements filtered and sorted chronologically
	ListMovements(ctx context.Context, filter MovementFilter) ([]models.Movement, error)

	// SaveInstrument creates or updates an instrument
	SaveInstrument(ctx context.Context, inst *models.Instrument) error

	// ListInstruments returns all known instruments
	ListInstruments(ctx context.Context) ([]models.Instrument, error)

	// SaveAccount creates or updates an account
	SaveAccount(ctx context.Context, acct *models.Account) error

	// ListAccounts returns all known accounts
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// SavePrice stores the latest price for an instrument
	SavePrice(ctx context.Context, instrumentID string, price float64) error

	// Prices returns the latest price per instrument
	Prices(ctx context.Context) (map[string]float64, error)
}

// MovementFilter narrows a movement listing.
type MovementFilter struct {
	InstrumentID string
	AccountID    string
	Type         models.MovementType
}

// FXService provides the current ARS/USD quote board
type FXService interface {
	// Rates returns the current quote snapshot, serving cached or stale
	// data when the upstream source is unavailable
	Rates(ctx context.Context) (models.FXRates, error)

	// Refresh forces a fetch from the upstream source
	Refresh(ctx context.Context) (models.FXRates, error)
}
