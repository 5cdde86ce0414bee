// Package portfolio computes derived portfolio state from the movement ledger
package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ncasas/cartera/internal/common"
	"github.com/ncasas/cartera/internal/engine"
	"github.com/ncasas/cartera/internal/interfaces"
	"github.com/ncasas/cartera/internal/models"
)

// Compile-time interface check
var _ interfaces.PortfolioService = (*Service)(nil)

// Service implements PortfolioService. All derived state is recomputed in
// full from the movement stream on every call.
type Service struct {
	storage interfaces.StorageManager
	fx      interfaces.FXService
	logger  *common.Logger

	method       engine.CostBasisMethod
	topPositions int
	trackCash    bool
}

// NewService creates a new portfolio service
func NewService(storage interfaces.StorageManager, fx interfaces.FXService, cfg common.PortfolioConfig, logger *common.Logger) (*Service, error) {
	method, err := engine.ParseCostBasisMethod(cfg.CostBasisMethod)
	if err != nil {
		return nil, err
	}
	return &Service{
		storage:      storage,
		fx:           fx,
		logger:       logger,
		method:       method,
		topPositions: cfg.TopPositions,
		trackCash:    cfg.TrackCash,
	}, nil
}

// inputs bundles everything a recomputation needs in one fetch.
type inputs struct {
	movements   []models.Movement
	instruments map[string]models.Instrument
	prices      map[string]float64
	rates       models.FXRates
}

func (s *Service) load(ctx context.Context) (*inputs, error) {
	movs, err := s.storage.MovementStore().ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}
	instList, err := s.storage.InstrumentStore().ListInstruments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load instruments: %w", err)
	}
	instruments := make(map[string]models.Instrument, len(instList))
	for _, inst := range instList {
		instruments[inst.ID] = inst
	}
	prices, err := s.storage.PriceStore().ListPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}
	rates, err := s.fx.Rates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fx rates: %w", err)
	}
	return &inputs{
		movements:   movs,
		instruments: instruments,
		prices:      prices,
		rates:       rates,
	}, nil
}

// pairKey identifies one (instrument, account) position.
type pairKey struct {
	instrumentID string
	accountID    string
}

// positionPairs extracts the distinct (instrument, account) pairs that have
// position movements, in first-seen order of the sorted stream.
func positionPairs(movs []models.Movement) []pairKey {
	seen := make(map[pairKey]bool)
	var pairs []pairKey
	for _, mv := range movs {
		if mv.InstrumentID == "" {
			continue
		}
		k := pairKey{mv.InstrumentID, mv.AccountID}
		if !seen[k] {
			seen[k] = true
			pairs = append(pairs, k)
		}
	}
	return pairs
}

func (s *Service) computeHoldings(in *inputs) []models.Holding {
	var holdings []models.Holding
	for _, k := range positionPairs(in.movements) {
		h := engine.ComputeHolding(in.movements, k.instrumentID, k.accountID, s.method)
		if h.Quantity > 0 {
			holdings = append(holdings, h)
		}
	}
	return holdings
}

// Holdings returns per-instrument aggregated positions with valuations.
func (s *Service) Holdings(ctx context.Context) ([]models.HoldingAggregated, error) {
	in, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return engine.AggregateHoldings(s.computeHoldings(in), in.instruments, in.prices, in.rates), nil
}

// Holding returns the position for one (instrument, account) pair.
func (s *Service) Holding(ctx context.Context, instrumentID, accountID string) (*models.Holding, error) {
	if strings.TrimSpace(instrumentID) == "" {
		return nil, fmt.Errorf("instrument id is required")
	}
	movs, err := s.storage.MovementStore().ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}
	h := engine.ComputeHolding(movs, instrumentID, accountID, s.method)
	return &h, nil
}

// Lots returns the open acquisition lots for one (instrument, account) pair.
func (s *Service) Lots(ctx context.Context, instrumentID, accountID string) ([]models.Lot, error) {
	if strings.TrimSpace(instrumentID) == "" {
		return nil, fmt.Errorf("instrument id is required")
	}
	movs, err := s.storage.MovementStore().ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}
	return engine.BuildLots(movs, instrumentID, accountID), nil
}

// Totals returns the portfolio-wide rollup with category breakdown.
func (s *Service) Totals(ctx context.Context) (*models.PortfolioTotals, error) {
	in, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	aggregated := engine.AggregateHoldings(s.computeHoldings(in), in.instruments, in.prices, in.rates)
	cash := engine.ComputeCashLedger(in.movements)
	totals := engine.AggregateTotals(aggregated, cash, in.rates, engine.TotalsConfig{
		TopPositions: s.topPositions,
		IncludeCash:  s.trackCash,
		Method:       s.method,
	})
	totals.GeneratedAt = time.Now().UTC()

	s.logger.Debug().
		Float64("total_ars", totals.TotalARS).
		Float64("total_usd", totals.TotalUSD).
		Int("positions", len(aggregated)).
		Msg("Portfolio totals computed")

	return &totals, nil
}

// CashLedger returns per-account cash balances with inferred openings.
func (s *Service) CashLedger(ctx context.Context) (*models.CashLedgerResult, error) {
	movs, err := s.storage.MovementStore().ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}
	result := engine.ComputeCashLedger(movs)
	return &result, nil
}

// RealizedPnL returns realized gains grouped by instrument and account.
func (s *Service) RealizedPnL(ctx context.Context) (*models.RealizedPnLResult, error) {
	movs, err := s.storage.MovementStore().ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}
	result := engine.ComputeRealizedPnL(movs)
	return &result, nil
}

// SimulateSale previews a disposal without mutating any state.
func (s *Service) SimulateSale(ctx context.Context, req interfaces.SaleRequest) (*models.SaleAllocation, error) {
	if strings.TrimSpace(req.InstrumentID) == "" {
		return nil, fmt.Errorf("instrument id is required")
	}
	if req.Method == "" {
		req.Method = models.CostingPPP
	}
	if !models.ValidCostingMethod(req.Method) {
		return nil, fmt.Errorf("invalid costing method %q", req.Method)
	}

	lots, err := s.Lots(ctx, req.InstrumentID, req.AccountID)
	if err != nil {
		return nil, err
	}

	allocation := engine.SimulateSale(engine.SaleSimulation{
		Lots:     lots,
		Quantity: req.Quantity,
		Price:    req.Price,
		Method:   req.Method,
		Currency: req.Currency,
		Manual:   req.Manual,
	})
	return &allocation, nil
}
