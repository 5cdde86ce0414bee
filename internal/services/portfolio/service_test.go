package portfolio

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncasas/cartera/internal/common"
	"github.com/ncasas/cartera/internal/interfaces"
	"github.com/ncasas/cartera/internal/models"
)

// --- Mock storage ---

type mockMovementStore struct {
	movements map[string]*models.Movement
}

func (m *mockMovementStore) SaveMovement(_ context.Context, mv *models.Movement) error {
	m.movements[mv.ID] = mv
	return nil
}

func (m *mockMovementStore) GetMovement(_ context.Context, id string) (*models.Movement, error) {
	mv, ok := m.movements[id]
	if !ok {
		return nil, fmt.Errorf("movement %s: not found", id)
	}
	return mv, nil
}

func (m *mockMovementStore) DeleteMovement(_ context.Context, id string) error {
	delete(m.movements, id)
	return nil
}

func (m *mockMovementStore) ListMovements(_ context.Context) ([]models.Movement, error) {
	out := make([]models.Movement, 0, len(m.movements))
	for _, mv := range m.movements {
		out = append(out, *mv)
	}
	return out, nil
}

type mockInstrumentStore struct {
	instruments map[string]*models.Instrument
}

func (m *mockInstrumentStore) SaveInstrument(_ context.Context, inst *models.Instrument) error {
	m.instruments[inst.ID] = inst
	return nil
}

func (m *mockInstrumentStore) GetInstrument(_ context.Context, id string) (*models.Instrument, error) {
	inst, ok := m.instruments[id]
	if !ok {
		return nil, fmt.Errorf("instrument %s: not found", id)
	}
	return inst, nil
}

func (m *mockInstrumentStore) ListInstruments(_ context.Context) ([]models.Instrument, error) {
	out := make([]models.Instrument, 0, len(m.instruments))
	for _, inst := range m.instruments {
		out = append(out, *inst)
	}
	return out, nil
}

type mockPriceStore struct {
	prices map[string]float64
}

func (m *mockPriceStore) SavePrice(_ context.Context, id string, price float64) error {
	m.prices[id] = price
	return nil
}

func (m *mockPriceStore) GetPrice(_ context.Context, id string) (float64, error) {
	return m.prices[id], nil
}

func (m *mockPriceStore) ListPrices(_ context.Context) (map[string]float64, error) {
	return m.prices, nil
}

type mockAccountStore struct{}

func (m *mockAccountStore) SaveAccount(_ context.Context, _ *models.Account) error { return nil }
func (m *mockAccountStore) GetAccount(_ context.Context, _ string) (*models.Account, error) {
	return nil, fmt.Errorf("not found")
}
func (m *mockAccountStore) ListAccounts(_ context.Context) ([]models.Account, error) {
	return nil, nil
}

// --- Mock storage manager ---

type mockStorageManager struct {
	movements   *mockMovementStore
	instruments *mockInstrumentStore
	prices      *mockPriceStore
}

func newMockStorageManager() *mockStorageManager {
	return &mockStorageManager{
		movements:   &mockMovementStore{movements: make(map[string]*models.Movement)},
		instruments: &mockInstrumentStore{instruments: make(map[string]*models.Instrument)},
		prices:      &mockPriceStore{prices: make(map[string]float64)},
	}
}

func (m *mockStorageManager) MovementStore() interfaces.MovementStore     { return m.movements }
func (m *mockStorageManager) InstrumentStore() interfaces.InstrumentStore { return m.instruments }
func (m *mockStorageManager) AccountStore() interfaces.AccountStore       { return &mockAccountStore{} }
func (m *mockStorageManager) PriceStore() interfaces.PriceStore           { return m.prices }
func (m *mockStorageManager) Close() error                                { return nil }

// --- Mock FX service ---

type mockFXService struct {
	rates models.FXRates
}

func (m *mockFXService) Rates(_ context.Context) (models.FXRates, error)   { return m.rates, nil }
func (m *mockFXService) Refresh(_ context.Context) (models.FXRates, error) { return m.rates, nil }

// --- Fixtures ---

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T, storage *mockStorageManager) *Service {
	t.Helper()
	fx := &mockFXService{rates: models.FXRates{Oficial: 1000, MEP: 1200, CCL: 1250, Cripto: 1300}}
	svc, err := NewService(storage, fx, common.PortfolioConfig{
		TopPositions:    5,
		TrackCash:       true,
		CostBasisMethod: "average",
	}, common.NewSilentLogger())
	require.NoError(t, err)
	return svc
}

func seedPosition(t *testing.T, storage *mockStorageManager) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, storage.instruments.SaveInstrument(ctx, &models.Instrument{
		ID: "aapl", Symbol: "AAPL", Category: models.CategoryCEDEAR, NativeCurrency: models.CurrencyARS,
	}))
	require.NoError(t, storage.prices.SavePrice(ctx, "aapl", 15000))
	for _, mv := range []*models.Movement{
		{
			ID: "mv_1", Datetime: day(1), Type: models.MovementDeposit,
			AccountID: "broker", NetAmount: 200000, TradeCurrency: models.CurrencyARS,
		},
		{
			ID: "mv_2", Datetime: day(2), Type: models.MovementBuy,
			InstrumentID: "aapl", AccountID: "broker",
			Quantity: 10, UnitPrice: 12000, TradeCurrency: models.CurrencyARS,
			FX: models.FXInfo{Rate: 1200},
		},
	} {
		require.NoError(t, storage.movements.SaveMovement(ctx, mv))
	}
}

// --- Tests ---

func TestNewServiceRejectsUnknownMethod(t *testing.T) {
	fx := &mockFXService{}
	_, err := NewService(newMockStorageManager(), fx, common.PortfolioConfig{
		CostBasisMethod: "hifo",
	}, common.NewSilentLogger())
	assert.Error(t, err)
}

func TestHoldingsComputesAndValuates(t *testing.T) {
	storage := newMockStorageManager()
	seedPosition(t, storage)
	svc := newTestService(t, storage)

	holdings, err := svc.Holdings(context.Background())
	require.NoError(t, err)
	require.Len(t, holdings, 1)

	h := holdings[0]
	assert.Equal(t, "AAPL", h.Symbol)
	assert.InDelta(t, 10, h.Quantity, 1e-9)
	assert.InDelta(t, 120000, h.CostBasisARS, 1e-9)
	assert.InDelta(t, 100, h.CostBasisUSD, 1e-9)
	assert.InDelta(t, 150000, h.ValueARS, 1e-9)
	assert.InDelta(t, 125, h.ValueUSD, 1e-9)
	assert.Equal(t, models.RateMEP, h.FXUsed)
}

func TestHoldingSinglePair(t *testing.T) {
	storage := newMockStorageManager()
	seedPosition(t, storage)
	svc := newTestService(t, storage)

	h, err := svc.Holding(context.Background(), "aapl", "broker")
	require.NoError(t, err)
	assert.InDelta(t, 10, h.Quantity, 1e-9)

	_, err = svc.Holding(context.Background(), "", "broker")
	assert.Error(t, err)
}

func TestTotalsIncludeCashLiquidity(t *testing.T) {
	storage := newMockStorageManager()
	seedPosition(t, storage)
	svc := newTestService(t, storage)

	totals, err := svc.Totals(context.Background())
	require.NoError(t, err)

	// Position 150000 plus cash 200000-120000=80000.
	assert.InDelta(t, 230000, totals.TotalARS, 1e-6)
	assert.InDelta(t, 80000, totals.LiquidityARS, 1e-6)
	assert.NotEmpty(t, totals.Categories)
	assert.False(t, totals.GeneratedAt.IsZero())
}

func TestCashLedgerPassesThrough(t *testing.T) {
	storage := newMockStorageManager()
	seedPosition(t, storage)
	svc := newTestService(t, storage)

	cash, err := svc.CashLedger(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 80000, cash.Balance("broker", models.CurrencyARS), 1e-6)
}

func TestRealizedPnLAfterSale(t *testing.T) {
	storage := newMockStorageManager()
	seedPosition(t, storage)
	require.NoError(t, storage.movements.SaveMovement(context.Background(), &models.Movement{
		ID: "mv_3", Datetime: day(3), Type: models.MovementSell,
		InstrumentID: "aapl", AccountID: "broker",
		Quantity: 5, UnitPrice: 15000, TradeCurrency: models.CurrencyARS,
	}))
	svc := newTestService(t, storage)

	pnl, err := svc.RealizedPnL(context.Background())
	require.NoError(t, err)
	// (15000-12000)*5
	assert.InDelta(t, 15000, pnl.Total.PnlARS, 1e-6)
}

func TestSimulateSaleDefaultsToPPP(t *testing.T) {
	storage := newMockStorageManager()
	seedPosition(t, storage)
	svc := newTestService(t, storage)

	alloc, err := svc.SimulateSale(context.Background(), interfaces.SaleRequest{
		InstrumentID: "aapl",
		AccountID:    "broker",
		Quantity:     5,
		Price:        15000,
	})
	require.NoError(t, err)
	assert.InDelta(t, 5, alloc.TotalQtySold, 1e-9)
	assert.InDelta(t, 60000, alloc.TotalCost, 1e-9)
	assert.InDelta(t, 15000, alloc.RealizedPnl, 1e-9)
}

func TestSimulateSaleValidatesInput(t *testing.T) {
	storage := newMockStorageManager()
	svc := newTestService(t, storage)

	_, err := svc.SimulateSale(context.Background(), interfaces.SaleRequest{})
	assert.Error(t, err)

	_, err = svc.SimulateSale(context.Background(), interfaces.SaleRequest{
		InstrumentID: "aapl", Method: "BOGUS",
	})
	assert.Error(t, err)
}
