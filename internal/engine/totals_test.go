package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncasas/cartera/internal/models"
)

// testInstruments is the instrument registry used by aggregation tests.
var testInstruments = map[string]models.Instrument{
	"btc": {ID: "btc", Symbol: "BTC", Category: models.CategoryCrypto, NativeCurrency: models.CurrencyUSD},
	"aapl": {ID: "aapl", Symbol: "AAPL", Category: models.CategoryCEDEAR, NativeCurrency: models.CurrencyARS},
	"fci": {ID: "fci", Symbol: "FCI-MM", Category: models.CategoryFCI, NativeCurrency: models.CurrencyARS},
}

func TestAggregateHoldingsSumsAcrossAccounts(t *testing.T) {
	holdings := []models.Holding{
		{InstrumentID: "btc", AccountID: "acct-1", Quantity: 0.5, CostBasisARS: 100000, CostBasisUSD: 100},
		{InstrumentID: "btc", AccountID: "acct-2", Quantity: 0.5, CostBasisARS: 120000, CostBasisUSD: 110},
	}
	prices := map[string]float64{"btc": 60000}

	out := AggregateHoldings(holdings, testInstruments, prices, testFX)
	require.Len(t, out, 1)

	agg := out[0]
	assert.InDelta(t, 1, agg.Quantity, 1e-9)
	assert.InDelta(t, 220000, agg.CostBasisARS, 1e-9)
	assert.InDelta(t, 210, agg.CostBasisUSD, 1e-9)
	assert.Equal(t, []string{"acct-1", "acct-2"}, agg.Accounts)
	assert.InDelta(t, 60000, agg.ValueUSD, 1e-9)
	assert.InDelta(t, 60000*1300, agg.ValueARS, 1e-9)
	assert.Equal(t, models.RuleCryptoUSD, agg.RuleApplied)
}

func TestAggregateHoldingsSkipsUnknownInstruments(t *testing.T) {
	holdings := []models.Holding{
		{InstrumentID: "ghost", AccountID: "acct-1", Quantity: 5},
		{InstrumentID: "aapl", AccountID: "acct-1", Quantity: 10, CostBasisARS: 100000},
	}
	prices := map[string]float64{"aapl": 15000}

	out := AggregateHoldings(holdings, testInstruments, prices, testFX)
	require.Len(t, out, 1)
	assert.Equal(t, "aapl", out[0].InstrumentID)
}

func TestAggregateHoldingsSortsByValueDesc(t *testing.T) {
	holdings := []models.Holding{
		{InstrumentID: "aapl", AccountID: "acct-1", Quantity: 1},
		{InstrumentID: "btc", AccountID: "acct-1", Quantity: 1},
	}
	prices := map[string]float64{"aapl": 15000, "btc": 60000}

	out := AggregateHoldings(holdings, testInstruments, prices, testFX)
	require.Len(t, out, 2)

	assert.Equal(t, "BTC", out[0].Symbol)
	assert.Equal(t, "AAPL", out[1].Symbol)
}

func TestAggregateTotalsConvertsPerInstrument(t *testing.T) {
	holdings := []models.Holding{
		{InstrumentID: "btc", AccountID: "acct-1", Quantity: 1, CostBasisARS: 50000000, CostBasisUSD: 40000},
		{InstrumentID: "aapl", AccountID: "acct-1", Quantity: 10, CostBasisARS: 100000, CostBasisUSD: 100},
	}
	prices := map[string]float64{"btc": 60000, "aapl": 15000}
	agg := AggregateHoldings(holdings, testInstruments, prices, testFX)

	totals := AggregateTotals(agg, models.CashLedgerResult{}, testFX, TotalsConfig{})

	// BTC converts via CRIPTO, AAPL via MEP. Summing native pools under one
	// rate would give a different number.
	wantARS := 60000.0*1300 + 150000
	wantUSD := 60000.0 + 150000.0/1200
	assert.InDelta(t, wantARS, totals.TotalARS, 1e-6)
	assert.InDelta(t, wantUSD, totals.TotalUSD, 1e-6)
	assert.InDelta(t, 50100000, totals.InvestedARS, 1e-6)
	assert.InDelta(t, 40100, totals.InvestedUSD, 1e-6)
}

func TestAggregateTotalsIncludesCashAsLiquidity(t *testing.T) {
	cash := models.CashLedgerResult{
		Balances: map[string]map[string]float64{
			"acct-1": {models.CurrencyARS: 50000, models.CurrencyUSD: 100},
		},
	}

	totals := AggregateTotals(nil, cash, testFX, TotalsConfig{IncludeCash: true})

	// ARS cash at face, USD cash via OFICIAL.
	assert.InDelta(t, 50000+100*1000, totals.TotalARS, 1e-6)
	assert.InDelta(t, totals.TotalARS, totals.LiquidityARS, 1e-6)
	assert.InDelta(t, 100+50, totals.LiquidityUSD, 1e-6)
}

func TestAggregateTotalsExcludesCashWhenDisabled(t *testing.T) {
	cash := models.CashLedgerResult{
		Balances: map[string]map[string]float64{
			"acct-1": {models.CurrencyARS: 50000},
		},
	}

	totals := AggregateTotals(nil, cash, testFX, TotalsConfig{IncludeCash: false})

	assert.Zero(t, totals.TotalARS)
	assert.Zero(t, totals.LiquidityARS)
	assert.Empty(t, totals.Categories)
}

func TestAggregateTotalsTopPositions(t *testing.T) {
	holdings := []models.Holding{
		{InstrumentID: "btc", AccountID: "acct-1", Quantity: 1},
		{InstrumentID: "aapl", AccountID: "acct-1", Quantity: 10},
		{InstrumentID: "fci", AccountID: "acct-1", Quantity: 100},
	}
	prices := map[string]float64{"btc": 60000, "aapl": 15000, "fci": 1000}
	agg := AggregateHoldings(holdings, testInstruments, prices, testFX)

	totals := AggregateTotals(agg, models.CashLedgerResult{}, testFX, TotalsConfig{TopPositions: 2})

	require.Len(t, totals.TopPositions, 2)
	assert.Equal(t, "BTC", totals.TopPositions[0].Symbol)
	assert.Equal(t, "AAPL", totals.TopPositions[1].Symbol)
	assert.Greater(t, totals.TopPositions[0].WeightPct, totals.TopPositions[1].WeightPct)
}

func TestAggregateTotalsCategoryWeightsSumToHundred(t *testing.T) {
	holdings := []models.Holding{
		{InstrumentID: "btc", AccountID: "acct-1", Quantity: 1},
		{InstrumentID: "aapl", AccountID: "acct-1", Quantity: 10},
	}
	prices := map[string]float64{"btc": 60000, "aapl": 15000}
	agg := AggregateHoldings(holdings, testInstruments, prices, testFX)

	totals := AggregateTotals(agg, models.CashLedgerResult{}, testFX, TotalsConfig{})

	var sum float64
	for _, c := range totals.Categories {
		sum += c.WeightPct
	}
	assert.InDelta(t, 100, sum, 1e-6)
}
