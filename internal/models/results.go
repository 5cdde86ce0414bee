package models

import "time"

// ValuationResult is the dual-currency value of a position, annotated with
// which category rule and FX rate produced it so the UI can audit the math.
type ValuationResult struct {
	ValueARS     float64  `json:"value_ars"`
	ValueUSD     float64  `json:"value_usd"`
	FXUsed       RateType `json:"fx_used"`
	ExchangeRate float64  `json:"exchange_rate"`
	RuleApplied  string   `json:"rule_applied"`
}

// Valuation rule identifiers reported in ValuationResult.RuleApplied.
const (
	RuleCryptoUSD       = "CRYPTO_USD_PRICE"
	RuleCedearARS       = "CEDEAR_ARS_PRICE"
	RuleUSDCash         = "USD_CASH"
	RuleARSCash         = "ARS_CASH"
	RuleNativeUSD       = "NATIVE_USD"
	RuleNativeARS       = "NATIVE_ARS"
	RuleDefaultFallback = "DEFAULT_FALLBACK"
)

// CashLedgerResult holds per-account, per-currency running balances plus the
// opening balances inferred for cash that must have pre-dated the recorded
// history (Balances already include the inferred openings).
type CashLedgerResult struct {
	Balances        map[string]map[string]float64 `json:"balances"`
	OpeningBalances map[string]map[string]float64 `json:"opening_balances"`
}

// Balance returns the running balance for an account/currency pair.
func (r CashLedgerResult) Balance(accountID, currency string) float64 {
	if byCur, ok := r.Balances[accountID]; ok {
		return byCur[currency]
	}
	return 0
}

// RealizedBucket accumulates realized gains split by trade currency.
type RealizedBucket struct {
	PnlARS float64 `json:"pnl_ars"`
	PnlUSD float64 `json:"pnl_usd"`
}

// RealizedPnLResult aggregates realized gains from SELL/SELL_USD disposals.
type RealizedPnLResult struct {
	Total        RealizedBucket            `json:"total"`
	ByInstrument map[string]RealizedBucket `json:"by_instrument"`
	ByAccount    map[string]RealizedBucket `json:"by_account"`
}

// CostingMethod selects the lot allocation strategy for a sale simulation.
type CostingMethod string

const (
	CostingPPP      CostingMethod = "PPP" // pooled weighted-average cost
	CostingFIFO     CostingMethod = "FIFO"
	CostingLIFO     CostingMethod = "LIFO"
	CostingCheapest CostingMethod = "CHEAPEST"
	CostingManual   CostingMethod = "MANUAL"
)

// ValidCostingMethod returns true if m is a supported costing method.
func ValidCostingMethod(m CostingMethod) bool {
	switch m {
	case CostingPPP, CostingFIFO, CostingLIFO, CostingCheapest, CostingManual:
		return true
	default:
		return false
	}
}

// ManualAllocation is a caller-chosen {lot, quantity} pair for MANUAL costing.
type ManualAllocation struct {
	LotID    string  `json:"lot_id"`
	Quantity float64 `json:"quantity"`
}

// LotConsumption records how much of one lot a simulated sale consumed.
type LotConsumption struct {
	LotID    string  `json:"lot_id"`
	Quantity float64 `json:"quantity"`
	Cost     float64 `json:"cost"`
}

// SaleAllocation is the non-mutating preview of a disposal: which lots are
// consumed, at what cost, and the realized result. Never alters ledger state.
type SaleAllocation struct {
	Consumed       []LotConsumption `json:"consumed"`
	TotalQtySold   float64          `json:"total_qty_sold"`
	TotalCost      float64          `json:"total_cost"`
	TotalProceeds  float64          `json:"total_proceeds"`
	RealizedPnl    float64          `json:"realized_pnl"`
	RealizedPnlPct float64          `json:"realized_pnl_pct"`
}

// CategorySummary is one slice of the portfolio grouped by asset category.
type CategorySummary struct {
	Category  Category `json:"category"`
	ValueARS  float64  `json:"value_ars"`
	ValueUSD  float64  `json:"value_usd"`
	WeightPct float64  `json:"weight_pct"` // share of total ARS value
}

// TopPosition is one of the largest positions by ARS value.
type TopPosition struct {
	InstrumentID string  `json:"instrument_id"`
	Symbol       string  `json:"symbol"`
	ValueARS     float64 `json:"value_ars"`
	ValueUSD     float64 `json:"value_usd"`
	WeightPct    float64 `json:"weight_pct"`
}

// PortfolioTotals is the portfolio-wide rollup: dual-currency totals,
// liquidity, category breakdown and top positions. ARS/USD totals are
// accumulated from per-instrument converted values, never by applying one
// global rate to a summed native pool.
type PortfolioTotals struct {
	TotalARS     float64           `json:"total_ars"`
	TotalUSD     float64           `json:"total_usd"`
	InvestedARS  float64           `json:"invested_ars"` // remaining cost basis
	InvestedUSD  float64           `json:"invested_usd"`
	LiquidityARS float64           `json:"liquidity_ars"` // cash balances revalued
	LiquidityUSD float64           `json:"liquidity_usd"`
	Categories   []CategorySummary `json:"categories"`
	TopPositions []TopPosition     `json:"top_positions"`
	FXSnapshot   FXRates           `json:"fx_snapshot"`
	GeneratedAt  time.Time         `json:"generated_at"`
}
