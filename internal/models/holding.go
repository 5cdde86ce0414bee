package models

import "time"

// Holding is the derived position for one (instrument, account) pair.
// Cost basis is carried in ARS and USD simultaneously; callers pick the
// native side per Instrument.NativeCurrency.
//
// Invariant: Quantity >= 0, and Quantity == 0 implies all cost fields == 0.
type Holding struct {
	InstrumentID string  `json:"instrument_id"`
	AccountID    string  `json:"account_id"`
	Quantity     float64 `json:"quantity"`
	CostBasisARS float64 `json:"cost_basis_ars"`
	CostBasisUSD float64 `json:"cost_basis_usd"`
	AvgCostARS   float64 `json:"avg_cost_ars"`
	AvgCostUSD   float64 `json:"avg_cost_usd"`
}

// Lot is a discrete acquisition with unit costs frozen at acquisition time.
// Lots form an ordered per-(instrument, account) queue consumed oldest-first
// under FIFO, and feed the sale simulator for the other costing methods.
type Lot struct {
	ID           string    `json:"id"` // derived from the originating movement
	InstrumentID string    `json:"instrument_id"`
	AccountID    string    `json:"account_id"`
	Date         time.Time `json:"date"`
	OriginalQty  float64   `json:"original_qty"`
	RemainingQty float64   `json:"remaining_qty"`
	UnitCostARS  float64   `json:"unit_cost_ars"`
	UnitCostUSD  float64   `json:"unit_cost_usd"`
	FXAtTrade    float64   `json:"fx_at_trade,omitempty"`
}

// HoldingAggregated sums one instrument's holdings across accounts and
// attaches its current dual-currency valuation.
type HoldingAggregated struct {
	InstrumentID   string   `json:"instrument_id"`
	Symbol         string   `json:"symbol"`
	Category       Category `json:"category"`
	NativeCurrency string   `json:"native_currency"`
	Accounts       []string `json:"accounts,omitempty"`
	Quantity       float64  `json:"quantity"`
	CostBasisARS   float64  `json:"cost_basis_ars"`
	CostBasisUSD   float64  `json:"cost_basis_usd"`
	AvgCostARS     float64  `json:"avg_cost_ars"`
	AvgCostUSD     float64  `json:"avg_cost_usd"`
	Price          float64  `json:"price,omitempty"`
	ValueARS       float64  `json:"value_ars"`
	ValueUSD       float64  `json:"value_usd"`
	FXUsed         RateType `json:"fx_used,omitempty"`
	ExchangeRate   float64  `json:"exchange_rate,omitempty"`
	RuleApplied    string   `json:"rule_applied,omitempty"`
}
