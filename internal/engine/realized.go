package engine

import (
	"github.com/ncasas/cartera/internal/models"
)

// pnlState is the weighted-average pool for one (instrument, account) pair,
// kept deliberately separate from the cost basis engine's state.
type pnlState struct {
	quantity  float64
	costBasis float64
}

// pnlKey identifies a realized-PnL pool.
type pnlKey struct {
	instrumentID string
	accountID    string
}

// movementPrice resolves the per-unit price of a movement, deriving it from
// the settled amount when no explicit unit price was recorded.
func movementPrice(mv models.Movement) float64 {
	if p := finite(mv.UnitPrice); p > 0 {
		return p
	}
	qty := finite(mv.Quantity)
	if qty <= 0 {
		return 0
	}
	return tradeAmount(mv) / qty
}

// pnlCurrency buckets a disposal's gain by trade currency, treating the
// synthetic USD legs as USD when no currency was declared.
func pnlCurrency(mv models.Movement) string {
	if mv.TradeCurrency != "" {
		return mv.TradeCurrency
	}
	if mv.Type == models.MovementSellUSD || mv.Type == models.MovementBuyUSD {
		return models.CurrencyUSD
	}
	return models.CurrencyARS
}

// ComputeRealizedPnL runs the realized-gain pass over the full stream.
// Increasing movements (including dividend/interest treated as reinvestment)
// grow the pool at quantity x price. Disposals consume the pool at average
// cost, but only SELL/SELL_USD contribute to the reported totals: WITHDRAW
// and TRANSFER_OUT shrink the pool silently so a later sale cannot
// double-count the transferred cost.
func ComputeRealizedPnL(movs []models.Movement) models.RealizedPnLResult {
	result := models.RealizedPnLResult{
		ByInstrument: make(map[string]models.RealizedBucket),
		ByAccount:    make(map[string]models.RealizedBucket),
	}
	pools := make(map[pnlKey]*pnlState)

	for _, mv := range sortMovements(movs) {
		if mv.InstrumentID == "" {
			continue // pure cash movement, no position pool
		}
		key := pnlKey{mv.InstrumentID, mv.AccountID}
		state := pools[key]
		if state == nil {
			state = &pnlState{}
			pools[key] = state
		}

		switch {
		case models.IncreasesPosition(mv.Type):
			qty := finite(mv.Quantity)
			if qty <= 0 {
				continue
			}
			state.quantity += qty
			state.costBasis += qty * movementPrice(mv)

		case models.DecreasesPosition(mv.Type):
			qty := finite(mv.Quantity)
			if qty <= 0 || state.quantity <= 0 {
				continue
			}
			avgCost := state.costBasis / state.quantity
			soldQty := qty
			if soldQty > state.quantity {
				soldQty = state.quantity
			}
			cost := soldQty * avgCost
			state.quantity -= soldQty
			state.costBasis -= cost
			if state.quantity < epsilon {
				state.quantity, state.costBasis = 0, 0
			}

			if mv.Type != models.MovementSell && mv.Type != models.MovementSellUSD {
				continue
			}
			proceeds := soldQty * movementPrice(mv)
			pnl := proceeds - cost

			var bucket models.RealizedBucket
			if pnlCurrency(mv) == models.CurrencyUSD {
				bucket.PnlUSD = pnl
			} else {
				bucket.PnlARS = pnl
			}
			result.Total.PnlARS += bucket.PnlARS
			result.Total.PnlUSD += bucket.PnlUSD

			byInst := result.ByInstrument[mv.InstrumentID]
			byInst.PnlARS += bucket.PnlARS
			byInst.PnlUSD += bucket.PnlUSD
			result.ByInstrument[mv.InstrumentID] = byInst

			byAcct := result.ByAccount[mv.AccountID]
			byAcct.PnlARS += bucket.PnlARS
			byAcct.PnlUSD += bucket.PnlUSD
			result.ByAccount[mv.AccountID] = byAcct
		}
	}
	return result
}
