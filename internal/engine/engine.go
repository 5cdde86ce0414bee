// Package engine implements the cost-basis and valuation core: pure,
// stateless computations that fold an immutable movement stream into
// holdings, cash balances, dual-currency valuations, realized PnL and
// sale-simulation previews.
//
// The engine never errors on malformed financial data. Missing or non-finite
// numeric fields are coerced to 0, missing FX rates pass through as 1, and
// the result is annotated via RuleApplied/FXUsed. Every invocation recomputes
// from scratch, so identical inputs produce bit-for-bit identical outputs.
package engine

import (
	"math"
	"sort"

	"github.com/ncasas/cartera/internal/models"
)

// epsilon is the quantity drift guard: anything below it collapses to zero.
const epsilon = 1e-8

// finite coerces NaN and infinities to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// sortMovements returns a chronologically ordered copy of the stream.
// Same-timestamp ties order by ID so repeated runs are deterministic.
func sortMovements(movs []models.Movement) []models.Movement {
	sorted := make([]models.Movement, len(movs))
	copy(sorted, movs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Datetime.Equal(sorted[j].Datetime) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Datetime.Before(sorted[j].Datetime)
	})
	return sorted
}

// groupMovements filters a sorted stream down to one (instrument, account)
// pair. Cost basis never crosses account boundaries.
func groupMovements(movs []models.Movement, instrumentID, accountID string) []models.Movement {
	var group []models.Movement
	for _, mv := range movs {
		if mv.InstrumentID == instrumentID && mv.AccountID == accountID {
			group = append(group, mv)
		}
	}
	return group
}

// movementFXRate resolves the ARS/USD rate for a movement:
// explicit fx.rate, then the historical rate at trade, then 1 (pass-through).
func movementFXRate(mv models.Movement) float64 {
	if r := finite(mv.FX.Rate); r > 0 {
		return r
	}
	if r := finite(mv.FXAtTrade); r > 0 {
		return r
	}
	return 1
}

// tradeAmount resolves the settled amount of a movement, preferring the net
// (post-fee) amount and falling back to gross, quantity x price, then the
// explicit per-currency totals.
func tradeAmount(mv models.Movement) float64 {
	if v := finite(mv.NetAmount); v > 0 {
		return v
	}
	if v := finite(mv.GrossAmount); v > 0 {
		return v
	}
	if v := finite(mv.Quantity) * finite(mv.UnitPrice); v > 0 {
		return v
	}
	if mv.TradeCurrency == models.CurrencyUSD {
		return finite(mv.TotalUSD)
	}
	return finite(mv.TotalARS)
}

// dualAmounts resolves a movement's cost independently in ARS and USD.
// When the trade settled in ARS the USD side derives through the movement FX
// rate, and vice versa; both pools are always populated.
func dualAmounts(mv models.Movement) (ars, usd float64) {
	rate := movementFXRate(mv)
	if mv.TradeCurrency == models.CurrencyARS || mv.TradeCurrency == "" {
		ars = tradeAmount(mv)
		if ars == 0 {
			ars = finite(mv.TotalARS)
		}
		if rate > 0 {
			usd = ars / rate
		}
		return ars, usd
	}
	usd = tradeAmount(mv)
	if usd == 0 {
		usd = finite(mv.TotalUSD)
	}
	ars = usd * rate
	return ars, usd
}
