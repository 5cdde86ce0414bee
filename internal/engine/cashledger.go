package engine

import (
	"github.com/ncasas/cartera/internal/models"
)

// cashDelta is one signed balance change in a single currency.
type cashDelta struct {
	currency string
	amount   float64
}

// settlementCurrency resolves where a movement's cash leg settles:
// meta override, explicit trade currency, fee currency, then the presence of
// an explicit USD total, defaulting to ARS for undeclared currencies.
func settlementCurrency(mv models.Movement) string {
	if mv.Meta.SettlementCurrency != "" {
		return mv.Meta.SettlementCurrency
	}
	if mv.TradeCurrency != "" {
		return mv.TradeCurrency
	}
	if mv.Fee.Currency != "" {
		return mv.Fee.Currency
	}
	if finite(mv.TotalUSD) != 0 {
		return models.CurrencyUSD
	}
	return models.CurrencyARS
}

// settlementAmount resolves the cash amount of a movement in its settlement
// currency, preferring net (post-fee) over gross.
func settlementAmount(mv models.Movement, currency string) float64 {
	if v := finite(mv.NetAmount); v > 0 {
		return v
	}
	if v := finite(mv.GrossAmount); v > 0 {
		return v
	}
	if v := finite(mv.Quantity) * finite(mv.UnitPrice); v > 0 {
		return v
	}
	if currency == models.CurrencyUSD {
		return finite(mv.TotalUSD)
	}
	return finite(mv.TotalARS)
}

// movementDeltas maps one movement to zero or more signed cash deltas.
// BUY_USD/SELL_USD emit a paired two-currency delta: the settlement leg plus
// a synthetic USD leg equal to the quantity exchanged. A fee settling in a
// different currency gets its own debit so neither currency under-counts.
func movementDeltas(mv models.Movement) []cashDelta {
	currency := settlementCurrency(mv)
	amount := settlementAmount(mv, currency)
	var deltas []cashDelta

	switch mv.Type {
	case models.MovementDeposit, models.MovementInterest, models.MovementDividend,
		models.MovementTransferIn, models.MovementDebtAdd:
		deltas = append(deltas, cashDelta{currency, amount})

	case models.MovementWithdraw, models.MovementTransferOut, models.MovementDebtPay:
		deltas = append(deltas, cashDelta{currency, -amount})

	case models.MovementBuy:
		deltas = append(deltas, cashDelta{currency, -amount})

	case models.MovementSell:
		deltas = append(deltas, cashDelta{currency, amount})

	case models.MovementFee:
		feeCur := mv.Fee.Currency
		if feeCur == "" {
			feeCur = currency
		}
		feeAmt := finite(mv.Fee.Amount)
		if feeAmt == 0 {
			feeAmt = amount
		}
		deltas = append(deltas, cashDelta{feeCur, -feeAmt})

	case models.MovementBuyUSD:
		deltas = append(deltas,
			cashDelta{currency, -amount},
			cashDelta{models.CurrencyUSD, finite(mv.Quantity)})

	case models.MovementSellUSD:
		deltas = append(deltas,
			cashDelta{currency, amount},
			cashDelta{models.CurrencyUSD, -finite(mv.Quantity)})
	}

	// Fee settling in a different currency from the trade debits its own leg.
	if mv.Type != models.MovementFee &&
		mv.Fee.Currency != "" && mv.Fee.Currency != currency {
		if feeAmt := finite(mv.Fee.Amount); feeAmt > 0 {
			deltas = append(deltas, cashDelta{mv.Fee.Currency, -feeAmt})
		}
	}

	// Drop sub-epsilon noise so balances stay clean.
	filtered := deltas[:0]
	for _, d := range deltas {
		if d.amount > epsilon || d.amount < -epsilon {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// ComputeCashLedger folds the full movement stream into per-account,
// per-currency running balances. While folding it tracks the minimum observed
// balance per pair; a negative minimum means cash must have existed before the
// recorded history began, so an opening balance of max(0, -min) is inferred
// and added to the final balance only.
func ComputeCashLedger(movs []models.Movement) models.CashLedgerResult {
	type pair struct{ account, currency string }

	running := make(map[pair]float64)
	minimum := make(map[pair]float64)

	for _, mv := range sortMovements(movs) {
		for _, d := range movementDeltas(mv) {
			k := pair{mv.AccountID, d.currency}
			running[k] += d.amount
			if running[k] < minimum[k] {
				minimum[k] = running[k]
			}
		}
	}

	result := models.CashLedgerResult{
		Balances:        make(map[string]map[string]float64),
		OpeningBalances: make(map[string]map[string]float64),
	}
	for k, balance := range running {
		opening := 0.0
		if minimum[k] < 0 {
			opening = -minimum[k]
		}
		if result.Balances[k.account] == nil {
			result.Balances[k.account] = make(map[string]float64)
		}
		result.Balances[k.account][k.currency] = balance + opening
		if opening > 0 {
			if result.OpeningBalances[k.account] == nil {
				result.OpeningBalances[k.account] = make(map[string]float64)
			}
			result.OpeningBalances[k.account][k.currency] = opening
		}
	}
	return result
}
