package engine

import (
	"sort"

	"github.com/ncasas/cartera/internal/models"
)

// TotalsConfig externalizes the aggregation preferences; the engine never
// reads ambient state.
type TotalsConfig struct {
	TopPositions int
	IncludeCash  bool
	Method       CostBasisMethod
}

// AggregateHoldings sums per-account holdings into per-instrument aggregates
// and revalues each one through its category rule. Holdings referencing an
// instrument missing from the registry are skipped; cash inference elsewhere
// still sees their movements.
func AggregateHoldings(holdings []models.Holding, instruments map[string]models.Instrument, prices map[string]float64, fx models.FXRates) []models.HoldingAggregated {
	byInstrument := make(map[string]*models.HoldingAggregated)

	for _, h := range holdings {
		inst, ok := instruments[h.InstrumentID]
		if !ok {
			continue
		}
		agg := byInstrument[h.InstrumentID]
		if agg == nil {
			agg = &models.HoldingAggregated{
				InstrumentID:   inst.ID,
				Symbol:         inst.Symbol,
				Category:       inst.Category,
				NativeCurrency: inst.NativeCurrency,
			}
			byInstrument[h.InstrumentID] = agg
		}
		agg.Quantity += h.Quantity
		agg.CostBasisARS += h.CostBasisARS
		agg.CostBasisUSD += h.CostBasisUSD
		agg.Accounts = append(agg.Accounts, h.AccountID)
	}

	out := make([]models.HoldingAggregated, 0, len(byInstrument))
	for _, agg := range byInstrument {
		if agg.Quantity > 0 {
			agg.AvgCostARS = agg.CostBasisARS / agg.Quantity
			agg.AvgCostUSD = agg.CostBasisUSD / agg.Quantity
		}
		agg.Price = finite(prices[agg.InstrumentID])
		val := Valuate(agg.Quantity, agg.Price, agg.Category, agg.NativeCurrency, fx)
		agg.ValueARS = val.ValueARS
		agg.ValueUSD = val.ValueUSD
		agg.FXUsed = val.FXUsed
		agg.ExchangeRate = val.ExchangeRate
		agg.RuleApplied = val.RuleApplied
		sort.Strings(agg.Accounts)
		out = append(out, *agg)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ValueARS == out[j].ValueARS {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].ValueARS > out[j].ValueARS
	})
	return out
}

// cashCategory maps a balance currency to its valuation category.
func cashCategory(currency string) models.Category {
	if currency == models.CurrencyUSD {
		return models.CategoryUSDCash
	}
	return models.CategoryARSCash
}

// AggregateTotals rolls aggregated holdings and cash balances up into
// portfolio-wide totals and category summaries. Totals accumulate from
// already-converted per-instrument values: different instruments use
// different rate types, so summing a native pool and applying one global
// rate would be wrong.
func AggregateTotals(aggregated []models.HoldingAggregated, cash models.CashLedgerResult, fx models.FXRates, cfg TotalsConfig) models.PortfolioTotals {
	totals := models.PortfolioTotals{FXSnapshot: fx}
	byCategory := make(map[models.Category]*models.CategorySummary)

	addCategory := func(cat models.Category, ars, usd float64) {
		summary := byCategory[cat]
		if summary == nil {
			summary = &models.CategorySummary{Category: cat}
			byCategory[cat] = summary
		}
		summary.ValueARS += ars
		summary.ValueUSD += usd
	}

	for _, agg := range aggregated {
		totals.TotalARS += agg.ValueARS
		totals.TotalUSD += agg.ValueUSD
		totals.InvestedARS += agg.CostBasisARS
		totals.InvestedUSD += agg.CostBasisUSD
		addCategory(agg.Category, agg.ValueARS, agg.ValueUSD)
	}

	if cfg.IncludeCash {
		for _, byCurrency := range cash.Balances {
			for currency, balance := range byCurrency {
				if balance < epsilon {
					continue
				}
				val := Valuate(balance, 0, cashCategory(currency), currency, fx)
				totals.TotalARS += val.ValueARS
				totals.TotalUSD += val.ValueUSD
				totals.LiquidityARS += val.ValueARS
				totals.LiquidityUSD += val.ValueUSD
				addCategory(cashCategory(currency), val.ValueARS, val.ValueUSD)
			}
		}
	}

	for _, summary := range byCategory {
		if totals.TotalARS > 0 {
			summary.WeightPct = summary.ValueARS / totals.TotalARS * 100
		}
		totals.Categories = append(totals.Categories, *summary)
	}
	sort.SliceStable(totals.Categories, func(i, j int) bool {
		if totals.Categories[i].ValueARS == totals.Categories[j].ValueARS {
			return totals.Categories[i].Category < totals.Categories[j].Category
		}
		return totals.Categories[i].ValueARS > totals.Categories[j].ValueARS
	})

	topN := cfg.TopPositions
	if topN <= 0 {
		topN = 5
	}
	for i, agg := range aggregated {
		if i >= topN {
			break
		}
		pos := models.TopPosition{
			InstrumentID: agg.InstrumentID,
			Symbol:       agg.Symbol,
			ValueARS:     agg.ValueARS,
			ValueUSD:     agg.ValueUSD,
		}
		if totals.TotalARS > 0 {
			pos.WeightPct = agg.ValueARS / totals.TotalARS * 100
		}
		totals.TopPositions = append(totals.TopPositions, pos)
	}

	return totals
}
