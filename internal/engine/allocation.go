package engine

import (
	"sort"

	"github.com/ncasas/cartera/internal/models"
)

// SaleSimulation is the input to a non-mutating sale preview over open lots.
type SaleSimulation struct {
	Lots     []models.Lot
	Quantity float64 // ignored for MANUAL, where allocations drive the total
	Price    float64
	Method   models.CostingMethod
	Currency string // unit-cost side to price the lots in; defaults to ARS
	Manual   []models.ManualAllocation
}

// lotUnitCost selects the frozen unit cost on the requested currency side.
func lotUnitCost(l models.Lot, currency string) float64 {
	if currency == models.CurrencyUSD {
		return l.UnitCostUSD
	}
	return l.UnitCostARS
}

// SimulateSale computes which lots a disposal would consume, the cost of the
// sold units, and the realized result. The input lots are never modified and
// no ledger state changes: this is a preview.
//
// An empty lot list or a non-positive effective quantity yields an all-zero
// allocation, never an error.
func SimulateSale(sim SaleSimulation) models.SaleAllocation {
	lots := make([]models.Lot, len(sim.Lots))
	copy(lots, sim.Lots)

	price := finite(sim.Price)
	if len(lots) == 0 {
		return models.SaleAllocation{}
	}

	var allocation models.SaleAllocation
	switch sim.Method {
	case models.CostingManual:
		allocation = allocateManual(lots, sim.Currency, sim.Manual)
	case models.CostingPPP:
		allocation = allocatePooled(lots, sim.Currency, finite(sim.Quantity))
	case models.CostingLIFO:
		sortLotsByDate(lots, false)
		allocation = allocateSequential(lots, sim.Currency, finite(sim.Quantity))
	case models.CostingCheapest:
		sortLotsByCost(lots, sim.Currency)
		allocation = allocateSequential(lots, sim.Currency, finite(sim.Quantity))
	default: // FIFO
		sortLotsByDate(lots, true)
		allocation = allocateSequential(lots, sim.Currency, finite(sim.Quantity))
	}

	if allocation.TotalQtySold <= 0 {
		return models.SaleAllocation{}
	}

	allocation.TotalProceeds = allocation.TotalQtySold * price
	allocation.RealizedPnl = allocation.TotalProceeds - allocation.TotalCost
	if allocation.TotalCost > 0 {
		allocation.RealizedPnlPct = allocation.RealizedPnl / allocation.TotalCost * 100
	}
	return allocation
}

func sortLotsByDate(lots []models.Lot, ascending bool) {
	sort.SliceStable(lots, func(i, j int) bool {
		if lots[i].Date.Equal(lots[j].Date) {
			return lots[i].ID < lots[j].ID
		}
		if ascending {
			return lots[i].Date.Before(lots[j].Date)
		}
		return lots[i].Date.After(lots[j].Date)
	})
}

// sortLotsByCost orders cheapest-first, breaking unit-cost ties by date so the
// oldest of equally-cheap lots is consumed first. This minimizes realized gain.
func sortLotsByCost(lots []models.Lot, currency string) {
	sort.SliceStable(lots, func(i, j int) bool {
		ci, cj := lotUnitCost(lots[i], currency), lotUnitCost(lots[j], currency)
		if ci == cj {
			return lots[i].Date.Before(lots[j].Date)
		}
		return ci < cj
	})
}

// clampQuantity bounds a requested quantity to [0, totalHeld].
func clampQuantity(qty float64, lots []models.Lot) float64 {
	if qty < 0 {
		return 0
	}
	var held float64
	for _, l := range lots {
		held += l.RemainingQty
	}
	if qty > held {
		return held
	}
	return qty
}

// allocateSequential consumes pre-sorted lots in order at their frozen unit cost.
func allocateSequential(lots []models.Lot, currency string, qty float64) models.SaleAllocation {
	qty = clampQuantity(qty, lots)
	var out models.SaleAllocation

	remaining := qty
	for _, l := range lots {
		if remaining <= epsilon {
			break
		}
		take := l.RemainingQty
		if take > remaining {
			take = remaining
		}
		if take <= 0 {
			continue
		}
		cost := take * lotUnitCost(l, currency)
		out.Consumed = append(out.Consumed, models.LotConsumption{
			LotID:    l.ID,
			Quantity: take,
			Cost:     cost,
		})
		out.TotalQtySold += take
		out.TotalCost += cost
		remaining -= take
	}
	return out
}

// allocatePooled prices all sold units at the blended average cost of the
// whole pool, consuming lots oldest-first purely for the per-lot breakdown.
func allocatePooled(lots []models.Lot, currency string, qty float64) models.SaleAllocation {
	qty = clampQuantity(qty, lots)
	if qty <= 0 {
		return models.SaleAllocation{}
	}

	var held, poolCost float64
	for _, l := range lots {
		held += l.RemainingQty
		poolCost += l.RemainingQty * lotUnitCost(l, currency)
	}
	avgCost := 0.0
	if held > 0 {
		avgCost = poolCost / held
	}

	sortLotsByDate(lots, true)
	var out models.SaleAllocation
	remaining := qty
	for _, l := range lots {
		if remaining <= epsilon {
			break
		}
		take := l.RemainingQty
		if take > remaining {
			take = remaining
		}
		cost := take * avgCost
		out.Consumed = append(out.Consumed, models.LotConsumption{
			LotID:    l.ID,
			Quantity: take,
			Cost:     cost,
		})
		out.TotalQtySold += take
		out.TotalCost += cost
		remaining -= take
	}
	return out
}

// allocateManual honors caller-chosen {lot, quantity} pairs, clamping each to
// what the lot actually holds. The total sold is allocation-driven.
func allocateManual(lots []models.Lot, currency string, manual []models.ManualAllocation) models.SaleAllocation {
	byID := make(map[string]*models.Lot, len(lots))
	for i := range lots {
		byID[lots[i].ID] = &lots[i]
	}

	var out models.SaleAllocation
	for _, alloc := range manual {
		l, ok := byID[alloc.LotID]
		if !ok {
			continue
		}
		take := finite(alloc.Quantity)
		if take < 0 {
			take = 0
		}
		if take > l.RemainingQty {
			take = l.RemainingQty
		}
		if take <= epsilon {
			continue
		}
		cost := take * lotUnitCost(*l, currency)
		out.Consumed = append(out.Consumed, models.LotConsumption{
			LotID:    l.ID,
			Quantity: take,
			Cost:     cost,
		})
		out.TotalQtySold += take
		out.TotalCost += cost
		l.RemainingQty -= take // local copy only; caps repeated picks of one lot
	}
	return out
}
