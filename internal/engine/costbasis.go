package engine

import (
	"fmt"

	"github.com/ncasas/cartera/internal/models"
)

// CostBasisMethod defines the method for calculating cost basis.
type CostBasisMethod int

const (
	// AverageCost pools all acquisitions into one blended per-unit cost.
	AverageCost CostBasisMethod = iota
	// FIFO assumes the first units purchased are the first ones sold.
	FIFO
)

func (m CostBasisMethod) String() string {
	switch m {
	case AverageCost:
		return "average"
	case FIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

// ParseCostBasisMethod parses a string into a CostBasisMethod.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch s {
	case "average", "":
		return AverageCost, nil
	case "fifo":
		return FIFO, nil
	default:
		return 0, fmt.Errorf("unknown cost basis method: %q", s)
	}
}

// ComputeHolding folds the movements of one (instrument, account) pair into a
// Holding using the selected costing method. The input stream may be in any
// order and may contain other groups; it is sorted and filtered here.
func ComputeHolding(movs []models.Movement, instrumentID, accountID string, method CostBasisMethod) models.Holding {
	group := groupMovements(sortMovements(movs), instrumentID, accountID)
	if method == FIFO {
		return fifoHolding(group, instrumentID, accountID)
	}
	return averageHolding(group, instrumentID, accountID)
}

// averageHolding accumulates quantity plus two parallel cost pools (ARS and
// USD). Disposals remove a pro-rata slice of the whole pooled cost regardless
// of settlement currency, which is the defining weighted-average property.
func averageHolding(group []models.Movement, instrumentID, accountID string) models.Holding {
	var quantity, costARS, costUSD float64

	for _, mv := range group {
		switch {
		case models.IncreasesPosition(mv.Type):
			qty := finite(mv.Quantity)
			if qty <= 0 {
				continue
			}
			quantity += qty
			// Received units (dividends, interest) carry no cost.
			if mv.Type != models.MovementDividend && mv.Type != models.MovementInterest {
				ars, usd := dualAmounts(mv)
				costARS += ars
				costUSD += usd
			}

		case models.DecreasesPosition(mv.Type):
			qty := finite(mv.Quantity)
			if qty <= 0 || quantity <= 0 {
				continue
			}
			ratio := qty / quantity
			if ratio > 1 {
				ratio = 1 // oversell clamps to the whole position
			}
			costARS -= costARS * ratio
			costUSD -= costUSD * ratio
			quantity -= quantity * ratio
		}

		if quantity < epsilon {
			quantity, costARS, costUSD = 0, 0, 0
		}
	}

	h := models.Holding{
		InstrumentID: instrumentID,
		AccountID:    accountID,
		Quantity:     quantity,
		CostBasisARS: costARS,
		CostBasisUSD: costUSD,
	}
	if quantity > 0 {
		h.AvgCostARS = costARS / quantity
		h.AvgCostUSD = costUSD / quantity
	}
	return h
}
