package engine

import (
	"github.com/ncasas/cartera/internal/models"
)

// lotQueue is an ordered lot list with an explicit head index, giving O(1)
// pop-from-front without re-slicing or aliasing the backing array.
type lotQueue struct {
	lots []models.Lot
	head int
}

func (q *lotQueue) push(l models.Lot) {
	q.lots = append(q.lots, l)
}

func (q *lotQueue) empty() bool {
	return q.head >= len(q.lots)
}

func (q *lotQueue) front() *models.Lot {
	return &q.lots[q.head]
}

func (q *lotQueue) pop() {
	q.head++
}

// remaining returns the open lots still holding quantity, in queue order.
func (q *lotQueue) remaining() []models.Lot {
	out := make([]models.Lot, 0, len(q.lots)-q.head)
	for _, l := range q.lots[q.head:] {
		if l.RemainingQty >= epsilon {
			out = append(out, l)
		}
	}
	return out
}

// consume removes quantity from the queue head, oldest lots first, popping
// fully-consumed lots and decrementing partially-consumed ones. Oversells
// clamp to the available quantity.
func (q *lotQueue) consume(qty float64) {
	for qty > epsilon && !q.empty() {
		l := q.front()
		if l.RemainingQty > qty {
			l.RemainingQty -= qty
			return
		}
		qty -= l.RemainingQty
		l.RemainingQty = 0
		q.pop()
	}
}

// BuildLots replays one (instrument, account) group into its open lot queue.
// Unit costs are frozen at acquisition in both currencies, which is what
// enables lot-selective disposal in the sale simulator.
func BuildLots(movs []models.Movement, instrumentID, accountID string) []models.Lot {
	group := groupMovements(sortMovements(movs), instrumentID, accountID)
	q := &lotQueue{}

	for _, mv := range group {
		switch {
		case models.IncreasesPosition(mv.Type):
			qty := finite(mv.Quantity)
			if qty <= 0 {
				continue
			}
			lot := models.Lot{
				ID:           mv.ID,
				InstrumentID: instrumentID,
				AccountID:    accountID,
				Date:         mv.Datetime,
				OriginalQty:  qty,
				RemainingQty: qty,
				FXAtTrade:    finite(mv.FXAtTrade),
			}
			if mv.Type != models.MovementDividend && mv.Type != models.MovementInterest {
				ars, usd := dualAmounts(mv)
				lot.UnitCostARS = ars / qty
				lot.UnitCostUSD = usd / qty
			}
			q.push(lot)

		case models.DecreasesPosition(mv.Type):
			q.consume(finite(mv.Quantity))
		}
	}

	return q.remaining()
}

// fifoHolding derives a Holding from the open lots: totals are the sum of
// remaining quantity times frozen unit cost per lot.
func fifoHolding(group []models.Movement, instrumentID, accountID string) models.Holding {
	// group is already sorted and filtered; BuildLots re-runs both, which is
	// harmless on an already-restricted stream.
	lots := BuildLots(group, instrumentID, accountID)

	var quantity, costARS, costUSD float64
	for _, l := range lots {
		quantity += l.RemainingQty
		costARS += l.RemainingQty * l.UnitCostARS
		costUSD += l.RemainingQty * l.UnitCostUSD
	}
	if quantity < epsilon {
		quantity, costARS, costUSD = 0, 0, 0
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
