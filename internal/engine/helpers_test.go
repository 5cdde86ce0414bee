package engine

import (
	"math"
	"time"

	"github.com/ncasas/cartera/internal/models"
)

// nan returns a NaN for malformed-input tests.
func nan() float64 {
	return math.NaN()
}

// testFX is a fixed quote board used across the package tests.
var testFX = models.FXRates{
	Oficial: 1000,
	MEP:     1200,
	CCL:     1250,
	Cripto:  1300,
}

// lot builds a test lot with both unit-cost sides derived from the ARS cost
// and a flat 1000 trade rate.
func lot(id string, day int, remaining, unitCostARS float64) models.Lot {
	return models.Lot{
		ID:           id,
		InstrumentID: "inst-1",
		AccountID:    "acct-1",
		Date:         time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		OriginalQty:  remaining,
		RemainingQty: remaining,
		UnitCostARS:  unitCostARS,
		UnitCostUSD:  unitCostARS / 1000,
		FXAtTrade:    1000,
	}
}
