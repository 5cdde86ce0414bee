package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncasas/cartera/internal/models"
)

// cashMov builds a cash movement without an instrument leg.
func cashMov(t models.MovementType, d int, amount float64, currency string) models.Movement {
	movSeq++
	return models.Movement{
		ID:            string(rune('a' + movSeq%26)),
		Datetime:      day(d),
		Type:          t,
		AccountID:     "acct-1",
		NetAmount:     amount,
		TradeCurrency: currency,
	}
}

func TestCashLedgerSimpleDeposit(t *testing.T) {
	movs := []models.Movement{
		cashMov(models.MovementDeposit, 1, 67750, models.CurrencyARS),
	}

	r := ComputeCashLedger(movs)

	assert.InDelta(t, 67750, r.Balance("acct-1", models.CurrencyARS), 1e-9)
	assert.Empty(t, r.OpeningBalances)
}

func TestCashLedgerAccumulatesDepositsAndInterest(t *testing.T) {
	movs := []models.Movement{
		cashMov(models.MovementDeposit, 1, 356141.36, models.CurrencyARS),
		cashMov(models.MovementInterest, 2, 331.75, models.CurrencyARS),
	}

	r := ComputeCashLedger(movs)

	assert.InDelta(t, 356473.11, r.Balance("acct-1", models.CurrencyARS), 1e-6)
}

func TestCashLedgerInfersOpeningBalance(t *testing.T) {
	// A lone withdrawal implies the cash existed before recorded history.
	movs := []models.Movement{
		cashMov(models.MovementWithdraw, 1, 5000, models.CurrencyARS),
	}

	r := ComputeCashLedger(movs)

	assert.InDelta(t, 0, r.Balance("acct-1", models.CurrencyARS), 1e-9)
	require.Contains(t, r.OpeningBalances, "acct-1")
	assert.InDelta(t, 5000, r.OpeningBalances["acct-1"][models.CurrencyARS], 1e-9)
}

func TestCashLedgerOpeningAppliesToFinalBalanceOnly(t *testing.T) {
	movs := []models.Movement{
		cashMov(models.MovementWithdraw, 1, 3000, models.CurrencyARS),
		cashMov(models.MovementDeposit, 2, 10000, models.CurrencyARS),
	}

	r := ComputeCashLedger(movs)

	// Running ends at 7000; opening of 3000 brings the final to 10000.
	assert.InDelta(t, 10000, r.Balance("acct-1", models.CurrencyARS), 1e-9)
	assert.InDelta(t, 3000, r.OpeningBalances["acct-1"][models.CurrencyARS], 1e-9)
}

func TestCashLedgerBuyUSDPairsBothCurrencies(t *testing.T) {
	movSeq++
	buyUSD := models.Movement{
		ID: "x1", Datetime: day(2), Type: models.MovementBuyUSD,
		AccountID: "acct-1", Quantity: 100,
		NetAmount: 120000, TradeCurrency: models.CurrencyARS,
	}
	movs := []models.Movement{
		cashMov(models.MovementDeposit, 1, 200000, models.CurrencyARS),
		buyUSD,
	}

	r := ComputeCashLedger(movs)

	assert.InDelta(t, 80000, r.Balance("acct-1", models.CurrencyARS), 1e-9)
	assert.InDelta(t, 100, r.Balance("acct-1", models.CurrencyUSD), 1e-9)
}

func TestCashLedgerSellUSDPairsBothCurrencies(t *testing.T) {
	sellUSD := models.Movement{
		ID: "x2", Datetime: day(2), Type: models.MovementSellUSD,
		AccountID: "acct-1", Quantity: 50,
		NetAmount: 62500, TradeCurrency: models.CurrencyARS,
	}
	movs := []models.Movement{
		cashMov(models.MovementDeposit, 1, 100, models.CurrencyUSD),
		sellUSD,
	}

	r := ComputeCashLedger(movs)

	assert.InDelta(t, 50, r.Balance("acct-1", models.CurrencyUSD), 1e-9)
	assert.InDelta(t, 62500, r.Balance("acct-1", models.CurrencyARS), 1e-9)
}

func TestCashLedgerForeignFeeDebitsItsOwnCurrency(t *testing.T) {
	buy := models.Movement{
		ID: "x3", Datetime: day(2), Type: models.MovementBuy,
		InstrumentID: "inst-1", AccountID: "acct-1",
		NetAmount: 50000, TradeCurrency: models.CurrencyARS,
		Fee: models.FeeInfo{Amount: 2, Currency: models.CurrencyUSD},
	}
	movs := []models.Movement{
		cashMov(models.MovementDeposit, 1, 50000, models.CurrencyARS),
		cashMov(models.MovementDeposit, 1, 10, models.CurrencyUSD),
		buy,
	}

	r := ComputeCashLedger(movs)

	assert.InDelta(t, 0, r.Balance("acct-1", models.CurrencyARS), 1e-9)
	assert.InDelta(t, 8, r.Balance("acct-1", models.CurrencyUSD), 1e-9)
}

func TestCashLedgerFeeMovement(t *testing.T) {
	fee := models.Movement{
		ID: "x4", Datetime: day(2), Type: models.MovementFee,
		AccountID: "acct-1",
		Fee:       models.FeeInfo{Amount: 150, Currency: models.CurrencyARS},
	}
	movs := []models.Movement{
		cashMov(models.MovementDeposit, 1, 1000, models.CurrencyARS),
		fee,
	}

	r := ComputeCashLedger(movs)

	assert.InDelta(t, 850, r.Balance("acct-1", models.CurrencyARS), 1e-9)
}

func TestCashLedgerDefaultsToARS(t *testing.T) {
	dep := models.Movement{
		ID: "x5", Datetime: day(1), Type: models.MovementDeposit,
		AccountID: "acct-1", NetAmount: 700,
	}

	r := ComputeCashLedger([]models.Movement{dep})

	assert.InDelta(t, 700, r.Balance("acct-1", models.CurrencyARS), 1e-9)
}

func TestCashLedgerTotalUSDImpliesUSD(t *testing.T) {
	dep := models.Movement{
		ID: "x6", Datetime: day(1), Type: models.MovementDeposit,
		AccountID: "acct-1", TotalUSD: 250,
	}

	r := ComputeCashLedger([]models.Movement{dep})

	assert.InDelta(t, 250, r.Balance("acct-1", models.CurrencyUSD), 1e-9)
	assert.Zero(t, r.Balance("acct-1", models.CurrencyARS))
}

func TestCashLedgerMetaOverridesSettlementCurrency(t *testing.T) {
	dep := models.Movement{
		ID: "x7", Datetime: day(1), Type: models.MovementDeposit,
		AccountID: "acct-1", NetAmount: 100,
		TradeCurrency: models.CurrencyARS,
		Meta:          models.MovementMeta{SettlementCurrency: models.CurrencyUSD},
	}

	r := ComputeCashLedger([]models.Movement{dep})

	assert.InDelta(t, 100, r.Balance("acct-1", models.CurrencyUSD), 1e-9)
}

func TestCashLedgerIgnoresNonFiniteAmounts(t *testing.T) {
	bad := models.Movement{
		ID: "x8", Datetime: day(1), Type: models.MovementDeposit,
		AccountID: "acct-1", NetAmount: nan(), TradeCurrency: models.CurrencyARS,
	}
	movs := []models.Movement{
		bad,
		cashMov(models.MovementDeposit, 2, 100, models.CurrencyARS),
	}

	r := ComputeCashLedger(movs)

	assert.InDelta(t, 100, r.Balance("acct-1", models.CurrencyARS), 1e-9)
}

func TestCashLedgerSeparatesAccounts(t *testing.T) {
	other := cashMov(models.MovementDeposit, 1, 500, models.CurrencyARS)
	other.AccountID = "acct-2"
	movs := []models.Movement{
		cashMov(models.MovementDeposit, 1, 1000, models.CurrencyARS),
		other,
	}

	r := ComputeCashLedger(movs)

	assert.InDelta(t, 1000, r.Balance("acct-1", models.CurrencyARS), 1e-9)
	assert.InDelta(t, 500, r.Balance("acct-2", models.CurrencyARS), 1e-9)
}
