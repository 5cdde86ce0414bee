// Package models defines data structures for Cartera
package models

import "time"

// MovementType categorizes a financial event in the ledger.
type MovementType string

const (
	MovementBuy         MovementType = "BUY"
	MovementSell        MovementType = "SELL"
	MovementDeposit     MovementType = "DEPOSIT"
	MovementWithdraw    MovementType = "WITHDRAW"
	MovementTransferIn  MovementType = "TRANSFER_IN"
	MovementTransferOut MovementType = "TRANSFER_OUT"
	MovementDividend    MovementType = "DIVIDEND"
	MovementInterest    MovementType = "INTEREST"
	MovementFee         MovementType = "FEE"
	MovementDebtAdd     MovementType = "DEBT_ADD"
	MovementDebtPay     MovementType = "DEBT_PAY"
	MovementBuyUSD      MovementType = "BUY_USD"
	MovementSellUSD     MovementType = "SELL_USD"
)

// validMovementTypes lists all accepted movement types.
var validMovementTypes = map[MovementType]bool{
	MovementBuy:         true,
	MovementSell:        true,
	MovementDeposit:     true,
	MovementWithdraw:    true,
	MovementTransferIn:  true,
	MovementTransferOut: true,
	MovementDividend:    true,
	MovementInterest:    true,
	MovementFee:         true,
	MovementDebtAdd:     true,
	MovementDebtPay:     true,
	MovementBuyUSD:      true,
	MovementSellUSD:     true,
}

// ValidMovementType returns true if t is a valid movement type.
func ValidMovementType(t MovementType) bool {
	return validMovementTypes[t]
}

// IncreasesPosition returns true if the type adds units to a holding.
// DIVIDEND and INTEREST add units at zero cost.
func IncreasesPosition(t MovementType) bool {
	switch t {
	case MovementBuy, MovementBuyUSD, MovementTransferIn, MovementDeposit,
		MovementDebtAdd, MovementDividend, MovementInterest:
		return true
	default:
		return false
	}
}

// DecreasesPosition returns true if the type removes units from a holding.
func DecreasesPosition(t MovementType) bool {
	switch t {
	case MovementSell, MovementSellUSD, MovementTransferOut,
		MovementWithdraw, MovementDebtPay:
		return true
	default:
		return false
	}
}

// FXInfo carries an explicit exchange rate attached to a movement.
type FXInfo struct {
	Rate float64 `json:"rate,omitempty"`
	Type string  `json:"type,omitempty"` // OFICIAL, MEP, CCL, CRIPTO
}

// FeeInfo is a commission or charge attached to a movement, possibly in a
// currency that differs from the settlement currency.
type FeeInfo struct {
	Amount   float64 `json:"amount,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

// MovementMeta holds optional overrides and grouping hints.
type MovementMeta struct {
	SettlementCurrency string `json:"settlement_currency,omitempty"`
	TransferGroup      string `json:"transfer_group,omitempty"`
}

// Movement is a single immutable financial event. The engine never mutates
// movements; all derived state is recomputed in full from the stream.
type Movement struct {
	ID            string       `json:"id"`
	Datetime      time.Time    `json:"datetime"` // processing order key
	Type          MovementType `json:"type"`
	InstrumentID  string       `json:"instrument_id,omitempty"` // empty = pure cash movement
	AccountID     string       `json:"account_id"`
	Quantity      float64      `json:"quantity,omitempty"`
	UnitPrice     float64      `json:"unit_price,omitempty"`
	TradeCurrency string       `json:"trade_currency,omitempty"`
	GrossAmount   float64      `json:"gross_amount,omitempty"`
	NetAmount     float64      `json:"net_amount,omitempty"` // post-fee, preferred over gross
	TotalARS      float64      `json:"total_ars,omitempty"`
	TotalUSD      float64      `json:"total_usd,omitempty"`
	Fee           FeeInfo      `json:"fee,omitempty"`
	FX            FXInfo       `json:"fx,omitempty"`
	FXAtTrade     float64      `json:"fx_at_trade,omitempty"` // historical ARS/USD rate on trade date
	Meta          MovementMeta `json:"meta,omitempty"`
	CreatedAt     time.Time    `json:"created_at,omitempty"`
	UpdatedAt     time.Time    `json:"updated_at,omitempty"`
}
