package models

// Currency codes used throughout the tracker. Cost basis and valuations are
// always carried in both ARS and USD regardless of an instrument's native side.
const (
	CurrencyARS = "ARS"
	CurrencyUSD = "USD"
)

// Category classifies an instrument for valuation purposes. Each category
// selects a specific FX conversion rule (see engine.Valuate).
type Category string

const (
	CategoryCEDEAR  Category = "CEDEAR"
	CategoryCrypto  Category = "CRYPTO"
	CategoryStable  Category = "STABLE"
	CategoryFCI     Category = "FCI"
	CategoryPF      Category = "PF" // plazo fijo (fixed deposit)
	CategoryUSDCash Category = "USD_CASH"
	CategoryARSCash Category = "ARS_CASH"
	CategoryWallet  Category = "WALLET"
	CategoryDebt    Category = "DEBT"
)

// Instrument is an investable asset tracked by the ledger.
type Instrument struct {
	ID             string   `json:"id"`
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name,omitempty"`
	Category       Category `json:"category"`
	NativeCurrency string   `json:"native_currency"` // ARS or USD
}

// Account is a broker, bank or wallet where movements settle.
type Account struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DefaultCurrency string `json:"default_currency,omitempty"`
}
