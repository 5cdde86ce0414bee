package models

import "time"

// RateType identifies which ARS/USD exchange rate applies to a conversion.
// Argentina quotes several parallel rates; the valuation rules pick one per
// asset category.
type RateType string

const (
	RateOficial RateType = "OFICIAL"
	RateMEP     RateType = "MEP"
	RateCCL     RateType = "CCL"
	RateCripto  RateType = "CRIPTO"
)

// FXRates is an immutable snapshot of the ARS/USD quote board. A zero rate
// means the quote is unavailable; the engine degrades instead of failing.
type FXRates struct {
	Oficial float64   `json:"oficial"`
	MEP     float64   `json:"mep"`
	CCL     float64   `json:"ccl"`
	Cripto  float64   `json:"cripto"`
	AsOf    time.Time `json:"as_of,omitempty"`
}

// Rate returns the raw quote for a rate type (0 when unavailable).
func (f FXRates) Rate(t RateType) float64 {
	switch t {
	case RateOficial:
		return f.Oficial
	case RateMEP:
		return f.MEP
	case RateCCL:
		return f.CCL
	case RateCripto:
		return f.Cripto
	default:
		return 0
	}
}
