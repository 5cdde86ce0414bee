package engine

import (
	"github.com/ncasas/cartera/internal/models"
)

// mulRate multiplies by an FX rate, passing through unchanged (rate 1) when
// the quote is unavailable.
func mulRate(v, rate float64) float64 {
	if rate <= 0 {
		return v
	}
	return v * rate
}

// divRate divides by an FX rate; an unavailable or zero rate yields 0 so the
// converted side never becomes NaN or infinite.
func divRate(v, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return v / rate
}

// Valuate converts a position's quantity and price into a dual ARS/USD value
// using the category's conversion rule. Every branch reports which FX rate
// fired so the result is auditable downstream.
//
// Rules, in category priority order:
//   - CRYPTO/STABLE: price is USD, ARS derives via the CRIPTO rate.
//   - CEDEAR: price is ARS, USD derives via MEP.
//   - USD_CASH / ARS_CASH: quantity is the cash amount, converted via OFICIAL.
//   - everything else: quantity x price in the native currency, converted via MEP.
func Valuate(quantity, price float64, category models.Category, nativeCurrency string, fx models.FXRates) models.ValuationResult {
	quantity = finite(quantity)
	price = finite(price)

	if quantity == 0 {
		return models.ValuationResult{RuleApplied: models.RuleDefaultFallback}
	}

	switch category {
	case models.CategoryCrypto, models.CategoryStable:
		valueUSD := quantity * price
		rate := fx.Rate(models.RateCripto)
		return models.ValuationResult{
			ValueARS:     mulRate(valueUSD, rate),
			ValueUSD:     valueUSD,
			FXUsed:       models.RateCripto,
			ExchangeRate: rate,
			RuleApplied:  models.RuleCryptoUSD,
		}

	case models.CategoryCEDEAR:
		valueARS := quantity * price
		rate := fx.Rate(models.RateMEP)
		return models.ValuationResult{
			ValueARS:     valueARS,
			ValueUSD:     divRate(valueARS, rate),
			FXUsed:       models.RateMEP,
			ExchangeRate: rate,
			RuleApplied:  models.RuleCedearARS,
		}

	case models.CategoryUSDCash:
		rate := fx.Rate(models.RateOficial)
		return models.ValuationResult{
			ValueARS:     mulRate(quantity, rate),
			ValueUSD:     quantity,
			FXUsed:       models.RateOficial,
			ExchangeRate: rate,
			RuleApplied:  models.RuleUSDCash,
		}

	case models.CategoryARSCash:
		rate := fx.Rate(models.RateOficial)
		return models.ValuationResult{
			ValueARS:     quantity,
			ValueUSD:     divRate(quantity, rate),
			FXUsed:       models.RateOficial,
			ExchangeRate: rate,
			RuleApplied:  models.RuleARSCash,
		}
	}

	// Fallback for FCI, WALLET, DEBT and anything uncategorized: a missing
	// price values each unit at par in the native currency.
	if price == 0 {
		price = 1
	}
	native := quantity * price
	rate := fx.Rate(models.RateMEP)
	if nativeCurrency == models.CurrencyUSD {
		return models.ValuationResult{
			ValueARS:     mulRate(native, rate),
			ValueUSD:     native,
			FXUsed:       models.RateMEP,
			ExchangeRate: rate,
			RuleApplied:  models.RuleNativeUSD,
		}
	}
	return models.ValuationResult{
		ValueARS:     native,
		ValueUSD:     divRate(native, rate),
		FXUsed:       models.RateMEP,
		ExchangeRate: rate,
		RuleApplied:  models.RuleNativeARS,
	}
}
