// Package interfaces defines service contracts for Cartera
package interfaces

import (
	"context"

	"github.com/ncasas/cartera/internal/models"
)

// FXRatesClient fetches the ARS/USD quote board from an upstream source
type FXRatesClient interface {
	// GetRates retrieves the current quotes for all rate types
	GetRates(ctx context.Context) (models.FXRates, error)
}
