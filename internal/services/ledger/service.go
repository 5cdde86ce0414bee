// Package ledger provides movement validation and CRUD over the stores
package ledger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ncasas/cartera/internal/common"
	"github.com/ncasas/cartera/internal/interfaces"
	"github.com/ncasas/cartera/internal/models"
)

// Compile-time interface check
var _ interfaces.LedgerService = (*Service)(nil)

// maxAmount caps stored monetary values to keep arithmetic well away from
// float64 precision loss.
const maxAmount = 1e15

// Service implements LedgerService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new ledger service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// generateMovementID returns a unique ID with "mv_" prefix + 8 hex chars.
func generateMovementID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "mv_00000000"
	}
	return "mv_" + hex.EncodeToString(b)
}

// validateMovement checks that a movement has valid field values.
func validateMovement(mv *models.Movement) error {
	if !models.ValidMovementType(mv.Type) {
		return fmt.Errorf("invalid movement type %q", mv.Type)
	}
	if strings.TrimSpace(mv.AccountID) == "" {
		return fmt.Errorf("account_id is required")
	}
	if mv.Datetime.IsZero() {
		return fmt.Errorf("datetime is required")
	}
	if mv.Datetime.After(time.Now().Add(24 * time.Hour)) {
		return fmt.Errorf("datetime cannot be in the future")
	}
	if models.IncreasesPosition(mv.Type) || models.DecreasesPosition(mv.Type) {
		if mv.InstrumentID != "" && mv.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive for %s movements", mv.Type)
		}
	}
	for name, v := range map[string]float64{
		"quantity":     mv.Quantity,
		"unit_price":   mv.UnitPrice,
		"gross_amount": mv.GrossAmount,
		"net_amount":   mv.NetAmount,
		"total_ars":    mv.TotalARS,
		"total_usd":    mv.TotalUSD,
		"fee.amount":   mv.Fee.Amount,
		"fx.rate":      mv.FX.Rate,
		"fx_at_trade":  mv.FXAtTrade,
	} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("%s must be finite", name)
		}
		if math.Abs(v) > maxAmount {
			return fmt.Errorf("%s exceeds maximum magnitude", name)
		}
	}
	if mv.TradeCurrency != "" &&
		mv.TradeCurrency != models.CurrencyARS && mv.TradeCurrency != models.CurrencyUSD {
		return fmt.Errorf("trade_currency must be ARS or USD")
	}
	return nil
}

// AddMovement validates and stores a new movement, assigning an ID when absent.
func (s *Service) AddMovement(ctx context.Context, mv *models.Movement) error {
	if err := validateMovement(mv); err != nil {
		return fmt.Errorf("invalid movement: %w", err)
	}
	if mv.ID == "" {
		mv.ID = generateMovementID()
	}
	now := time.Now().UTC()
	mv.CreatedAt = now
	mv.UpdatedAt = now

	if err := s.storage.MovementStore().SaveMovement(ctx, mv); err != nil {
		return err
	}

	s.logger.Info().
		Str("id", mv.ID).
		Str("type", string(mv.Type)).
		Str("account", mv.AccountID).
		Float64("quantity", mv.Quantity).
		Msg("Movement added")
	return nil
}

// UpdateMovement replaces an existing movement.
func (s *Service) UpdateMovement(ctx context.Context, mv *models.Movement) error {
	if mv.ID == "" {
		return fmt.Errorf("movement id is required")
	}
	if err := validateMovement(mv); err != nil {
		return fmt.Errorf("invalid movement: %w", err)
	}

	existing, err := s.storage.MovementStore().GetMovement(ctx, mv.ID)
	if err != nil {
		return err
	}
	mv.CreatedAt = existing.CreatedAt
	mv.UpdatedAt = time.Now().UTC()

	if err := s.storage.MovementStore().SaveMovement(ctx, mv); err != nil {
		return err
	}

	s.logger.Info().Str("id", mv.ID).Msg("Movement updated")
	return nil
}

// DeleteMovement removes a movement by ID.
func (s *Service) DeleteMovement(ctx context.Context, id string) error {
	if err := s.storage.MovementStore().DeleteMovement(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("Movement deleted")
	return nil
}

// GetMovement retrieves a movement by ID.
func (s *Service) GetMovement(ctx context.Context, id string) (*models.Movement, error) {
	return s.storage.MovementStore().GetMovement(ctx, id)
}

// ListMovements returns movements matching the filter, chronologically.
func (s *Service) ListMovements(ctx context.Context, filter interfaces.MovementFilter) ([]models.Movement, error) {
	movs, err := s.storage.MovementStore().ListMovements(ctx)
	if err != nil {
		return nil, err
	}

	if filter == (interfaces.MovementFilter{}) {
		return movs, nil
	}

	filtered := make([]models.Movement, 0, len(movs))
	for _, mv := range movs {
		if filter.InstrumentID != "" && mv.InstrumentID != filter.InstrumentID {
			continue
		}
		if filter.AccountID != "" && mv.AccountID != filter.AccountID {
			continue
		}
		if filter.Type != "" && mv.Type != filter.Type {
			continue
		}
		filtered = append(filtered, mv)
	}
	return filtered, nil
}

// SaveInstrument creates or updates an instrument.
func (s *Service) SaveInstrument(ctx context.Context, inst *models.Instrument) error {
	if strings.TrimSpace(inst.ID) == "" {
		return fmt.Errorf("instrument id is required")
	}
	if strings.TrimSpace(inst.Symbol) == "" {
		return fmt.Errorf("instrument symbol is required")
	}
	if inst.NativeCurrency != models.CurrencyARS && inst.NativeCurrency != models.CurrencyUSD {
		return fmt.Errorf("native_currency must be ARS or USD")
	}
	return s.storage.InstrumentStore().SaveInstrument(ctx, inst)
}

// ListInstruments returns all known instruments.
func (s *Service) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	return s.storage.InstrumentStore().ListInstruments(ctx)
}

// SaveAccount creates or updates an account.
func (s *Service) SaveAccount(ctx context.Context, acct *models.Account) error {
	if strings.TrimSpace(acct.ID) == "" {
		return fmt.Errorf("account id is required")
	}
	if strings.TrimSpace(acct.Name) == "" {
		return fmt.Errorf("account name is required")
	}
	return s.storage.AccountStore().SaveAccount(ctx, acct)
}

// ListAccounts returns all known accounts.
func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.storage.AccountStore().ListAccounts(ctx)
}

// SavePrice stores the latest price for an instrument.
func (s *Service) SavePrice(ctx context.Context, instrumentID string, price float64) error {
	if strings.TrimSpace(instrumentID) == "" {
		return fmt.Errorf("instrument id is required")
	}
	if math.IsInf(price, 0) || math.IsNaN(price) || price < 0 {
		return fmt.Errorf("price must be a non-negative finite number")
	}
	return s.storage.PriceStore().SavePrice(ctx, instrumentID, price)
}

// Prices returns the latest price per instrument.
func (s *Service) Prices(ctx context.Context) (map[string]float64, error) {
	return s.storage.PriceStore().ListPrices(ctx)
}
