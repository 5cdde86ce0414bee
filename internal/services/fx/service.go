// Package fx provides the cached ARS/USD quote board service
package fx

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ncasas/cartera/internal/common"
	"github.com/ncasas/cartera/internal/interfaces"
	"github.com/ncasas/cartera/internal/models"
)

// Compile-time interface check
var _ interfaces.FXService = (*Service)(nil)

const (
	snapshotKey = "fx_snapshot"
	staleKey    = "fx_snapshot_stale"
)

// Service implements FXService with a short-lived cache in front of the
// upstream client and a never-expiring stale copy behind it. A dead upstream
// serves the last known quotes; with no quotes ever fetched it serves a zero
// snapshot, which downstream valuation treats as rate-unavailable.
type Service struct {
	client interfaces.FXRatesClient
	cache  *gocache.Cache
	logger *common.Logger
}

// NewService creates a new FX service with the given cache TTL
func NewService(client interfaces.FXRatesClient, cacheTTL time.Duration, logger *common.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{
		client: client,
		cache:  gocache.New(cacheTTL, 10*time.Minute),
		logger: logger,
	}
}

// Rates returns the current quote snapshot, serving cached data when fresh
// and stale data when the upstream source is unavailable.
func (s *Service) Rates(ctx context.Context) (models.FXRates, error) {
	if v, ok := s.cache.Get(snapshotKey); ok {
		return v.(models.FXRates), nil
	}
	return s.Refresh(ctx)
}

// Refresh forces a fetch from the upstream source.
func (s *Service) Refresh(ctx context.Context) (models.FXRates, error) {
	rates, err := s.client.GetRates(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("FX rates fetch failed, serving stale snapshot")
		if v, ok := s.cache.Get(staleKey); ok {
			return v.(models.FXRates), nil
		}
		return models.FXRates{}, nil
	}

	s.cache.Set(snapshotKey, rates, gocache.DefaultExpiration)
	s.cache.Set(staleKey, rates, gocache.NoExpiration)
	return rates, nil
}
