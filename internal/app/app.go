// Package app wires configuration, storage, clients and services together.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ncasas/cartera/internal/clients/fxrates"
	"github.com/ncasas/cartera/internal/common"
	"github.com/ncasas/cartera/internal/interfaces"
	"github.com/ncasas/cartera/internal/services/fx"
	"github.com/ncasas/cartera/internal/services/ledger"
	"github.com/ncasas/cartera/internal/services/portfolio"
	"github.com/ncasas/cartera/internal/storage/sqlite"
)

// App holds all initialized services, clients and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	FXClient         interfaces.FXRatesClient
	FXService        interfaces.FXService
	LedgerService    interfaces.LedgerService
	PortfolioService interfaces.PortfolioService
	StartupTime      time.Time
}

// NewApp initializes all services, clients and storage.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("CARTERA_CONFIG")
	}
	if configPath == "" {
		configPath = "config/cartera.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative log file path against the working directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		if abs, err := filepath.Abs(config.Logging.FilePath); err == nil {
			config.Logging.FilePath = abs
		}
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storage, err := sqlite.NewManager(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	fxClient := fxrates.NewClient(
		fxrates.WithBaseURL(config.FXRates.BaseURL),
		fxrates.WithRateLimit(config.FXRates.RateLimit),
		fxrates.WithTimeout(config.FXRates.GetTimeout()),
		fxrates.WithLogger(logger),
	)

	fxService := fx.NewService(fxClient, config.FXRates.GetCacheTTL(), logger)
	ledgerService := ledger.NewService(storage, logger)

	portfolioService, err := portfolio.NewService(storage, fxService, config.Portfolio, logger)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("failed to initialize portfolio service: %w", err)
	}

	logger.Info().
		Str("version", common.GetFullVersion()).
		Str("environment", config.Environment).
		Msg("Application initialized")

	return &App{
		Config:           config,
		Logger:           logger,
		Storage:          storage,
		FXClient:         fxClient,
		FXService:        fxService,
		LedgerService:    ledgerService,
		PortfolioService: portfolioService,
		StartupTime:      time.Now(),
	}, nil
}

// Close releases all resources held by the application.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
