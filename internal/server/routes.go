package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// routes builds the router with the full middleware chain.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(recoveryMiddleware(s.logger))
	r.Use(correlationIDMiddleware)
	r.Use(loggingMiddleware(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Correlation-ID"},
	}))
	r.Use(authMiddleware(s.app.Config.Auth.JWTSecret, s.logger))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/version", s.handleVersion)
	r.Post("/api/auth/login", s.handleLogin)

	// Ledger
	r.Get("/api/movements", s.handleListMovements)
	r.Post("/api/movements", s.handleAddMovement)
	r.Get("/api/movements/{id}", s.handleGetMovement)
	r.Put("/api/movements/{id}", s.handleUpdateMovement)
	r.Delete("/api/movements/{id}", s.handleDeleteMovement)

	// Reference data
	r.Get("/api/instruments", s.handleListInstruments)
	r.Put("/api/instruments", s.handleSaveInstrument)
	r.Get("/api/accounts", s.handleListAccounts)
	r.Put("/api/accounts", s.handleSaveAccount)
	r.Get("/api/prices", s.handleListPrices)
	r.Put("/api/prices/{instrumentID}", s.handleSavePrice)

	// FX
	r.Get("/api/fx", s.handleGetFXRates)
	r.Post("/api/fx/refresh", s.handleRefreshFXRates)

	// Portfolio
	r.Get("/api/portfolio/holdings", s.handleHoldings)
	r.Get("/api/portfolio/holdings/{instrumentID}/{accountID}/lots", s.handleLots)
	r.Get("/api/portfolio/totals", s.handleTotals)
	r.Get("/api/portfolio/cash", s.handleCashLedger)
	r.Get("/api/portfolio/realized", s.handleRealizedPnL)
	r.Post("/api/portfolio/simulate-sale", s.handleSimulateSale)

	return r
}
