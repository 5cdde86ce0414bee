package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ncasas/cartera/internal/common"
	"github.com/ncasas/cartera/internal/interfaces"
)

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
		"version": common.GetVersion(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}

// handleGetFXRates handles GET /api/fx.
func (s *Server) handleGetFXRates(w http.ResponseWriter, r *http.Request) {
	rates, err := s.app.FXService.Rates(r.Context())
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, rates)
}

// handleRefreshFXRates handles POST /api/fx/refresh.
func (s *Server) handleRefreshFXRates(w http.ResponseWriter, r *http.Request) {
	rates, err := s.app.FXService.Refresh(r.Context())
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, rates)
}

// handleHoldings handles GET /api/portfolio/holdings.
func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.app.PortfolioService.Holdings(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, holdings)
}

// handleLots handles GET /api/portfolio/holdings/{instrumentID}/{accountID}/lots.
func (s *Server) handleLots(w http.ResponseWriter, r *http.Request) {
	lots, err := s.app.PortfolioService.Lots(r.Context(),
		chi.URLParam(r, "instrumentID"), chi.URLParam(r, "accountID"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, lots)
}

// handleTotals handles GET /api/portfolio/totals.
func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.app.PortfolioService.Totals(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, totals)
}

// handleCashLedger handles GET /api/portfolio/cash.
func (s *Server) handleCashLedger(w http.ResponseWriter, r *http.Request) {
	cash, err := s.app.PortfolioService.CashLedger(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, cash)
}

// handleRealizedPnL handles GET /api/portfolio/realized.
func (s *Server) handleRealizedPnL(w http.ResponseWriter, r *http.Request) {
	pnl, err := s.app.PortfolioService.RealizedPnL(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, pnl)
}

// handleSimulateSale handles POST /api/portfolio/simulate-sale.
func (s *Server) handleSimulateSale(w http.ResponseWriter, r *http.Request) {
	var req interfaces.SaleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	allocation, err := s.app.PortfolioService.SimulateSale(r.Context(), req)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, allocation)
}
