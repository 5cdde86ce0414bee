package server

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ncasas/cartera/internal/interfaces"
	"github.com/ncasas/cartera/internal/models"
	"github.com/ncasas/cartera/internal/storage/sqlite"
)

// statusForError maps storage errors to HTTP status codes.
func statusForError(err error) int {
	if errors.Is(err, sqlite.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// handleListMovements handles GET /api/movements with optional filters.
func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	filter := interfaces.MovementFilter{
		InstrumentID: r.URL.Query().Get("instrument_id"),
		AccountID:    r.URL.Query().Get("account_id"),
		Type:         models.MovementType(strings.ToUpper(r.URL.Query().Get("type"))),
	}

	movs, err := s.app.LedgerService.ListMovements(r.Context(), filter)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if movs == nil {
		movs = []models.Movement{}
	}
	WriteJSON(w, http.StatusOK, movs)
}

// handleAddMovement handles POST /api/movements.
func (s *Server) handleAddMovement(w http.ResponseWriter, r *http.Request) {
	var mv models.Movement
	if !DecodeJSON(w, r, &mv) {
		return
	}

	if err := s.app.LedgerService.AddMovement(r.Context(), &mv); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusCreated, mv)
}

// handleGetMovement handles GET /api/movements/{id}.
func (s *Server) handleGetMovement(w http.ResponseWriter, r *http.Request) {
	mv, err := s.app.LedgerService.GetMovement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, mv)
}

// handleUpdateMovement handles PUT /api/movements/{id}.
func (s *Server) handleUpdateMovement(w http.ResponseWriter, r *http.Request) {
	var mv models.Movement
	if !DecodeJSON(w, r, &mv) {
		return
	}
	mv.ID = chi.URLParam(r, "id")

	if err := s.app.LedgerService.UpdateMovement(r.Context(), &mv); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, mv)
}

// handleDeleteMovement handles DELETE /api/movements/{id}.
func (s *Server) handleDeleteMovement(w http.ResponseWriter, r *http.Request) {
	if err := s.app.LedgerService.DeleteMovement(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListInstruments handles GET /api/instruments.
func (s *Server) handleListInstruments(w http.ResponseWriter, r *http.Request) {
	instruments, err := s.app.LedgerService.ListInstruments(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if instruments == nil {
		instruments = []models.Instrument{}
	}
	WriteJSON(w, http.StatusOK, instruments)
}

// handleSaveInstrument handles PUT /api/instruments.
func (s *Server) handleSaveInstrument(w http.ResponseWriter, r *http.Request) {
	var inst models.Instrument
	if !DecodeJSON(w, r, &inst) {
		return
	}

	if err := s.app.LedgerService.SaveInstrument(r.Context(), &inst); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, inst)
}

// handleListAccounts handles GET /api/accounts.
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.app.LedgerService.ListAccounts(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	WriteJSON(w, http.StatusOK, accounts)
}

// handleSaveAccount handles PUT /api/accounts.
func (s *Server) handleSaveAccount(w http.ResponseWriter, r *http.Request) {
	var acct models.Account
	if !DecodeJSON(w, r, &acct) {
		return
	}

	if err := s.app.LedgerService.SaveAccount(r.Context(), &acct); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, acct)
}

// handleListPrices handles GET /api/prices.
func (s *Server) handleListPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := s.app.LedgerService.Prices(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, prices)
}

// priceRequest is the manual price update payload.
type priceRequest struct {
	Price float64 `json:"price"`
}

// handleSavePrice handles PUT /api/prices/{instrumentID}.
func (s *Server) handleSavePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if math.IsNaN(req.Price) || math.IsInf(req.Price, 0) {
		WriteError(w, http.StatusBadRequest, "price must be finite")
		return
	}

	instrumentID := chi.URLParam(r, "instrumentID")
	if err := s.app.LedgerService.SavePrice(r.Context(), instrumentID, req.Price); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"instrument_id": instrumentID,
		"price":         req.Price,
	})
}
