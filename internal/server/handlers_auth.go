package server

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ncasas/cartera/internal/common"
)

// loginRequest is the single-user password login payload.
type loginRequest struct {
	Password string `json:"password"`
}

// loginResponse carries the signed bearer token.
type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// generateToken signs a JWT for the portfolio owner.
func generateToken(config common.AuthConfig) (string, time.Time, error) {
	expiresAt := time.Now().Add(config.GetTokenExpiry())
	claims := jwt.MapClaims{
		"sub": "owner",
		"iat": time.Now().Unix(),
		"exp": expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.JWTSecret))
	return signed, expiresAt, err
}

// handleLogin handles POST /api/auth/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	cfg := s.app.Config.Auth
	if cfg.PasswordHash == "" {
		WriteError(w, http.StatusInternalServerError, "Authentication not configured")
		return
	}

	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cfg.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Msg("Failed login attempt")
		WriteError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, expiresAt, err := generateToken(cfg)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign token")
		WriteError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	WriteJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt})
}
