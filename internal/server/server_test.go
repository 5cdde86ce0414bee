package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ncasas/cartera/internal/app"
	"github.com/ncasas/cartera/internal/common"
	"github.com/ncasas/cartera/internal/models"
	"github.com/ncasas/cartera/internal/services/ledger"
	"github.com/ncasas/cartera/internal/services/portfolio"
	"github.com/ncasas/cartera/internal/storage/sqlite"
)

// fakeFXService serves a fixed quote board.
type fakeFXService struct {
	rates models.FXRates
}

func (f *fakeFXService) Rates(ctx context.Context) (models.FXRates, error) {
	return f.rates, nil
}

func (f *fakeFXService) Refresh(ctx context.Context) (models.FXRates, error) {
	return f.rates, nil
}

// newTestServer builds a server backed by a temp SQLite database and a
// fixed FX quote board. The returned app uses the given auth config.
func newTestServer(t *testing.T, auth common.AuthConfig) *Server {
	t.Helper()

	logger := common.NewSilentLogger()
	storage, err := sqlite.NewManager(logger, filepath.Join(t.TempDir(), "cartera.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { storage.Close() })

	fxService := &fakeFXService{rates: models.FXRates{
		Oficial: 1000, MEP: 1200, CCL: 1250, Cripto: 1300,
		AsOf: time.Now(),
	}}

	cfg := common.NewDefaultConfig()
	cfg.Auth = auth
	cfg.Portfolio = common.PortfolioConfig{TopPositions: 5, TrackCash: true, CostBasisMethod: "average"}

	ledgerService := ledger.NewService(storage, logger)
	portfolioService, err := portfolio.NewService(storage, fxService, cfg.Portfolio, logger)
	if err != nil {
		t.Fatalf("failed to create portfolio service: %v", err)
	}

	return NewServer(&app.App{
		Config:           cfg,
		Logger:           logger,
		Storage:          storage,
		FXService:        fxService,
		LedgerService:    ledgerService,
		PortfolioService: portfolioService,
		StartupTime:      time.Now(),
	})
}

// doJSON performs a request against the server handler and decodes the
// response body into out when out is non-nil.
func doJSON(t *testing.T, s *Server, method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	if out != nil && rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
		}
	}
	return rr
}

func TestServerHandlerNotNil(t *testing.T) {
	s := newTestServer(t, common.AuthConfig{})
	if s.Handler() == nil {
		t.Fatal("expected non-nil handler")
	}
	if s.server.Addr == "" {
		t.Error("expected server address to be set")
	}
}

func TestCorrelationIDHeader(t *testing.T) {
	s := newTestServer(t, common.AuthConfig{})

	rr := doJSON(t, s, http.MethodGet, "/api/health", nil, nil)
	if rr.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected generated correlation ID header")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Correlation-ID"); got != "req-42" {
		t.Errorf("expected correlation ID req-42, got %q", got)
	}
}
