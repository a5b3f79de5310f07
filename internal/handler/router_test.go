package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cashflowpro/forecast-go/internal/handler"
	"github.com/cashflowpro/forecast-go/internal/infra/observability"
	"github.com/cashflowpro/forecast-go/internal/service"

	"go.uber.org/zap"
)

func TestHealthz(t *testing.T) {
	router := handler.NewRouter(handler.Services{}, observability.NewMetrics(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	router := handler.NewRouter(handler.Services{}, observability.NewMetrics(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	router := handler.NewRouter(handler.Services{}, observability.NewMetrics(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestPing(t *testing.T) {
	router := handler.NewRouter(handler.Services{}, observability.NewMetrics(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	authSvc := service.NewAuthService(nil, zap.NewNop(), "router-test-secret", time.Minute)
	router := handler.NewRouter(handler.Services{Auth: authSvc}, observability.NewMetrics(), zap.NewNop())

	paths := []string{"/api/v1/forecast", "/api/v1/rules", "/api/v1/cards"}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestAuthUnavailableWithoutSupabase(t *testing.T) {
	router := handler.NewRouter(handler.Services{}, observability.NewMetrics(), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}
