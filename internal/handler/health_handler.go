package handler

import (
	"net/http"
	"time"

	"github.com/cashflowpro/forecast-go/internal/domain"
	"github.com/cashflowpro/forecast-go/internal/infra/observability"

	"go.uber.org/zap"
)

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status: "healthy",
			Services: []domain.ServiceHealth{
				{
					Name:        "api",
					Status:      "healthy",
					LastChecked: time.Now().UTC().Format(time.RFC3339),
				},
			},
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func engineMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /api/v1/metrics/engine")
		defer span.End()

		writeJSON(w, http.StatusOK, metrics.GetEngineSnapshot())
	}
}
