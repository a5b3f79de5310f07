package handler

import (
	"fmt"
	"net/http"

	"github.com/cashflowpro/forecast-go/internal/service"

	"go.uber.org/zap"
)

func forecastHandler(svc *service.ForecastService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/v1/forecast")
		defer span.End()

		userID := UserIDFromContext(ctx)
		days := queryInt(r, "days", 0)
		balance := queryFloat(r, "balance")

		resp, err := svc.Forecast(ctx, userID, days, balance)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func forecastStatsHandler(svc *service.ForecastService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/v1/forecast/stats")
		defer span.End()

		userID := UserIDFromContext(ctx)
		days := queryInt(r, "days", 0)
		balance := queryFloat(r, "balance")

		stats, err := svc.Stats(ctx, userID, days, balance)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

func forecastExportHandler(svc *service.ExportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/v1/forecast/export")
		defer span.End()

		userID := UserIDFromContext(ctx)
		days := queryInt(r, "days", 0)
		balance := queryFloat(r, "balance")
		format := r.URL.Query().Get("format")
		if format == "" {
			format = service.FormatCSV
		}

		res, err := svc.Export(ctx, userID, days, balance, format)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.Header().Set("Content-Type", res.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
		w.WriteHeader(http.StatusOK)
		w.Write(res.Data)
	}
}
