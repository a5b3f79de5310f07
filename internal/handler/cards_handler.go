package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cashflowpro/forecast-go/internal/domain"
	"github.com/cashflowpro/forecast-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Credit cards
// ============================================================

func listCardsHandler(svc *service.CardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/v1/cards")
		defer span.End()

		cards, err := svc.List(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"cards": cards})
	}
}

func getCardHandler(svc *service.CardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/v1/cards/{cardId}")
		defer span.End()

		card, err := svc.Get(ctx, UserIDFromContext(ctx), chi.URLParam(r, "cardId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, card)
	}
}

func createCardHandler(svc *service.CardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/v1/cards")
		defer span.End()

		var req domain.CreateCardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		card, err := svc.Create(ctx, UserIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, card)
	}
}

func deleteCardHandler(svc *service.CardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /api/v1/cards/{cardId}")
		defer span.End()

		if err := svc.Delete(ctx, UserIDFromContext(ctx), chi.URLParam(r, "cardId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listCardPaymentsHandler(svc *service.CardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/v1/cards/{cardId}/payments")
		defer span.End()

		payments, err := svc.ListPayments(ctx, UserIDFromContext(ctx), chi.URLParam(r, "cardId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"payments": payments})
	}
}

func createCardPaymentHandler(svc *service.CardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/v1/cards/{cardId}/payments")
		defer span.End()

		var req domain.CreateCardPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		payment, err := svc.CreatePayment(ctx, UserIDFromContext(ctx), chi.URLParam(r, "cardId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, payment)
	}
}
