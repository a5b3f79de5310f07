package handler

import (
	"net/http"

	"github.com/cashflowpro/forecast-go/internal/infra/observability"
	"github.com/cashflowpro/forecast-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Services bundles everything the router hands out to handlers.
type Services struct {
	Auth         *service.AuthService
	Forecast     *service.ForecastService
	Export       *service.ExportService
	Rules        *service.RulesService
	Transactions *service.TransactionsService
	Checkpoints  *service.CheckpointsService
	Cards        *service.CardsService
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svcs Services, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/api/v1", func(r chi.Router) {

		// Public: authentication
		r.Route("/auth", func(r chi.Router) {
			if svcs.Auth == nil {
				r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					writeError(w, http.StatusServiceUnavailable, "auth service unavailable: Supabase not configured")
				}))
				return
			}
			r.Post("/login", authLoginHandler(svcs.Auth, logger))
		})

		// Protected: everything else requires a valid access token.
		r.Group(func(r chi.Router) {
			if svcs.Auth != nil {
				r.Use(JWTAuthMiddleware(svcs.Auth, logger))
			}

			// Forecast
			r.Get("/forecast", forecastHandler(svcs.Forecast, logger))
			r.Get("/forecast/stats", forecastStatsHandler(svcs.Forecast, logger))
			r.Get("/forecast/export", forecastExportHandler(svcs.Export, logger))

			// Budget rules
			r.Get("/rules", listRulesHandler(svcs.Rules, logger))
			r.Post("/rules", createRuleHandler(svcs.Rules, logger))
			r.Get("/rules/{ruleId}", getRuleHandler(svcs.Rules, logger))
			r.Patch("/rules/{ruleId}", updateRuleHandler(svcs.Rules, logger))
			r.Delete("/rules/{ruleId}", deleteRuleHandler(svcs.Rules, logger))

			// One-time transactions and overrides
			r.Get("/transactions", listTransactionsHandler(svcs.Transactions, logger))
			r.Post("/transactions", createTransactionHandler(svcs.Transactions, logger))
			r.Get("/transactions/{txnId}", getTransactionHandler(svcs.Transactions, logger))
			r.Patch("/transactions/{txnId}", updateTransactionHandler(svcs.Transactions, logger))
			r.Delete("/transactions/{txnId}", deleteTransactionHandler(svcs.Transactions, logger))

			// Balance checkpoints
			r.Get("/checkpoints", listCheckpointsHandler(svcs.Checkpoints, logger))
			r.Post("/checkpoints", createCheckpointHandler(svcs.Checkpoints, logger))
			r.Delete("/checkpoints/{checkpointId}", deleteCheckpointHandler(svcs.Checkpoints, logger))

			// Credit cards
			r.Get("/cards", listCardsHandler(svcs.Cards, logger))
			r.Post("/cards", createCardHandler(svcs.Cards, logger))
			r.Get("/cards/{cardId}", getCardHandler(svcs.Cards, logger))
			r.Delete("/cards/{cardId}", deleteCardHandler(svcs.Cards, logger))
			r.Get("/cards/{cardId}/payments", listCardPaymentsHandler(svcs.Cards, logger))
			r.Post("/cards/{cardId}/payments", createCardPaymentHandler(svcs.Cards, logger))

			// Engine metrics snapshot
			r.Get("/metrics/engine", engineMetricsHandler(metrics, logger))
		})
	})

	return r
}
