// Package service implements the application services: forecast
// orchestration, validated CRUD over rules/transactions/checkpoints/
// cards, export rendering and authentication.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cashflowpro/forecast-go/internal/domain"
	"github.com/cashflowpro/forecast-go/internal/forecast"
	"github.com/cashflowpro/forecast-go/internal/infra/observability"
	"github.com/cashflowpro/forecast-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var forecastTracer = otel.Tracer("service/forecast")

// ForecastInvalidator lets write paths drop cached projections for a
// user after rules, transactions, checkpoints or cards change.
type ForecastInvalidator interface {
	InvalidateUser(userID string)
}

// ForecastService loads a user's financial snapshot, runs the
// simulation engine over it and caches the projection.
type ForecastService struct {
	rules       port.RuleStore
	txns        port.TransactionStore
	checkpoints port.CheckpointStore
	cards       port.CardStore
	cache       port.Cache[*domain.ForecastResponse]
	metrics     *observability.Metrics
	logger      *zap.Logger

	defaultDays int
	maxDays     int

	// versions holds a per-user generation counter folded into cache
	// keys, so a write invalidates every cached horizon at once.
	versions sync.Map // userID -> *atomic.Int64
}

// NewForecastService creates the forecast service with all
// dependencies injected.
func NewForecastService(
	rules port.RuleStore,
	txns port.TransactionStore,
	checkpoints port.CheckpointStore,
	cards port.CardStore,
	cache port.Cache[*domain.ForecastResponse],
	metrics *observability.Metrics,
	logger *zap.Logger,
	defaultDays, maxDays int,
) *ForecastService {
	return &ForecastService{
		rules:       rules,
		txns:        txns,
		checkpoints: checkpoints,
		cards:       cards,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
		defaultDays: defaultDays,
		maxDays:     maxDays,
	}
}

// InvalidateUser bumps the user's cache generation.
func (s *ForecastService) InvalidateUser(userID string) {
	s.userVersion(userID).Add(1)
}

func (s *ForecastService) userVersion(userID string) *atomic.Int64 {
	v, _ := s.versions.LoadOrStore(userID, &atomic.Int64{})
	return v.(*atomic.Int64)
}

// Forecast projects the user's balance forward from today.
// A zero or negative days value falls back to the configured default
// horizon; values above the configured maximum are rejected.
func (s *ForecastService) Forecast(ctx context.Context, userID string, days int, balance *float64) (*domain.ForecastResponse, error) {
	return s.ForecastAt(ctx, userID, days, balance, time.Now())
}

// ForecastAt is Forecast with an explicit day-zero anchor, captured
// once per run so long processes never drift mid-walk.
func (s *ForecastService) ForecastAt(ctx context.Context, userID string, days int, balance *float64, anchor time.Time) (*domain.ForecastResponse, error) {
	ctx, span := forecastTracer.Start(ctx, "ForecastService.ForecastAt")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Int("forecast.days", days),
	)

	if days <= 0 {
		days = s.defaultDays
	}
	if days > s.maxDays {
		return nil, &domain.ErrValidation{
			Field:   "days",
			Message: fmt.Sprintf("horizon must not exceed %d days", s.maxDays),
		}
	}

	anchorKey := forecast.DayKey(anchor)
	cacheKey := s.cacheKey(userID, days, balance, anchorKey)
	if cached, ok := s.cache.Get(cacheKey); ok {
		s.metrics.IncrCacheHit("forecast")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("forecast")

	snap, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		s.metrics.RecordSimulation("error", 0, days, false)
		return nil, err
	}

	startingBalance := s.resolveStartingBalance(balance, snap.checkpoints, anchor)
	transactions := append(snap.transactions, cardDueEvents(snap.cards)...)

	simStart := time.Now()
	results := forecast.Simulate(startingBalance, snap.rules, transactions, snap.checkpoints, days, anchor)
	stats := forecast.ComputeStats(results)
	s.metrics.RecordSimulation("success", time.Since(simStart), days, stats.HasOverdraft)

	if stats.HasOverdraft {
		s.logger.Info("forecast predicts overdraft",
			zap.String("user_id", userID),
			zap.Intp("days_until_overdraft", stats.DaysUntilOverdraft),
			zap.Float64("lowest_balance", stats.LowestBalance),
		)
	}

	resp := &domain.ForecastResponse{
		StartingBalance: startingBalance,
		Horizon:         days,
		AnchorDate:      anchorKey,
		Days:            results,
		Stats:           stats,
	}
	s.cache.Set(cacheKey, resp)
	return resp, nil
}

// Stats runs the projection and returns only the summary.
func (s *ForecastService) Stats(ctx context.Context, userID string, days int, balance *float64) (*domain.SimulationStats, error) {
	resp, err := s.Forecast(ctx, userID, days, balance)
	if err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

func (s *ForecastService) cacheKey(userID string, days int, balance *float64, anchorKey string) string {
	gen := s.userVersion(userID).Load()
	if balance != nil {
		return fmt.Sprintf("forecast:%s:%d:%s:%g:g%d", userID, days, anchorKey, *balance, gen)
	}
	return fmt.Sprintf("forecast:%s:%d:%s:auto:g%d", userID, days, anchorKey, gen)
}

type snapshot struct {
	rules        []domain.BudgetRule
	transactions []domain.OneTimeTransaction
	checkpoints  domain.CheckpointMap
	cards        []domain.CreditCard
}

// loadSnapshot fetches the four inputs concurrently. The engine needs
// a consistent snapshot, so any fetch failure fails the run.
func (s *ForecastService) loadSnapshot(ctx context.Context, userID string) (*snapshot, error) {
	var snap snapshot

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rules, err := s.rules.ListRules(gCtx, userID)
		if err != nil {
			s.logger.Error("failed to load rules", zap.String("user_id", userID), zap.Error(err))
			s.metrics.IncrExternalError("rules")
			return fmt.Errorf("rules fetch: %w", err)
		}
		snap.rules = rules
		return nil
	})

	g.Go(func() error {
		txns, err := s.txns.ListTransactions(gCtx, userID)
		if err != nil {
			s.logger.Error("failed to load transactions", zap.String("user_id", userID), zap.Error(err))
			s.metrics.IncrExternalError("transactions")
			return fmt.Errorf("transactions fetch: %w", err)
		}
		snap.transactions = txns
		return nil
	})

	g.Go(func() error {
		cps, err := s.checkpoints.GetCheckpointMap(gCtx, userID)
		if err != nil {
			s.logger.Error("failed to load checkpoints", zap.String("user_id", userID), zap.Error(err))
			s.metrics.IncrExternalError("checkpoints")
			return fmt.Errorf("checkpoints fetch: %w", err)
		}
		snap.checkpoints = cps
		return nil
	})

	g.Go(func() error {
		cards, err := s.cards.ListCards(gCtx, userID)
		if err != nil {
			s.logger.Error("failed to load cards", zap.String("user_id", userID), zap.Error(err))
			s.metrics.IncrExternalError("cards")
			return fmt.Errorf("cards fetch: %w", err)
		}
		snap.cards = cards
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// resolveStartingBalance prefers an explicit balance from the caller,
// then the most recent checkpoint on or before the anchor, then zero.
func (s *ForecastService) resolveStartingBalance(balance *float64, checkpoints domain.CheckpointMap, anchor time.Time) float64 {
	if balance != nil {
		return *balance
	}

	anchorKey := forecast.DayKey(anchor)
	bestKey := ""
	best := 0.0
	for date, value := range checkpoints {
		if date <= anchorKey && date > bestKey {
			bestKey = date
			best = value
		}
	}
	if bestKey == "" {
		return 0
	}
	return best
}

// cardDueEvents turns active cards with a carried balance into
// projected one-time expenses on their next due date.
func cardDueEvents(cards []domain.CreditCard) []domain.OneTimeTransaction {
	var out []domain.OneTimeTransaction
	for _, c := range cards {
		if !c.IsActive || c.Balance <= 0 || c.DueDate == "" {
			continue
		}
		out = append(out, domain.OneTimeTransaction{
			ID:          "card-due-" + c.ID,
			UserID:      c.UserID,
			Date:        c.DueDate,
			Description: c.Name + " payment",
			Amount:      c.Balance,
			Type:        domain.TypeExpense,
		})
	}
	return out
}
