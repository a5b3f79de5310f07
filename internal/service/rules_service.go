package service

import (
	"context"
	"time"

	"github.com/cashflowpro/forecast-go/internal/domain"
	"github.com/cashflowpro/forecast-go/internal/infra/observability"
	"github.com/cashflowpro/forecast-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var rulesTracer = otel.Tracer("service/rules")

// RulesService validates and persists budget rules.
type RulesService struct {
	store       port.RuleStore
	invalidator ForecastInvalidator
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewRulesService creates the rules service.
func NewRulesService(store port.RuleStore, invalidator ForecastInvalidator, metrics *observability.Metrics, logger *zap.Logger) *RulesService {
	return &RulesService{store: store, invalidator: invalidator, metrics: metrics, logger: logger}
}

// List returns all budget rules for a user.
func (s *RulesService) List(ctx context.Context, userID string) ([]domain.BudgetRule, error) {
	ctx, span := rulesTracer.Start(ctx, "RulesService.List")
	defer span.End()

	start := time.Now()
	rules, err := s.store.ListRules(ctx, userID)
	s.metrics.RecordRequestDuration("rules_list", time.Since(start))
	return rules, err
}

// Get returns a single budget rule.
func (s *RulesService) Get(ctx context.Context, userID, ruleID string) (*domain.BudgetRule, error) {
	ctx, span := rulesTracer.Start(ctx, "RulesService.Get")
	defer span.End()

	return s.store.GetRule(ctx, userID, ruleID)
}

// Create validates and stores a new budget rule.
func (s *RulesService) Create(ctx context.Context, userID string, req *domain.CreateRuleRequest) (*domain.BudgetRule, error) {
	ctx, span := rulesTracer.Start(ctx, "RulesService.Create")
	defer span.End()

	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	rule, err := s.store.CreateRule(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateUser(userID)
	s.logger.Info("budget rule created",
		zap.String("user_id", userID),
		zap.String("rule_id", rule.ID),
		zap.String("frequency", rule.Frequency),
	)
	return rule, nil
}

// Update applies a partial update to a rule. Changed fields are
// validated with the same bounds as creation.
func (s *RulesService) Update(ctx context.Context, userID, ruleID string, req *domain.UpdateRuleRequest) (*domain.BudgetRule, error) {
	ctx, span := rulesTracer.Start(ctx, "RulesService.Update")
	defer span.End()

	existing, err := s.store.GetRule(ctx, userID, ruleID)
	if err != nil {
		return nil, err
	}
	if err := s.validateUpdate(existing, req); err != nil {
		return nil, err
	}

	rule, err := s.store.UpdateRule(ctx, userID, ruleID, req)
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateUser(userID)
	s.logger.Info("budget rule updated", zap.String("user_id", userID), zap.String("rule_id", ruleID))
	return rule, nil
}

// Delete removes a rule. Override transactions that referenced it stay
// in place and keep appearing as standalone events.
func (s *RulesService) Delete(ctx context.Context, userID, ruleID string) error {
	ctx, span := rulesTracer.Start(ctx, "RulesService.Delete")
	defer span.End()

	if _, err := s.store.GetRule(ctx, userID, ruleID); err != nil {
		return err
	}
	if err := s.store.DeleteRule(ctx, userID, ruleID); err != nil {
		return err
	}

	s.invalidator.InvalidateUser(userID)
	s.logger.Info("budget rule deleted", zap.String("user_id", userID), zap.String("rule_id", ruleID))
	return nil
}

func (s *RulesService) validateCreate(req *domain.CreateRuleRequest) error {
	if req.Name == "" {
		return &domain.ErrValidation{Field: "name", Message: "is required"}
	}
	if err := validateMaxLen("name", req.Name, maxNameLen); err != nil {
		return err
	}
	if err := validateAmount("amount", req.Amount); err != nil {
		return err
	}
	if err := validateType("type", req.Type); err != nil {
		return err
	}
	if err := validateRecurrenceDay(req.Frequency, req.RecurrenceDay); err != nil {
		return err
	}
	if err := validateDate("start_date", req.StartDate); err != nil {
		return err
	}
	if req.EndDate != nil {
		if err := validateDate("end_date", *req.EndDate); err != nil {
			return err
		}
		if err := validateDateOrder(req.StartDate, *req.EndDate); err != nil {
			return err
		}
	}
	return nil
}

func (s *RulesService) validateUpdate(existing *domain.BudgetRule, req *domain.UpdateRuleRequest) error {
	if req.Name != nil {
		if *req.Name == "" {
			return &domain.ErrValidation{Field: "name", Message: "must not be empty"}
		}
		if err := validateMaxLen("name", *req.Name, maxNameLen); err != nil {
			return err
		}
	}
	if req.Amount != nil {
		if err := validateAmount("amount", *req.Amount); err != nil {
			return err
		}
	}
	if req.Type != nil {
		if err := validateType("type", *req.Type); err != nil {
			return err
		}
	}

	// Frequency and recurrence day are validated against the values
	// the rule will have after the patch.
	frequency := existing.Frequency
	if req.Frequency != nil {
		frequency = *req.Frequency
	}
	recDay := existing.RecurrenceDay
	if req.RecurrenceDay != nil {
		recDay = req.RecurrenceDay
	}
	if req.Frequency != nil || req.RecurrenceDay != nil {
		if err := validateRecurrenceDay(frequency, recDay); err != nil {
			return err
		}
	}

	startDate := existing.StartDate
	if req.StartDate != nil {
		if err := validateDate("start_date", *req.StartDate); err != nil {
			return err
		}
		startDate = *req.StartDate
	}
	endDate := existing.EndDate
	if req.EndDate != nil {
		if err := validateDate("end_date", *req.EndDate); err != nil {
			return err
		}
		endDate = req.EndDate
	}
	if endDate != nil {
		if err := validateDateOrder(startDate, *endDate); err != nil {
			return err
		}
	}
	return nil
}
