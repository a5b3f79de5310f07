package service

import (
	"context"
	"fmt"

	"github.com/cashflowpro/forecast-go/internal/domain"
	"github.com/cashflowpro/forecast-go/internal/infra/observability"
	"github.com/cashflowpro/forecast-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var txnTracer = otel.Tracer("service/transactions")

// TransactionsService validates and persists one-time transactions and
// rule overrides.
type TransactionsService struct {
	store       port.TransactionStore
	rules       port.RuleStore
	invalidator ForecastInvalidator
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewTransactionsService creates the transactions service.
func NewTransactionsService(store port.TransactionStore, rules port.RuleStore, invalidator ForecastInvalidator, metrics *observability.Metrics, logger *zap.Logger) *TransactionsService {
	return &TransactionsService{store: store, rules: rules, invalidator: invalidator, metrics: metrics, logger: logger}
}

// List returns all one-time transactions for a user, overrides
// included.
func (s *TransactionsService) List(ctx context.Context, userID string) ([]domain.OneTimeTransaction, error) {
	ctx, span := txnTracer.Start(ctx, "TransactionsService.List")
	defer span.End()

	return s.store.ListTransactions(ctx, userID)
}

// Get returns a single transaction.
func (s *TransactionsService) Get(ctx context.Context, userID, txnID string) (*domain.OneTimeTransaction, error) {
	ctx, span := txnTracer.Start(ctx, "TransactionsService.Get")
	defer span.End()

	return s.store.GetTransaction(ctx, userID, txnID)
}

// Create validates and stores a transaction. Overrides must reference
// an existing rule and at most one override may exist per rule and
// date.
func (s *TransactionsService) Create(ctx context.Context, userID string, req *domain.CreateTransactionRequest) (*domain.OneTimeTransaction, error) {
	ctx, span := txnTracer.Start(ctx, "TransactionsService.Create")
	defer span.End()

	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	if req.OverrideRuleID != "" {
		if _, err := s.rules.GetRule(ctx, userID, req.OverrideRuleID); err != nil {
			return nil, err
		}
		existing, err := s.store.FindOverride(ctx, userID, req.OverrideRuleID, req.Date)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, &domain.ErrDuplicate{
				Key: fmt.Sprintf("override for rule %s on %s", req.OverrideRuleID, req.Date),
			}
		}
	}

	txn, err := s.store.CreateTransaction(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateUser(userID)
	s.logger.Info("transaction created",
		zap.String("user_id", userID),
		zap.String("transaction_id", txn.ID),
		zap.Bool("is_override", txn.IsOverride),
	)
	return txn, nil
}

// Update applies a partial update. The override linkage is immutable;
// delete and recreate to re-target an override.
func (s *TransactionsService) Update(ctx context.Context, userID, txnID string, req *domain.UpdateTransactionRequest) (*domain.OneTimeTransaction, error) {
	ctx, span := txnTracer.Start(ctx, "TransactionsService.Update")
	defer span.End()

	existing, err := s.store.GetTransaction(ctx, userID, txnID)
	if err != nil {
		return nil, err
	}
	if err := s.validateUpdate(req); err != nil {
		return nil, err
	}

	// Moving an override to a date that already carries one for the
	// same rule would break per-date uniqueness.
	if req.Date != nil && existing.IsOverride && *req.Date != existing.Date {
		dup, err := s.store.FindOverride(ctx, userID, existing.OverrideRuleID, *req.Date)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, &domain.ErrDuplicate{
				Key: fmt.Sprintf("override for rule %s on %s", existing.OverrideRuleID, *req.Date),
			}
		}
	}

	txn, err := s.store.UpdateTransaction(ctx, userID, txnID, req)
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateUser(userID)
	s.logger.Info("transaction updated", zap.String("user_id", userID), zap.String("transaction_id", txnID))
	return txn, nil
}

// Delete removes a transaction. Deleting an override lets the rule's
// natural occurrence fire again on that date.
func (s *TransactionsService) Delete(ctx context.Context, userID, txnID string) error {
	ctx, span := txnTracer.Start(ctx, "TransactionsService.Delete")
	defer span.End()

	if _, err := s.store.GetTransaction(ctx, userID, txnID); err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, userID, txnID); err != nil {
		return err
	}

	s.invalidator.InvalidateUser(userID)
	s.logger.Info("transaction deleted", zap.String("user_id", userID), zap.String("transaction_id", txnID))
	return nil
}

func (s *TransactionsService) validateCreate(req *domain.CreateTransactionRequest) error {
	if err := validateDate("date", req.Date); err != nil {
		return err
	}
	if err := validateAmount("amount", req.Amount); err != nil {
		return err
	}
	if err := validateType("type", req.Type); err != nil {
		return err
	}
	return validateMaxLen("description", req.Description, maxDescription)
}

func (s *TransactionsService) validateUpdate(req *domain.UpdateTransactionRequest) error {
	if req.Date != nil {
		if err := validateDate("date", *req.Date); err != nil {
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
	if req.Description != nil {
		if err := validateMaxLen("description", *req.Description, maxDescription); err != nil {
			return err
		}
	}
	return nil
}
