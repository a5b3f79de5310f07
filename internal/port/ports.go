// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/cashflowpro/forecast-go/internal/domain"
)

// RuleStore defines data operations for budget rules.
// Implemented by the Supabase adapter (or any other persistence layer).
type RuleStore interface {
	ListRules(ctx context.Context, userID string) ([]domain.BudgetRule, error)
	GetRule(ctx context.Context, userID, ruleID string) (*domain.BudgetRule, error)
	CreateRule(ctx context.Context, userID string, req *domain.CreateRuleRequest) (*domain.BudgetRule, error)
	UpdateRule(ctx context.Context, userID, ruleID string, req *domain.UpdateRuleRequest) (*domain.BudgetRule, error)
	DeleteRule(ctx context.Context, userID, ruleID string) error
}

// TransactionStore defines data operations for one-time transactions,
// override records included.
type TransactionStore interface {
	ListTransactions(ctx context.Context, userID string) ([]domain.OneTimeTransaction, error)
	GetTransaction(ctx context.Context, userID, txnID string) (*domain.OneTimeTransaction, error)
	FindOverride(ctx context.Context, userID, ruleID, date string) (*domain.OneTimeTransaction, error)
	CreateTransaction(ctx context.Context, userID string, req *domain.CreateTransactionRequest) (*domain.OneTimeTransaction, error)
	UpdateTransaction(ctx context.Context, userID, txnID string, req *domain.UpdateTransactionRequest) (*domain.OneTimeTransaction, error)
	DeleteTransaction(ctx context.Context, userID, txnID string) error
}

// CheckpointStore defines data operations for balance checkpoints.
type CheckpointStore interface {
	ListCheckpoints(ctx context.Context, userID string) ([]domain.BalanceCheckpoint, error)
	GetCheckpointMap(ctx context.Context, userID string) (domain.CheckpointMap, error)
	GetCheckpointByDate(ctx context.Context, userID, date string) (*domain.BalanceCheckpoint, error)
	CreateCheckpoint(ctx context.Context, userID string, req *domain.CreateCheckpointRequest) (*domain.BalanceCheckpoint, error)
	DeleteCheckpoint(ctx context.Context, userID, checkpointID string) error
}

// CardStore defines data operations for credit cards and payments.
type CardStore interface {
	ListCards(ctx context.Context, userID string) ([]domain.CreditCard, error)
	GetCard(ctx context.Context, userID, cardID string) (*domain.CreditCard, error)
	CreateCard(ctx context.Context, userID string, req *domain.CreateCardRequest) (*domain.CreditCard, error)
	DeleteCard(ctx context.Context, userID, cardID string) error
	ListCardPayments(ctx context.Context, userID, cardID string) ([]domain.CreditCardPayment, error)
	CreateCardPayment(ctx context.Context, userID, cardID string, req *domain.CreateCardPaymentRequest) (*domain.CreditCardPayment, error)
}

// ProfileStore defines user lookups for the authentication layer.
type ProfileStore interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
	GetUserByID(ctx context.Context, userID string) (*domain.UserProfile, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
