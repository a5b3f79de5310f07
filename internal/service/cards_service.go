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

var cardsTracer = otel.Tracer("service/cards")

// CardsService validates and persists credit cards and their payments.
type CardsService struct {
	store       port.CardStore
	invalidator ForecastInvalidator
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewCardsService creates the cards service.
func NewCardsService(store port.CardStore, invalidator ForecastInvalidator, metrics *observability.Metrics, logger *zap.Logger) *CardsService {
	return &CardsService{store: store, invalidator: invalidator, metrics: metrics, logger: logger}
}

// List returns all credit cards for a user.
func (s *CardsService) List(ctx context.Context, userID string) ([]domain.CreditCard, error) {
	ctx, span := cardsTracer.Start(ctx, "CardsService.List")
	defer span.End()

	return s.store.ListCards(ctx, userID)
}

// Get returns a single card.
func (s *CardsService) Get(ctx context.Context, userID, cardID string) (*domain.CreditCard, error) {
	ctx, span := cardsTracer.Start(ctx, "CardsService.Get")
	defer span.End()

	return s.store.GetCard(ctx, userID, cardID)
}

// Create validates and registers a credit card.
func (s *CardsService) Create(ctx context.Context, userID string, req *domain.CreateCardRequest) (*domain.CreditCard, error) {
	ctx, span := cardsTracer.Start(ctx, "CardsService.Create")
	defer span.End()

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "is required"}
	}
	if err := validateMaxLen("name", req.Name, maxNameLen); err != nil {
		return nil, err
	}
	if len(req.Last4) != 4 {
		return nil, &domain.ErrValidation{Field: "last4", Message: "must be exactly 4 digits"}
	}
	if req.Balance < 0 || req.Balance > maxAmount {
		return nil, &domain.ErrValidation{Field: "balance", Message: fmt.Sprintf("must be between 0 and %d", maxAmount)}
	}
	if req.Limit < 0 || req.Limit > maxAmount {
		return nil, &domain.ErrValidation{Field: "limit", Message: fmt.Sprintf("must be between 0 and %d", maxAmount)}
	}
	if req.DueDate != "" {
		if err := validateDate("due_date", req.DueDate); err != nil {
			return nil, err
		}
	}

	card, err := s.store.CreateCard(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateUser(userID)
	s.logger.Info("credit card created", zap.String("user_id", userID), zap.String("card_id", card.ID))
	return card, nil
}

// Delete removes a card and stops it feeding the forecast.
func (s *CardsService) Delete(ctx context.Context, userID, cardID string) error {
	ctx, span := cardsTracer.Start(ctx, "CardsService.Delete")
	defer span.End()

	if _, err := s.store.GetCard(ctx, userID, cardID); err != nil {
		return err
	}
	if err := s.store.DeleteCard(ctx, userID, cardID); err != nil {
		return err
	}

	s.invalidator.InvalidateUser(userID)
	s.logger.Info("credit card deleted", zap.String("user_id", userID), zap.String("card_id", cardID))
	return nil
}

// ListPayments returns the payments recorded against a card.
func (s *CardsService) ListPayments(ctx context.Context, userID, cardID string) ([]domain.CreditCardPayment, error) {
	ctx, span := cardsTracer.Start(ctx, "CardsService.ListPayments")
	defer span.End()

	if _, err := s.store.GetCard(ctx, userID, cardID); err != nil {
		return nil, err
	}
	return s.store.ListCardPayments(ctx, userID, cardID)
}

// CreatePayment records a payment against a card. The store reduces
// the card's carried balance, floored at zero.
func (s *CardsService) CreatePayment(ctx context.Context, userID, cardID string, req *domain.CreateCardPaymentRequest) (*domain.CreditCardPayment, error) {
	ctx, span := cardsTracer.Start(ctx, "CardsService.CreatePayment")
	defer span.End()

	if err := validateAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	if err := validateDate("payment_date", req.PaymentDate); err != nil {
		return nil, err
	}
	if err := validateMaxLen("notes", req.Notes, maxNotesLen); err != nil {
		return nil, err
	}

	payment, err := s.store.CreateCardPayment(ctx, userID, cardID, req)
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateUser(userID)
	s.logger.Info("card payment recorded",
		zap.String("user_id", userID),
		zap.String("card_id", cardID),
		zap.Float64("amount", req.Amount),
	)
	return payment, nil
}
