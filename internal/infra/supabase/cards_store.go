package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cashflowpro/forecast-go/internal/domain"

	"github.com/google/uuid"
)

// ============================================================
// Credit cards and card payments store
// ============================================================

// ListCards returns all credit cards for a user.
func (c *Client) ListCards(ctx context.Context, userID string) ([]domain.CreditCard, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCards")
	defer span.End()

	var cards []domain.CreditCard

	err := c.withResilience(ctx, func() error {
		path := fmt.Sprintf("credit_cards?user_id=eq.%s&order=created_at.asc", userID)
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		if body == nil || string(body) == "[]" {
			cards = []domain.CreditCard{}
			return nil
		}
		if err := json.Unmarshal(body, &cards); err != nil {
			return fmt.Errorf("decode credit_cards: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/credit_cards", Err: err}
	}

	return cards, nil
}

// GetCard fetches one card scoped to the user.
func (c *Client) GetCard(ctx context.Context, userID, cardID string) (*domain.CreditCard, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCard")
	defer span.End()

	path := fmt.Sprintf("credit_cards?user_id=eq.%s&id=eq.%s&limit=1", userID, cardID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var rows []domain.CreditCard
	if body != nil {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode credit_card: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "credit_card", ID: cardID}
	}
	return &rows[0], nil
}

// CreateCard inserts a credit card.
func (c *Client) CreateCard(ctx context.Context, userID string, req *domain.CreateCardRequest) (*domain.CreditCard, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateCard")
	defer span.End()

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	row := map[string]any{
		"id":         uuid.NewString(),
		"user_id":    userID,
		"name":       req.Name,
		"last4":      req.Last4,
		"balance":    req.Balance,
		"limit":      req.Limit,
		"due_date":   req.DueDate,
		"annual_fee": req.AnnualFee,
		"is_active":  isActive,
	}
	if req.Color != "" {
		row["color"] = req.Color
	}

	body, err := c.doPost(ctx, "credit_cards", row)
	if err != nil {
		return nil, err
	}

	var results []domain.CreditCard
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decode credit_card: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no result from credit_cards insert")
	}
	return &results[0], nil
}

// DeleteCard removes a card scoped to the user.
func (c *Client) DeleteCard(ctx context.Context, userID, cardID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteCard")
	defer span.End()

	path := fmt.Sprintf("credit_cards?user_id=eq.%s&id=eq.%s", userID, cardID)
	return c.doDelete(ctx, path)
}

// ListCardPayments returns payments recorded against a card.
func (c *Client) ListCardPayments(ctx context.Context, userID, cardID string) ([]domain.CreditCardPayment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCardPayments")
	defer span.End()

	path := fmt.Sprintf("credit_card_payments?user_id=eq.%s&card_id=eq.%s&order=payment_date.desc", userID, cardID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.CreditCardPayment{}, nil
	}

	var rows []domain.CreditCardPayment
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode credit_card_payments: %w", err)
	}
	return rows, nil
}

// CreateCardPayment records a payment and reduces the card's balance.
func (c *Client) CreateCardPayment(ctx context.Context, userID, cardID string, req *domain.CreateCardPaymentRequest) (*domain.CreditCardPayment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateCardPayment")
	defer span.End()

	card, err := c.GetCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	row := map[string]any{
		"id":           uuid.NewString(),
		"user_id":      userID,
		"card_id":      cardID,
		"amount":       req.Amount,
		"payment_date": req.PaymentDate,
	}
	if req.Notes != "" {
		row["notes"] = req.Notes
	}

	body, err := c.doPost(ctx, "credit_card_payments", row)
	if err != nil {
		return nil, err
	}

	var results []domain.CreditCardPayment
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decode credit_card_payment: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no result from credit_card_payments insert")
	}

	newBalance := card.Balance - req.Amount
	if newBalance < 0 {
		newBalance = 0
	}
	patch := map[string]any{
		"balance":    newBalance,
		"updated_at": time.Now().Format(time.RFC3339),
	}
	if err := c.doPatch(ctx, fmt.Sprintf("credit_cards?user_id=eq.%s&id=eq.%s", userID, cardID), patch); err != nil {
		return nil, err
	}

	return &results[0], nil
}
