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
// One-time transactions store (including override records)
// ============================================================

// ListTransactions returns all one-time transactions for a user,
// ordered by date. Forecast-snapshot read path, runs behind the breaker.
func (c *Client) ListTransactions(ctx context.Context, userID string) ([]domain.OneTimeTransaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListTransactions")
	defer span.End()

	var txns []domain.OneTimeTransaction

	err := c.withResilience(ctx, func() error {
		path := fmt.Sprintf("transactions?user_id=eq.%s&order=date.asc,created_at.asc", userID)
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		if body == nil || string(body) == "[]" {
			txns = []domain.OneTimeTransaction{}
			return nil
		}
		if err := json.Unmarshal(body, &txns); err != nil {
			return fmt.Errorf("decode transactions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}

	return txns, nil
}

// GetTransaction fetches one transaction scoped to the user.
func (c *Client) GetTransaction(ctx context.Context, userID, txnID string) (*domain.OneTimeTransaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetTransaction")
	defer span.End()

	path := fmt.Sprintf("transactions?user_id=eq.%s&id=eq.%s&limit=1", userID, txnID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var rows []domain.OneTimeTransaction
	if body != nil {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: txnID}
	}
	return &rows[0], nil
}

// FindOverride returns the override transaction for a (rule, date)
// pair, or nil when none exists. Ordered by creation so the earliest
// record is authoritative if duplicates ever slip in.
func (c *Client) FindOverride(ctx context.Context, userID, ruleID, date string) (*domain.OneTimeTransaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.FindOverride")
	defer span.End()

	path := fmt.Sprintf("transactions?user_id=eq.%s&override_rule_id=eq.%s&date=eq.%s&is_override=eq.true&order=created_at.asc&limit=1", userID, ruleID, date)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, nil
	}

	var rows []domain.OneTimeTransaction
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode override: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// CreateTransaction inserts a one-time transaction or override record.
func (c *Client) CreateTransaction(ctx context.Context, userID string, req *domain.CreateTransactionRequest) (*domain.OneTimeTransaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateTransaction")
	defer span.End()

	reconciled := false
	if req.IsReconciled != nil {
		reconciled = *req.IsReconciled
	}

	row := map[string]any{
		"id":            uuid.NewString(),
		"user_id":       userID,
		"date":          req.Date,
		"description":   req.Description,
		"amount":        req.Amount,
		"type":          req.Type,
		"is_reconciled": reconciled,
	}
	if req.OverrideRuleID != "" {
		row["is_override"] = true
		row["override_rule_id"] = req.OverrideRuleID
	}

	body, err := c.doPost(ctx, "transactions", row)
	if err != nil {
		return nil, err
	}

	var results []domain.OneTimeTransaction
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no result from transactions insert")
	}
	return &results[0], nil
}

// UpdateTransaction patches a transaction and returns the updated record.
func (c *Client) UpdateTransaction(ctx context.Context, userID, txnID string, req *domain.UpdateTransactionRequest) (*domain.OneTimeTransaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateTransaction")
	defer span.End()

	updates := map[string]any{
		"updated_at": time.Now().Format(time.RFC3339),
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.IsReconciled != nil {
		updates["is_reconciled"] = *req.IsReconciled
	}

	path := fmt.Sprintf("transactions?user_id=eq.%s&id=eq.%s", userID, txnID)
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, err
	}
	return c.GetTransaction(ctx, userID, txnID)
}

// DeleteTransaction removes a transaction scoped to the user.
func (c *Client) DeleteTransaction(ctx context.Context, userID, txnID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteTransaction")
	defer span.End()

	path := fmt.Sprintf("transactions?user_id=eq.%s&id=eq.%s", userID, txnID)
	return c.doDelete(ctx, path)
}
