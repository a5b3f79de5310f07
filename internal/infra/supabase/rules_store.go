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
// Budget rules store — list, get, create, update, delete
// ============================================================

// ListRules returns all budget rules for a user, ordered by creation.
// This is a forecast-snapshot read path, so it runs behind the breaker.
func (c *Client) ListRules(ctx context.Context, userID string) ([]domain.BudgetRule, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListRules")
	defer span.End()

	var rules []domain.BudgetRule

	err := c.withResilience(ctx, func() error {
		path := fmt.Sprintf("budget_rules?user_id=eq.%s&order=created_at.asc", userID)
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		if body == nil || string(body) == "[]" {
			rules = []domain.BudgetRule{}
			return nil
		}
		if err := json.Unmarshal(body, &rules); err != nil {
			return fmt.Errorf("decode budget_rules: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/budget_rules", Err: err}
	}

	return rules, nil
}

// GetRule fetches one rule scoped to the user.
func (c *Client) GetRule(ctx context.Context, userID, ruleID string) (*domain.BudgetRule, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetRule")
	defer span.End()

	path := fmt.Sprintf("budget_rules?user_id=eq.%s&id=eq.%s&limit=1", userID, ruleID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var rows []domain.BudgetRule
	if body != nil {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode budget_rule: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "budget_rule", ID: ruleID}
	}
	return &rows[0], nil
}

// CreateRule inserts a new budget rule.
func (c *Client) CreateRule(ctx context.Context, userID string, req *domain.CreateRuleRequest) (*domain.BudgetRule, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateRule")
	defer span.End()

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	row := map[string]any{
		"id":         uuid.NewString(),
		"user_id":    userID,
		"name":       req.Name,
		"amount":     req.Amount,
		"type":       req.Type,
		"category":   req.Category,
		"frequency":  req.Frequency,
		"start_date": req.StartDate,
		"is_active":  isActive,
	}
	if req.RecurrenceDay != nil {
		row["recurrence_day"] = *req.RecurrenceDay
	}
	if req.EndDate != nil {
		row["end_date"] = *req.EndDate
	}

	body, err := c.doPost(ctx, "budget_rules", row)
	if err != nil {
		return nil, err
	}

	var results []domain.BudgetRule
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decode budget_rule: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no result from budget_rules insert")
	}
	return &results[0], nil
}

// UpdateRule patches a rule and returns the updated record.
func (c *Client) UpdateRule(ctx context.Context, userID, ruleID string, req *domain.UpdateRuleRequest) (*domain.BudgetRule, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateRule")
	defer span.End()

	updates := map[string]any{
		"updated_at": time.Now().Format(time.RFC3339),
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Frequency != nil {
		updates["frequency"] = *req.Frequency
	}
	if req.RecurrenceDay != nil {
		updates["recurrence_day"] = *req.RecurrenceDay
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	path := fmt.Sprintf("budget_rules?user_id=eq.%s&id=eq.%s", userID, ruleID)
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, err
	}
	return c.GetRule(ctx, userID, ruleID)
}

// DeleteRule removes a rule scoped to the user.
func (c *Client) DeleteRule(ctx context.Context, userID, ruleID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteRule")
	defer span.End()

	path := fmt.Sprintf("budget_rules?user_id=eq.%s&id=eq.%s", userID, ruleID)
	return c.doDelete(ctx, path)
}
