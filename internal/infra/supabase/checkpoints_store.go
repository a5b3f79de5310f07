package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cashflowpro/forecast-go/internal/domain"

	"github.com/google/uuid"
)

// ============================================================
// Balance checkpoints store
// ============================================================

// ListCheckpoints returns all balance checkpoints for a user, ordered
// by date.
func (c *Client) ListCheckpoints(ctx context.Context, userID string) ([]domain.BalanceCheckpoint, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCheckpoints")
	defer span.End()

	var checkpoints []domain.BalanceCheckpoint

	err := c.withResilience(ctx, func() error {
		path := fmt.Sprintf("balance_checkpoints?user_id=eq.%s&order=date.asc", userID)
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		if body == nil || string(body) == "[]" {
			checkpoints = []domain.BalanceCheckpoint{}
			return nil
		}
		if err := json.Unmarshal(body, &checkpoints); err != nil {
			return fmt.Errorf("decode balance_checkpoints: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/balance_checkpoints", Err: err}
	}

	return checkpoints, nil
}

// GetCheckpointMap returns the user's checkpoints in the shape the
// simulation engine consumes (ISO date -> balance). Duplicate dates
// collapse to the most recently created record.
func (c *Client) GetCheckpointMap(ctx context.Context, userID string) (domain.CheckpointMap, error) {
	checkpoints, err := c.ListCheckpoints(ctx, userID)
	if err != nil {
		return nil, err
	}

	m := make(domain.CheckpointMap, len(checkpoints))
	for _, cp := range checkpoints {
		m[cp.Date] = cp.Balance
	}
	return m, nil
}

// CreateCheckpoint inserts a balance checkpoint.
func (c *Client) CreateCheckpoint(ctx context.Context, userID string, req *domain.CreateCheckpointRequest) (*domain.BalanceCheckpoint, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateCheckpoint")
	defer span.End()

	row := map[string]any{
		"id":      uuid.NewString(),
		"user_id": userID,
		"date":    req.Date,
		"balance": req.Balance,
	}
	if req.Notes != "" {
		row["notes"] = req.Notes
	}

	body, err := c.doPost(ctx, "balance_checkpoints", row)
	if err != nil {
		return nil, err
	}

	var results []domain.BalanceCheckpoint
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decode balance_checkpoint: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no result from balance_checkpoints insert")
	}
	return &results[0], nil
}

// GetCheckpointByDate returns the checkpoint on a date, or nil.
func (c *Client) GetCheckpointByDate(ctx context.Context, userID, date string) (*domain.BalanceCheckpoint, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCheckpointByDate")
	defer span.End()

	path := fmt.Sprintf("balance_checkpoints?user_id=eq.%s&date=eq.%s&limit=1", userID, date)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, nil
	}

	var rows []domain.BalanceCheckpoint
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode balance_checkpoint: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// DeleteCheckpoint removes a checkpoint scoped to the user.
func (c *Client) DeleteCheckpoint(ctx context.Context, userID, checkpointID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteCheckpoint")
	defer span.End()

	path := fmt.Sprintf("balance_checkpoints?user_id=eq.%s&id=eq.%s", userID, checkpointID)
	return c.doDelete(ctx, path)
}
