package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cashflowpro/forecast-go/internal/domain"
)

// ============================================================
// User profiles store — auth lookups
// ============================================================

// profileRow maps the user_profiles table, including the password
// hash column the domain model deliberately hides from JSON.
type profileRow struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	PasswordHash string `json:"password_hash"`
}

func (r profileRow) toDomain() *domain.UserProfile {
	return &domain.UserProfile{
		ID:           r.ID,
		Email:        r.Email,
		FullName:     r.FullName,
		PasswordHash: r.PasswordHash,
	}
}

// GetUserByEmail looks a user up for login.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUserByEmail")
	defer span.End()

	path := fmt.Sprintf("user_profiles?email=eq.%s&limit=1", url.QueryEscape(email))
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/user_profiles", Err: err}
	}
	if body == nil || string(body) == "[]" {
		return nil, &domain.ErrNotFound{Resource: "user", ID: email}
	}

	var rows []profileRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode user_profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "user", ID: email}
	}
	return rows[0].toDomain(), nil
}

// GetUserByID fetches a user profile by primary key.
func (c *Client) GetUserByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUserByID")
	defer span.End()

	path := fmt.Sprintf("user_profiles?id=eq.%s&limit=1", userID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/user_profiles", Err: err}
	}
	if body == nil || string(body) == "[]" {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}

	var rows []profileRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode user_profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}
	return rows[0].toDomain(), nil
}
