// Package domain defines the core business entities for the forecast
// service. These models are independent of storage and transport and
// represent the canonical data structures used throughout the app.
package domain

import "time"

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Rule frequencies.
const (
	FreqWeekly   = "weekly"
	FreqBiWeekly = "bi-weekly"
	FreqMonthly  = "monthly"
	FreqYearly   = "yearly"
)

// BudgetRule is a recurring income/expense template.
//
// RecurrenceDay depends on Frequency: weekday index 0–6 (0=Sunday) for
// weekly, day-of-month 1–31 for monthly and yearly. Bi-weekly rules are
// anchored to StartDate and ignore RecurrenceDay.
type BudgetRule struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Amount        float64   `json:"amount"`
	Type          string    `json:"type"`     // income, expense
	Category      string    `json:"category"` // housing, food, subscription, ...
	Frequency     string    `json:"frequency"`
	RecurrenceDay *int      `json:"recurrence_day"`
	StartDate     string    `json:"start_date"` // YYYY-MM-DD
	EndDate       *string   `json:"end_date,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateRuleRequest is the payload to create a budget rule.
type CreateRuleRequest struct {
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	Frequency     string  `json:"frequency"`
	RecurrenceDay *int    `json:"recurrence_day,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       *string `json:"end_date,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"` // defaults to true
}

// UpdateRuleRequest is the payload to patch a budget rule.
// Nil fields are left unchanged.
type UpdateRuleRequest struct {
	Name          *string  `json:"name,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	Type          *string  `json:"type,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Frequency     *string  `json:"frequency,omitempty"`
	RecurrenceDay *int     `json:"recurrence_day,omitempty"`
	StartDate     *string  `json:"start_date,omitempty"`
	EndDate       *string  `json:"end_date,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}
