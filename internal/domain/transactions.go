package domain

import "time"

// OneTimeTransaction is a single-occurrence income/expense, or an
// override record that replaces one rule occurrence on one date.
type OneTimeTransaction struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Date           string    `json:"date"` // YYYY-MM-DD
	Description    string    `json:"description"`
	Amount         float64   `json:"amount"`
	Type           string    `json:"type"` // income, expense
	IsReconciled   bool      `json:"is_reconciled"`
	IsOverride     bool      `json:"is_override,omitempty"`
	OverrideRuleID string    `json:"override_rule_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateTransactionRequest is the payload to create a one-time
// transaction. Setting OverrideRuleID marks it as an override of that
// rule's occurrence on Date.
type CreateTransactionRequest struct {
	Date           string  `json:"date"`
	Description    string  `json:"description"`
	Amount         float64 `json:"amount"`
	Type           string  `json:"type"`
	IsReconciled   *bool   `json:"is_reconciled,omitempty"`
	OverrideRuleID string  `json:"override_rule_id,omitempty"`
}

// UpdateTransactionRequest is the payload to patch a transaction.
// Nil fields are left unchanged.
type UpdateTransactionRequest struct {
	Date         *string  `json:"date,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Amount       *float64 `json:"amount,omitempty"`
	Type         *string  `json:"type,omitempty"`
	IsReconciled *bool    `json:"is_reconciled,omitempty"`
}
