package domain

import "time"

// BalanceCheckpoint is a manual balance correction pinned to a date.
// On that date the simulation replaces the running balance with the
// checkpoint value and suppresses all rule/transaction effects.
type BalanceCheckpoint struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Balance   float64   `json:"balance"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CheckpointMap is the shape the simulation engine consumes:
// ISO date string -> absolute balance.
type CheckpointMap map[string]float64

// CreateCheckpointRequest is the payload to create a balance checkpoint.
type CreateCheckpointRequest struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
	Notes   string  `json:"notes,omitempty"`
}
