package domain

import "time"

// CreditCard represents a tracked credit card. The card's carried
// balance and next due date feed the forecast as a projected expense.
type CreditCard struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`  // "Chase Sapphire", "Amex Gold"
	Last4     string    `json:"last4"` // last 4 digits
	Balance   float64   `json:"balance"`
	Limit     float64   `json:"limit"`
	DueDate   string    `json:"due_date"` // next due date, YYYY-MM-DD
	Color     string    `json:"color,omitempty"`
	AnnualFee float64   `json:"annual_fee,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreditCardPayment represents a payment made against a card.
type CreditCardPayment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CardID      string    `json:"card_id"`
	Amount      float64   `json:"amount"`
	PaymentDate string    `json:"payment_date"` // YYYY-MM-DD
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCardRequest is the payload to register a credit card.
type CreateCardRequest struct {
	Name      string  `json:"name"`
	Last4     string  `json:"last4"`
	Balance   float64 `json:"balance"`
	Limit     float64 `json:"limit"`
	DueDate   string  `json:"due_date"`
	Color     string  `json:"color,omitempty"`
	AnnualFee float64 `json:"annual_fee,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// CreateCardPaymentRequest is the payload to record a card payment.
type CreateCardPaymentRequest struct {
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
	Notes       string  `json:"notes,omitempty"`
}
