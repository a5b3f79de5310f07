package domain

// Event sources for simulation transactions.
const (
	SourceRule    = "rule"
	SourceOneTime = "one-time"
)

// SimulationTransaction is an effective event materialized for a
// specific day, flattened from a rule firing, a one-time transaction,
// or an override. Overrides carry the rule's pre-override amount in
// OriginalAmount for audit display.
type SimulationTransaction struct {
	Name           string   `json:"name"`
	Amount         float64  `json:"amount"`
	Type           string   `json:"type"`   // income, expense
	Source         string   `json:"source"` // rule, one-time
	RuleID         string   `json:"rule_id,omitempty"`
	IsOverride     bool     `json:"is_override,omitempty"`
	OriginalAmount *float64 `json:"original_amount,omitempty"`
}

// DailyResult is one row of simulation output. Produced fresh on every
// run and never mutated afterwards.
type DailyResult struct {
	Date            string                  `json:"date"` // YYYY-MM-DD
	StartingBalance float64                 `json:"starting_balance"`
	Transactions    []SimulationTransaction `json:"transactions"`
	NetChange       float64                 `json:"net_change"`
	EndingBalance   float64                 `json:"ending_balance"`
	IsCheckpoint    bool                    `json:"is_checkpoint"`
	IsLowestPoint   bool                    `json:"is_lowest_point"`
	HasOverride     bool                    `json:"has_override"`
}

// SimulationStats summarizes a simulation run.
type SimulationStats struct {
	TotalIncome        float64 `json:"total_income"`
	TotalExpenses      float64 `json:"total_expenses"`
	NetChange          float64 `json:"net_change"`
	FinalBalance       float64 `json:"final_balance"`
	LowestBalance      float64 `json:"lowest_balance"`
	LowestBalanceDate  string  `json:"lowest_balance_date,omitempty"`
	DaysUntilOverdraft *int    `json:"days_until_overdraft"`
	HasOverdraft       bool    `json:"has_overdraft"`

	// Extended dashboard statistics.
	AverageBalance        float64 `json:"average_balance"`
	HighestBalance        float64 `json:"highest_balance"`
	HighestBalanceDate    string  `json:"highest_balance_date,omitempty"`
	NegativeDays          int     `json:"negative_days"`
	LongestPositiveStreak int     `json:"longest_positive_streak"`
	LongestNegativeStreak int     `json:"longest_negative_streak"`
	SavingsRate           float64 `json:"savings_rate"`
}

// ForecastResponse is returned by the forecast endpoints.
type ForecastResponse struct {
	StartingBalance float64         `json:"starting_balance"`
	Horizon         int             `json:"horizon_days"`
	AnchorDate      string          `json:"anchor_date"` // day 0, YYYY-MM-DD
	Days            []DailyResult   `json:"days"`
	Stats           SimulationStats `json:"stats"`
}
