package forecast_test

import (
	"testing"

	"github.com/cashflowpro/forecast-go/internal/domain"
	"github.com/cashflowpro/forecast-go/internal/forecast"
)

func rows(balances ...float64) []domain.DailyResult {
	out := make([]domain.DailyResult, len(balances))
	for i, b := range balances {
		out[i] = domain.DailyResult{
			Date:          forecast.DayKey(anchor.AddDate(0, 0, i)),
			EndingBalance: b,
			Transactions:  []domain.SimulationTransaction{},
		}
	}
	return out
}

func TestComputeStats_Empty(t *testing.T) {
	stats := forecast.ComputeStats(nil)

	if stats.TotalIncome != 0 || stats.TotalExpenses != 0 || stats.NetChange != 0 {
		t.Error("empty run must yield zero totals")
	}
	if stats.FinalBalance != 0 || stats.LowestBalance != 0 {
		t.Error("empty run must yield zero balances")
	}
	if stats.HasOverdraft || stats.DaysUntilOverdraft != nil {
		t.Error("empty run must not report overdraft")
	}
}

func TestComputeStats_TotalsAndNetChange(t *testing.T) {
	results := rows(1000, 900)
	results[0].Transactions = []domain.SimulationTransaction{
		{Name: "paycheck", Amount: 3000, Type: domain.TypeIncome, Source: domain.SourceOneTime},
		{Name: "rent", Amount: 1200, Type: domain.TypeExpense, Source: domain.SourceRule},
	}
	results[1].Transactions = []domain.SimulationTransaction{
		{Name: "food", Amount: 300, Type: domain.TypeExpense, Source: domain.SourceRule},
	}

	stats := forecast.ComputeStats(results)
	if stats.TotalIncome != 3000 {
		t.Errorf("expected income 3000, got %v", stats.TotalIncome)
	}
	if stats.TotalExpenses != 1500 {
		t.Errorf("expected expenses 1500, got %v", stats.TotalExpenses)
	}
	if stats.NetChange != 1500 {
		t.Errorf("expected net change 1500, got %v", stats.NetChange)
	}
	if stats.FinalBalance != 900 {
		t.Errorf("expected final balance 900, got %v", stats.FinalBalance)
	}
}

func TestComputeStats_NetChangeIgnoresCheckpointJumps(t *testing.T) {
	// A checkpoint forces the balance from 1000 to 5000 with an empty
	// event list: net change must stay 0, final balance 5000.
	results := rows(1000, 5000)
	results[1].IsCheckpoint = true

	stats := forecast.ComputeStats(results)
	if stats.NetChange != 0 {
		t.Errorf("net change must come from events only, got %v", stats.NetChange)
	}
	if stats.FinalBalance != 5000 {
		t.Errorf("expected final balance 5000, got %v", stats.FinalBalance)
	}
}

func TestFindLowestBalance(t *testing.T) {
	results := rows(1000, 500, 200, 800)

	date, balance := forecast.FindLowestBalance(results)
	if balance != 200 {
		t.Errorf("expected lowest balance 200, got %v", balance)
	}
	if date != results[2].Date {
		t.Errorf("expected lowest date %s, got %s", results[2].Date, date)
	}
}

func TestFindLowestBalance_TieBreaksEarliest(t *testing.T) {
	results := rows(500, 200, 200, 800)

	date, _ := forecast.FindLowestBalance(results)
	if date != results[1].Date {
		t.Errorf("ties must break to the earliest date, got %s", date)
	}
}

func TestDaysUntilOverdraft(t *testing.T) {
	if got := forecast.DaysUntilOverdraft(rows(1000, 900, -50)); got == nil || *got != 2 {
		t.Errorf("expected overdraft at index 2, got %v", got)
	}
	if got := forecast.DaysUntilOverdraft(rows(-100, -200)); got == nil || *got != 0 {
		t.Errorf("expected overdraft at index 0, got %v", got)
	}
	if got := forecast.DaysUntilOverdraft(rows(100, 200)); got != nil {
		t.Errorf("expected no overdraft, got %v", got)
	}
}

func TestComputeStats_ExtendedMetrics(t *testing.T) {
	results := rows(100, -50, -20, 300, 400)

	stats := forecast.ComputeStats(results)
	if stats.NegativeDays != 2 {
		t.Errorf("expected 2 negative days, got %d", stats.NegativeDays)
	}
	if stats.LongestNegativeStreak != 2 {
		t.Errorf("expected negative streak 2, got %d", stats.LongestNegativeStreak)
	}
	if stats.LongestPositiveStreak != 2 {
		t.Errorf("expected positive streak 2, got %d", stats.LongestPositiveStreak)
	}
	if stats.HighestBalance != 400 {
		t.Errorf("expected highest 400, got %v", stats.HighestBalance)
	}
	want := (100.0 - 50 - 20 + 300 + 400) / 5
	if stats.AverageBalance != want {
		t.Errorf("expected average %v, got %v", want, stats.AverageBalance)
	}
	if !stats.HasOverdraft || stats.DaysUntilOverdraft == nil || *stats.DaysUntilOverdraft != 1 {
		t.Errorf("expected overdraft at day 1, got %v", stats.DaysUntilOverdraft)
	}
}

func TestComputeStats_SavingsRate(t *testing.T) {
	results := rows(0)
	results[0].Transactions = []domain.SimulationTransaction{
		{Amount: 2000, Type: domain.TypeIncome},
		{Amount: 1500, Type: domain.TypeExpense},
	}
	stats := forecast.ComputeStats(results)
	if stats.SavingsRate != 25 {
		t.Errorf("expected savings rate 25, got %v", stats.SavingsRate)
	}

	// Zero income defines the rate as 0, not NaN.
	noIncome := rows(0)
	noIncome[0].Transactions = []domain.SimulationTransaction{
		{Amount: 100, Type: domain.TypeExpense},
	}
	if got := forecast.ComputeStats(noIncome).SavingsRate; got != 0 {
		t.Errorf("expected savings rate 0 with no income, got %v", got)
	}
}
