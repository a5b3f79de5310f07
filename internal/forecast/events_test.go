package forecast_test

import (
	"testing"

	"github.com/cashflowpro/forecast-go/internal/domain"
	"github.com/cashflowpro/forecast-go/internal/forecast"
)

func monthlyRule(id string, amount float64, recDay int) domain.BudgetRule {
	return domain.BudgetRule{
		ID:            id,
		Name:          "Subscription",
		Amount:        amount,
		Type:          domain.TypeExpense,
		Frequency:     domain.FreqMonthly,
		RecurrenceDay: intPtr(recDay),
		StartDate:     "2026-01-01",
		IsActive:      true,
	}
}

func TestEventsForDate_PlainTransaction(t *testing.T) {
	txns := []domain.OneTimeTransaction{
		{ID: "t1", Date: "2026-06-01", Description: "Car repair", Amount: 400, Type: domain.TypeExpense},
		{ID: "t2", Date: "2026-06-02", Description: "Elsewhere", Amount: 50, Type: domain.TypeExpense},
	}

	events := forecast.EventsForDate(day("2026-06-01"), txns, nil)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Name != "Car repair" || ev.Amount != 400 || ev.Source != domain.SourceOneTime {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestEventsForDate_RuleFiring(t *testing.T) {
	rule := monthlyRule("r1", 15, 1)

	events := forecast.EventsForDate(day("2026-06-01"), nil, []domain.BudgetRule{rule})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Source != domain.SourceRule || ev.RuleID != "r1" || ev.Amount != 15 {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.IsOverride {
		t.Error("natural rule firing must not be flagged as override")
	}
}

func TestEventsForDate_OverrideSuppressesRule(t *testing.T) {
	rule := monthlyRule("r1", 15, 1)
	override := domain.OneTimeTransaction{
		ID:             "o1",
		Date:           "2026-06-01",
		Description:    "Adjusted subscription",
		Amount:         10,
		Type:           domain.TypeExpense,
		IsOverride:     true,
		OverrideRuleID: "r1",
	}

	events := forecast.EventsForDate(day("2026-06-01"), []domain.OneTimeTransaction{override}, []domain.BudgetRule{rule})
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 event (override only), got %d", len(events))
	}
	ev := events[0]
	if !ev.IsOverride {
		t.Error("expected override flag")
	}
	if ev.Amount != 10 {
		t.Errorf("expected override amount 10, got %v", ev.Amount)
	}
	if ev.OriginalAmount == nil || *ev.OriginalAmount != 15 {
		t.Errorf("expected original amount 15, got %v", ev.OriginalAmount)
	}
	if ev.RuleID != "r1" || ev.Source != domain.SourceRule {
		t.Errorf("override should present as a rule event: %+v", ev)
	}
}

func TestEventsForDate_OverrideNameFallsBackToRule(t *testing.T) {
	rule := monthlyRule("r1", 15, 1)
	override := domain.OneTimeTransaction{
		ID:             "o1",
		Date:           "2026-06-01",
		Amount:         10,
		Type:           domain.TypeExpense,
		IsOverride:     true,
		OverrideRuleID: "r1",
	}

	events := forecast.EventsForDate(day("2026-06-01"), []domain.OneTimeTransaction{override}, []domain.BudgetRule{rule})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Name != "Subscription" {
		t.Errorf("expected rule name fallback, got %q", events[0].Name)
	}
}

func TestEventsForDate_DuplicateOverridesFirstWins(t *testing.T) {
	rule := monthlyRule("r1", 15, 1)
	overrides := []domain.OneTimeTransaction{
		{ID: "o1", Date: "2026-06-01", Description: "first", Amount: 10, Type: domain.TypeExpense, IsOverride: true, OverrideRuleID: "r1"},
		{ID: "o2", Date: "2026-06-01", Description: "second", Amount: 99, Type: domain.TypeExpense, IsOverride: true, OverrideRuleID: "r1"},
	}

	events := forecast.EventsForDate(day("2026-06-01"), overrides, []domain.BudgetRule{rule})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Amount != 10 || events[0].Name != "first" {
		t.Errorf("expected first override to win, got %+v", events[0])
	}
}

func TestEventsForDate_OverrideWithoutMatchingRuleStillEmitted(t *testing.T) {
	override := domain.OneTimeTransaction{
		ID:             "o1",
		Date:           "2026-06-01",
		Description:    "orphan",
		Amount:         25,
		Type:           domain.TypeExpense,
		IsOverride:     true,
		OverrideRuleID: "gone",
	}

	events := forecast.EventsForDate(day("2026-06-01"), []domain.OneTimeTransaction{override}, nil)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].OriginalAmount != nil {
		t.Error("orphan override has no original amount")
	}
}
