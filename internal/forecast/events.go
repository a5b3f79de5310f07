package forecast

import (
	"time"

	"github.com/cashflowpro/forecast-go/internal/domain"
)

// EventsForDate assembles the effective financial events for one day:
// plain one-time transactions dated on it, matching rules that are not
// overridden, and override records substituting specific rule
// occurrences.
//
// For any (rule, date) pair with an override, exactly one event is
// emitted: the override, never the rule's natural firing. Duplicate
// overrides for the same rule and date are resolved first-wins by input
// order; the write boundary rejects such duplicates, this is only a
// defensive tie-break.
func EventsForDate(date time.Time, transactions []domain.OneTimeTransaction, rules []domain.BudgetRule) []domain.SimulationTransaction {
	key := DayKey(normalizeDay(date))

	overrides := make([]domain.OneTimeTransaction, 0)
	overriddenRules := make(map[string]bool)
	var events []domain.SimulationTransaction

	for _, t := range transactions {
		if t.Date != key {
			continue
		}
		if t.IsOverride && t.OverrideRuleID != "" {
			if overriddenRules[t.OverrideRuleID] {
				continue
			}
			overriddenRules[t.OverrideRuleID] = true
			overrides = append(overrides, t)
			continue
		}
		name := t.Description
		if name == "" {
			name = "One-time transaction"
		}
		events = append(events, domain.SimulationTransaction{
			Name:   name,
			Amount: t.Amount,
			Type:   t.Type,
			Source: domain.SourceOneTime,
		})
	}

	ruleByID := make(map[string]domain.BudgetRule, len(rules))
	for _, r := range rules {
		ruleByID[r.ID] = r
	}

	for _, r := range rules {
		if overriddenRules[r.ID] {
			continue
		}
		if !Matches(date, r) {
			continue
		}
		events = append(events, domain.SimulationTransaction{
			Name:   r.Name,
			Amount: r.Amount,
			Type:   r.Type,
			Source: domain.SourceRule,
			RuleID: r.ID,
		})
	}

	for _, o := range overrides {
		ev := domain.SimulationTransaction{
			Name:       o.Description,
			Amount:     o.Amount,
			Type:       o.Type,
			Source:     domain.SourceRule,
			RuleID:     o.OverrideRuleID,
			IsOverride: true,
		}
		if r, ok := ruleByID[o.OverrideRuleID]; ok {
			orig := r.Amount
			ev.OriginalAmount = &orig
			if ev.Name == "" {
				ev.Name = r.Name
			}
		}
		events = append(events, ev)
	}

	return events
}
