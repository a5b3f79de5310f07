// Package forecast implements the cash-balance projection engine:
// recurrence matching, per-day event resolution, the day-by-day
// balance walk, and summary statistics. It is pure computation: no
// I/O, no clock reads, no state between calls. Callers pass an
// explicit anchor date for day zero so runs are reproducible.
package forecast

import (
	"time"

	"github.com/cashflowpro/forecast-go/internal/domain"
)

// Simulate projects the balance forward one row per day, from the
// anchor date (day 0) through days-1, in ascending date order.
//
// On a checkpoint date the running balance is force-set to the
// checkpoint value and the whole day's event computation is
// suppressed: checkpoints are reconciliation anchors, not additive
// adjustments. Every other day applies the net of the day's effective
// events to the running balance.
//
// A row's IsLowestPoint flag reflects the minimum seen up to the point
// the row is appended. The running minimum starts at the starting
// balance with the anchor date already in the tie-set, so day 0 always
// carries the flag. A later row that ties the running minimum is also
// flagged; a new lower minimum does not retroactively clear flags
// already set on earlier rows.
func Simulate(
	startingBalance float64,
	rules []domain.BudgetRule,
	transactions []domain.OneTimeTransaction,
	checkpoints domain.CheckpointMap,
	days int,
	anchor time.Time,
) []domain.DailyResult {
	results := make([]domain.DailyResult, 0, max(days, 0))
	if days <= 0 {
		return results
	}

	day0 := normalizeDay(anchor)
	runningBalance := startingBalance

	minBalance := startingBalance
	minDates := []string{DayKey(day0)}

	for d := 0; d < days; d++ {
		current := day0.AddDate(0, 0, d)
		key := DayKey(current)

		var row domain.DailyResult
		if cp, ok := checkpoints[key]; ok {
			runningBalance = cp
			row = domain.DailyResult{
				Date:            key,
				StartingBalance: cp,
				Transactions:    []domain.SimulationTransaction{},
				NetChange:       0,
				EndingBalance:   cp,
				IsCheckpoint:    true,
			}
		} else {
			events := EventsForDate(current, transactions, rules)
			netChange := 0.0
			hasOverride := false
			for _, ev := range events {
				if ev.Type == domain.TypeIncome {
					netChange += ev.Amount
				} else {
					netChange -= ev.Amount
				}
				if ev.IsOverride {
					hasOverride = true
				}
			}
			if events == nil {
				events = []domain.SimulationTransaction{}
			}
			dayStart := runningBalance
			runningBalance += netChange
			row = domain.DailyResult{
				Date:            key,
				StartingBalance: dayStart,
				Transactions:    events,
				NetChange:       netChange,
				EndingBalance:   runningBalance,
				HasOverride:     hasOverride,
			}
		}

		switch {
		case row.EndingBalance < minBalance:
			minBalance = row.EndingBalance
			minDates = minDates[:0]
			minDates = append(minDates, key)
		case row.EndingBalance == minBalance:
			minDates = append(minDates, key)
		}
		for _, md := range minDates {
			if md == key {
				row.IsLowestPoint = true
				break
			}
		}

		results = append(results, row)
	}

	return results
}
