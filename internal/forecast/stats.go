package forecast

import "github.com/cashflowpro/forecast-go/internal/domain"

// ComputeStats reduces a simulation run to its summary metrics. An
// empty run yields all-zero defaults, never an error.
//
// NetChange is income minus expenses, not final minus starting
// balance; the two differ when checkpoints force balance jumps.
func ComputeStats(results []domain.DailyResult) domain.SimulationStats {
	stats := domain.SimulationStats{}
	if len(results) == 0 {
		return stats
	}

	var balanceSum float64
	lowestIdx, highestIdx := 0, 0

	for i, r := range results {
		for _, ev := range r.Transactions {
			if ev.Type == domain.TypeIncome {
				stats.TotalIncome += ev.Amount
			} else {
				stats.TotalExpenses += ev.Amount
			}
		}

		balanceSum += r.EndingBalance
		if r.EndingBalance < results[lowestIdx].EndingBalance {
			lowestIdx = i
		}
		if r.EndingBalance > results[highestIdx].EndingBalance {
			highestIdx = i
		}
		if r.EndingBalance < 0 {
			stats.NegativeDays++
		}
	}

	stats.NetChange = stats.TotalIncome - stats.TotalExpenses
	stats.FinalBalance = results[len(results)-1].EndingBalance
	stats.LowestBalance = results[lowestIdx].EndingBalance
	stats.LowestBalanceDate = results[lowestIdx].Date
	stats.HighestBalance = results[highestIdx].EndingBalance
	stats.HighestBalanceDate = results[highestIdx].Date
	stats.AverageBalance = balanceSum / float64(len(results))

	stats.DaysUntilOverdraft = DaysUntilOverdraft(results)
	stats.HasOverdraft = stats.DaysUntilOverdraft != nil

	stats.LongestPositiveStreak, stats.LongestNegativeStreak = balanceStreaks(results)

	if stats.TotalIncome > 0 {
		stats.SavingsRate = (stats.TotalIncome - stats.TotalExpenses) / stats.TotalIncome * 100
	}

	return stats
}

// FindLowestBalance returns the minimum ending balance across the run
// and the first date achieving it. Zero values for an empty run.
func FindLowestBalance(results []domain.DailyResult) (date string, balance float64) {
	if len(results) == 0 {
		return "", 0
	}
	idx := 0
	for i, r := range results {
		if r.EndingBalance < results[idx].EndingBalance {
			idx = i
		}
	}
	return results[idx].Date, results[idx].EndingBalance
}

// DaysUntilOverdraft returns the zero-based index of the first day
// whose ending balance is strictly negative, or nil if none.
func DaysUntilOverdraft(results []domain.DailyResult) *int {
	for i, r := range results {
		if r.EndingBalance < 0 {
			day := i
			return &day
		}
	}
	return nil
}

// balanceStreaks returns the longest consecutive run of non-negative
// ending balances and the longest consecutive run of negative ones.
func balanceStreaks(results []domain.DailyResult) (positive, negative int) {
	curPos, curNeg := 0, 0
	for _, r := range results {
		if r.EndingBalance >= 0 {
			curPos++
			curNeg = 0
		} else {
			curNeg++
			curPos = 0
		}
		if curPos > positive {
			positive = curPos
		}
		if curNeg > negative {
			negative = curNeg
		}
	}
	return positive, negative
}
