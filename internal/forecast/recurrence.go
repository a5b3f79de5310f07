package forecast

import (
	"time"

	"github.com/cashflowpro/forecast-go/internal/domain"
)

// Matches reports whether a recurring rule fires on the target date.
//
// Inactive rules never fire, nor do rules outside their [start, end]
// window (end date inclusive). An unparseable date or an unrecognized
// frequency makes the rule inert rather than failing the whole
// forecast: one bad rule must not blank the projection.
func Matches(target time.Time, rule domain.BudgetRule) bool {
	if !rule.IsActive {
		return false
	}

	start, ok := parseDay(rule.StartDate)
	if !ok {
		return false
	}
	day := normalizeDay(target)

	if day.Before(start) {
		return false
	}
	if rule.EndDate != nil && *rule.EndDate != "" {
		end, ok := parseDay(*rule.EndDate)
		if !ok {
			return false
		}
		if day.After(end) {
			return false
		}
	}

	switch rule.Frequency {
	case domain.FreqWeekly:
		// Missing recurrence day means Sunday.
		recDay := 0
		if rule.RecurrenceDay != nil {
			recDay = *rule.RecurrenceDay
		}
		return int(day.Weekday()) == recDay%7

	case domain.FreqBiWeekly:
		// Anchored to the start date's weekday, every 14 days.
		// RecurrenceDay is ignored for this frequency.
		diff := daysBetween(start, day)
		return diff >= 0 && diff%14 == 0

	case domain.FreqMonthly:
		// Missing recurrence day means the 1st. Rules anchored past
		// the end of a short month fire on its last day instead (the
		// 31st clamps to Feb 28/29, Apr 30, ...).
		recDay := 1
		if rule.RecurrenceDay != nil {
			recDay = *rule.RecurrenceDay
		}
		effective := recDay
		if dim := daysInMonth(day); recDay > dim {
			effective = dim
		}
		return day.Day() == effective

	case domain.FreqYearly:
		return day.Month() == start.Month() && day.Day() == start.Day()

	default:
		return false
	}
}

// OccurrencesInRange lists every date in [from, to] (inclusive) on
// which the rule fires, in ascending order.
func OccurrencesInRange(rule domain.BudgetRule, from, to time.Time) []time.Time {
	var out []time.Time
	for d := normalizeDay(from); !d.After(normalizeDay(to)); d = d.AddDate(0, 0, 1) {
		if Matches(d, rule) {
			out = append(out, d)
		}
	}
	return out
}
