package forecast

import "time"

// dayLayout is the ISO calendar-date format used for all date keys.
const dayLayout = "2006-01-02"

// DayKey formats a time as the ISO date key used throughout the engine.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// parseDay parses an ISO date string into a UTC-midnight time.
func parseDay(s string) (time.Time, bool) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// normalizeDay strips the time-of-day and timezone, keeping only the
// calendar date. All engine arithmetic happens on UTC midnights so that
// day counts are exact regardless of DST in the caller's location.
func normalizeDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of calendar days from a to b.
// Negative when b precedes a. Both arguments must be UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// daysInMonth returns the number of days in t's month.
func daysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}
