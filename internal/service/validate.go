package service

import (
	"fmt"
	"time"

	"github.com/cashflowpro/forecast-go/internal/domain"
)

// Input limits shared by the write services.
const (
	maxAmount        = 100_000_000
	maxNameLen       = 100
	maxDescription   = 200
	maxNotesLen      = 500
	dateLayout       = "2006-01-02"
	maxAbsoluteValue = 100_000_000 // checkpoint balances may be negative
)

func validateAmount(field string, amount float64) error {
	if amount <= 0 {
		return &domain.ErrValidation{Field: field, Message: "must be greater than zero"}
	}
	if amount > maxAmount {
		return &domain.ErrValidation{Field: field, Message: fmt.Sprintf("must not exceed %d", maxAmount)}
	}
	return nil
}

func validateType(field, t string) error {
	if t != domain.TypeIncome && t != domain.TypeExpense {
		return &domain.ErrValidation{Field: field, Message: "must be 'income' or 'expense'"}
	}
	return nil
}

func validateDate(field, date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return &domain.ErrValidation{Field: field, Message: "must be a valid YYYY-MM-DD date"}
	}
	return nil
}

func validateMaxLen(field, value string, limit int) error {
	if len(value) > limit {
		return &domain.ErrValidation{Field: field, Message: fmt.Sprintf("must not exceed %d characters", limit)}
	}
	return nil
}

// validateRecurrenceDay checks the recurrence day against the bounds
// its frequency implies. Bi-weekly rules are anchored to the start
// date, so any recurrence day is ignored there.
func validateRecurrenceDay(frequency string, day *int) error {
	switch frequency {
	case domain.FreqWeekly:
		if day == nil {
			return &domain.ErrValidation{Field: "recurrence_day", Message: "required for weekly rules"}
		}
		if *day < 0 || *day > 6 {
			return &domain.ErrValidation{Field: "recurrence_day", Message: "must be 0-6 for weekly rules (0=Sunday)"}
		}
	case domain.FreqMonthly, domain.FreqYearly:
		if day == nil {
			if frequency == domain.FreqMonthly {
				return &domain.ErrValidation{Field: "recurrence_day", Message: "required for monthly rules"}
			}
			return nil
		}
		if *day < 1 || *day > 31 {
			return &domain.ErrValidation{Field: "recurrence_day", Message: "must be 1-31"}
		}
	case domain.FreqBiWeekly:
		// anchored to start_date; nothing to check
	default:
		return &domain.ErrValidation{Field: "frequency", Message: "must be one of weekly, bi-weekly, monthly, yearly"}
	}
	return nil
}

func validateDateOrder(start, end string) error {
	if end < start {
		return &domain.ErrValidation{Field: "end_date", Message: "must not be before start_date"}
	}
	return nil
}
