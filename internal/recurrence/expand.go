package recurrence

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

// DefaultOccurrences is how many future copies are created for a new
// recurring record.
const DefaultOccurrences = 3

// Expand yields n values built by clone for occurrences 1..n after start.
// The frequency is checked before the sequence is returned. Each range
// over the sequence calls clone again, producing fresh values.
func Expand[T any](start core.Date, f core.Frequency, targetDay, n int, clone func(i int, date core.Date) T) (iter.Seq[T], error) {
	stepper, err := GetStepper(f)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: occurrences %d", core.ErrOutOfRange, n)
	}
	return func(yield func(T) bool) {
		for i := 1; i <= n; i++ {
			if !yield(clone(i, stepper.Step(start, i, targetDay))) {
				return
			}
		}
	}, nil
}

// Reminders expands a recurring reminder. Copies keep every field of base
// except id, date and creation time.
func Reminders(base core.Reminder, n int, newID func() string, now time.Time) (iter.Seq[core.Reminder], error) {
	return Expand(base.Date, base.Frequency, 0, n, func(_ int, date core.Date) core.Reminder {
		r := base
		r.ID = newID()
		r.Date = date
		r.CreatedAt = now
		return r
	})
}

// IncomeIdeas expands a recurring income idea, honouring its day of receipt.
func IncomeIdeas(base core.IncomeIdea, n int, newID func() string, now time.Time) (iter.Seq[core.IncomeIdea], error) {
	return Expand(base.Date, base.Frequency, base.TargetDay(), n, func(_ int, date core.Date) core.IncomeIdea {
		idea := base
		idea.ID = newID()
		idea.Date = date
		idea.CreatedAt = now
		return idea
	})
}

// DescribeDayOfReceipt renders a day of receipt for display, e.g.
// "15th of month", "Last day of month" or "Every Friday".
func DescribeDayOfReceipt(day string) string {
	day = strings.TrimSpace(day)
	if day == "" {
		return ""
	}
	if n, err := strconv.Atoi(day); err == nil {
		if n == core.LastDayOfMonth {
			return "Last day of month"
		}
		return fmt.Sprintf("%d%s of month", n, ordinalSuffix(n))
	}
	switch strings.ToLower(day) {
	case "monday", "tuesday", "wednesday", "thursday", "friday":
		return "Every " + strings.ToUpper(day[:1]) + strings.ToLower(day[1:])
	}
	return ""
}

func ordinalSuffix(n int) string {
	j, k := n%10, n%100
	switch {
	case j == 1 && k != 11:
		return "st"
	case j == 2 && k != 12:
		return "nd"
	case j == 3 && k != 13:
		return "rd"
	}
	return "th"
}
