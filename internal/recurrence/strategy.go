// Package recurrence expands a recurring reminder or income idea into a
// batch of future dated copies.
//
// Each frequency has its own Stepper. Month based steppers reproduce plain
// calendar overflow: January 31st plus one month is March 2nd (or 3rd),
// not the end of February. Only the "last day" day of receipt clamps.
package recurrence

import (
	"fmt"
	"time"

	"fintrack/internal/core"
)

// Stepper computes the date of the i-th occurrence after base.
// targetDay is a day of month, core.LastDayOfMonth, or 0 for none.
type Stepper interface {
	Step(base core.Date, i, targetDay int) core.Date
}

// WeeklyStepper advances by whole weeks. The day of receipt is ignored.
type WeeklyStepper struct{}

func (WeeklyStepper) Step(base core.Date, i, _ int) core.Date {
	return base.AddDays(7 * i)
}

// MonthlyStepper advances by Months calendar months, then applies the
// day of receipt.
type MonthlyStepper struct {
	Months int
}

func (s MonthlyStepper) Step(base core.Date, i, targetDay int) core.Date {
	t := time.Date(base.Year(), time.Month(base.Month()+s.Months*i), base.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case targetDay == core.LastDayOfMonth:
		// last day of whatever month the overflow landed in
		t = time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	case targetDay > 0:
		t = time.Date(t.Year(), t.Month(), targetDay, 0, 0, 0, 0, time.UTC)
	}
	return core.DateOf(t)
}

// YearlyStepper keeps month and day and advances the year.
type YearlyStepper struct{}

func (YearlyStepper) Step(base core.Date, i, _ int) core.Date {
	return core.NewDate(base.Year()+i, base.Month(), base.Day())
}

var steppers = map[core.Frequency]Stepper{
	core.Weekly:    WeeklyStepper{},
	core.Monthly:   MonthlyStepper{Months: 1},
	core.Quarterly: MonthlyStepper{Months: 3},
	core.Yearly:    YearlyStepper{},
}

// GetStepper returns the stepper registered for f.
func GetStepper(f core.Frequency) (Stepper, error) {
	s, ok := steppers[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidFrequency, f)
	}
	return s, nil
}
