package insights

import (
	"slices"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// DefaultUpcomingDays is the look-ahead window for upcoming items.
const DefaultUpcomingDays = 7

type UpcomingKind string

const (
	UpcomingReminder UpcomingKind = "reminder"
	UpcomingPlanned  UpcomingKind = "planned"
)

// UpcomingItem is a reminder or planned expense due soon.
type UpcomingItem struct {
	Kind      UpcomingKind
	ID        string
	Title     string
	Amount    decimal.Decimal
	Currency  string
	Date      core.Date
	DaysUntil int
}

// Urgent reports whether the item is due today or tomorrow.
func (u UpcomingItem) Urgent() bool { return u.DaysUntil <= 1 }

// Upcoming lists reminders and planned expenses dated from today through
// today+days, soonest first.
func Upcoming(d core.Data, today core.Date, days int) []UpcomingItem {
	end := today.AddDays(days)
	within := func(date core.Date) bool {
		return !date.Before(today.Time) && !date.After(end.Time)
	}
	daysUntil := func(date core.Date) int {
		return int(date.Sub(today.Time).Hours() / 24)
	}

	var out []UpcomingItem
	for _, r := range d.Reminders {
		if within(r.Date) {
			out = append(out, UpcomingItem{Kind: UpcomingReminder, ID: r.ID, Title: r.Title,
				Amount: r.Amount, Currency: r.Currency, Date: r.Date, DaysUntil: daysUntil(r.Date)})
		}
	}
	for _, p := range d.PlannedExpenses {
		if within(p.Date) {
			out = append(out, UpcomingItem{Kind: UpcomingPlanned, ID: p.ID, Title: p.Item,
				Amount: p.Cost, Currency: p.Currency, Date: p.Date, DaysUntil: daysUntil(p.Date)})
		}
	}
	slices.SortStableFunc(out, func(a, b UpcomingItem) int { return a.Date.Compare(b.Date.Time) })
	return out
}
