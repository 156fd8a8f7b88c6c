package insights

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var targetSavingsRate = decimal.NewFromInt(20)

const topCategoryCount = 3

// Suggestion is an advisory message derived from spending patterns.
type Suggestion struct {
	Title       string
	Description string
}

// Suggestions returns advice for month: the most frequent expense
// categories, budgets past 80% and a savings rate under 20%.
func Suggestions(d core.Data, month core.YearMonth) []Suggestion {
	var out []Suggestion

	if top := TopCategories(d, topCategoryCount); len(top) > 0 {
		out = append(out, Suggestion{
			Title: "Top Spending Categories",
			Description: fmt.Sprintf("You spend most on: %s. Consider setting budgets for these categories.",
				strings.Join(top, ", ")),
		})
	}

	for _, c := range d.BudgetCategories {
		u := BudgetUtilization(d, c, month)
		if u.Percent.GreaterThan(nearLimitPercent) {
			out = append(out, Suggestion{
				Title: c.Name + " Budget Alert",
				Description: fmt.Sprintf("You've used %s%% of your %s budget. Consider reducing spending in this category.",
					u.Percent.StringFixed(0), c.Name),
			})
		}
	}

	ov := Overview(d, month)
	if ov.Income.IsPositive() {
		rate := percentOf(ov.Income.Sub(ov.Expenses), ov.Income)
		if rate.LessThan(targetSavingsRate) {
			out = append(out, Suggestion{
				Title: "Improve Savings Rate",
				Description: fmt.Sprintf("Your current savings rate is %s%%. Try to save at least 20%% of your income.",
					rate.StringFixed(1)),
			})
		}
	}
	return out
}

// TopCategories returns up to n expense categories ordered by how many
// expenses use them. Ties keep first-seen order.
func TopCategories(d core.Data, n int) []string {
	type count struct {
		name string
		n    int
	}
	idx := map[string]int{}
	var counts []count
	for _, t := range d.Transactions {
		if !t.IsExpense() {
			continue
		}
		cat := t.Category()
		i, ok := idx[cat]
		if !ok {
			i = len(counts)
			idx[cat] = i
			counts = append(counts, count{name: cat})
		}
		counts[i].n++
	}
	slices.SortStableFunc(counts, func(a, b count) int { return cmp.Compare(b.n, a.n) })

	out := make([]string, 0, min(n, len(counts)))
	for _, c := range counts[:min(n, len(counts))] {
		out = append(out, c.name)
	}
	return out
}
