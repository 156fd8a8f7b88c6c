package insights

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Status classifies how much of a budget has been spent.
type Status string

const (
	OnTrack    Status = "on-track"
	Halfway    Status = "halfway"
	NearLimit  Status = "near-limit"
	OverBudget Status = "over-budget"
)

var (
	nearLimitPercent = decimal.NewFromInt(80)
	halfwayPercent   = decimal.NewFromInt(50)
)

// budget type -> expense categories counted against it
var categoryMapping = map[string][]string{
	"rent":          {"rent"},
	"groceries":     {"groceries"},
	"utilities":     {"utilities"},
	"transport":     {"transport"},
	"subscriptions": {"subscriptions"},
	"eating-out":    {"dining-out"},
	"health":        {"health"},
	"fitness":       {"fitness"},
	"insurance":     {"insurance"},
	"education":     {"education"},
	"entertainment": {"entertainment"},
	"shopping":      {"shopping"},
	"miscellaneous": {"other"},
	"custom":        {"other"},
}

// ExpenseCategoriesFor returns the expense categories that count against
// a budget type. Unmapped types map to themselves.
func ExpenseCategoriesFor(budgetType string) []string {
	if cats, ok := categoryMapping[budgetType]; ok {
		return slices.Clone(cats)
	}
	return []string{budgetType}
}

// CategoryTransactions returns the expenses dated in month whose category
// counts against budgetType.
func CategoryTransactions(d core.Data, budgetType string, month core.YearMonth) []core.Transaction {
	cats := ExpenseCategoriesFor(budgetType)
	var out []core.Transaction
	for _, t := range d.Transactions {
		if t.IsExpense() && month.Contains(t.Date) && slices.Contains(cats, t.Category()) {
			out = append(out, t)
		}
	}
	return out
}

// CategorySpend sums the expenses of month that count against budgetType.
func CategorySpend(d core.Data, budgetType string, month core.YearMonth) decimal.Decimal {
	return sumTransactions(CategoryTransactions(d, budgetType, month), func(core.Transaction) bool { return true })
}

// StatusFor classifies spent against amount using the unclamped ratio.
func StatusFor(spent, amount decimal.Decimal) Status {
	if spent.GreaterThan(amount) {
		return OverBudget
	}
	p := percentOf(spent, amount)
	switch {
	case p.GreaterThanOrEqual(nearLimitPercent):
		return NearLimit
	case p.GreaterThanOrEqual(halfwayPercent):
		return Halfway
	}
	return OnTrack
}

// Utilization is one budget category measured against a month of spending.
type Utilization struct {
	Category core.BudgetCategory
	Spent    decimal.Decimal
	// Percent is unclamped; use Display for progress bars.
	Percent   decimal.Decimal
	Remaining decimal.Decimal
	Status    Status
}

// Display returns Percent clamped to [0, 100].
func (u Utilization) Display() decimal.Decimal {
	return clampPercent(u.Percent)
}

// BudgetUtilization measures c against its spend in month.
func BudgetUtilization(d core.Data, c core.BudgetCategory, month core.YearMonth) Utilization {
	spent := CategorySpend(d, c.Type, month)
	return Utilization{
		Category:  c,
		Spent:     spent,
		Percent:   percentOf(spent, c.Amount),
		Remaining: c.Amount.Sub(spent),
		Status:    StatusFor(spent, c.Amount),
	}
}

// InsightKind tags a budget insight for display.
type InsightKind string

const (
	InsightInfo    InsightKind = "info"
	InsightWarning InsightKind = "warning"
	InsightSuccess InsightKind = "success"
)

type Insight struct {
	Kind    InsightKind
	Message string
}

// BudgetSummary aggregates every budget category for one month.
type BudgetSummary struct {
	Month       core.YearMonth
	TotalBudget decimal.Decimal
	TotalSpent  decimal.Decimal
	Remaining   decimal.Decimal
	// Percent is clamped to 100.
	Percent    decimal.Decimal
	Status     Status
	Categories []Utilization
	OverBudget []string
	Insights   []Insight
}

// SummarizeBudgets measures every budget category against month.
func SummarizeBudgets(d core.Data, month core.YearMonth) BudgetSummary {
	s := BudgetSummary{
		Month:       month,
		TotalBudget: decimal.Zero,
		TotalSpent:  decimal.Zero,
		Categories:  make([]Utilization, 0, len(d.BudgetCategories)),
	}
	for _, c := range d.BudgetCategories {
		u := BudgetUtilization(d, c, month)
		s.TotalBudget = s.TotalBudget.Add(c.Amount)
		s.TotalSpent = s.TotalSpent.Add(u.Spent)
		s.Categories = append(s.Categories, u)
		if u.Status == OverBudget {
			s.OverBudget = append(s.OverBudget, c.Name)
		}
	}
	s.Remaining = s.TotalBudget.Sub(s.TotalSpent)
	raw := percentOf(s.TotalSpent, s.TotalBudget)
	s.Percent = clampPercent(raw)
	s.Status = StatusFor(s.TotalSpent, s.TotalBudget)
	s.Insights = budgetInsights(s.TotalBudget, raw, s.OverBudget)
	return s
}

func budgetInsights(totalBudget, percent decimal.Decimal, over []string) []Insight {
	var out []Insight
	switch {
	case totalBudget.IsZero():
		out = append(out, Insight{InsightInfo, "Set up budget categories to track your spending effectively."})
	case percent.GreaterThan(hundred):
		out = append(out, Insight{InsightWarning,
			fmt.Sprintf("You're %s%% over budget this month.", percent.Sub(hundred).StringFixed(1))})
	case percent.GreaterThanOrEqual(nearLimitPercent):
		out = append(out, Insight{InsightWarning,
			fmt.Sprintf("You've used %s%% of your budget. Consider reducing spending.", percent.StringFixed(1))})
	case percent.LessThan(halfwayPercent):
		out = append(out, Insight{InsightSuccess,
			fmt.Sprintf("Great job! You're only using %s%% of your budget.", percent.StringFixed(1))})
	}
	if len(over) > 0 {
		out = append(out, Insight{InsightWarning,
			fmt.Sprintf("%d categories are over budget: %s", len(over), strings.Join(over, ", "))})
	}
	return out
}
