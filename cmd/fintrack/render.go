package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/currency"
	"fintrack/internal/insights"
	"fintrack/internal/lifecycle"
	"fintrack/internal/recurrence"
)

func money(amount decimal.Decimal, code string) string {
	return currency.Format(amount, code)
}

// cell makes s safe inside a markdown table.
func cell(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "|", `\|`)
}

func percent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

func accountsMarkdown(accounts []core.Account, total decimal.Decimal, defaultCurrency string) string {
	var b strings.Builder
	b.WriteString("# Accounts\n\n")
	if len(accounts) == 0 {
		b.WriteString("No accounts yet. Create one with `fintrack account-add`.\n")
		return b.String()
	}
	b.WriteString("| Name | Type | Balance | ID |\n|---|---|---:|---|\n")
	for _, a := range accounts {
		fmt.Fprintf(&b, "| %s | %s | %s | `%s` |\n", cell(a.Name), a.Type, money(a.Balance, a.Currency), a.ID)
	}
	fmt.Fprintf(&b, "\n**Total:** %s\n", money(total, defaultCurrency))
	return b.String()
}

func transactionsMarkdown(txs []core.Transaction) string {
	var b strings.Builder
	b.WriteString("# Transactions\n\n")
	if len(txs) == 0 {
		b.WriteString("No transactions.\n")
		return b.String()
	}
	b.WriteString("| Date | Type | Title | Category | Amount | ID |\n|---|---|---|---|---:|---|\n")
	for _, t := range txs {
		amount := money(t.Amount, t.Currency)
		if t.IsExpense() {
			amount = "-" + amount
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | `%s` |\n",
			t.Date, t.Type, cell(t.Title()), cell(t.Category()), amount, t.ID)
	}
	return b.String()
}

func transfersMarkdown(transfers []core.Transfer) string {
	var b strings.Builder
	b.WriteString("# Recent transfers\n\n")
	if len(transfers) == 0 {
		b.WriteString("No transfers.\n")
		return b.String()
	}
	b.WriteString("| Date | From | To | Amount | Description |\n|---|---|---|---:|---|\n")
	for _, t := range transfers {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			t.Date, cell(t.FromAccountName), cell(t.ToAccountName), t.Amount.StringFixed(2), cell(t.Description))
	}
	return b.String()
}

func budgetsMarkdown(s insights.BudgetSummary, code string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Budgets for %s\n\n", s.Month)
	if len(s.Categories) == 0 {
		b.WriteString("No budgets yet. Create one with `fintrack budget-add`.\n")
		return b.String()
	}
	b.WriteString("| Budget | Type | Spent | Budget | Remaining | Used | Status | ID |\n|---|---|---:|---:|---:|---:|---|---|\n")
	for _, u := range s.Categories {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | `%s` |\n",
			cell(u.Category.Name), cell(u.Category.Type), money(u.Spent, code), money(u.Category.Amount, code),
			money(u.Remaining, code), percent(u.Display()), u.Status, u.Category.ID)
	}
	fmt.Fprintf(&b, "\n**Overall:** %s of %s spent (%s, %s), %s remaining\n",
		money(s.TotalSpent, code), money(s.TotalBudget, code), percent(s.Percent), s.Status, money(s.Remaining, code))
	if len(s.Insights) > 0 {
		b.WriteString("\n## Insights\n\n")
		for _, in := range s.Insights {
			fmt.Fprintf(&b, "- **%s:** %s\n", in.Kind, in.Message)
		}
	}
	return b.String()
}

func dashboardMarkdown(d insights.Dashboard, m insights.MonthMetrics, upcoming []insights.UpcomingItem, code string) string {
	var b strings.Builder
	b.WriteString("# Dashboard\n\n")
	fmt.Fprintf(&b, "- **Net worth:** %s\n", money(d.NetWorth, code))
	fmt.Fprintf(&b, "- **Total income:** %s\n", money(d.TotalIncome, code))
	fmt.Fprintf(&b, "- **Total expenses:** %s\n", money(d.TotalExpenses, code))
	fmt.Fprintf(&b, "- **Spent of available funds:** %s\n", percent(d.SpentPercent))

	fmt.Fprintf(&b, "\n## %s\n\n", m.Month)
	fmt.Fprintf(&b, "- **Income:** %s\n", money(m.Income, code))
	fmt.Fprintf(&b, "- **Expenses:** %s\n", money(m.Expenses, code))
	fmt.Fprintf(&b, "- **Savings:** %s\n", money(m.Savings, code))
	fmt.Fprintf(&b, "- **Budget used:** %s\n", percent(m.BudgetUtilization))

	if len(upcoming) > 0 {
		b.WriteString("\n")
		b.WriteString(upcomingMarkdown(upcoming))
	}
	return b.String()
}

func trendMarkdown(series []core.MonthOverview, code string) string {
	var b strings.Builder
	b.WriteString("# Income and expenses\n\n")
	if len(series) == 0 {
		b.WriteString("No transactions yet.\n")
		return b.String()
	}
	b.WriteString("| Month | Income | Expenses | Net |\n|---|---:|---:|---:|\n")
	for _, ov := range series {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			ov.Month, money(ov.Income, code), money(ov.Expenses, code), money(ov.Income.Sub(ov.Expenses), code))
	}
	return b.String()
}

func suggestionsMarkdown(suggestions []insights.Suggestion) string {
	var b strings.Builder
	b.WriteString("# Suggestions\n\n")
	if len(suggestions) == 0 {
		b.WriteString("Nothing to suggest this month.\n")
		return b.String()
	}
	for _, s := range suggestions {
		fmt.Fprintf(&b, "- **%s:** %s\n", s.Title, s.Description)
	}
	return b.String()
}

func upcomingMarkdown(items []insights.UpcomingItem) string {
	var b strings.Builder
	b.WriteString("## Due this week\n\n")
	if len(items) == 0 {
		b.WriteString("Nothing due.\n")
		return b.String()
	}
	for _, it := range items {
		when := fmt.Sprintf("in %d days", it.DaysUntil)
		switch it.DaysUntil {
		case 0:
			when = "today"
		case 1:
			when = "tomorrow"
		}
		mark := ""
		if it.Urgent() {
			mark = " **(urgent)**"
		}
		fmt.Fprintf(&b, "- %s %s: %s, %s, %s\n", it.Date, it.Kind, cell(it.Title), money(it.Amount, it.Currency), when+mark)
	}
	return b.String()
}

func plansMarkdown(d core.Data) string {
	var b strings.Builder
	b.WriteString("# Reminders\n\n")
	if len(d.Reminders) == 0 {
		b.WriteString("None.\n")
	} else {
		b.WriteString("| Date | Title | Amount | Priority | Repeats | ID |\n|---|---|---:|---|---|---|\n")
		for _, r := range d.Reminders {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | `%s` |\n",
				r.Date, cell(r.Title), money(r.Amount, r.Currency), r.Priority, r.Frequency, r.ID)
		}
	}

	b.WriteString("\n# Planned expenses\n\n")
	if len(d.PlannedExpenses) == 0 {
		b.WriteString("None.\n")
	} else {
		b.WriteString("| Date | Item | Category | Cost | ID |\n|---|---|---|---:|---|\n")
		for _, p := range d.PlannedExpenses {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | `%s` |\n",
				p.Date, cell(p.Item), cell(p.Category), money(p.Cost, p.Currency), p.ID)
		}
	}

	b.WriteString("\n# Income ideas\n\n")
	if len(d.IncomeIdeas) == 0 {
		b.WriteString("None.\n")
	} else {
		b.WriteString("| Date | Idea | Amount | Confidence | Repeats | Day | ID |\n|---|---|---:|---:|---|---|---|\n")
		for _, i := range d.IncomeIdeas {
			fmt.Fprintf(&b, "| %s | %s | %s | %d%% | %s | %s | `%s` |\n",
				i.Date, cell(i.Idea), money(i.Amount, i.Currency), i.Confidence, i.Frequency,
				recurrence.DescribeDayOfReceipt(i.DayOfReceipt), i.ID)
		}
	}
	return b.String()
}

func currencyMarkdown(current string, codes []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Default currency:** %s (%s)\n\n", current, currency.Symbol(current))
	b.WriteString("Supported: ")
	b.WriteString(strings.Join(codes, ", "))
	b.WriteString("\n")
	return b.String()
}

func infoMarkdown(info lifecycle.StorageInfo, policy string) string {
	var b strings.Builder
	b.WriteString("# Storage\n\n")
	fmt.Fprintf(&b, "- **Location:** %s\n", info.Location)
	fmt.Fprintf(&b, "- **Commit policy:** %s\n", policy)
	fmt.Fprintf(&b, "- **Size:** %s\n", info.KB())
	fmt.Fprintf(&b, "- **Transactions:** %d\n", info.Transactions)
	fmt.Fprintf(&b, "- **Accounts:** %d\n", info.Accounts)
	fmt.Fprintf(&b, "- **Transfers:** %d\n", info.Transfers)
	fmt.Fprintf(&b, "- **Reminders:** %d\n", info.Reminders)
	fmt.Fprintf(&b, "- **Planned expenses:** %d\n", info.PlannedExpenses)
	fmt.Fprintf(&b, "- **Income ideas:** %d\n", info.IncomeIdeas)
	return b.String()
}
