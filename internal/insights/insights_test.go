package insights

import (
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var may2024 = core.YearMonth{Year: 2024, Month: time.May}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func expense(id, category, amount string, date core.Date) core.Transaction {
	return core.Transaction{ID: id, Type: core.ExpenseTx, Amount: dec(amount), Date: date,
		Expense: &core.ExpenseDetails{Category: category, Item: id, PaymentMethod: core.PayCash}}
}

func income(id, amount string, date core.Date) core.Transaction {
	return core.Transaction{ID: id, Type: core.IncomeTx, Amount: dec(amount), Date: date,
		Income: &core.IncomeDetails{Source: id}}
}

func budget(name, typ, amount string) core.BudgetCategory {
	return core.BudgetCategory{ID: name, Name: name, Type: typ, Amount: dec(amount)}
}

func TestTotals(t *testing.T) {
	d := core.EmptyData()
	d.Accounts = []core.Account{
		{ID: "a", Currency: "USD", Balance: dec("1250.75")},
		{ID: "b", Currency: "USD", Balance: dec("850.00")},
		{ID: "c", Currency: "EUR", Balance: dec("420.50")},
	}
	d.Transactions = []core.Transaction{
		income("salary", "3000", core.NewDate(2024, 5, 1)),
		expense("rent", "rent", "1200", core.NewDate(2024, 5, 2)),
		expense("food", "groceries", "80.25", core.NewDate(2024, 4, 2)),
	}

	if got := TotalAccountBalance(d); !got.Equal(dec("2521.25")) {
		t.Errorf("TotalAccountBalance() = %s, want 2521.25", got)
	}
	if got := TotalIncome(d); !got.Equal(dec("3000")) {
		t.Errorf("TotalIncome() = %s", got)
	}
	if got := TotalExpenses(d); !got.Equal(dec("1280.25")) {
		t.Errorf("TotalExpenses() = %s", got)
	}
	if got := TotalAccountBalance(core.EmptyData()); !got.IsZero() {
		t.Errorf("empty TotalAccountBalance() = %s", got)
	}
}

func TestBudgetUtilization_GroceriesScenario(t *testing.T) {
	d := core.EmptyData()
	groceries := budget("Groceries", "groceries", "300.00")
	d.BudgetCategories = []core.BudgetCategory{groceries}
	d.Transactions = []core.Transaction{
		expense("g1", "groceries", "50.00", core.NewDate(2024, 5, 3)),
		expense("g2", "groceries", "45.00", core.NewDate(2024, 5, 10)),
		expense("g3", "groceries", "50.00", core.NewDate(2024, 5, 31)),
		expense("april", "groceries", "99.00", core.NewDate(2024, 4, 30)),
		expense("pizza", "dining-out", "30.00", core.NewDate(2024, 5, 4)),
		income("gift", "500", core.NewDate(2024, 5, 5)),
	}

	u := BudgetUtilization(d, groceries, may2024)
	if !u.Spent.Equal(dec("145")) {
		t.Errorf("Spent = %s, want 145", u.Spent)
	}
	if got := u.Percent.Round(1).String(); got != "48.3" {
		t.Errorf("Percent = %s, want 48.3", got)
	}
	if u.Status != OnTrack {
		t.Errorf("Status = %s, want %s", u.Status, OnTrack)
	}
	if !u.Remaining.Equal(dec("155")) {
		t.Errorf("Remaining = %s, want 155", u.Remaining)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		spent, amount string
		want          Status
	}{
		{"301", "300", OverBudget},
		{"300", "300", NearLimit},
		{"240", "300", NearLimit},
		{"239.99", "300", Halfway},
		{"150", "300", Halfway},
		{"149.99", "300", OnTrack},
		{"0", "300", OnTrack},
		{"5", "0", OverBudget},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.spent, tt.amount), func(t *testing.T) {
			if got := StatusFor(dec(tt.spent), dec(tt.amount)); got != tt.want {
				t.Errorf("StatusFor() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUtilizationDisplayClamped(t *testing.T) {
	d := core.EmptyData()
	c := budget("Fun", "entertainment", "100")
	d.Transactions = []core.Transaction{expense("gig", "entertainment", "250", core.NewDate(2024, 5, 1))}

	u := BudgetUtilization(d, c, may2024)
	if !u.Percent.Equal(dec("250")) || !u.Display().Equal(dec("100")) || u.Status != OverBudget {
		t.Errorf("utilization = %s (display %s) %s", u.Percent, u.Display(), u.Status)
	}
}

func TestExpenseCategoriesFor(t *testing.T) {
	tests := []struct {
		budgetType string
		want       []string
	}{
		{"eating-out", []string{"dining-out"}},
		{"miscellaneous", []string{"other"}},
		{"custom", []string{"other"}},
		{"rent", []string{"rent"}},
		{"pets", []string{"pets"}},
	}
	for _, tt := range tests {
		if got := ExpenseCategoriesFor(tt.budgetType); !slices.Equal(got, tt.want) {
			t.Errorf("ExpenseCategoriesFor(%q) = %v, want %v", tt.budgetType, got, tt.want)
		}
	}
}

func TestCategorySpend_Mapping(t *testing.T) {
	d := core.EmptyData()
	d.Transactions = []core.Transaction{
		expense("pizza", "dining-out", "30", core.NewDate(2024, 5, 4)),
		expense("misc", "other", "12", core.NewDate(2024, 5, 4)),
		expense("wrong month", "dining-out", "30", core.NewDate(2024, 6, 1)),
	}
	if got := CategorySpend(d, "eating-out", may2024); !got.Equal(dec("30")) {
		t.Errorf("eating-out spend = %s, want 30", got)
	}
	if got := CategorySpend(d, "custom", may2024); !got.Equal(dec("12")) {
		t.Errorf("custom spend = %s, want 12", got)
	}
	if got := CategorySpend(d, "dining-out", may2024); !got.Equal(dec("30")) {
		t.Errorf("unmapped type should match itself, got %s", got)
	}
	if n := len(CategoryTransactions(d, "eating-out", may2024)); n != 1 {
		t.Errorf("CategoryTransactions() = %d, want 1", n)
	}
}

func TestSummarizeBudgets(t *testing.T) {
	d := core.EmptyData()
	d.BudgetCategories = []core.BudgetCategory{
		budget("Rent", "rent", "1000"),
		budget("Fun", "entertainment", "100"),
	}
	d.Transactions = []core.Transaction{
		expense("rent", "rent", "1000", core.NewDate(2024, 5, 1)),
		expense("concert", "entertainment", "150", core.NewDate(2024, 5, 2)),
	}

	s := SummarizeBudgets(d, may2024)
	if !s.TotalBudget.Equal(dec("1100")) || !s.TotalSpent.Equal(dec("1150")) || !s.Remaining.Equal(dec("-50")) {
		t.Errorf("totals = %s / %s / %s", s.TotalBudget, s.TotalSpent, s.Remaining)
	}
	if !s.Percent.Equal(dec("100")) || s.Status != OverBudget {
		t.Errorf("percent = %s, status = %s", s.Percent, s.Status)
	}
	if !slices.Equal(s.OverBudget, []string{"Fun"}) {
		t.Errorf("OverBudget = %v", s.OverBudget)
	}
	if len(s.Insights) != 2 || s.Insights[0].Kind != InsightWarning || !strings.Contains(s.Insights[1].Message, "Fun") {
		t.Errorf("Insights = %+v", s.Insights)
	}

	empty := SummarizeBudgets(core.EmptyData(), may2024)
	if len(empty.Insights) != 1 || empty.Insights[0].Kind != InsightInfo {
		t.Errorf("empty Insights = %+v", empty.Insights)
	}
}

func TestMetrics(t *testing.T) {
	d := core.EmptyData()
	d.BudgetCategories = []core.BudgetCategory{budget("All", "rent", "400")}
	d.Transactions = []core.Transaction{
		income("pay", "1000", core.NewDate(2024, 5, 1)),
		expense("rent", "rent", "300", core.NewDate(2024, 5, 2)),
		expense("old", "rent", "999", core.NewDate(2023, 5, 2)),
	}
	m := Metrics(d, may2024)
	if !m.Income.Equal(dec("1000")) || !m.Expenses.Equal(dec("300")) || !m.Savings.Equal(dec("700")) {
		t.Errorf("Metrics() = %+v", m)
	}
	if !m.BudgetUtilization.Equal(dec("75")) {
		t.Errorf("BudgetUtilization = %s, want 75", m.BudgetUtilization)
	}
}

func TestTrendSeries(t *testing.T) {
	d := core.EmptyData()
	for m := 1; m <= 8; m++ {
		d.Transactions = append(d.Transactions,
			income(fmt.Sprintf("in-%d", m), "100", core.NewDate(2024, m, 5)),
			expense(fmt.Sprintf("out-%d", m), "food", fmt.Sprint(m), core.NewDate(2024, m, 6)))
	}

	series := TrendSeries(d, DefaultTrendMonths)
	if len(series) != 6 {
		t.Fatalf("len = %d, want 6", len(series))
	}
	var months []string
	for _, ov := range series {
		months = append(months, ov.Month.String())
	}
	want := []string{"2024-03", "2024-04", "2024-05", "2024-06", "2024-07", "2024-08"}
	if !slices.Equal(months, want) {
		t.Errorf("months = %v, want %v", months, want)
	}
	if last := series[5]; !last.Income.Equal(dec("100")) || !last.Expenses.Equal(dec("8")) {
		t.Errorf("last = %+v", last)
	}

	avail := AvailableMonths(d)
	if len(avail) != 8 || avail[0].String() != "2024-08" {
		t.Errorf("AvailableMonths() = %v", avail)
	}
}

func TestSpendingByCategory_FirstSeenOrder(t *testing.T) {
	d := core.EmptyData()
	d.Transactions = []core.Transaction{
		expense("a", "transport", "10", core.NewDate(2024, 5, 1)),
		expense("b", "food", "5", core.NewDate(2024, 5, 2)),
		expense("c", "transport", "2.5", core.NewDate(2024, 5, 3)),
		income("d", "1", core.NewDate(2024, 5, 3)),
	}
	got := SpendingByCategory(d, may2024)
	if len(got) != 2 || got[0].Name != "transport" || !got[0].Amount.Equal(dec("12.5")) || got[1].Name != "food" {
		t.Errorf("SpendingByCategory() = %+v", got)
	}
}

func TestSuggestions(t *testing.T) {
	d := core.EmptyData()
	d.BudgetCategories = []core.BudgetCategory{budget("Food", "groceries", "100"), budget("Rent", "rent", "1000")}
	d.Transactions = []core.Transaction{
		income("pay", "1000", core.NewDate(2024, 5, 1)),
		expense("g1", "groceries", "45", core.NewDate(2024, 5, 2)),
		expense("g2", "groceries", "45", core.NewDate(2024, 5, 3)),
		expense("g3", "groceries", "5", core.NewDate(2024, 5, 4)),
		expense("t1", "transport", "5", core.NewDate(2024, 5, 4)),
		expense("t2", "transport", "700", core.NewDate(2024, 5, 4)),
		expense("f1", "fun", "10", core.NewDate(2024, 5, 5)),
		expense("r1", "rent", "90", core.NewDate(2024, 5, 5)),
	}

	got := Suggestions(d, may2024)
	if len(got) != 3 {
		t.Fatalf("Suggestions() = %+v", got)
	}
	if !strings.Contains(got[0].Description, "groceries, transport, fun") {
		t.Errorf("top categories = %q", got[0].Description)
	}
	if got[1].Title != "Food Budget Alert" || !strings.Contains(got[1].Description, "95%") {
		t.Errorf("budget alert = %+v", got[1])
	}
	// 1000 income, 900 spent
	if !strings.Contains(got[2].Description, "10.0%") {
		t.Errorf("savings = %q", got[2].Description)
	}

	if s := Suggestions(core.EmptyData(), may2024); len(s) != 0 {
		t.Errorf("empty Suggestions() = %+v", s)
	}
}

func TestTopCategories(t *testing.T) {
	d := core.EmptyData()
	d.Transactions = []core.Transaction{
		expense("1", "a", "1", core.NewDate(2024, 1, 1)),
		expense("2", "b", "1", core.NewDate(2024, 1, 1)),
		expense("3", "b", "1", core.NewDate(2024, 1, 1)),
	}
	if got := TopCategories(d, 3); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("TopCategories() = %v", got)
	}
}

func TestUpcoming(t *testing.T) {
	d := core.EmptyData()
	d.Reminders = []core.Reminder{
		{ID: "yesterday", Title: "late", Amount: dec("1"), Date: core.NewDate(2024, 5, 14)},
		{ID: "week", Title: "insurance", Amount: dec("50"), Date: core.NewDate(2024, 5, 22)},
		{ID: "today", Title: "phone", Amount: dec("20"), Date: core.NewDate(2024, 5, 15)},
		{ID: "later", Title: "tax", Amount: dec("500"), Date: core.NewDate(2024, 5, 23)},
	}
	d.PlannedExpenses = []core.PlannedExpense{
		{ID: "shoes", Item: "Shoes", Cost: dec("80"), Date: core.NewDate(2024, 5, 16)},
	}

	got := Upcoming(d, core.NewDate(2024, 5, 15), DefaultUpcomingDays)
	var ids []string
	for _, u := range got {
		ids = append(ids, u.ID)
	}
	if !slices.Equal(ids, []string{"today", "shoes", "week"}) {
		t.Fatalf("Upcoming() ids = %v", ids)
	}
	if got[0].DaysUntil != 0 || !got[0].Urgent() || got[2].DaysUntil != 7 || got[2].Urgent() {
		t.Errorf("days = %d, %d", got[0].DaysUntil, got[2].DaysUntil)
	}
	if got[1].Kind != UpcomingPlanned || got[1].Title != "Shoes" || !got[1].Amount.Equal(dec("80")) {
		t.Errorf("planned item = %+v", got[1])
	}
}

func TestBuildDashboard(t *testing.T) {
	d := core.EmptyData()
	d.Accounts = []core.Account{{ID: "a", Balance: dec("2000")}}
	d.Transactions = []core.Transaction{
		income("pay", "2500", core.NewDate(2024, 5, 1)),
		expense("rent", "rent", "500", core.NewDate(2024, 5, 1)),
	}
	db := BuildDashboard(d)
	if !db.CurrentBalance.Equal(dec("2000")) || !db.NetWorth.Equal(db.CurrentBalance) {
		t.Errorf("balance = %s, net worth = %s", db.CurrentBalance, db.NetWorth)
	}
	if !db.SpentPercent.Equal(dec("25")) {
		t.Errorf("SpentPercent = %s, want 25", db.SpentPercent)
	}

	d.Accounts[0].Balance = dec("-10")
	if got := BuildDashboard(d).SpentPercent; !got.Equal(dec("50")) {
		t.Errorf("fallback SpentPercent = %s, want 50", got)
	}
	d.Transactions = append(d.Transactions, expense("car", "transport", "5000", core.NewDate(2024, 5, 2)))
	if got := BuildDashboard(d).SpentPercent; !got.Equal(dec("100")) {
		t.Errorf("capped SpentPercent = %s, want 100", got)
	}
}

func TestRecentTransfers(t *testing.T) {
	d := core.EmptyData()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := range 12 {
		d.Transfers = append(d.Transfers, core.Transfer{ID: fmt.Sprint(i), Timestamp: base.Add(time.Duration(i) * time.Hour)})
	}
	got := RecentTransfers(d, DefaultRecentTransfers)
	if len(got) != 10 || got[0].ID != "11" || got[9].ID != "2" {
		t.Errorf("RecentTransfers() = %d items, first %s", len(got), got[0].ID)
	}
	if d.Transfers[0].ID != "0" {
		t.Error("input order changed")
	}
}

func TestFilterTransactions(t *testing.T) {
	d := core.EmptyData()
	d.Transactions = []core.Transaction{
		expense("old", "food", "1", core.NewDate(2024, 1, 1)),
		income("mid", "1", core.NewDate(2024, 3, 1)),
		expense("new", "food", "1", core.NewDate(2024, 5, 1)),
	}
	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterAll, []string{"new", "mid", "old"}},
		{FilterExpense, []string{"new", "old"}},
		{FilterIncome, []string{"mid"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			var ids []string
			for _, tx := range FilterTransactions(d, tt.filter) {
				ids = append(ids, tx.ID)
			}
			if !slices.Equal(ids, tt.want) {
				t.Errorf("ids = %v, want %v", ids, tt.want)
			}
		})
	}

	if _, err := ParseFilter("transfers"); err == nil {
		t.Error("ParseFilter(transfers) should fail")
	}
	if f, _ := ParseFilter(" Income "); f != FilterIncome {
		t.Errorf("ParseFilter() = %s", f)
	}
}
