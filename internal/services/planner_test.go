package services

import (
	"context"
	"slices"
	"testing"

	"fintrack/internal/core"
)

func newTestPlanner(t *testing.T) *PlannerService {
	t.Helper()
	return NewPlannerService(newTestStore(t), testOptions(&recorder{})...)
}

func TestAddReminder_Recurring(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	added, err := p.AddReminder(ctx, ReminderInput{
		Title: "Rent", Amount: dec("900"), Date: core.NewDate(2024, 1, 31),
		Priority: core.High, IsRecurring: true, Frequency: core.Monthly,
	})
	if err != nil {
		t.Fatalf("AddReminder() error = %v", err)
	}

	var dates []string
	for _, r := range added {
		dates = append(dates, r.Date.String())
		if r.Title != "Rent" || r.Currency != "USD" || r.Frequency != core.Monthly || !r.IsRecurring {
			t.Errorf("occurrence = %+v", r)
		}
	}
	want := []string{"2024-01-31", "2024-03-02", "2024-03-31", "2024-05-01"}
	if !slices.Equal(dates, want) {
		t.Errorf("dates = %v, want %v", dates, want)
	}
	if got := len(p.store.Snapshot().Reminders); got != 4 {
		t.Errorf("stored reminders = %d, want 4", got)
	}

	ids := map[string]bool{}
	for _, r := range added {
		ids[r.ID] = true
	}
	if len(ids) != 4 {
		t.Errorf("ids not unique: %v", ids)
	}
}

func TestAddReminder_OneOff(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	added, err := p.AddReminder(ctx, ReminderInput{
		Title: "Dentist", Amount: dec("80"), Date: core.NewDate(2024, 6, 1),
		Priority: core.Medium, Currency: "EUR", Frequency: core.Weekly,
	})
	if err != nil {
		t.Fatalf("AddReminder() error = %v", err)
	}
	if len(added) != 1 || added[0].Frequency != "" || added[0].Currency != "EUR" {
		t.Errorf("added = %+v", added)
	}
}

func TestAddReminder_Invalid(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	tests := []struct {
		name   string
		in     ReminderInput
		target error
	}{
		{"quarterly", ReminderInput{Title: "x", Amount: dec("1"), Date: core.NewDate(2024, 1, 1), Priority: core.Low, IsRecurring: true, Frequency: core.Quarterly}, core.ErrInvalidFrequency},
		{"no frequency", ReminderInput{Title: "x", Amount: dec("1"), Date: core.NewDate(2024, 1, 1), Priority: core.Low, IsRecurring: true}, core.ErrInvalidFrequency},
		{"bad priority", ReminderInput{Title: "x", Amount: dec("1"), Date: core.NewDate(2024, 1, 1), Priority: "urgent"}, core.ErrInvalidType},
		{"no title", ReminderInput{Amount: dec("1"), Date: core.NewDate(2024, 1, 1), Priority: core.Low}, core.ErrEmptyField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.AddReminder(ctx, tt.in)
			assertErrIs(t, err, tt.target)
			assertErrIs(t, err, core.ErrValidation)
		})
	}
	if n := len(p.store.Snapshot().Reminders); n != 0 {
		t.Errorf("reminders = %d, want 0", n)
	}
}

func TestAddIncomeIdea_LastDayOfMonth(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	added, err := p.AddIncomeIdea(ctx, IncomeIdeaInput{
		Idea: "Freelance", Amount: dec("400"), Date: core.NewDate(2024, 1, 15), Confidence: 70,
		IsRecurring: true, Frequency: core.Monthly, DayOfReceipt: "30",
	})
	if err != nil {
		t.Fatalf("AddIncomeIdea() error = %v", err)
	}
	var dates []string
	for _, i := range added {
		dates = append(dates, i.Date.String())
	}
	want := []string{"2024-01-15", "2024-02-29", "2024-03-31", "2024-04-30"}
	if !slices.Equal(dates, want) {
		t.Errorf("dates = %v, want %v", dates, want)
	}
}

func TestAddIncomeIdea_DayOfReceiptOnlyWhenRecurring(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	added, err := p.AddIncomeIdea(ctx, IncomeIdeaInput{
		Idea: "Sale", Amount: dec("40"), Date: core.NewDate(2024, 1, 15), Confidence: 10, DayOfReceipt: "Friday",
	})
	if err != nil {
		t.Fatalf("AddIncomeIdea() error = %v", err)
	}
	if len(added) != 1 || added[0].DayOfReceipt != "" {
		t.Errorf("added = %+v", added)
	}

	_, err = p.AddIncomeIdea(ctx, IncomeIdeaInput{Idea: "Sale", Amount: dec("40"), Date: core.NewDate(2024, 1, 15), Confidence: 101})
	assertErrIs(t, err, core.ErrOutOfRange)
}

func TestPlannedExpenses(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	pe, err := p.AddPlannedExpense(ctx, PlannedExpenseInput{Item: "Laptop", Cost: dec("1500"), Date: core.NewDate(2024, 9, 1), Category: "tech"})
	if err != nil {
		t.Fatalf("AddPlannedExpense() error = %v", err)
	}
	if pe.Currency != "USD" {
		t.Errorf("currency = %q, want USD", pe.Currency)
	}
	if err := p.DeletePlannedExpense(ctx, pe.ID); err != nil {
		t.Fatalf("DeletePlannedExpense() error = %v", err)
	}
	assertErrIs(t, p.DeletePlannedExpense(ctx, pe.ID), core.ErrNotFound)
}

func TestBudgetCategories(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	food, err := p.AddBudgetCategory(ctx, BudgetInput{Name: "Food", Type: "groceries", Amount: dec("300")})
	if err != nil {
		t.Fatalf("AddBudgetCategory() error = %v", err)
	}

	_, err = p.AddBudgetCategory(ctx, BudgetInput{Name: " food ", Type: "groceries", Amount: dec("50")})
	assertErrIs(t, err, core.ErrDuplicate)

	// same name, different type is allowed
	other, err := p.AddBudgetCategory(ctx, BudgetInput{Name: "Food", Type: "dining-out", Amount: dec("100")})
	if err != nil {
		t.Fatalf("AddBudgetCategory() error = %v", err)
	}

	_, err = p.UpdateBudgetCategory(ctx, other.ID, BudgetInput{Name: "FOOD", Type: "groceries", Amount: dec("100")})
	assertErrIs(t, err, core.ErrDuplicate)

	updated, err := p.UpdateBudgetCategory(ctx, food.ID, BudgetInput{Name: "Food", Type: "groceries", Amount: dec("350")})
	if err != nil {
		t.Fatalf("UpdateBudgetCategory() error = %v", err)
	}
	if !updated.Amount.Equal(dec("350")) || updated.LastModified == nil {
		t.Errorf("updated = %+v", updated)
	}

	if err := p.DeleteBudgetCategory(ctx, food.ID); err != nil {
		t.Fatalf("DeleteBudgetCategory() error = %v", err)
	}
	if n := len(p.store.Snapshot().BudgetCategories); n != 1 {
		t.Errorf("budget categories = %d, want 1", n)
	}
}

func TestSetDefaultCurrency(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	if err := p.SetDefaultCurrency(ctx, "eur"); err != nil {
		t.Fatalf("SetDefaultCurrency() error = %v", err)
	}
	if got := p.store.Snapshot().Settings.DefaultCurrency; got != "EUR" {
		t.Errorf("default currency = %q, want EUR", got)
	}

	err := p.SetDefaultCurrency(ctx, "XYZ")
	assertErrIs(t, err, core.ErrUnknownCurrency)
	if got := p.store.Snapshot().Settings.DefaultCurrency; got != "EUR" {
		t.Errorf("default currency changed to %q", got)
	}

	r, err := p.AddReminder(ctx, ReminderInput{Title: "x", Amount: dec("1"), Date: core.NewDate(2024, 1, 1), Priority: core.Low})
	if err != nil {
		t.Fatalf("AddReminder() error = %v", err)
	}
	if r[0].Currency != "EUR" {
		t.Errorf("reminder currency = %q, want EUR", r[0].Currency)
	}
}

func TestDeleteReminderAndIdea(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	assertErrIs(t, p.DeleteReminder(ctx, "nope"), core.ErrNotFound)
	assertErrIs(t, p.DeleteIncomeIdea(ctx, "nope"), core.ErrNotFound)

	ideas, _ := p.AddIncomeIdea(ctx, IncomeIdeaInput{Idea: "x", Amount: dec("1"), Date: core.NewDate(2024, 1, 1)})
	if err := p.DeleteIncomeIdea(ctx, ideas[0].ID); err != nil {
		t.Fatalf("DeleteIncomeIdea() error = %v", err)
	}
}
