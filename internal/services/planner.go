package services

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/currency"
	"fintrack/internal/log"
	"fintrack/internal/recurrence"
	"fintrack/internal/store"
)

// PlannerService manages records that never touch balances: reminders,
// planned expenses, income ideas, budget categories and settings.
type PlannerService struct {
	deps
}

func NewPlannerService(s *store.Store, opts ...Option) *PlannerService {
	return &PlannerService{deps: newDeps(s, log.ComponentPlanner, opts)}
}

type ReminderInput struct {
	Title       string
	Amount      decimal.Decimal
	Date        core.Date
	Priority    core.Priority
	Currency    string
	IsRecurring bool
	Frequency   core.Frequency
}

type PlannedExpenseInput struct {
	Item     string
	Cost     decimal.Decimal
	Date     core.Date
	Category string
	Currency string
}

type IncomeIdeaInput struct {
	Idea         string
	Amount       decimal.Decimal
	Date         core.Date
	Confidence   int
	Currency     string
	IsRecurring  bool
	Frequency    core.Frequency
	DayOfReceipt string
}

type BudgetInput struct {
	Name   string
	Type   string
	Amount decimal.Decimal
}

// AddReminder stores the reminder and, when it recurs, the next
// recurrence.DefaultOccurrences copies. The base reminder comes first.
func (s *PlannerService) AddReminder(ctx context.Context, in ReminderInput) ([]core.Reminder, error) {
	var added []core.Reminder
	err := s.store.Update(ctx, func(d *core.Data) error {
		now := s.now()
		base := core.Reminder{
			ID:          s.newID(),
			Title:       strings.TrimSpace(in.Title),
			Amount:      in.Amount,
			Date:        in.Date,
			Priority:    in.Priority,
			Currency:    orDefault(in.Currency, d.Settings.DefaultCurrency),
			IsRecurring: in.IsRecurring,
			CreatedAt:   now,
		}
		if in.IsRecurring {
			base.Frequency = in.Frequency
		}
		if err := base.Validate(); err != nil {
			return err
		}
		added = []core.Reminder{base}

		if base.IsRecurring {
			seq, err := recurrence.Reminders(base, recurrence.DefaultOccurrences, s.newID, now)
			if err != nil {
				return &core.ValidationError{Field: "frequency", Err: err}
			}
			added = slices.AppendSeq(added, seq)
		}
		d.Reminders = append(d.Reminders, added...)
		return nil
	}, store.KeyReminders)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Reminder added",
		log.FieldRecordID, added[0].ID,
		log.FieldFrequency, string(added[0].Frequency),
		log.FieldCount, len(added))
	return added, nil
}

func (s *PlannerService) DeleteReminder(ctx context.Context, id string) error {
	return s.remove(ctx, "reminder", id, store.KeyReminders, func(d *core.Data) bool {
		var ok bool
		d.Reminders, ok = removeByID(d.Reminders, id, func(r core.Reminder) string { return r.ID })
		return ok
	})
}

func (s *PlannerService) AddPlannedExpense(ctx context.Context, in PlannedExpenseInput) (core.PlannedExpense, error) {
	var p core.PlannedExpense
	err := s.store.Update(ctx, func(d *core.Data) error {
		p = core.PlannedExpense{
			ID:        s.newID(),
			Item:      strings.TrimSpace(in.Item),
			Cost:      in.Cost,
			Date:      in.Date,
			Category:  strings.TrimSpace(in.Category),
			Currency:  orDefault(in.Currency, d.Settings.DefaultCurrency),
			CreatedAt: s.now(),
		}
		if err := p.Validate(); err != nil {
			return err
		}
		d.PlannedExpenses = append(d.PlannedExpenses, p)
		return nil
	}, store.KeyPlannedExpenses)
	if err != nil {
		return core.PlannedExpense{}, err
	}
	s.logger.InfoContext(ctx, "Planned expense added", log.FieldRecordID, p.ID, log.FieldAmount, p.Cost.String())
	return p, nil
}

func (s *PlannerService) DeletePlannedExpense(ctx context.Context, id string) error {
	return s.remove(ctx, "planned expense", id, store.KeyPlannedExpenses, func(d *core.Data) bool {
		var ok bool
		d.PlannedExpenses, ok = removeByID(d.PlannedExpenses, id, func(p core.PlannedExpense) string { return p.ID })
		return ok
	})
}

// AddIncomeIdea stores the idea and, when it recurs, its next occurrences.
// The day of receipt is only kept for recurring ideas.
func (s *PlannerService) AddIncomeIdea(ctx context.Context, in IncomeIdeaInput) ([]core.IncomeIdea, error) {
	var added []core.IncomeIdea
	err := s.store.Update(ctx, func(d *core.Data) error {
		now := s.now()
		base := core.IncomeIdea{
			ID:          s.newID(),
			Idea:        strings.TrimSpace(in.Idea),
			Amount:      in.Amount,
			Date:        in.Date,
			Confidence:  in.Confidence,
			Currency:    orDefault(in.Currency, d.Settings.DefaultCurrency),
			IsRecurring: in.IsRecurring,
			CreatedAt:   now,
		}
		if in.IsRecurring {
			base.Frequency = in.Frequency
			base.DayOfReceipt = strings.ToLower(strings.TrimSpace(in.DayOfReceipt))
		}
		if err := base.Validate(); err != nil {
			return err
		}
		added = []core.IncomeIdea{base}

		if base.IsRecurring {
			seq, err := recurrence.IncomeIdeas(base, recurrence.DefaultOccurrences, s.newID, now)
			if err != nil {
				return &core.ValidationError{Field: "frequency", Err: err}
			}
			added = slices.AppendSeq(added, seq)
		}
		d.IncomeIdeas = append(d.IncomeIdeas, added...)
		return nil
	}, store.KeyIncomeIdeas)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Income idea added",
		log.FieldRecordID, added[0].ID,
		log.FieldFrequency, string(added[0].Frequency),
		log.FieldCount, len(added))
	return added, nil
}

func (s *PlannerService) DeleteIncomeIdea(ctx context.Context, id string) error {
	return s.remove(ctx, "income idea", id, store.KeyIncomeIdeas, func(d *core.Data) bool {
		var ok bool
		d.IncomeIdeas, ok = removeByID(d.IncomeIdeas, id, func(i core.IncomeIdea) string { return i.ID })
		return ok
	})
}

// AddBudgetCategory rejects a second category with the same name
// (ignoring case) and type.
func (s *PlannerService) AddBudgetCategory(ctx context.Context, in BudgetInput) (core.BudgetCategory, error) {
	var b core.BudgetCategory
	err := s.store.Update(ctx, func(d *core.Data) error {
		b = core.BudgetCategory{
			ID:        s.newID(),
			Name:      strings.TrimSpace(in.Name),
			Type:      strings.TrimSpace(in.Type),
			Amount:    in.Amount,
			CreatedAt: s.now(),
		}
		if err := b.Validate(); err != nil {
			return err
		}
		if duplicateBudget(d.BudgetCategories, b) {
			return &core.ValidationError{Field: "name", Err: core.ErrDuplicate}
		}
		d.BudgetCategories = append(d.BudgetCategories, b)
		return nil
	}, store.KeyBudgetCategories)
	if err != nil {
		return core.BudgetCategory{}, err
	}
	s.logger.InfoContext(ctx, "Budget category added",
		log.FieldRecordID, b.ID, log.FieldCategory, b.Type, log.FieldAmount, b.Amount.String())
	return b, nil
}

func (s *PlannerService) UpdateBudgetCategory(ctx context.Context, id string, in BudgetInput) (core.BudgetCategory, error) {
	var b core.BudgetCategory
	err := s.store.Update(ctx, func(d *core.Data) error {
		i := slices.IndexFunc(d.BudgetCategories, func(c core.BudgetCategory) bool { return c.ID == id })
		if i < 0 {
			return &core.NotFoundError{Kind: "budget category", ID: id}
		}
		now := s.now()
		b = d.BudgetCategories[i]
		b.Name = strings.TrimSpace(in.Name)
		b.Type = strings.TrimSpace(in.Type)
		b.Amount = in.Amount
		b.LastModified = &now
		if err := b.Validate(); err != nil {
			return err
		}
		if duplicateBudget(d.BudgetCategories, b) {
			return &core.ValidationError{Field: "name", Err: core.ErrDuplicate}
		}
		d.BudgetCategories[i] = b
		return nil
	}, store.KeyBudgetCategories)
	if err != nil {
		return core.BudgetCategory{}, err
	}
	s.logger.InfoContext(ctx, "Budget category updated", log.FieldRecordID, id, log.FieldAmount, b.Amount.String())
	return b, nil
}

func (s *PlannerService) DeleteBudgetCategory(ctx context.Context, id string) error {
	return s.remove(ctx, "budget category", id, store.KeyBudgetCategories, func(d *core.Data) bool {
		var ok bool
		d.BudgetCategories, ok = removeByID(d.BudgetCategories, id, func(b core.BudgetCategory) string { return b.ID })
		return ok
	})
}

// SetDefaultCurrency changes the currency used when a record names none.
func (s *PlannerService) SetDefaultCurrency(ctx context.Context, code string) error {
	info, ok := currency.Lookup(code)
	if !ok {
		return &core.ValidationError{Field: "defaultCurrency", Err: core.ErrUnknownCurrency}
	}
	err := s.store.Update(ctx, func(d *core.Data) error {
		d.Settings.DefaultCurrency = info.Code
		return nil
	}, store.KeySettings)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Default currency changed", log.FieldCurrency, info.Code)
	return nil
}

func duplicateBudget(existing []core.BudgetCategory, b core.BudgetCategory) bool {
	return slices.ContainsFunc(existing, func(c core.BudgetCategory) bool {
		return c.ID != b.ID && c.Type == b.Type && strings.EqualFold(c.Name, b.Name)
	})
}

func (s *PlannerService) remove(ctx context.Context, kind, id string, key store.Key, fn func(*core.Data) bool) error {
	err := s.store.Update(ctx, func(d *core.Data) error {
		if !fn(d) {
			return &core.NotFoundError{Kind: kind, ID: id}
		}
		return nil
	}, key)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Record deleted", "kind", kind, log.FieldRecordID, id)
	return nil
}
