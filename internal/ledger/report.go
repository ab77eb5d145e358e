package ledger

import (
	"cmp"
	"slices"

	"github.com/Veraticus/budgie/internal/model"
	"github.com/shopspring/decimal"
)

// CategoryTotal is one category's share of a month's expenses.
type CategoryTotal struct {
	Limit    *decimal.Decimal `json:"limit,omitempty" yaml:"limit,omitempty"`
	Name     string           `json:"name" yaml:"name"`
	Total    decimal.Decimal  `json:"total" yaml:"total"`
	Percent  decimal.Decimal  `json:"percent" yaml:"percent"`
	Exceeded bool             `json:"exceeded" yaml:"exceeded"`
}

// PaymentTotal is the expense total for one payment method.
type PaymentTotal struct {
	Method model.PaymentMethod `json:"method" yaml:"method"`
	Total  decimal.Decimal     `json:"total" yaml:"total"`
}

// MonthlyReport summarizes one budget. Exists is false when no budget covers
// the month; every figure is then zero.
type MonthlyReport struct {
	SavingsRate      *decimal.Decimal     `json:"savings_rate,omitempty" yaml:"savings_rate,omitempty"`
	ByCategory       []CategoryTotal      `json:"by_category" yaml:"by_category"`
	ByPaymentMethod  []PaymentTotal       `json:"by_payment_method" yaml:"by_payment_method"`
	RunningBalance   []model.DailyBalance `json:"running_balance" yaml:"running_balance"`
	TotalIncome      decimal.Decimal      `json:"total_income" yaml:"total_income"`
	TotalExpense     decimal.Decimal      `json:"total_expense" yaml:"total_expense"`
	Balance          decimal.Decimal      `json:"balance" yaml:"balance"`
	PlannedIncome    decimal.Decimal      `json:"planned_income" yaml:"planned_income"`
	AvailableBalance decimal.Decimal      `json:"available_balance" yaml:"available_balance"`
	Period           model.MonthYear      `json:"period" yaml:"period"`
	Entries          int                  `json:"entries" yaml:"entries"`
	Alerts           int                  `json:"alerts" yaml:"alerts"`
	Exists           bool                 `json:"exists" yaml:"exists"`
	Deficit          bool                 `json:"deficit" yaml:"deficit"`
}

// MonthSummary is the headline figures of one budget.
type MonthSummary struct {
	Income  decimal.Decimal `json:"income" yaml:"income"`
	Expense decimal.Decimal `json:"expense" yaml:"expense"`
	Balance decimal.Decimal `json:"balance" yaml:"balance"`
	Period  model.MonthYear `json:"period" yaml:"period"`
	Deficit bool            `json:"deficit" yaml:"deficit"`
}

// Stats describes the whole dataset.
type Stats struct {
	TotalIncome       decimal.Decimal `json:"total_income" yaml:"total_income"`
	TotalExpense      decimal.Decimal `json:"total_expense" yaml:"total_expense"`
	Balance           decimal.Decimal `json:"balance" yaml:"balance"`
	Categories        int             `json:"categories" yaml:"categories"`
	IncomeCategories  int             `json:"income_categories" yaml:"income_categories"`
	ExpenseCategories int             `json:"expense_categories" yaml:"expense_categories"`
	Entries           int             `json:"entries" yaml:"entries"`
	Incomes           int             `json:"incomes" yaml:"incomes"`
	Expenses          int             `json:"expenses" yaml:"expenses"`
	Budgets           int             `json:"budgets" yaml:"budgets"`
	DeficitMonths     int             `json:"deficit_months" yaml:"deficit_months"`
	Alerts            int             `json:"alerts" yaml:"alerts"`
	UnreadAlerts      int             `json:"unread_alerts" yaml:"unread_alerts"`
}

// MonthlyReport builds the report for month/year.
func (s *Session) MonthlyReport(month, year int) MonthlyReport {
	r := MonthlyReport{
		Period:          model.MonthYear{Month: month, Year: year},
		ByCategory:      []CategoryTotal{},
		ByPaymentMethod: []PaymentTotal{},
		RunningBalance:  []model.DailyBalance{},
	}
	b, ok := s.Budget(month, year)
	if !ok {
		return r
	}

	r.Exists = true
	r.TotalIncome = b.TotalIncome()
	r.TotalExpense = b.TotalExpense()
	r.Balance = b.Balance()
	r.PlannedIncome = b.PlannedIncome()
	r.AvailableBalance = b.AvailableBalance()
	r.Deficit = b.HasDeficit()
	r.Entries = b.Len()
	r.Alerts = len(b.Alerts())
	if rate, ok := b.SavingsRate(); ok {
		r.SavingsRate = &rate
	}
	if rb := b.RunningBalance(); len(rb) > 0 {
		r.RunningBalance = rb
	}

	percents := b.PercentByCategory()
	for name, total := range b.ExpensesByCategory() {
		ct := CategoryTotal{Name: name, Total: total, Percent: percents[name]}
		if c, ok := s.CategoryByName(name, model.CategoryKindExpense); ok {
			if limit, ok := c.Limit(); ok {
				ct.Limit = &limit
				ct.Exceeded = total.GreaterThan(limit)
			}
		}
		r.ByCategory = append(r.ByCategory, ct)
	}
	slices.SortFunc(r.ByCategory, func(a, b CategoryTotal) int {
		return cmp.Or(b.Total.Cmp(a.Total), cmp.Compare(a.Name, b.Name))
	})

	for method, total := range b.ExpensesByPaymentMethod() {
		r.ByPaymentMethod = append(r.ByPaymentMethod, PaymentTotal{Method: method, Total: total})
	}
	slices.SortFunc(r.ByPaymentMethod, func(a, b PaymentTotal) int {
		return cmp.Or(b.Total.Cmp(a.Total), cmp.Compare(a.Method, b.Method))
	})

	return r
}

// CompareReport summarizes the latest n budgets, newest first.
func (s *Session) CompareReport(n int) []MonthSummary {
	budgets := s.Budgets()
	slices.Reverse(budgets)
	if n > 0 && len(budgets) > n {
		budgets = budgets[:n]
	}

	out := make([]MonthSummary, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, summarize(b))
	}
	return out
}

// CheapestMonth returns the budget with the lowest total expense, including
// months with no expense at all. Ties go to the earlier month.
func (s *Session) CheapestMonth() (MonthSummary, bool) {
	var (
		best  MonthSummary
		found bool
	)
	for _, b := range s.Budgets() {
		if sum := summarize(b); !found || sum.Expense.LessThan(best.Expense) {
			best, found = sum, true
		}
	}
	return best, found
}

// Stats computes dataset-wide counts and totals.
func (s *Session) Stats() Stats {
	st := Stats{
		Categories: len(s.categories),
		Entries:    len(s.entries),
		Budgets:    len(s.budgets),
		Alerts:     len(s.alerts),
	}
	for _, c := range s.categories {
		if c.Kind() == model.CategoryKindIncome {
			st.IncomeCategories++
		} else {
			st.ExpenseCategories++
		}
	}
	for _, e := range s.entries {
		if e.Kind() == model.EntryKindIncome {
			st.Incomes++
			st.TotalIncome = st.TotalIncome.Add(e.Amount())
		} else {
			st.Expenses++
			st.TotalExpense = st.TotalExpense.Add(e.Amount())
		}
	}
	st.Balance = st.TotalIncome.Sub(st.TotalExpense)
	for _, b := range s.budgets {
		if b.HasDeficit() {
			st.DeficitMonths++
		}
	}
	for _, a := range s.alerts {
		if !a.Read() {
			st.UnreadAlerts++
		}
	}
	return st
}

func summarize(b *model.MonthlyBudget) MonthSummary {
	return MonthSummary{
		Period:  b.MonthYear(),
		Income:  b.TotalIncome(),
		Expense: b.TotalExpense(),
		Balance: b.Balance(),
		Deficit: b.HasDeficit(),
	}
}
