package model

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DailyBalance is the running balance after the last entry of a date.
type DailyBalance struct {
	Date    time.Time       `json:"date" yaml:"date"`
	Balance decimal.Decimal `json:"balance" yaml:"balance"`
}

// BudgetOption configures a MonthlyBudget.
type BudgetOption func(*MonthlyBudget)

// WithID sets the budget identifier, used when restoring persisted budgets.
func WithID(id string) BudgetOption {
	return func(b *MonthlyBudget) {
		if id != "" {
			b.id = id
		}
	}
}

// WithEntryEquality replaces the duplicate-entry policy used by AddEntry.
func WithEntryEquality(eq EntryEquality) BudgetOption {
	return func(b *MonthlyBudget) { b.sameEntry = eq }
}

// WithCategoryEquality replaces the policy used for per-category totals.
func WithCategoryEquality(eq CategoryEquality) BudgetOption {
	return func(b *MonthlyBudget) { b.sameCategory = eq }
}

// MonthlyBudget owns the entries of one calendar month and the alerts raised
// while adding them. Aggregates are recomputed from the entries on every call.
//
// A MonthlyBudget is not safe for concurrent use.
type MonthlyBudget struct {
	plannedIncome decimal.Decimal
	sameEntry     EntryEquality
	sameCategory  CategoryEquality
	id            string
	entries       []Entry
	alerts        []*Alert
	period        MonthYear
}

// NewMonthlyBudget creates an empty budget for month/year.
func NewMonthlyBudget(month, year int, opts ...BudgetOption) (*MonthlyBudget, error) {
	period := MonthYear{Month: month, Year: year}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	b := &MonthlyBudget{
		id:           uuid.NewString(),
		period:       period,
		sameEntry:    SameEntry,
		sameCategory: SameCategory,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// ID returns the stable identifier.
func (b *MonthlyBudget) ID() string { return b.id }

// Month returns the calendar month, 1-12.
func (b *MonthlyBudget) Month() int { return b.period.Month }

// Year returns the calendar year.
func (b *MonthlyBudget) Year() int { return b.period.Year }

// MonthYear returns the budget's month.
func (b *MonthlyBudget) MonthYear() MonthYear { return b.period }

// PlannedIncome returns the income expected for the month.
func (b *MonthlyBudget) PlannedIncome() decimal.Decimal { return b.plannedIncome }

// SetPlannedIncome sets the expected income; it must not be negative.
func (b *MonthlyBudget) SetPlannedIncome(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: got %s", ErrNegativePlannedIncome, amount.String())
	}
	b.plannedIncome = amount
	return nil
}

// Entries returns a copy of the entries, ordered by CompareEntries.
func (b *MonthlyBudget) Entries() []Entry { return slices.Clone(b.entries) }

// Alerts returns a copy of the alert log in insertion order.
func (b *MonthlyBudget) Alerts() []*Alert { return slices.Clone(b.alerts) }

// Len returns the number of entries.
func (b *MonthlyBudget) Len() int { return len(b.entries) }

// Incomes returns the income entries.
func (b *MonthlyBudget) Incomes() []*Income {
	var out []*Income
	for _, e := range b.entries {
		if inc, ok := e.(*Income); ok {
			out = append(out, inc)
		}
	}
	return out
}

// Expenses returns the expense entries.
func (b *MonthlyBudget) Expenses() []*Expense {
	var out []*Expense
	for _, e := range b.entries {
		if exp, ok := e.(*Expense); ok {
			out = append(out, exp)
		}
	}
	return out
}

// Contains reports whether an entry equal to e, per the entry policy, is held.
func (b *MonthlyBudget) Contains(e Entry) bool {
	return slices.ContainsFunc(b.entries, func(held Entry) bool {
		return b.sameEntry(held, e)
	})
}

// FindEntry looks an entry up by identifier.
func (b *MonthlyBudget) FindEntry(id string) (Entry, bool) {
	for _, e := range b.entries {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

// AddEntry inserts e and returns the alerts the insertion produced, in order:
// high-value, limit-exceeded, budget-deficit.
//
// It fails without mutating the budget when e belongs to another month or
// duplicates a held entry. At most one deficit alert is ever raised per budget.
func (b *MonthlyBudget) AddEntry(e Entry) ([]*Alert, error) {
	if e == nil {
		return nil, ErrMissingEntry
	}
	if got := e.MonthYear(); got != b.period {
		return nil, fmt.Errorf("%w: entry dated %s, budget is %s", ErrMonthMismatch, got, b.period)
	}
	if b.Contains(e) {
		return nil, fmt.Errorf("%w: %q on %s", ErrDuplicateEntry, e.Description(), e.Date().Format(time.DateOnly))
	}

	var generated []*Alert

	if exp, ok := e.(*Expense); ok {
		if exp.HasTag(AlertHighValue) {
			generated = append(generated, NewHighValueAlert(exp.ID(), exp.Amount()))
		}

		spent := b.TotalForCategory(exp.Category())
		if exp.CheckCategoryLimit(spent) {
			limit, _ := exp.Category().Limit()
			generated = append(generated, NewLimitExceededAlert(
				exp.Category().ID(),
				exp.Category().Name(),
				limit,
				spent.Add(exp.Amount()),
			))
		}
	}

	b.insert(e)
	b.alerts = append(b.alerts, generated...)

	if b.HasDeficit() && !b.hasAlert(AlertBudgetDeficit) {
		deficit := NewBudgetDeficitAlert(b.period.Month, b.period.Year, b.Balance())
		generated = append(generated, deficit)
		b.alerts = append(b.alerts, deficit)
	}

	slog.Debug("entry added to budget",
		"budget", b.period.String(),
		"entry_id", e.ID(),
		"kind", e.Kind(),
		"alerts", len(generated))

	return generated, nil
}

// RemoveEntry removes the entry with id and returns it. Alerts already raised
// for it stay in the log.
func (b *MonthlyBudget) RemoveEntry(id string) (Entry, bool) {
	for i, e := range b.entries {
		if e.ID() == id {
			b.entries = slices.Delete(b.entries, i, i+1)
			return e, true
		}
	}
	return nil, false
}

// Link attaches a persisted entry without running the alert policy or the
// duplicate check. Month membership is still enforced.
func (b *MonthlyBudget) Link(e Entry) error {
	if got := e.MonthYear(); got != b.period {
		return fmt.Errorf("%w: entry dated %s, budget is %s", ErrMonthMismatch, got, b.period)
	}
	b.insert(e)
	return nil
}

// LinkAlert appends a persisted alert to the log.
func (b *MonthlyBudget) LinkAlert(a *Alert) {
	b.alerts = append(b.alerts, a)
}

// UnlinkAlerts drops the alerts with the given identifiers from the log. It is
// reserved for rolling back alerts that were never persisted; the log is
// otherwise append-only.
func (b *MonthlyBudget) UnlinkAlerts(ids ...string) {
	b.alerts = slices.DeleteFunc(b.alerts, func(a *Alert) bool {
		return slices.Contains(ids, a.id)
	})
}

// Review applies the month-close policy: a negative-balance alert when
// planned income is set and the available balance is below zero, and a
// goal-missed alert when the savings rate is below savingsGoalPercent. Each is
// raised at most once per budget. A zero goal disables the goal check.
func (b *MonthlyBudget) Review(savingsGoalPercent decimal.Decimal) []*Alert {
	var generated []*Alert

	if b.plannedIncome.IsPositive() && b.AvailableBalance().IsNegative() && !b.hasAlert(AlertNegativeBalance) {
		generated = append(generated, NewNegativeBalanceAlert(b.period.Month, b.period.Year, b.AvailableBalance()))
	}

	if savingsGoalPercent.IsPositive() && !b.hasAlert(AlertGoalMissed) {
		if rate, ok := b.SavingsRate(); ok && rate.LessThan(savingsGoalPercent) {
			generated = append(generated, NewGoalMissedAlert(b.period.Month, b.period.Year, rate, savingsGoalPercent))
		}
	}

	b.alerts = append(b.alerts, generated...)
	return generated
}

func (b *MonthlyBudget) insert(e Entry) {
	b.entries = append(b.entries, e)
	slices.SortStableFunc(b.entries, CompareEntries)
}

func (b *MonthlyBudget) hasAlert(kind AlertKind) bool {
	return slices.ContainsFunc(b.alerts, func(a *Alert) bool {
		return a.concerns(kind, b.period)
	})
}

// TotalIncome sums the income entries.
func (b *MonthlyBudget) TotalIncome() decimal.Decimal {
	return b.sum(func(e Entry) bool { return e.Kind() == EntryKindIncome })
}

// TotalExpense sums the expense entries.
func (b *MonthlyBudget) TotalExpense() decimal.Decimal {
	return b.sum(func(e Entry) bool { return e.Kind() == EntryKindExpense })
}

// Balance is total income minus total expense.
func (b *MonthlyBudget) Balance() decimal.Decimal {
	return b.TotalIncome().Sub(b.TotalExpense())
}

// AvailableBalance is planned income minus total expense.
func (b *MonthlyBudget) AvailableBalance() decimal.Decimal {
	return b.plannedIncome.Sub(b.TotalExpense())
}

// HasDeficit reports whether the balance is negative.
func (b *MonthlyBudget) HasDeficit() bool {
	return b.Balance().IsNegative()
}

// SavingsRate is the balance as a percentage of total income. It reports
// false when there is no income.
func (b *MonthlyBudget) SavingsRate() (decimal.Decimal, bool) {
	income := b.TotalIncome()
	if income.IsZero() {
		return decimal.Zero, false
	}
	return b.Balance().Div(income).Mul(hundred), true
}

// TotalForCategory sums held entries whose category matches c under the
// category policy.
func (b *MonthlyBudget) TotalForCategory(c *Category) decimal.Decimal {
	return b.sum(func(e Entry) bool { return b.sameCategory(e.Category(), c) })
}

// ExpensesByCategory totals expenses per category name.
func (b *MonthlyBudget) ExpensesByCategory() map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range b.Expenses() {
		name := e.Category().Name()
		totals[name] = totals[name].Add(e.Amount())
	}
	return totals
}

// ExpensesByPaymentMethod totals expenses per payment method.
func (b *MonthlyBudget) ExpensesByPaymentMethod() map[PaymentMethod]decimal.Decimal {
	totals := make(map[PaymentMethod]decimal.Decimal)
	for _, e := range b.Expenses() {
		totals[e.PaymentMethod()] = totals[e.PaymentMethod()].Add(e.Amount())
	}
	return totals
}

// PercentByCategory returns each category's share of total expense, in
// percent. It is empty when there are no expenses.
func (b *MonthlyBudget) PercentByCategory() map[string]decimal.Decimal {
	total := b.TotalExpense()
	percents := make(map[string]decimal.Decimal)
	if total.IsZero() {
		return percents
	}
	for name, amount := range b.ExpensesByCategory() {
		percents[name] = amount.Div(total).Mul(hundred)
	}
	return percents
}

// RunningBalance replays entries in date order, income adding and expense
// subtracting. Entries sharing a date collapse into one element holding the
// balance after the last of them.
func (b *MonthlyBudget) RunningBalance() []DailyBalance {
	var (
		out     []DailyBalance
		running decimal.Decimal
	)
	for _, e := range b.entries {
		if e.Kind() == EntryKindIncome {
			running = running.Add(e.Amount())
		} else {
			running = running.Sub(e.Amount())
		}
		if n := len(out); n > 0 && out[n-1].Date.Equal(e.Date()) {
			out[n-1].Balance = running
			continue
		}
		out = append(out, DailyBalance{Date: e.Date(), Balance: running})
	}
	return out
}

func (b *MonthlyBudget) sum(match func(Entry) bool) decimal.Decimal {
	total := decimal.Zero
	for _, e := range b.entries {
		if match(e) {
			total = total.Add(e.Amount())
		}
	}
	return total
}

func (b *MonthlyBudget) String() string {
	return fmt.Sprintf("Budget %s - Income: %s | Expense: %s | Balance: %s",
		b.period, b.TotalIncome().StringFixed(2), b.TotalExpense().StringFixed(2), b.Balance().StringFixed(2))
}

// SameBudget reports whether two budgets cover the same month.
func SameBudget(a, b *MonthlyBudget) bool {
	return a.period == b.period
}

// CompareBudgets orders budgets chronologically.
func CompareBudgets(a, b *MonthlyBudget) int {
	switch {
	case a.period.Before(b.period):
		return -1
	case b.period.Before(a.period):
		return 1
	default:
		return 0
	}
}

// CombinedBalance sums the balances of two budgets.
func CombinedBalance(a, b *MonthlyBudget) decimal.Decimal {
	return a.Balance().Add(b.Balance())
}
