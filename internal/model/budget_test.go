package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBudget(t *testing.T, month, year int, opts ...BudgetOption) *MonthlyBudget {
	t.Helper()
	b, err := NewMonthlyBudget(month, year, opts...)
	require.NoError(t, err)
	return b
}

func kinds(alerts []*Alert) []AlertKind {
	out := make([]AlertKind, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Kind())
	}
	return out
}

func TestNewMonthlyBudget_Validation(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		month   int
		year    int
	}{
		{name: "valid", month: 12, year: 2024},
		{name: "month zero", month: 0, year: 2024, wantErr: ErrInvalidMonth},
		{name: "month thirteen", month: 13, year: 2024, wantErr: ErrInvalidMonth},
		{name: "year too early", month: 1, year: 1899, wantErr: ErrInvalidYear},
		{name: "year too late", month: 1, year: 2101, wantErr: ErrInvalidYear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMonthlyBudget(tt.month, tt.year)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMonthlyBudget_SetPlannedIncome(t *testing.T) {
	b := newBudget(t, 12, 2024)
	require.NoError(t, b.SetPlannedIncome(dec("5000")))
	assert.ErrorIs(t, b.SetPlannedIncome(dec("-1")), ErrNegativePlannedIncome)
	assert.True(t, b.PlannedIncome().Equal(dec("5000")))
}

func TestAddEntry_LimitExceededOnSecondExpense(t *testing.T) {
	food := mustCategory(t, "Food", CategoryKindExpense, "500")
	b := newBudget(t, 12, 2024)

	alerts, err := b.AddEntry(mustExpense(t, food, "400", "Market", day(2024, time.December, 5)))
	require.NoError(t, err)
	assert.Empty(t, alerts)

	second := mustExpense(t, food, "200", "Bakery", day(2024, time.December, 10))
	alerts, err = b.AddEntry(second)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	a := alerts[0]
	assert.Equal(t, AlertLimitExceeded, a.Kind())
	assert.Equal(t, food.ID(), a.CategoryID())
	assert.Contains(t, a.Message(), "'Food'")
	assert.Contains(t, a.Message(), "Limit: 500.00")
	assert.Contains(t, a.Message(), "Total: 600.00")
	assert.True(t, second.HasTag(AlertLimitExceeded))
}

func TestAddEntry_HighValueOnly(t *testing.T) {
	food := mustCategory(t, "Food", CategoryKindExpense, "1000")
	b := newBudget(t, 12, 2024)
	income := mustCategory(t, "Salary", CategoryKindIncome, "")
	_, err := b.AddEntry(mustIncome(t, income, "3000", "Paycheck", day(2024, time.December, 1)))
	require.NoError(t, err)

	e := mustExpense(t, food, "600", "Party", day(2024, time.December, 3))
	alerts, err := b.AddEntry(e)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertHighValue, alerts[0].Kind())
	assert.Equal(t, e.ID(), alerts[0].EntryID())
}

func TestAddEntry_DeficitScenario(t *testing.T) {
	food := mustCategory(t, "Food", CategoryKindExpense, "500")
	salary := mustCategory(t, "Salary", CategoryKindIncome, "")
	b := newBudget(t, 12, 2024)
	require.NoError(t, b.SetPlannedIncome(dec("5000")))

	_, err := b.AddEntry(mustIncome(t, salary, "1000", "Paycheck", day(2024, time.December, 5)))
	require.NoError(t, err)
	_, err = b.AddEntry(mustExpense(t, food, "400", "Market", day(2024, time.December, 6)))
	require.NoError(t, err)

	alerts, err := b.AddEntry(mustExpense(t, food, "700", "Banquet", day(2024, time.December, 7)))
	require.NoError(t, err)

	assert.Equal(t, []AlertKind{AlertHighValue, AlertLimitExceeded, AlertBudgetDeficit}, kinds(alerts))
	assert.True(t, b.Balance().Equal(dec("-100")))
	assert.True(t, b.HasDeficit())
	assert.True(t, b.AvailableBalance().Equal(dec("3900")))
	assert.Len(t, b.Alerts(), 3)
}

func TestAddEntry_AtMostOneDeficit(t *testing.T) {
	other := mustCategory(t, "Other", CategoryKindExpense, "")
	b := newBudget(t, 12, 2024)

	first, err := b.AddEntry(mustExpense(t, other, "10", "One", day(2024, time.December, 1)))
	require.NoError(t, err)
	assert.Equal(t, []AlertKind{AlertBudgetDeficit}, kinds(first))

	for i, d := range []string{"Two", "Three", "Four"} {
		alerts, err := b.AddEntry(mustExpense(t, other, "10", d, day(2024, time.December, 2+i)))
		require.NoError(t, err)
		assert.Empty(t, alerts)
	}

	deficits := 0
	for _, a := range b.Alerts() {
		if a.Kind() == AlertBudgetDeficit {
			deficits++
		}
	}
	assert.Equal(t, 1, deficits)
}

func TestAddEntry_MonthMismatchLeavesBudgetUnchanged(t *testing.T) {
	food := mustCategory(t, "Food", CategoryKindExpense, "")
	b := newBudget(t, 12, 2024)

	alerts, err := b.AddEntry(mustExpense(t, food, "900", "Trip", day(2025, time.January, 2)))
	assert.ErrorIs(t, err, ErrMonthMismatch)
	assert.Nil(t, alerts)
	assert.Zero(t, b.Len())
	assert.Empty(t, b.Alerts())
}

func TestAddEntry_DateDescriptionDuplicate(t *testing.T) {
	food := mustCategory(t, "Food", CategoryKindExpense, "")
	salary := mustCategory(t, "Salary", CategoryKindIncome, "")
	b := newBudget(t, 12, 2024)
	_, err := b.AddEntry(mustIncome(t, salary, "100", "Paycheck", day(2024, time.December, 1)))
	require.NoError(t, err)

	_, err = b.AddEntry(mustExpense(t, food, "5", "Coffee", day(2024, time.December, 4)))
	require.NoError(t, err)

	_, err = b.AddEntry(mustExpense(t, food, "7", "coffee", day(2024, time.December, 4)))
	assert.ErrorIs(t, err, ErrDuplicateEntry)
	assert.Equal(t, 2, b.Len())
}

func TestAddEntry_IDOnlyEqualityAllowsSameDayRepeats(t *testing.T) {
	food := mustCategory(t, "Food", CategoryKindExpense, "")
	b := newBudget(t, 12, 2024, WithEntryEquality(SameEntryID))

	first := mustExpense(t, food, "5", "Coffee", day(2024, time.December, 4))
	_, err := b.AddEntry(first)
	require.NoError(t, err)
	_, err = b.AddEntry(mustExpense(t, food, "5", "Coffee", day(2024, time.December, 4)))
	require.NoError(t, err)

	_, err = b.AddEntry(first)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
	assert.Equal(t, 2, b.Len())
}

func TestTotalForCategory_NameEquality(t *testing.T) {
	food := mustCategory(t, "Food", CategoryKindExpense, "")
	twin := mustCategory(t, "FOOD", CategoryKindExpense, "")
	b := newBudget(t, 12, 2024)
	_, err := b.AddEntry(mustExpense(t, food, "30", "A", day(2024, time.December, 1)))
	require.NoError(t, err)
	_, err = b.AddEntry(mustExpense(t, twin, "20", "B", day(2024, time.December, 2)))
	require.NoError(t, err)

	assert.True(t, b.TotalForCategory(food).Equal(dec("50")))

	byID := newBudget(t, 12, 2024, WithCategoryEquality(SameCategoryID))
	_, err = byID.AddEntry(mustExpense(t, food, "30", "A", day(2024, time.December, 1)))
	require.NoError(t, err)
	_, err = byID.AddEntry(mustExpense(t, twin, "20", "B", day(2024, time.December, 2)))
	require.NoError(t, err)
	assert.True(t, byID.TotalForCategory(food).Equal(dec("30")))
}

func TestPercentByCategory(t *testing.T) {
	food := mustCategory(t, "Food", CategoryKindExpense, "")
	transport := mustCategory(t, "Transport", CategoryKindExpense, "")
	b := newBudget(t, 12, 2024)

	assert.Empty(t, b.PercentByCategory())

	_, err := b.AddEntry(mustExpense(t, food, "300", "Market", day(2024, time.December, 1)))
	require.NoError(t, err)
	_, err = b.AddEntry(mustExpense(t, transport, "100", "Bus", day(2024, time.December, 2)))
	require.NoError(t, err)

	got := b.PercentByCategory()
	require.Len(t, got, 2)
	assert.True(t, got["Food"].Equal(dec("75")), "food: %s", got["Food"])
	assert.True(t, got["Transport"].Equal(dec("25")), "transport: %s", got["Transport"])
}

func TestAggregates(t *testing.T) {
	food := mustCategory(t, "Food", CategoryKindExpense, "")
	salary := mustCategory(t, "Salary", CategoryKindIncome, "")
	b := newBudget(t, 12, 2024)

	_, err := b.AddEntry(mustIncome(t, salary, "1000", "Paycheck", day(2024, time.December, 1)))
	require.NoError(t, err)
	cash, err := NewExpense(EntryParams{
		Amount: dec("50"), Category: food, Date: day(2024, time.December, 2),
		Description: "Fair", PaymentMethod: PaymentCash,
	})
	require.NoError(t, err)
	_, err = b.AddEntry(cash)
	require.NoError(t, err)
	_, err = b.AddEntry(mustExpense(t, food, "150", "Market", day(2024, time.December, 3)))
	require.NoError(t, err)

	assert.True(t, b.TotalIncome().Equal(dec("1000")))
	assert.True(t, b.TotalExpense().Equal(dec("200")))
	assert.True(t, b.Balance().Equal(dec("800")))
	assert.Len(t, b.Incomes(), 1)
	assert.Len(t, b.Expenses(), 2)

	rate, ok := b.SavingsRate()
	require.True(t, ok)
	assert.True(t, rate.Equal(dec("80")))

	byMethod := b.ExpensesByPaymentMethod()
	assert.True(t, byMethod[PaymentCash].Equal(dec("50")))
	assert.True(t, byMethod[PaymentDebitCard].Equal(dec("150")))

	assert.Equal(t, "Budget 12/2024 - Income: 1000.00 | Expense: 200.00 | Balance: 800.00", b.String())
}

func TestRunningBalance(t *testing.T) {
	food := mustCategory(t, "Food", CategoryKindExpense, "")
	salary := mustCategory(t, "Salary", CategoryKindIncome, "")
	b := newBudget(t, 12, 2024)

	_, err := b.AddEntry(mustExpense(t, food, "20", "Lunch", day(2024, time.December, 3)))
	require.NoError(t, err)
	_, err = b.AddEntry(mustIncome(t, salary, "100", "Paycheck", day(2024, time.December, 1)))
	require.NoError(t, err)
	_, err = b.AddEntry(mustExpense(t, food, "5", "Snack", day(2024, time.December, 3)))
	require.NoError(t, err)

	got := b.RunningBalance()
	require.Len(t, got, 2)
	assert.Equal(t, day(2024, time.December, 1), got[0].Date)
	assert.True(t, got[0].Balance.Equal(dec("100")))
	assert.Equal(t, day(2024, time.December, 3), got[1].Date)
	assert.True(t, got[1].Balance.Equal(dec("75")))
}

func TestRemoveEntry_KeepsAlerts(t *testing.T) {
	food := mustCategory(t, "Food", CategoryKindExpense, "")
	b := newBudget(t, 12, 2024)
	e := mustExpense(t, food, "900", "TV", day(2024, time.December, 1))
	_, err := b.AddEntry(e)
	require.NoError(t, err)

	removed, ok := b.RemoveEntry(e.ID())
	require.True(t, ok)
	assert.Equal(t, e.ID(), removed.ID())
	assert.Zero(t, b.Len())
	assert.Len(t, b.Alerts(), 2)

	_, ok = b.RemoveEntry(e.ID())
	assert.False(t, ok)
}

func TestReview(t *testing.T) {
	food := mustCategory(t, "Food", CategoryKindExpense, "")
	salary := mustCategory(t, "Salary", CategoryKindIncome, "")
	b := newBudget(t, 12, 2024)
	require.NoError(t, b.SetPlannedIncome(dec("400")))

	_, err := b.AddEntry(mustIncome(t, salary, "1000", "Paycheck", day(2024, time.December, 1)))
	require.NoError(t, err)
	_, err = b.AddEntry(mustExpense(t, food, "450", "Market", day(2024, time.December, 2)))
	require.NoError(t, err)

	alerts := b.Review(decimal.NewFromInt(60))
	assert.Equal(t, []AlertKind{AlertNegativeBalance, AlertGoalMissed}, kinds(alerts))
	assert.Equal(t, "Savings goal missed in 12/2024: saved 55.00% of income, goal 60.00%", alerts[1].Message())

	assert.Empty(t, b.Review(decimal.NewFromInt(60)), "review raises each alert once")
}

func TestReview_NothingToReport(t *testing.T) {
	b := newBudget(t, 12, 2024)
	assert.Empty(t, b.Review(decimal.NewFromInt(20)), "no income means no savings rate")
}

func TestCompareBudgets(t *testing.T) {
	dec2024 := newBudget(t, 12, 2024)
	jan2025 := newBudget(t, 1, 2025)
	nov2024 := newBudget(t, 11, 2024)

	assert.Negative(t, CompareBudgets(dec2024, jan2025))
	assert.Positive(t, CompareBudgets(dec2024, nov2024))
	assert.Zero(t, CompareBudgets(dec2024, newBudget(t, 12, 2024)))
	assert.True(t, SameBudget(dec2024, newBudget(t, 12, 2024)))
}
