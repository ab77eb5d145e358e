package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertKind_Severity(t *testing.T) {
	tests := []struct {
		kind AlertKind
		want int
	}{
		{AlertHighValue, SeverityInfo},
		{AlertGoalMissed, SeverityAttention},
		{AlertLimitExceeded, SeverityAttention},
		{AlertNegativeBalance, SeverityCritical},
		{AlertBudgetDeficit, SeverityCritical},
		{AlertKind("unmapped"), SeverityInfo},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Severity())
		})
	}
}

func TestNewAlert(t *testing.T) {
	_, err := NewAlert(AlertParams{Kind: AlertHighValue, Message: "  "})
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = NewAlert(AlertParams{Kind: "weird", Message: "hello"})
	assert.ErrorIs(t, err, ErrUnknownAlertKind)

	a, err := NewAlert(AlertParams{Kind: AlertHighValue, Message: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID())
	assert.False(t, a.CreatedAt().IsZero())
	assert.False(t, a.Read())

	a.MarkRead()
	assert.True(t, a.Read())
}

func TestAlertMessages(t *testing.T) {
	hv := NewHighValueAlert("e1", dec("600"))
	assert.Equal(t, "High-value expense recorded: 600.00", hv.Message())
	assert.Equal(t, "e1", hv.EntryID())

	le := NewLimitExceededAlert("c1", "Food", dec("500"), dec("600"))
	assert.Equal(t, "Category 'Food' limit exceeded! Limit: 500.00, Total: 600.00", le.Message())
	assert.Equal(t, "c1", le.CategoryID())

	bd := NewBudgetDeficitAlert(3, 2024, dec("-100"))
	assert.Equal(t, "Budget deficit in 03/2024: 100.00", bd.Message())
	my, ok := bd.MonthYear()
	require.True(t, ok)
	assert.Equal(t, MonthYear{Month: 3, Year: 2024}, my)

	nb := NewNegativeBalanceAlert(3, 2024, dec("-42.5"))
	assert.Equal(t, "Negative balance in 03/2024: -42.50", nb.Message())

	gm := NewGoalMissedAlert(3, 2024, dec("10"), dec("20"))
	assert.Equal(t, "Savings goal missed in 03/2024: saved 10.00% of income, goal 20.00%", gm.Message())
}

func TestSortAlerts(t *testing.T) {
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	mk := func(kind AlertKind, offset time.Duration) *Alert {
		a, err := NewAlert(AlertParams{Kind: kind, Message: string(kind), CreatedAt: base.Add(offset)})
		require.NoError(t, err)
		return a
	}

	oldInfo := mk(AlertHighValue, 0)
	newInfo := mk(AlertHighValue, time.Hour)
	attention := mk(AlertLimitExceeded, 0)
	critical := mk(AlertBudgetDeficit, -time.Hour)

	alerts := []*Alert{oldInfo, attention, newInfo, critical}
	SortAlerts(alerts)

	assert.Equal(t, []*Alert{critical, attention, newInfo, oldInfo}, alerts)
}

func TestAlert_String(t *testing.T) {
	a, err := NewAlert(AlertParams{Kind: AlertHighValue, Message: "big one"})
	require.NoError(t, err)
	assert.Equal(t, "[●] high_value: big one", a.String())
	a.MarkRead()
	assert.Equal(t, "[✓] high_value: big one", a.String())
}
