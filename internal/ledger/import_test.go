package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/budgie/internal/common"
	"github.com/Veraticus/budgie/internal/ledger"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/Veraticus/budgie/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(kind model.EntryKind, amount, category, description string, date time.Time) ledger.ImportItem {
	return ledger.ImportItem{
		Kind:       kind,
		EntryInput: testutil.Input(amount, category, description, date),
		Source:     "statement.ofx",
	}
}

func TestImport(t *testing.T) {
	l := testutil.SetupLedger(t, basic)
	l.MustAddExpense("5", "Other", "Coffee", testutil.Date(2024, time.December, 3))

	items := []ledger.ImportItem{
		item(model.EntryKindIncome, "2000", "Salary", "ACME payroll", testutil.Date(2024, time.December, 1)),
		item(model.EntryKindExpense, "700", "Other", "Laptop", testutil.Date(2024, time.December, 2)),
		item(model.EntryKindExpense, "5", "Other", "coffee", testutil.Date(2024, time.December, 3)),
		item(model.EntryKindExpense, "12", "Unknown", "Mystery", testutil.Date(2024, time.December, 4)),
		item(model.EntryKindExpense, "0", "Other", "Free sample", testutil.Date(2024, time.December, 5)),
	}

	calls := 0
	res, err := l.Session.Import(context.Background(), items, ledger.WithProgress(func() { calls++ }))
	require.NoError(t, err)

	assert.Equal(t, len(items), calls)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 1, res.Duplicates)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, 3, res.Failed[0].Index)
	assert.ErrorIs(t, res.Failed[0].Err, common.ErrNotFound)
	assert.Equal(t, "statement.ofx", res.Failed[0].Source)
	assert.ErrorIs(t, res.Failed[1].Err, model.ErrInvalidAmount)
	require.Len(t, res.Alerts, 1)
	assert.Equal(t, model.AlertHighValue, res.Alerts[0].Kind())

	assert.Len(t, l.Reopen().Entries(ledger.EntryFilter{}), 3)
}

func TestImport_Cancelled(t *testing.T) {
	l := testutil.SetupLedger(t, basic)
	ctx, cancel := context.WithCancel(context.Background())

	items := []ledger.ImportItem{
		item(model.EntryKindExpense, "10", "Other", "One", testutil.Date(2024, time.December, 1)),
		item(model.EntryKindExpense, "20", "Other", "Two", testutil.Date(2024, time.December, 2)),
	}

	_, err := l.Session.Import(ctx, items, ledger.WithProgress(cancel))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, l.Session.Entries(ledger.EntryFilter{}))
	assert.Empty(t, l.Reopen().Entries(ledger.EntryFilter{}))
}
