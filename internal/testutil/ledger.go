// Package testutil provides fixtures for tests that need a populated ledger
// backed by a real JSON store in a temporary directory.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/budgie/internal/ledger"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/Veraticus/budgie/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// TestLedger is a session over a temporary data directory.
type TestLedger struct {
	Session *ledger.Session
	Store   *storage.JSONStore
	t       *testing.T
	Dir     string
	opts    ledger.Options
}

// SetupLedger creates an initialized data directory, opens a session on it
// and seeds the categories configured on the builder.
//
// Example:
//
//	l := testutil.SetupLedger(t, func(b *testutil.CategoryBuilder) *testutil.CategoryBuilder {
//		return b.WithBasicCategories().WithExpense("Pets", "200")
//	})
func SetupLedger(t *testing.T, configure func(*CategoryBuilder) *CategoryBuilder) *TestLedger {
	t.Helper()
	return SetupLedgerWithOptions(t, ledger.Options{SavingsGoal: decimal.NewFromInt(20)}, configure)
}

// SetupLedgerWithOptions is SetupLedger with explicit session options.
func SetupLedgerWithOptions(t *testing.T, opts ledger.Options, configure func(*CategoryBuilder) *CategoryBuilder) *TestLedger {
	t.Helper()

	dir := t.TempDir()
	store := storage.NewJSONStore(dir)
	require.NoError(t, store.Init(context.Background()))

	l := &TestLedger{Store: store, Dir: dir, opts: opts, t: t}
	l.Session = l.Reopen()

	if configure != nil {
		configure(NewCategoryBuilder()).Build(t, l.Session)
	}
	return l
}

// Reopen loads a fresh session from disk, replacing l.Session.
func (l *TestLedger) Reopen() *ledger.Session {
	l.t.Helper()
	s, err := ledger.Open(context.Background(), l.Store, l.opts)
	require.NoError(l.t, err)
	l.Session = s
	return s
}

// MustCategory returns the named category or fails the test.
func (l *TestLedger) MustCategory(name string, kind model.CategoryKind) *model.Category {
	l.t.Helper()
	c, ok := l.Session.CategoryByName(name, kind)
	require.True(l.t, ok, "category %q (%s) not found", name, kind)
	return c
}

// MustAddExpense records an expense or fails the test.
func (l *TestLedger) MustAddExpense(amount, category, description string, date time.Time) (model.Entry, []*model.Alert) {
	l.t.Helper()
	e, alerts, err := l.Session.AddExpense(context.Background(), Input(amount, category, description, date))
	require.NoError(l.t, err)
	return e, alerts
}

// MustAddIncome records an income or fails the test.
func (l *TestLedger) MustAddIncome(amount, category, description string, date time.Time) model.Entry {
	l.t.Helper()
	e, _, err := l.Session.AddIncome(context.Background(), Input(amount, category, description, date))
	require.NoError(l.t, err)
	return e
}

// Input builds an entry input paid by debit card.
func Input(amount, category, description string, date time.Time) ledger.EntryInput {
	return ledger.EntryInput{
		Amount:        decimal.RequireFromString(amount),
		CategoryName:  category,
		Description:   description,
		Date:          date,
		PaymentMethod: model.PaymentDebitCard,
	}
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
