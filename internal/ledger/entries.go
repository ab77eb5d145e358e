package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/budgie/internal/common"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/shopspring/decimal"
)

// EntryInput describes an entry to record. The category is resolved by name
// among categories of the entry's kind.
type EntryInput struct {
	Date          time.Time
	Amount        decimal.Decimal
	CategoryName  string
	Description   string
	PaymentMethod model.PaymentMethod
}

// EntryFilter narrows Entries. Zero fields match everything; Month is only
// honoured together with Year.
type EntryFilter struct {
	Kind     model.EntryKind
	Category string
	Month    int
	Year     int
}

func (f EntryFilter) match(e model.Entry) bool {
	if f.Kind != "" && e.Kind() != f.Kind {
		return false
	}
	if f.Category != "" && !strings.EqualFold(e.Category().Name(), strings.TrimSpace(f.Category)) {
		return false
	}
	if f.Year != 0 && e.Date().Year() != f.Year {
		return false
	}
	if f.Year != 0 && f.Month != 0 && int(e.Date().Month()) != f.Month {
		return false
	}
	return true
}

// AddIncome records an income entry in its month's budget.
func (s *Session) AddIncome(ctx context.Context, in EntryInput) (model.Entry, []*model.Alert, error) {
	return s.addEntry(ctx, model.EntryKindIncome, in)
}

// AddExpense records an expense entry in its month's budget and returns the
// alerts it raised.
func (s *Session) AddExpense(ctx context.Context, in EntryInput) (model.Entry, []*model.Alert, error) {
	return s.addEntry(ctx, model.EntryKindExpense, in)
}

func (s *Session) addEntry(ctx context.Context, kind model.EntryKind, in EntryInput) (model.Entry, []*model.Alert, error) {
	ins, err := s.insert(kind, in)
	if err != nil {
		return nil, nil, err
	}
	if err := s.save(ctx); err != nil {
		s.retract(ins)
		return nil, nil, err
	}

	slog.Info("entry added",
		"entry_id", ins.entry.ID(),
		"kind", kind,
		"category", ins.entry.Category().Name(),
		"alerts", len(ins.alerts))
	return ins.entry, ins.alerts, nil
}

// insertion is an entry added in memory but not yet saved.
type insertion struct {
	entry         model.Entry
	alerts        []*model.Alert
	createdBudget bool
}

// insert builds the entry and adds it to its budget without saving.
func (s *Session) insert(kind model.EntryKind, in EntryInput) (insertion, error) {
	categoryKind := model.CategoryKindExpense
	if kind == model.EntryKindIncome {
		categoryKind = model.CategoryKindIncome
	}
	c, ok := s.CategoryByName(in.CategoryName, categoryKind)
	if !ok {
		return insertion{}, fmt.Errorf("%w: %s category %q", common.ErrNotFound, categoryKind, in.CategoryName)
	}

	p := model.EntryParams{
		Date:          in.Date,
		Amount:        in.Amount,
		Category:      c,
		Description:   in.Description,
		PaymentMethod: in.PaymentMethod,
	}
	var (
		e   model.Entry
		err error
	)
	switch kind {
	case model.EntryKindIncome:
		e, err = model.NewIncome(p)
	case model.EntryKindExpense:
		e, err = model.NewExpense(p)
	default:
		err = fmt.Errorf("%w: %q", model.ErrUnknownEntryKind, kind)
	}
	if err != nil {
		return insertion{}, err
	}

	b, created, err := s.budgetFor(e.MonthYear())
	if err != nil {
		return insertion{}, err
	}
	alerts, err := b.AddEntry(e)
	if err != nil {
		if created {
			delete(s.budgets, b.MonthYear())
		}
		return insertion{}, err
	}

	s.entries[e.ID()] = e
	for _, a := range alerts {
		s.alerts[a.ID()] = a
	}
	return insertion{entry: e, alerts: alerts, createdBudget: created}, nil
}

// retract undoes insert after a failed save, removing the entry and its
// alerts from the budget and the dataset. A budget the insertion created is
// dropped.
func (s *Session) retract(ins insertion) {
	my := ins.entry.MonthYear()
	if b, ok := s.budgets[my]; ok {
		b.RemoveEntry(ins.entry.ID())
		b.UnlinkAlerts(alertIDs(ins.alerts)...)
		if ins.createdBudget {
			delete(s.budgets, my)
		}
	}
	delete(s.entries, ins.entry.ID())
	for _, a := range ins.alerts {
		delete(s.alerts, a.ID())
	}
}

func alertIDs(alerts []*model.Alert) []string {
	ids := make([]string, 0, len(alerts))
	for _, a := range alerts {
		ids = append(ids, a.ID())
	}
	return ids
}

// DeleteEntry removes an entry from the dataset and its budget. Alerts it
// raised are kept.
func (s *Session) DeleteEntry(ctx context.Context, id string) (model.Entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: entry %s", common.ErrNotFound, id)
	}

	b, hasBudget := s.budgets[e.MonthYear()]
	if hasBudget {
		b.RemoveEntry(id)
	}
	delete(s.entries, id)

	if err := s.save(ctx); err != nil {
		s.entries[id] = e
		if hasBudget {
			if linkErr := b.Link(e); linkErr != nil {
				slog.Error("failed to roll back entry deletion", "entry_id", id, "error", linkErr)
			}
		}
		return nil, err
	}

	slog.Info("entry deleted", "entry_id", id)
	return e, nil
}

// Entry looks an entry up by identifier.
func (s *Session) Entry(id string) (model.Entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// Entries returns the entries matching f in entry order.
func (s *Session) Entries(f EntryFilter) []model.Entry {
	var out []model.Entry
	for _, e := range s.sortedEntries() {
		if f.match(e) {
			out = append(out, e)
		}
	}
	return out
}
