// Package ledger is budgie's data-access session: it loads the persisted
// dataset into model objects, applies mutations through the monthly budgets
// and writes the whole dataset back after every change.
package ledger

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/Veraticus/budgie/internal/common"
	"github.com/Veraticus/budgie/internal/config"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/Veraticus/budgie/internal/storage"
	"github.com/shopspring/decimal"
)

// Store loads and saves a full snapshot of the dataset.
type Store interface {
	Load(ctx context.Context) (*storage.Snapshot, error)
	Save(ctx context.Context, snap *storage.Snapshot) error
}

// Options tunes a Session.
type Options struct {
	EntryEquality    model.EntryEquality
	CategoryEquality model.CategoryEquality
	SavingsGoal      decimal.Decimal
	DefaultIncome    []config.DefaultCategory
	DefaultExpense   []config.DefaultCategory
}

// OptionsFromConfig builds session options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SavingsGoal:    cfg.SavingsGoal,
		DefaultIncome:  cfg.DefaultIncome,
		DefaultExpense: cfg.DefaultExpense,
	}
}

// Session holds one in-memory copy of the dataset. Categories are shared
// handles: editing one is visible through every entry that references it.
//
// A Session is not safe for concurrent use; callers serialize access to it.
type Session struct {
	store      Store
	categories map[string]*model.Category
	entries    map[string]model.Entry
	alerts     map[string]*model.Alert
	budgets    map[model.MonthYear]*model.MonthlyBudget
	warnings   []string
	opts       Options
}

// Open loads the dataset from store and re-links budgets to their entries and
// alerts. Entries whose category no longer exists are skipped and reported by
// LoadWarnings.
func Open(ctx context.Context, store Store, opts Options) (*Session, error) {
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	s := &Session{
		store:      store,
		opts:       opts,
		categories: make(map[string]*model.Category, len(snap.Categories)),
		entries:    make(map[string]model.Entry, len(snap.Entries)),
		alerts:     make(map[string]*model.Alert, len(snap.Alerts)),
		budgets:    make(map[model.MonthYear]*model.MonthlyBudget, len(snap.Budgets)),
	}
	if err := s.link(snap); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrCorruptData, err)
	}

	slog.Debug("dataset loaded",
		"categories", len(s.categories),
		"entries", len(s.entries),
		"budgets", len(s.budgets),
		"alerts", len(s.alerts),
		"warnings", len(s.warnings))
	return s, nil
}

func (s *Session) link(snap *storage.Snapshot) error {
	for _, rec := range snap.Categories {
		c, err := model.CategoryFromRecord(rec)
		if err != nil {
			return fmt.Errorf("category %s: %w", rec.ID, err)
		}
		s.categories[c.ID()] = c
	}

	for _, rec := range snap.Alerts {
		a, err := model.AlertFromRecord(rec)
		if err != nil {
			return fmt.Errorf("alert %s: %w", rec.ID, err)
		}
		s.alerts[a.ID()] = a
	}

	for _, rec := range snap.Entries {
		c, ok := s.categories[rec.CategoryID]
		if !ok {
			s.warn("entry %s skipped: category %s not found", rec.ID, rec.CategoryID)
			continue
		}
		e, err := model.EntryFromRecord(rec, c)
		if err != nil {
			return err
		}
		s.entries[e.ID()] = e
	}

	linked := make(map[string]struct{}, len(s.entries))
	for _, rec := range snap.Budgets {
		b, err := model.BudgetFromRecord(rec, s.budgetOptions()...)
		if err != nil {
			return err
		}
		if _, dup := s.budgets[b.MonthYear()]; dup {
			return fmt.Errorf("budget %s: another budget already covers %s", rec.ID, b.MonthYear())
		}
		for _, id := range rec.EntryIDs {
			e, ok := s.entries[id]
			if !ok {
				continue
			}
			if err := b.Link(e); err != nil {
				return fmt.Errorf("budget %s: %w", rec.ID, err)
			}
			linked[id] = struct{}{}
		}
		for _, id := range rec.AlertIDs {
			if a, ok := s.alerts[id]; ok {
				b.LinkAlert(a)
			}
		}
		s.budgets[b.MonthYear()] = b
	}

	for _, e := range s.sortedEntries() {
		if _, ok := linked[e.ID()]; ok {
			continue
		}
		s.warn("entry %s was not referenced by a budget; attached to %s", e.ID(), e.MonthYear())
		b, _, err := s.budgetFor(e.MonthYear())
		if err != nil {
			return fmt.Errorf("entry %s: %w", e.ID(), err)
		}
		if err := b.Link(e); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.warnings = append(s.warnings, msg)
	slog.Warn(msg)
}

// LoadWarnings lists records that were skipped or repaired while loading.
func (s *Session) LoadWarnings() []string {
	return slices.Clone(s.warnings)
}

func (s *Session) budgetOptions() []model.BudgetOption {
	var opts []model.BudgetOption
	if s.opts.EntryEquality != nil {
		opts = append(opts, model.WithEntryEquality(s.opts.EntryEquality))
	}
	if s.opts.CategoryEquality != nil {
		opts = append(opts, model.WithCategoryEquality(s.opts.CategoryEquality))
	}
	return opts
}

// budgetFor returns the budget for my, creating and registering it when
// absent. The bool reports whether it was created.
func (s *Session) budgetFor(my model.MonthYear) (*model.MonthlyBudget, bool, error) {
	if b, ok := s.budgets[my]; ok {
		return b, false, nil
	}
	b, err := model.NewMonthlyBudget(my.Month, my.Year, s.budgetOptions()...)
	if err != nil {
		return nil, false, err
	}
	s.budgets[my] = b
	return b, true, nil
}

// save writes the whole dataset.
func (s *Session) save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.snapshot()); err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}
	return nil
}

func (s *Session) snapshot() *storage.Snapshot {
	snap := &storage.Snapshot{
		Categories: make([]model.CategoryRecord, 0, len(s.categories)),
		Entries:    make([]model.EntryRecord, 0, len(s.entries)),
		Budgets:    make([]model.BudgetRecord, 0, len(s.budgets)),
		Alerts:     make([]model.AlertRecord, 0, len(s.alerts)),
	}

	for _, c := range s.sortedCategories() {
		snap.Categories = append(snap.Categories, c.Record())
	}
	for _, e := range s.sortedEntries() {
		snap.Entries = append(snap.Entries, model.EntryToRecord(e))
	}
	for _, b := range s.Budgets() {
		snap.Budgets = append(snap.Budgets, b.Record())
	}

	alerts := slices.Collect(maps.Values(s.alerts))
	slices.SortFunc(alerts, func(a, b *model.Alert) int {
		return cmp.Or(a.CreatedAt().Compare(b.CreatedAt()), cmp.Compare(a.ID(), b.ID()))
	})
	for _, a := range alerts {
		snap.Alerts = append(snap.Alerts, a.Record())
	}
	return snap
}

func (s *Session) sortedCategories() []*model.Category {
	out := slices.Collect(maps.Values(s.categories))
	slices.SortFunc(out, func(a, b *model.Category) int {
		return cmp.Or(
			cmp.Compare(a.Kind(), b.Kind()),
			model.CompareCategories(a, b),
			cmp.Compare(a.ID(), b.ID()),
		)
	})
	return out
}

func (s *Session) sortedEntries() []model.Entry {
	out := slices.Collect(maps.Values(s.entries))
	slices.SortFunc(out, func(a, b model.Entry) int {
		return cmp.Or(model.CompareEntries(a, b), cmp.Compare(a.ID(), b.ID()))
	})
	return out
}
