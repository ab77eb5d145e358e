package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/Veraticus/budgie/internal/common"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/shopspring/decimal"
)

// Budget returns the budget for month/year, if one exists.
func (s *Session) Budget(month, year int) (*model.MonthlyBudget, bool) {
	b, ok := s.budgets[model.MonthYear{Month: month, Year: year}]
	return b, ok
}

// Budgets returns every budget in chronological order.
func (s *Session) Budgets() []*model.MonthlyBudget {
	out := slices.Collect(maps.Values(s.budgets))
	slices.SortFunc(out, model.CompareBudgets)
	return out
}

// SetPlannedIncome sets the expected income of a month, creating its budget
// when needed.
func (s *Session) SetPlannedIncome(ctx context.Context, month, year int, amount decimal.Decimal) (*model.MonthlyBudget, error) {
	my := model.MonthYear{Month: month, Year: year}
	b, created, err := s.budgetFor(my)
	if err != nil {
		return nil, err
	}

	previous := b.PlannedIncome()
	if err := b.SetPlannedIncome(amount); err != nil {
		if created {
			delete(s.budgets, my)
		}
		return nil, err
	}
	if err := s.save(ctx); err != nil {
		if created {
			delete(s.budgets, my)
		} else if rollbackErr := b.SetPlannedIncome(previous); rollbackErr != nil {
			slog.Error("failed to roll back planned income", "budget", my.String(), "error", rollbackErr)
		}
		return nil, err
	}

	slog.Info("planned income set", "budget", my.String(), "amount", amount.StringFixed(2))
	return b, nil
}

// ReviewMonth runs the month-close checks against the configured savings goal
// and returns any alerts they raised.
func (s *Session) ReviewMonth(ctx context.Context, month, year int) ([]*model.Alert, error) {
	b, ok := s.Budget(month, year)
	if !ok {
		return nil, fmt.Errorf("%w: no budget for %s", common.ErrNotFound, model.MonthYear{Month: month, Year: year})
	}

	alerts := b.Review(s.opts.SavingsGoal)
	if len(alerts) == 0 {
		return nil, nil
	}
	for _, a := range alerts {
		s.alerts[a.ID()] = a
	}
	if err := s.save(ctx); err != nil {
		b.UnlinkAlerts(alertIDs(alerts)...)
		for _, a := range alerts {
			delete(s.alerts, a.ID())
		}
		return nil, err
	}

	slog.Info("month reviewed", "budget", b.MonthYear().String(), "alerts", len(alerts))
	return alerts, nil
}
