package ledger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Veraticus/budgie/internal/model"
)

// ImportItem is one entry to import.
type ImportItem struct {
	EntryInput
	Kind   model.EntryKind
	Source string
}

// ImportFailure records an item that could not be imported.
type ImportFailure struct {
	Err    error
	Source string
	Index  int
}

// ImportResult summarizes an Import call.
type ImportResult struct {
	Alerts     []*model.Alert
	Failed     []ImportFailure
	Added      int
	Duplicates int
}

// ImportOption configures Import.
type ImportOption func(*importConfig)

type importConfig struct {
	progress func()
}

// WithProgress calls fn after each item is processed.
func WithProgress(fn func()) ImportOption {
	return func(c *importConfig) { c.progress = fn }
}

// Import adds items one by one through the regular insertion policy and saves
// once at the end. Duplicates are counted and skipped; other invalid items are
// reported in Failed. Cancelling ctx stops the import before the next item and
// nothing is saved.
func (s *Session) Import(ctx context.Context, items []ImportItem, opts ...ImportOption) (*ImportResult, error) {
	var cfg importConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		result ImportResult
		done   []insertion
	)
	undo := func() {
		for i := len(done) - 1; i >= 0; i-- {
			s.retract(done[i])
		}
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			undo()
			return nil, err
		}

		ins, err := s.insert(item.Kind, item.EntryInput)
		switch {
		case errors.Is(err, model.ErrDuplicateEntry):
			result.Duplicates++
		case err != nil:
			result.Failed = append(result.Failed, ImportFailure{Index: i, Source: item.Source, Err: err})
			slog.Debug("import item rejected", "index", i, "source", item.Source, "error", err)
		default:
			result.Added++
			result.Alerts = append(result.Alerts, ins.alerts...)
			done = append(done, ins)
		}

		if cfg.progress != nil {
			cfg.progress()
		}
	}

	if result.Added > 0 {
		if err := s.save(ctx); err != nil {
			undo()
			return nil, err
		}
	}

	slog.Info("import finished",
		"added", result.Added,
		"duplicates", result.Duplicates,
		"failed", len(result.Failed),
		"alerts", len(result.Alerts))
	return &result, nil
}
