package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/budgie/internal/cli"
	"github.com/Veraticus/budgie/internal/common"
	"github.com/Veraticus/budgie/internal/ledger"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/Veraticus/budgie/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const shortIDLen = 8

var dateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006"}

// openSession loads the dataset from the configured data directory.
func (a *app) openSession(cmd *cobra.Command) (*ledger.Session, error) {
	ctx := cmd.Context()
	store := storage.NewJSONStore(a.cfg.DataDir)
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare data directory %s: %w", a.cfg.DataDir, err)
	}

	s, err := ledger.Open(ctx, store, ledger.OptionsFromConfig(a.cfg))
	if err != nil {
		return nil, common.NewUserError("could not load your data", err)
	}
	for _, w := range s.LoadWarnings() {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(w))
	}
	return s, nil
}

func (a *app) money() *cli.MoneyFormatter {
	return cli.NewMoneyFormatter(a.cfg.Locale, a.cfg.CurrencySymbol)
}

// confirm asks for confirmation unless yes is set.
func (a *app) confirm(cmd *cobra.Command, yes bool, question string) (bool, error) {
	if yes {
		return true, nil
	}
	return cli.NewPrompter(a.in, cmd.OutOrStdout()).Confirm(cmd.Context(), question)
}

// parseDate accepts DD/MM/YYYY, YYYY-MM-DD and DD-MM-YYYY. An empty string
// means today.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, common.NewUserError(
		fmt.Sprintf("invalid date %q, use DD/MM/YYYY, YYYY-MM-DD or DD-MM-YYYY", s), nil)
}

// parsePeriod accepts MM/YYYY and YYYY-MM. An empty string means the current
// month.
func parsePeriod(s string) (model.MonthYear, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.MonthYearOf(time.Now()), nil
	}

	var month, year string
	switch {
	case strings.Contains(s, "/"):
		month, year, _ = strings.Cut(s, "/")
	case strings.Contains(s, "-"):
		year, month, _ = strings.Cut(s, "-")
	default:
		return model.MonthYear{}, invalidPeriod(s)
	}

	m, errM := strconv.Atoi(month)
	y, errY := strconv.Atoi(year)
	if errM != nil || errY != nil {
		return model.MonthYear{}, invalidPeriod(s)
	}
	my := model.MonthYear{Month: m, Year: y}
	if err := my.Validate(); err != nil {
		return model.MonthYear{}, common.NewUserError(fmt.Sprintf("invalid month %q", s), err)
	}
	return my, nil
}

func invalidPeriod(s string) error {
	return common.NewUserError(fmt.Sprintf("invalid month %q, use MM/YYYY or YYYY-MM", s), nil)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, common.NewUserError(fmt.Sprintf("invalid amount %q", s), nil)
	}
	return d, nil
}

// resolveID finds the item whose identifier equals id or, failing that, is
// the only one starting with it.
func resolveID[T any](what, id string, items []T, idOf func(T) string) (T, error) {
	var (
		zero    T
		matches []T
	)
	id = strings.TrimSpace(id)
	if id == "" {
		return zero, common.NewUserError(what+" id is required", nil)
	}
	for _, it := range items {
		if idOf(it) == id {
			return it, nil
		}
		if strings.HasPrefix(idOf(it), id) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return zero, common.NewUserError(fmt.Sprintf("no %s matches %q", what, id), common.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return zero, common.NewUserError(fmt.Sprintf("%q matches %d %ss, use more characters", id, len(matches), what), nil)
	}
}

// resolveCategory finds a category by name, optionally restricted to kind.
func resolveCategory(s *ledger.Session, name, kind string) (*model.Category, error) {
	if kind != "" {
		k, err := model.ParseCategoryKind(kind)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("invalid kind %q", kind), err)
		}
		if c, ok := s.CategoryByName(name, k); ok {
			return c, nil
		}
		return nil, common.NewUserError(fmt.Sprintf("no %s category named %q", k, name), common.ErrNotFound)
	}

	income, hasIncome := s.CategoryByName(name, model.CategoryKindIncome)
	expense, hasExpense := s.CategoryByName(name, model.CategoryKindExpense)
	switch {
	case hasIncome && hasExpense:
		return nil, common.NewUserError(fmt.Sprintf("%q exists as income and expense, pass --kind", name), nil)
	case hasIncome:
		return income, nil
	case hasExpense:
		return expense, nil
	default:
		return nil, common.NewUserError(fmt.Sprintf("no category named %q", name), common.ErrNotFound)
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// Output formats for report commands.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	}
	return common.NewUserError(fmt.Sprintf("invalid output %q, use table, json or yaml", format), nil)
}

// writeStructured renders v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return validateOutput(format)
}

func printAlerts(w io.Writer, alerts []*model.Alert) {
	for _, alert := range alerts {
		fmt.Fprintln(w, "  "+cli.FormatAlert(alert))
	}
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func formatRelativeTime(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		if minutes := int(duration.Minutes()); minutes != 1 {
			return fmt.Sprintf("%d minutes ago", minutes)
		}
		return "1 minute ago"
	case duration < 24*time.Hour:
		if hours := int(duration.Hours()); hours != 1 {
			return fmt.Sprintf("%d hours ago", hours)
		}
		return "1 hour ago"
	case duration < 7*24*time.Hour:
		if days := int(duration.Hours() / 24); days != 1 {
			return fmt.Sprintf("%d days ago", days)
		}
		return "yesterday"
	default:
		return t.Format("2006-01-02 15:04")
	}
}
