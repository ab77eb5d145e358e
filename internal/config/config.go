package config

import (
	"fmt"
	"path/filepath"

	"github.com/Veraticus/budgie/internal/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config is the typed view of the viper configuration.
type Config struct {
	DataDir        string
	Locale         language.Tag
	CurrencySymbol string
	DefaultIncome  []DefaultCategory
	DefaultExpense []DefaultCategory
	SavingsGoal    decimal.Decimal
	CompareMonths  int
}

// DefaultCategory is a category seeded by BootstrapDefaults.
type DefaultCategory struct {
	Limit       *decimal.Decimal
	Name        string
	Description string
}

type defaultCategoryEntry struct {
	Limit       *float64 `mapstructure:"limit"`
	Name        string   `mapstructure:"name"`
	Description string   `mapstructure:"description"`
}

// SetDefaults registers the built-in defaults with viper.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", "~/.local/share/budgie")
	v.SetDefault("display.locale", "en-US")
	v.SetDefault("display.currency_symbol", "$")
	v.SetDefault("goals.savings_percent", 20)
	v.SetDefault("reports.compare_months", 3)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("defaults.categories.income", []map[string]any{
		{"name": "Salary", "description": "Regular paycheck"},
		{"name": "Freelance", "description": "Side work and contracts"},
		{"name": "Investments", "description": "Dividends and interest"},
	})
	v.SetDefault("defaults.categories.expense", []map[string]any{
		{"name": "Food", "description": "Groceries and eating out", "limit": 1500},
		{"name": "Housing", "description": "Rent, utilities, maintenance"},
		{"name": "Transport", "description": "Fuel, transit, rides", "limit": 600},
		{"name": "Health", "description": "Pharmacy and appointments"},
		{"name": "Leisure", "description": "Entertainment and hobbies", "limit": 400},
		{"name": "Education", "description": "Courses and books"},
		{"name": "Other", "description": "Everything else"},
	})
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DataDir:        filepath.Clean(ExpandPath(v.GetString("data.dir"))),
		CurrencySymbol: v.GetString("display.currency_symbol"),
		CompareMonths:  v.GetInt("reports.compare_months"),
	}

	locale, err := language.Parse(v.GetString("display.locale"))
	if err != nil {
		return nil, fmt.Errorf("%w: display.locale %q: %v", common.ErrInvalidConfig, v.GetString("display.locale"), err)
	}
	cfg.Locale = locale

	goal := decimal.NewFromFloat(v.GetFloat64("goals.savings_percent"))
	if goal.IsNegative() || goal.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: goals.savings_percent must be between 0 and 100, got %s", common.ErrInvalidConfig, goal)
	}
	cfg.SavingsGoal = goal

	if cfg.CompareMonths < 1 {
		return nil, fmt.Errorf("%w: reports.compare_months must be at least 1, got %d", common.ErrInvalidConfig, cfg.CompareMonths)
	}

	if cfg.DefaultIncome, err = loadDefaults(v, "defaults.categories.income"); err != nil {
		return nil, err
	}
	if cfg.DefaultExpense, err = loadDefaults(v, "defaults.categories.expense"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadDefaults(v *viper.Viper, key string) ([]DefaultCategory, error) {
	var raw []defaultCategoryEntry
	if err := v.UnmarshalKey(key, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrInvalidConfig, key, err)
	}

	out := make([]DefaultCategory, 0, len(raw))
	for _, r := range raw {
		dc := DefaultCategory{Name: r.Name, Description: r.Description}
		if r.Limit != nil {
			limit := decimal.NewFromFloat(*r.Limit)
			dc.Limit = &limit
		}
		out = append(out, dc)
	}
	return out, nil
}
