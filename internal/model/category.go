package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MinCategoryNameLength is the minimum length of a trimmed category name.
const MinCategoryNameLength = 2

// CategoryKind indicates whether a category is for income or expense entries.
type CategoryKind string

const (
	// CategoryKindIncome represents categories for income entries.
	CategoryKindIncome CategoryKind = "income"
	// CategoryKindExpense represents categories for expense entries.
	CategoryKindExpense CategoryKind = "expense"
)

// ParseCategoryKind converts user input into a CategoryKind.
func ParseCategoryKind(s string) (CategoryKind, error) {
	switch CategoryKind(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryKindIncome:
		return CategoryKindIncome, nil
	case CategoryKindExpense:
		return CategoryKindExpense, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategoryKind, s)
	}
}

// Valid reports whether k is a known kind.
func (k CategoryKind) Valid() bool {
	return k == CategoryKindIncome || k == CategoryKindExpense
}

// CategoryParams holds the inputs for creating a category.
type CategoryParams struct {
	Limit       *decimal.Decimal
	ID          string
	Name        string
	Kind        CategoryKind
	Description string
}

// Category classifies entries. Entries share a *Category, so edits made through
// its mutators are visible to every entry referencing it.
type Category struct {
	limit       decimal.NullDecimal
	id          string
	name        string
	kind        CategoryKind
	description string
}

// NewCategory validates params and creates a category. An empty ID generates one.
func NewCategory(p CategoryParams) (*Category, error) {
	if !p.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategoryKind, p.Kind)
	}

	c := &Category{
		id:   p.ID,
		kind: p.Kind,
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	if err := c.Rename(p.Name); err != nil {
		return nil, err
	}
	if err := c.SetLimit(p.Limit); err != nil {
		return nil, err
	}
	c.SetDescription(p.Description)

	return c, nil
}

// ID returns the stable identifier.
func (c *Category) ID() string { return c.id }

// Name returns the trimmed name.
func (c *Category) Name() string { return c.name }

// Kind returns the category kind.
func (c *Category) Kind() CategoryKind { return c.kind }

// Description returns the optional description, empty when unset.
func (c *Category) Description() string { return c.description }

// Limit returns the monthly spending ceiling and whether one is set.
func (c *Category) Limit() (decimal.Decimal, bool) {
	return c.limit.Decimal, c.limit.Valid
}

// Rename validates and sets the name.
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < MinCategoryNameLength {
		return fmt.Errorf("%w: got %q", ErrInvalidName, name)
	}
	c.name = name
	return nil
}

// SetLimit validates and sets the monthly limit. A nil limit clears it.
func (c *Category) SetLimit(limit *decimal.Decimal) error {
	if limit == nil {
		c.limit = decimal.NullDecimal{}
		return nil
	}
	if c.kind == CategoryKindIncome {
		return ErrIncomeLimit
	}
	if !limit.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidLimit, limit.String())
	}
	c.limit = decimal.NullDecimal{Decimal: *limit, Valid: true}
	return nil
}

// SetDescription sets the description, trimming whitespace.
func (c *Category) SetDescription(description string) {
	c.description = strings.TrimSpace(description)
}

// String renders the category for display.
func (c *Category) String() string {
	if limit, ok := c.Limit(); ok {
		return fmt.Sprintf("%s [%s] (limit: %s)", c.name, c.kind, limit.StringFixed(2))
	}
	return fmt.Sprintf("%s [%s]", c.name, c.kind)
}

// CompareCategories orders categories by case-insensitive name.
func CompareCategories(a, b *Category) int {
	return strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name))
}
