package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/budgie/internal/ledger"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Category names seeded by WithBasicCategories.
const (
	CategoryFood      = "Food"
	CategoryTransport = "Transport"
	CategoryOther     = "Other"
	CategorySalary    = "Salary"
	CategoryFreelance = "Freelance"
)

// CategoryBuilder collects categories to seed into a session.
type CategoryBuilder struct {
	params []model.CategoryParams
}

// NewCategoryBuilder returns an empty builder.
func NewCategoryBuilder() *CategoryBuilder {
	return &CategoryBuilder{}
}

// WithExpense adds an expense category. An empty limit means none.
func (b *CategoryBuilder) WithExpense(name, limit string) *CategoryBuilder {
	p := model.CategoryParams{Name: name, Kind: model.CategoryKindExpense}
	if limit != "" {
		d := decimal.RequireFromString(limit)
		p.Limit = &d
	}
	b.params = append(b.params, p)
	return b
}

// WithIncome adds an income category.
func (b *CategoryBuilder) WithIncome(name string) *CategoryBuilder {
	b.params = append(b.params, model.CategoryParams{Name: name, Kind: model.CategoryKindIncome})
	return b
}

// WithBasicCategories adds Food (limit 500), Transport, Other, Salary and
// Freelance.
func (b *CategoryBuilder) WithBasicCategories() *CategoryBuilder {
	return b.
		WithExpense(CategoryFood, "500").
		WithExpense(CategoryTransport, "").
		WithExpense(CategoryOther, "").
		WithIncome(CategorySalary).
		WithIncome(CategoryFreelance)
}

// Build creates the categories through the session.
func (b *CategoryBuilder) Build(t *testing.T, s *ledger.Session) []*model.Category {
	t.Helper()
	out := make([]*model.Category, 0, len(b.params))
	for _, p := range b.params {
		c, err := s.CreateCategory(context.Background(), p)
		require.NoError(t, err, "seeding category %q", p.Name)
		out = append(out, c)
	}
	return out
}
