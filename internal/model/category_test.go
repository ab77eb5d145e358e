package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestNewCategory(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		params  CategoryParams
	}{
		{
			name:   "expense with limit",
			params: CategoryParams{Name: "Food", Kind: CategoryKindExpense, Limit: decPtr("500")},
		},
		{
			name:   "income without limit",
			params: CategoryParams{Name: "Salary", Kind: CategoryKindIncome},
		},
		{
			name:    "name too short after trim",
			params:  CategoryParams{Name: "  A  ", Kind: CategoryKindExpense},
			wantErr: ErrInvalidName,
		},
		{
			name:    "income with limit",
			params:  CategoryParams{Name: "Salary", Kind: CategoryKindIncome, Limit: decPtr("100")},
			wantErr: ErrIncomeLimit,
		},
		{
			name:    "zero limit",
			params:  CategoryParams{Name: "Food", Kind: CategoryKindExpense, Limit: decPtr("0")},
			wantErr: ErrInvalidLimit,
		},
		{
			name:    "negative limit",
			params:  CategoryParams{Name: "Food", Kind: CategoryKindExpense, Limit: decPtr("-10")},
			wantErr: ErrInvalidLimit,
		},
		{
			name:    "unknown kind",
			params:  CategoryParams{Name: "Food", Kind: "transfer"},
			wantErr: ErrUnknownCategoryKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCategory(tt.params)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, c.ID())
			assert.Equal(t, tt.params.Kind, c.Kind())
		})
	}
}

func TestCategory_ErrorClasses(t *testing.T) {
	_, err := NewCategory(CategoryParams{Name: "x", Kind: CategoryKindExpense})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrTypeMismatch))

	_, err = NewCategory(CategoryParams{Name: "Food", Kind: "other"})
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestCategory_Mutators(t *testing.T) {
	c, err := NewCategory(CategoryParams{Name: " Food ", Kind: CategoryKindExpense, Description: "  groceries "})
	require.NoError(t, err)
	assert.Equal(t, "Food", c.Name())
	assert.Equal(t, "groceries", c.Description())

	_, ok := c.Limit()
	assert.False(t, ok)

	require.NoError(t, c.SetLimit(decPtr("250.50")))
	limit, ok := c.Limit()
	assert.True(t, ok)
	assert.True(t, limit.Equal(dec("250.5")))

	require.ErrorIs(t, c.SetLimit(decPtr("0")), ErrInvalidLimit)
	limit, _ = c.Limit()
	assert.True(t, limit.Equal(dec("250.5")), "failed update must keep the old limit")

	require.NoError(t, c.SetLimit(nil))
	_, ok = c.Limit()
	assert.False(t, ok)

	require.ErrorIs(t, c.Rename("x"), ErrInvalidName)
	assert.Equal(t, "Food", c.Name())
	require.NoError(t, c.Rename("Groceries"))
	assert.Equal(t, "Groceries", c.Name())
}

func TestCategory_String(t *testing.T) {
	c, err := NewCategory(CategoryParams{Name: "Food", Kind: CategoryKindExpense, Limit: decPtr("500")})
	require.NoError(t, err)
	assert.Equal(t, "Food [expense] (limit: 500.00)", c.String())

	s, err := NewCategory(CategoryParams{Name: "Salary", Kind: CategoryKindIncome})
	require.NoError(t, err)
	assert.Equal(t, "Salary [income]", s.String())
}

func TestParseCategoryKind(t *testing.T) {
	kind, err := ParseCategoryKind(" Expense ")
	require.NoError(t, err)
	assert.Equal(t, CategoryKindExpense, kind)

	_, err = ParseCategoryKind("savings")
	assert.ErrorIs(t, err, ErrUnknownCategoryKind)
}

func TestSameCategory(t *testing.T) {
	a, err := NewCategory(CategoryParams{Name: "Food", Kind: CategoryKindExpense})
	require.NoError(t, err)
	b, err := NewCategory(CategoryParams{Name: "food", Kind: CategoryKindExpense})
	require.NoError(t, err)
	c, err := NewCategory(CategoryParams{Name: "Food", Kind: CategoryKindIncome})
	require.NoError(t, err)

	assert.True(t, SameCategory(a, b))
	assert.False(t, SameCategory(a, c))
	assert.False(t, SameCategoryID(a, b))
	assert.True(t, SameCategoryID(a, a))
	assert.Equal(t, 0, CompareCategories(a, b))
}
