package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind distinguishes income from expense entries.
type EntryKind string

const (
	// EntryKindIncome is money coming in.
	EntryKindIncome EntryKind = "income"
	// EntryKindExpense is money going out.
	EntryKindExpense EntryKind = "expense"
)

// ParseEntryKind converts user input into an EntryKind.
func ParseEntryKind(s string) (EntryKind, error) {
	switch EntryKind(strings.ToLower(strings.TrimSpace(s))) {
	case EntryKindIncome:
		return EntryKindIncome, nil
	case EntryKindExpense:
		return EntryKindExpense, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEntryKind, s)
	}
}

// PaymentMethod is how an entry was paid or received.
type PaymentMethod string

// Payment methods.
const (
	PaymentCash            PaymentMethod = "cash"
	PaymentDebitCard       PaymentMethod = "debit_card"
	PaymentCreditCard      PaymentMethod = "credit_card"
	PaymentInstantTransfer PaymentMethod = "instant_transfer"
)

var paymentAliases = map[string]PaymentMethod{
	"cash":             PaymentCash,
	"debit_card":       PaymentDebitCard,
	"debit":            PaymentDebitCard,
	"credit_card":      PaymentCreditCard,
	"credit":           PaymentCreditCard,
	"instant_transfer": PaymentInstantTransfer,
	"pix":              PaymentInstantTransfer,
	"transfer":         PaymentInstantTransfer,
}

// ParsePaymentMethod converts user input into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if pm, ok := paymentAliases[key]; ok {
		return pm, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, s)
}

// Valid reports whether pm is a known payment method.
func (pm PaymentMethod) Valid() bool {
	switch pm {
	case PaymentCash, PaymentDebitCard, PaymentCreditCard, PaymentInstantTransfer:
		return true
	}
	return false
}

// Entry is a dated financial movement. Implemented by *Income and *Expense.
type Entry interface {
	ID() string
	Kind() EntryKind
	Amount() decimal.Decimal
	Category() *Category
	Date() time.Time
	Description() string
	PaymentMethod() PaymentMethod
	MonthYear() MonthYear
	String() string
}

// CategoryRule checks that a category may back an entry variant.
type CategoryRule interface {
	ValidateCategory(c *Category) error
}

// CategoryRuleFunc adapts a function to CategoryRule.
type CategoryRuleFunc func(c *Category) error

// ValidateCategory calls f.
func (f CategoryRuleFunc) ValidateCategory(c *Category) error { return f(c) }

// RequireCategoryKind returns a rule accepting only categories of kind.
func RequireCategoryKind(kind CategoryKind) CategoryRule {
	return CategoryRuleFunc(func(c *Category) error {
		if c.Kind() != kind {
			return fmt.Errorf("%w: %s entries need a %s category, %q is %s",
				ErrCategoryMismatch, kind, kind, c.Name(), c.Kind())
		}
		return nil
	})
}

// EntryParams holds the inputs shared by both entry variants.
type EntryParams struct {
	Date          time.Time
	Amount        decimal.Decimal
	Category      *Category
	ID            string
	Description   string
	PaymentMethod PaymentMethod
}

// entryFields is the value type shared by Income and Expense.
type entryFields struct {
	date          time.Time
	amount        decimal.Decimal
	category      *Category
	id            string
	description   string
	paymentMethod PaymentMethod
}

func newEntryFields(p EntryParams, rule CategoryRule) (entryFields, error) {
	if !p.Amount.IsPositive() {
		return entryFields{}, fmt.Errorf("%w: got %s", ErrInvalidAmount, p.Amount.String())
	}
	description := strings.TrimSpace(p.Description)
	if description == "" {
		return entryFields{}, ErrEmptyDescription
	}
	if p.Category == nil {
		return entryFields{}, ErrMissingCategory
	}
	if err := rule.ValidateCategory(p.Category); err != nil {
		return entryFields{}, err
	}
	if p.Date.IsZero() {
		return entryFields{}, ErrMissingDate
	}
	if !p.PaymentMethod.Valid() {
		return entryFields{}, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, p.PaymentMethod)
	}

	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}

	return entryFields{
		id:            id,
		amount:        p.Amount,
		category:      p.Category,
		date:          truncateDay(p.Date),
		description:   description,
		paymentMethod: p.PaymentMethod,
	}, nil
}

func (f *entryFields) ID() string                   { return f.id }
func (f *entryFields) Amount() decimal.Decimal      { return f.amount }
func (f *entryFields) Category() *Category          { return f.category }
func (f *entryFields) Date() time.Time              { return f.date }
func (f *entryFields) Description() string          { return f.description }
func (f *entryFields) PaymentMethod() PaymentMethod { return f.paymentMethod }
func (f *entryFields) MonthYear() MonthYear         { return MonthYearOf(f.date) }

func (f *entryFields) format(kind EntryKind) string {
	return fmt.Sprintf("%s: %s - %s (%s) [%s]",
		kind, f.amount.StringFixed(2), f.description, f.date.Format("02/01/2006"), f.category.Name())
}

// IncomeRule accepts only income categories.
var IncomeRule = RequireCategoryKind(CategoryKindIncome)

// ExpenseRule accepts only expense categories.
var ExpenseRule = RequireCategoryKind(CategoryKindExpense)

// Income is money received.
type Income struct {
	entryFields
}

// NewIncome validates params against IncomeRule and creates an income entry.
func NewIncome(p EntryParams) (*Income, error) {
	fields, err := newEntryFields(p, IncomeRule)
	if err != nil {
		return nil, fmt.Errorf("invalid income: %w", err)
	}
	return &Income{entryFields: fields}, nil
}

// Kind returns EntryKindIncome.
func (i *Income) Kind() EntryKind { return EntryKindIncome }

func (i *Income) String() string { return i.format(EntryKindIncome) }

// HighValueThreshold is the amount above which an expense is tagged high-value.
var HighValueThreshold = decimal.NewFromInt(500)

// Expense is money spent. It tracks the alert conditions it has triggered.
type Expense struct {
	tags map[AlertKind]struct{}
	entryFields
}

// NewExpense validates params against ExpenseRule and creates an expense entry.
// Expenses above HighValueThreshold are tagged AlertHighValue.
func NewExpense(p EntryParams) (*Expense, error) {
	fields, err := newEntryFields(p, ExpenseRule)
	if err != nil {
		return nil, fmt.Errorf("invalid expense: %w", err)
	}
	e := &Expense{entryFields: fields, tags: make(map[AlertKind]struct{})}
	if e.amount.GreaterThan(HighValueThreshold) {
		e.tags[AlertHighValue] = struct{}{}
	}
	return e, nil
}

// Kind returns EntryKindExpense.
func (e *Expense) Kind() EntryKind { return EntryKindExpense }

func (e *Expense) String() string { return e.format(EntryKindExpense) }

// HasTag reports whether the expense carries the alert tag.
func (e *Expense) HasTag(kind AlertKind) bool {
	_, ok := e.tags[kind]
	return ok
}

// Tags returns the alert tags in a stable order.
func (e *Expense) Tags() []AlertKind {
	tags := make([]AlertKind, 0, len(e.tags))
	for _, kind := range alertKinds {
		if e.HasTag(kind) {
			tags = append(tags, kind)
		}
	}
	return tags
}

// CheckCategoryLimit reports whether spentThisMonth plus this expense exceeds
// the category limit, tagging the expense AlertLimitExceeded when it does.
// The caller supplies the month total; siblings are never inspected.
func (e *Expense) CheckCategoryLimit(spentThisMonth decimal.Decimal) bool {
	limit, ok := e.category.Limit()
	if !ok {
		return false
	}
	if spentThisMonth.Add(e.amount).GreaterThan(limit) {
		e.tags[AlertLimitExceeded] = struct{}{}
		return true
	}
	return false
}

// CompareEntries orders entries by date, then by amount.
func CompareEntries(a, b Entry) int {
	if c := a.Date().Compare(b.Date()); c != 0 {
		return c
	}
	return a.Amount().Cmp(b.Amount())
}
