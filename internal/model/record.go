package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Amounts are persisted as bare JSON numbers holding the decimal's exact text,
// so no digit is lost to float64 rounding.

// CategoryRecord is the persisted shape of a Category.
type CategoryRecord struct {
	Limit       *json.Number `json:"limit"`
	Description *string      `json:"description"`
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Kind        CategoryKind `json:"kind"`
}

// EntryRecord is the persisted shape of an Income or Expense. AlertTags is
// set, possibly empty, for expenses and absent for incomes.
type EntryRecord struct {
	ID            string        `json:"id"`
	Kind          EntryKind     `json:"kind"`
	CategoryID    string        `json:"categoryId"`
	Date          string        `json:"date"`
	Description   string        `json:"description"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	AlertTags     *[]AlertKind  `json:"alertTags,omitempty"`
	Amount        json.Number   `json:"amount"`
}

// AlertRecord is the persisted shape of an Alert. MonthYear is [month, year].
type AlertRecord struct {
	CreatedAt  time.Time `json:"createdAt"`
	EntryID    *string   `json:"entryId"`
	CategoryID *string   `json:"categoryId"`
	MonthYear  []int     `json:"monthYear"`
	ID         string    `json:"id"`
	Kind       AlertKind `json:"kind"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
}

// BudgetRecord is the persisted shape of a MonthlyBudget; members are
// referenced by identifier.
type BudgetRecord struct {
	ID            string      `json:"id"`
	EntryIDs      []string    `json:"entryIds"`
	AlertIDs      []string    `json:"alertIds"`
	Month         int         `json:"month"`
	Year          int         `json:"year"`
	PlannedIncome json.Number `json:"plannedIncome"`
}

// Record converts the category to its persisted shape.
func (c *Category) Record() CategoryRecord {
	rec := CategoryRecord{
		ID:   c.id,
		Name: c.name,
		Kind: c.kind,
	}
	if limit, ok := c.Limit(); ok {
		n := json.Number(limit.String())
		rec.Limit = &n
	}
	if c.description != "" {
		d := c.description
		rec.Description = &d
	}
	return rec
}

// CategoryFromRecord rebuilds a category, re-running validation.
func CategoryFromRecord(rec CategoryRecord) (*Category, error) {
	p := CategoryParams{
		ID:   rec.ID,
		Name: rec.Name,
		Kind: rec.Kind,
	}
	if rec.Limit != nil {
		limit, err := parseNumber(*rec.Limit)
		if err != nil {
			return nil, fmt.Errorf("category %s: limit: %w", rec.ID, err)
		}
		p.Limit = &limit
	}
	if rec.Description != nil {
		p.Description = *rec.Description
	}
	return NewCategory(p)
}

// EntryToRecord converts an entry to its persisted shape.
func EntryToRecord(e Entry) EntryRecord {
	rec := EntryRecord{
		ID:            e.ID(),
		Kind:          e.Kind(),
		Amount:        json.Number(e.Amount().String()),
		CategoryID:    e.Category().ID(),
		Date:          e.Date().Format(time.DateOnly),
		Description:   e.Description(),
		PaymentMethod: e.PaymentMethod(),
	}
	if exp, ok := e.(*Expense); ok {
		tags := exp.Tags()
		rec.AlertTags = &tags
	}
	return rec
}

// EntryFromRecord rebuilds an entry bound to category. Persisted expense tags
// are restored on top of the ones derived at construction.
func EntryFromRecord(rec EntryRecord, category *Category) (Entry, error) {
	date, err := time.Parse(time.DateOnly, rec.Date)
	if err != nil {
		return nil, fmt.Errorf("entry %s: invalid date %q: %w", rec.ID, rec.Date, err)
	}
	amount, err := parseNumber(rec.Amount)
	if err != nil {
		return nil, fmt.Errorf("entry %s: amount: %w", rec.ID, err)
	}
	p := EntryParams{
		ID:            rec.ID,
		Amount:        amount,
		Category:      category,
		Date:          date,
		Description:   rec.Description,
		PaymentMethod: rec.PaymentMethod,
	}

	switch rec.Kind {
	case EntryKindIncome:
		return NewIncome(p)
	case EntryKindExpense:
		exp, err := NewExpense(p)
		if err != nil {
			return nil, err
		}
		var tags []AlertKind
		if rec.AlertTags != nil {
			tags = *rec.AlertTags
		}
		for _, tag := range tags {
			kind, err := ParseAlertKind(string(tag))
			if err != nil {
				return nil, fmt.Errorf("entry %s: %w", rec.ID, err)
			}
			exp.tags[kind] = struct{}{}
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("entry %s: %w: %q", rec.ID, ErrUnknownEntryKind, rec.Kind)
	}
}

// Record converts the alert to its persisted shape.
func (a *Alert) Record() AlertRecord {
	rec := AlertRecord{
		ID:        a.id,
		Kind:      a.kind,
		Message:   a.message,
		CreatedAt: a.createdAt,
		Read:      a.read,
	}
	if a.entryID != "" {
		id := a.entryID
		rec.EntryID = &id
	}
	if a.categoryID != "" {
		id := a.categoryID
		rec.CategoryID = &id
	}
	if a.monthYear != nil {
		rec.MonthYear = []int{a.monthYear.Month, a.monthYear.Year}
	}
	return rec
}

// AlertFromRecord rebuilds an alert.
func AlertFromRecord(rec AlertRecord) (*Alert, error) {
	p := AlertParams{
		ID:        rec.ID,
		Kind:      rec.Kind,
		Message:   rec.Message,
		CreatedAt: rec.CreatedAt,
		Read:      rec.Read,
	}
	if rec.EntryID != nil {
		p.EntryID = *rec.EntryID
	}
	if rec.CategoryID != nil {
		p.CategoryID = *rec.CategoryID
	}
	switch len(rec.MonthYear) {
	case 0:
	case 2:
		p.MonthYear = &MonthYear{Month: rec.MonthYear[0], Year: rec.MonthYear[1]}
	default:
		return nil, fmt.Errorf("alert %s: monthYear must be [month, year], got %v", rec.ID, rec.MonthYear)
	}
	return NewAlert(p)
}

// Record converts the budget to its persisted shape.
func (b *MonthlyBudget) Record() BudgetRecord {
	rec := BudgetRecord{
		ID:            b.id,
		Month:         b.period.Month,
		Year:          b.period.Year,
		PlannedIncome: json.Number(b.plannedIncome.String()),
		EntryIDs:      make([]string, 0, len(b.entries)),
		AlertIDs:      make([]string, 0, len(b.alerts)),
	}
	for _, e := range b.entries {
		rec.EntryIDs = append(rec.EntryIDs, e.ID())
	}
	for _, a := range b.alerts {
		rec.AlertIDs = append(rec.AlertIDs, a.ID())
	}
	return rec
}

// BudgetFromRecord rebuilds an empty budget shell; members are attached
// afterwards with Link and LinkAlert.
func BudgetFromRecord(rec BudgetRecord, opts ...BudgetOption) (*MonthlyBudget, error) {
	b, err := NewMonthlyBudget(rec.Month, rec.Year, append([]BudgetOption{WithID(rec.ID)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("budget %s: %w", rec.ID, err)
	}
	planned, err := parseNumber(rec.PlannedIncome)
	if err != nil {
		return nil, fmt.Errorf("budget %s: planned income: %w", rec.ID, err)
	}
	if err := b.SetPlannedIncome(planned); err != nil {
		return nil, fmt.Errorf("budget %s: %w", rec.ID, err)
	}
	return b, nil
}

// parseNumber reads a persisted amount. A missing number is zero.
func parseNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}
