package model

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertKind identifies the condition an alert reports.
type AlertKind string

// Alert kinds.
const (
	AlertHighValue       AlertKind = "high_value"
	AlertLimitExceeded   AlertKind = "limit_exceeded"
	AlertBudgetDeficit   AlertKind = "budget_deficit"
	AlertNegativeBalance AlertKind = "negative_balance"
	AlertGoalMissed      AlertKind = "goal_missed"
)

var alertKinds = []AlertKind{
	AlertHighValue,
	AlertLimitExceeded,
	AlertBudgetDeficit,
	AlertNegativeBalance,
	AlertGoalMissed,
}

// Severity levels.
const (
	SeverityInfo      = 1
	SeverityAttention = 2
	SeverityCritical  = 3
)

var severities = map[AlertKind]int{
	AlertHighValue:       SeverityInfo,
	AlertGoalMissed:      SeverityAttention,
	AlertLimitExceeded:   SeverityAttention,
	AlertNegativeBalance: SeverityCritical,
	AlertBudgetDeficit:   SeverityCritical,
}

// ParseAlertKind converts a persisted or user-supplied value into an AlertKind.
func ParseAlertKind(s string) (AlertKind, error) {
	kind := AlertKind(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(alertKinds, kind) {
		return kind, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlertKind, s)
}

// Severity returns the fixed severity of the kind, 1 for unmapped kinds.
func (k AlertKind) Severity() int {
	if s, ok := severities[k]; ok {
		return s
	}
	return SeverityInfo
}

// AlertParams holds the inputs for constructing an alert directly.
type AlertParams struct {
	CreatedAt  time.Time
	MonthYear  *MonthYear
	ID         string
	Kind       AlertKind
	Message    string
	EntryID    string
	CategoryID string
	Read       bool
}

// Alert records a noteworthy condition. Only the read flag changes after creation.
type Alert struct {
	createdAt  time.Time
	monthYear  *MonthYear
	id         string
	kind       AlertKind
	message    string
	entryID    string
	categoryID string
	read       bool
}

// NewAlert validates params and creates an alert. Empty ID and zero CreatedAt
// are generated.
func NewAlert(p AlertParams) (*Alert, error) {
	if !slices.Contains(alertKinds, p.Kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlertKind, p.Kind)
	}
	message := strings.TrimSpace(p.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	a := &Alert{
		id:         p.ID,
		kind:       p.Kind,
		message:    message,
		createdAt:  p.CreatedAt,
		entryID:    p.EntryID,
		categoryID: p.CategoryID,
		read:       p.Read,
	}
	if a.id == "" {
		a.id = uuid.NewString()
	}
	if a.createdAt.IsZero() {
		a.createdAt = time.Now()
	}
	if p.MonthYear != nil {
		my := *p.MonthYear
		a.monthYear = &my
	}
	return a, nil
}

// mustAlert is used by the factories, whose inputs always satisfy NewAlert.
func mustAlert(p AlertParams) *Alert {
	a, err := NewAlert(p)
	if err != nil {
		panic(fmt.Sprintf("building %s alert: %v", p.Kind, err))
	}
	return a
}

// NewHighValueAlert reports an expense above the high-value threshold.
func NewHighValueAlert(entryID string, amount decimal.Decimal) *Alert {
	return mustAlert(AlertParams{
		Kind:    AlertHighValue,
		Message: fmt.Sprintf("High-value expense recorded: %s", amount.StringFixed(2)),
		EntryID: entryID,
	})
}

// NewLimitExceededAlert reports a category whose month total passed its limit.
func NewLimitExceededAlert(categoryID, categoryName string, limit, total decimal.Decimal) *Alert {
	return mustAlert(AlertParams{
		Kind: AlertLimitExceeded,
		Message: fmt.Sprintf("Category '%s' limit exceeded! Limit: %s, Total: %s",
			categoryName, limit.StringFixed(2), total.StringFixed(2)),
		CategoryID: categoryID,
	})
}

// NewBudgetDeficitAlert reports a month whose expenses exceed its income.
func NewBudgetDeficitAlert(month, year int, balance decimal.Decimal) *Alert {
	my := MonthYear{Month: month, Year: year}
	return mustAlert(AlertParams{
		Kind:      AlertBudgetDeficit,
		Message:   fmt.Sprintf("Budget deficit in %s: %s", my, balance.Abs().StringFixed(2)),
		MonthYear: &my,
	})
}

// NewNegativeBalanceAlert reports a month whose available balance went negative.
func NewNegativeBalanceAlert(month, year int, balance decimal.Decimal) *Alert {
	my := MonthYear{Month: month, Year: year}
	return mustAlert(AlertParams{
		Kind:      AlertNegativeBalance,
		Message:   fmt.Sprintf("Negative balance in %s: %s", my, balance.StringFixed(2)),
		MonthYear: &my,
	})
}

// NewGoalMissedAlert reports a month whose savings rate fell short of the goal.
// Both rates are percentages of income.
func NewGoalMissedAlert(month, year int, savedPercent, goalPercent decimal.Decimal) *Alert {
	my := MonthYear{Month: month, Year: year}
	return mustAlert(AlertParams{
		Kind: AlertGoalMissed,
		Message: fmt.Sprintf("Savings goal missed in %s: saved %s%% of income, goal %s%%",
			my, savedPercent.StringFixed(2), goalPercent.StringFixed(2)),
		MonthYear: &my,
	})
}

// ID returns the stable identifier.
func (a *Alert) ID() string { return a.id }

// Kind returns the alert kind.
func (a *Alert) Kind() AlertKind { return a.kind }

// Message returns the human-readable message.
func (a *Alert) Message() string { return a.message }

// CreatedAt returns the generation time.
func (a *Alert) CreatedAt() time.Time { return a.createdAt }

// EntryID returns the linked entry, empty when none.
func (a *Alert) EntryID() string { return a.entryID }

// CategoryID returns the linked category, empty when none.
func (a *Alert) CategoryID() string { return a.categoryID }

// MonthYear returns the linked month, if any.
func (a *Alert) MonthYear() (MonthYear, bool) {
	if a.monthYear == nil {
		return MonthYear{}, false
	}
	return *a.monthYear, true
}

// Read reports whether the alert has been read.
func (a *Alert) Read() bool { return a.read }

// MarkRead sets the read flag.
func (a *Alert) MarkRead() { a.read = true }

// MarkUnread clears the read flag. Only rollbacks of an unsaved MarkRead use it.
func (a *Alert) MarkUnread() { a.read = false }

// Severity returns the severity level of the alert's kind.
func (a *Alert) Severity() int { return a.kind.Severity() }

// concerns reports whether the alert has kind and is linked to month my.
func (a *Alert) concerns(kind AlertKind, my MonthYear) bool {
	if a.kind != kind {
		return false
	}
	linked, ok := a.MonthYear()
	return ok && linked == my
}

func (a *Alert) String() string {
	status := "●"
	if a.read {
		status = "✓"
	}
	return fmt.Sprintf("[%s] %s: %s", status, a.kind, a.message)
}

// CompareAlerts orders alerts by severity descending, then newest first.
func CompareAlerts(a, b *Alert) int {
	if c := cmp.Compare(b.Severity(), a.Severity()); c != 0 {
		return c
	}
	return b.createdAt.Compare(a.createdAt)
}

// SortAlerts sorts alerts in place by CompareAlerts.
func SortAlerts(alerts []*Alert) {
	slices.SortStableFunc(alerts, CompareAlerts)
}
