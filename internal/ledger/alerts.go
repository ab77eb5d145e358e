package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/Veraticus/budgie/internal/common"
	"github.com/Veraticus/budgie/internal/model"
)

// Alerts returns alerts ordered by severity then newest first.
func (s *Session) Alerts(unreadOnly bool) []*model.Alert {
	out := make([]*model.Alert, 0, len(s.alerts))
	for a := range maps.Values(s.alerts) {
		if unreadOnly && a.Read() {
			continue
		}
		out = append(out, a)
	}
	model.SortAlerts(out)
	return out
}

// Alert looks an alert up by identifier.
func (s *Session) Alert(id string) (*model.Alert, bool) {
	a, ok := s.alerts[id]
	return a, ok
}

// MarkAlertRead marks one alert as read.
func (s *Session) MarkAlertRead(ctx context.Context, id string) error {
	a, ok := s.alerts[id]
	if !ok {
		return fmt.Errorf("%w: alert %s", common.ErrNotFound, id)
	}
	if a.Read() {
		return nil
	}
	a.MarkRead()
	if err := s.save(ctx); err != nil {
		a.MarkUnread()
		return err
	}
	return nil
}

// MarkAllAlertsRead marks every unread alert as read and returns how many
// changed.
func (s *Session) MarkAllAlertsRead(ctx context.Context) (int, error) {
	unread := slices.DeleteFunc(slices.Collect(maps.Values(s.alerts)), (*model.Alert).Read)
	if len(unread) == 0 {
		return 0, nil
	}
	for _, a := range unread {
		a.MarkRead()
	}
	if err := s.save(ctx); err != nil {
		for _, a := range unread {
			a.MarkUnread()
		}
		return 0, err
	}

	slog.Info("alerts marked read", "count", len(unread))
	return len(unread), nil
}
