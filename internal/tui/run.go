package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/budgie/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// RunAlertReview opens the interactive alert review and returns how many
// alerts were marked read.
func RunAlertReview(ctx context.Context, marker AlertMarker, alerts []*model.Alert, opts ...tea.ProgramOption) (int, error) {
	if len(alerts) == 0 {
		return 0, nil
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(NewReviewModel(ctx, marker, alerts), opts...).Run()
	if err != nil {
		return 0, fmt.Errorf("alert review failed: %w", err)
	}

	m, ok := final.(ReviewModel)
	if !ok {
		return 0, fmt.Errorf("alert review returned unexpected model %T", final)
	}
	return m.Marked(), m.Err()
}
