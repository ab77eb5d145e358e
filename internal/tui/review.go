// Package tui implements budgie's interactive terminal views.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/budgie/internal/model"
	"github.com/Veraticus/budgie/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// AlertMarker persists the read flag of an alert.
type AlertMarker interface {
	MarkAlertRead(ctx context.Context, id string) error
}

const defaultTableHeight = 12

var severityLabels = map[int]string{
	model.SeverityInfo:      "info",
	model.SeverityAttention: "attention",
	model.SeverityCritical:  "critical",
}

// ReviewModel is the bubbletea model of the alert review screen.
type ReviewModel struct {
	ctx      context.Context
	marker   AlertMarker
	err      error
	theme    themes.Theme
	keys     KeyMap
	help     help.Model
	status   string
	alerts   []*model.Alert
	table    table.Model
	marked   int
	quitting bool
}

// NewReviewModel builds the review screen over alerts, in the given order.
func NewReviewModel(ctx context.Context, marker AlertMarker, alerts []*model.Alert) ReviewModel {
	theme := themes.Default

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "", Width: 2},
			{Title: "Severity", Width: 10},
			{Title: "Kind", Width: 17},
			{Title: "Message", Width: 64},
			{Title: "Created", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(defaultTableHeight),
	)
	styles := table.DefaultStyles()
	styles.Header = theme.Header
	styles.Selected = theme.Selected
	t.SetStyles(styles)

	m := ReviewModel{
		ctx:    ctx,
		marker: marker,
		theme:  theme,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		alerts: alerts,
		table:  t,
	}
	m.refreshRows()
	return m
}

// Marked returns how many alerts were marked read during the session.
func (m ReviewModel) Marked() int { return m.marked }

// Err returns the last error raised while marking alerts.
func (m ReviewModel) Err() error { return m.err }

// Init implements tea.Model.
func (m ReviewModel) Init() tea.Cmd { return nil }

// Update implements tea.Model. The session behind AlertMarker is not safe for
// concurrent use, so marking runs inside Update rather than in a tea.Cmd.
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.table.SetHeight(max(msg.Height-8, 3))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.MarkRead):
			if i := m.table.Cursor(); i >= 0 && i < len(m.alerts) {
				m.markRead(m.alerts[i])
			}
			return m, nil
		case key.Matches(msg, m.keys.MarkAll):
			for _, a := range m.alerts {
				if m.markRead(a) != nil {
					break
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *ReviewModel) markRead(a *model.Alert) error {
	if a.Read() {
		return nil
	}
	if err := m.marker.MarkAlertRead(m.ctx, a.ID()); err != nil {
		m.err = err
		m.status = m.theme.StatusError.Render("Failed to mark alert: " + err.Error())
		return err
	}
	m.marked++
	m.status = m.theme.StatusSuccess.Render(fmt.Sprintf("%d alert(s) marked read", m.marked))
	m.refreshRows()
	return nil
}

func (m *ReviewModel) refreshRows() {
	rows := make([]table.Row, 0, len(m.alerts))
	for _, a := range m.alerts {
		flag := "●"
		if a.Read() {
			flag = "✓"
		}
		rows = append(rows, table.Row{
			flag,
			severityLabels[a.Severity()],
			string(a.Kind()),
			a.Message(),
			a.CreatedAt().Local().Format("2006-01-02 15:04"),
		})
	}
	m.table.SetRows(rows)
}

// View implements tea.Model.
func (m ReviewModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	unread := 0
	for _, a := range m.alerts {
		if !a.Read() {
			unread++
		}
	}
	b.WriteString(m.theme.Title.Render("Alerts"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf("%d alerts, %d unread", len(m.alerts), unread)))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
