package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"salescockpit/internal/config"
	"salescockpit/internal/database"
	"salescockpit/internal/status"
)

// StatusModel lists every project in the tenant with its derived workflow
// status, from the point of view of the configured actor.
type StatusModel struct {
	cfg     config.Config
	loading bool
	entries []statusEntry
	cursor  int
	width   int
	height  int
}

type statusEntry struct {
	ProjectID string
	Status    status.DerivedStatus
}

type statusLoadedMsg struct {
	entries []statusEntry
	err     error
}

func NewStatusModel(cfg config.Config) *StatusModel {
	return &StatusModel{cfg: cfg}
}

func (m *StatusModel) Init() tea.Cmd {
	return nil
}

func (m *StatusModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Load fetches projects and derives their statuses in the background.
func (m *StatusModel) Load() tea.Cmd {
	m.loading = true
	cfg := m.cfg

	return func() tea.Msg {
		db, err := database.NewMongoDB(cfg.DBURI, cfg.DBName)
		if err != nil {
			return statusLoadedMsg{err: fmt.Errorf("failed to connect to MongoDB: %w", err)}
		}
		defer db.Close()

		ctx := context.Background()
		projects, err := db.FetchProjects(ctx, cfg.Tenant)
		if err != nil {
			return statusLoadedMsg{err: fmt.Errorf("failed to fetch projects: %w", err)}
		}
		records, err := db.FetchOptimizationRecords(ctx, cfg.Tenant)
		if err != nil {
			return statusLoadedMsg{err: fmt.Errorf("failed to fetch optimization records: %w", err)}
		}
		viewed, err := db.ViewedProjects(ctx, cfg.Actor)
		if err != nil {
			return statusLoadedMsg{err: fmt.Errorf("failed to fetch view history: %w", err)}
		}

		entries := make([]statusEntry, 0, len(projects))
		for _, p := range projects {
			p.Viewed = viewed[p.ProjectID]
			entries = append(entries, statusEntry{
				ProjectID: p.ProjectID,
				Status:    status.Derive(p, records[p.ProjectID]),
			})
		}
		return statusLoadedMsg{entries: entries}
	}
}

func (m *StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, ShowError(msg.err)
		}
		m.entries = msg.entries
		m.cursor = 0
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "r":
			return m, m.Load()
		}
	}
	return m, nil
}

func (m *StatusModel) View() string {
	adaptiveTitleStyle, adaptiveFormStyle, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	title := adaptiveTitleStyle.Render("📋 Project status overview")

	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, title, progressStyle.Render("Loading projects..."))
	}

	if len(m.entries) == 0 {
		content := warningStyle.Render("No projects in this tenant yet")
		help := adaptiveHelpStyle.Render("r: Reload • Esc: Back to menu")
		return lipgloss.JoinVertical(lipgloss.Left, title, content, help)
	}

	var rows string
	for i, e := range m.entries {
		cursor := " "
		style := menuItemStyle
		if i == m.cursor {
			cursor = ">"
			style = selectedMenuItemStyle
		}
		rows += fmt.Sprintf("%s %s %s\n", cursor, style.Render(e.ProjectID), statusBadge(e.Status))
	}

	form := adaptiveFormStyle.Render(rows)
	help := adaptiveHelpStyle.Render("↑/↓: Navigate • r: Reload • Esc: Back to menu")

	return lipgloss.JoinVertical(lipgloss.Left, title, form, help)
}

func statusBadge(s status.DerivedStatus) string {
	switch s {
	case status.Abgeschlossen:
		return successStyle.Render(string(s))
	case status.Neu:
		return warningStyle.Render(string(s))
	default:
		return string(s)
	}
}
