package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"salescockpit/internal/config"
)

type Screen int

const (
	MenuScreen Screen = iota
	ImportScreen
	StatusScreen
)

type Model struct {
	currentScreen Screen
	menuModel     *MenuModel
	importModel   *ImportModel
	statusModel   *StatusModel
	err           error
	quitting      bool
	width         int
	height        int
}

func NewModel(cfg config.Config) Model {
	return Model{
		currentScreen: MenuScreen,
		menuModel:     NewMenuModel(),
		importModel:   NewImportModel(cfg),
		statusModel:   NewStatusModel(cfg),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menuModel.SetSize(msg.Width, msg.Height)
		m.importModel.SetSize(msg.Width, msg.Height)
		m.statusModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			if m.currentScreen != MenuScreen {
				m.currentScreen = MenuScreen
				m.err = nil
				return m, nil
			}
		}

	case ScreenChangeMsg:
		m.currentScreen = msg.Screen
		var cmd tea.Cmd
		if msg.Screen == StatusScreen {
			cmd = m.statusModel.Load()
		}
		return m, cmd

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	switch m.currentScreen {
	case MenuScreen:
		newMenuModel, cmd := m.menuModel.Update(msg)
		m.menuModel = newMenuModel.(*MenuModel)
		return m, cmd
	case ImportScreen:
		newImportModel, cmd := m.importModel.Update(msg)
		m.importModel = newImportModel.(*ImportModel)
		return m, cmd
	case StatusScreen:
		newStatusModel, cmd := m.statusModel.Update(msg)
		m.statusModel = newStatusModel.(*StatusModel)
		return m, cmd
	}

	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	var content string
	switch m.currentScreen {
	case MenuScreen:
		content = m.menuModel.View()
	case ImportScreen:
		content = m.importModel.View()
	case StatusScreen:
		content = m.statusModel.View()
	}

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Margin(1, 0)
		content += errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	return content
}

type ScreenChangeMsg struct {
	Screen Screen
}

type ErrorMsg struct {
	Err error
}

func ChangeScreen(screen Screen) tea.Cmd {
	return func() tea.Msg {
		return ScreenChangeMsg{Screen: screen}
	}
}

func ShowError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}
