package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel asks a yes/no question. Anything but y counts as no.
type ConfirmModel struct {
	message  string
	answered bool
	yes      bool
}

func NewConfirmModel(message string) *ConfirmModel {
	return &ConfirmModel{message: message}
}

func (m *ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.yes):
		m.yes = true
	case key.Matches(keyMsg, keys.no), key.Matches(keyMsg, keys.quit), key.Matches(keyMsg, keys.enter):
		m.yes = false
	default:
		return m, nil
	}

	m.answered = true
	return m, tea.Quit
}

func (m *ConfirmModel) View() string {
	if m.answered {
		return ""
	}
	return overlayBoxStyle.Render(m.message + "\n\n" + helpStyle.Render("y yes    n no"))
}

// Confirmed reports whether the user answered yes.
func (m *ConfirmModel) Confirmed() bool {
	return m.yes
}
