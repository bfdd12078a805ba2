// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PINModel is the Bubble Tea model of a masked PIN prompt. Only digits are
// accepted. With confirmation enabled the PIN has to be typed twice.
type PINModel struct {
	title    string
	confirm  bool
	validate func(string) error

	input  textinput.Model
	first  string
	errMsg string

	pin  string
	quit bool
}

// NewPINModel creates a prompt. validate runs on every submitted value and
// may be nil.
func NewPINModel(title string, maxLen int, confirm bool, validate func(string) error) *PINModel {
	in := textinput.New()
	in.Placeholder = "PIN"
	in.CharLimit = maxLen
	in.Width = maxLen + 2
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '*'
	in.Focus()

	return &PINModel{
		title:    title,
		confirm:  confirm,
		validate: validate,
		input:    in,
	}
}

// Init implements [tea.Model].
func (m *PINModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model].
func (m *PINModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, keys.quit):
		m.quit = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.enter):
		return m.submit()
	}

	if keyMsg.Type == tea.KeyRunes && !digitsOnly(keyMsg.Runes) {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *PINModel) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	m.input.Reset()

	if m.validate != nil {
		if err := m.validate(value); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
	}

	if m.confirm && m.first == "" {
		m.first = value
		m.errMsg = ""
		return m, nil
	}
	if m.confirm && value != m.first {
		m.first = ""
		m.errMsg = "PINs do not match, start again"
		return m, nil
	}

	m.pin = value
	return m, tea.Quit
}

// View implements [tea.Model].
func (m *PINModel) View() string {
	if m.pin != "" || m.quit {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	if m.confirm && m.first != "" {
		b.WriteString("Repeat PIN: ")
	} else {
		b.WriteString("PIN: ")
	}
	b.WriteString(m.input.View())
	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter submit • esc cancel"))

	return appStyle.Render(b.String())
}

// PIN returns the accepted PIN, or "" if the prompt was cancelled.
func (m *PINModel) PIN() string {
	return m.pin
}

func digitsOnly(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
