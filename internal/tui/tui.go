// Package tui holds the small interactive prompts of the command line:
// a masked PIN entry and a yes/no confirmation.
package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-finance-keeper/internal/logger"
)

// MaxPINLength caps what the PIN prompt accepts.
const MaxPINLength = 6

type TUI struct {
	input  io.Reader
	output io.Writer
	logger *logger.Logger
}

type Option func(*TUI)

// WithIO runs the prompts on in/out instead of the terminal.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(t *TUI) {
		t.input, t.output = in, out
	}
}

func New(logger *logger.Logger, opts ...Option) *TUI {
	t := &TUI{logger: logger}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// PromptPIN asks for an existing PIN.
func (t *TUI) PromptPIN(title string, validate func(string) error) (string, error) {
	return t.promptPIN(NewPINModel(title, MaxPINLength, false, validate))
}

// PromptNewPIN asks for a new PIN twice.
func (t *TUI) PromptNewPIN(title string, validate func(string) error) (string, error) {
	return t.promptPIN(NewPINModel(title, MaxPINLength, true, validate))
}

// Confirm asks a yes/no question.
func (t *TUI) Confirm(message string) (bool, error) {
	m := NewConfirmModel(message)
	if err := t.run(m); err != nil {
		return false, err
	}
	return m.Confirmed(), nil
}

func (t *TUI) promptPIN(m *PINModel) (string, error) {
	if err := t.run(m); err != nil {
		return "", err
	}
	if m.PIN() == "" {
		return "", ErrUserQuit
	}
	return m.PIN(), nil
}

func (t *TUI) run(m tea.Model) error {
	var opts []tea.ProgramOption
	if t.input != nil {
		opts = append(opts, tea.WithInput(t.input))
	}
	if t.output != nil {
		opts = append(opts, tea.WithOutput(t.output))
	}

	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		t.logger.Err(err).Str("func", "TUI.run").Msg("prompt failed")
		return err
	}
	return nil
}
