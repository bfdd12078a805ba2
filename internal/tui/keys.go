package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	enter key.Binding
	quit  key.Binding
	yes   key.Binding
	no    key.Binding
}

var keys = keyMap{
	enter: key.NewBinding(key.WithKeys("enter")),
	quit:  key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	yes:   key.NewBinding(key.WithKeys("y", "Y")),
	no:    key.NewBinding(key.WithKeys("n", "N")),
}
