package tui

import "errors"

// ErrUserQuit is returned when a prompt is dismissed with esc or ctrl+c.
var ErrUserQuit = errors.New("user quit")
