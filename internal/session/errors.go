package session

import "errors"

var (
	// ErrWrongPIN is returned by [Gate.Login] when the PIN does not match.
	ErrWrongPIN = errors.New("wrong PIN")
	// ErrPINNotSet is returned by [Gate.Login] before [Gate.Setup].
	ErrPINNotSet = errors.New("PIN is not set up")
	// ErrPINAlreadySet is returned by [Gate.Setup] when a PIN exists.
	ErrPINAlreadySet = errors.New("PIN is already set up")
	// ErrInvalidPIN is returned for a PIN that is not 4 to 6 digits.
	ErrInvalidPIN = errors.New("PIN must be 4 to 6 digits")
	// ErrLocked is returned by [Gate.Require] when the session is locked.
	ErrLocked = errors.New("session is locked")
	// ErrInvalidPreference is returned for an unknown theme or a negative
	// auto-lock timeout.
	ErrInvalidPreference = errors.New("invalid preference")
)
