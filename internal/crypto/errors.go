package crypto

import "errors"

var (
	// ErrEmptyPIN is returned when key derivation is asked to use an empty PIN.
	ErrEmptyPIN = errors.New("pin must not be empty")

	// ErrInvalidSalt is returned when a supplied salt does not have [SaltSize] bytes.
	ErrInvalidSalt = errors.New("invalid salt length")

	// ErrInvalidKey is returned when a key is not [KeySize] bytes long.
	ErrInvalidKey = errors.New("invalid key length")

	// ErrAuthentication is returned when AEAD verification fails: the
	// ciphertext or nonce was tampered with, or the key is wrong. Callers
	// surface it as "wrong PIN".
	ErrAuthentication = errors.New("authentication failed: wrong key or tampered data")

	// ErrCorruptedRecord is returned when a record authenticates but its
	// plaintext is not valid JSON for the requested type.
	ErrCorruptedRecord = errors.New("corrupted record")

	// ErrRandomSource is returned when the CSPRNG cannot produce bytes.
	ErrRandomSource = errors.New("random source unavailable")
)
