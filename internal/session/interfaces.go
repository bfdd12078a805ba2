package session

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/session_mock.go -package=mock

// Vault is the part of the encrypted store the gate controls.
type Vault interface {
	Open(ctx context.Context, pin string) error
	Lock()
	IsOpen() bool
	Destroy(ctx context.Context) error
}
