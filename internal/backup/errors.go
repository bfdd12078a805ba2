package backup

import (
	"errors"

	"github.com/MKhiriev/go-finance-keeper/internal/crypto"
)

var (
	// ErrIntegrity is returned when a backup decrypts but its checksum does
	// not match the plaintext.
	ErrIntegrity = errors.New("backup integrity check failed")
	// ErrMalformedBackup is returned for a backup file or payload with a
	// missing, mistyped or unknown field.
	ErrMalformedBackup = errors.New("malformed backup")
	// ErrUnsupportedVersion is returned for a backup version other than
	// [models.BackupVersion].
	ErrUnsupportedVersion = errors.New("unsupported backup version")
)

// IsWrongPINOrCorrupted reports whether err means the backup could not be
// opened with the given PIN or was altered. The two cases cannot be told
// apart reliably, so they share one user-facing message.
func IsWrongPINOrCorrupted(err error) bool {
	return errors.Is(err, crypto.ErrAuthentication) || errors.Is(err, ErrIntegrity)
}
