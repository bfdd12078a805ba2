package backup

import (
	"context"

	"github.com/MKhiriev/go-finance-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/backup_mock.go -package=mock

// Source provides the plaintext contents of a store for export.
type Source interface {
	Export(ctx context.Context) (models.BackupPayload, error)
}

// Target atomically replaces the contents of a store.
type Target interface {
	Replace(ctx context.Context, payload models.BackupPayload) error
}
