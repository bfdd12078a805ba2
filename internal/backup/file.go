package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-finance-keeper/models"
)

// FileName returns the conventional backup file name for day t.
func FileName(t time.Time) string {
	return "financial-backup-" + t.UTC().Format(time.DateOnly) + models.BackupFileExtension
}

// WriteFile encodes blob into dir, named after the blob's day, and returns
// the path written. An existing file of the same name is overwritten.
func WriteFile(dir string, blob models.BackupBlob, now time.Time) (string, error) {
	data, err := Encode(blob)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	path := filepath.Join(dir, FileName(now))
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

// ReadFile loads and decodes the backup at path.
func ReadFile(path string) (models.BackupBlob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.BackupBlob{}, fmt.Errorf("read backup: %w", err)
	}
	return Decode(data)
}
