package backup

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-finance-keeper/internal/crypto"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// Encode serializes blob as compact JSON.
func Encode(blob models.BackupBlob) ([]byte, error) {
	data, err := json.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return data, nil
}

// wireBlob uses pointers so that absent fields can be told apart from
// empty ones.
type wireBlob struct {
	Version   *string           `json:"version"`
	Timestamp *string           `json:"timestamp"`
	Salt      *models.ByteArray `json:"salt"`
	IV        *models.ByteArray `json:"iv"`
	Data      *models.ByteArray `json:"data"`
	Checksum  *string           `json:"checksum"`
}

// Decode parses and validates a backup file. Every field is required and
// unknown fields are rejected.
func Decode(data []byte) (models.BackupBlob, error) {
	var w wireBlob
	if err := decodeStrict(data, &w); err != nil {
		return models.BackupBlob{}, err
	}

	missing := make([]string, 0)
	if w.Version == nil {
		missing = append(missing, "version")
	}
	if w.Timestamp == nil {
		missing = append(missing, "timestamp")
	}
	if w.Salt == nil {
		missing = append(missing, "salt")
	}
	if w.IV == nil {
		missing = append(missing, "iv")
	}
	if w.Data == nil {
		missing = append(missing, "data")
	}
	if w.Checksum == nil {
		missing = append(missing, "checksum")
	}
	if len(missing) > 0 {
		return models.BackupBlob{}, fmt.Errorf("%w: missing %v", ErrMalformedBackup, missing)
	}

	blob := models.BackupBlob{
		Version:   *w.Version,
		Timestamp: *w.Timestamp,
		Salt:      *w.Salt,
		IV:        *w.IV,
		Data:      *w.Data,
		Checksum:  *w.Checksum,
	}
	if err := validateBlob(blob); err != nil {
		return models.BackupBlob{}, err
	}
	return blob, nil
}

func validateBlob(blob models.BackupBlob) error {
	if blob.Version != models.BackupVersion {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, blob.Version)
	}
	if len(blob.Salt) != crypto.SaltSize {
		return fmt.Errorf("%w: salt is %d bytes", ErrMalformedBackup, len(blob.Salt))
	}
	if len(blob.IV) != crypto.NonceSize {
		return fmt.Errorf("%w: iv is %d bytes", ErrMalformedBackup, len(blob.IV))
	}
	if len(blob.Data) == 0 {
		return fmt.Errorf("%w: empty data", ErrMalformedBackup)
	}
	if sum, err := hex.DecodeString(blob.Checksum); err != nil || len(sum) != 32 {
		return fmt.Errorf("%w: checksum is not a hex SHA-256 digest", ErrMalformedBackup)
	}
	return nil
}

type wirePayload struct {
	Transactions          *[]models.Transaction          `json:"transactions"`
	Accounts              *[]models.Account              `json:"accounts"`
	Budgets               *[]models.Budget               `json:"budgets"`
	Goals                 *[]models.Goal                 `json:"goals"`
	RecurringTransactions *[]models.RecurringTransaction `json:"recurringTransactions"`
	ExportDate            *string                        `json:"exportDate"`
}

func decodePayload(plaintext []byte) (models.BackupPayload, error) {
	var w wirePayload
	if err := decodeStrict(plaintext, &w); err != nil {
		return models.BackupPayload{}, err
	}

	if w.Transactions == nil || w.Accounts == nil || w.Budgets == nil ||
		w.Goals == nil || w.RecurringTransactions == nil || w.ExportDate == nil {
		return models.BackupPayload{}, fmt.Errorf("%w: payload is missing a collection", ErrMalformedBackup)
	}

	p := models.BackupPayload{
		Transactions:          *w.Transactions,
		Accounts:              *w.Accounts,
		Budgets:               *w.Budgets,
		Goals:                 *w.Goals,
		RecurringTransactions: *w.RecurringTransactions,
		ExportDate:            *w.ExportDate,
	}

	for collection, entities := range p.Records() {
		for i, e := range entities {
			if e.EntityID() == "" {
				return models.BackupPayload{}, fmt.Errorf("%w: %s[%d] has no id", ErrMalformedBackup, collection, i)
			}
		}
	}
	return p, nil
}

func decodeStrict(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedBackup, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", ErrMalformedBackup)
	}
	return nil
}
