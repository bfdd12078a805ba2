// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package backup exports and restores the whole store as a portable
// encrypted file. A backup carries its own salt, so it is readable on any
// device by whoever knows the PIN it was exported with.
package backup

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-finance-keeper/internal/crypto"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// Codec builds and opens [models.BackupBlob] values.
type Codec struct {
	provider crypto.Provider
	deriver  crypto.KeyDeriver
	cipher   crypto.RecordCipher
	logger   *logger.Logger
	now      func() time.Time
}

// NewCodec returns a codec using provider for key derivation, encryption
// and checksums.
func NewCodec(provider crypto.Provider, logger *logger.Logger) *Codec {
	return &Codec{
		provider: provider,
		deriver:  crypto.NewKeyDeriver(provider),
		cipher:   crypto.NewRecordCipher(provider),
		logger:   logger,
		now:      time.Now,
	}
}

// Export reads every record from source and seals it under a key derived
// from pin and a fresh salt. The checksum is the hex SHA-256 of the
// serialized plaintext.
func (c *Codec) Export(ctx context.Context, source Source, pin string) (models.BackupBlob, error) {
	payload, err := source.Export(ctx)
	if err != nil {
		return models.BackupBlob{}, fmt.Errorf("export: %w", err)
	}

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return models.BackupBlob{}, fmt.Errorf("export: marshal payload: %w", err)
	}

	key, salt, err := c.deriver.Derive(pin, nil)
	if err != nil {
		return models.BackupBlob{}, fmt.Errorf("export: %w", err)
	}
	defer zero(key)

	// Backup ciphertexts carry no associated data.
	ciphertext, nonce, err := c.cipher.Encrypt(plaintext, key, nil)
	if err != nil {
		return models.BackupBlob{}, fmt.Errorf("export: %w", err)
	}

	blob := models.BackupBlob{
		Version:   models.BackupVersion,
		Timestamp: c.now().UTC().Format(models.TimestampLayout),
		Salt:      salt,
		IV:        nonce,
		Data:      ciphertext,
		Checksum:  c.checksum(plaintext),
	}

	logger.FromContext(ctx).Info().
		Str("func", "Codec.Export").
		Int("transactions", len(payload.Transactions)).
		Int("accounts", len(payload.Accounts)).
		Msg("backup created")

	return blob, nil
}

// Restore opens blob with pin and returns the typed payload. Nothing is
// written anywhere.
func (c *Codec) Restore(blob models.BackupBlob, pin string) (models.BackupPayload, error) {
	if err := validateBlob(blob); err != nil {
		return models.BackupPayload{}, err
	}

	key, _, err := c.deriver.Derive(pin, blob.Salt)
	if err != nil {
		return models.BackupPayload{}, fmt.Errorf("restore: %w", err)
	}
	defer zero(key)

	plaintext, err := c.cipher.Decrypt(blob.Data, key, blob.IV, nil)
	if err != nil {
		return models.BackupPayload{}, fmt.Errorf("restore: %w", err)
	}

	if c.checksum(plaintext) != blob.Checksum {
		return models.BackupPayload{}, fmt.Errorf("restore: %w", ErrIntegrity)
	}

	payload, err := decodePayload(plaintext)
	if err != nil {
		return models.BackupPayload{}, fmt.Errorf("restore: %w", err)
	}
	return payload, nil
}

// Import restores blob and replaces the contents of target with it. Any
// failure before the replace leaves target untouched; the replace itself
// is all-or-nothing.
func (c *Codec) Import(ctx context.Context, target Target, blob models.BackupBlob, pin string) error {
	payload, err := c.Restore(blob, pin)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "Codec.Import").
			Msg("backup rejected")
		return err
	}

	return c.Apply(ctx, target, payload)
}

// Apply replaces the contents of target with a payload already returned by
// [Codec.Restore], so a caller that previews the backup does not derive the
// key twice.
func (c *Codec) Apply(ctx context.Context, target Target, payload models.BackupPayload) error {
	if err := target.Replace(ctx, payload); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("func", "Codec.Apply").
		Str("exportDate", payload.ExportDate).
		Msg("backup imported")
	return nil
}

func (c *Codec) checksum(plaintext []byte) string {
	return hex.EncodeToString(c.provider.Digest(plaintext))
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
