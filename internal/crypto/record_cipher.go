package crypto

import (
	"encoding/json"
	"fmt"
)

type recordCipher struct {
	provider Provider
}

// NewRecordCipher returns a [RecordCipher] backed by provider.
func NewRecordCipher(provider Provider) RecordCipher {
	return &recordCipher{provider: provider}
}

// Encrypt implements [RecordCipher].
func (c *recordCipher) Encrypt(plaintext, key, aad []byte) ([]byte, []byte, error) {
	ciphertext, nonce, err := c.provider.Seal(key, plaintext, aad)
	if err != nil {
		return nil, nil, fmt.Errorf("encrypt: %w", err)
	}
	return ciphertext, nonce, nil
}

// Decrypt implements [RecordCipher].
func (c *recordCipher) Decrypt(ciphertext, key, nonce, aad []byte) ([]byte, error) {
	plaintext, err := c.provider.Open(key, ciphertext, nonce, aad)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}

// EncryptRecord implements [RecordCipher].
func (c *recordCipher) EncryptRecord(v any, key, aad []byte) ([]byte, []byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal record: %w", err)
	}
	return c.Encrypt(plaintext, key, aad)
}

// DecryptRecord implements [RecordCipher].
func (c *recordCipher) DecryptRecord(ciphertext, key, nonce, aad []byte, dst any) error {
	plaintext, err := c.Decrypt(ciphertext, key, nonce, aad)
	if err != nil {
		return err
	}

	if err = json.Unmarshal(plaintext, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptedRecord, err)
	}
	return nil
}
