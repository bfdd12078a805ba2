// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto holds the key derivation and authenticated encryption used
// by the local store and by encrypted backups.
//
// Keys are derived with PBKDF2-HMAC-SHA256 from the user PIN and a random
// 16-byte salt; records are sealed with AES-256-GCM under a fresh 12-byte
// nonce per operation.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the length of a key-derivation salt in bytes.
	SaltSize = 16
	// KeySize is the length of a derived AES-256 key in bytes.
	KeySize = 32
	// NonceSize is the AES-GCM nonce length in bytes.
	NonceSize = 12
	// Iterations is the PBKDF2-HMAC-SHA256 iteration count. It is part of
	// the backup format: a file can only be restored with the same count.
	Iterations = 100_000
)

// aesGCMProvider is the default [Provider]: PBKDF2-SHA256 for keys and
// AES-256-GCM for records.
type aesGCMProvider struct {
	random io.Reader
}

// ProviderOption customises a provider built by [NewProvider].
type ProviderOption func(*aesGCMProvider)

// WithRandom replaces the CSPRNG. Intended for tests.
func WithRandom(r io.Reader) ProviderOption {
	return func(p *aesGCMProvider) {
		p.random = r
	}
}

// NewProvider constructs the default [Provider].
func NewProvider(opts ...ProviderOption) Provider {
	p := &aesGCMProvider{
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DeriveKey implements [Provider].
func (p *aesGCMProvider) DeriveKey(pin string, salt []byte) ([]byte, error) {
	if pin == "" {
		return nil, ErrEmptyPIN
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSalt, len(salt), SaltSize)
	}

	return pbkdf2.Key([]byte(pin), salt, Iterations, KeySize, sha256.New), nil
}

// Seal implements [Provider]. The nonce is returned separately so that it
// can be stored next to the ciphertext.
func (p *aesGCMProvider) Seal(key, plaintext, aad []byte) ([]byte, []byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce, err := p.Random(gcm.NonceSize())
	if err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}

	return gcm.Seal(nil, nonce, plaintext, aad), nonce, nil
}

// Open implements [Provider].
func (p *aesGCMProvider) Open(key, ciphertext, nonce, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	// gcm.Open panics on a nonce of the wrong size.
	if len(nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("%w: nonce length %d", ErrAuthentication, len(nonce))
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	return plaintext, nil
}

// Digest implements [Provider].
func (p *aesGCMProvider) Digest(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// Random implements [Provider].
func (p *aesGCMProvider) Random(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(p.random, buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRandomSource, err)
	}
	return buf, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(key), KeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}
