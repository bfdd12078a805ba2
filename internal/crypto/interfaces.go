package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// Provider abstracts the platform primitives the rest of the application
// needs. Nothing outside this package touches crypto/aes or pbkdf2 directly.
type Provider interface {
	// DeriveKey runs the slow password-based KDF over pin and salt and
	// returns a [KeySize]-byte key. Deterministic for equal inputs.
	DeriveKey(pin string, salt []byte) ([]byte, error)

	// Seal encrypts plaintext under key with a freshly generated nonce.
	// aad is authenticated but not encrypted; Open must be given the same
	// bytes.
	Seal(key, plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Open authenticates and decrypts ciphertext. Any verification failure,
	// including an aad mismatch, is reported as [ErrAuthentication].
	Open(key, ciphertext, nonce, aad []byte) ([]byte, error)

	// Digest returns the SHA-256 digest of data.
	Digest(data []byte) []byte

	// Random returns n bytes from the CSPRNG.
	Random(n int) ([]byte, error)
}

// KeyDeriver turns a user PIN plus a persisted salt into an encryption key.
type KeyDeriver interface {
	// Derive returns the key for pin and salt. When salt is nil a new random
	// salt is generated and returned alongside the key.
	Derive(pin string, salt []byte) (key, usedSalt []byte, err error)
}

// RecordCipher encrypts and decrypts individual records.
type RecordCipher interface {
	// Encrypt seals plaintext with key under a fresh nonce, binding aad to
	// the ciphertext.
	Encrypt(plaintext, key, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt opens ciphertext. Tampering, a wrong key, a wrong nonce or a
	// different aad yield [ErrAuthentication].
	Decrypt(ciphertext, key, nonce, aad []byte) ([]byte, error)

	// EncryptRecord marshals v to JSON and encrypts it.
	EncryptRecord(v any, key, aad []byte) (ciphertext, nonce []byte, err error)

	// DecryptRecord decrypts and unmarshals into dst (a non-nil pointer).
	DecryptRecord(ciphertext, key, nonce, aad []byte, dst any) error
}
