package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID     string   `json:"id"`
	Amount float64  `json:"amount"`
	Tags   []string `json:"tags"`
}

var sampleAAD = []byte("transactions/t1")

func TestEncryptRecord_RoundTrip(t *testing.T) {
	c := NewRecordCipher(NewProvider())
	key := testKey()
	in := sample{ID: "t1", Amount: 100.25, Tags: []string{"food", "weekly"}}

	ct, nonce, err := c.EncryptRecord(in, key, sampleAAD)
	require.NoError(t, err)

	var out sample
	require.NoError(t, c.DecryptRecord(ct, key, nonce, sampleAAD, &out))
	assert.Equal(t, in, out)
}

func TestEncrypt_NoncesAreUnique(t *testing.T) {
	c := NewRecordCipher(NewProvider())
	key := testKey()
	seen := make(map[string]struct{}, 1000)

	for i := 0; i < 1000; i++ {
		_, nonce, err := c.Encrypt([]byte("same plaintext"), key, nil)
		require.NoError(t, err)

		_, dup := seen[string(nonce)]
		require.Falsef(t, dup, "nonce repeated after %d encryptions", i)
		seen[string(nonce)] = struct{}{}
	}
}

func TestDecrypt_BitFlipIsDetected(t *testing.T) {
	c := NewRecordCipher(NewProvider())
	key := testKey()

	ct, nonce, err := c.Encrypt([]byte(`{"id":"a","amount":1}`), key, sampleAAD)
	require.NoError(t, err)

	for i := 0; i < len(ct)*8; i++ {
		tampered := bytes.Clone(ct)
		tampered[i/8] ^= 1 << (i % 8)
		_, err = c.Decrypt(tampered, key, nonce, sampleAAD)
		require.ErrorIsf(t, err, ErrAuthentication, "ciphertext bit %d", i)
	}

	for i := 0; i < len(nonce)*8; i++ {
		tampered := bytes.Clone(nonce)
		tampered[i/8] ^= 1 << (i % 8)
		_, err = c.Decrypt(ct, key, tampered, sampleAAD)
		require.ErrorIsf(t, err, ErrAuthentication, "nonce bit %d", i)
	}

	for i := 0; i < len(sampleAAD)*8; i++ {
		tampered := bytes.Clone(sampleAAD)
		tampered[i/8] ^= 1 << (i % 8)
		_, err = c.Decrypt(ct, key, nonce, tampered)
		require.ErrorIsf(t, err, ErrAuthentication, "aad bit %d", i)
	}
}

func TestDecrypt_WrongPINFails(t *testing.T) {
	p := NewProvider()
	c := NewRecordCipher(p)
	salt := bytes.Repeat([]byte{0x07}, SaltSize)

	right, err := p.DeriveKey("1234", salt)
	require.NoError(t, err)
	wrong, err := p.DeriveKey("9999", salt)
	require.NoError(t, err)

	ct, nonce, err := c.EncryptRecord(sample{ID: "a"}, right, nil)
	require.NoError(t, err)

	var out sample
	err = c.DecryptRecord(ct, wrong, nonce, nil, &out)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Empty(t, out.ID)
}

func TestDecryptRecord_NonJSONIsCorrupted(t *testing.T) {
	c := NewRecordCipher(NewProvider())
	key := testKey()

	ct, nonce, err := c.Encrypt([]byte("not json"), key, nil)
	require.NoError(t, err)

	var out sample
	assert.ErrorIs(t, c.DecryptRecord(ct, key, nonce, nil, &out), ErrCorruptedRecord)
}
