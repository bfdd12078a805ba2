package crypto

import "fmt"

type keyDeriver struct {
	provider Provider
}

// NewKeyDeriver returns a [KeyDeriver] backed by provider.
func NewKeyDeriver(provider Provider) KeyDeriver {
	return &keyDeriver{provider: provider}
}

// Derive implements [KeyDeriver]. A nil salt means "first run": a new salt
// is generated and must be persisted by the caller. The PIN is never logged
// or stored.
func (k *keyDeriver) Derive(pin string, salt []byte) ([]byte, []byte, error) {
	if pin == "" {
		return nil, nil, ErrEmptyPIN
	}

	if salt == nil {
		fresh, err := k.provider.Random(SaltSize)
		if err != nil {
			return nil, nil, fmt.Errorf("generate salt: %w", err)
		}
		salt = fresh
	}

	key, err := k.provider.DeriveKey(pin, salt)
	if err != nil {
		return nil, nil, fmt.Errorf("derive key: %w", err)
	}

	return key, salt, nil
}
