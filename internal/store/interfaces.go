package store

import (
	"context"

	"github.com/MKhiriev/go-finance-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// EnvelopeRepository persists encrypted envelopes. It never sees plaintext.
type EnvelopeRepository interface {
	// Save upserts every envelope in a single transaction.
	Save(ctx context.Context, envelopes ...models.Envelope) error

	// Apply upserts envelopes and deletes the envelopes addressed by deletes
	// in a single transaction. Missing keys are ignored.
	Apply(ctx context.Context, upserts []models.Envelope, deletes []models.EnvelopeKey) error

	// Get returns the envelope or [ErrEnvelopeNotFound].
	Get(ctx context.Context, collection models.Collection, id string) (models.Envelope, error)

	// GetAll returns every envelope of the collection ordered by id.
	GetAll(ctx context.Context, collection models.Collection) ([]models.Envelope, error)

	// Delete removes the listed ids from the collection in one statement.
	// Missing ids are ignored.
	Delete(ctx context.Context, collection models.Collection, ids ...string) error

	// Replace clears the listed collections and inserts envelopes, all in one
	// transaction. On error nothing is changed.
	Replace(ctx context.Context, collections []models.Collection, envelopes []models.Envelope) error

	// Purge deletes every envelope of every collection.
	Purge(ctx context.Context) error
}

// PlainValueRepository stores the small set of values that must be readable
// before the encryption key exists. Values are stored as-is.
type PlainValueRepository interface {
	// Get returns the value or [ErrKeyNotFound].
	Get(ctx context.Context, key string) (string, error)

	// Set upserts a value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the listed keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
