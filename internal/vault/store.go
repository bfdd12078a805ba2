// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault implements the encrypted record store. Every record is
// serialized to JSON, sealed with the PIN-derived key and kept as an opaque
// envelope; only the collection name and record id are stored in clear, and
// both are authenticated as associated data of the ciphertext.
package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-finance-keeper/internal/crypto"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// SaltKey is the plain value holding the store salt as a JSON number array.
const SaltKey = "fm_encryption_salt"

// Write is one entry of a [Store.PutBatch] or [Store.Commit].
type Write struct {
	Collection models.Collection
	Entity     models.Entity
}

// Store is the encrypted record store. It holds the derived key in memory
// between [Store.Open] and [Store.Lock] and is safe for concurrent use.
type Store struct {
	envelopes   store.EnvelopeRepository
	plainValues store.PlainValueRepository
	deriver     crypto.KeyDeriver
	cipher      crypto.RecordCipher
	logger      *logger.Logger
	now         func() time.Time

	mu  sync.RWMutex
	key []byte
}

// NewStore builds a locked store. Call [Store.Open] before any data
// operation.
func NewStore(
	envelopes store.EnvelopeRepository,
	plainValues store.PlainValueRepository,
	deriver crypto.KeyDeriver,
	cipher crypto.RecordCipher,
	logger *logger.Logger,
) *Store {
	return &Store{
		envelopes:   envelopes,
		plainValues: plainValues,
		deriver:     deriver,
		cipher:      cipher,
		logger:      logger,
		now:         time.Now,
	}
}

// Open derives the store key from pin. On first use a random salt is
// generated and persisted under [SaltKey]; later calls reuse it so the same
// PIN yields the same key. Open does not verify the PIN: a wrong PIN yields
// a key under which every existing record fails to decrypt.
func (s *Store) Open(ctx context.Context, pin string) error {
	salt, err := s.loadSalt(ctx)
	if err != nil {
		return err
	}

	key, usedSalt, err := s.deriver.Derive(pin, salt)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	if salt == nil {
		if err = s.saveSalt(ctx, usedSalt); err != nil {
			return err
		}
		s.logger.Info().Str("func", "Store.Open").Msg("new store salt generated")
	}

	s.mu.Lock()
	zero(s.key)
	s.key = key
	s.mu.Unlock()

	return nil
}

// Lock discards the key. Data operations return [ErrNotInitialized] until
// the next [Store.Open].
func (s *Store) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	zero(s.key)
	s.key = nil
}

// IsOpen reports whether the store currently holds a key.
func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key != nil
}

// Put encrypts entity and inserts or replaces it under its id.
func (s *Store) Put(ctx context.Context, collection models.Collection, entity models.Entity) error {
	return s.PutBatch(ctx, Write{Collection: collection, Entity: entity})
}

// PutBatch encrypts every write and stores them in one transaction: either
// all records are written or none.
func (s *Store) PutBatch(ctx context.Context, writes ...Write) error {
	key, err := s.currentKey()
	if err != nil {
		return err
	}
	defer zero(key)

	envelopes, err := s.sealAll(writes, key)
	if err != nil {
		return err
	}

	if err = s.envelopes.Save(ctx, envelopes...); err != nil {
		return fmt.Errorf("put records: %w", err)
	}
	return nil
}

// Commit stores puts and removes deletes in one transaction. It is used
// where a record and the records derived from it must change together, such
// as a transaction and the balance of its account.
func (s *Store) Commit(ctx context.Context, puts []Write, deletes []models.EnvelopeKey) error {
	key, err := s.currentKey()
	if err != nil {
		return err
	}
	defer zero(key)

	for _, k := range deletes {
		if !k.Collection.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownCollection, k.Collection)
		}
	}

	envelopes, err := s.sealAll(puts, key)
	if err != nil {
		return err
	}

	if err = s.envelopes.Apply(ctx, envelopes, deletes); err != nil {
		return fmt.Errorf("commit records: %w", err)
	}
	return nil
}

// Get decrypts the record collection/id into dst. A missing record is
// reported as found == false with a nil error; a record that fails
// authentication is an error wrapping [crypto.ErrAuthentication].
func (s *Store) Get(ctx context.Context, collection models.Collection, id string, dst any) (bool, error) {
	if !collection.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}

	key, err := s.currentKey()
	if err != nil {
		return false, err
	}
	defer zero(key)

	e, err := s.envelopes.Get(ctx, collection, id)
	if errors.Is(err, store.ErrEnvelopeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get record: %w", err)
	}

	if err = s.cipher.DecryptRecord(e.Ciphertext, key, e.Nonce, recordAAD(collection, id), dst); err != nil {
		s.logDecryptFailure(ctx, "Store.Get", e, err)
		return false, fmt.Errorf("record %s/%s: %w", collection, id, err)
	}
	return true, nil
}

// GetAll decrypts every record of collection. Order is unspecified. A single
// record failing authentication fails the whole call.
func (s *Store) GetAll(ctx context.Context, collection models.Collection) ([]json.RawMessage, error) {
	if !collection.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}

	key, err := s.currentKey()
	if err != nil {
		return nil, err
	}
	defer zero(key)

	envelopes, err := s.envelopes.GetAll(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("get records: %w", err)
	}

	records := make([]json.RawMessage, 0, len(envelopes))
	for _, e := range envelopes {
		plaintext, err := s.cipher.Decrypt(e.Ciphertext, key, e.Nonce, recordAAD(collection, e.ID))
		if err != nil {
			s.logDecryptFailure(ctx, "Store.GetAll", e, err)
			return nil, fmt.Errorf("record %s/%s: %w", collection, e.ID, err)
		}
		if !json.Valid(plaintext) {
			return nil, fmt.Errorf("record %s/%s: %w", collection, e.ID, crypto.ErrCorruptedRecord)
		}
		records = append(records, plaintext)
	}

	return records, nil
}

// Delete removes collection/id. Deleting an absent record is not an error.
func (s *Store) Delete(ctx context.Context, collection models.Collection, id string) error {
	if !collection.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	if !s.IsOpen() {
		return ErrNotInitialized
	}

	if err := s.envelopes.Delete(ctx, collection, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// DeleteByForeignKey removes every record of collection whose decrypted
// field equals value and returns how many were removed. The field lives
// inside the ciphertext, so the collection is scanned; the matches are then
// deleted in a single statement.
func (s *Store) DeleteByForeignKey(ctx context.Context, collection models.Collection, field, value string) (int, error) {
	records, err := s.GetAll(ctx, collection)
	if err != nil {
		return 0, err
	}

	ids := make([]string, 0)
	for _, raw := range records {
		var fields map[string]any
		if err = json.Unmarshal(raw, &fields); err != nil {
			return 0, fmt.Errorf("%w: %w", crypto.ErrCorruptedRecord, err)
		}

		if v, ok := fields[field].(string); !ok || v != value {
			continue
		}
		if id, ok := fields["id"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return 0, nil
	}

	if err = s.envelopes.Delete(ctx, collection, ids...); err != nil {
		return 0, fmt.Errorf("delete by %s: %w", field, err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "Store.DeleteByForeignKey").
		Str("collection", collection.String()).
		Str("field", field).
		Int("deleted", len(ids)).
		Msg("dependent records deleted")

	return len(ids), nil
}

// Export decrypts the backup collections into a typed payload.
func (s *Store) Export(ctx context.Context) (models.BackupPayload, error) {
	var (
		p   models.BackupPayload
		err error
	)

	if p.Transactions, err = GetAllAs[models.Transaction](ctx, s, models.CollectionTransactions); err != nil {
		return models.BackupPayload{}, err
	}
	if p.Accounts, err = GetAllAs[models.Account](ctx, s, models.CollectionAccounts); err != nil {
		return models.BackupPayload{}, err
	}
	if p.Budgets, err = GetAllAs[models.Budget](ctx, s, models.CollectionBudgets); err != nil {
		return models.BackupPayload{}, err
	}
	if p.Goals, err = GetAllAs[models.Goal](ctx, s, models.CollectionGoals); err != nil {
		return models.BackupPayload{}, err
	}
	if p.RecurringTransactions, err = GetAllAs[models.RecurringTransaction](ctx, s, models.CollectionRecurringTransactions); err != nil {
		return models.BackupPayload{}, err
	}
	p.ExportDate = s.now().UTC().Format(models.TimestampLayout)

	return p, nil
}

// Replace clears the backup collections and writes every record of payload
// in one transaction. Settings are left untouched. All records are encrypted
// before anything is written, so a failure leaves the store unchanged.
func (s *Store) Replace(ctx context.Context, payload models.BackupPayload) error {
	key, err := s.currentKey()
	if err != nil {
		return err
	}
	defer zero(key)

	records := payload.Records()
	envelopes := make([]models.Envelope, 0, 64)
	for _, collection := range models.BackupCollections {
		for _, entity := range records[collection] {
			e, err := s.seal(collection, entity, key)
			if err != nil {
				return err
			}
			envelopes = append(envelopes, e)
		}
	}

	if err = s.envelopes.Replace(ctx, models.BackupCollections, envelopes); err != nil {
		return fmt.Errorf("replace records: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("func", "Store.Replace").
		Int("records", len(envelopes)).
		Msg("store contents replaced")

	return nil
}

// Destroy deletes every record and the salt and locks the store. The next
// [Store.Open] starts a fresh store.
func (s *Store) Destroy(ctx context.Context) error {
	if err := s.envelopes.Purge(ctx); err != nil {
		return fmt.Errorf("destroy store: %w", err)
	}
	if err := s.plainValues.Delete(ctx, SaltKey); err != nil {
		return fmt.Errorf("destroy store: %w", err)
	}

	s.Lock()
	return nil
}

func (s *Store) seal(collection models.Collection, entity models.Entity, key []byte) (models.Envelope, error) {
	if !collection.Valid() {
		return models.Envelope{}, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	if entity == nil || entity.EntityID() == "" {
		return models.Envelope{}, fmt.Errorf("%w (collection=%s)", ErrMissingID, collection)
	}

	ciphertext, nonce, err := s.cipher.EncryptRecord(entity, key, recordAAD(collection, entity.EntityID()))
	if err != nil {
		return models.Envelope{}, fmt.Errorf("record %s/%s: %w", collection, entity.EntityID(), err)
	}

	return models.Envelope{
		Collection: collection,
		ID:         entity.EntityID(),
		Ciphertext: ciphertext,
		Nonce:      nonce,
		WrittenAt:  s.now().UTC(),
	}, nil
}

// recordAAD binds a ciphertext to the row it is stored under, so an
// envelope moved to another id or collection fails authentication.
func recordAAD(collection models.Collection, id string) []byte {
	return []byte(collection.String() + "/" + id)
}

func (s *Store) sealAll(writes []Write, key []byte) ([]models.Envelope, error) {
	envelopes := make([]models.Envelope, 0, len(writes))
	for _, w := range writes {
		e, err := s.seal(w.Collection, w.Entity, key)
		if err != nil {
			return nil, err
		}
		envelopes = append(envelopes, e)
	}
	return envelopes, nil
}

// currentKey returns a copy of the key; the caller zeroes it when done.
func (s *Store) currentKey() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return nil, ErrNotInitialized
	}
	return append([]byte(nil), s.key...), nil
}

func (s *Store) loadSalt(ctx context.Context) ([]byte, error) {
	raw, err := s.plainValues.Get(ctx, SaltKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load salt: %w", err)
	}

	var salt models.ByteArray
	if err = json.Unmarshal([]byte(raw), &salt); err != nil {
		return nil, fmt.Errorf("load salt: %w: %w", crypto.ErrInvalidSalt, err)
	}
	return []byte(salt), nil
}

func (s *Store) saveSalt(ctx context.Context, salt []byte) error {
	raw, err := json.Marshal(models.ByteArray(salt))
	if err != nil {
		return fmt.Errorf("save salt: %w", err)
	}
	if err = s.plainValues.Set(ctx, SaltKey, string(raw)); err != nil {
		return fmt.Errorf("save salt: %w", err)
	}
	return nil
}

func (s *Store) logDecryptFailure(ctx context.Context, fn string, e models.Envelope, err error) {
	logger.FromContext(ctx).Warn().Err(err).
		Str("func", fn).
		Str("collection", e.Collection.String()).
		Str("id", e.ID).
		Msg("record failed to decrypt")
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
