package vault

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/crypto"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/models"
)

const testPIN = "1234"

func newTestStorages(t *testing.T) *store.ClientStorages {
	t.Helper()
	cfg := config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "keeper.db")}}
	s, err := store.NewClientStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newStoreOn(s *store.ClientStorages) *Store {
	provider := crypto.NewProvider()
	return NewStore(s.Envelopes, s.PlainValues, crypto.NewKeyDeriver(provider), crypto.NewRecordCipher(provider), logger.Nop())
}

func newOpenStore(t *testing.T) (*Store, *store.ClientStorages) {
	t.Helper()
	s := newTestStorages(t)
	v := newStoreOn(s)
	require.NoError(t, v.Open(context.Background(), testPIN))
	return v, s
}

func TestStore_NotInitialized(t *testing.T) {
	v := newStoreOn(newTestStorages(t))
	ctx := context.Background()

	assert.False(t, v.IsOpen())
	assert.ErrorIs(t, v.Put(ctx, models.CollectionAccounts, models.Account{ID: "a"}), ErrNotInitialized)

	_, err := v.Get(ctx, models.CollectionAccounts, "a", &models.Account{})
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = v.GetAll(ctx, models.CollectionAccounts)
	assert.ErrorIs(t, err, ErrNotInitialized)

	assert.ErrorIs(t, v.Delete(ctx, models.CollectionAccounts, "a"), ErrNotInitialized)

	_, err = v.DeleteByForeignKey(ctx, models.CollectionTransactions, "accountId", "a")
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = v.Export(ctx)
	assert.ErrorIs(t, err, ErrNotInitialized)

	assert.ErrorIs(t, v.Replace(ctx, models.BackupPayload{}), ErrNotInitialized)
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	v, _ := newOpenStore(t)
	ctx := context.Background()

	acc := models.Account{ID: "a1", Name: "Main", Type: models.AccountChecking, Balance: 100, Currency: "USD"}
	require.NoError(t, v.Put(ctx, models.CollectionAccounts, acc))

	var got models.Account
	found, err := v.Get(ctx, models.CollectionAccounts, "a1", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, acc, got)

	typed, found, err := GetAs[models.Account](ctx, v, models.CollectionAccounts, "a1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, acc, typed)
}

func TestStore_PutOverwrites(t *testing.T) {
	v, _ := newOpenStore(t)
	ctx := context.Background()

	require.NoError(t, v.Put(ctx, models.CollectionGoals, models.Goal{ID: "g", Name: "old"}))
	require.NoError(t, v.Put(ctx, models.CollectionGoals, models.Goal{ID: "g", Name: "new"}))

	goals, err := GetAllAs[models.Goal](ctx, v, models.CollectionGoals)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "new", goals[0].Name)
}

func TestStore_GetMissingIsNotAnError(t *testing.T) {
	v, _ := newOpenStore(t)

	found, err := v.Get(context.Background(), models.CollectionTransactions, "nope", &models.Transaction{})

	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_GetAllEmpty(t *testing.T) {
	v, _ := newOpenStore(t)

	records, err := GetAllAs[models.Budget](context.Background(), v, models.CollectionBudgets)

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestStore_RejectsMissingIDAndUnknownCollection(t *testing.T) {
	v, _ := newOpenStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, v.Put(ctx, models.CollectionAccounts, models.Account{Name: "no id"}), ErrMissingID)
	assert.ErrorIs(t, v.Put(ctx, "investments", models.Account{ID: "x"}), ErrUnknownCollection)

	_, err := v.GetAll(ctx, "investments")
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	v, _ := newOpenStore(t)
	ctx := context.Background()

	require.NoError(t, v.Put(ctx, models.CollectionBudgets, models.Budget{ID: "b"}))
	require.NoError(t, v.Delete(ctx, models.CollectionBudgets, "b"))
	require.NoError(t, v.Delete(ctx, models.CollectionBudgets, "b"))

	found, err := v.Get(ctx, models.CollectionBudgets, "b", &models.Budget{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_DeleteByForeignKey(t *testing.T) {
	v, _ := newOpenStore(t)
	ctx := context.Background()

	require.NoError(t, v.PutBatch(ctx,
		Write{models.CollectionTransactions, models.Transaction{ID: "t1", AccountID: "A"}},
		Write{models.CollectionTransactions, models.Transaction{ID: "t2", AccountID: "A"}},
		Write{models.CollectionTransactions, models.Transaction{ID: "t3", AccountID: "B"}},
	))

	n, err := v.DeleteByForeignKey(ctx, models.CollectionTransactions, "accountId", "A")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := GetAllAs[models.Transaction](ctx, v, models.CollectionTransactions)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "t3", left[0].ID)

	n, err = v.DeleteByForeignKey(ctx, models.CollectionTransactions, "accountId", "A")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_CommitWritesAndDeletesTogether(t *testing.T) {
	v, _ := newOpenStore(t)
	ctx := context.Background()

	require.NoError(t, v.PutBatch(ctx,
		Write{models.CollectionAccounts, models.Account{ID: "A", Balance: 70}},
		Write{models.CollectionTransactions, models.Transaction{ID: "t1", AccountID: "A", Amount: 30}},
	))

	err := v.Commit(ctx,
		[]Write{{models.CollectionAccounts, models.Account{ID: "A", Balance: 100}}},
		[]models.EnvelopeKey{{Collection: models.CollectionTransactions, ID: "t1"}},
	)
	require.NoError(t, err)

	acc, found, err := GetAs[models.Account](ctx, v, models.CollectionAccounts, "A")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 100.0, acc.Balance)

	found, err = v.Get(ctx, models.CollectionTransactions, "t1", &models.Transaction{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_CommitRejectsUnknownCollection(t *testing.T) {
	v, _ := newOpenStore(t)

	err := v.Commit(context.Background(), nil, []models.EnvelopeKey{{Collection: "nope", ID: "x"}})
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

// TestStore_CiphertextOnly verifies that nothing but ciphertext reaches the
// database.
func TestStore_CiphertextOnly(t *testing.T) {
	v, s := newOpenStore(t)
	ctx := context.Background()

	require.NoError(t, v.Put(ctx, models.CollectionAccounts, models.Account{ID: "a1", Name: "Secret Savings"}))

	e, err := s.Envelopes.Get(ctx, models.CollectionAccounts, "a1")
	require.NoError(t, err)
	assert.NotContains(t, string(e.Ciphertext), "Secret Savings")
	assert.Len(t, e.Nonce, crypto.NonceSize)
}

func TestStore_SaltPersistsAcrossOpen(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	first := newStoreOn(s)
	require.NoError(t, first.Open(ctx, testPIN))
	require.NoError(t, first.Put(ctx, models.CollectionAccounts, models.Account{ID: "a1", Name: "Main"}))

	raw, err := s.PlainValues.Get(ctx, SaltKey)
	require.NoError(t, err)
	var salt []int
	require.NoError(t, json.Unmarshal([]byte(raw), &salt))
	assert.Len(t, salt, crypto.SaltSize)

	second := newStoreOn(s)
	require.NoError(t, second.Open(ctx, testPIN))

	acc, found, err := GetAs[models.Account](ctx, second, models.CollectionAccounts, "a1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Main", acc.Name)

	raw2, err := s.PlainValues.Get(ctx, SaltKey)
	require.NoError(t, err)
	assert.Equal(t, raw, raw2)
}

func TestStore_WrongPINCannotRead(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	good := newStoreOn(s)
	require.NoError(t, good.Open(ctx, testPIN))
	require.NoError(t, good.Put(ctx, models.CollectionAccounts, models.Account{ID: "a1"}))

	bad := newStoreOn(s)
	require.NoError(t, bad.Open(ctx, "9999"))

	_, err := bad.Get(ctx, models.CollectionAccounts, "a1", &models.Account{})
	assert.ErrorIs(t, err, crypto.ErrAuthentication)

	_, err = bad.GetAll(ctx, models.CollectionAccounts)
	assert.ErrorIs(t, err, crypto.ErrAuthentication)
}

func TestStore_TamperedEnvelope(t *testing.T) {
	v, s := newOpenStore(t)
	ctx := context.Background()

	require.NoError(t, v.Put(ctx, models.CollectionAccounts, models.Account{ID: "a1"}))

	e, err := s.Envelopes.Get(ctx, models.CollectionAccounts, "a1")
	require.NoError(t, err)
	e.Ciphertext[0] ^= 0x01
	require.NoError(t, s.Envelopes.Save(ctx, e))

	_, err = v.Get(ctx, models.CollectionAccounts, "a1", &models.Account{})
	assert.ErrorIs(t, err, crypto.ErrAuthentication)
}

// TestStore_EnvelopeMovedToAnotherID verifies that a valid ciphertext copied
// under a different id or collection does not decrypt.
func TestStore_EnvelopeMovedToAnotherID(t *testing.T) {
	v, s := newOpenStore(t)
	ctx := context.Background()

	require.NoError(t, v.PutBatch(ctx,
		Write{models.CollectionAccounts, models.Account{ID: "a1", Balance: 10}},
		Write{models.CollectionAccounts, models.Account{ID: "a2", Balance: 9000}},
	))

	e, err := s.Envelopes.Get(ctx, models.CollectionAccounts, "a2")
	require.NoError(t, err)
	e.ID = "a1"
	require.NoError(t, s.Envelopes.Save(ctx, e))

	_, err = v.Get(ctx, models.CollectionAccounts, "a1", &models.Account{})
	assert.ErrorIs(t, err, crypto.ErrAuthentication)

	_, err = v.GetAll(ctx, models.CollectionAccounts)
	assert.ErrorIs(t, err, crypto.ErrAuthentication)

	e.Collection = models.CollectionGoals
	e.ID = "a2"
	require.NoError(t, s.Envelopes.Save(ctx, e))

	_, err = v.Get(ctx, models.CollectionGoals, "a2", &models.Goal{})
	assert.ErrorIs(t, err, crypto.ErrAuthentication)
}

func TestStore_LockDiscardsKey(t *testing.T) {
	v, _ := newOpenStore(t)

	v.Lock()

	assert.False(t, v.IsOpen())
	_, err := v.GetAll(context.Background(), models.CollectionAccounts)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestStore_ExportReplace(t *testing.T) {
	v, _ := newOpenStore(t)
	ctx := context.Background()

	require.NoError(t, v.PutBatch(ctx,
		Write{models.CollectionAccounts, models.Account{ID: "old-acc"}},
		Write{models.CollectionSettings, models.Settings{ID: models.SettingsID, Currency: "EUR"}},
	))

	payload := models.BackupPayload{
		Transactions:          []models.Transaction{{ID: "t1", AccountID: "a1", Amount: 5}},
		Accounts:              []models.Account{{ID: "a1", Balance: 95}},
		Budgets:               []models.Budget{},
		Goals:                 []models.Goal{{ID: "g1"}},
		RecurringTransactions: []models.RecurringTransaction{},
	}
	require.NoError(t, v.Replace(ctx, payload))

	exported, err := v.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload.Transactions, exported.Transactions)
	assert.Equal(t, payload.Accounts, exported.Accounts)
	assert.Equal(t, payload.Goals, exported.Goals)
	assert.Empty(t, exported.Budgets)
	assert.NotNil(t, exported.Budgets)
	assert.NotEmpty(t, exported.ExportDate)

	settings, found, err := GetAs[models.Settings](ctx, v, models.CollectionSettings, models.SettingsID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "EUR", settings.Currency)
}

func TestStore_ReplaceRejectsMissingIDWithoutWriting(t *testing.T) {
	v, _ := newOpenStore(t)
	ctx := context.Background()

	require.NoError(t, v.Put(ctx, models.CollectionAccounts, models.Account{ID: "keep"}))

	err := v.Replace(ctx, models.BackupPayload{Accounts: []models.Account{{ID: "a"}, {Name: "no id"}}})
	require.ErrorIs(t, err, ErrMissingID)

	accounts, err := GetAllAs[models.Account](ctx, v, models.CollectionAccounts)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "keep", accounts[0].ID)
}

func TestStore_Destroy(t *testing.T) {
	v, s := newOpenStore(t)
	ctx := context.Background()

	require.NoError(t, v.Put(ctx, models.CollectionAccounts, models.Account{ID: "a1"}))
	require.NoError(t, v.Destroy(ctx))

	assert.False(t, v.IsOpen())
	_, err := s.PlainValues.Get(ctx, SaltKey)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)

	require.NoError(t, v.Open(ctx, testPIN))
	all, err := v.GetAll(ctx, models.CollectionAccounts)
	require.NoError(t, err)
	assert.Empty(t, all)
}
