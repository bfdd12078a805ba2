package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/crypto"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/mock"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/internal/vault"
	"github.com/MKhiriev/go-finance-keeper/models"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

const fixedTS = "2026-03-14T09:26:53.589Z"

// found makes a RecordStore.Get expectation decode v into dst.
func found(v any) func(context.Context, models.Collection, string, any) (bool, error) {
	return func(_ context.Context, _ models.Collection, _ string, dst any) (bool, error) {
		raw, err := json.Marshal(v)
		if err != nil {
			return false, err
		}
		return true, json.Unmarshal(raw, dst)
	}
}

func rawRecords(t *testing.T, items ...any) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		raw, err := json.Marshal(it)
		require.NoError(t, err)
		out = append(out, raw)
	}
	return out
}

// sequentialIDs returns a generator mock producing id-1, id-2, ...
func sequentialIDs(ctrl *gomock.Controller) *mock.MockIDGenerator {
	ids := mock.NewMockIDGenerator(ctrl)
	n := 0
	ids.EXPECT().Generate().DoAndReturn(func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}).AnyTimes()
	return ids
}

// newLedger builds real services over an opened store in a temp database.
func newLedger(t *testing.T) (*Services, *vault.Store) {
	t.Helper()
	ctx := context.Background()

	cfg := config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "ledger.db")}}
	storages, err := store.NewClientStorages(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	provider := crypto.NewProvider()
	v := vault.NewStore(storages.Envelopes, storages.PlainValues,
		crypto.NewKeyDeriver(provider), crypto.NewRecordCipher(provider), logger.Nop())
	require.NoError(t, v.Open(ctx, "1234"))

	return NewServices(v, &counterIDs{}, logger.Nop()), v
}

type counterIDs struct{ n int }

func (c *counterIDs) Generate() string {
	c.n++
	return "rec-" + strconv.Itoa(c.n)
}
