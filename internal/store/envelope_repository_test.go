package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-finance-keeper/models"
)

func newTestEnvelopeRepo(t *testing.T) (*envelopeRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &envelopeRepository{DB: &DB{DB: db}}, mock
}

func testEnvelope(id string) models.Envelope {
	return models.Envelope{
		Collection: models.CollectionTransactions,
		ID:         id,
		Ciphertext: []byte("ct-" + id),
		Nonce:      []byte("nonce-" + id),
		WrittenAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func envelopeRows(envs ...models.Envelope) *sqlmock.Rows {
	rows := sqlmock.NewRows(envelopeColumns)
	for _, e := range envs {
		rows.AddRow(string(e.Collection), e.ID, e.Ciphertext, e.Nonce, e.WrittenAt)
	}
	return rows
}

func TestEnvelopeRepository_Save_CommitsAll(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)
	e1, e2 := testEnvelope("t1"), testEnvelope("t2")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO envelopes").
		WithArgs("transactions", "t1", e1.Ciphertext, e1.Nonce, e1.WrittenAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO envelopes").
		WithArgs("transactions", "t2", e2.Ciphertext, e2.Nonce, e2.WrittenAt).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), e1, e2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnvelopeRepository_Save_RollsBackOnFailure(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO envelopes").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO envelopes").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), testEnvelope("t1"), testEnvelope("t2"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnvelopeRepository_Save_BeginFails(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("busy"))

	err := repo.Save(context.Background(), testEnvelope("t1"))
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

func TestEnvelopeRepository_Apply_UpsertsAndDeletesInOneTx(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)
	acc := testEnvelope("a1")
	acc.Collection = models.CollectionAccounts

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO envelopes").
		WithArgs("accounts", "a1", acc.Ciphertext, acc.Nonce, acc.WrittenAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM envelopes WHERE").
		WithArgs("transactions", "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Apply(context.Background(),
		[]models.Envelope{acc},
		[]models.EnvelopeKey{{Collection: models.CollectionTransactions, ID: "t1"}},
	)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnvelopeRepository_Apply_DeleteFailsRollsBack(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO envelopes").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM envelopes").WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err := repo.Apply(context.Background(),
		[]models.Envelope{testEnvelope("t2")},
		[]models.EnvelopeKey{{Collection: models.CollectionTransactions, ID: "t1"}},
	)

	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnvelopeRepository_Get_Found(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)
	want := testEnvelope("t1")

	mock.ExpectQuery("SELECT (.+) FROM envelopes WHERE").
		WithArgs("transactions", "t1").
		WillReturnRows(envelopeRows(want))

	got, err := repo.Get(context.Background(), models.CollectionTransactions, "t1")

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEnvelopeRepository_Get_NotFound(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM envelopes WHERE").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), models.CollectionTransactions, "missing")
	assert.ErrorIs(t, err, ErrEnvelopeNotFound)
}

func TestEnvelopeRepository_Get_ScanError(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM envelopes WHERE").
		WillReturnError(errors.New("io"))

	_, err := repo.Get(context.Background(), models.CollectionTransactions, "t1")
	assert.ErrorIs(t, err, ErrScanningRow)
}

func TestEnvelopeRepository_GetAll(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)
	e1, e2 := testEnvelope("t1"), testEnvelope("t2")

	mock.ExpectQuery("SELECT (.+) FROM envelopes WHERE (.+) ORDER BY id").
		WithArgs("transactions").
		WillReturnRows(envelopeRows(e1, e2))

	got, err := repo.GetAll(context.Background(), models.CollectionTransactions)

	require.NoError(t, err)
	assert.Equal(t, []models.Envelope{e1, e2}, got)
}

func TestEnvelopeRepository_GetAll_Empty(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM envelopes").WillReturnRows(envelopeRows())

	got, err := repo.GetAll(context.Background(), models.CollectionBudgets)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEnvelopeRepository_GetAll_QueryError(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM envelopes").WillReturnError(errors.New("boom"))

	_, err := repo.GetAll(context.Background(), models.CollectionBudgets)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestEnvelopeRepository_GetAll_RowError(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)

	rows := envelopeRows(testEnvelope("t1"), testEnvelope("t2")).RowError(1, errors.New("broken row"))
	mock.ExpectQuery("SELECT (.+) FROM envelopes").WillReturnRows(rows)

	_, err := repo.GetAll(context.Background(), models.CollectionTransactions)
	assert.ErrorIs(t, err, ErrScanningRows)
}

func TestEnvelopeRepository_Delete(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)

	mock.ExpectExec("DELETE FROM envelopes WHERE").
		WithArgs("transactions", "t1", "t2").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.Delete(context.Background(), models.CollectionTransactions, "t1", "t2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestEnvelopeRepository_Delete_NoIDs verifies that no statement is issued
// for an empty id list.
func TestEnvelopeRepository_Delete_NoIDs(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)

	require.NoError(t, repo.Delete(context.Background(), models.CollectionTransactions))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnvelopeRepository_Delete_Error(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)

	mock.ExpectExec("DELETE FROM envelopes").WillReturnError(errors.New("locked"))

	err := repo.Delete(context.Background(), models.CollectionTransactions, "t1")
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestEnvelopeRepository_Replace(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)
	e := testEnvelope("t1")

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM envelopes WHERE collection IN").
		WithArgs("transactions", "accounts").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("INSERT INTO envelopes").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Replace(context.Background(),
		[]models.Collection{models.CollectionTransactions, models.CollectionAccounts},
		[]models.Envelope{e},
	)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnvelopeRepository_Replace_InsertFailsRollsBack(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM envelopes").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("INSERT INTO envelopes").WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), models.BackupCollections, []models.Envelope{testEnvelope("t1")})

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnvelopeRepository_Purge(t *testing.T) {
	repo, mock := newTestEnvelopeRepo(t)

	mock.ExpectExec("DELETE FROM envelopes").WillReturnResult(sqlmock.NewResult(0, 10))

	require.NoError(t, repo.Purge(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
