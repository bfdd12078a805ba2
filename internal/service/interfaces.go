package service

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/MKhiriev/go-finance-keeper/internal/vault"
	"github.com/MKhiriev/go-finance-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// RecordStore is the part of the encrypted store the ledger services use.
type RecordStore interface {
	Put(ctx context.Context, collection models.Collection, entity models.Entity) error
	PutBatch(ctx context.Context, writes ...vault.Write) error
	Commit(ctx context.Context, puts []vault.Write, deletes []models.EnvelopeKey) error
	Get(ctx context.Context, collection models.Collection, id string, dst any) (bool, error)
	GetAll(ctx context.Context, collection models.Collection) ([]json.RawMessage, error)
	Delete(ctx context.Context, collection models.Collection, id string) error
	DeleteByForeignKey(ctx context.Context, collection models.Collection, field, value string) (int, error)
}

// IDGenerator produces record ids.
type IDGenerator interface {
	Generate() string
}

type AccountService interface {
	Create(ctx context.Context, account models.Account) (models.Account, error)
	Get(ctx context.Context, id string) (models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	Update(ctx context.Context, account models.Account) (models.Account, error)
	// Delete removes the account and its transactions and returns how many
	// transactions went with it.
	Delete(ctx context.Context, id string) (int, error)
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
}

// TransactionService keeps every account balance equal to its opening
// balance plus the effect of its transactions.
type TransactionService interface {
	Add(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	Get(ctx context.Context, id string) (models.Transaction, error)
	Update(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	Delete(ctx context.Context, id string) error
	// List returns every transaction, newest date first.
	List(ctx context.Context) ([]models.Transaction, error)
	// ByDateRange returns transactions dated within [from, to], inclusive.
	ByDateRange(ctx context.Context, from, to string) ([]models.Transaction, error)
}

type SettingsService interface {
	// Get returns the stored settings or the defaults if none were saved.
	Get(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, settings models.Settings) (models.Settings, error)
}
