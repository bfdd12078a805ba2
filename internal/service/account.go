package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/validators"
	"github.com/MKhiriev/go-finance-keeper/internal/vault"
	"github.com/MKhiriev/go-finance-keeper/models"
)

// DefaultCurrency is used for accounts created without a currency.
const DefaultCurrency = "USD"

type accountService struct {
	store     RecordStore
	ids       IDGenerator
	validator validators.Validator
	logger    *logger.Logger
	now       func() time.Time
}

func NewAccountService(store RecordStore, ids IDGenerator, validator validators.Validator, logger *logger.Logger) AccountService {
	return &accountService{
		store:     store,
		ids:       ids,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *accountService) Create(ctx context.Context, account models.Account) (models.Account, error) {
	if account.Currency == "" {
		account.Currency = DefaultCurrency
	}
	if err := s.validator.Validate(ctx, account); err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	ts := timestamp(s.now())
	account.ID = s.ids.Generate()
	account.CreatedAt, account.UpdatedAt = ts, ts

	if err := s.store.Put(ctx, models.CollectionAccounts, account); err != nil {
		return models.Account{}, fmt.Errorf("save account: %w", err)
	}
	return account, nil
}

func (s *accountService) Get(ctx context.Context, id string) (models.Account, error) {
	account, found, err := vault.GetAs[models.Account](ctx, s.store, models.CollectionAccounts, id)
	if err != nil {
		return models.Account{}, fmt.Errorf("load account: %w", err)
	}
	if !found {
		return models.Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	return account, nil
}

// List returns accounts in creation order.
func (s *accountService) List(ctx context.Context) ([]models.Account, error) {
	accounts, err := vault.GetAllAs[models.Account](ctx, s.store, models.CollectionAccounts)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	slices.SortStableFunc(accounts, func(a, b models.Account) int {
		return cmp.Or(cmp.Compare(a.CreatedAt, b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return accounts, nil
}

// Update replaces the editable fields of an existing account. CreatedAt is
// kept from the stored record.
func (s *accountService) Update(ctx context.Context, account models.Account) (models.Account, error) {
	if err := s.validator.Validate(ctx, account, validators.FieldID, validators.FieldName, validators.FieldType, validators.FieldCurrency); err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	prev, err := s.Get(ctx, account.ID)
	if err != nil {
		return models.Account{}, err
	}

	account.CreatedAt = prev.CreatedAt
	account.UpdatedAt = timestamp(s.now())

	if err = s.store.Put(ctx, models.CollectionAccounts, account); err != nil {
		return models.Account{}, fmt.Errorf("update account: %w", err)
	}
	return account, nil
}

// Delete removes dependent transactions before the account itself, so an
// interrupted delete never leaves transactions pointing at a missing
// account.
func (s *accountService) Delete(ctx context.Context, id string) (int, error) {
	n, err := s.store.DeleteByForeignKey(ctx, models.CollectionTransactions, "accountId", id)
	if err != nil {
		return 0, fmt.Errorf("delete account transactions: %w", err)
	}

	if err = s.store.Delete(ctx, models.CollectionAccounts, id); err != nil {
		return n, fmt.Errorf("delete account: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("func", "accountService.Delete").
		Str("id", id).
		Int("transactions", n).
		Msg("account deleted")

	return n, nil
}

func (s *accountService) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	accounts, err := vault.GetAllAs[models.Account](ctx, s.store, models.CollectionAccounts)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load accounts: %w", err)
	}

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(decimal.NewFromFloat(a.Balance))
	}
	return total, nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format(models.TimestampLayout)
}
