// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

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

// transactionService writes every transaction together with the balance of
// the account it moves, using one store commit per operation.
type transactionService struct {
	store     RecordStore
	ids       IDGenerator
	validator validators.Validator
	logger    *logger.Logger
	now       func() time.Time
}

func NewTransactionService(store RecordStore, ids IDGenerator, validator validators.Validator, logger *logger.Logger) TransactionService {
	return &transactionService{
		store:     store,
		ids:       ids,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// Add stores tx and applies its effect to the account balance.
func (s *transactionService) Add(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if err := s.validator.Validate(ctx, tx); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	account, err := s.account(ctx, tx.AccountID)
	if err != nil {
		return models.Transaction{}, err
	}

	ts := timestamp(s.now())
	tx.ID = s.ids.Generate()
	tx.CreatedAt, tx.UpdatedAt = ts, ts
	if tx.Tags == nil {
		tx.Tags = []string{}
	}

	account = moveBalance(account, effect(tx), ts)

	err = s.store.Commit(ctx, []vault.Write{
		{Collection: models.CollectionTransactions, Entity: tx},
		{Collection: models.CollectionAccounts, Entity: account},
	}, nil)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "transactionService.Add").
		Str("id", tx.ID).
		Str("account", account.ID).
		Msg("transaction added")

	return tx, nil
}

func (s *transactionService) Get(ctx context.Context, id string) (models.Transaction, error) {
	tx, found, err := vault.GetAs[models.Transaction](ctx, s.store, models.CollectionTransactions, id)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("load transaction: %w", err)
	}
	if !found {
		return models.Transaction{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}
	return tx, nil
}

// Update replaces an existing transaction. The old effect is reversed on the
// old account and the new effect applied on the new one; when both are the
// same account only the difference is applied.
func (s *transactionService) Update(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if err := s.validator.Validate(ctx, tx, validators.FieldID, validators.FieldAmount, validators.FieldType,
		validators.FieldCategory, validators.FieldDate, validators.FieldAccountID); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	prev, err := s.Get(ctx, tx.ID)
	if err != nil {
		return models.Transaction{}, err
	}

	ts := timestamp(s.now())
	tx.CreatedAt = prev.CreatedAt
	tx.UpdatedAt = ts
	if tx.Tags == nil {
		tx.Tags = []string{}
	}

	writes := []vault.Write{{Collection: models.CollectionTransactions, Entity: tx}}

	if prev.AccountID == tx.AccountID {
		account, err := s.account(ctx, tx.AccountID)
		if err != nil {
			return models.Transaction{}, err
		}
		account = moveBalance(account, effect(tx).Sub(effect(prev)), ts)
		writes = append(writes, vault.Write{Collection: models.CollectionAccounts, Entity: account})
	} else {
		next, err := s.account(ctx, tx.AccountID)
		if err != nil {
			return models.Transaction{}, err
		}
		writes = append(writes, vault.Write{Collection: models.CollectionAccounts, Entity: moveBalance(next, effect(tx), ts)})

		old, found, err := vault.GetAs[models.Account](ctx, s.store, models.CollectionAccounts, prev.AccountID)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("load account: %w", err)
		}
		if found {
			writes = append(writes, vault.Write{Collection: models.CollectionAccounts, Entity: moveBalance(old, effect(prev).Neg(), ts)})
		}
	}

	if err = s.store.Commit(ctx, writes, nil); err != nil {
		return models.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return tx, nil
}

// Delete removes the transaction and reverses its effect on the account.
// Deleting an absent transaction is not an error. If the account no longer
// exists only the transaction is removed.
func (s *transactionService) Delete(ctx context.Context, id string) error {
	tx, found, err := vault.GetAs[models.Transaction](ctx, s.store, models.CollectionTransactions, id)
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}
	if !found {
		return nil
	}

	account, found, err := vault.GetAs[models.Account](ctx, s.store, models.CollectionAccounts, tx.AccountID)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}

	var writes []vault.Write
	if found {
		account = moveBalance(account, effect(tx).Neg(), timestamp(s.now()))
		writes = append(writes, vault.Write{Collection: models.CollectionAccounts, Entity: account})
	} else {
		logger.FromContext(ctx).Warn().
			Str("func", "transactionService.Delete").
			Str("id", id).
			Str("account", tx.AccountID).
			Msg("transaction account is missing, balance left untouched")
	}

	deletes := []models.EnvelopeKey{{Collection: models.CollectionTransactions, ID: id}}
	if err = s.store.Commit(ctx, writes, deletes); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (s *transactionService) List(ctx context.Context) ([]models.Transaction, error) {
	txs, err := vault.GetAllAs[models.Transaction](ctx, s.store, models.CollectionTransactions)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	slices.SortStableFunc(txs, func(a, b models.Transaction) int {
		return cmp.Or(cmp.Compare(b.Date, a.Date), cmp.Compare(b.CreatedAt, a.CreatedAt))
	})
	return txs, nil
}

// ByDateRange compares dates as strings, so from and to must use the same
// layout as the stored dates.
func (s *transactionService) ByDateRange(ctx context.Context, from, to string) ([]models.Transaction, error) {
	txs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(txs, func(tx models.Transaction) bool {
		return tx.Date < from || tx.Date > to
	}), nil
}

func (s *transactionService) account(ctx context.Context, id string) (models.Account, error) {
	account, found, err := vault.GetAs[models.Account](ctx, s.store, models.CollectionAccounts, id)
	if err != nil {
		return models.Account{}, fmt.Errorf("load account: %w", err)
	}
	if !found {
		return models.Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	return account, nil
}

// effect is the signed amount tx adds to its account balance.
func effect(tx models.Transaction) decimal.Decimal {
	amount := decimal.NewFromFloat(tx.Amount)
	if tx.Type.Credits() {
		return amount
	}
	return amount.Neg()
}

func moveBalance(account models.Account, delta decimal.Decimal, ts string) models.Account {
	account.Balance = decimal.NewFromFloat(account.Balance).Add(delta).InexactFloat64()
	account.UpdatedAt = ts
	return account
}
