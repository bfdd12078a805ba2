package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-finance-keeper/internal/vault"
)

var (
	ErrValidation = errors.New("validation failed")

	ErrAccountNotFound     = fmt.Errorf("account: %w", vault.ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction: %w", vault.ErrNotFound)
)
