package service

import (
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/validators"
)

type Services struct {
	Accounts     AccountService
	Transactions TransactionService
	Budgets      *BudgetService
	Goals        *GoalService
	Recurring    *RecurringService
	Settings     SettingsService
}

func NewServices(store RecordStore, ids IDGenerator, logger *logger.Logger) *Services {
	validator := validators.NewLedgerValidator()

	return &Services{
		Accounts:     NewAccountService(store, ids, validator, logger),
		Transactions: NewTransactionService(store, ids, validator, logger),
		Budgets:      NewBudgetService(store, ids, validator, logger),
		Goals:        NewGoalService(store, ids, validator, logger),
		Recurring:    NewRecurringService(store, ids, validator, logger),
		Settings:     NewSettingsService(store, validator, logger),
	}
}
