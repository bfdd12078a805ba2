package validators

import (
	"context"
	"time"

	"github.com/MKhiriev/go-finance-keeper/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldID             = "id"
	FieldName           = "name"
	FieldType           = "type"
	FieldCurrency       = "currency"
	FieldBaseCurrency   = "base_currency"
	FieldAmount         = "amount"
	FieldCategory       = "category"
	FieldDate           = "date"
	FieldAccountID      = "account_id"
	FieldPeriod         = "period"
	FieldAlertThreshold = "alert_threshold"
	FieldTargetAmount   = "target_amount"
	FieldCurrentAmount  = "current_amount"
	FieldDeadline       = "deadline"
	FieldPriority       = "priority"
	FieldFrequency      = "frequency"
	FieldNextDate       = "next_date"
	FieldTheme          = "theme"
	FieldPINLength      = "pin_length"
	FieldAutoLock       = "auto_lock"
)

// Themes accepted for [models.Settings] and the plain theme preference.
var allowedThemes = []string{"light", "dark", "system"}

// LedgerValidator implements [Validator] for every record kept in the
// encrypted store. Value and pointer forms are accepted.
type LedgerValidator struct {
}

// NewLedgerValidator constructs a [LedgerValidator].
func NewLedgerValidator() Validator {
	return &LedgerValidator{}
}

// Validate dispatches on the dynamic type of obj. Without fields a default
// set is checked; the default never includes [FieldID] because ids are
// assigned by the services after validation.
//
// Returns ErrUnsupportedType if obj is not a ledger record.
func (v *LedgerValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Account:
		return v.validateAccount(ctx, value, fields...)
	case *models.Account:
		return v.validateAccount(ctx, *value, fields...)

	case models.Transaction:
		return v.validateTransaction(ctx, value, fields...)
	case *models.Transaction:
		return v.validateTransaction(ctx, *value, fields...)

	case models.Budget:
		return v.validateBudget(ctx, value, fields...)
	case *models.Budget:
		return v.validateBudget(ctx, *value, fields...)

	case models.Goal:
		return v.validateGoal(ctx, value, fields...)
	case *models.Goal:
		return v.validateGoal(ctx, *value, fields...)

	case models.RecurringTransaction:
		return v.validateRecurring(ctx, value, fields...)
	case *models.RecurringTransaction:
		return v.validateRecurring(ctx, *value, fields...)

	case models.Settings:
		return v.validateSettings(ctx, value, fields...)
	case *models.Settings:
		return v.validateSettings(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *LedgerValidator) validateAccount(_ context.Context, a models.Account, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldType, FieldCurrency}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if a.ID == "" {
				return ErrInvalidID
			}
		case FieldName:
			if a.Name == "" {
				return ErrEmptyName
			}
		case FieldType:
			if !a.Type.Valid() {
				return ErrInvalidAccountType
			}
		case FieldCurrency:
			if !IsCurrencyCode(a.Currency) {
				return ErrInvalidCurrency
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *LedgerValidator) validateTransaction(_ context.Context, t models.Transaction, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldAmount, FieldType, FieldCategory, FieldDate, FieldAccountID}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if t.ID == "" {
				return ErrInvalidID
			}
		case FieldAmount:
			if t.Amount <= 0 {
				return ErrInvalidAmount
			}
		case FieldType:
			if !t.Type.Valid() {
				return ErrInvalidTransactionType
			}
		case FieldCategory:
			if t.Category == "" {
				return ErrEmptyCategory
			}
		case FieldDate:
			if !IsDate(t.Date) {
				return ErrInvalidDate
			}
		case FieldAccountID:
			if t.AccountID == "" {
				return ErrEmptyAccountID
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *LedgerValidator) validateBudget(_ context.Context, b models.Budget, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCategory, FieldAmount, FieldPeriod, FieldAlertThreshold}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if b.ID == "" {
				return ErrInvalidID
			}
		case FieldCategory:
			if b.CategoryID == "" {
				return ErrEmptyCategory
			}
		case FieldAmount:
			if b.Amount <= 0 {
				return ErrInvalidAmount
			}
		case FieldPeriod:
			if !b.Period.Valid() {
				return ErrInvalidPeriod
			}
		case FieldAlertThreshold:
			if b.AlertThreshold < 0 || b.AlertThreshold > 100 {
				return ErrInvalidThreshold
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *LedgerValidator) validateGoal(_ context.Context, g models.Goal, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldTargetAmount, FieldCurrentAmount, FieldDeadline, FieldPriority}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if g.ID == "" {
				return ErrInvalidID
			}
		case FieldName:
			if g.Name == "" {
				return ErrEmptyName
			}
		case FieldTargetAmount:
			if g.TargetAmount <= 0 {
				return ErrInvalidAmount
			}
		case FieldCurrentAmount:
			if g.CurrentAmount < 0 {
				return ErrInvalidCurrentAmount
			}
		case FieldDeadline:
			if !IsDate(g.Deadline) {
				return ErrInvalidDate
			}
		case FieldPriority:
			if !g.Priority.Valid() {
				return ErrInvalidPriority
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *LedgerValidator) validateRecurring(_ context.Context, r models.RecurringTransaction, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldAmount, FieldType, FieldCategory, FieldFrequency, FieldNextDate, FieldAccountID}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if r.ID == "" {
				return ErrInvalidID
			}
		case FieldAmount:
			if r.Amount <= 0 {
				return ErrInvalidAmount
			}
		case FieldType:
			// schedules only produce plain income or expense entries
			if r.Type != models.TransactionIncome && r.Type != models.TransactionExpense {
				return ErrInvalidTransactionType
			}
		case FieldCategory:
			if r.Category == "" {
				return ErrEmptyCategory
			}
		case FieldFrequency:
			if !r.Frequency.Valid() {
				return ErrInvalidFrequency
			}
		case FieldNextDate:
			if !IsDate(r.NextDate) {
				return ErrInvalidDate
			}
		case FieldAccountID:
			if r.AccountID == "" {
				return ErrEmptyAccountID
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *LedgerValidator) validateSettings(_ context.Context, s models.Settings, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCurrency, FieldBaseCurrency, FieldTheme, FieldPINLength, FieldAutoLock}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if s.ID != models.SettingsID {
				return ErrInvalidID
			}
		case FieldCurrency:
			if !IsCurrencyCode(s.Currency) {
				return ErrInvalidCurrency
			}
		case FieldBaseCurrency:
			if !IsCurrencyCode(s.BaseCurrency) {
				return ErrInvalidCurrency
			}
		case FieldTheme:
			if !IsTheme(s.Theme) {
				return ErrInvalidTheme
			}
		case FieldPINLength:
			if s.PINLength < 4 || s.PINLength > 6 {
				return ErrInvalidPINLength
			}
		case FieldAutoLock:
			if s.AutoLockMinutes < 0 {
				return ErrInvalidAutoLock
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

// IsCurrencyCode reports whether code looks like an ISO 4217 code.
func IsCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// IsDate accepts a calendar date (2006-01-02) or a full RFC 3339 timestamp.
func IsDate(s string) bool {
	if _, err := time.Parse(time.DateOnly, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

// IsTheme reports whether theme is light, dark or system.
func IsTheme(theme string) bool {
	for _, t := range allowedThemes {
		if t == theme {
			return true
		}
	}
	return false
}
