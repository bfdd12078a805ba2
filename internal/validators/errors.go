package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidID              = errors.New("invalid id")
	ErrEmptyName              = errors.New("name is required")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidCurrency        = errors.New("currency must be a three-letter ISO 4217 code")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrEmptyCategory          = errors.New("category is required")
	ErrInvalidDate            = errors.New("invalid date")
	ErrEmptyAccountID         = errors.New("account id is required")
	ErrInvalidPeriod          = errors.New("invalid budget period")
	ErrInvalidThreshold       = errors.New("alert threshold must be between 0 and 100")
	ErrInvalidCurrentAmount   = errors.New("current amount cannot be negative")
	ErrInvalidPriority        = errors.New("invalid goal priority")
	ErrInvalidFrequency       = errors.New("invalid frequency")
	ErrInvalidTheme           = errors.New("invalid theme")
	ErrInvalidPINLength       = errors.New("pin length must be 4, 5 or 6")
	ErrInvalidAutoLock        = errors.New("auto-lock minutes cannot be negative")
)
