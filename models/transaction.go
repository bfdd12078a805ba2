package models

// TransactionType classifies a ledger movement.
type TransactionType string

const (
	TransactionIncome         TransactionType = "income"
	TransactionExpense        TransactionType = "expense"
	TransactionInvestmentBuy  TransactionType = "investment_buy"
	TransactionInvestmentSell TransactionType = "investment_sell"
	TransactionDividend       TransactionType = "dividend"
	TransactionInterest       TransactionType = "interest"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionInvestmentBuy,
		TransactionInvestmentSell, TransactionDividend, TransactionInterest:
		return true
	}
	return false
}

// Credits reports whether the transaction increases the balance of its account.
func (t TransactionType) Credits() bool {
	switch t {
	case TransactionIncome, TransactionInvestmentSell, TransactionDividend, TransactionInterest:
		return true
	}
	return false
}

// Transaction is a single movement of money on an account.
type Transaction struct {
	ID           string          `json:"id"`
	Amount       float64         `json:"amount"`
	Type         TransactionType `json:"type"`
	Category     string          `json:"category"`
	Subcategory  string          `json:"subcategory,omitempty"`
	Description  string          `json:"description"`
	Date         string          `json:"date"`
	Tags         []string        `json:"tags"`
	AccountID    string          `json:"accountId"`
	InvestmentID string          `json:"investmentId,omitempty"`
	CreatedAt    string          `json:"createdAt"`
	UpdatedAt    string          `json:"updatedAt"`
}

func (t Transaction) EntityID() string { return t.ID }
