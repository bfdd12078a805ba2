package models

// Frequency is how often a recurring transaction repeats.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiWeekly Frequency = "bi-weekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyYearly   Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// RecurringTransaction is a template for transactions that repeat on a
// schedule. Only income and expense types are allowed.
type RecurringTransaction struct {
	ID          string          `json:"id"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Description string          `json:"description"`
	Frequency   Frequency       `json:"frequency"`
	NextDate    string          `json:"nextDate"`
	AccountID   string          `json:"accountId"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

func (r RecurringTransaction) EntityID() string { return r.ID }

func (r *RecurringTransaction) Stamp(id, createdAt, updatedAt string) {
	r.ID, r.CreatedAt, r.UpdatedAt = id, createdAt, updatedAt
}

func (r RecurringTransaction) Created() string { return r.CreatedAt }
