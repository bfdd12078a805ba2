package models

// BudgetPeriod is the window a budget amount applies to.
type BudgetPeriod string

const (
	BudgetWeekly  BudgetPeriod = "weekly"
	BudgetMonthly BudgetPeriod = "monthly"
	BudgetYearly  BudgetPeriod = "yearly"
)

// Valid reports whether p is a known budget period.
func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetWeekly, BudgetMonthly, BudgetYearly:
		return true
	}
	return false
}

// Budget caps spending in one category over a period.
type Budget struct {
	ID             string       `json:"id"`
	CategoryID     string       `json:"categoryId"`
	Amount         float64      `json:"amount"`
	Period         BudgetPeriod `json:"period"`
	Spent          float64      `json:"spent"`
	AlertThreshold float64      `json:"alertThreshold"`
	IsActive       bool         `json:"isActive"`
	CreatedAt      string       `json:"createdAt"`
	UpdatedAt      string       `json:"updatedAt"`
}

func (b Budget) EntityID() string { return b.ID }

func (b *Budget) Stamp(id, createdAt, updatedAt string) {
	b.ID, b.CreatedAt, b.UpdatedAt = id, createdAt, updatedAt
}

func (b Budget) Created() string { return b.CreatedAt }
