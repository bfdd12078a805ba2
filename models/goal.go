package models

// GoalPriority ranks savings goals.
type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

// Valid reports whether p is a known priority.
func (p GoalPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Goal is a savings target.
type Goal struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	TargetAmount  float64      `json:"targetAmount"`
	CurrentAmount float64      `json:"currentAmount"`
	Deadline      string       `json:"deadline"`
	Description   string       `json:"description,omitempty"`
	Priority      GoalPriority `json:"priority"`
	IsCompleted   bool         `json:"isCompleted"`
	CreatedAt     string       `json:"createdAt"`
	UpdatedAt     string       `json:"updatedAt"`
}

func (g Goal) EntityID() string { return g.ID }

func (g *Goal) Stamp(id, createdAt, updatedAt string) {
	g.ID, g.CreatedAt, g.UpdatedAt = id, createdAt, updatedAt
}

func (g Goal) Created() string { return g.CreatedAt }
